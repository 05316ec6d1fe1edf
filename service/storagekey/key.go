package storagekey

import (
	"fmt"
	"strings"
)

// Protocols of the built-in keys.
const (
	ProtocolVolatile       = "volatile"
	ProtocolRamDisk        = "ramdisk"
	ProtocolDatabase       = "db"
	ProtocolMemoryDatabase = "memdb"
	ProtocolReferenceMode  = "reference-mode"
)

// DefaultDBName is the database name used when none is configured.
const DefaultDBName = "arcs"

// StorageKey is an opaque, protocol qualified address of a persisted resource.
type StorageKey interface {
	Protocol() string
	// Child returns a key nested under the receiver.
	Child(component string) StorageKey
	// String returns "<protocol>://<body>".
	String() string
}

func joinPath(base, component string) string {
	if base == "" {
		return component
	}
	if component == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + component
}

// VolatileKey addresses in-memory data tied to one arc.
type VolatileKey struct {
	ArcID string
	Path  string
}

func (k *VolatileKey) Protocol() string { return ProtocolVolatile }

func (k *VolatileKey) Child(component string) StorageKey {
	return &VolatileKey{ArcID: k.ArcID, Path: joinPath(k.Path, component)}
}

func (k *VolatileKey) String() string {
	return ProtocolVolatile + "://" + k.ArcID + "/" + k.Path
}

// RamDiskKey addresses in-memory data shared by the whole runtime.
type RamDiskKey struct {
	Path string
}

func (k *RamDiskKey) Protocol() string { return ProtocolRamDisk }

func (k *RamDiskKey) Child(component string) StorageKey {
	return &RamDiskKey{Path: joinPath(k.Path, component)}
}

func (k *RamDiskKey) String() string { return ProtocolRamDisk + "://" + k.Path }

// DatabaseKey addresses data managed by a database driver, either on disk
// (Persistent) or in memory.
type DatabaseKey struct {
	Persistent bool
	SchemaHash string
	DBName     string
	Path       string
}

func (k *DatabaseKey) Protocol() string {
	if k.Persistent {
		return ProtocolDatabase
	}
	return ProtocolMemoryDatabase
}

func (k *DatabaseKey) Child(component string) StorageKey {
	ret := *k
	ret.Path = joinPath(k.Path, component)
	return &ret
}

func (k *DatabaseKey) String() string {
	return k.Protocol() + "://" + k.SchemaHash + "@" + k.DBName + "/" + k.Path
}

// ReferenceModeKey pairs a backing key holding entities with a storage key
// holding references to them.
type ReferenceModeKey struct {
	Backing StorageKey
	Storage StorageKey
}

func (k *ReferenceModeKey) Protocol() string { return ProtocolReferenceMode }

// Child nests the storage key only; the backing store is shared.
func (k *ReferenceModeKey) Child(component string) StorageKey {
	return &ReferenceModeKey{Backing: k.Backing, Storage: k.Storage.Child(component)}
}

func (k *ReferenceModeKey) String() string {
	return fmt.Sprintf("%v://{%v}{%v}", ProtocolReferenceMode, k.Backing, k.Storage)
}
