package storagekey

import "github.com/viant/arcs/model/capability"

// Options carry what a factory needs to build a container key.
type Options struct {
	ArcID      string
	SchemaHash string
	Location   string
}

// Factory builds keys of one protocol and advertises the maximal set of
// capabilities those keys satisfy.
type Factory interface {
	Protocol() string
	Capabilities() capability.Capabilities
	Create(options Options) StorageKey
}

type factory struct {
	protocol     string
	capabilities capability.Capabilities
	create       func(options Options) StorageKey
}

func (f *factory) Protocol() string                      { return f.protocol }
func (f *factory) Capabilities() capability.Capabilities { return f.capabilities }
func (f *factory) Create(options Options) StorageKey     { return f.create(options) }

// NewFactory creates a factory from a constructor function.
func NewFactory(protocol string, capabilities capability.Capabilities, create func(options Options) StorageKey) Factory {
	return &factory{protocol: protocol, capabilities: capabilities, create: create}
}

// NewVolatileFactory creates arc scoped in-memory keys.
func NewVolatileFactory() Factory {
	return NewFactory(ProtocolVolatile,
		capability.New(capability.InMemory, capability.AnyTtl, capability.NewQueryable(false), capability.NewShareable(false)),
		func(options Options) StorageKey {
			path := options.Location
			if path == options.ArcID {
				path = ""
			}
			return &VolatileKey{ArcID: options.ArcID, Path: path}
		})
}

// NewRamDiskFactory creates runtime scoped in-memory keys.
func NewRamDiskFactory() Factory {
	return NewFactory(ProtocolRamDisk,
		capability.New(capability.InMemory, capability.AnyTtl, capability.NewQueryable(false), capability.AnyShareable),
		func(options Options) StorageKey {
			return &RamDiskKey{Path: options.Location}
		})
}

// NewDatabaseFactory creates on-disk database keys.
func NewDatabaseFactory(dbName string) Factory {
	if dbName == "" {
		dbName = DefaultDBName
	}
	return NewFactory(ProtocolDatabase,
		capability.New(capability.OnDisk, capability.AnyTtl, capability.AnyQueryable, capability.AnyShareable),
		func(options Options) StorageKey {
			return &DatabaseKey{Persistent: true, SchemaHash: options.SchemaHash, DBName: dbName, Path: options.Location}
		})
}

// NewMemoryDatabaseFactory creates in-memory database keys.
func NewMemoryDatabaseFactory(dbName string) Factory {
	if dbName == "" {
		dbName = DefaultDBName
	}
	return NewFactory(ProtocolMemoryDatabase,
		capability.New(capability.InMemory, capability.AnyTtl, capability.AnyQueryable, capability.AnyShareable),
		func(options Options) StorageKey {
			return &DatabaseKey{SchemaHash: options.SchemaHash, DBName: dbName, Path: options.Location}
		})
}
