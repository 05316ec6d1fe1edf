package plan

import (
	"github.com/viant/arcs/model/capability"
	"github.com/viant/arcs/model/types"
)

// Fate describes how a handle obtains its storage.
type Fate string

const (
	FateCreate  Fate = "create"
	FateCopy    Fate = "copy"
	FateUse     Fate = "use"
	FateMap     Fate = "map"
	FateUnknown Fate = "?"
)

// NeedsStorageKey reports whether the allocator must assign a key.
func (f Fate) NeedsStorageKey() bool {
	return f == FateCreate || f == FateCopy
}

// Handle is a typed data connection point shared by particles.
type Handle struct {
	ID             string                  `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string                  `json:"name" yaml:"name"`
	Fate           Fate                    `json:"fate" yaml:"fate"`
	Type           *types.Type             `json:"type,omitempty" yaml:"type,omitempty"`
	Capabilities   capability.Capabilities `json:"-" yaml:"capabilities,omitempty"`
	StorageKey     string                  `json:"storageKey,omitempty" yaml:"storageKey,omitempty"`
	ImmediateValue bool                    `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	Tags           []string                `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Clone returns a deep copy.
func (h *Handle) Clone() *Handle {
	if h == nil {
		return nil
	}
	ret := *h
	ret.Type = h.Type.Clone()
	ret.Tags = append([]string(nil), h.Tags...)
	return &ret
}

// HasTag reports whether tag is attached to the handle.
func (h *Handle) HasTag(tag string) bool {
	for _, candidate := range h.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}

// Key returns the handle identity used for lookups: its id, or its name
// when no id has been assigned yet.
func (h *Handle) Key() string {
	if h.ID != "" {
		return h.ID
	}
	return h.Name
}
