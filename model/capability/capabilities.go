package capability

import (
	"fmt"
	"sort"
	"strings"
)

// Capabilities is an immutable set of capabilities keyed by tag.
type Capabilities struct {
	items map[string]Capability
}

// New creates a set; a later capability with a repeated tag replaces the earlier one.
func New(capabilities ...Capability) Capabilities {
	ret := Capabilities{items: make(map[string]Capability, len(capabilities))}
	for _, c := range capabilities {
		if c == nil {
			continue
		}
		ret.items[c.Tag()] = c
	}
	return ret
}

// Get returns the capability for tag.
func (c Capabilities) Get(tag string) (Capability, bool) {
	ret, ok := c.items[tag]
	return ret, ok
}

// IsEmpty reports whether the set has no capabilities.
func (c Capabilities) IsEmpty() bool { return len(c.items) == 0 }

// Len returns the number of capabilities.
func (c Capabilities) Len() int { return len(c.items) }

// Tags returns the sorted capability tags.
func (c Capabilities) Tags() []string {
	ret := make([]string, 0, len(c.items))
	for tag := range c.items {
		ret = append(ret, tag)
	}
	sort.Strings(ret)
	return ret
}

// Contains reports whether every capability in requested is satisfied by
// this set. A requested tag missing from the set is not satisfied.
func (c Capabilities) Contains(requested Capabilities) bool {
	for tag, want := range requested.items {
		have, ok := c.items[tag]
		if !ok {
			return false
		}
		if !ToRange(have).Contains(want) {
			return false
		}
	}
	return true
}

// Persistence returns the persistence requirement, Unrestricted when absent.
func (c Capabilities) Persistence() Persistence {
	if p, ok := c.items[TagPersistence]; ok {
		switch actual := p.(type) {
		case Persistence:
			return actual
		case Range:
			return actual.Max.(Persistence)
		}
	}
	return Unrestricted
}

// Annotations renders the set back into annotation form.
func (c Capabilities) Annotations() []string {
	var ret []string
	for _, tag := range c.Tags() {
		ret = append(ret, c.items[tag].String())
	}
	return ret
}

func (c Capabilities) String() string {
	return "{" + strings.Join(c.Annotations(), ", ") + "}"
}

// MarshalYAML encodes the set as a list of annotations.
func (c Capabilities) MarshalYAML() (interface{}, error) {
	return c.Annotations(), nil
}

// UnmarshalYAML decodes a list of annotations.
func (c *Capabilities) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var annotations []string
	if err := unmarshal(&annotations); err != nil {
		return err
	}
	parsed, err := FromAnnotations(annotations...)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromAnnotations parses handle annotations into capabilities.
func FromAnnotations(annotations ...string) (Capabilities, error) {
	var persistence []Persistence
	var capabilities []Capability
	for _, annotation := range annotations {
		name := strings.TrimSpace(annotation)
		value := ""
		if idx := strings.Index(name, ":"); idx != -1 {
			name, value = name[:idx], strings.TrimSpace(name[idx+1:])
		}
		negated := strings.HasPrefix(name, "!")
		name = strings.TrimPrefix(name, "!")
		switch name {
		case "persistent", "onDisk":
			persistence = append(persistence, OnDisk)
		case "inMemory", "tiedToArc", "tiedToRuntime":
			persistence = append(persistence, InMemory)
		case "unrestricted":
			persistence = append(persistence, Unrestricted)
		case "none":
			persistence = append(persistence, NoPersistence)
		case TagTtl:
			ttl, err := ParseTtl(value)
			if err != nil {
				return Capabilities{}, err
			}
			capabilities = append(capabilities, ttl)
		case "encrypted", TagEncryption:
			capabilities = append(capabilities, NewEncryption(!negated))
		case TagQueryable:
			capabilities = append(capabilities, NewQueryable(!negated))
		case TagShareable:
			capabilities = append(capabilities, NewShareable(!negated))
		case "":
		default:
			return Capabilities{}, fmt.Errorf("unknown capability annotation %q", annotation)
		}
	}
	if len(persistence) > 1 {
		return Capabilities{}, fmt.Errorf("multiple persistence capabilities: %v", annotations)
	}
	if len(persistence) == 1 {
		capabilities = append(capabilities, persistence[0])
	}
	return New(capabilities...), nil
}
