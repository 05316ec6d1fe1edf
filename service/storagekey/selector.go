package storagekey

import "sort"

// DefaultPreference orders protocols from least to most restrictive.
var DefaultPreference = []string{ProtocolVolatile, ProtocolRamDisk, ProtocolMemoryDatabase, ProtocolDatabase}

// Selector picks one factory among those satisfying a request.
type Selector interface {
	Select(candidates []Factory) Factory
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(candidates []Factory) Factory

func (f SelectorFunc) Select(candidates []Factory) Factory { return f(candidates) }

// PreferenceSelector ranks candidates by a protocol preference order. Protocols
// missing from the order rank after listed ones, least restrictive
// persistence first, then by protocol name.
type PreferenceSelector struct {
	Order []string
}

// NewPreferenceSelector creates a selector; an empty order uses DefaultPreference.
func NewPreferenceSelector(order ...string) *PreferenceSelector {
	if len(order) == 0 {
		order = DefaultPreference
	}
	return &PreferenceSelector{Order: append([]string(nil), order...)}
}

func (s *PreferenceSelector) rank(protocol string) int {
	for i, candidate := range s.Order {
		if candidate == protocol {
			return i
		}
	}
	return len(s.Order)
}

// Select returns the best ranked candidate or nil when there are none.
func (s *PreferenceSelector) Select(candidates []Factory) Factory {
	if len(candidates) == 0 {
		return nil
	}
	sorted := append([]Factory(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := s.rank(sorted[i].Protocol()), s.rank(sorted[j].Protocol())
		if ri != rj {
			return ri < rj
		}
		pi := sorted[i].Capabilities().Persistence().Kind
		pj := sorted[j].Capabilities().Persistence().Kind
		if pi != pj {
			return pi > pj
		}
		return sorted[i].Protocol() < sorted[j].Protocol()
	})
	return sorted[0]
}
