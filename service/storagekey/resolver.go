// Package storagekey resolves capability requirements of plan handles into
// protocol qualified storage keys produced by registered factories.
package storagekey

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/arcs/model/capability"
	"github.com/viant/arcs/model/types"
)

// Resolver creates storage keys for the handles of one arc.
type Resolver struct {
	registry      *Registry
	selector      Selector
	referenceMode bool
	logger        zerolog.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(r *Resolver)

// WithSelector overrides the default PreferenceSelector.
func WithSelector(selector Selector) ResolverOption {
	return func(r *Resolver) { r.selector = selector }
}

// WithReferenceMode wraps non reference handles into reference mode keys.
func WithReferenceMode(enabled bool) ResolverOption {
	return func(r *Resolver) { r.referenceMode = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// NewResolver creates a resolver over registry.
func NewResolver(registry *Registry, options ...ResolverOption) *Resolver {
	ret := &Resolver{registry: registry, selector: NewPreferenceSelector(), logger: zerolog.Nop()}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Registry returns the underlying registry.
func (r *Resolver) Registry() *Registry { return r.registry }

// Matching returns the factories whose capabilities contain requested, in
// registration order.
func (r *Resolver) Matching(requested capability.Capabilities) []Factory {
	var ret []Factory
	for _, f := range r.registry.Factories() {
		if f.Capabilities().Contains(requested) {
			ret = append(ret, f)
		}
	}
	return ret
}

// CreateStorageKey returns a key for handleID of type aType in arcID, built by
// a factory satisfying requested.
func (r *Resolver) CreateStorageKey(ctx context.Context, arcID string, requested capability.Capabilities, aType *types.Type, handleID string) (StorageKey, error) {
	candidates := r.Matching(requested)
	if len(candidates) == 0 {
		return nil, &UnsatisfiableCapabilityError{HandleID: handleID, Capabilities: requested}
	}
	selected := r.selector.Select(candidates)
	if selected == nil {
		return nil, &UnsatisfiableCapabilityError{HandleID: handleID, Capabilities: requested}
	}
	schema, err := aType.EntitySchema()
	if err != nil {
		return nil, fmt.Errorf("failed to create storage key for handle %v: %w", handleID, err)
	}
	schemaHash := schema.Hash()
	container := selected.Create(Options{ArcID: arcID, SchemaHash: schemaHash, Location: arcID})
	key := container.Child(handleID)
	if r.referenceMode && !aType.IsReference() {
		backing := selected.Create(Options{ArcID: arcID, SchemaHash: schemaHash, Location: "entities/" + schemaHash})
		key = &ReferenceModeKey{Backing: backing, Storage: key}
	}
	r.logger.Debug().Str("arc", arcID).Str("handle", handleID).Str("protocol", selected.Protocol()).Str("key", key.String()).Msg("created storage key")
	return key, nil
}
