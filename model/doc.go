// Package model contains the in-memory representation of execution plans,
// arcs and supporting types used by the arcs allocator.
//
// A plan is typically loaded from a YAML or JSON document into the structures
// defined in the `plan`, `types` and `capability` sub-packages, while `arc`
// holds the allocator's bookkeeping for running instances of those plans.
package model
