// Package idgen generates session scoped identifiers for arcs, handles and
// stores. It lives under `internal` because callers should treat identifiers
// as opaque strings and must not rely on their exact shape.
package idgen
