// Package host runs arcs. An ArcHost owns the arcs started on it, attaches
// their stores and loads the particles of each partition it receives; a
// Factory tells the allocator which particles a host accepts.
package host
