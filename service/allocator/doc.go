// Package allocator tracks the arcs of a runtime, partitions the particles
// of a plan across registered host factories, assigns storage keys to the
// handles a plan creates and drives host start and stop, including the
// recursive teardown of inner arcs.
package allocator
