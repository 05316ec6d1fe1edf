// Package pool keeps reusable workers in two disjoint sets, suspended and in
// use, and grows the pool on demand as decided by a sizing Policy capped at
// a fixed number of workers.
package pool
