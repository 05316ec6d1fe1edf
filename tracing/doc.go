// Package tracing wraps OpenTelemetry so allocator and host operations can
// open spans without importing the upstream packages directly.
package tracing
