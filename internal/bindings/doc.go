// Package bindings is the thin cgo layer that locates the packet tunnel
// engine at runtime with dlopen/dlsym and calls its C entry points. The real
// implementation lives behind build tags so that the rest of the repository
// compiles without cgo; in that case Open reports ErrNotBuilt.
package bindings
