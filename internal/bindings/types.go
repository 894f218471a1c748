package bindings

import (
	"errors"
	"fmt"
)

// Entry point names exported by the engine library.
const (
	SymStartTunnelWithFd   = "StartXrayTunnelWithFd"
	SymStopTunnel          = "StopXrayTunnel"
	SymFreeTunnel          = "FreeXrayTunnel"
	SymFreeCString         = "FreeCString"
	SymSubmitInboundPacket = "SubmitInboundPacket"
)

// DefaultLibraryName is the well-known file name of the engine library.
const DefaultLibraryName = "libgo_native_bridge.so"

// processImageName is reported as the library name when symbols are looked up
// in the running executable instead of a separate shared object.
const processImageName = "(process image)"

// Config selects the shared object the engine entry points are resolved from.
type Config struct {
	// Name is passed to dlopen. Empty means DefaultLibraryName.
	Name string

	// SearchProcess resolves the entry points from the running process image
	// (dlopen(NULL)) instead of opening Name. This is the layout of an app
	// extension that links the engine statically.
	SearchProcess bool
}

func (c Config) libraryName() string {
	if c.SearchProcess {
		return processImageName
	}
	if c.Name == "" {
		return DefaultLibraryName
	}
	return c.Name
}

var (
	// ErrNotBuilt reports that the native loader was not compiled into the
	// current binary (cgo disabled or Windows).
	ErrNotBuilt = errors.New("tunbridge/internal/bindings: native bindings not built")

	// ErrLibraryNotFound reports that dlopen could not locate the engine.
	ErrLibraryNotFound = errors.New("tunbridge/internal/bindings: engine library not found")

	// ErrSymbolMissing reports that the engine library was loaded but one of
	// the required entry points is not exported.
	ErrSymbolMissing = errors.New("tunbridge/internal/bindings: engine symbol missing")
)

// SymbolError names the entry point that could not be resolved.
type SymbolError struct {
	Library string
	Symbol  string
	Detail  string
}

func (e *SymbolError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v: %s in %s", ErrSymbolMissing, e.Symbol, e.Library)
	}
	return fmt.Sprintf("%v: %s in %s: %s", ErrSymbolMissing, e.Symbol, e.Library, e.Detail)
}

func (e *SymbolError) Unwrap() error { return ErrSymbolMissing }
