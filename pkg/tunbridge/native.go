package tunbridge

import (
	"github.com/xstream/tunbridge/internal/bindings"
)

// DefaultLibraryName is the well-known file name of the engine library.
const DefaultLibraryName = bindings.DefaultLibraryName

// Entry point names resolved from the engine library.
const (
	SymbolStartTunnelWithFd   = bindings.SymStartTunnelWithFd
	SymbolStopTunnel          = bindings.SymStopTunnel
	SymbolFreeTunnel          = bindings.SymFreeTunnel
	SymbolFreeCString         = bindings.SymFreeCString
	SymbolSubmitInboundPacket = bindings.SymSubmitInboundPacket
)

// NativeLoader resolves the engine from a shared library with dlopen/dlsym.
// In builds without cgo Load always fails with ErrNotBuilt.
type NativeLoader struct {
	// LibraryName is passed to dlopen. Empty means DefaultLibraryName.
	LibraryName string

	// SearchProcess resolves the entry points from the running executable.
	SearchProcess bool
}

// Load opens the library and resolves the four required entry points.
func (n NativeLoader) Load() (Engine, error) {
	lib, err := bindings.Open(bindings.Config{Name: n.LibraryName, SearchProcess: n.SearchProcess})
	if err != nil {
		return nil, err
	}
	return &nativeEngine{lib: lib}, nil
}

type nativeEngine struct {
	lib *bindings.Library
}

func (e *nativeEngine) StartTunnelWithFd(config string, fd int32) int64 {
	return e.lib.StartTunnelWithFd(config, fd)
}

func (e *nativeEngine) StopTunnel(handle int64) Text {
	return TextAt(e.lib.StopTunnel(handle))
}

func (e *nativeEngine) FreeTunnel(handle int64) Text {
	return TextAt(e.lib.FreeTunnel(handle))
}

func (e *nativeEngine) ReadText(t Text) string {
	return bindings.CopyCString(t.Pointer())
}

func (e *nativeEngine) ReleaseText(t Text) {
	e.lib.FreeCString(t.Pointer())
}

func (e *nativeEngine) SubmitInboundPacket(handle int64, data []byte, protocol int32) (int32, bool) {
	if !e.lib.HasSubmit() {
		return 0, false
	}
	return e.lib.SubmitInboundPacket(handle, data, protocol), true
}

func (e *nativeEngine) HasSubmit() bool { return e.lib.HasSubmit() }

func (e *nativeEngine) Name() string { return e.lib.Name() }
