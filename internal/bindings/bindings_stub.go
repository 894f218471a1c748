//go:build !cgo || windows

package bindings

import "unsafe"

// Stub implementations for non-cgo builds or Windows. Open always fails with
// ErrNotBuilt, so the Library methods are never reached.

type Library struct{}

func Open(Config) (*Library, error) {
	return nil, ErrNotBuilt
}

func (l *Library) Name() string { return "" }

func (l *Library) HasSubmit() bool { return false }

func (l *Library) StartTunnelWithFd(string, int32) int64 { return -1 }

func (l *Library) StopTunnel(int64) unsafe.Pointer { return nil }

func (l *Library) FreeTunnel(int64) unsafe.Pointer { return nil }

func (l *Library) FreeCString(unsafe.Pointer) {}

func (l *Library) SubmitInboundPacket(int64, []byte, int32) int32 { return -1 }

func CopyCString(unsafe.Pointer) string { return "" }
