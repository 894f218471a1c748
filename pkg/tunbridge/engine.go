package tunbridge

import "unsafe"

// Text points at a NUL-terminated buffer allocated by the engine. The zero
// Text is a null response. A Text must be read and released exactly once,
// which Bridge does on the caller's behalf.
type Text struct {
	ptr unsafe.Pointer
}

// TextAt wraps an engine-owned buffer address.
func TextAt(p unsafe.Pointer) Text { return Text{ptr: p} }

// IsNull reports whether the engine returned no text.
func (t Text) IsNull() bool { return t.ptr == nil }

// Pointer returns the engine buffer address.
func (t Text) Pointer() unsafe.Pointer { return t.ptr }

// Engine is a resolved set of engine entry points. Implementations must be
// safe for concurrent use.
type Engine interface {
	// StartTunnelWithFd starts a tunnel on an already-open interface
	// descriptor and returns its handle; non-positive values mean failure.
	StartTunnelWithFd(config string, fd int32) int64

	// StopTunnel and FreeTunnel return engine-owned text.
	StopTunnel(handle int64) Text
	FreeTunnel(handle int64) Text

	// ReadText copies the content of t without releasing it.
	ReadText(t Text) string

	// ReleaseText hands t back to the engine.
	ReleaseText(t Text)

	// SubmitInboundPacket lends data to the engine for the duration of the
	// call. ok is false when the engine does not export the entry point.
	SubmitInboundPacket(handle int64, data []byte, protocol int32) (status int32, ok bool)
}

// Loader locates an engine and resolves its entry points. An error means the
// binding is unavailable.
type Loader interface {
	Load() (Engine, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func() (Engine, error)

func (f LoaderFunc) Load() (Engine, error) { return f() }

// submitter is implemented by engines that can report whether
// SubmitInboundPacket is exported without calling it.
type submitter interface {
	HasSubmit() bool
}

// namer is implemented by engines that know where they were loaded from.
type namer interface {
	Name() string
}
