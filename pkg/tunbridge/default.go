package tunbridge

import "sync"

var (
	defaultOnce   sync.Once
	defaultBridge *Bridge
)

// Default returns the process-wide Bridge, created on first use with the zero
// Config: the engine is loaded from DefaultLibraryName and a failed load is
// not retried.
func Default() *Bridge {
	defaultOnce.Do(func() {
		defaultBridge = New(Config{})
	})
	return defaultBridge
}

// StartTunnel calls Default().StartTunnel.
func StartTunnel(config string, fd int32) Handle { return Default().StartTunnel(config, fd) }

// StopTunnel calls Default().StopTunnel.
func StopTunnel(h Handle) string { return Default().StopTunnel(h) }

// FreeTunnel calls Default().FreeTunnel.
func FreeTunnel(h Handle) string { return Default().FreeTunnel(h) }

// SubmitPacket calls Default().SubmitPacket.
func SubmitPacket(h Handle, pkt []byte, protocol ProtocolTag) int32 {
	return Default().SubmitPacket(h, pkt, protocol)
}

// Available calls Default().Available.
func Available() bool { return Default().Available() }
