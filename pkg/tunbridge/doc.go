// Package tunbridge starts, stops and frees packet tunnels run by an engine
// that lives on the other side of a C boundary.
//
// The engine is located lazily by name (libgo_native_bridge.so by default) the
// first time an operation needs it. Tunnels are identified by opaque positive
// Handle values owned by the engine. Text returned by the engine is copied into
// Go memory and handed back to the engine exactly once.
//
// No operation panics or returns a Go error on the boundary surface. Failures
// are encoded in the result: StartTunnel returns InvalidHandle (-1), and
// StopTunnel and FreeTunnel return one of the reserved literals
// ResultInvalidHandle, ResultBridgeUnavailable or ResultNullResponse, or the
// engine's own text. ResultError converts a result into a Go error for callers
// that prefer one, and Session wraps the whole lifecycle:
//
//	b := tunbridge.New(tunbridge.Config{})
//	s, err := b.OpenSession(configJSON, int32(tunFile.Fd()))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// All operations are synchronous and safe for concurrent use.
package tunbridge
