// Package enginetest provides an in-process tunnel engine for tests and
// examples.
//
// Engine implements tunbridge.Engine without a shared library. By default it
// behaves like the real engine: StartTunnelWithFd allocates increasing
// handles, StopTunnel and FreeTunnel answer "success" or an "error:..." text,
// and SubmitInboundPacket accepts packets for known handles. Every answer can
// be scripted, including null responses.
//
// Every text the engine hands out is tracked until it is released, so tests
// can assert that each non-null response is released exactly once:
//
//	eng := enginetest.New(enginetest.WithStop(func(int64) enginetest.Response {
//	    return enginetest.Reply("stopped")
//	}))
//	loader := enginetest.NewLoader(eng)
//	b := tunbridge.New(tunbridge.Config{Loader: loader})
//
//	b.StopTunnel(42)
//	// eng.Releases() == 1, eng.Outstanding() == 0, loader.Calls() == 1
//
// # Limitations
//
// The engine forwards no packets and ignores the descriptor. It is meant for
// exercising the boundary contract only.
package enginetest
