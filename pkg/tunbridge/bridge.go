package tunbridge

import (
	"context"
	"math"
	"strings"

	"github.com/xstream/tunbridge/pkg/tunbridge/logging"
)

// Status codes of SubmitPacket produced locally, without calling the engine.
// Any other value is the engine's own status.
const (
	SubmitAccepted      int32 = 0
	SubmitInvalidHandle int32 = -1
	SubmitInvalidBuffer int32 = -2
	SubmitUnavailable   int32 = -3
)

// Bridge runs tunnel lifecycle operations against a lazily resolved engine.
// It is safe for concurrent use.
type Bridge struct {
	res     *resolver
	logger  logging.Logger
	library string
}

// New returns a Bridge. Nothing is loaded until the first operation.
func New(cfg Config) *Bridge {
	logger := cfg.logger()
	return &Bridge{
		res:     newResolver(cfg.loader(), cfg.RetryUnavailable, logger),
		logger:  logger,
		library: cfg.libraryName(),
	}
}

// StartTunnel starts a tunnel on an already-open interface descriptor and
// returns the engine's handle verbatim. It returns InvalidHandle without
// touching the engine when config is empty or contains a NUL byte (it could
// not cross the C boundary intact) or fd <= 0, and InvalidHandle when the
// engine cannot be resolved.
//
// The descriptor stays owned by the caller, who must keep it open and must not
// close it while the tunnel is active.
func (b *Bridge) StartTunnel(config string, fd int32) Handle {
	ctx := context.Background()
	if !validConfig(config) || fd <= 0 {
		b.logger.Debug(ctx, "start rejected", "fd", fd, "empty_config", config == "")
		return InvalidHandle
	}
	eng, ok := b.res.ensure()
	if !ok {
		return InvalidHandle
	}

	h := Handle(eng.StartTunnelWithFd(config, fd))
	b.logger.Info(ctx, "tunnel start returned", "handle", int64(h), "fd", fd, logging.Redacted("config"))
	return h
}

// StopTunnel asks the engine to stop the tunnel and returns its text. Stopping
// an already stopped tunnel is reported by the engine, not by the bridge.
func (b *Bridge) StopTunnel(h Handle) string {
	return b.textCall(h, "stop", Engine.StopTunnel)
}

// FreeTunnel releases the engine resources behind h. h must not be used after
// a successful free. Ordering against StopTunnel is the engine's concern.
func (b *Bridge) FreeTunnel(h Handle) string {
	return b.textCall(h, "free", Engine.FreeTunnel)
}

// validConfig reports whether config can be handed to the engine as a
// NUL-terminated string without truncation.
func validConfig(config string) bool {
	return config != "" && strings.IndexByte(config, 0) < 0
}

func (b *Bridge) textCall(h Handle, op string, call func(Engine, int64) Text) string {
	if !h.Valid() {
		return ResultInvalidHandle
	}
	eng, ok := b.res.ensure()
	if !ok {
		return ResultBridgeUnavailable
	}

	out, err := own(eng, call(eng, int64(h))).take()
	if err != nil {
		// Unreachable: the text is owned by this call only.
		return ResultNullResponse
	}
	b.logger.Info(context.Background(), "tunnel "+op+" returned", "handle", int64(h), "result", out)
	return out
}

// SubmitPacket lends pkt to the engine for the duration of the call. It
// returns SubmitAccepted (0) on acceptance and a negative status otherwise;
// see the Submit* constants for the statuses produced without an engine call.
func (b *Bridge) SubmitPacket(h Handle, pkt []byte, protocol ProtocolTag) int32 {
	if !h.Valid() {
		return SubmitInvalidHandle
	}
	if len(pkt) == 0 || len(pkt) > math.MaxInt32 {
		return SubmitInvalidBuffer
	}
	eng, ok := b.res.ensure()
	if !ok {
		return SubmitUnavailable
	}
	status, ok := eng.SubmitInboundPacket(int64(h), pkt, int32(protocol))
	if !ok {
		return SubmitUnavailable
	}
	return status
}

// Available reports whether the engine binding resolves, loading it if this
// is the first use.
func (b *Bridge) Available() bool {
	_, ok := b.res.ensure()
	return ok
}

// ProbeReport describes the state of the engine binding.
type ProbeReport struct {
	Library   string `json:"library"`
	Available bool   `json:"available"`
	Submit    bool   `json:"submit"`
	Attempts  int64  `json:"attempts"`
	Error     string `json:"error,omitempty"`
}

// Probe resolves the engine if needed and reports the outcome.
func (b *Bridge) Probe() ProbeReport {
	eng, ok := b.res.ensure()
	r := ProbeReport{
		Library:   b.library,
		Available: ok,
		Attempts:  b.res.attempts.Load(),
	}
	if err := b.res.lastError(); err != nil {
		r.Error = err.Error()
	}
	if !ok {
		return r
	}
	if n, isNamer := eng.(namer); isNamer {
		r.Library = n.Name()
	}
	if s, isSubmitter := eng.(submitter); isSubmitter {
		r.Submit = s.HasSubmit()
	} else {
		r.Submit = true
	}
	return r
}
