package tunbridge

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/xstream/tunbridge/pkg/tunbridge/logging"
)

// SessionState is the lifecycle state of a Session.
type SessionState int

const (
	SessionOpen SessionState = iota + 1
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionClosed:
		return "closed"
	}
	return "unknown"
}

// Session owns one running tunnel. Close stops and then frees it exactly
// once, the teardown order used by the platform tunnel services.
type Session struct {
	id        string
	bridge    *Bridge
	handle    Handle
	fd        int32
	startedAt time.Time
	logger    logging.Logger

	closeOnce  sync.Once
	mu         sync.Mutex
	state      SessionState
	closedAt   time.Time
	stopResult string
	freeResult string
	closeErr   error
}

// OpenSession starts a tunnel and wraps its handle. Unlike StartTunnel it
// returns an error describing why no tunnel is running.
func (b *Bridge) OpenSession(config string, fd int32) (*Session, error) {
	switch {
	case !validConfig(config):
		return nil, ErrInvalidConfig
	case fd <= 0:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDescriptor, fd)
	}

	h := b.StartTunnel(config, fd)
	if !h.Valid() {
		if !b.Available() {
			return nil, errors.Join(ErrBridgeUnavailable, b.res.lastError())
		}
		return nil, fmt.Errorf("%w: engine returned handle %d", ErrStartFailed, h)
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	s := &Session{
		id:        id,
		bridge:    b,
		handle:    h,
		fd:        fd,
		startedAt: time.Now(),
		logger:    b.logger.With("session", id, "handle", int64(h)),
		state:     SessionOpen,
	}
	s.logger.Info(context.Background(), "tunnel session opened", "fd", fd)
	return s, nil
}

// ID is a unique identifier for log correlation.
func (s *Session) ID() string { return s.id }

// Handle returns the engine handle. It must not be used after Close.
func (s *Session) Handle() Handle { return s.handle }

// FD returns the interface descriptor the tunnel was started on.
func (s *Session) FD() int32 { return s.fd }

// StartedAt returns when the tunnel was started.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Submit detects the framing of pkt and submits it to the tunnel.
func (s *Session) Submit(pkt []byte) int32 {
	proto, err := DetectProtocol(pkt)
	if err != nil {
		return SubmitInvalidBuffer
	}
	return s.bridge.SubmitPacket(s.handle, pkt, proto)
}

// Close stops and frees the tunnel. The tunnel is freed even if stopping
// fails. Later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		stop := s.bridge.StopTunnel(s.handle)
		free := s.bridge.FreeTunnel(s.handle)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.stopResult, s.freeResult = stop, free

		var errs []error
		if err := ResultError(s.stopResult); err != nil {
			errs = append(errs, fmt.Errorf("stop: %w", err))
		}
		if err := ResultError(s.freeResult); err != nil {
			errs = append(errs, fmt.Errorf("free: %w", err))
		}
		s.closeErr = errors.Join(errs...)
		s.state = SessionClosed
		s.closedAt = time.Now()

		s.logger.Info(context.Background(), "tunnel session closed",
			"stop", s.stopResult, "free", s.freeResult, "uptime", s.closedAt.Sub(s.startedAt).String())
	})
	return s.closeErr
}

// Results returns the engine texts of the stop and free calls made by Close.
// Both are empty before Close.
func (s *Session) Results() (stop, free string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopResult, s.freeResult
}

// State reports whether the session is open, and after Close the error Close
// returned.
func (s *Session) State() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.closeErr
}

// ClosedAt returns when Close tore the tunnel down, or the zero time while the
// session is open.
func (s *Session) ClosedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closedAt
}
