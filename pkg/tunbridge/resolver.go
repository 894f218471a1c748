package tunbridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xstream/tunbridge/pkg/tunbridge/logging"
)

// resolution is one published outcome of a load attempt. It is never mutated
// after it is stored.
type resolution struct {
	engine Engine
	err    error
}

// resolver is the construct-on-first-use engine binding cache. Readers take
// the lock-free path once a resolution is published; attempts are serialized.
type resolver struct {
	loader Loader
	retry  bool
	logger logging.Logger

	mu       sync.Mutex
	state    atomic.Pointer[resolution]
	attempts atomic.Int64
}

func newResolver(loader Loader, retry bool, logger logging.Logger) *resolver {
	return &resolver{loader: loader, retry: retry, logger: logger}
}

// settled reports whether res is final: a success always is, a failure only
// when retries are disabled.
func (r *resolver) settled(res *resolution) bool {
	return res != nil && (res.engine != nil || !r.retry)
}

// ensure returns the engine, loading it on first use. ok is false when the
// binding is unavailable.
func (r *resolver) ensure() (Engine, bool) {
	if res := r.state.Load(); r.settled(res) {
		return res.engine, res.engine != nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if res := r.state.Load(); r.settled(res) {
		return res.engine, res.engine != nil
	}

	n := r.attempts.Add(1)
	eng, err := r.loader.Load()
	if err == nil && eng == nil {
		err = errNilEngine
	}
	if err != nil {
		eng = nil
		r.logger.Warn(context.Background(), "engine binding unavailable", "attempt", n, "error", err.Error())
	} else {
		r.logger.Debug(context.Background(), "engine binding resolved", "attempt", n)
	}
	r.state.Store(&resolution{engine: eng, err: err})
	return eng, eng != nil
}

// lastError returns the error of the latest attempt, or nil.
func (r *resolver) lastError() error {
	if res := r.state.Load(); res != nil {
		return res.err
	}
	return nil
}
