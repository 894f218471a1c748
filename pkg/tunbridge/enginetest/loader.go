package enginetest

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/xstream/tunbridge/pkg/tunbridge"
)

// ErrUnavailable is returned by a Loader without an engine.
var ErrUnavailable = errors.New("enginetest: engine unavailable")

// Loader counts resolution attempts and returns a configurable engine.
type Loader struct {
	calls atomic.Int64

	mu     sync.Mutex
	engine tunbridge.Engine
	err    error
}

var _ tunbridge.Loader = (*Loader)(nil)

// NewLoader returns a Loader that resolves to eng.
func NewLoader(eng tunbridge.Engine) *Loader {
	return &Loader{engine: eng}
}

// FailingLoader returns a Loader that fails with err, or ErrUnavailable when
// err is nil.
func FailingLoader(err error) *Loader {
	if err == nil {
		err = ErrUnavailable
	}
	return &Loader{err: err}
}

// Load implements tunbridge.Loader.
func (l *Loader) Load() (tunbridge.Engine, error) {
	l.calls.Add(1)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.engine == nil {
		return nil, ErrUnavailable
	}
	return l.engine, nil
}

// Calls returns the number of Load calls.
func (l *Loader) Calls() int64 { return l.calls.Load() }

// SetEngine makes later loads succeed with eng, as if the library had become
// loadable.
func (l *Loader) SetEngine(eng tunbridge.Engine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.engine = eng
	l.err = nil
}
