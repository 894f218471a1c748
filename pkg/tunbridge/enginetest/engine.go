package enginetest

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/xstream/tunbridge/pkg/tunbridge"
)

// Texts answered by the default engine behavior.
const (
	TextSuccess         = "success"
	TextInvalidHandle   = "error:invalid handle"
	TextSessionNotFound = "error:session not found"
)

// Response is a scripted answer to StopTunnel or FreeTunnel.
type Response struct {
	Text string
	Null bool
}

// Reply answers with text.
func Reply(text string) Response { return Response{Text: text} }

// Null answers with a null pointer.
func Null() Response { return Response{Null: true} }

// Option scripts an Engine.
type Option func(*Engine)

// WithStart replaces the default start behavior.
func WithStart(fn func(config string, fd int32) int64) Option {
	return func(e *Engine) { e.startFn = fn }
}

// WithStop replaces the default stop behavior.
func WithStop(fn func(handle int64) Response) Option {
	return func(e *Engine) { e.stopFn = fn }
}

// WithFree replaces the default free behavior.
func WithFree(fn func(handle int64) Response) Option {
	return func(e *Engine) { e.freeFn = fn }
}

// WithSubmit replaces the default submit behavior.
func WithSubmit(fn func(handle int64, data []byte, protocol int32) int32) Option {
	return func(e *Engine) { e.submitFn = fn }
}

// WithoutSubmit makes the engine behave as if SubmitInboundPacket were not
// exported.
func WithoutSubmit() Option {
	return func(e *Engine) { e.noSubmit = true }
}

type tunnelState int

const (
	tunnelRunning tunnelState = iota + 1
	tunnelStopped
)

// Engine is an in-process tunbridge.Engine. It is safe for concurrent use.
type Engine struct {
	startFn  func(string, int32) int64
	stopFn   func(int64) Response
	freeFn   func(int64) Response
	submitFn func(int64, []byte, int32) int32
	noSubmit bool

	mu       sync.Mutex
	next     int64
	tunnels  map[int64]tunnelState
	texts    map[unsafe.Pointer][]byte
	issued   []unsafe.Pointer
	released []unsafe.Pointer
	configs  []string
	fds      []int32

	starts         atomic.Int64
	stops          atomic.Int64
	frees          atomic.Int64
	submits        atomic.Int64
	releases       atomic.Int64
	badReleases    atomic.Int64
	readsAfterFree atomic.Int64
}

var _ tunbridge.Engine = (*Engine)(nil)

// New returns an engine with the default behavior, adjusted by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		tunnels: make(map[int64]tunnelState),
		texts:   make(map[unsafe.Pointer][]byte),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) StartTunnelWithFd(config string, fd int32) int64 {
	e.starts.Add(1)
	e.mu.Lock()
	e.configs = append(e.configs, config)
	e.fds = append(e.fds, fd)
	e.mu.Unlock()

	if e.startFn != nil {
		return e.startFn(config, fd)
	}
	if config == "" || fd <= 0 {
		return -1
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.tunnels[e.next] = tunnelRunning
	return e.next
}

func (e *Engine) StopTunnel(handle int64) tunbridge.Text {
	e.stops.Add(1)
	if e.stopFn != nil {
		return e.issue(e.stopFn(handle))
	}

	e.mu.Lock()
	resp := Reply(TextSuccess)
	switch state, ok := e.tunnels[handle]; {
	case handle <= 0:
		resp = Reply(TextInvalidHandle)
	case !ok || state != tunnelRunning:
		resp = Reply(TextSessionNotFound)
	default:
		e.tunnels[handle] = tunnelStopped
	}
	e.mu.Unlock()
	return e.issue(resp)
}

func (e *Engine) FreeTunnel(handle int64) tunbridge.Text {
	e.frees.Add(1)
	if e.freeFn != nil {
		return e.issue(e.freeFn(handle))
	}

	e.mu.Lock()
	resp := Reply(TextSuccess)
	if handle <= 0 {
		resp = Reply(TextInvalidHandle)
	} else {
		delete(e.tunnels, handle)
	}
	e.mu.Unlock()
	return e.issue(resp)
}

func (e *Engine) SubmitInboundPacket(handle int64, data []byte, protocol int32) (int32, bool) {
	if e.noSubmit {
		return 0, false
	}
	e.submits.Add(1)
	if e.submitFn != nil {
		return e.submitFn(handle, data, protocol), true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok := e.tunnels[handle]; !ok || state != tunnelRunning {
		return -1, true
	}
	return 0, true
}

// HasSubmit reports whether SubmitInboundPacket is "exported".
func (e *Engine) HasSubmit() bool { return !e.noSubmit }

// Name identifies the engine in probe reports.
func (e *Engine) Name() string { return "enginetest" }

// issue allocates a NUL-terminated buffer the caller must release.
func (e *Engine) issue(resp Response) tunbridge.Text {
	if resp.Null {
		return tunbridge.Text{}
	}
	buf := append([]byte(resp.Text), 0)
	p := unsafe.Pointer(&buf[0])

	e.mu.Lock()
	e.texts[p] = buf
	e.issued = append(e.issued, p)
	e.mu.Unlock()
	return tunbridge.TextAt(p)
}

func (e *Engine) ReadText(t tunbridge.Text) string {
	e.mu.Lock()
	buf, ok := e.texts[t.Pointer()]
	e.mu.Unlock()
	if !ok {
		e.readsAfterFree.Add(1)
		return ""
	}
	return string(buf[:len(buf)-1])
}

func (e *Engine) ReleaseText(t tunbridge.Text) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := t.Pointer()
	if _, ok := e.texts[p]; !ok {
		e.badReleases.Add(1)
		return
	}
	delete(e.texts, p)
	e.released = append(e.released, p)
	e.releases.Add(1)
}

// Starts returns the number of StartTunnelWithFd calls.
func (e *Engine) Starts() int64 { return e.starts.Load() }

// Stops returns the number of StopTunnel calls.
func (e *Engine) Stops() int64 { return e.stops.Load() }

// Frees returns the number of FreeTunnel calls.
func (e *Engine) Frees() int64 { return e.frees.Load() }

// Submits returns the number of SubmitInboundPacket calls that reached the
// engine.
func (e *Engine) Submits() int64 { return e.submits.Load() }

// Calls returns the total number of entry point calls, excluding releases.
func (e *Engine) Calls() int64 {
	return e.Starts() + e.Stops() + e.Frees() + e.Submits()
}

// Releases returns the number of successful ReleaseText calls.
func (e *Engine) Releases() int64 { return e.releases.Load() }

// BadReleases counts releases of unknown or already released text.
func (e *Engine) BadReleases() int64 { return e.badReleases.Load() }

// ReadsAfterRelease counts reads of unknown or already released text.
func (e *Engine) ReadsAfterRelease() int64 { return e.readsAfterFree.Load() }

// Outstanding returns the number of issued texts not yet released.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.texts)
}

// Issued returns the addresses of all texts handed out, in order.
func (e *Engine) Issued() []unsafe.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]unsafe.Pointer(nil), e.issued...)
}

// Released returns the addresses of all released texts, in order.
func (e *Engine) Released() []unsafe.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]unsafe.Pointer(nil), e.released...)
}

// Configs returns the configurations passed to StartTunnelWithFd.
func (e *Engine) Configs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.configs...)
}

// FDs returns the descriptors passed to StartTunnelWithFd.
func (e *Engine) FDs() []int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]int32(nil), e.fds...)
}
