package tunbridge_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xstream/tunbridge/pkg/tunbridge"
	"github.com/xstream/tunbridge/pkg/tunbridge/enginetest"
)

func TestOpenSession(t *testing.T) {
	eng := enginetest.New()
	b, _ := newBridge(t, eng)

	s, err := b.OpenSession(`{"inbounds":[]}`, 11)
	require.NoError(t, err)

	assert.True(t, s.Handle().Valid())
	assert.Equal(t, int32(11), s.FD())
	assert.False(t, s.StartedAt().IsZero())
	_, err = ulid.Parse(s.ID())
	assert.NoError(t, err)

	stop, free := s.Results()
	assert.Empty(t, stop)
	assert.Empty(t, free)
}

func TestOpenSessionErrors(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		b, loader := newBridge(t, enginetest.New())
		_, err := b.OpenSession("", 3)
		assert.ErrorIs(t, err, tunbridge.ErrInvalidConfig)
		assert.Equal(t, int64(0), loader.Calls())
	})

	t.Run("nul in config", func(t *testing.T) {
		b, loader := newBridge(t, enginetest.New())
		_, err := b.OpenSession("{}\x00", 3)
		assert.ErrorIs(t, err, tunbridge.ErrInvalidConfig)
		assert.Equal(t, int64(0), loader.Calls())
	})

	t.Run("bad descriptor", func(t *testing.T) {
		b, loader := newBridge(t, enginetest.New())
		_, err := b.OpenSession("{}", 0)
		assert.ErrorIs(t, err, tunbridge.ErrInvalidDescriptor)
		assert.Equal(t, int64(0), loader.Calls())
	})

	t.Run("unavailable", func(t *testing.T) {
		b := tunbridge.New(tunbridge.Config{Loader: enginetest.FailingLoader(nil)})
		_, err := b.OpenSession("{}", 3)
		assert.ErrorIs(t, err, tunbridge.ErrBridgeUnavailable)
		assert.ErrorIs(t, err, enginetest.ErrUnavailable)
	})

	t.Run("engine refused", func(t *testing.T) {
		eng := enginetest.New(enginetest.WithStart(func(string, int32) int64 { return 0 }))
		b, _ := newBridge(t, eng)
		_, err := b.OpenSession("{}", 3)
		assert.ErrorIs(t, err, tunbridge.ErrStartFailed)
	})
}

func TestSessionCloseStopsThenFreesOnce(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(op string) func(int64) enginetest.Response {
		return func(int64) enginetest.Response {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, op)
			return enginetest.Reply(enginetest.TextSuccess)
		}
	}
	eng := enginetest.New(enginetest.WithStop(record("stop")), enginetest.WithFree(record("free")))
	b, _ := newBridge(t, eng)

	s, err := b.OpenSession("{}", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Close())
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"stop", "free"}, order)
	assert.Equal(t, int64(1), eng.Stops())
	assert.Equal(t, int64(1), eng.Frees())
	assert.Equal(t, 0, eng.Outstanding())

	stop, free := s.Results()
	assert.Equal(t, enginetest.TextSuccess, stop)
	assert.Equal(t, enginetest.TextSuccess, free)
}

func TestSessionCloseJoinsFailures(t *testing.T) {
	eng := enginetest.New(
		enginetest.WithStop(func(int64) enginetest.Response { return enginetest.Null() }),
		enginetest.WithFree(func(int64) enginetest.Response { return enginetest.Reply("error:tunnel busy") }),
	)
	b, _ := newBridge(t, eng)

	s, err := b.OpenSession("{}", 5)
	require.NoError(t, err)

	err = s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, tunbridge.ErrNullResponse)

	var engErr *tunbridge.EngineError
	require.True(t, errors.As(err, &engErr))
	assert.Equal(t, "tunnel busy", engErr.Message)
	assert.Contains(t, err.Error(), "stop: ")
	assert.Contains(t, err.Error(), "free: ")

	// The tunnel is freed even though stopping failed.
	assert.Equal(t, int64(1), eng.Frees())
	assert.Equal(t, err, s.Close())
}

func TestSessionSubmit(t *testing.T) {
	var protocols []int32
	eng := enginetest.New(enginetest.WithSubmit(func(_ int64, _ []byte, protocol int32) int32 {
		protocols = append(protocols, protocol)
		return tunbridge.SubmitAccepted
	}))
	b, _ := newBridge(t, eng)

	s, err := b.OpenSession("{}", 5)
	require.NoError(t, err)

	assert.Equal(t, tunbridge.SubmitAccepted, s.Submit(ipv4Packet(t)))
	assert.Equal(t, tunbridge.SubmitAccepted, s.Submit(ipv6Packet()))
	assert.Equal(t, tunbridge.SubmitInvalidBuffer, s.Submit([]byte{0x10, 0x00}))
	assert.Equal(t, tunbridge.SubmitInvalidBuffer, s.Submit(nil))

	assert.Equal(t, []int32{int32(tunbridge.ProtocolIPv4), int32(tunbridge.ProtocolIPv6)}, protocols)
}

func TestSessionState(t *testing.T) {
	eng := enginetest.New(enginetest.WithFree(func(int64) enginetest.Response {
		return enginetest.Reply("error:tunnel busy")
	}))
	b, _ := newBridge(t, eng)

	s, err := b.OpenSession("{}", 5)
	require.NoError(t, err)

	state, closeErr := s.State()
	assert.Equal(t, tunbridge.SessionOpen, state)
	assert.NoError(t, closeErr)
	assert.True(t, s.ClosedAt().IsZero())
	assert.Equal(t, "open", state.String())

	err = s.Close()
	require.Error(t, err)

	state, closeErr = s.State()
	assert.Equal(t, tunbridge.SessionClosed, state)
	assert.Equal(t, err, closeErr)
	assert.False(t, s.ClosedAt().Before(s.StartedAt()))
	assert.Equal(t, "closed", state.String())
}
