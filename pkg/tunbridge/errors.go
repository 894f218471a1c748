package tunbridge

import (
	"errors"
	"strings"

	"github.com/xstream/tunbridge/internal/bindings"
)

// Reserved results of StopTunnel and FreeTunnel. Callers match them exactly.
const (
	ResultNullResponse      = "error:null_response"
	ResultInvalidHandle     = "error:invalid_handle"
	ResultBridgeUnavailable = "error:native_bridge_unavailable"
)

// errorPrefix marks failure text, both the reserved literals and the engine's
// own messages.
const errorPrefix = "error:"

var (
	// ErrNotBuilt reports that the native loader is not compiled into this
	// binary (cgo disabled or Windows).
	ErrNotBuilt = bindings.ErrNotBuilt

	// ErrLibraryNotFound reports that the engine library could not be opened.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrSymbolMissing reports that a required entry point is not exported.
	ErrSymbolMissing = bindings.ErrSymbolMissing

	// ErrNullResponse corresponds to ResultNullResponse.
	ErrNullResponse = errors.New("tunbridge: engine returned a null response")

	// ErrInvalidHandle corresponds to ResultInvalidHandle.
	ErrInvalidHandle = errors.New("tunbridge: invalid tunnel handle")

	// ErrBridgeUnavailable corresponds to ResultBridgeUnavailable.
	ErrBridgeUnavailable = errors.New("tunbridge: native bridge unavailable")

	// ErrStartFailed reports that the engine did not return a usable handle.
	ErrStartFailed = errors.New("tunbridge: tunnel start failed")

	// ErrInvalidConfig reports an empty engine configuration or one holding a
	// NUL byte.
	ErrInvalidConfig = errors.New("tunbridge: invalid tunnel configuration")

	// ErrInvalidDescriptor reports a descriptor <= 0.
	ErrInvalidDescriptor = errors.New("tunbridge: invalid interface descriptor")

	errNilEngine    = errors.New("tunbridge: loader returned no engine")
	errTextConsumed = errors.New("tunbridge: engine text already consumed")
)

// SymbolError names an entry point missing from the engine library.
type SymbolError = bindings.SymbolError

// EngineError carries failure text produced by the engine itself.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string { return "tunbridge: engine: " + e.Message }

// IsError reports whether a StopTunnel or FreeTunnel result signals failure.
func IsError(result string) bool {
	return strings.HasPrefix(result, errorPrefix)
}

// ResultError converts a StopTunnel or FreeTunnel result into an error. It
// returns nil for any result that does not start with "error:".
func ResultError(result string) error {
	switch result {
	case ResultNullResponse:
		return ErrNullResponse
	case ResultInvalidHandle:
		return ErrInvalidHandle
	case ResultBridgeUnavailable:
		return ErrBridgeUnavailable
	}
	if msg, ok := strings.CutPrefix(result, errorPrefix); ok {
		return &EngineError{Message: msg}
	}
	return nil
}
