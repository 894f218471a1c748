// Package logging provides a minimal logging facade for the tunnel bridge.
//
// The Logger interface wraps a subset of log/slog so applications can supply
// their own implementation for testing or redaction:
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Implementations
//
// New binds to a *slog.Logger (slog.Default() when nil). NewZap and NewLogrus
// adapt go.uber.org/zap and github.com/sirupsen/logrus loggers; both accept the
// same alternating key/value arguments and slog.Attr values as slog does.
// Noop discards everything.
//
//	logger := logging.NewZap(zap.NewExample())
//	logger.Info(ctx, "tunnel started", "handle", h)
//
// # Redaction
//
// Engine configurations carry server addresses and credentials. They are
// never logged; use Redacted to record that a value was intentionally left out:
//
//	logger.Debug(ctx, "starting tunnel", logging.Redacted("config"), "fd", fd)
//	// Logs: config="[redacted]" fd=7
package logging
