package logging

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewLogrus adapts a logrus entry. Passing nil uses the logrus standard logger.
func NewLogrus(entry *logrus.Entry) Logger {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return &logrusLogger{entry: entry}
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) with(ctx context.Context, args []any) *logrus.Entry {
	return l.entry.WithContext(ctx).WithFields(fields(args))
}

func (l *logrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Debug(msg)
}

func (l *logrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Info(msg)
}

func (l *logrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Warn(msg)
}

func (l *logrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.with(ctx, args).Error(msg)
}

func (l *logrusLogger) With(args ...any) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields(args))}
}

func fields(args []any) logrus.Fields {
	kv := pairs(args)
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}
