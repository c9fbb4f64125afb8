package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey struct{}

// Logger writes one JSON object per line with the service, hostname and,
// when known, the request id and action.
type Logger struct {
	l *slog.Logger
}

func New(service string) *Logger {
	return NewWithWriter(service, os.Stdout)
}

func NewWithWriter(service string, w io.Writer) *Logger {
	hostname, _ := os.Hostname()
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Logger{l: slog.New(h).With("service", service, "hostname", hostname)}
}

// Discard is used by tests that do not care about log output.
func Discard() *Logger {
	return NewWithWriter("test", io.Discard)
}

func (lg *Logger) Action(action string) *Logger {
	return &Logger{l: lg.l.With("action", action)}
}

func (lg *Logger) With(args ...any) *Logger {
	return &Logger{l: lg.l.With(args...)}
}

// Ctx attaches the request id stored by the HTTP middleware.
func (lg *Logger) Ctx(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != "" {
		return &Logger{l: lg.l.With("request_id", id)}
	}
	return lg
}

func (lg *Logger) Debug(msg string, args ...any) { lg.l.Debug(msg, args...) }
func (lg *Logger) Info(msg string, args ...any)  { lg.l.Info(msg, args...) }
func (lg *Logger) Warn(msg string, args ...any)  { lg.l.Warn(msg, args...) }

func (lg *Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	lg.l.Error(msg, args...)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
