package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a context whose logger carries the extra fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// WithTrace tags the context logger with the request trace id.
func WithTrace(ctx context.Context, traceID string) context.Context {
	return With(ctx, "trace_id", traceID)
}

// From returns the logger stored in the context, falling back to the process
// logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
