package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const requestIDKey = contextKey("request_id")

// WithRequestID returns a context carrying the given request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the request id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// RequestIDHandler wraps another slog.Handler and adds the request id found
// in the record's context to every record.
type RequestIDHandler struct {
	h slog.Handler
}

var _ slog.Handler = (*RequestIDHandler)(nil)

func NewRequestIDHandler(h slog.Handler) *RequestIDHandler {
	return &RequestIDHandler{h: h}
}

func (h *RequestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := RequestIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.h.Handle(ctx, r)
}

func (h *RequestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewRequestIDHandler(h.h.WithAttrs(attrs))
}

func (h *RequestIDHandler) WithGroup(name string) slog.Handler {
	return NewRequestIDHandler(h.h.WithGroup(name))
}

func (h *RequestIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}
