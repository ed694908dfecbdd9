package observability

import (
	"context"
	"log/slog"

	"github.com/geocoder89/designhub/internal/actorctx"
	"go.opentelemetry.io/otel/trace"
)

// TraceHandler stamps each record with whatever the context knows: the
// active span and the authenticated user.
type TraceHandler struct {
	next slog.Handler
}

func NewTraceHandler(next slog.Handler) *TraceHandler {
	return &TraceHandler{next: next}
}

func (h *TraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		r.AddAttrs(contextAttrs(ctx)...)
	}
	return h.next.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewTraceHandler(h.next.WithAttrs(attrs))
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return NewTraceHandler(h.next.WithGroup(name))
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if id, ok := actorctx.IdentityFrom(ctx); ok {
		attrs = append(attrs, slog.Int64("user_id", id.UserID))
	}

	return attrs
}
