package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/riskibarqy/fantasy-insights/httpapi"

// handlerSpan opens a span for one route handler beneath the request span.
// Untraced requests get back the no-op span already in the context.
func handlerSpan(r *http.Request, op string) (context.Context, trace.Span) {
	ctx := r.Context()
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return parent.TracerProvider().Tracer(instrumentationName).Start(ctx, "handler."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(routeAttrs(r)...),
	)
}

func routeAttrs(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if r.Pattern != "" {
		attrs = append(attrs, attribute.String("http.route", r.Pattern))
	}
	if userID := r.PathValue("userID"); userID != "" {
		attrs = append(attrs, attribute.String("fantasy.user_id", userID))
	}
	if requestID := requestIDFromContext(r.Context()); requestID != "" {
		attrs = append(attrs, attribute.String("http.request_id", requestID))
	}
	return attrs
}

// markFailed flags the handler span for responses the client cannot fix.
func markFailed(ctx context.Context, mapped mappedError, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String("fantasy.error_reason", mapped.Reason))
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Reason)
	}
}
