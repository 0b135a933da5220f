package usecase

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/riskibarqy/fantasy-insights/usecase"

const (
	attrUserID             = attribute.Key("fantasy.user_id")
	attrSeason             = attribute.Key("fantasy.season")
	attrWeek               = attribute.Key("fantasy.week")
	attrLeagueCount        = attribute.Key("fantasy.leagues")
	attrLeaguesUnavailable = attribute.Key("fantasy.leagues_unavailable")
	attrPlayerRecords      = attribute.Key("fantasy.player_records")
)

// traceOp opens an internal span for op on the provider that produced the
// parent span. Untraced callers get back the no-op span already in ctx.
func traceOp(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return parent.TracerProvider().Tracer(instrumentationName).Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// annotate adds attributes to whatever span ctx carries.
func annotate(ctx context.Context, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

func failSpan(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
