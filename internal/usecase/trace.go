package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("tournament-sync/internal/usecase")

// startUsecaseSpan only opens a child span. Without a sampled parent (CLI
// runs with tracing off, tests) the parent's no-op span is returned as is.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// annotateSyncSpan records the pass outcome on span.
func annotateSyncSpan(span trace.Span, result SyncResult, err error) {
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("sync.run_id", result.RunID),
		attribute.String("sync.type", string(result.Type)),
		attribute.String("sync.status", string(result.Status)),
		attribute.Int("sync.tournaments", result.Synced),
		attribute.Int("sync.errors", result.Errors),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
