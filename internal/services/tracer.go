package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kscompare/internal/infrastructure"
	"kscompare/internal/kstest"
)

const (
	TracerName = "kscompare.comparison"
)

// Comparison kinds, used as span and metric attributes.
const (
	KindPair     = "pair"
	KindWeekdays = "weekdays"
)

// ComparisonTracer provides OpenTelemetry instrumentation for comparisons
// and dataset loads. A nil metrics set disables metric recording.
type ComparisonTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// NewComparisonTracer creates a tracer on the global tracer provider.
func NewComparisonTracer(metrics *infrastructure.BusinessMetrics) *ComparisonTracer {
	return &ComparisonTracer{
		tracer:  otel.Tracer(TracerName),
		metrics: metrics,
	}
}

// TraceComparison starts the span of one comparison and counts it as active.
func (ct *ComparisonTracer) TraceComparison(ctx context.Context, kind, dataset string) (context.Context, trace.Span) {
	ctx, span := ct.tracer.Start(ctx, fmt.Sprintf("comparison.%s", kind),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("comparison.kind", kind),
			attribute.String("dataset", dataset),
		),
	)

	if ct.metrics != nil {
		ct.metrics.ActiveComparisons.Add(ctx, 1)
	}

	return ctx, span
}

// RecordComparisonCompletion closes the bookkeeping opened by
// TraceComparison. It does not end the span.
func (ct *ComparisonTracer) RecordComparisonCompletion(ctx context.Context, span trace.Span, kind, dataset string, duration time.Duration, err error) {
	if ct.metrics != nil {
		ct.metrics.ActiveComparisons.Add(ctx, -1)
	}
	infrastructure.RecordComparisonMetrics(ctx, ct.metrics, kind, dataset, duration, err)

	span.SetAttributes(attribute.Float64("comparison.duration_seconds", duration.Seconds()))

	if err != nil {
		infrastructure.RecordError(ctx, err,
			trace.WithAttributes(attribute.String("error.type", "comparison_error")),
		)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "comparison completed")
}

// RecordResult attaches a KS result to the span and the KS metrics.
func (ct *ComparisonTracer) RecordResult(ctx context.Context, kind string, result *kstest.Result) {
	infrastructure.RecordKSResult(ctx, ct.metrics, kind, result.KSStatistic, result.N2)

	infrastructure.AddSpanEvent(ctx, "comparison.result",
		attribute.Float64("ks_statistic", result.KSStatistic),
		attribute.Float64("p_value", result.PValue),
		attribute.Int("n1", result.N1),
		attribute.Int("n2", result.N2),
	)
}

// TraceDatasetLoad starts the span of a dataset read from disk.
func (ct *ComparisonTracer) TraceDatasetLoad(ctx context.Context, dataset, format string) (context.Context, trace.Span) {
	return ct.tracer.Start(ctx, "dataset.load",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("dataset", dataset),
			attribute.String("dataset.format", format),
		),
	)
}

// RecordDatasetLoadCompletion records a finished dataset load on its span
// and in the dataset metrics.
func (ct *ComparisonTracer) RecordDatasetLoadCompletion(ctx context.Context, span trace.Span, dataset string, duration time.Duration, rows, rejected int, err error) {
	infrastructure.RecordDatasetLoad(ctx, ct.metrics, dataset, duration, rejected, err)

	span.SetAttributes(
		attribute.Int("dataset.rows", rows),
		attribute.Int("dataset.rejected", rejected),
		attribute.Float64("dataset.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, fmt.Sprintf("loaded %d rows in %v", rows, duration))
}
