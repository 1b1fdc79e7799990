package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// BusinessMetrics holds the application instruments.
type BusinessMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ComparisonsTotal   metric.Int64Counter
	ComparisonDuration metric.Float64Histogram
	ComparisonErrors   metric.Int64Counter
	ActiveComparisons  metric.Int64UpDownCounter
	KSStatistic        metric.Float64Histogram
	SubsetSize         metric.Int64Histogram

	DatasetLoads        metric.Int64Counter
	DatasetLoadDuration metric.Float64Histogram
	DatasetCacheHits    metric.Int64Counter
	DatasetCacheMisses  metric.Int64Counter
	DatasetRowsRejected metric.Int64Counter
}

// instruments collects the first creation error so CreateBusinessMetrics
// can declare every instrument without checking each one.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) counter(name, desc string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc))
	in.keep(name, err)
	return c
}

func (in *instruments) upDown(name, desc string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(desc))
	in.keep(name, err)
	return c
}

func (in *instruments) seconds(name, desc string) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
	in.keep(name, err)
	return h
}

func (in *instruments) keep(name string, err error) {
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("create instrument %s: %w", name, err)
	}
}

// CreateBusinessMetrics registers the application instruments on meter.
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	in := &instruments{meter: meter}
	m := &BusinessMetrics{
		HTTPRequestsTotal:   in.counter("http_requests_total", "Total number of HTTP requests"),
		HTTPRequestDuration: in.seconds("http_request_duration_seconds", "HTTP request duration in seconds"),
		HTTPActiveRequests:  in.upDown("http_active_requests", "Number of active HTTP requests"),

		ComparisonsTotal:   in.counter("ks_comparisons_total", "Total number of KS comparisons"),
		ComparisonDuration: in.seconds("ks_comparison_duration_seconds", "KS comparison duration in seconds"),
		ComparisonErrors:   in.counter("ks_comparison_errors_total", "Total number of failed KS comparisons"),
		ActiveComparisons:  in.upDown("ks_active_comparisons", "Number of comparisons in progress"),

		DatasetLoads:        in.counter("dataset_loads_total", "Total number of dataset loads from disk"),
		DatasetLoadDuration: in.seconds("dataset_load_duration_seconds", "Dataset load and preparation duration in seconds"),
		DatasetCacheHits:    in.counter("dataset_cache_hits_total", "Total number of dataset cache hits"),
		DatasetCacheMisses:  in.counter("dataset_cache_misses_total", "Total number of dataset cache misses"),
		DatasetRowsRejected: in.counter("dataset_rows_rejected_total", "Total number of malformed rows skipped during preparation"),
	}

	var err error
	m.KSStatistic, err = meter.Float64Histogram("ks_statistic",
		metric.WithDescription("Distribution of computed KS statistics"),
		metric.WithExplicitBucketBoundaries(0.01, 0.02, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1))
	in.keep("ks_statistic", err)
	m.SubsetSize, err = meter.Int64Histogram("ks_subset_size",
		metric.WithDescription("Number of observations in the filtered subset"))
	in.keep("ks_subset_size", err)

	if in.err != nil {
		return nil, in.err
	}
	return m, nil
}

// NoopBusinessMetrics returns instruments on a no-op meter, for callers
// running without a meter provider.
func NoopBusinessMetrics() *BusinessMetrics {
	m, err := CreateBusinessMetrics(noop.NewMeterProvider().Meter(MeterName))
	if err != nil {
		panic(err)
	}
	return m
}

// RecordComparisonMetrics records the outcome of one comparison. kind is
// "pair" or "weekdays".
func RecordComparisonMetrics(ctx context.Context, m *BusinessMetrics, kind, dataset string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
		m.ComparisonErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("comparison.kind", kind),
			attribute.String("dataset", dataset),
			attribute.String("error.type", fmt.Sprintf("%T", err)),
		))
	}

	attrs := metric.WithAttributes(
		attribute.String("comparison.kind", kind),
		attribute.String("dataset", dataset),
		attribute.String("status", status),
	)
	m.ComparisonsTotal.Add(ctx, 1, attrs)
	m.ComparisonDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordKSResult records the statistic and subset size of a finished test.
func RecordKSResult(ctx context.Context, m *BusinessMetrics, kind string, ks float64, subsetSize int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("comparison.kind", kind))
	m.KSStatistic.Record(ctx, ks, attrs)
	m.SubsetSize.Record(ctx, int64(subsetSize), attrs)
}

// RecordDatasetLoad records a dataset read from disk.
func RecordDatasetLoad(ctx context.Context, m *BusinessMetrics, dataset string, duration time.Duration, rejected int, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("dataset", dataset),
		attribute.String("status", status),
	)
	m.DatasetLoads.Add(ctx, 1, attrs)
	m.DatasetLoadDuration.Record(ctx, duration.Seconds(), attrs)
	if rejected > 0 {
		m.DatasetRowsRejected.Add(ctx, int64(rejected),
			metric.WithAttributes(attribute.String("dataset", dataset)))
	}
}

// RecordCacheLookup records a dataset cache hit or miss.
func RecordCacheLookup(ctx context.Context, m *BusinessMetrics, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.DatasetCacheHits.Add(ctx, 1)
		return
	}
	m.DatasetCacheMisses.Add(ctx, 1)
}
