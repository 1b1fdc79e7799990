package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"kscompare/internal/config"
	"kscompare/internal/files"
	"kscompare/internal/filter"
	"kscompare/internal/infrastructure"
	"kscompare/internal/kstest"
	"kscompare/internal/returns"
)

// DefaultAlpha is the significance level used when neither the request nor
// the configuration sets one.
const DefaultAlpha = 0.05

// scanDays is the fixed order of a weekday scan.
var scanDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// CompareRequest selects a subset of a dataset to compare against its
// baseline.
type CompareRequest struct {
	Dataset string
	// Years restricts the subset, e.g. "2015-2018, 2020".
	Years string
	// Days restricts the subset to these weekday names.
	Days []string
	// BaselineYears restricts the baseline; empty means the whole dataset.
	BaselineYears string
	// Bins is the histogram bin count; zero falls back to the configured
	// count and then to Sturges' rule.
	Bins  int
	Alpha float64
}

// ScanRequest compares every weekday against a year-filtered baseline.
type ScanRequest struct {
	Dataset string
	Years   string
	Alpha   float64
}

// Sample describes one side of a comparison.
type Sample struct {
	Count     int             `json:"count"`
	Summary   returns.Summary `json:"summary"`
	Histogram []returns.Bin   `json:"histogram"`
}

// Comparison is the outcome of one baseline versus subset test.
type Comparison struct {
	Dataset            string         `json:"dataset"`
	BaselineConditions []string       `json:"baseline_conditions"`
	SubsetConditions   []string       `json:"subset_conditions"`
	Baseline           Sample         `json:"baseline"`
	Subset             Sample         `json:"subset"`
	Result             *kstest.Result `json:"result"`
	Alpha              float64        `json:"alpha"`
	Significant        bool           `json:"significant"`
	// FlaggedDays counts baseline observations on one of the requested weekdays.
	FlaggedDays int `json:"flagged_days"`
	Rejected    int `json:"rejected_rows"`

	// Observations is the baseline and Flags marks its selected weekdays,
	// index for index.
	Observations []returns.Observation `json:"-"`
	Flags        []bool                `json:"-"`
}

// WeekdayComparison is one row of a weekday scan.
type WeekdayComparison struct {
	Day         string           `json:"day"`
	Count       int              `json:"count"`
	Skipped     bool             `json:"skipped"`
	Result      *kstest.Result   `json:"result,omitempty"`
	Significant bool             `json:"significant"`
	Summary     *returns.Summary `json:"summary,omitempty"`
}

// WeekdayScan is the outcome of ScanWeekdays.
type WeekdayScan struct {
	Dataset            string              `json:"dataset"`
	BaselineConditions []string            `json:"baseline_conditions"`
	BaselineCount      int                 `json:"baseline_count"`
	Alpha              float64             `json:"alpha"`
	Days               []WeekdayComparison `json:"days"`
}

// DatasetSummary describes a prepared dataset.
type DatasetSummary struct {
	Name          string             `json:"name"`
	Format        string             `json:"format"`
	Size          int64              `json:"size"`
	Modified      time.Time          `json:"modified"`
	Observations  int                `json:"observations"`
	FirstYear     int                `json:"first_year,omitempty"`
	LastYear      int                `json:"last_year,omitempty"`
	DayCounts     map[string]int     `json:"day_counts"`
	Summary       *returns.Summary   `json:"summary,omitempty"`
	Histogram     []returns.Bin      `json:"histogram,omitempty"`
	RejectedCount int                `json:"rejected_count"`
	Rejected      []returns.RowError `json:"rejected,omitempty"`
}

// ComparisonService runs KS comparisons over the datasets of a directory.
type ComparisonService struct {
	dataDir   string
	discovery *files.Discovery
	cache     *DatasetCache
	tracer    *ComparisonTracer
	analysis  config.AnalysisConfig
	logger    *slog.Logger
}

// NewComparisonService creates a service reading datasets from
// paths.DataDir. A nil metrics set disables metric recording.
func NewComparisonService(paths config.PathsConfig, analysis config.AnalysisConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) (*ComparisonService, error) {
	policy, err := returns.ParsePolicy(analysis.RowPolicy)
	if err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	tracer := NewComparisonTracer(metrics)
	return &ComparisonService{
		dataDir:   paths.DataDir,
		discovery: files.NewDiscovery(paths.DataDir),
		cache:     NewDatasetCache(analysis.CacheSize, policy, tracer, logger),
		tracer:    tracer,
		analysis:  analysis,
		logger:    logger.With(slog.String("component", "comparison_service")),
	}, nil
}

// CacheStats returns the statistics of the dataset cache.
func (s *ComparisonService) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ListDatasets returns the CSV and XLSX files of the data directory.
func (s *ComparisonService) ListDatasets(ctx context.Context) ([]files.FileInfo, error) {
	list, err := s.discovery.FindDatasets("")
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list datasets", slog.String("error", err.Error()))
		return nil, err
	}
	return list, nil
}

// Dataset returns the prepared dataset called name. A dataset removed from
// the data directory is also dropped from the cache.
func (s *ComparisonService) Dataset(ctx context.Context, name string) (*Dataset, error) {
	info, err := s.discovery.Lookup("", name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cache.Invalidate(filepath.Join(s.dataDir, name))
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		if errors.Is(err, files.ErrInvalidName) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		return nil, err
	}
	if info.Format == "" || !files.IsDataset(info.Name) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	return s.cache.Get(ctx, info)
}

// Describe summarizes the dataset called name. bins follows the same
// fallback as CompareRequest.Bins.
func (s *ComparisonService) Describe(ctx context.Context, name string, bins int) (*DatasetSummary, error) {
	if err := checkBins(bins); err != nil {
		return nil, err
	}

	ds, err := s.Dataset(ctx, name)
	if err != nil {
		return nil, err
	}

	out := &DatasetSummary{
		Name:          ds.Name,
		Format:        ds.Format,
		Size:          ds.Size,
		Modified:      ds.ModTime,
		Observations:  len(ds.Observations),
		DayCounts:     make(map[string]int),
		RejectedCount: len(ds.Rejected),
		Rejected:      ds.Rejected,
	}
	for _, o := range ds.Observations {
		out.DayCounts[o.Day]++
	}
	if low, high, ok := ds.Years(); ok {
		out.FirstYear, out.LastYear = low, high
	}

	sample := returns.Returns(ds.Observations)
	if len(sample) == 0 {
		return out, nil
	}
	summary, err := returns.Describe(sample)
	if err != nil {
		return nil, err
	}
	out.Summary = &summary
	out.Histogram, err = returns.Histogram(sample, s.binCount(bins, len(sample)), summary.Min, summary.Max)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Compare tests the subset selected by req against the baseline.
func (s *ComparisonService) Compare(ctx context.Context, req CompareRequest) (result *Comparison, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ctx, span := s.tracer.TraceComparison(ctx, KindPair, req.Dataset)
	defer span.End()

	start := time.Now()
	defer func() {
		s.tracer.RecordComparisonCompletion(ctx, span, KindPair, req.Dataset, time.Since(start), err)
	}()

	alpha, err := s.alpha(req.Alpha)
	if err != nil {
		return nil, err
	}
	if err := checkBins(req.Bins); err != nil {
		return nil, err
	}
	baselineConds, err := filter.ParseYears(req.BaselineYears)
	if err != nil {
		return nil, fmt.Errorf("%w: baseline years: %w", ErrInvalidInput, err)
	}
	subsetConds, err := filter.Selection(req.Years, req.Days)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	ds, err := s.Dataset(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}

	baseline, err := filter.Apply(ds.Observations, baselineConds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(baseline) == 0 {
		return nil, fmt.Errorf("%w: baseline has no observations", ErrEmptySubset)
	}
	subset, err := filter.Apply(baseline, subsetConds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(subset) == 0 {
		return nil, fmt.Errorf("%w: no observations match %s", ErrEmptySubset, describeConditions(subsetConds))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseSample, subSample := returns.Returns(baseline), returns.Returns(subset)
	ks, err := kstest.Test(baseSample, subSample)
	if err != nil {
		return nil, err
	}
	s.tracer.RecordResult(ctx, KindPair, ks)

	bins := s.binCount(req.Bins, len(baseSample))
	baseSide, err := describeSample(baseSample, bins, baseSample, subSample)
	if err != nil {
		return nil, err
	}
	subSide, err := describeSample(subSample, bins, baseSample, subSample)
	if err != nil {
		return nil, err
	}

	flags := filter.FlagDays(baseline, req.Days)
	comparison := &Comparison{
		Dataset:            ds.Name,
		BaselineConditions: conditionStrings(baselineConds),
		SubsetConditions:   conditionStrings(subsetConds),
		Baseline:           baseSide,
		Subset:             subSide,
		Result:             ks,
		Alpha:              alpha,
		Significant:        ks.Significant(alpha),
		FlaggedDays:        filter.CountFlags(flags),
		Rejected:           len(ds.Rejected),
		Observations:       baseline,
		Flags:              flags,
	}

	s.logger.InfoContext(ctx, "comparison completed",
		slog.String("dataset", ds.Name),
		slog.Int("baseline", ks.N1),
		slog.Int("subset", ks.N2),
		slog.Float64("ks_statistic", ks.KSStatistic),
		slog.Float64("p_value", ks.PValue),
		slog.Bool("significant", comparison.Significant))

	return comparison, nil
}

// ScanWeekdays compares each weekday from Monday to Friday against the
// baseline selected by req.Years. Days without observations are reported
// as skipped.
func (s *ComparisonService) ScanWeekdays(ctx context.Context, req ScanRequest) (scan *WeekdayScan, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ctx, span := s.tracer.TraceComparison(ctx, KindWeekdays, req.Dataset)
	defer span.End()

	start := time.Now()
	defer func() {
		s.tracer.RecordComparisonCompletion(ctx, span, KindWeekdays, req.Dataset, time.Since(start), err)
	}()

	alpha, err := s.alpha(req.Alpha)
	if err != nil {
		return nil, err
	}
	conds, err := filter.ParseYears(req.Years)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	ds, err := s.Dataset(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	baseline, err := filter.Apply(ds.Observations, conds)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(baseline) == 0 {
		return nil, fmt.Errorf("%w: baseline has no observations", ErrEmptySubset)
	}
	baseSample := returns.Returns(baseline)

	days := make([]WeekdayComparison, len(scanDays))
	g, gctx := errgroup.WithContext(ctx)
	for i, day := range scanDays {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			subset, err := filter.Apply(baseline, []filter.Condition{filter.Set(filter.PropertyDay, day)})
			if err != nil {
				return err
			}

			row := WeekdayComparison{Day: day, Count: len(subset)}
			if len(subset) == 0 {
				row.Skipped = true
				days[i] = row
				return nil
			}

			subSample := returns.Returns(subset)
			ks, err := kstest.Test(baseSample, subSample)
			if err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			summary, err := returns.Describe(subSample)
			if err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			s.tracer.RecordResult(gctx, KindWeekdays, ks)

			row.Result = ks
			row.Significant = ks.Significant(alpha)
			row.Summary = &summary
			days[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "weekday scan completed",
		slog.String("dataset", ds.Name),
		slog.Int("baseline", len(baseline)))

	return &WeekdayScan{
		Dataset:            ds.Name,
		BaselineConditions: conditionStrings(conds),
		BaselineCount:      len(baseline),
		Alpha:              alpha,
		Days:               days,
	}, nil
}

func (s *ComparisonService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.analysis.ComparisonTimeout > 0 {
		return context.WithTimeout(ctx, s.analysis.ComparisonTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *ComparisonService) alpha(requested float64) (float64, error) {
	alpha := requested
	if alpha == 0 {
		alpha = s.analysis.Alpha
	}
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if alpha <= 0 || alpha >= 1 || math.IsNaN(alpha) {
		return 0, fmt.Errorf("%w: alpha %g must be in (0, 1)", ErrInvalidInput, alpha)
	}
	return alpha, nil
}

// checkBins accepts zero, meaning the configured or default count, and
// requested counts up to config.MaxHistogramBins.
func checkBins(bins int) error {
	if bins < 0 || bins > config.MaxHistogramBins {
		return fmt.Errorf("%w: bins must be in [0, %d], got %d", ErrInvalidInput, config.MaxHistogramBins, bins)
	}
	return nil
}

func (s *ComparisonService) binCount(requested, n int) int {
	switch {
	case requested > 0:
		return requested
	case s.analysis.HistogramBins > 0:
		return s.analysis.HistogramBins
	default:
		return returns.SturgesBins(n)
	}
}

// describeSample summarizes sample with a histogram over the range shared
// by all of samples.
func describeSample(sample []float64, bins int, samples ...[]float64) (Sample, error) {
	summary, err := returns.Describe(sample)
	if err != nil {
		return Sample{}, err
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	hist, err := returns.Histogram(sample, bins, lo, hi)
	if err != nil {
		return Sample{}, err
	}

	return Sample{Count: len(sample), Summary: summary, Histogram: hist}, nil
}

func conditionStrings(conds []filter.Condition) []string {
	out := make([]string, len(conds))
	for i, c := range conds {
		out[i] = c.String()
	}
	return out
}

func describeConditions(conds []filter.Condition) string {
	if len(conds) == 0 {
		return "no conditions"
	}
	return fmt.Sprint(conditionStrings(conds))
}
