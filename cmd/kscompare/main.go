package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"kscompare/internal/config"
	"kscompare/internal/exporter"
	"kscompare/internal/infrastructure"
	"kscompare/internal/services"
	"kscompare/internal/validation"
	"kscompare/pkg/contracts"
)

// options holds the parsed command line.
type options struct {
	Input           string
	Years           string
	Days            []string
	BaselineYears   string
	Policy          string
	Bins            int
	Alpha           float64
	Out             string
	ObservationsOut string
	Weekdays        bool
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("Invalid arguments", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.WithComponent(logger, "cli")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := run(ctx, opts, cfg, logger, os.Stdout); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Comparison failed",
			slog.String("input", opts.Input))
		stop()
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

func parseOptions(args []string, errOut io.Writer) (*options, error) {
	fs := flag.NewFlagSet("kscompare", flag.ContinueOnError)
	fs.SetOutput(errOut)

	opts := &options{}
	var days string
	fs.StringVar(&opts.Input, "input", "", "price file (.csv or .xlsx) with Date, Open and Close columns")
	fs.StringVar(&opts.Years, "years", "", "subset years, e.g. \"2015-2018, 2020\"")
	fs.StringVar(&days, "days", "", "subset weekdays, comma separated, e.g. \"Monday,Friday\"")
	fs.StringVar(&opts.BaselineYears, "baseline-years", "", "restrict the baseline to these years")
	fs.StringVar(&opts.Policy, "policy", "", "malformed row policy: skip or strict (defaults to the configured policy)")
	fs.IntVar(&opts.Bins, "bins", 0, "histogram bins, at most 200 (0 uses the configured count or Sturges' rule)")
	fs.Float64Var(&opts.Alpha, "alpha", 0, "significance level (0 uses the configured level)")
	fs.StringVar(&opts.Out, "out", "", "write the comparison report to this CSV file")
	fs.StringVar(&opts.ObservationsOut, "observations-out", "", "write the baseline observations with a signal column to this CSV file")
	fs.BoolVar(&opts.Weekdays, "weekdays", false, "compare every weekday against the baseline instead of a single subset")
	version := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		fmt.Fprintln(errOut, contracts.GetFullVersionString())
		return nil, flag.ErrHelp
	}

	if opts.Input == "" {
		return nil, errors.New("-input is required")
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	for _, d := range strings.Split(days, ",") {
		if d = strings.TrimSpace(d); d != "" {
			opts.Days = append(opts.Days, d)
		}
	}
	if opts.Weekdays && (len(opts.Days) > 0 || opts.BaselineYears != "" || opts.ObservationsOut != "") {
		return nil, errors.New("-weekdays cannot be combined with -days, -baseline-years or -observations-out")
	}
	return opts, nil
}

// run executes one comparison or weekday scan through the same service the
// HTTP API uses, with the input file's directory as the data directory.
func run(ctx context.Context, opts *options, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	if err := validation.NewFileValidator(logger).ValidateDatasetFile(opts.Input); err != nil {
		return err
	}

	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}

	paths := cfg.Paths
	paths.DataDir = filepath.Dir(input)
	analysis := cfg.Analysis
	if opts.Policy != "" {
		analysis.RowPolicy = opts.Policy
	}

	svc, err := services.NewComparisonService(paths, analysis, infrastructure.NoopBusinessMetrics(), logger)
	if err != nil {
		return err
	}
	writer := exporter.NewCSVWriter(cfg.Paths, logger)
	name := filepath.Base(input)

	if opts.Weekdays {
		scan, err := svc.ScanWeekdays(ctx, services.ScanRequest{
			Dataset: name,
			Years:   opts.Years,
			Alpha:   opts.Alpha,
		})
		if err != nil {
			return err
		}
		printScan(out, scan)

		if opts.Out != "" {
			path, err := writer.WriteWeekdayScan(opts.Out, scan)
			if err != nil {
				return fmt.Errorf("write weekday report: %w", err)
			}
			fmt.Fprintf(out, "\nreport written to %s\n", path)
		}
		return nil
	}

	cmp, err := svc.Compare(ctx, services.CompareRequest{
		Dataset:       name,
		Years:         opts.Years,
		Days:          opts.Days,
		BaselineYears: opts.BaselineYears,
		Bins:          opts.Bins,
		Alpha:         opts.Alpha,
	})
	if err != nil {
		return err
	}
	printComparison(out, cmp)

	if opts.Out != "" {
		path, err := writer.WriteComparison(opts.Out, cmp)
		if err != nil {
			return fmt.Errorf("write comparison report: %w", err)
		}
		fmt.Fprintf(out, "\nreport written to %s\n", path)
	}
	if opts.ObservationsOut != "" {
		path, err := writer.WriteObservations(opts.ObservationsOut, cmp.Observations, cmp.Flags)
		if err != nil {
			return fmt.Errorf("write observations: %w", err)
		}
		fmt.Fprintf(out, "observations written to %s\n", path)
	}
	return nil
}

func printComparison(out io.Writer, cmp *services.Comparison) {
	fmt.Fprintf(out, "Dataset: %s\n", cmp.Dataset)
	fmt.Fprintf(out, "Baseline: %s\n", conditionsText(cmp.BaselineConditions))
	fmt.Fprintf(out, "Subset:   %s\n\n", conditionsText(cmp.SubsetConditions))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tCount\tMean\tStdDev\tMin\tMax\tMedian\t")
	for _, row := range []struct {
		label  string
		sample services.Sample
	}{{"baseline", cmp.Baseline}, {"subset", cmp.Subset}} {
		s := row.sample.Summary
		fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			row.label, s.Count, s.Mean, s.StdDev, s.Min, s.Max, s.Median)
	}
	tw.Flush()

	r := cmp.Result
	fmt.Fprintf(out, "\nKS statistic: %.6f\n", r.KSStatistic)
	fmt.Fprintf(out, "lambda:       %.6f\n", r.Lambda)
	fmt.Fprintf(out, "p-value:      %.6g\n", r.PValue)
	fmt.Fprintf(out, "significant:  %t (alpha %.3g)\n", cmp.Significant, cmp.Alpha)
	if cmp.FlaggedDays > 0 {
		fmt.Fprintf(out, "flagged days: %d\n", cmp.FlaggedDays)
	}
	if cmp.Rejected > 0 {
		fmt.Fprintf(out, "rejected rows: %d\n", cmp.Rejected)
	}
}

func printScan(out io.Writer, scan *services.WeekdayScan) {
	fmt.Fprintf(out, "Dataset: %s\n", scan.Dataset)
	fmt.Fprintf(out, "Baseline: %s (%d returns)\n\n", conditionsText(scan.BaselineConditions), scan.BaselineCount)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Day\tCount\tKS\tp-value\tSignificant")
	for _, d := range scan.Days {
		if d.Skipped || d.Result == nil {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\tskipped\n", d.Day, d.Count)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.6g\t%t\n", d.Day, d.Count, d.Result.KSStatistic, d.Result.PValue, d.Significant)
	}
	tw.Flush()
	fmt.Fprintf(out, "\nalpha %.3g\n", scan.Alpha)
}

func conditionsText(conds []string) string {
	if len(conds) == 0 {
		return "all observations"
	}
	return strings.Join(conds, " AND ")
}
