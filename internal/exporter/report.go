package exporter

import (
	"errors"
	"fmt"
	"log/slog"

	"kscompare/internal/returns"
	"kscompare/internal/services"
)

// ErrFlagMismatch indicates a flag slice that does not line up with its
// observations.
var ErrFlagMismatch = errors.New("flags do not match observations")

var comparisonHeaders = []string{
	"Dataset", "BaselineConditions", "SubsetConditions",
	"BaselineCount", "SubsetCount", "KSStatistic", "Lambda", "PValue",
	"Alpha", "Significant", "BaselineMean", "SubsetMean",
	"BaselineStdDev", "SubsetStdDev", "FlaggedDays", "RejectedRows",
}

var weekdayHeaders = []string{
	"Dataset", "BaselineConditions", "Day", "Count", "Skipped",
	"KSStatistic", "PValue", "Alpha", "Significant", "Mean", "StdDev",
}

var observationHeaders = []string{"Date", "Day", "FY", "Open", "Close", "Return", "Signal"}

// WriteComparison writes one row of statistics for cmp and returns the path
// written.
func (w *CSVWriter) WriteComparison(filePath string, cmp *services.Comparison) (string, error) {
	if cmp == nil || cmp.Result == nil {
		return "", fmt.Errorf("write comparison: no result")
	}

	record := []string{
		cmp.Dataset,
		formatList(cmp.BaselineConditions),
		formatList(cmp.SubsetConditions),
		formatInt(cmp.Result.N1),
		formatInt(cmp.Result.N2),
		formatFloat(cmp.Result.KSStatistic),
		formatFloat(cmp.Result.Lambda),
		formatFloat(cmp.Result.PValue),
		formatFloat(cmp.Alpha),
		formatBool(cmp.Significant),
		formatFloat(cmp.Baseline.Summary.Mean),
		formatFloat(cmp.Subset.Summary.Mean),
		formatFloat(cmp.Baseline.Summary.StdDev),
		formatFloat(cmp.Subset.Summary.StdDev),
		formatInt(cmp.FlaggedDays),
		formatInt(cmp.Rejected),
	}

	return w.WriteSimpleCSV(filePath, comparisonHeaders, [][]string{record})
}

// WriteWeekdayScan writes one row per scanned weekday.
func (w *CSVWriter) WriteWeekdayScan(filePath string, scan *services.WeekdayScan) (string, error) {
	if scan == nil {
		return "", fmt.Errorf("write weekday scan: no result")
	}

	baseline := formatList(scan.BaselineConditions)
	records := make([][]string, 0, len(scan.Days))
	for _, day := range scan.Days {
		record := []string{
			scan.Dataset, baseline, day.Day, formatInt(day.Count), formatBool(day.Skipped),
			"", "", formatFloat(scan.Alpha), formatBool(day.Significant), "", "",
		}
		if day.Result != nil {
			record[5] = formatFloat(day.Result.KSStatistic)
			record[6] = formatFloat(day.Result.PValue)
		}
		if day.Summary != nil {
			record[9] = formatFloat(day.Summary.Mean)
			record[10] = formatFloat(day.Summary.StdDev)
		}
		records = append(records, record)
	}

	return w.WriteSimpleCSV(filePath, weekdayHeaders, records)
}

// WriteObservations streams prepared observations with a Signal column set
// to 1 where flags marks the row. A nil flags slice writes all zeros.
func (w *CSVWriter) WriteObservations(filePath string, obs []returns.Observation, flags []bool) (string, error) {
	if flags != nil && len(flags) != len(obs) {
		return "", fmt.Errorf("%w: %d flags for %d observations", ErrFlagMismatch, len(flags), len(obs))
	}

	stream, err := w.CreateStreamWriter(filePath, observationHeaders)
	if err != nil {
		return "", err
	}

	for i, o := range obs {
		signal := flags != nil && flags[i]
		record := []string{
			o.Date.Format(returns.DateLayout),
			o.Day,
			formatInt(o.FY),
			formatFloat(o.Open),
			formatFloat(o.Close),
			formatFixed(o.Return, 4),
			formatSignal(signal),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return "", fmt.Errorf("failed to write observation %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return "", err
	}

	w.logger.Info("observations exported",
		slog.String("path", stream.Path()),
		slog.Int("rows", len(obs)))
	return stream.Path(), nil
}
