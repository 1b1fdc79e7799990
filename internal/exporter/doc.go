// Package exporter writes comparison results and prepared observations as
// CSV reports.
//
// CSVWriter is the core writer. It prefixes new files with a UTF-8 BOM so
// Excel detects the encoding, and resolves relative paths against the
// reports directory. On top of it:
//
//	WriteComparison    one row of KS statistics for a comparison
//	WriteWeekdayScan   one row per weekday of a scan
//	WriteObservations  Date, Day, FY, Open, Close, Return and Signal columns
//
// Example usage:
//
//	w := exporter.NewCSVWriter(cfg.Paths, logger)
//	path, err := w.WriteComparison("spy_monday.csv", cmp)
package exporter
