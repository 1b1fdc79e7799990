// Package returns turns daily price rows into return observations.
//
// A RawRecord holds the Date, Open and Close fields as read from a CSV or XLSX
// export. Prepare parses the month/day/year date and both prices and derives
//
//	Return = (Open - Close) / Open * 100
//
// together with the long weekday name and the fiscal (calendar) year used by
// the filter package.
//
// Malformed rows are handled by PrepareAll according to a RowPolicy:
// PolicySkip drops them and lists them in Batch.Rejected, PolicyStrict fails
// on the first one. A zero opening price is always a malformed row.
//
// Describe and Histogram summarize a return sample for reports.
package returns
