package returns

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrMissingColumn indicates a header without one of the required columns.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNoHeader indicates a source without a recognizable header row.
	ErrNoHeader = errors.New("no header row found")

	// ErrUnsupportedFormat indicates a file extension Load cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Column names accepted for each field, compared case-insensitively.
var (
	dateColumns  = []string{"date"}
	openColumns  = []string{"open"}
	closeColumns = []string{"close", "price", "adj close"}
)

// columnMap holds the positions of the required columns in a header row.
type columnMap struct {
	date, open, close int
}

func (c columnMap) width() int {
	return max(c.date, c.open, c.close) + 1
}

// Load reads raw records from a .csv or .xlsx file.
func Load(path string) ([]RawRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path, "")
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
}

// LoadCSV reads raw records from a CSV file with a header row.
func LoadCSV(path string) ([]RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	records, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// ReadCSV reads raw records from CSV data. The first row must be a header
// naming the Date, Open and Close (or Price) columns.
func ReadCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows  [][]string
		lines []int
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV records: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, row)
		lines = append(lines, line)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}
	return extractRecords(rows[1:], cols, func(i int) int { return lines[i+1] }), nil
}

// LoadXLSX reads raw records from a workbook. When sheet is empty the first
// sheet with a recognizable header in its first rows is used.
func LoadXLSX(path, sheet string) ([]RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet != "" {
		sheets = []string{sheet}
	}

	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		// header may sit below a title block
		for i := 0; i < len(rows) && i < 10; i++ {
			cols, err := mapColumns(rows[i])
			if err != nil {
				continue
			}
			offset := i + 2
			return extractRecords(rows[i+1:], cols, func(j int) int { return offset + j }), nil
		}
	}

	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoHeader)
}

func mapColumns(header []string) (columnMap, error) {
	cols := columnMap{date: -1, open: -1, close: -1}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		switch {
		case cols.date < 0 && contains(dateColumns, name):
			cols.date = i
		case cols.open < 0 && contains(openColumns, name):
			cols.open = i
		case cols.close < 0 && contains(closeColumns, name):
			cols.close = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Date")
	}
	if cols.open < 0 {
		missing = append(missing, "Open")
	}
	if cols.close < 0 {
		missing = append(missing, "Close/Price")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingColumn)
	}
	return cols, nil
}

// extractRecords skips blank rows; lineOf maps a row index to its source line.
func extractRecords(rows [][]string, cols columnMap, lineOf func(int) int) []RawRecord {
	records := make([]RawRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		// short rows keep their line and fail in Prepare
		padded := row
		if len(row) < cols.width() {
			padded = make([]string, cols.width())
			copy(padded, row)
		}
		records = append(records, RawRecord{
			Line:  lineOf(i),
			Date:  padded[cols.date],
			Open:  padded[cols.open],
			Close: padded[cols.close],
		})
	}
	return records
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
