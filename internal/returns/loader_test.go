package returns

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const investingCSV = `"Date","Price","Open","High","Low","Vol.","Change %"
"01/08/2020","324.45","323.16","325.78","322.67","68.30M","0.50%"
"01/07/2020","322.81","323.02","323.54","322.24","40.50M","-0.28%"

"01/06/2020","323.73","320.49","323.73","320.36","56.08M","0.38%"
"bad row"
`

func TestReadCSV_InvestingExport(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(investingCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, RawRecord{Line: 2, Date: "01/08/2020", Open: "323.16", Close: "324.45"}, records[0])
	assert.Equal(t, 3, records[1].Line)
	assert.Equal(t, 5, records[2].Line, "line numbers follow the source across blank lines")

	// short row keeps its line and fails during preparation
	assert.Equal(t, RawRecord{Line: 6, Date: "bad row"}, records[3])
	_, err = Prepare(records[3])
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestReadCSV_Headers(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		want    RawRecord
	}{
		{
			name: "close column and BOM",
			data: "\ufeffDate,Open,High,Low,Close\n3/2/2021,10,11,9,10.5\n",
			want: RawRecord{Line: 2, Date: "3/2/2021", Open: "10", Close: "10.5"},
		},
		{
			name: "lowercase names",
			data: "date,open,close\n3/2/2021,10,10.5\n",
			want: RawRecord{Line: 2, Date: "3/2/2021", Open: "10", Close: "10.5"},
		},
		{
			name:    "missing open",
			data:    "Date,Close\n3/2/2021,10\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:    "empty input",
			data:    "",
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ReadCSV(strings.NewReader(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0])
		})
	}
}

func TestLoad_CSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spy.csv")
	require.NoError(t, os.WriteFile(path, []byte(investingCSV), 0644))

	records, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	_, err = LoadCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("prices.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadXLSX(t *testing.T) {
	path := createWorkbook(t, [][]interface{}{
		{"SPY daily prices"},
		{},
		{"Date", "Price", "Open"},
		{"01/06/2020", "323.73", "320.49"},
		{"01/07/2020", "322.81", "323.02"},
	})

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, RawRecord{Line: 4, Date: "01/06/2020", Open: "320.49", Close: "323.73"}, records[0])
	assert.Equal(t, 5, records[1].Line)

	batch, err := PrepareAll(records, PolicyStrict)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", batch.Observations[1].Day)
}

func TestLoadXLSX_NoHeader(t *testing.T) {
	path := createWorkbook(t, [][]interface{}{
		{"just", "numbers"},
		{1, 2},
	})

	_, err := LoadXLSX(path, "")
	assert.ErrorIs(t, err, ErrNoHeader)
}

func createWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "prices.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}
