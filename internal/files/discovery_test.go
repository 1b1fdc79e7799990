package files

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Date,Open,Close\n"), 0644))
	}
}

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"spy.csv", FormatCSV},
		{"SPY.CSV", FormatCSV},
		{"prices.xlsx", FormatXLSX},
		{"legacy.xls", ""},
		{"notes.txt", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.name))
		})
	}

	assert.False(t, IsDataset("~$prices.xlsx"))
	assert.False(t, IsDataset(".hidden.csv"))
	assert.True(t, IsDataset("prices.xlsx"))
}

func TestFindDatasets(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "mixed file types",
			files: []string{"spy.csv", "qqq.xlsx", "readme.txt", "old.xls"},
			want:  []string{"qqq.xlsx", "spy.csv"},
		},
		{
			name:  "lock and hidden files skipped",
			files: []string{"~$qqq.xlsx", ".spy.csv", "iwm.csv"},
			want:  []string{"iwm.csv"},
		},
		{
			name:  "empty directory",
			files: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFiles(t, dir, tt.files...)
			require.NoError(t, os.Mkdir(filepath.Join(dir, "reports.csv"), 0755))

			found, err := NewDiscovery(dir).FindDatasets("")
			require.NoError(t, err)

			names := make([]string, 0, len(found))
			for _, f := range found {
				names = append(names, f.Name)
				assert.Equal(t, filepath.Join(dir, f.Name), f.Path)
				assert.NotEmpty(t, f.Format)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindDatasets_RelativeAndMissing(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0755))
	createFiles(t, filepath.Join(base, "data"), "spy.csv")

	found, err := NewDiscovery(base).FindDatasets("data")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = NewDiscovery(base).FindDatasets("absent")
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "spy.csv")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))
	discovery := NewDiscovery(dir)

	info, err := discovery.Lookup("", "spy.csv")
	require.NoError(t, err)
	assert.Equal(t, "spy.csv", info.Name)
	assert.Equal(t, FormatCSV, info.Format)
	assert.Equal(t, int64(len("Date,Open,Close\n")), info.Size)

	_, err = discovery.Lookup("", "absent.csv")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = discovery.Lookup("", "sub.csv")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	for _, bad := range []string{"", ".", "..", "../spy.csv", "a/spy.csv", `a\spy.csv`} {
		_, err := discovery.Lookup("", bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	createFiles(t, dir, "spy.csv")

	info, err := Stat(filepath.Join(dir, "spy.csv"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(info.Path))

	_, err = Stat(dir)
	assert.Error(t, err)

	_, err = Stat(filepath.Join(dir, "absent.csv"))
	assert.Error(t, err)
}
