package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kscompare/internal/files"
	"kscompare/internal/returns"
	"kscompare/internal/shared/testutil"
)

func newTestCache(t *testing.T, maxSize int, policy returns.RowPolicy) (*DatasetCache, *testutil.BufferedSlogHandler) {
	logger, logs := testutil.NewTestLogger(t)
	return NewDatasetCache(maxSize, policy, nil, logger), logs
}

func statFixture(t *testing.T, path string) files.FileInfo {
	t.Helper()
	info, err := files.Stat(path)
	require.NoError(t, err)
	return info
}

func TestDatasetCache_HitAndMiss(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePriceCSV(t, dir, "spy.csv", []testutil.PriceRow{
		testutil.Row("1/7/2019", 100, 99),
		testutil.Row("1/8/2019", 100, 101),
	})
	cache, logs := newTestCache(t, 4, returns.PolicySkip)
	info := statFixture(t, path)

	first, err := cache.Get(context.Background(), info)
	require.NoError(t, err)
	require.Len(t, first.Observations, 2)
	assert.Equal(t, "spy.csv", first.Name)
	assert.InDelta(t, 1.0, first.Observations[0].Return, 1e-9)

	second, err := cache.Get(context.Background(), info)
	require.NoError(t, err)
	assert.Same(t, first, second)

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
	testutil.AssertLogAttr(t, logs, "component", "dataset_cache")
}

func TestDatasetCache_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	rows := []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)}
	path := testutil.WritePriceCSV(t, dir, "spy.csv", rows)
	cache, _ := newTestCache(t, 4, returns.PolicySkip)

	first, err := cache.Get(context.Background(), statFixture(t, path))
	require.NoError(t, err)
	require.Len(t, first.Observations, 1)

	rows = append(rows, testutil.Row("1/8/2019", 100, 98))
	testutil.WritePriceCSV(t, dir, "spy.csv", rows)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := cache.Get(context.Background(), statFixture(t, path))
	require.NoError(t, err)
	assert.Len(t, second.Observations, 2)
	assert.Equal(t, 1, cache.Stats().Entries)
	assert.Equal(t, int64(2), cache.Stats().Misses)
}

func TestDatasetCache_ConcurrentMissesShareOneLoad(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePriceCSV(t, dir, "spy.csv", []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)})
	cache, _ := newTestCache(t, 4, returns.PolicySkip)

	var calls atomic.Int32
	release := make(chan struct{})
	cache.load = func(p string) ([]returns.RawRecord, error) {
		calls.Add(1)
		<-release
		return returns.Load(p)
	}

	info := statFixture(t, path)
	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := cache.Get(context.Background(), info)
			assert.NoError(t, err)
			results[i] = ds
		}()
	}

	// let the goroutines queue behind the first load
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestDatasetCache_CancelledWait(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePriceCSV(t, dir, "spy.csv", []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)})
	cache, _ := newTestCache(t, 4, returns.PolicySkip)

	release := make(chan struct{})
	cache.load = func(p string) ([]returns.RawRecord, error) {
		<-release
		return returns.Load(p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cache.Get(ctx, statFixture(t, path))
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		return cache.Stats().Entries == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDatasetCache_Eviction(t *testing.T) {
	dir := t.TempDir()
	cache, _ := newTestCache(t, 1, returns.PolicySkip)

	a := testutil.WritePriceCSV(t, dir, "a.csv", []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)})
	b := testutil.WritePriceCSV(t, dir, "b.csv", []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)})

	_, err := cache.Get(context.Background(), statFixture(t, a))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), statFixture(t, b))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Stats().Entries)
	_, ok := cache.lookup(statFixture(t, b))
	assert.True(t, ok)

	cache.Invalidate(statFixture(t, b).Path)
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestDatasetCache_ZeroSizeDoesNotRetain(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePriceCSV(t, dir, "spy.csv", []testutil.PriceRow{testutil.Row("1/7/2019", 100, 99)})
	cache, _ := newTestCache(t, 0, returns.PolicySkip)

	_, err := cache.Get(context.Background(), statFixture(t, path))
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Stats().Entries)
}

func TestDatasetCache_Errors(t *testing.T) {
	dir := t.TempDir()

	badHeader := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(badHeader, []byte("Date,Open\n1/7/2019,100\n"), 0644))

	strictRows := testutil.WritePriceCSV(t, dir, "strict.csv", []testutil.PriceRow{
		testutil.Row("1/7/2019", 100, 99),
		{Date: "2019-01-08", Open: "100", Close: "99"},
	})

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0644))

	tests := []struct {
		name    string
		path    string
		policy  returns.RowPolicy
		wantErr error
	}{
		{"missing column", badHeader, returns.PolicySkip, ErrDatasetInvalid},
		{"strict malformed row", strictRows, returns.PolicyStrict, ErrDatasetInvalid},
		{"unsupported format", notes, returns.PolicySkip, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, logs := newTestCache(t, 4, tt.policy)

			_, err := cache.Get(context.Background(), statFixture(t, tt.path))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			assert.Equal(t, 0, cache.Stats().Entries)
			assert.True(t, logs.ContainsMessage("dataset load failed"))
		})
	}
}

func TestDatasetCache_SkipPolicyKeepsRejections(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePriceCSV(t, dir, "spy.csv", []testutil.PriceRow{
		testutil.Row("1/7/2019", 100, 99),
		{Date: "1/8/2019", Open: "0", Close: "99"},
		{Date: "1/9/2019", Open: "n/a", Close: "99"},
	})
	cache, _ := newTestCache(t, 4, returns.PolicySkip)

	ds, err := cache.Get(context.Background(), statFixture(t, path))
	require.NoError(t, err)
	assert.Len(t, ds.Observations, 1)
	require.Len(t, ds.Rejected, 2)
	assert.Equal(t, 3, ds.Rejected[0].Line)

	low, high, ok := ds.Years()
	assert.True(t, ok)
	assert.Equal(t, 2019, low)
	assert.Equal(t, 2019, high)
}
