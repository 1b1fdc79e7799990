package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kscompare/internal/files"
	"kscompare/internal/infrastructure"
	"kscompare/internal/returns"
)

// Dataset is a prepared price file.
type Dataset struct {
	Name         string                `json:"name"`
	Format       string                `json:"format"`
	Size         int64                 `json:"size"`
	ModTime      time.Time             `json:"modified"`
	Observations []returns.Observation `json:"-"`
	Rejected     []returns.RowError    `json:"rejected,omitempty"`
	LoadedAt     time.Time             `json:"loaded_at"`
}

// Years returns the first and last fiscal year of the dataset.
func (d *Dataset) Years() (low, high int, ok bool) {
	batch := returns.Batch{Observations: d.Observations}
	return batch.Years()
}

// RecordLoader reads the raw records of a file.
type RecordLoader func(path string) ([]returns.RawRecord, error)

// CacheStats describes the dataset cache.
type CacheStats struct {
	Entries int   `json:"entries"`
	MaxSize int   `json:"max_size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type cacheEntry struct {
	dataset  *Dataset
	size     int64
	modTime  time.Time
	cachedAt time.Time
}

// DatasetCache holds prepared datasets keyed by file path. An entry is
// reused only while the file keeps the size and modification time it had
// when loaded. Concurrent misses on the same file share one load.
type DatasetCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	maxSize int
	hits    int64
	misses  int64

	group  singleflight.Group
	load   RecordLoader
	policy returns.RowPolicy
	tracer *ComparisonTracer
	logger *slog.Logger
}

// NewDatasetCache creates a cache of at most maxSize datasets. A maxSize of
// zero disables retention; loads are still de-duplicated.
func NewDatasetCache(maxSize int, policy returns.RowPolicy, tracer *ComparisonTracer, logger *slog.Logger) *DatasetCache {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if tracer == nil {
		tracer = NewComparisonTracer(nil)
	}
	return &DatasetCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
		load:    returns.Load,
		policy:  policy,
		tracer:  tracer,
		logger:  logger.With(slog.String("component", "dataset_cache")),
	}
}

// Get returns the prepared dataset for info, loading it when the cache has
// no current entry. The caller's context bounds only the wait; a load
// already in flight continues for other callers.
func (c *DatasetCache) Get(ctx context.Context, info files.FileInfo) (*Dataset, error) {
	if ds, ok := c.lookup(info); ok {
		infrastructure.RecordCacheLookup(ctx, c.tracer.metrics, true)
		return ds, nil
	}
	infrastructure.RecordCacheLookup(ctx, c.tracer.metrics, false)

	key := fmt.Sprintf("%s|%d|%d", info.Path, info.Size, info.ModTime.UnixNano())
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.loadDataset(loadCtx, info)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

func (c *DatasetCache) lookup(info files.FileInfo) (*Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[info.Path]
	if !ok || entry.size != info.Size || !entry.modTime.Equal(info.ModTime) {
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.dataset, true
}

func (c *DatasetCache) loadDataset(ctx context.Context, info files.FileInfo) (*Dataset, error) {
	ctx, span := c.tracer.TraceDatasetLoad(ctx, info.Name, info.Format)
	defer span.End()

	start := time.Now()
	ds, err := c.prepare(info)
	duration := time.Since(start)

	rows, rejected := 0, 0
	if ds != nil {
		rows, rejected = len(ds.Observations), len(ds.Rejected)
	}
	c.tracer.RecordDatasetLoadCompletion(ctx, span, info.Name, duration, rows, rejected, err)

	if err != nil {
		c.logger.WarnContext(ctx, "dataset load failed",
			slog.String("dataset", info.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.InfoContext(ctx, "dataset loaded",
		slog.String("dataset", info.Name),
		slog.Int("observations", rows),
		slog.Int("rejected", rejected),
		slog.Duration("duration", duration))

	c.store(info, ds)
	return ds, nil
}

func (c *DatasetCache) prepare(info files.FileInfo) (*Dataset, error) {
	raws, err := c.load(info.Path)
	if err != nil {
		if errors.Is(err, returns.ErrUnsupportedFormat) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDatasetInvalid, err)
	}

	batch, err := returns.PrepareAll(raws, c.policy)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDatasetInvalid, info.Name, err)
	}

	return &Dataset{
		Name:         info.Name,
		Format:       info.Format,
		Size:         info.Size,
		ModTime:      info.ModTime,
		Observations: batch.Observations,
		Rejected:     batch.Rejected,
		LoadedAt:     time.Now(),
	}, nil
}

func (c *DatasetCache) store(info files.FileInfo, ds *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize <= 0 {
		return
	}

	if _, exists := c.entries[info.Path]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[info.Path] = cacheEntry{
		dataset:  ds,
		size:     info.Size,
		modTime:  info.ModTime,
		cachedAt: time.Now(),
	}
}

// Invalidate drops the entry for path.
func (c *DatasetCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// Stats returns cache statistics
func (c *DatasetCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		Entries: len(c.entries),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

func (c *DatasetCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.cachedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
