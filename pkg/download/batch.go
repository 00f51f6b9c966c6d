package download

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glorpus-work/imgurdl/internal/logger"
	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

// DefaultWorkers is the pool size used when Options.Workers is not set.
const DefaultWorkers = 12

// Coordinator runs batches: it names the items, feeds a fresh queue and pool,
// waits for all of them and builds the Report.
type Coordinator struct {
	fetcher Fetcher
	newID   func() string
}

// NewCoordinator creates a Coordinator that fetches with fetcher.
func NewCoordinator(fetcher Fetcher) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		newID:   func() string { return uuid.NewString() },
	}
}

// RunBatch downloads items into dir, which must be an existing absolute directory.
// Per-item failures are recorded in the Report; the returned error is only set
// for invalid arguments.
func (c *Coordinator) RunBatch(ctx context.Context, items []model.ItemDescriptor, dir string, opts Options) (*Report, error) {
	if dir == "" || !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("batch directory must be an absolute path, got %q: %w", dir, pkgerrors.ErrInvalidPath)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	report := &Report{BatchID: c.newID(), Directory: dir}
	fields := logger.Fields{"batch": report.BatchID}
	start := time.Now()

	work := c.assignNames(items, dir, report)

	var mu sync.Mutex
	onResult := func(res Result) {
		mu.Lock()
		defer mu.Unlock()
		report.record(res)
		if opts.OnResult != nil {
			opts.OnResult(res)
		}
	}

	queue := NewWorkQueue()
	pool := NewPool(queue, c.fetcher, workers, onResult).WithLogFields(fields)

	logger.Debug("starting batch", fields, logger.Fields{
		"dir":     dir,
		"items":   len(work),
		"skipped": len(report.Skipped),
		"workers": workers,
	})

	pool.Start(ctx)
	for _, w := range work {
		queue.Put(w)
	}
	pool.Stop()
	queue.Join()
	pool.Wait()

	report.finish(time.Since(start))
	logger.Debug("batch finished", fields, logger.Fields{
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	})
	return report, nil
}

// assignNames resolves destinations in input order before any fetch starts.
func (c *Coordinator) assignNames(items []model.ItemDescriptor, dir string, report *Report) []WorkItem {
	namer := NewNamer()
	work := make([]WorkItem, 0, len(items))
	for _, it := range items {
		dest, err := namer.NameFor(it, dir)
		if err != nil {
			logger.Warn("skipping item", logger.Fields{"id": it.StableID, "error": err.Error()})
			report.Skipped = append(report.Skipped, Failure{ID: it.StableID, URL: it.RemoteURL, Err: err})
			continue
		}
		work = append(work, WorkItem{ID: it.StableID, SourceURL: it.RemoteURL, DestinationPath: dest})
	}
	return work
}
