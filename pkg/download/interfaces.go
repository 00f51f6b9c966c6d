//go:generate mockgen -destination=./mocks/download.go . Fetcher

package download

import (
	"context"
	"time"
)

// Fetcher retrieves one WorkItem to its destination path.
// It returns the number of bytes written. Failures are reported as *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, item WorkItem) (int64, error)
}

// WorkItem is one pending download: where to read from and where to write to.
// A WorkItem belongs to the worker that dequeued it until its fetch attempt is over.
type WorkItem struct {
	ID              string // stable id of the originating item, used in reports
	SourceURL       string
	DestinationPath string
}

// Result is the outcome of one fetch attempt.
type Result struct {
	Item     WorkItem
	Bytes    int64
	Err      error
	Duration time.Duration
}

// Options control one batch run.
type Options struct {
	// Workers is the pool size; if <= 0, DefaultWorkers is used.
	Workers int
	// OnResult, if set, is called once per attempted item. Calls are serialized.
	OnResult func(Result)
}
