package download

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
)

// Failure describes one item that was not downloaded.
type Failure struct {
	ID   string
	URL  string
	Path string
	Err  error
}

// Report summarizes one finished batch.
// Attempted counts enqueued items; Attempted == Succeeded + Failed always holds.
// Items that could not be named are listed in Skipped and are not attempted.
type Report struct {
	BatchID    string
	Directory  string
	Attempted  int
	Succeeded  int
	Failed     int
	Bytes      int64
	Downloaded []string // destination paths of succeeded items, sorted
	Failures   []Failure
	Skipped    []Failure
	Duration   time.Duration
}

func (r *Report) record(res Result) {
	r.Attempted++
	if res.Err != nil {
		r.Failed++
		r.Failures = append(r.Failures, Failure{
			ID:   res.Item.ID,
			URL:  res.Item.SourceURL,
			Path: res.Item.DestinationPath,
			Err:  res.Err,
		})
		return
	}
	r.Succeeded++
	r.Bytes += res.Bytes
	r.Downloaded = append(r.Downloaded, res.Item.DestinationPath)
}

// finish puts completion-ordered slices into a stable order.
func (r *Report) finish(elapsed time.Duration) {
	r.Duration = elapsed
	sort.Strings(r.Downloaded)
	sort.SliceStable(r.Failures, func(i, j int) bool {
		return r.Failures[i].Path < r.Failures[j].Path
	})
}

// Err aggregates every failed and skipped item. It is nil for a clean batch.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, f := range r.Failures {
		result = multierror.Append(result, f.Err)
	}
	for _, f := range r.Skipped {
		result = multierror.Append(result, f.Err)
	}
	return result.ErrorOrNil()
}

// Summary renders a one-line description of the batch.
func (r *Report) Summary() string {
	s := fmt.Sprintf("%d attempted, %d succeeded, %d failed (%s in %s)",
		r.Attempted, r.Succeeded, r.Failed,
		humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
	if len(r.Skipped) > 0 {
		s += fmt.Sprintf(", %d skipped", len(r.Skipped))
	}
	return s
}
