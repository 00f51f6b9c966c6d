//go:generate mockgen -destination=./mocks/orchestrator.go . Resolver,BatchRunner,ScriptRunner,Archiver

package orchestrator

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/glorpus-work/imgurdl/pkg/archive"
	"github.com/glorpus-work/imgurdl/pkg/download"
	"github.com/glorpus-work/imgurdl/pkg/gallery"
	"github.com/glorpus-work/imgurdl/pkg/hooks"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

// Resolver is the subset of the gallery client used by the orchestrator.
type Resolver interface {
	GetAlbum(ctx context.Context, id string) (gallery.Album, error)
	ListAlbumItems(ctx context.Context, id string) ([]model.ItemDescriptor, error)
	ListSubredditPageItems(ctx context.Context, name string, page int) ([]model.ItemDescriptor, error)
}

// BatchRunner downloads one batch of items into a directory.
type BatchRunner interface {
	RunBatch(ctx context.Context, items []model.ItemDescriptor, dir string, opts download.Options) (*download.Report, error)
}

// ScriptRunner runs user hook scripts around a batch.
type ScriptRunner interface {
	Execute(ctx context.Context, hookType hooks.HookType, hctx hooks.HookContext) error
}

// Archiver packs a finished download directory.
type Archiver interface {
	Create(ctx context.Context, sourceDir, archivePath string, format archive.Format) error
}

// Orchestrator ties the gallery resolver, the download engine, hook scripts and
// archiving together. Scripts and Archiver are optional.
type Orchestrator struct {
	Resolver Resolver
	DL       BatchRunner
	Scripts  ScriptRunner
	Archiver Archiver
	Hooks    Hooks // Hooks for progress and event notifications
}

// Event phases.
const (
	PhaseResolving   = "resolving"
	PhaseDryRun      = "dry-run"
	PhaseDownloading = "downloading"
	PhaseArchiving   = "archiving"
	PhaseDone        = "done"
	PhaseError       = "error"
)

// Event represents a simple progress notification.
type Event struct {
	Phase string // one of the Phase constants
	ID    string // album id or subreddit name
	Msg   string
	Total int // number of items, set for PhaseDownloading and PhaseDryRun
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	// Root is the directory relative download directories are created in.
	// Empty means ~/ImgurDownloads.
	Root string
	// Workers is passed to every batch; <= 0 means download.DefaultWorkers.
	Workers int
	// Pages is the number of subreddit pages to list; <= 0 means 1.
	Pages int
	// DryRun resolves galleries and reports counts without touching the disk.
	DryRun bool
	// Archive packs every finished directory when set.
	Archive archive.Format
	// OnResult is forwarded to every batch.
	OnResult func(download.Result)
}

// Summary collects the outcome of one command.
type Summary struct {
	Images   int // images found, including those inside albums
	Albums   int
	DryRun   bool
	Reports  []*download.Report
	Archives []string
	// HookErrors holds failed post-batch scripts; they do not abort the run.
	HookErrors []error
}

// Attempted sums Attempted over all batches.
func (s *Summary) Attempted() int {
	n := 0
	for _, r := range s.Reports {
		n += r.Attempted
	}
	return n
}

// Succeeded sums Succeeded over all batches.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Reports {
		n += r.Succeeded
	}
	return n
}

// Failed sums Failed and skipped items over all batches.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Reports {
		n += r.Failed + len(r.Skipped)
	}
	return n
}

// Err aggregates item failures of every batch and post-batch hook errors.
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, r := range s.Reports {
		if err := r.Err(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	result = multierror.Append(result, s.HookErrors...)
	return result.ErrorOrNil()
}
