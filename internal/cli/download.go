package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/archive"
	"github.com/glorpus-work/imgurdl/pkg/config"
	"github.com/glorpus-work/imgurdl/pkg/download"
	"github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/gallery"
	"github.com/glorpus-work/imgurdl/pkg/hooks"
	"github.com/glorpus-work/imgurdl/pkg/orchestrator"
)

type downloadFlags struct {
	pages      int
	dryRun     bool
	workers    int
	dir        string
	archive    string
	noProgress bool
	noHooks    bool
}

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download <album-url|subreddit>",
		Short: "Download an album or a subreddit gallery",
		Long: `Download every image of an Imgur album, or the newest images and albums
posted to a subreddit gallery.

Albums are saved to <download_dir>/<album id>. Subreddit images are saved to
<download_dir>/<subreddit>, albums posted there to <download_dir>/<subreddit>/<album id>.
Images are named after their title when it is short enough, otherwise after their id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().IntVarP(&flags.pages, "pages", "p", DefaultPages, "Number of subreddit gallery pages to fetch")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "List what would be downloaded without downloading")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Number of parallel downloads (0=config)")
	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "Download root directory (defaults to config)")
	cmd.Flags().StringVar(&flags.archive, "archive", "", "Pack every finished directory (zip, tar.gz)")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Print one line per image instead of a progress bar")
	cmd.Flags().BoolVar(&flags.noHooks, "no-hooks", false, "Do not run pre-batch and post-batch hooks")

	cmd.Example = `  imgurdl download https://imgur.com/a/abc123
  imgurdl download r/earthporn --pages 3
  imgurdl download wallpapers --dry-run
  imgurdl download https://imgur.com/gallery/x/a/abc123 --archive zip`

	return cmd
}

func runDownload(ctx context.Context, out io.Writer, arg string, flags downloadFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ref, err := gallery.ParseRef(arg)
	if err != nil {
		return err
	}

	opts, err := downloadOptions(cfg, flags)
	if err != nil {
		return err
	}

	progressOut := out
	if jsonOutput(cfg) {
		progressOut = io.Discard
	}
	progress := newProgressReporter(progressOut, !flags.noProgress && !jsonOutput(cfg))
	opts.OnResult = progress.OnResult

	orch, err := newOrchestrator(cfg, orchestrator.Hooks{OnEvent: progress.OnEvent}, !flags.noHooks)
	if err != nil {
		return err
	}

	var summary *orchestrator.Summary
	switch ref.Kind {
	case gallery.KindAlbum:
		summary, err = orch.DownloadAlbum(ctx, ref.ID, opts)
	default:
		summary, err = orch.DownloadSubreddit(ctx, ref.ID, opts)
	}
	if err != nil {
		return fmt.Errorf("failed to download %s %s: %w", ref.Kind, ref.ID, err)
	}

	if err := printSummary(out, cfg, ref, summary); err != nil {
		return err
	}

	for _, hookErr := range summary.HookErrors {
		logger.Warn("post-batch hook error", logger.Fields{"error": hookErr.Error()})
	}
	if summary.Failed() > 0 {
		logger.Debug("item failures", logger.Fields{"error": summary.Err().Error()})
		return fmt.Errorf("%w: %d of %d images failed", errors.ErrBatchFailed, summary.Failed(), summary.Attempted()+skippedCount(summary))
	}
	return nil
}

func skippedCount(s *orchestrator.Summary) int {
	n := 0
	for _, r := range s.Reports {
		n += len(r.Skipped)
	}
	return n
}

// downloadOptions merges command flags over the configuration.
func downloadOptions(cfg *config.Config, flags downloadFlags) (orchestrator.Options, error) {
	opts := orchestrator.Options{
		Root:    cfg.Settings.DownloadDir,
		Workers: cfg.Settings.Workers,
		Pages:   flags.pages,
		DryRun:  flags.dryRun,
	}
	if flags.dir != "" {
		opts.Root = flags.dir
	}
	if flags.workers != 0 {
		if flags.workers < 0 {
			return opts, errors.ErrWorkersInvalid
		}
		opts.Workers = flags.workers
	}
	if flags.pages < 1 {
		return opts, fmt.Errorf("--pages must be at least 1, got %d", flags.pages)
	}

	format := cfg.Settings.ArchiveFormat
	if flags.archive != "" {
		format = flags.archive
	}
	archiveFormat, err := archive.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Archive = archiveFormat
	return opts, nil
}

// newOrchestrator wires the gallery client, the download engine, hooks and archiving.
func newOrchestrator(cfg *config.Config, events orchestrator.Hooks, withHooks bool) (*orchestrator.Orchestrator, error) {
	authenticator, err := cfg.Imgur.Authenticator()
	if err != nil {
		return nil, fmt.Errorf("%w: set imgur.client_id or %s", err, config.EnvClientID)
	}

	client, err := gallery.NewClient(gallery.Options{
		BaseURL:    cfg.Imgur.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Settings.HTTPTimeout},
		Auth:       authenticator,
		UserAgent:  cfg.Settings.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	fetcher := download.NewHTTPFetcher(&http.Client{}, cfg.Settings.UserAgent, cfg.Settings.FetchTimeout)

	orch := &orchestrator.Orchestrator{
		Resolver: client,
		DL:       download.NewCoordinator(fetcher),
		Archiver: archive.NewManager(),
		Hooks:    events,
	}

	if withHooks {
		hookManager := hooks.NewHookManager()
		if err := hooks.LoadHooksFromDir(hookManager, cfg.HooksDir()); err != nil {
			return nil, err
		}
		orch.Scripts = hookManager
	}

	return orch, nil
}

type summaryOutput struct {
	Kind      string   `json:"kind"`
	ID        string   `json:"id"`
	DryRun    bool     `json:"dry_run"`
	Images    int      `json:"images"`
	Albums    int      `json:"albums"`
	Attempted int      `json:"attempted"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Archives  []string `json:"archives,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func printSummary(out io.Writer, cfg *config.Config, ref gallery.Ref, s *orchestrator.Summary) error {
	if jsonOutput(cfg) {
		result := summaryOutput{
			Kind:      ref.Kind.String(),
			ID:        ref.ID,
			DryRun:    s.DryRun,
			Images:    s.Images,
			Albums:    s.Albums,
			Attempted: s.Attempted(),
			Succeeded: s.Succeeded(),
			Failed:    s.Failed(),
			Archives:  s.Archives,
		}
		for _, r := range s.Reports {
			for _, f := range r.Failures {
				result.Errors = append(result.Errors, f.Err.Error())
			}
			for _, f := range r.Skipped {
				result.Errors = append(result.Errors, f.Err.Error())
			}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if s.DryRun {
		_, _ = fmt.Fprintf(out, "Found %d images in %d albums\n", s.Images, s.Albums)
		return nil
	}
	for _, r := range s.Reports {
		_, _ = fmt.Fprintf(out, "%s: %s\n", r.Directory, r.Summary())
		for _, f := range r.Failures {
			_, _ = fmt.Fprintf(out, "  failed %s: %v\n", f.URL, f.Err)
		}
		for _, f := range r.Skipped {
			_, _ = fmt.Fprintf(out, "  skipped %s: %v\n", f.URL, f.Err)
		}
	}
	for _, path := range s.Archives {
		_, _ = fmt.Fprintf(out, "archive: %s\n", path)
	}
	return nil
}
