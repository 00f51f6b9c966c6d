package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/download"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
	"github.com/glorpus-work/imgurdl/pkg/gallery"
	"github.com/glorpus-work/imgurdl/pkg/hooks"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// target is one directory-sized unit of work.
type target struct {
	kind  gallery.RefKind
	id    string
	title string
	dir   string // directory name relative to Options.Root, or absolute
	items []model.ItemDescriptor
}

// DownloadAlbum downloads every image of an album into <root>/<albumID>.
func (o *Orchestrator) DownloadAlbum(ctx context.Context, albumID string, opts Options) (*Summary, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	summary := &Summary{DryRun: opts.DryRun}
	if err := o.downloadAlbum(ctx, albumID, "", "", opts, summary); err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: albumID, Msg: err.Error()})
		return summary, err
	}
	return summary, nil
}

// DownloadSubreddit downloads the newest Pages pages of a subreddit gallery.
// Albums posted to the subreddit go to <root>/<name>/<albumID>, plain images to <root>/<name>.
func (o *Orchestrator) DownloadSubreddit(ctx context.Context, name string, opts Options) (*Summary, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	summary := &Summary{DryRun: opts.DryRun}
	if err := o.downloadSubreddit(ctx, name, opts, summary); err != nil {
		emit(o.Hooks, Event{Phase: PhaseError, ID: name, Msg: err.Error()})
		return summary, err
	}
	return summary, nil
}

func (o *Orchestrator) validate() error {
	if o.Resolver == nil {
		return fmt.Errorf("gallery resolver is not configured")
	}
	if o.DL == nil {
		return fmt.Errorf("download manager is not configured")
	}
	return nil
}

func (o *Orchestrator) downloadAlbum(ctx context.Context, albumID, title, parent string, opts Options, summary *Summary) error {
	emit(o.Hooks, Event{Phase: PhaseResolving, ID: albumID, Msg: "album"})
	if title == "" {
		album, err := o.Resolver.GetAlbum(ctx, albumID)
		if err != nil {
			return err
		}
		title = album.Title
	}
	items, err := o.Resolver.ListAlbumItems(ctx, albumID)
	if err != nil {
		return err
	}

	summary.Albums++
	summary.Images += len(items)
	logger.Info("found album images", logger.Fields{"album": albumID, "title": title, "images": len(items)})

	dir := albumID
	if parent != "" {
		dir = filepath.Join(parent, albumID)
	}
	t := target{kind: gallery.KindAlbum, id: albumID, title: title, dir: dir, items: items}
	if opts.DryRun {
		emit(o.Hooks, Event{Phase: PhaseDryRun, ID: albumID, Total: len(items),
			Msg: fmt.Sprintf("would download %d images from album %s", len(items), displayTitle(title, albumID))})
		return nil
	}
	return o.runTarget(ctx, t, opts, summary)
}

func (o *Orchestrator) downloadSubreddit(ctx context.Context, name string, opts Options, summary *Summary) error {
	pages := opts.Pages
	if pages <= 0 {
		pages = 1
	}

	var images, albums []model.ItemDescriptor
	for page := 0; page < pages; page++ {
		emit(o.Hooks, Event{Phase: PhaseResolving, ID: name, Msg: fmt.Sprintf("page %d", page)})
		items, err := o.Resolver.ListSubredditPageItems(ctx, name, page)
		if err != nil {
			return err
		}
		pageImages, pageAlbums := model.Partition(items)
		images = append(images, pageImages...)
		albums = append(albums, pageAlbums...)
	}
	logger.Info("found subreddit items", logger.Fields{"subreddit": name, "images": len(images), "albums": len(albums)})

	if opts.DryRun {
		summary.Images += len(images)
		summary.Albums += len(albums)
		emit(o.Hooks, Event{Phase: PhaseDryRun, ID: name, Total: len(images),
			Msg: fmt.Sprintf("would download %d images and %d albums from r/%s", len(images), len(albums), name)})
		return nil
	}

	for _, album := range albums {
		if err := o.downloadAlbum(ctx, album.StableID, album.DisplayName(), name, opts, summary); err != nil {
			return err
		}
	}

	summary.Images += len(images)
	return o.runTarget(ctx, target{kind: gallery.KindSubreddit, id: name, dir: name, items: images}, opts, summary)
}

// runTarget prepares the directory and runs the batch with its hooks and archive step.
func (o *Orchestrator) runTarget(ctx context.Context, t target, opts Options, summary *Summary) error {
	dir, err := fsutil.EnsureDownloadDir(t.dir, opts.Root)
	if err != nil {
		return err
	}

	hctx := hooks.HookContext{
		GalleryID:   t.id,
		GalleryKind: t.kind.String(),
		Title:       t.title,
		Directory:   dir,
		ItemCount:   len(t.items),
	}
	if o.Scripts != nil {
		if err := o.Scripts.Execute(ctx, hooks.PreBatch, hctx); err != nil {
			return err
		}
	}

	emit(o.Hooks, Event{Phase: PhaseDownloading, ID: t.id, Total: len(t.items), Msg: dir})
	report, err := o.DL.RunBatch(ctx, t.items, dir, download.Options{Workers: opts.Workers, OnResult: opts.OnResult})
	if err != nil {
		return err
	}
	summary.Reports = append(summary.Reports, report)

	fields := logger.Fields{"gallery": t.id, "dir": dir, "batch": report.BatchID}
	if report.Failed > 0 {
		logger.Warn(fmt.Sprintf("%s %s downloaded with errors: %s", t.kind, displayTitle(t.title, t.id), report.Summary()), fields)
	} else {
		logger.Success(fmt.Sprintf("%s %s downloaded: %s", t.kind, displayTitle(t.title, t.id), report.Summary()), fields)
	}

	if o.Scripts != nil {
		hctx.BatchID = report.BatchID
		hctx.Attempted = report.Attempted
		hctx.Succeeded = report.Succeeded
		hctx.Failed = report.Failed
		hctx.Files = report.Downloaded
		if err := o.Scripts.Execute(ctx, hooks.PostBatch, hctx); err != nil {
			logger.Warn("post-batch hook failed", fields, logger.Fields{"error": err.Error()})
			summary.HookErrors = append(summary.HookErrors, err)
		}
	}

	if opts.Archive != "" && o.Archiver != nil {
		archivePath := opts.Archive.PathFor(dir)
		emit(o.Hooks, Event{Phase: PhaseArchiving, ID: t.id, Msg: archivePath})
		if err := o.Archiver.Create(ctx, dir, archivePath, opts.Archive); err != nil {
			return err
		}
		summary.Archives = append(summary.Archives, archivePath)
	}

	emit(o.Hooks, Event{Phase: PhaseDone, ID: t.id, Total: report.Attempted, Msg: report.Summary()})
	return nil
}

func displayTitle(title, id string) string {
	if title == "" {
		return id
	}
	return fmt.Sprintf("%q", title)
}
