package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/download"
	"github.com/glorpus-work/imgurdl/pkg/orchestrator"
)

// progressReporter renders orchestrator events and per-item results.
// With a bar it draws one progress bar per batch; without it, it prints one line per event.
type progressReporter struct {
	out     io.Writer
	showBar bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, showBar bool) *progressReporter {
	return &progressReporter{out: out, showBar: showBar}
}

// OnEvent implements orchestrator.Hooks.OnEvent.
func (p *progressReporter) OnEvent(e orchestrator.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Phase {
	case orchestrator.PhaseDownloading:
		if p.showBar && e.Total > 0 {
			p.bar = progressbar.NewOptions(e.Total,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionSetDescription(e.ID),
				progressbar.OptionSetWidth(ProgressWidth),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(ProgressThrottle),
				progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(p.out) }),
			)
			return
		}
		p.printf("%s: %d images to %s", e.ID, e.Total, e.Msg)
	case orchestrator.PhaseDone:
		p.finishBar()
		p.printf("%s: %s", e.ID, e.Msg)
	case orchestrator.PhaseError:
		p.finishBar()
	case orchestrator.PhaseDryRun:
		p.printf("%s: %s", e.ID, e.Msg)
	default:
		logger.Debug(e.Msg, logger.Fields{"phase": e.Phase, "gallery": e.ID})
	}
}

// OnResult implements download.Options.OnResult.
func (p *progressReporter) OnResult(r download.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Add(1)
		return
	}
	if r.Err != nil {
		p.printf("  failed %s: %v", r.Item.SourceURL, r.Err)
		return
	}
	p.printf("  saved %s", r.Item.DestinationPath)
}

func (p *progressReporter) finishBar() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}

func (p *progressReporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
