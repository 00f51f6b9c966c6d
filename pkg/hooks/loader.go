package hooks

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/glorpus-work/imgurdl/internal/logger"
	"github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
)

// HookFileExtension is the extension of hook scripts in a hooks directory.
const HookFileExtension = ".tengo"

// LoadHooksFromDir registers <dir>/<hook-type>.tengo for every supported type.
// A missing directory is not an error; unknown file names are ignored.
func LoadHooksFromDir(manager HookManager, dir string) error {
	if dir == "" {
		return nil
	}
	dir, err := fsutil.ExpandHome(dir)
	if err != nil {
		return errors.Wrapf(errors.ErrHookLoad, "invalid hooks directory: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != HookFileExtension {
			continue
		}
		hookType := HookType(strings.TrimSuffix(entry.Name(), HookFileExtension))
		if !slices.Contains(Types, hookType) {
			logger.Debug("ignoring unknown hook file", logger.Fields{"file": entry.Name()})
			continue
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(err, "error reading hooks file %s", hookPath)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return errors.Wrapf(err, "error adding hooks %s", hookType)
		}
		logger.Debug("loaded hook", logger.Fields{"hook": string(hookType), "path": hookPath})
	}
	return nil
}

// HookTemplate generates a template for a hooks script.
func HookTemplate(hookType HookType) string {
	switch hookType {
	case PreBatch:
		return `// Pre-batch hook
// Runs before the images of one album or subreddit page set are fetched.
// Available variables:
// - galleryID: string - album id or subreddit name
// - galleryKind: string - "album" or "subreddit"
// - title: string - album title, may be empty
// - directory: string - absolute download directory
// - itemCount: int - number of images about to be fetched
// Assign a message to err (err = "...") to abort the batch.

/*
if itemCount > 500 {
    err = "refusing to download " + itemCount + " images"
}
*/`

	case PostBatch:
		return `// Post-batch hook
// Runs after every image of the batch was attempted.
// Available variables: same as pre-batch, plus
// - batchID: string
// - attempted, succeeded, failed: int
// - files: array of downloaded file paths

/*
fmt := import("fmt")
fmt.println(succeeded, " of ", attempted, " images saved to ", directory)
*/`

	default:
		return "// Unknown hooks type: " + string(hookType)
	}
}
