package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "imgurdl/0.1"

// HTTPFetcher downloads items with a single GET each. The body is streamed into a
// temporary file next to the destination, which is renamed into place only after
// the whole body was written and synced.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	fetchTimeout time.Duration
}

// NewHTTPFetcher creates a fetcher around an existing client. fetchTimeout bounds each
// individual fetch; zero means no per-fetch limit beyond the client's own timeout.
func NewHTTPFetcher(client *http.Client, userAgent string, fetchTimeout time.Duration) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:       client,
		userAgent:    userAgent,
		fetchTimeout: fetchTimeout,
	}
}

// NewHTTPFetcherWithTimeout creates a fetcher with its own client using the given timeout.
func NewHTTPFetcherWithTimeout(timeout time.Duration, userAgent string) *HTTPFetcher {
	return NewHTTPFetcher(&http.Client{Timeout: timeout}, userAgent, 0)
}

// Fetch downloads item.SourceURL to item.DestinationPath, overwriting any existing file.
func (f *HTTPFetcher) Fetch(ctx context.Context, item WorkItem) (int64, error) {
	if item.SourceURL == "" || item.DestinationPath == "" {
		return 0, asFetchError(item, fmt.Errorf("empty source or destination: %w", pkgerrors.ErrInvalidPath))
	}
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	resp, err := f.doRequest(ctx, item.SourceURL)
	if err != nil {
		return 0, asFetchError(item, err)
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, n, err := writeBodyToTemp(resp.Body, item.DestinationPath)
	if err != nil {
		return 0, asFetchError(item, err)
	}
	if err := finalizeFile(tmpPath, item.DestinationPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, asFetchError(item, err)
	}
	return n, nil
}

func (f *HTTPFetcher) doRequest(ctx context.Context, sourceURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "request failed")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, pkgerrors.ErrDownloadFailed)
	}
	return resp, nil
}

func writeBodyToTemp(body io.Reader, absPath string) (string, int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(absPath), fsutil.TempPattern)
	if err != nil {
		return "", 0, pkgerrors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, body)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", 0, pkgerrors.Wrap(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", 0, pkgerrors.Wrap(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", 0, pkgerrors.Wrap(err, "could not close file")
	}
	return tmpPath, n, nil
}

func finalizeFile(tmpPath, absPath string) error {
	if err := os.Chmod(tmpPath, fsutil.FileModeDefault); err != nil {
		return pkgerrors.Wrap(err, "could not set permissions")
	}
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return pkgerrors.Wrap(err, "could not finalize file")
	}
	return nil
}
