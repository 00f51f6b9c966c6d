package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

func newImageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("image:" + r.URL.Path))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCoordinator_RunBatch(t *testing.T) {
	server := newImageServer(t)

	tests := []struct {
		name      string
		items     []model.ItemDescriptor
		workers   int
		succeeded int
		failed    int
		files     []string
	}{
		{
			name:  "empty batch",
			items: nil,
		},
		{
			name: "failure is isolated",
			items: []model.ItemDescriptor{
				{StableID: "a", RemoteURL: server.URL + "/a.jpg"},
				{StableID: "b", RemoteURL: server.URL + "/missing/b.jpg"},
				{StableID: "c", RemoteURL: server.URL + "/c.jpg"},
			},
			workers:   2,
			succeeded: 2,
			failed:    1,
			files:     []string{"a.jpg", "c.jpg"},
		},
		{
			name: "colliding titles",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "cat", RemoteURL: server.URL + "/abc"},
				{StableID: "def", SuggestedName: "cat", RemoteURL: server.URL + "/def"},
			},
			succeeded: 2,
			files:     []string{"cat", "cat_def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			c := NewCoordinator(NewHTTPFetcher(server.Client(), "", 0))

			report, err := c.RunBatch(context.Background(), tt.items, dir, Options{Workers: tt.workers})
			require.NoError(t, err)

			assert.Equal(t, len(tt.items), report.Attempted)
			assert.Equal(t, tt.succeeded, report.Succeeded)
			assert.Equal(t, tt.failed, report.Failed)
			assert.Equal(t, report.Attempted, report.Succeeded+report.Failed)
			assert.NotEmpty(t, report.BatchID)
			assert.Equal(t, dir, report.Directory)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.ElementsMatch(t, tt.files, names)

			if tt.failed > 0 {
				require.Error(t, report.Err())
				assert.True(t, errors.Is(report.Err(), pkgerrors.ErrDownloadFailed))
				assert.Len(t, report.Failures, tt.failed)
			} else {
				assert.NoError(t, report.Err())
			}
		})
	}
}

func TestCoordinator_CollidingTitlesContent(t *testing.T) {
	server := newImageServer(t)
	dir := t.TempDir()

	items := []model.ItemDescriptor{
		{StableID: "abc", SuggestedName: "cat", RemoteURL: server.URL + "/abc"},
		{StableID: "def", SuggestedName: "cat", RemoteURL: server.URL + "/def"},
	}
	_, err := NewCoordinator(NewHTTPFetcher(server.Client(), "", 0)).RunBatch(context.Background(), items, dir, Options{})
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(dir, "cat"))
	require.NoError(t, err)
	assert.Equal(t, "image:/abc", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "cat_def"))
	require.NoError(t, err)
	assert.Equal(t, "image:/def", string(second))
}

func TestCoordinator_ThreeWorkersTenItems(t *testing.T) {
	server := newImageServer(t)
	dir := t.TempDir()

	var items []model.ItemDescriptor
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("img%d", i)
		items = append(items, model.ItemDescriptor{StableID: id, RemoteURL: server.URL + "/" + id + ".png"})
	}

	var calls atomic.Int32
	report, err := NewCoordinator(NewHTTPFetcher(server.Client(), "", 0)).RunBatch(context.Background(), items, dir, Options{
		Workers:  3,
		OnResult: func(Result) { calls.Add(1) },
	})
	require.NoError(t, err)

	assert.Equal(t, 10, report.Succeeded)
	assert.Equal(t, int32(10), calls.Load())
	assert.Len(t, report.Downloaded, 10)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestCoordinator_DefaultWorkers(t *testing.T) {
	var started atomic.Int32
	release := make(chan struct{})
	fetcher := fetchFunc(func(context.Context, WorkItem) (int64, error) {
		if started.Add(1) == DefaultWorkers {
			close(release)
		}
		<-release
		return 0, nil
	})

	var items []model.ItemDescriptor
	for i := 0; i < DefaultWorkers; i++ {
		items = append(items, model.ItemDescriptor{StableID: fmt.Sprintf("i%d", i)})
	}

	report, err := NewCoordinator(fetcher).RunBatch(context.Background(), items, t.TempDir(), Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, report.Succeeded)
}

func TestCoordinator_CancelledContext(t *testing.T) {
	server := newImageServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []model.ItemDescriptor{
		{StableID: "a", RemoteURL: server.URL + "/a"},
		{StableID: "b", RemoteURL: server.URL + "/b"},
	}
	report, err := NewCoordinator(NewHTTPFetcher(server.Client(), "", 0)).RunBatch(ctx, items, t.TempDir(), Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.True(t, errors.Is(report.Err(), context.Canceled))
}

func TestCoordinator_InvalidDirectory(t *testing.T) {
	c := NewCoordinator(fetchFunc(func(context.Context, WorkItem) (int64, error) { return 0, nil }))

	for _, dir := range []string{"", "relative/dir"} {
		_, err := c.RunBatch(context.Background(), nil, dir, Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))
	}
}
