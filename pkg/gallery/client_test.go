package gallery_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/imgurdl/pkg/auth"
	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/gallery"
	"github.com/glorpus-work/imgurdl/test/testutil"
)

func newClient(t *testing.T, baseURL string) *gallery.Client {
	t.Helper()
	c, err := gallery.NewClient(gallery.Options{
		BaseURL: baseURL,
		Auth:    auth.ClientIDAuth{ClientID: testutil.TestClientID},
	})
	require.NoError(t, err)
	return c
}

func TestClient_ListAlbumItems(t *testing.T) {
	fake := testutil.NewFakeImgur(t)
	fake.AddAlbum("xyz", "holiday",
		fake.NewImage("a1", "beach", ".jpg"),
		fake.NewImage("a2", "", ".png"),
		fake.NewImage("a3", strings.Repeat("x", gallery.MaxTitleLength+1), ".gif"),
	)

	items, err := newClient(t, fake.URL).ListAlbumItems(context.Background(), "xyz")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "a1", items[0].StableID)
	assert.Equal(t, "beach", items[0].SuggestedName)
	assert.Equal(t, fake.URL+"/i/a1.jpg", items[0].RemoteURL)
	assert.Empty(t, items[1].SuggestedName)
	assert.Empty(t, items[2].SuggestedName, "overlong title must be dropped")
	assert.False(t, items[0].IsGallery)
}

func TestClient_TitleAtLimitIsKept(t *testing.T) {
	fake := testutil.NewFakeImgur(t)
	title := strings.Repeat("é", gallery.MaxTitleLength)
	fake.AddAlbum("xyz", "", fake.NewImage("a1", title, ".jpg"))

	items, err := newClient(t, fake.URL).ListAlbumItems(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, title, items[0].SuggestedName)
}

func TestClient_GetAlbum(t *testing.T) {
	fake := testutil.NewFakeImgur(t)
	fake.AddAlbum("xyz", "holiday")

	album, err := newClient(t, fake.URL).GetAlbum(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", album.ID)
	assert.Equal(t, "holiday", album.Title)
}

func TestClient_ListSubredditPageItems(t *testing.T) {
	fake := testutil.NewFakeImgur(t)
	img := fake.NewImage("i1", "pic", ".jpg")
	albumEntry := fake.AddAlbum("al1", "an album")
	fake.AddSubredditPage("pics", img, albumEntry)
	fake.AddSubredditPage("pics", fake.NewImage("i2", "", ".jpg"))

	c := newClient(t, fake.URL)
	page0, err := c.ListSubredditPageItems(context.Background(), "pics", 0)
	require.NoError(t, err)
	require.Len(t, page0, 2)
	assert.False(t, page0[0].IsGallery)
	assert.True(t, page0[1].IsGallery)
	assert.Equal(t, "al1", page0[1].StableID)

	page1, err := c.ListSubredditPageItems(context.Background(), "pics", 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Equal(t, 1, fake.Requests("/3/gallery/r/pics/time/1"))

	page9, err := c.ListSubredditPageItems(context.Background(), "pics", 9)
	require.NoError(t, err)
	assert.Empty(t, page9)
}

func TestClient_Errors(t *testing.T) {
	fake := testutil.NewFakeImgur(t)

	t.Run("unknown album", func(t *testing.T) {
		_, err := newClient(t, fake.URL).ListAlbumItems(context.Background(), "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, pkgerrors.ErrResolve))

		var re *gallery.ResolverError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, http.StatusNotFound, re.StatusCode)
		assert.Equal(t, "nope", re.Ref)
		assert.Contains(t, err.Error(), "Unable to find an album")
	})

	t.Run("bad client id", func(t *testing.T) {
		c, err := gallery.NewClient(gallery.Options{BaseURL: fake.URL, Auth: auth.ClientIDAuth{ClientID: "wrong"}})
		require.NoError(t, err)
		_, err = c.GetAlbum(context.Background(), "x")
		var re *gallery.ResolverError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, http.StatusForbidden, re.StatusCode)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := newClient(t, fake.URL).ListAlbumItems(context.Background(), "")
		assert.True(t, errors.Is(err, pkgerrors.ErrResolve))
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidGalleryRef))
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := newClient(t, "http://127.0.0.1:1").GetAlbum(context.Background(), "x")
		require.Error(t, err)
		var re *gallery.ResolverError
		require.True(t, errors.As(err, &re))
		assert.Zero(t, re.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}))
		defer server.Close()
		_, err := newClient(t, server.URL).GetAlbum(context.Background(), "x")
		assert.True(t, errors.Is(err, pkgerrors.ErrResolve))
		assert.Contains(t, err.Error(), "failed to decode response")
	})

	t.Run("unsuccessful envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":{},"success":false,"status":500}`))
		}))
		defer server.Close()
		_, err := newClient(t, server.URL).GetAlbum(context.Background(), "x")
		var re *gallery.ResolverError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, 500, re.StatusCode)
	})
}

func TestClient_EscapesPathSegments(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"data":[],"success":true,"status":200}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL+"/").ListAlbumItems(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/3/album/a%2Fb/images", gotPath)
}

func TestNewClient(t *testing.T) {
	_, err := gallery.NewClient(gallery.Options{})
	assert.ErrorIs(t, err, pkgerrors.ErrMissingClientID)

	_, err = gallery.NewClient(gallery.Options{BaseURL: "ftp://x", Auth: auth.BearerAuth{Token: "t"}})
	assert.Error(t, err)

	c, err := gallery.NewClient(gallery.Options{Auth: auth.BearerAuth{Token: "t"}})
	require.NoError(t, err)
	assert.NotNil(t, c)
}
