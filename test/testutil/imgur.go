// Package testutil provides an in-process stand-in for the Imgur API and image CDN.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/glorpus-work/imgurdl/internal/logger"
)

// TestClientID is the client id FakeImgur accepts.
const TestClientID = "test-client-id"

// Image is one image or album entry served by FakeImgur.
type Image struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Link    string `json:"link"`
	IsAlbum bool   `json:"is_album"`
}

type album struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Images []Image `json:"-"`
}

// FakeImgur serves /3/album/{id}, /3/album/{id}/images, /3/gallery/r/{name}/time/{page}
// and the image bytes under /i/.
type FakeImgur struct {
	Server *httptest.Server
	URL    string

	mu       sync.Mutex
	albums   map[string]*album
	pages    map[string][][]Image
	content  map[string][]byte
	broken   map[string]bool
	requests map[string]int
}

// NewFakeImgur starts a fake server that is closed when the test ends.
func NewFakeImgur(t *testing.T) *FakeImgur {
	t.Helper()
	f := &FakeImgur{
		albums:   make(map[string]*album),
		pages:    make(map[string][][]Image),
		content:  make(map[string][]byte),
		broken:   make(map[string]bool),
		requests: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	f.URL = f.Server.URL
	t.Cleanup(f.Server.Close)
	return f
}

// NewImage registers image bytes for id and returns the entry linking to them.
func (f *FakeImgur) NewImage(id, title, ext string) Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content[id+ext] = []byte("content of " + id)
	return Image{ID: id, Title: title, Link: fmt.Sprintf("%s/i/%s%s", f.URL, id, ext)}
}

// BreakImage makes downloads of the image fail with 404.
func (f *FakeImgur) BreakImage(img Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken[img.Link] = true
}

// AddAlbum registers an album and returns its gallery entry.
func (f *FakeImgur) AddAlbum(id, title string, images ...Image) Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.albums[id] = &album{ID: id, Title: title, Images: images}
	return Image{ID: id, Title: title, Link: f.URL + "/a/" + id, IsAlbum: true}
}

// AddSubredditPage appends a page of entries to subreddit name.
func (f *FakeImgur) AddSubredditPage(name string, entries ...Image) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[name] = append(f.pages[name], entries)
}

// Requests returns how often path was requested.
func (f *FakeImgur) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *FakeImgur) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	f.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/i/") {
		f.serveImage(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Client-ID "+TestClientID {
		writeEnvelope(w, http.StatusForbidden, false, map[string]any{"error": "Invalid client_id"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case len(parts) == 3 && parts[0] == "3" && parts[1] == "album":
		a, ok := f.albums[parts[2]]
		if !ok {
			writeNotFound(w)
			return
		}
		writeEnvelope(w, http.StatusOK, true, a)
	case len(parts) == 4 && parts[0] == "3" && parts[1] == "album" && parts[3] == "images":
		a, ok := f.albums[parts[2]]
		if !ok {
			writeNotFound(w)
			return
		}
		writeEnvelope(w, http.StatusOK, true, nonNil(a.Images))
	case len(parts) == 6 && parts[0] == "3" && parts[1] == "gallery" && parts[2] == "r" && parts[4] == "time":
		var page int
		if _, err := fmt.Sscanf(parts[5], "%d", &page); err != nil {
			writeNotFound(w)
			return
		}
		pages := f.pages[parts[3]]
		var entries []Image
		if page < len(pages) {
			entries = pages[page]
		}
		writeEnvelope(w, http.StatusOK, true, nonNil(entries))
	default:
		writeNotFound(w)
	}
}

func (f *FakeImgur) serveImage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	data, ok := f.content[strings.TrimPrefix(r.URL.Path, "/i/")]
	broken := f.broken[f.URL+r.URL.Path]
	f.mu.Unlock()
	if !ok || broken {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func writeNotFound(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusNotFound, false, map[string]any{"error": "Unable to find an album with the id"})
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"data": data, "success": success, "status": status}); err != nil {
		logger.Debug("fake imgur encode failed", logger.Fields{"error": err.Error()})
	}
}

func nonNil(images []Image) []Image {
	if images == nil {
		return []Image{}
	}
	return images
}
