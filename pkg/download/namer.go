package download

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

const (
	// maxNameLength keeps generated names well below common filesystem limits.
	maxNameLength = 200
	// maxExtLength bounds extensions taken from URLs (".jpeg", ".webm", ...).
	maxExtLength = 5
)

// Namer assigns collision-free destination paths for one batch.
// A name counts as taken when an earlier item of the batch claimed it or when
// something already exists at that path on disk.
type Namer struct {
	claimed map[string]struct{}
	exists  func(path string) bool
}

// NewNamer returns a Namer with an empty claim set.
func NewNamer() *Namer {
	return &Namer{
		claimed: make(map[string]struct{}),
		exists:  pathExists,
	}
}

// NameFor returns the destination path for item inside directory and claims it.
// The base name is the sanitized suggested name, or the stable id when there is none.
// A taken name gets "_<id>" appended before its extension, once; if that is also
// taken a *NamingCollisionError is returned.
func (n *Namer) NameFor(item model.ItemDescriptor, directory string) (string, error) {
	id := sanitizeName(item.StableID)
	base := sanitizeName(item.SuggestedName)
	if base == "" {
		base = id
	}
	if base == "" {
		return "", fmt.Errorf("item has neither a name nor an id: %w", pkgerrors.ErrInvalidPath)
	}
	if filepath.Ext(base) == "" {
		base += extensionFromURL(item.RemoteURL)
	}

	candidate := filepath.Join(directory, base)
	if !n.taken(candidate) {
		n.claim(candidate)
		return candidate, nil
	}

	ext := filepath.Ext(base)
	alternate := filepath.Join(directory, strings.TrimSuffix(base, ext)+"_"+id+ext)
	if n.taken(alternate) {
		return "", &NamingCollisionError{ID: item.StableID, Path: alternate}
	}
	n.claim(alternate)
	return alternate, nil
}

func (n *Namer) taken(p string) bool {
	if _, ok := n.claimed[p]; ok {
		return true
	}
	return n.exists(p)
}

func (n *Namer) claim(p string) {
	n.claimed[p] = struct{}{}
}

func pathExists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}

// sanitizeName turns an arbitrary title into a single path element.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), " .")
	if len(out) > maxNameLength {
		cut := maxNameLength
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.TrimRight(out[:cut], " .")
	}
	return out
}

// extensionFromURL returns a short alphanumeric extension of the URL path, or "".
func extensionFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	ext := path.Ext(u.Path)
	if len(ext) < 2 || len(ext) > maxExtLength+1 {
		return ""
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return strings.ToLower(ext)
}
