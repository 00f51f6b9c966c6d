package gallery

import (
	"fmt"
	"regexp"
	"strings"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

// RefKind tells albums and subreddit galleries apart.
type RefKind int

const (
	// KindAlbum is an imgur.com/a/<id> album.
	KindAlbum RefKind = iota + 1
	// KindSubreddit is a subreddit gallery.
	KindSubreddit
)

func (k RefKind) String() string {
	switch k {
	case KindAlbum:
		return "album"
	case KindSubreddit:
		return "subreddit"
	default:
		return "unknown"
	}
}

// Ref is a parsed command-line gallery argument.
type Ref struct {
	Kind RefKind
	ID   string // album id or subreddit name
}

var (
	albumURLPattern = regexp.MustCompile(`^.*/a/(\w+)/?$`)
	subredditName   = regexp.MustCompile(`^\w+$`)
)

// ParseRef turns an album URL or a subreddit name into a Ref.
// Anything containing "/a/" is treated as an album URL.
func ParseRef(arg string) (Ref, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "/a/") {
		m := albumURLPattern.FindStringSubmatch(arg)
		if m == nil {
			return Ref{}, fmt.Errorf("%w: no album id in %q", pkgerrors.ErrInvalidGalleryRef, arg)
		}
		return Ref{Kind: KindAlbum, ID: m[1]}, nil
	}

	name := strings.TrimPrefix(strings.TrimPrefix(arg, "/"), "r/")
	if !subredditName.MatchString(name) {
		return Ref{}, fmt.Errorf("%w: %q is neither an album URL nor a subreddit name", pkgerrors.ErrInvalidGalleryRef, arg)
	}
	return Ref{Kind: KindSubreddit, ID: name}, nil
}
