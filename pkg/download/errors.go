package download

import (
	"errors"
	"fmt"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

// FetchError reports a failed fetch of a single item. It matches
// pkgerrors.ErrDownloadFailed and unwraps to the underlying cause.
type FetchError struct {
	URL   string
	Path  string
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Is matches pkgerrors.ErrDownloadFailed.
func (e *FetchError) Is(target error) bool {
	return target == pkgerrors.ErrDownloadFailed
}

// NamingCollisionError is returned when both the preferred name and its
// id-suffixed variant are already taken.
type NamingCollisionError struct {
	ID   string
	Path string // the id-suffixed path that collided
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("%s: item %s, %s is already taken", pkgerrors.ErrNamingCollisionExhausted, e.ID, e.Path)
}

// Is matches pkgerrors.ErrNamingCollisionExhausted.
func (e *NamingCollisionError) Is(target error) bool {
	return target == pkgerrors.ErrNamingCollisionExhausted
}

func asFetchError(item WorkItem, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{URL: item.SourceURL, Path: item.DestinationPath, Cause: err}
}
