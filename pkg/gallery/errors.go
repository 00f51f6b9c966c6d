package gallery

import (
	"fmt"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

// ResolverError reports a failed listing call. It matches pkgerrors.ErrResolve.
type ResolverError struct {
	Op         string // "album", "album images" or "subreddit"
	Ref        string // album id or subreddit name
	StatusCode int    // HTTP status, 0 when no response was received
	Cause      error
}

func (e *ResolverError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", pkgerrors.ErrResolve, e.Op, e.Ref, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s: %v", pkgerrors.ErrResolve, e.Op, e.Ref, e.Cause)
}

func (e *ResolverError) Unwrap() error { return e.Cause }

// Is matches pkgerrors.ErrResolve.
func (e *ResolverError) Is(target error) bool {
	return target == pkgerrors.ErrResolve
}
