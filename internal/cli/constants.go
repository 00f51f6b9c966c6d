package cli

import "time"

// Default values for CLI flags and output.
const (
	// DefaultPages is the number of subreddit gallery pages fetched when --pages is not set.
	DefaultPages = 1
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// ProgressThrottle limits how often the progress bar redraws.
	ProgressThrottle = 100 * time.Millisecond
	// ProgressWidth is the width of the bar itself, without counters.
	ProgressWidth = 40
)
