package hooks

// HookType represents the type of hooks.
type HookType string

// Supported hooks types.
const (
	// PreBatch runs after the download directory was prepared and before any item is fetched.
	// Setting `err` in the script aborts the batch.
	PreBatch HookType = "pre-batch"
	// PostBatch runs after every item of the batch was attempted.
	PostBatch HookType = "post-batch"
)

// Types lists every supported hook type in execution order.
var Types = []HookType{PreBatch, PostBatch}

// Hook represents a hooks script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
// Counters and Files are only populated for PostBatch.
type HookContext struct {
	GalleryID   string
	GalleryKind string // "album" or "subreddit"
	Title       string
	Directory   string
	ItemCount   int

	BatchID   string
	Attempted int
	Succeeded int
	Failed    int
	Files     []string

	Vars map[string]interface{}
}
