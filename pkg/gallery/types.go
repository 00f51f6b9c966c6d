// Package gallery lists the items of Imgur albums and subreddit galleries
// through the Imgur v3 REST API.
package gallery

import "github.com/glorpus-work/imgurdl/pkg/model"

// MaxTitleLength is the longest title still used as a file or directory name.
const MaxTitleLength = 30

// Album is the metadata of one album.
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	ImageCount int    `json:"images_count"`
}

// image is an album image or subreddit gallery entry as returned by the API.
type image struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	IsAlbum bool   `json:"is_album"`
}

// envelope wraps every Imgur API response.
type envelope[T any] struct {
	Data    T    `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// apiError is the data payload of a failed call.
type apiError struct {
	Error   any    `json:"error"`
	Request string `json:"request"`
	Method  string `json:"method"`
}

func (img image) descriptor() model.ItemDescriptor {
	return model.ItemDescriptor{
		RemoteURL:     img.Link,
		SuggestedName: usableTitle(img.Title),
		StableID:      img.ID,
		IsGallery:     img.IsAlbum,
	}
}

// usableTitle drops titles too long to serve as a name.
func usableTitle(title string) string {
	if len([]rune(title)) > MaxTitleLength {
		return ""
	}
	return title
}
