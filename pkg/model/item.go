// Package model holds the data types passed between the gallery resolver,
// the orchestrator and the download engine.
package model

// ItemDescriptor describes one remote image (or sub-gallery) before download.
// Descriptors are produced by a gallery resolver and are not modified afterwards.
type ItemDescriptor struct {
	RemoteURL     string // direct link to the image bytes
	SuggestedName string // optional display name, e.g. the image title
	StableID      string // id unique within the remote service
	IsGallery     bool   // the item is itself an album and must be resolved again
}

// DisplayName returns the suggested name, falling back to the stable id.
func (d ItemDescriptor) DisplayName() string {
	if d.SuggestedName != "" {
		return d.SuggestedName
	}
	return d.StableID
}

// Partition splits items into plain images and sub-galleries, preserving order.
func Partition(items []ItemDescriptor) (images, galleries []ItemDescriptor) {
	for _, it := range items {
		if it.IsGallery {
			galleries = append(galleries, it)
			continue
		}
		images = append(images, it)
	}
	return images, galleries
}
