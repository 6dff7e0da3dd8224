package filestorage

import "context"

// Pin names a pinned object and tags it with searchable metadata.
type Pin struct {
	Name      string
	KeyValues map[string]interface{}
}

// Uploader pins slideshow content and returns its content hash.
type Uploader interface {
	PinImage(ctx context.Context, imageUrl string, pin Pin) (string, error)
	PinManifest(ctx context.Context, manifest interface{}, pin Pin) (string, error)
}
