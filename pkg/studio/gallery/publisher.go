package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/NethermindEth/songslide/pkg/studio/filestorage"
)

var ErrNothingToPublish = errors.New("no publishable images")

type Manifest struct {
	Name   string   `json:"name"`
	Style  string   `json:"style"`
	Images []string `json:"images"`
}

type Publication struct {
	ManifestHash string   `json:"manifestHash"`
	ImageHashes  []string `json:"imageHashes"`
	Skipped      int      `json:"skipped"`
}

// Publisher pins a finished slideshow: every remote image first, then a
// manifest that lists their hashes in slideshow order.
type Publisher struct {
	uploader filestorage.Uploader
}

func NewPublisher(uploader filestorage.Uploader) *Publisher {
	return &Publisher{
		uploader: uploader,
	}
}

func (p *Publisher) Publish(ctx context.Context, title string, style string, images []string) (*Publication, error) {
	publication := &Publication{ImageHashes: []string{}}

	for i, image := range images {
		if !isRemote(image) {
			slog.Warn("skipping embedded image", "title", title, "index", i)
			publication.Skipped++
			continue
		}

		hash, err := p.uploader.PinImage(ctx, image, imagePin(title, style, i))
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %d: %w", i, err)
		}
		publication.ImageHashes = append(publication.ImageHashes, hash)
	}

	if len(publication.ImageHashes) == 0 {
		return nil, ErrNothingToPublish
	}

	manifestHash, err := p.uploader.PinManifest(ctx, Manifest{
		Name:   title,
		Style:  style,
		Images: publication.ImageHashes,
	}, manifestPin(title, style, len(publication.ImageHashes)))
	if err != nil {
		return nil, fmt.Errorf("failed to upload manifest: %w", err)
	}
	publication.ManifestHash = manifestHash

	slog.Info("published slideshow", "title", title, "manifest", manifestHash, "images", len(publication.ImageHashes), "skipped", publication.Skipped)

	return publication, nil
}

// imagePin names an image after its 1-based slideshow position.
func imagePin(title string, style string, index int) filestorage.Pin {
	return filestorage.Pin{
		Name: fmt.Sprintf("%s - image %d", title, index+1),
		KeyValues: map[string]interface{}{
			"slideshow": title,
			"style":     style,
			"index":     index + 1,
		},
	}
}

func manifestPin(title string, style string, images int) filestorage.Pin {
	return filestorage.Pin{
		Name: title + " slideshow",
		KeyValues: map[string]interface{}{
			"slideshow": title,
			"style":     style,
			"images":    images,
		},
	}
}

func isRemote(image string) bool {
	return strings.HasPrefix(image, "https://") || strings.HasPrefix(image, "http://")
}
