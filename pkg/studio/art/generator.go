package art

import "context"

// ImageGenerator turns one prompt into one image reference: a fetchable URL or a
// data URL carrying the encoded image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
