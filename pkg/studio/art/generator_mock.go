package art

import "context"

// 1x1 PNG pixel
const placeholderPixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMAASsJTYQAAAAASUVORK5CYII="

// MockGenerator answers every prompt with a placeholder image and never
// touches the network.
type MockGenerator struct{}

var _ ImageGenerator = MockGenerator{}

func (MockGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return DataURL("image/png", placeholderPixel), nil
}
