package art

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	ResponseFormatURL    = openai.CreateImageResponseFormatURL
	ResponseFormatBase64 = openai.CreateImageResponseFormatB64JSON
)

type OpenAiGenerator struct {
	model          string
	size           string
	responseFormat string
	client         *openai.Client
}

var _ ImageGenerator = (*OpenAiGenerator)(nil)

type OpenAiOptions struct {
	ApiKey         string
	BaseUrl        string
	Model          string
	Size           string
	ResponseFormat string
}

func NewOpenAiGenerator(opts OpenAiOptions) *OpenAiGenerator {
	config := openai.DefaultConfig(opts.ApiKey)
	if opts.BaseUrl != "" {
		config.BaseURL = opts.BaseUrl
	}

	if opts.Size == "" {
		opts.Size = openai.CreateImageSize1024x1024
	}
	if opts.ResponseFormat == "" {
		opts.ResponseFormat = ResponseFormatURL
	}

	return &OpenAiGenerator{
		model:          opts.Model,
		size:           opts.Size,
		responseFormat: opts.ResponseFormat,
		client:         openai.NewClientWithConfig(config),
	}
}

func (g *OpenAiGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	req := openai.ImageRequest{
		Prompt:         prompt,
		Size:           g.size,
		ResponseFormat: g.responseFormat,
		N:              1,
		Model:          g.model,
	}

	resp, err := g.client.CreateImage(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Data) == 0 {
		return "", errors.New("no image data returned")
	}

	data := resp.Data[0]
	if g.responseFormat == ResponseFormatBase64 {
		if data.B64JSON == "" {
			return "", errors.New("no image data returned")
		}
		return DataURL("image/png", data.B64JSON), nil
	}

	if data.URL == "" {
		return "", errors.New("no image url returned")
	}

	return data.URL, nil
}

func DataURL(mimeType string, b64 string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, b64)
}
