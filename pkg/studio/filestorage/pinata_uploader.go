package filestorage

import (
	"context"
	"fmt"

	"github.com/zde37/pinata-go-sdk/pinata"
)

type PinataUploader struct {
	client *pinata.Client
}

var _ Uploader = (*PinataUploader)(nil)

func NewPinataUploader(jwtKey string) *PinataUploader {
	return &PinataUploader{
		client: pinata.New(pinata.NewAuthWithJWT(jwtKey)),
	}
}

// PinImage asks pinata to fetch and pin a generated image by url.
func (u *PinataUploader) PinImage(ctx context.Context, imageUrl string, pin Pin) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinResponse, err := u.client.PinURL(imageUrl, pinOptions(pin))
	if err != nil {
		return "", fmt.Errorf("failed to pin %q: %w", pin.Name, err)
	}

	return pinResponse.IpfsHash, nil
}

func (u *PinataUploader) PinManifest(ctx context.Context, manifest interface{}, pin Pin) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinResponse, err := u.client.PinJSON(manifest, pinOptions(pin))
	if err != nil {
		return "", fmt.Errorf("failed to pin %q: %w", pin.Name, err)
	}

	return pinResponse.IpfsHash, nil
}

func pinOptions(pin Pin) *pinata.PinOptions {
	return &pinata.PinOptions{
		PinataMetadata: pinata.PinataMetadata{
			Name:      pin.Name,
			KeyValues: pin.KeyValues,
		},
	}
}
