package generation

import (
	"errors"
	"strings"

	"github.com/NethermindEth/songslide/pkg/studio/style"
)

const (
	MessageMissingInput  = "Please provide a song title and select an art style."
	MessageStyleNotFound = "Selected art style not found."
)

// ValidationError is reported to the user before any image is requested.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Validate checks the caller-side preconditions of a run and resolves the style.
func Validate(title string, styleID string, catalog *style.Catalog) (string, style.ArtStyle, error) {
	title = strings.TrimSpace(title)
	if title == "" || styleID == "" {
		return "", style.ArtStyle{}, &ValidationError{Message: MessageMissingInput}
	}

	artStyle, err := catalog.Get(styleID)
	if err != nil {
		return "", style.ArtStyle{}, &ValidationError{Message: MessageStyleNotFound}
	}

	return title, artStyle, nil
}
