package generation

import (
	"fmt"

	"github.com/NethermindEth/songslide/pkg/studio/style"
)

func BasePrompt(title string, artStyle style.ArtStyle) string {
	return fmt.Sprintf("Generate an image for a song titled \"%s\" %s", title, artStyle.PromptSuffix)
}

// VariationPrompt marks iteration i (1-based) so each call asks for a
// different picture.
func VariationPrompt(base string, i int) string {
	return fmt.Sprintf("%s. Variation %d.", base, i)
}
