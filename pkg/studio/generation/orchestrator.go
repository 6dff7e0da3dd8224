package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NethermindEth/songslide/pkg/studio/art"
	"github.com/NethermindEth/songslide/pkg/studio/style"
)

const DefaultImageCount = 3

type Orchestrator struct {
	generator    art.ImageGenerator
	defaultCount int
}

func NewOrchestrator(generator art.ImageGenerator, defaultCount int) *Orchestrator {
	if defaultCount < 1 {
		defaultCount = DefaultImageCount
	}
	return &Orchestrator{
		generator:    generator,
		defaultCount: defaultCount,
	}
}

func (o *Orchestrator) DefaultCount() int {
	return o.defaultCount
}

// Run requests count images one after another and collects the successes in
// call order. A failed call is skipped. Run always returns an Outcome; errors
// and panics from the generator never escape it.
func (o *Orchestrator) Run(ctx context.Context, title string, artStyle style.ArtStyle, count int) (outcome Outcome) {
	if count < 1 {
		count = o.defaultCount
	}

	images := make([]string, 0, count)
	attempts := make([]Attempt, 0, count)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during image generation loop", "panic", r, "title", title, "style", artStyle.ID)
			outcome = failedOutcome(MessageUnexpected, attempts)
		}
	}()

	base := BasePrompt(title, artStyle)

	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			slog.Warn("image generation cancelled", "title", title, "iteration", i, "error", err)
			return failedOutcome(MessageUnexpected, attempts)
		}

		prompt := VariationPrompt(base, i)
		image, err := o.generate(ctx, prompt)

		attempt := Attempt{Index: i, Prompt: prompt}
		if err != nil {
			attempt.Error = err.Error()
			slog.Warn("failed to generate image", "title", title, "style", artStyle.ID, "iteration", i, "error", err)
		} else {
			images = append(images, image)
		}
		attempts = append(attempts, attempt)
	}

	outcome = newOutcome(images, attempts)
	slog.Info("image generation finished", "title", title, "style", artStyle.ID, "status", outcome.Status, "images", len(outcome.Images), "attempts", len(attempts))

	return outcome
}

func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	image, err := o.generator.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}
	if image == "" {
		return "", errors.New("generator returned an empty image reference")
	}
	return image, nil
}
