package art

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedGenerator spaces calls to the wrapped generator. It is shared by
// every session so concurrent runs cannot burst the upstream API.
type RateLimitedGenerator struct {
	next    ImageGenerator
	limiter *rate.Limiter
}

var _ ImageGenerator = (*RateLimitedGenerator)(nil)

func NewRateLimitedGenerator(next ImageGenerator, every time.Duration, burst int) *RateLimitedGenerator {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

func (g *RateLimitedGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	return g.next.GenerateImage(ctx, prompt)
}

// TimeoutGenerator bounds each call to the wrapped generator.
type TimeoutGenerator struct {
	next    ImageGenerator
	timeout time.Duration
}

var _ ImageGenerator = (*TimeoutGenerator)(nil)

func NewTimeoutGenerator(next ImageGenerator, timeout time.Duration) *TimeoutGenerator {
	return &TimeoutGenerator{next: next, timeout: timeout}
}

func (g *TimeoutGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.next.GenerateImage(ctx, prompt)
}

// Wrap applies the optional rate limit and timeout around a generator. Zero
// values leave the corresponding layer out.
func Wrap(next ImageGenerator, every time.Duration, burst int, timeout time.Duration) ImageGenerator {
	if timeout > 0 {
		next = NewTimeoutGenerator(next, timeout)
	}
	if every > 0 {
		next = NewRateLimitedGenerator(next, every, burst)
	}
	return next
}
