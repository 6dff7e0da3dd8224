package setup

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/NethermindEth/songslide/pkg/studio/art"
)

const (
	DefaultApiIpPort         = ":8080"
	DefaultOpenAiModel       = "dall-e-3"
	DefaultImageSize         = "1024x1024"
	DefaultImageCount        = 3
	DefaultSlideshowInterval = 7000 * time.Millisecond
	DefaultRateLimitInterval = time.Second
	DefaultRateLimitBurst    = 1
	DefaultMaxConcurrentRuns = 4
	DefaultSessionCacheSize  = 1000
	DefaultSessionTTL        = 2 * time.Hour
	DefaultAudioDir          = "data/audio"
	DefaultMaxUploadBytes    = 50 << 20
)

type Config struct {
	ApiIpPort string

	OpenAiApiKey        string
	OpenAiBaseUrl       string
	OpenAiModel         string
	ImageSize           string
	ImageResponseFormat string
	MockGenerator       bool

	ImageCount        int
	SlideshowInterval time.Duration
	StyleCatalogFile  string

	RateLimitInterval time.Duration
	RateLimitBurst    int
	GenerationTimeout time.Duration
	MaxConcurrentRuns int

	SessionCacheSize int
	SessionTTL       time.Duration
	AudioDir         string
	MaxUploadBytes   int64

	PinataJwtKey string
}

// RegisterFlags binds every field to fs with its default value.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.ApiIpPort, FlagApiIpPort, DefaultApiIpPort, "address the http api listens on")

	fs.StringVar(&c.OpenAiApiKey, FlagOpenAiApiKey, "", "openai api key")
	fs.StringVar(&c.OpenAiBaseUrl, FlagOpenAiBaseUrl, "", "openai compatible api base url (optional)")
	fs.StringVar(&c.OpenAiModel, FlagOpenAiModel, DefaultOpenAiModel, "image generation model")
	fs.StringVar(&c.ImageSize, FlagImageSize, DefaultImageSize, "generated image size")
	fs.StringVar(&c.ImageResponseFormat, FlagImageResponseFormat, art.ResponseFormatURL, "image response format (url or b64_json)")
	fs.BoolVar(&c.MockGenerator, FlagMockGenerator, false, "use placeholder images instead of calling openai")

	fs.IntVar(&c.ImageCount, FlagImageCount, DefaultImageCount, "images generated per run")
	fs.DurationVar(&c.SlideshowInterval, FlagSlideshowInterval, DefaultSlideshowInterval, "time between slideshow advances")
	fs.StringVar(&c.StyleCatalogFile, FlagStyleCatalogFile, "", "yaml file or url replacing the built-in art styles (optional)")

	fs.DurationVar(&c.RateLimitInterval, FlagRateLimitInterval, DefaultRateLimitInterval, "minimum spacing between image api calls (0 disables)")
	fs.IntVar(&c.RateLimitBurst, FlagRateLimitBurst, DefaultRateLimitBurst, "image api calls allowed in a burst")
	fs.DurationVar(&c.GenerationTimeout, FlagGenerationTimeout, 0, "timeout for a single image api call (0 waits indefinitely)")
	fs.IntVar(&c.MaxConcurrentRuns, FlagMaxConcurrentRuns, DefaultMaxConcurrentRuns, "generation runs executed at the same time across sessions")

	fs.IntVar(&c.SessionCacheSize, FlagSessionCacheSize, DefaultSessionCacheSize, "maximum live sessions")
	fs.DurationVar(&c.SessionTTL, FlagSessionTTL, DefaultSessionTTL, "idle session lifetime")
	fs.StringVar(&c.AudioDir, FlagAudioDir, DefaultAudioDir, "directory for uploaded audio")
	fs.Int64Var(&c.MaxUploadBytes, FlagMaxUploadBytes, DefaultMaxUploadBytes, "maximum audio upload size in bytes")

	fs.StringVar(&c.PinataJwtKey, FlagPinataJwtKey, "", "pinata jwt used to publish slideshows (optional)")
}

func (c *Config) Validate() error {
	if !c.MockGenerator && c.OpenAiApiKey == "" {
		return fmt.Errorf("%s is required unless %s is set", FlagOpenAiApiKey, FlagMockGenerator)
	}
	if c.ImageResponseFormat != art.ResponseFormatURL && c.ImageResponseFormat != art.ResponseFormatBase64 {
		return fmt.Errorf("%s must be %q or %q", FlagImageResponseFormat, art.ResponseFormatURL, art.ResponseFormatBase64)
	}
	if c.ImageCount < 1 {
		return fmt.Errorf("%s must be at least 1", FlagImageCount)
	}
	if c.SlideshowInterval <= 0 {
		return fmt.Errorf("%s must be positive", FlagSlideshowInterval)
	}
	if c.RateLimitInterval < 0 {
		return fmt.Errorf("%s must not be negative", FlagRateLimitInterval)
	}
	if c.GenerationTimeout < 0 {
		return fmt.Errorf("%s must not be negative", FlagGenerationTimeout)
	}
	if c.MaxConcurrentRuns < 1 {
		return fmt.Errorf("%s must be at least 1", FlagMaxConcurrentRuns)
	}
	if c.AudioDir == "" {
		return errors.New(FlagAudioDir + " is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%s must be positive", FlagMaxUploadBytes)
	}

	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.OpenAiApiKey != "" {
		c.OpenAiApiKey = "<redacted>"
	}
	if c.PinataJwtKey != "" {
		c.PinataJwtKey = "<redacted>"
	}
	return c
}
