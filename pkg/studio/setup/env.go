package setup

// Flag names. Every flag can also be set through the environment as
// SONGSLIDE_<NAME> with dashes turned into underscores.
const (
	EnvPrefix = "SONGSLIDE"

	FlagApiIpPort           = "api-ip-port"
	FlagOpenAiApiKey        = "openai-api-key"
	FlagOpenAiBaseUrl       = "openai-base-url"
	FlagOpenAiModel         = "openai-model"
	FlagImageSize           = "image-size"
	FlagImageResponseFormat = "image-response-format"
	FlagMockGenerator       = "mock-generator"
	FlagImageCount          = "image-count"
	FlagSlideshowInterval   = "slideshow-interval"
	FlagStyleCatalogFile    = "style-catalog"
	FlagRateLimitInterval   = "rate-limit-interval"
	FlagRateLimitBurst      = "rate-limit-burst"
	FlagGenerationTimeout   = "generation-timeout"
	FlagMaxConcurrentRuns   = "max-concurrent-runs"
	FlagSessionCacheSize    = "session-cache-size"
	FlagSessionTTL          = "session-ttl"
	FlagAudioDir            = "audio-dir"
	FlagMaxUploadBytes      = "max-upload-bytes"
	FlagPinataJwtKey        = "pinata-jwt-key"
)
