package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"

	"github.com/NethermindEth/songslide/pkg/studio/art"
	"github.com/NethermindEth/songslide/pkg/studio/audio"
	"github.com/NethermindEth/songslide/pkg/studio/filestorage"
	"github.com/NethermindEth/songslide/pkg/studio/gallery"
	"github.com/NethermindEth/songslide/pkg/studio/generation"
	"github.com/NethermindEth/songslide/pkg/studio/playback"
	"github.com/NethermindEth/songslide/pkg/studio/session"
	"github.com/NethermindEth/songslide/pkg/studio/setup"
	"github.com/NethermindEth/songslide/pkg/studio/style"
)

var ErrClosed = errors.New("studio is shutting down")

type Studio struct {
	catalog      *style.Catalog
	orchestrator *generation.Orchestrator
	sessions     *session.Store
	audioStore   *audio.Store
	measureAudio audio.MeasureFunc
	publisher    *gallery.Publisher
	pool         pond.Pool
	apiRouter    *gin.Engine

	apiIpPort         string
	imageCount        int
	slideshowInterval time.Duration
	maxUploadBytes    int64

	runCtx     context.Context
	cancelRuns context.CancelFunc

	// streamCtx ends open event streams so the server can shut down.
	streamCtx   context.Context
	stopStreams context.CancelFunc

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// StudioConfig wires the studio's collaborators. A nil Uploader disables
// publishing and a nil AudioMeasure falls back to audio.Measure.
type StudioConfig struct {
	Catalog        *style.Catalog
	ImageGenerator art.ImageGenerator
	Uploader       filestorage.Uploader
	Clock          clock.Clock
	AudioMeasure   audio.MeasureFunc

	AudioDir          string
	ApiIpPort         string
	ImageCount        int
	SlideshowInterval time.Duration
	MaxConcurrentRuns int
	SessionCacheSize  int
	SessionTTL        time.Duration
	MaxUploadBytes    int64
}

func NewStudio(ctx context.Context, config *StudioConfig) (*Studio, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Catalog == nil {
		return nil, errors.New("style catalog is nil")
	}
	if config.ImageGenerator == nil {
		return nil, errors.New("image generator is nil")
	}
	if config.MaxConcurrentRuns < 1 {
		config.MaxConcurrentRuns = setup.DefaultMaxConcurrentRuns
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = setup.DefaultMaxUploadBytes
	}
	if config.SlideshowInterval <= 0 {
		config.SlideshowInterval = playback.DefaultInterval
	}
	if config.AudioMeasure == nil {
		config.AudioMeasure = audio.Measure
	}

	audioStore, err := audio.NewStore(config.AudioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio store: %w", err)
	}

	orchestrator := generation.NewOrchestrator(config.ImageGenerator, config.ImageCount)

	sessions := session.NewStore(session.StoreOptions{
		Size: config.SessionCacheSize,
		TTL:  config.SessionTTL,
		Playback: playback.ControllerOptions{
			Interval: config.SlideshowInterval,
			Clock:    config.Clock,
		},
		OnEvict: func(id string) {
			if err := audioStore.Delete(context.Background(), id); err != nil {
				slog.Warn("failed to delete session audio", "session", id, "error", err)
			}
		},
	})

	var publisher *gallery.Publisher
	if config.Uploader != nil {
		publisher = gallery.NewPublisher(config.Uploader)
	}

	runCtx, cancelRuns := context.WithCancel(ctx)
	streamCtx, stopStreams := context.WithCancel(context.Background())

	studio := &Studio{
		catalog:      config.Catalog,
		orchestrator: orchestrator,
		sessions:     sessions,
		audioStore:   audioStore,
		measureAudio: config.AudioMeasure,
		publisher:    publisher,
		pool:         pond.NewPool(config.MaxConcurrentRuns),
		apiRouter:    nil,

		apiIpPort:         config.ApiIpPort,
		imageCount:        orchestrator.DefaultCount(),
		slideshowInterval: config.SlideshowInterval,
		maxUploadBytes:    config.MaxUploadBytes,

		runCtx:     runCtx,
		cancelRuns: cancelRuns,

		streamCtx:   streamCtx,
		stopStreams: stopStreams,
	}

	studio.apiRouter = studio.generateRouter()

	return studio, nil
}

func NewStudioConfigFromSetupResult(setupResult *setup.SetupResult) (*StudioConfig, error) {
	if setupResult == nil {
		return nil, errors.New("setup result is nil")
	}

	config := setupResult.Config

	generator := NewImageGenerator(config)

	var uploader filestorage.Uploader
	if config.PinataJwtKey != "" {
		uploader = filestorage.NewPinataUploader(config.PinataJwtKey)
	}

	return &StudioConfig{
		Catalog:        setupResult.Catalog,
		ImageGenerator: generator,
		Uploader:       uploader,
		Clock:          clock.New(),

		AudioDir:          config.AudioDir,
		ApiIpPort:         config.ApiIpPort,
		ImageCount:        config.ImageCount,
		SlideshowInterval: config.SlideshowInterval,
		MaxConcurrentRuns: config.MaxConcurrentRuns,
		SessionCacheSize:  config.SessionCacheSize,
		SessionTTL:        config.SessionTTL,
		MaxUploadBytes:    config.MaxUploadBytes,
	}, nil
}

// NewImageGenerator builds the configured image client with its rate limit and
// timeout layers.
func NewImageGenerator(config setup.Config) art.ImageGenerator {
	var generator art.ImageGenerator
	if config.MockGenerator {
		generator = art.MockGenerator{}
	} else {
		generator = art.NewOpenAiGenerator(art.OpenAiOptions{
			ApiKey:         config.OpenAiApiKey,
			BaseUrl:        config.OpenAiBaseUrl,
			Model:          config.OpenAiModel,
			Size:           config.ImageSize,
			ResponseFormat: config.ImageResponseFormat,
		})
	}
	return art.Wrap(generator, config.RateLimitInterval, config.RateLimitBurst, config.GenerationTimeout)
}

// Start serves the api until ctx is done, then releases every session.
func (s *Studio) Start(ctx context.Context) error {
	defer s.Close()

	if err := s.StartServer(ctx); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	slog.Info("studio stopped", "sessions", s.sessions.Len())

	return nil
}

// StartGeneration validates the session's title and style and queues a run.
// Validation failures are recorded on the session and returned as
// *generation.ValidationError.
func (s *Studio) StartGeneration(sess *session.Session) error {
	if !sess.HasAudio() {
		return session.ErrNoAudio
	}

	title, artStyle, err := generation.Validate(sess.SongTitle(), sess.Style(), s.catalog)
	if err != nil {
		sess.SetError(err.Error())
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	epoch, err := sess.BeginRun()
	if err != nil {
		return err
	}

	slog.Info("queued image generation", "session", sess.ID(), "title", title, "style", artStyle.ID, "count", s.imageCount)

	s.pool.Submit(func() {
		outcome := s.orchestrator.Run(s.runCtx, title, artStyle, s.imageCount)
		if !sess.FinishRun(epoch, outcome) {
			slog.Info("discarded stale generation result", "session", sess.ID(), "status", outcome.Status)
		}
	})

	return nil
}

// Close ends event streams, cancels outstanding runs, waits for the pool to drain and closes every
// session.
func (s *Studio) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.stopStreams()
		s.cancelRuns()
		s.pool.StopAndWait()
		s.sessions.Purge()
	})
}

func (s *Studio) Catalog() *style.Catalog {
	return s.catalog
}

func (s *Studio) Sessions() *session.Store {
	return s.sessions
}

func (s *Studio) ApiIpPort() string {
	return s.apiIpPort
}
