package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/NethermindEth/songslide/pkg/studio/audio"
	"github.com/NethermindEth/songslide/pkg/studio/debug"
	"github.com/NethermindEth/songslide/pkg/studio/gallery"
	"github.com/NethermindEth/songslide/pkg/studio/generation"
	"github.com/NethermindEth/songslide/pkg/studio/playback"
	"github.com/NethermindEth/songslide/pkg/studio/session"
)

const (
	audioFormField  = "audio"
	sessionEvent    = "session"
	shutdownTimeout = 10 * time.Second
)

type sessionUpdate struct {
	Title *string `json:"title"`
	Style *string `json:"style"`
}

type playbackRequest struct {
	Event string `json:"event" binding:"required"`
}

type configResponse struct {
	ImageCount          int    `json:"imageCount"`
	SlideshowIntervalMs int64  `json:"slideshowIntervalMs"`
	DefaultStyle        string `json:"defaultStyle"`
	Publishing          bool   `json:"publishing"`
}

func (s *Studio) generateRouter() *gin.Engine {
	if !debug.IsDebugHttp() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"sessions":    s.sessions.Len(),
			"runningRuns": s.pool.RunningWorkers(),
			"waitingRuns": s.pool.WaitingTasks(),
		})
	})

	router.GET("/styles", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.catalog.Styles())
	})

	router.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, configResponse{
			ImageCount:          s.imageCount,
			SlideshowIntervalMs: s.slideshowInterval.Milliseconds(),
			DefaultStyle:        s.catalog.Default().ID,
			Publishing:          s.publisher != nil,
		})
	})

	router.POST("/sessions", s.handleCreateSession)

	sessions := router.Group("/sessions/:id")
	sessions.GET("", s.withSession(func(c *gin.Context, sess *session.Session) {
		c.JSON(http.StatusOK, sess.View())
	}))
	sessions.PATCH("", s.withSession(s.handleUpdateSession))
	sessions.DELETE("", func(c *gin.Context) {
		if !s.sessions.Delete(c.Param("id")) {
			abortWithError(c, http.StatusNotFound, session.ErrNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	})
	sessions.PUT("/audio", s.withSession(func(c *gin.Context, sess *session.Session) {
		if !s.attachUpload(c, sess, true) {
			return
		}
		c.JSON(http.StatusOK, sess.View())
	}))
	sessions.GET("/audio", s.withSession(s.handleStreamAudio))
	sessions.POST("/generate", s.withSession(s.handleGenerate))
	sessions.POST("/playback", s.withSession(s.handlePlayback))
	sessions.GET("/events", s.withSession(s.handleEvents))
	sessions.POST("/publish", s.withSession(s.handlePublish))

	return router
}

func (s *Studio) GetRouter() *gin.Engine {
	return s.apiRouter
}

// StartServer blocks until ctx is done or the listener fails.
func (s *Studio) StartServer(ctx context.Context) error {
	slog.Info("starting server", "port", s.apiIpPort)

	if s.apiIpPort == "" {
		slog.Info("api ip port is empty, skipping server")
		<-ctx.Done()
		return nil
	}

	listener, err := net.Listen("tcp", s.apiIpPort)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.apiIpPort, err)
	}

	return s.Serve(ctx, listener)
}

// Serve runs the api on listener until ctx is done. Open event streams are
// ended when shutdown begins.
func (s *Studio) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler: s.apiRouter,
	}
	server.RegisterOnShutdown(s.stopStreams)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Studio) withSession(handler func(c *gin.Context, sess *session.Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.sessions.Get(c.Param("id"))
		if err != nil {
			abortWithError(c, http.StatusNotFound, err)
			return
		}
		handler(c, sess)
	}
}

func (s *Studio) handleCreateSession(c *gin.Context) {
	sess := s.sessions.Create(s.catalog.Default().ID)

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if !s.attachUpload(c, sess, false) {
			s.sessions.Delete(sess.ID())
			return
		}
	}

	c.JSON(http.StatusCreated, sess.View())
}

func (s *Studio) handleUpdateSession(c *gin.Context, sess *session.Session) {
	var req sessionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if req.Style != nil {
		if _, err := s.catalog.Get(*req.Style); err != nil {
			abortWithMessage(c, http.StatusBadRequest, generation.MessageStyleNotFound)
			return
		}
		sess.SetStyle(*req.Style)
	}
	if req.Title != nil {
		sess.SetSongTitle(*req.Title)
	}

	c.JSON(http.StatusOK, sess.View())
}

// attachUpload stores the multipart audio file and replaces the session's
// track. The response has been written when it returns false.
func (s *Studio) attachUpload(c *gin.Context, sess *session.Session, required bool) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	fileHeader, err := c.FormFile(audioFormField)
	if errors.Is(err, http.ErrMissingFile) && !required {
		return true
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			abortWithMessage(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("audio file exceeds %d bytes", s.maxUploadBytes))
			return false
		}
		abortWithError(c, http.StatusBadRequest, err)
		return false
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return false
	}
	defer file.Close()

	sampleRate, duration, err := s.measureAudio(file)
	if err != nil {
		slog.Warn("rejected audio upload", "session", sess.ID(), "file", fileHeader.Filename, "error", err)
		abortWithMessage(c, http.StatusBadRequest, "uploaded file is not a valid mp3")
		return false
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return false
	}

	size, err := s.audioStore.Save(c.Request.Context(), sess.ID(), file)
	if err != nil {
		slog.Error("failed to save audio", "session", sess.ID(), "error", err)
		abortWithError(c, http.StatusInternalServerError, err)
		return false
	}

	sess.SetAudio(audio.Track{
		FileName:   fileHeader.Filename,
		Size:       size,
		SampleRate: sampleRate,
		Duration:   duration,
	})

	return true
}

func (s *Studio) handleStreamAudio(c *gin.Context, sess *session.Session) {
	view := sess.View()
	if view.Track == nil {
		abortWithError(c, http.StatusNotFound, audio.ErrNotFound)
		return
	}

	file, err := s.audioStore.Open(sess.ID())
	if errors.Is(err, audio.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	http.ServeContent(c.Writer, c.Request, view.Track.FileName, info.ModTime(), file)
}

func (s *Studio) handleGenerate(c *gin.Context, sess *session.Session) {
	// An empty body keeps the stored title and style.
	var req sessionUpdate
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if req.Style != nil {
		if _, err := s.catalog.Get(*req.Style); err != nil {
			sess.SetError(generation.MessageStyleNotFound)
			abortWithMessage(c, http.StatusBadRequest, generation.MessageStyleNotFound)
			return
		}
		sess.SetStyle(*req.Style)
	}
	if req.Title != nil {
		sess.SetSongTitle(*req.Title)
	}

	err := s.StartGeneration(sess)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, sess.View())
	case generation.IsValidationError(err), errors.Is(err, session.ErrNoAudio):
		abortWithError(c, http.StatusBadRequest, err)
	case errors.Is(err, session.ErrRunInProgress):
		abortWithError(c, http.StatusConflict, err)
	case errors.Is(err, ErrClosed):
		abortWithError(c, http.StatusServiceUnavailable, err)
	default:
		abortWithError(c, http.StatusInternalServerError, err)
	}
}

func (s *Studio) handlePlayback(c *gin.Context, sess *session.Session) {
	var req playbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	event, err := playback.ParseEvent(req.Event)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	if err := sess.HandlePlayback(event); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, sess.View())
}

// handleEvents streams a session view after every change until the client
// goes away or the studio ends the stream.
func (s *Studio) handleEvents(c *gin.Context, sess *session.Session) {
	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	view := sess.View()
	for {
		c.SSEvent(sessionEvent, view)
		c.Writer.Flush()

		var ok bool
		select {
		case <-c.Request.Context().Done():
			return
		case <-s.streamCtx.Done():
			return
		case view, ok = <-updates:
			if !ok {
				return
			}
		}
	}
}

func (s *Studio) handlePublish(c *gin.Context, sess *session.Session) {
	if s.publisher == nil {
		abortWithMessage(c, http.StatusServiceUnavailable, "publishing is not configured")
		return
	}

	view := sess.View()
	publication, err := s.publisher.Publish(c.Request.Context(), view.SongTitle, view.Style, view.Slideshow.Images)
	if errors.Is(err, gallery.ErrNothingToPublish) {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		slog.Error("failed to publish slideshow", "session", sess.ID(), "error", err)
		abortWithError(c, http.StatusBadGateway, err)
		return
	}

	c.JSON(http.StatusOK, publication)
}

func abortWithError(c *gin.Context, status int, err error) {
	abortWithMessage(c, status, err.Error())
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
