package session

import (
	"errors"
	"sync"
	"time"

	"github.com/NethermindEth/songslide/pkg/studio/audio"
	"github.com/NethermindEth/songslide/pkg/studio/generation"
	"github.com/NethermindEth/songslide/pkg/studio/playback"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrRunInProgress = errors.New("image generation already in progress")
	ErrNoAudio       = errors.New("upload an audio file first")
)

// View is the client facing snapshot of a session.
type View struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"createdAt"`
	Track      *audio.Track      `json:"track,omitempty"`
	SongTitle  string            `json:"songTitle"`
	Style      string            `json:"style"`
	Generating bool              `json:"generating"`
	LastStatus generation.Status `json:"lastStatus,omitempty"`
	Error      string            `json:"error,omitempty"`
	Slideshow  playback.State    `json:"slideshow"`
}

type Session struct {
	id         string
	createdAt  time.Time
	controller *playback.Controller
	hub        *hub

	mu         sync.Mutex
	track      *audio.Track
	songTitle  string
	style      string
	generating bool
	epoch      uint64
	lastStatus generation.Status
	lastError  string
}

func newSession(id string, style string, opts playback.ControllerOptions) *Session {
	s := &Session{
		id:        id,
		createdAt: time.Now(),
		hub:       newHub(),
		style:     style,
	}

	opts.OnAdvance = func(playback.State) {
		s.broadcast()
	}
	s.controller = playback.NewController(opts)

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Controller() *playback.Controller {
	return s.controller
}

// SetAudio attaches a new track. Previous images and errors are dropped, the
// title is taken from the file name and any outstanding run becomes stale.
func (s *Session) SetAudio(track audio.Track) {
	s.mu.Lock()
	s.track = &track
	s.songTitle = audio.TitleFromFileName(track.FileName)
	s.epoch++
	s.lastError = ""
	s.lastStatus = ""
	s.controller.OnImagesReplaced(nil)
	s.mu.Unlock()

	s.broadcast()
}

func (s *Session) HasAudio() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track != nil
}

func (s *Session) SetSongTitle(title string) {
	s.mu.Lock()
	s.songTitle = title
	s.mu.Unlock()

	s.broadcast()
}

func (s *Session) SetStyle(style string) {
	s.mu.Lock()
	s.style = style
	s.mu.Unlock()

	s.broadcast()
}

func (s *Session) SongTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.songTitle
}

func (s *Session) Style() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// SetError shows a message without starting a run, e.g. after failed validation.
func (s *Session) SetError(message string) {
	s.mu.Lock()
	s.lastError = message
	s.mu.Unlock()

	s.broadcast()
}

// BeginRun marks a run as outstanding and clears the current slideshow. The
// returned epoch must be handed back to FinishRun.
func (s *Session) BeginRun() (uint64, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return 0, ErrRunInProgress
	}

	s.generating = true
	s.lastError = ""
	s.lastStatus = ""
	s.controller.OnImagesReplaced(nil)
	epoch := s.epoch
	s.mu.Unlock()

	s.broadcast()

	return epoch, nil
}

// FinishRun applies the outcome of the run started at epoch. Outcomes of stale
// runs are discarded and false is returned.
func (s *Session) FinishRun(epoch uint64, outcome generation.Outcome) bool {
	s.mu.Lock()
	s.generating = false

	applied := epoch == s.epoch
	if applied {
		s.lastStatus = outcome.Status
		if outcome.Failed() {
			s.lastError = outcome.Message
		} else {
			s.controller.OnImagesReplaced(outcome.Images)
		}
	}
	s.mu.Unlock()

	s.broadcast()

	return applied
}

func (s *Session) HandlePlayback(event playback.Event) error {
	if err := s.controller.Handle(event); err != nil {
		return err
	}

	s.broadcast()

	return nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		ID:         s.id,
		CreatedAt:  s.createdAt,
		SongTitle:  s.songTitle,
		Style:      s.style,
		Generating: s.generating,
		LastStatus: s.lastStatus,
		Error:      s.lastError,
		Slideshow:  s.controller.State(),
	}
	if s.track != nil {
		track := *s.track
		view.Track = &track
	}

	return view
}

// Subscribe streams a View after every change. The returned function
// unsubscribes; the channel is also closed when the session is closed.
func (s *Session) Subscribe() (<-chan View, func()) {
	return s.hub.subscribe()
}

// Close stops the slideshow ticker and ends every subscription.
func (s *Session) Close() {
	s.controller.Close()
	s.hub.close()
}

func (s *Session) broadcast() {
	s.hub.publish(s.View())
}
