package playback

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

const DefaultInterval = 7000 * time.Millisecond

type Mode string

const (
	ModeIdle    Mode = "idle"
	ModePlaying Mode = "playing"
)

// State is a snapshot of the slideshow.
type State struct {
	Images       []string `json:"images"`
	CurrentIndex int      `json:"currentIndex"`
	CurrentImage string   `json:"currentImage,omitempty"`
	Mode         Mode     `json:"mode"`
	AudioPlaying bool     `json:"audioPlaying"`
	TimerActive  bool     `json:"timerActive"`
}

type ControllerOptions struct {
	Interval time.Duration
	// Clock defaults to the wall clock; tests pass clock.NewMock().
	Clock clock.Clock
	// OnAdvance is called after every timer driven index change, outside the
	// controller lock.
	OnAdvance func(State)
}

// Controller rotates through an image set while audio is playing. It is the
// only owner of the slideshow index and of the ticker; at most one ticker is
// live at any time.
type Controller struct {
	interval  time.Duration
	clock     clock.Clock
	onAdvance func(State)

	mu           sync.Mutex
	images       []string
	index        int
	audioPlaying bool
	closed       bool

	ticker *clock.Ticker
	stop   chan struct{}
	// generation identifies the live ticker; ticks from older tickers are dropped.
	generation uint64
}

func NewController(opts ControllerOptions) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}

	return &Controller{
		interval:  opts.Interval,
		clock:     opts.Clock,
		onAdvance: opts.OnAdvance,
		images:    []string{},
	}
}

func (c *Controller) OnPlaybackStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.audioPlaying = true
	if len(c.images) > 0 && c.ticker == nil {
		c.startTickerLocked()
	}
}

func (c *Controller) OnPlaybackPaused() {
	c.stopPlayback()
}

func (c *Controller) OnPlaybackEnded() {
	c.stopPlayback()
}

func (c *Controller) stopPlayback() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.audioPlaying = false
	c.stopTickerLocked()
}

// OnImagesReplaced swaps the image set and rewinds to the first image. A
// running ticker keeps its cadence; an empty set stops it.
func (c *Controller) OnImagesReplaced(images []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.images = append([]string{}, images...)
	c.index = 0

	switch {
	case len(c.images) == 0:
		c.stopTickerLocked()
	case c.audioPlaying && c.ticker == nil:
		c.startTickerLocked()
	}
}

// Close releases the ticker. The controller ignores every event afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.audioPlaying = false
	c.stopTickerLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) Interval() time.Duration {
	return c.interval
}

func (c *Controller) stateLocked() State {
	state := State{
		Images:       append([]string{}, c.images...),
		CurrentIndex: c.index,
		Mode:         ModeIdle,
		AudioPlaying: c.audioPlaying,
		TimerActive:  c.ticker != nil,
	}
	if len(c.images) > 0 {
		state.CurrentImage = c.images[c.index]
	}
	if state.TimerActive {
		state.Mode = ModePlaying
	}
	return state
}

func (c *Controller) startTickerLocked() {
	c.stopTickerLocked()

	c.generation++
	ticker := c.clock.Ticker(c.interval)
	stop := make(chan struct{})

	c.ticker = ticker
	c.stop = stop

	go c.run(ticker, stop, c.generation)
}

func (c *Controller) stopTickerLocked() {
	if c.ticker == nil {
		return
	}

	c.ticker.Stop()
	close(c.stop)
	c.ticker = nil
	c.stop = nil
}

func (c *Controller) run(ticker *clock.Ticker, stop <-chan struct{}, generation uint64) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.advance(generation)
		}
	}
}

func (c *Controller) advance(generation uint64) {
	c.mu.Lock()
	if c.closed || c.ticker == nil || generation != c.generation || len(c.images) == 0 {
		c.mu.Unlock()
		return
	}

	c.index = (c.index + 1) % len(c.images)
	state := c.stateLocked()
	c.mu.Unlock()

	if c.onAdvance != nil {
		c.onAdvance(state)
	}
}
