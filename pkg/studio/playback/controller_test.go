package playback_test

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/songslide/pkg/studio/playback"
)

// countingClock is a mock clock that records every ticker it hands out.
type countingClock struct {
	*clock.Mock

	mu        sync.Mutex
	intervals []time.Duration
}

func (c *countingClock) Ticker(d time.Duration) *clock.Ticker {
	c.mu.Lock()
	c.intervals = append(c.intervals, d)
	c.mu.Unlock()

	return c.Mock.Ticker(d)
}

func (c *countingClock) created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.intervals)
}

const testInterval = 7 * time.Second

type harness struct {
	controller *playback.Controller
	clock      *countingClock
	advances   chan playback.State
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		clock:    &countingClock{Mock: clock.NewMock()},
		advances: make(chan playback.State, 100),
	}
	h.controller = playback.NewController(playback.ControllerOptions{
		Interval: testInterval,
		Clock:    h.clock,
		OnAdvance: func(state playback.State) {
			h.advances <- state
		},
	})
	t.Cleanup(h.controller.Close)

	return h
}

// fire moves the clock one interval forward and waits for the single advance
// it must cause.
func (h *harness) fire(t *testing.T) playback.State {
	t.Helper()

	h.clock.Add(testInterval)

	var state playback.State
	select {
	case state = <-h.advances:
	case <-time.After(time.Second):
		t.Fatal("controller did not advance")
	}

	h.assertNoAdvance(t)
	return state
}

// assertNoAdvance fails if any advance is pending.
func (h *harness) assertNoAdvance(t *testing.T) {
	t.Helper()

	select {
	case state := <-h.advances:
		t.Fatalf("unexpected advance to index %d", state.CurrentIndex)
	case <-time.After(20 * time.Millisecond):
	}
}

// assertStopped moves the clock forward and expects no advance.
func (h *harness) assertStopped(t *testing.T) {
	t.Helper()

	h.clock.Add(testInterval)
	h.assertNoAdvance(t)
}

func TestController_InitialState(t *testing.T) {
	h := newHarness(t)

	state := h.controller.State()
	assert.Equal(t, playback.ModeIdle, state.Mode)
	assert.False(t, state.TimerActive)
	assert.Empty(t, state.Images)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, 7*time.Second, h.controller.Interval())
}

func TestController_DefaultInterval(t *testing.T) {
	controller := playback.NewController(playback.ControllerOptions{})
	defer controller.Close()

	assert.Equal(t, playback.DefaultInterval, controller.Interval())
}

func TestController_StartWithImages(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b", "c"})

	h.controller.OnPlaybackStarted()

	state := h.controller.State()
	assert.Equal(t, playback.ModePlaying, state.Mode)
	assert.True(t, state.TimerActive)
	assert.Equal(t, 1, h.clock.created())
	assert.Equal(t, []time.Duration{testInterval}, h.clock.intervals)
	assert.Equal(t, 1, h.fire(t).CurrentIndex)
}

func TestController_StartWithoutImagesStaysIdle(t *testing.T) {
	h := newHarness(t)

	h.controller.OnPlaybackStarted()

	state := h.controller.State()
	assert.Equal(t, playback.ModeIdle, state.Mode)
	assert.True(t, state.AudioPlaying)
	assert.Equal(t, 0, h.clock.created())
}

func TestController_DoubleStartKeepsOneTicker(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b"})

	h.controller.OnPlaybackStarted()
	h.controller.OnPlaybackStarted()
	h.controller.OnPlaybackStarted()

	assert.Equal(t, 1, h.clock.created())
	assert.Equal(t, 1, h.fire(t).CurrentIndex, "one interval advances exactly once")
}

func TestController_AdvanceWrapsAround(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b", "c"})
	h.controller.OnPlaybackStarted()

	var visited []int
	for i := 0; i < 6; i++ {
		visited = append(visited, h.fire(t).CurrentIndex)
	}

	assert.Equal(t, []int{1, 2, 0, 1, 2, 0}, visited)

	state := h.controller.State()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, "a", state.CurrentImage)
}

func TestController_ReplaceImagesResetsIndex(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b", "c"})
	h.controller.OnPlaybackStarted()
	h.fire(t)
	h.fire(t)
	require.Equal(t, 2, h.controller.State().CurrentIndex)

	h.controller.OnImagesReplaced([]string{"x", "y"})

	state := h.controller.State()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, "x", state.CurrentImage)
	assert.True(t, state.TimerActive)
	assert.Equal(t, 1, h.clock.created(), "ticker keeps its cadence")

	assert.Equal(t, 1, h.fire(t).CurrentIndex)
}

func TestController_ReplaceImagesWhileIdleResetsIndex(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b"})
	h.controller.OnPlaybackStarted()
	h.fire(t)
	h.controller.OnPlaybackPaused()

	h.controller.OnImagesReplaced([]string{"c", "d", "e"})

	state := h.controller.State()
	assert.Equal(t, 0, state.CurrentIndex)
	assert.False(t, state.TimerActive)
}

func TestController_EmptyImagesForcesIdle(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b"})
	h.controller.OnPlaybackStarted()

	h.controller.OnImagesReplaced(nil)

	state := h.controller.State()
	assert.Equal(t, playback.ModeIdle, state.Mode)
	assert.False(t, state.TimerActive)
	assert.True(t, state.AudioPlaying)
	h.assertStopped(t)
}

func TestController_ImagesArriveWhilePlaying(t *testing.T) {
	h := newHarness(t)
	h.controller.OnPlaybackStarted()
	require.Equal(t, 0, h.clock.created())

	h.controller.OnImagesReplaced([]string{"a", "b"})

	assert.True(t, h.controller.State().TimerActive)
	assert.Equal(t, 1, h.clock.created())
	assert.Equal(t, 1, h.fire(t).CurrentIndex)
}

func TestController_PauseAndResume(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b", "c"})
	h.controller.OnPlaybackStarted()
	h.fire(t)

	h.controller.OnPlaybackPaused()

	state := h.controller.State()
	assert.False(t, state.TimerActive)
	assert.False(t, state.AudioPlaying)
	assert.Equal(t, 1, state.CurrentIndex, "pause keeps the current image")
	h.assertStopped(t)

	h.controller.OnPlaybackStarted()

	assert.Equal(t, 2, h.clock.created())
	assert.Equal(t, 2, h.fire(t).CurrentIndex)
}

func TestController_Ended(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b"})
	h.controller.OnPlaybackStarted()

	h.controller.OnPlaybackEnded()

	assert.Equal(t, playback.ModeIdle, h.controller.State().Mode)
	h.assertStopped(t)
}

func TestController_Close(t *testing.T) {
	h := newHarness(t)
	h.controller.OnImagesReplaced([]string{"a", "b"})
	h.controller.OnPlaybackStarted()

	h.controller.Close()
	h.controller.Close()

	h.assertStopped(t)

	h.controller.OnPlaybackStarted()
	h.controller.OnImagesReplaced([]string{"c"})

	state := h.controller.State()
	assert.False(t, state.TimerActive)
	assert.Equal(t, []string{"a", "b"}, state.Images)
	assert.Equal(t, 1, h.clock.created())
}

func TestController_StateIsCopy(t *testing.T) {
	h := newHarness(t)
	images := []string{"a", "b"}
	h.controller.OnImagesReplaced(images)
	images[0] = "mutated"

	state := h.controller.State()
	state.Images[1] = "mutated"

	assert.Equal(t, []string{"a", "b"}, h.controller.State().Images)
}

func TestController_WallClock(t *testing.T) {
	advanced := make(chan playback.State, 10)
	controller := playback.NewController(playback.ControllerOptions{
		Interval: 5 * time.Millisecond,
		OnAdvance: func(state playback.State) {
			advanced <- state
		},
	})
	defer controller.Close()

	controller.OnImagesReplaced([]string{"a", "b"})
	controller.OnPlaybackStarted()

	select {
	case state := <-advanced:
		assert.Equal(t, 1, state.CurrentIndex)
	case <-time.After(2 * time.Second):
		t.Fatal("wall clock ticker did not fire")
	}
}
