package playback

import "fmt"

// Event is a playback notification from the client's audio element.
type Event string

const (
	EventStarted Event = "started"
	EventPaused  Event = "paused"
	EventEnded   Event = "ended"
)

func ParseEvent(s string) (Event, error) {
	switch e := Event(s); e {
	case EventStarted, EventPaused, EventEnded:
		return e, nil
	}
	return "", fmt.Errorf("unknown playback event %q", s)
}

func (c *Controller) Handle(event Event) error {
	switch event {
	case EventStarted:
		c.OnPlaybackStarted()
	case EventPaused:
		c.OnPlaybackPaused()
	case EventEnded:
		c.OnPlaybackEnded()
	default:
		return fmt.Errorf("unknown playback event %q", event)
	}
	return nil
}
