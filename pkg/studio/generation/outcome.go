package generation

type Status string

const (
	StatusFull    Status = "full"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

const (
	MessageNoImages   = "Failed to generate any images. Please try again with a different title or style."
	MessageUnexpected = "An unexpected error occurred during image generation."
)

// Attempt records a single call to the image generator.
type Attempt struct {
	Index  int    `json:"index"`
	Prompt string `json:"prompt"`
	Error  string `json:"error,omitempty"`
}

func (a Attempt) Succeeded() bool {
	return a.Error == ""
}

type Outcome struct {
	Status   Status    `json:"status"`
	Images   []string  `json:"images"`
	Message  string    `json:"message,omitempty"`
	Attempts []Attempt `json:"attempts"`
}

func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

func newOutcome(images []string, attempts []Attempt) Outcome {
	switch {
	case len(images) == 0:
		return Outcome{Status: StatusFailed, Images: []string{}, Message: MessageNoImages, Attempts: attempts}
	case len(images) < len(attempts):
		return Outcome{Status: StatusPartial, Images: images, Attempts: attempts}
	default:
		return Outcome{Status: StatusFull, Images: images, Attempts: attempts}
	}
}

func failedOutcome(message string, attempts []Attempt) Outcome {
	return Outcome{Status: StatusFailed, Images: []string{}, Message: message, Attempts: attempts}
}
