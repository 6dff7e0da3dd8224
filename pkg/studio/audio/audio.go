package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// Track describes an uploaded audio file.
type Track struct {
	FileName   string        `json:"fileName"`
	Size       int64         `json:"size"`
	SampleRate int           `json:"sampleRate"`
	Duration   time.Duration `json:"duration"`
}

// TitleFromFileName drops the directory and the last extension of a file name.
// A name without an extension, or one that is only an extension, has no title.
func TitleFromFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return ""
	}
	return strings.TrimSpace(name[:dot])
}

// MeasureFunc reads an upload's sample rate and duration.
type MeasureFunc func(r io.ReadSeeker) (sampleRate int, duration time.Duration, err error)

var _ MeasureFunc = Measure

// Measure decodes the MP3 header and measures the decoded stream length.
func Measure(r io.ReadSeeker) (sampleRate int, duration time.Duration, err error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode mp3: %w", err)
	}

	sampleRate = decoder.SampleRate()
	if sampleRate <= 0 {
		return 0, 0, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	// 16-bit stereo PCM, 4 bytes per sample
	length := decoder.Length()
	if length > 0 {
		duration = time.Duration(length) * time.Second / time.Duration(4*sampleRate)
	}

	return sampleRate, duration, nil
}
