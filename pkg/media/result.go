// Package media turns attached images and audio into text for enrichment.
// Adapters never fail: every problem is reported inside the Result.
package media

import (
	"strings"
)

// Result of one media extraction. Candidates maps each method to its text.
type Result struct {
	Candidates map[string]string `json:"candidates"`
	Selected   string            `json:"selected"`
	Error      string            `json:"error,omitempty"`
}

// OK reports whether Selected holds extracted text rather than a sentinel.
func (r Result) OK() bool {
	return r.Error == "" && Usable(r.Selected)
}

const (
	NoImageText      = "No text could be extracted from the image"
	InvalidImageData = "Invalid image data"
	NoTranscription  = "Could not transcribe audio"
	InvalidAudioData = "Invalid audio data"

	CaptionUnavailable  = "Caption model not available"
	OCRUnavailable      = "OCR not available"
	DocumentUnavailable = "Document processor not available"
	WhisperUnavailable  = "Whisper model not available"
	SpeechUnavailable   = "Speech recognition not available"

	noOCRText      = "No text detected"
	noDocumentText = "No document text detected"
	noSpeech       = "Could not understand audio"
)

var sentinels = map[string]bool{
	NoImageText:         true,
	InvalidImageData:    true,
	NoTranscription:     true,
	InvalidAudioData:    true,
	CaptionUnavailable:  true,
	OCRUnavailable:      true,
	DocumentUnavailable: true,
	WhisperUnavailable:  true,
	SpeechUnavailable:   true,
	noOCRText:           true,
	noDocumentText:      true,
	noSpeech:            true,
}

// Usable reports whether a candidate is real extracted text: non-empty, not
// an error message and not one of the availability or no-text sentinels.
func Usable(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" || sentinels[t] {
		return false
	}
	return !strings.Contains(strings.ToLower(t), "error")
}
