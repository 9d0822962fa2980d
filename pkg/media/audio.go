package media

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"smart-notes-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	KeyWhisper           = "whisper"
	KeySpeechRecognition = "speech_recognition"

	// MinWhisperTextLength is the length a whisper transcript must exceed to win.
	MinWhisperTextLength = 5
	// DefaultLanguage lets the transcriber detect the spoken language.
	DefaultLanguage = "auto"
)

// Transcriber converts speech audio to text. language is an ISO code or
// "auto".
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error)
}

type AudioAdapter struct {
	whisper Transcriber
	speech  Transcriber
	log     logger.ILogger
}

func NewAudioAdapter(whisper, speech Transcriber, log logger.ILogger) *AudioAdapter {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &AudioAdapter{whisper: whisper, speech: speech, log: log}
}

func (a *AudioAdapter) Extract(ctx context.Context, input any, language string) Result {
	ctx, span := otel.Tracer("media").Start(ctx, "media.AudioAdapter.Extract")
	defer span.End()

	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}
	span.SetAttributes(attribute.String("language", language))

	data, mime, err := decodeAudio(input)
	if err != nil {
		a.log.Warn("AudioAdapter", "Invalid audio input", map[string]interface{}{"error": err.Error()})
		return Result{Candidates: map[string]string{}, Selected: InvalidAudioData, Error: InvalidAudioData}
	}

	res := Result{Candidates: map[string]string{
		KeyWhisper:           a.transcribe(ctx, a.whisper, data, mime, language, "Whisper", WhisperUnavailable),
		KeySpeechRecognition: a.transcribe(ctx, a.speech, data, mime, language, "SR", SpeechUnavailable),
	}}

	res.Selected = selectTranscription(res.Candidates)
	span.SetAttributes(attribute.Bool("text.found", res.OK()))
	return res
}

func (a *AudioAdapter) transcribe(ctx context.Context, t Transcriber, data []byte, mime, language, name, unavailable string) (text string) {
	if t == nil {
		return unavailable
	}
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("AudioAdapter", name+" panicked", map[string]interface{}{"error": fmt.Sprint(rec)})
			text = fmt.Sprintf("%s error: %v", name, rec)
		}
	}()

	out, err := t.Transcribe(ctx, data, mime, language)
	if err != nil {
		a.log.Warn("AudioAdapter", name+" transcription failed", map[string]interface{}{"error": err.Error()})
		return fmt.Sprintf("%s error: %v", name, err)
	}
	if out = strings.TrimSpace(out); out == "" {
		return noSpeech
	}
	return out
}

// selectTranscription prefers whisper, then the secondary recognizer.
func selectTranscription(c map[string]string) string {
	if w := c[KeyWhisper]; Usable(w) && utf8.RuneCountInString(w) > MinWhisperTextLength {
		return w
	}
	return firstUsable(c[KeySpeechRecognition], NoTranscription)
}
