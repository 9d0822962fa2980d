package models

import (
	"context"
	"fmt"
	"strings"

	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/llm"
	"smart-notes-be/pkg/llm/huggingface"
	"smart-notes-be/pkg/media"
)

// Prompts sent to chat and vision models.
const (
	summaryPrompt = "Summarize the following note in %d to %d words. " +
		"Reply with the summary only, no preamble.\n\n%s"
	captionPrompt = "Describe this image in one short sentence."
	ocrPrompt     = "Transcribe all text visible in this image exactly as written. " +
		"Reply with the text only. If there is no text, reply with nothing."
)

// summaryTokensPerWord converts word bounds into generation token limits.
const summaryTokensPerWord = 2

type HFSummarizer struct {
	client  *huggingface.InferenceClient
	model   string
	limiter *Limiter
}

var _ enrichment.Generator = (*HFSummarizer)(nil)

func NewHFSummarizer(client *huggingface.InferenceClient, model string, limiter *Limiter) *HFSummarizer {
	return &HFSummarizer{client: client, model: model, limiter: limiter}
}

func (s *HFSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.client.Summarize(ctx, s.model, text, maxLength, minLength)
}

// LLMSummarizer prompts a chat model for an abstractive summary.
type LLMSummarizer struct {
	provider llm.LLMProvider
	limiter  *Limiter
}

var _ enrichment.Generator = (*LLMSummarizer)(nil)

func NewLLMSummarizer(provider llm.LLMProvider, limiter *Limiter) *LLMSummarizer {
	return &LLMSummarizer{provider: provider, limiter: limiter}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(summaryPrompt, minLength, maxLength, text)
	return s.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.2),
		llm.WithMaxTokens(maxLength*summaryTokensPerWord),
	)
}

type HFClassifier struct {
	client  *huggingface.InferenceClient
	model   string
	limiter *Limiter
}

var _ enrichment.Classifier = (*HFClassifier)(nil)

func NewHFClassifier(client *huggingface.InferenceClient, model string, limiter *Limiter) *HFClassifier {
	return &HFClassifier{client: client, model: model, limiter: limiter}
}

func (c *HFClassifier) Classify(ctx context.Context, text string) (enrichment.Prediction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return enrichment.Prediction{}, err
	}
	labels, err := c.client.Classify(ctx, c.model, text)
	if err != nil {
		return enrichment.Prediction{}, err
	}
	if len(labels) == 0 {
		return enrichment.Prediction{}, fmt.Errorf("classifier returned no labels")
	}
	return enrichment.Prediction{Label: labels[0].Label, Score: labels[0].Score}, nil
}

// HFImageReader runs an image-to-text pipeline (captioning or TrOCR).
type HFImageReader struct {
	client  *huggingface.InferenceClient
	model   string
	limiter *Limiter
}

var _ media.ImageReader = (*HFImageReader)(nil)

func NewHFImageReader(client *huggingface.InferenceClient, model string, limiter *Limiter) *HFImageReader {
	return &HFImageReader{client: client, model: model, limiter: limiter}
}

func (r *HFImageReader) ReadImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.client.ImageToText(ctx, r.model, image, mimeType)
}

// VisionReader asks a multimodal chat model about an image.
type VisionReader struct {
	provider llm.VisionProvider
	model    string
	prompt   string
	limiter  *Limiter
}

var _ media.ImageReader = (*VisionReader)(nil)

func NewVisionCaptioner(provider llm.VisionProvider, model string, limiter *Limiter) *VisionReader {
	return &VisionReader{provider: provider, model: model, prompt: captionPrompt, limiter: limiter}
}

func NewVisionOCR(provider llm.VisionProvider, model string, limiter *Limiter) *VisionReader {
	return &VisionReader{provider: provider, model: model, prompt: ocrPrompt, limiter: limiter}
}

func (r *VisionReader) ReadImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	var opts []llm.Option
	if r.model != "" {
		opts = append(opts, llm.WithModel(r.model))
	}
	out, err := r.provider.Describe(ctx, image, mimeType, r.prompt, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

type HFTranscriber struct {
	client  *huggingface.InferenceClient
	model   string
	limiter *Limiter
}

var _ media.Transcriber = (*HFTranscriber)(nil)

func NewHFTranscriber(client *huggingface.InferenceClient, model string, limiter *Limiter) *HFTranscriber {
	return &HFTranscriber{client: client, model: model, limiter: limiter}
}

// Transcribe ignores the language hint; hosted pipelines detect it.
func (t *HFTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, _ string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.client.SpeechToText(ctx, t.model, audio, mimeType)
}

type LLMTranscriber struct {
	provider llm.TranscriptionProvider
	limiter  *Limiter
}

var _ media.Transcriber = (*LLMTranscriber)(nil)

func NewLLMTranscriber(provider llm.TranscriptionProvider, limiter *Limiter) *LLMTranscriber {
	return &LLMTranscriber{provider: provider, limiter: limiter}
}

func (t *LLMTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.provider.Transcribe(ctx, audio, mimeType, language)
}
