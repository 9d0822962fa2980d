package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/utils"
)

const (
	DefaultSummaryMaxLength = 150
	DefaultSummaryMinLength = 30
	// MinSummarizableWords is the word count below which text is returned unchanged.
	MinSummarizableWords = 15
	// ChunkCharLimit is the largest piece of text sent to the generator at once.
	ChunkCharLimit = 800
)

var errEmptySummary = errors.New("generator returned an empty summary")

// Bounds are word-like length limits for a generated summary.
type Bounds struct {
	MaxLength int
	MinLength int
}

// Generator is an abstractive summarization model.
type Generator interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

type Summarizer struct {
	gen      Generator
	defaults Bounds
	log      logger.ILogger
}

func NewSummarizer(gen Generator, defaults Bounds, log logger.ILogger) *Summarizer {
	if defaults.MaxLength <= 0 {
		defaults.MaxLength = DefaultSummaryMaxLength
	}
	if defaults.MinLength <= 0 {
		defaults.MinLength = DefaultSummaryMinLength
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Summarizer{gen: gen, defaults: defaults, log: log}
}

// AdaptiveBounds shrinks the requested bounds so short inputs are never asked
// for a summary longer than a fraction of themselves.
func AdaptiveBounds(wordCount int, b Bounds) Bounds {
	switch {
	case wordCount < 50:
		return Bounds{
			MaxLength: max(wordCount/2, 15),
			MinLength: max(wordCount/4, 5),
		}
	case wordCount < 100:
		maxLen := min(b.MaxLength, max(wordCount/2, 20))
		return Bounds{
			MaxLength: maxLen,
			MinLength: min(b.MinLength, max(maxLen/3, 10)),
		}
	default:
		return b
	}
}

// Summarize never fails. Zero bounds fall back to the summarizer defaults.
func (s *Summarizer) Summarize(ctx context.Context, text string, b Bounds) (string, Tier) {
	wordCount := len(strings.Fields(text))
	if wordCount < MinSummarizableWords {
		return text, TierPassthrough
	}

	if b.MaxLength <= 0 {
		b.MaxLength = s.defaults.MaxLength
	}
	if b.MinLength <= 0 {
		b.MinLength = s.defaults.MinLength
	}
	b = AdaptiveBounds(wordCount, b)

	if s.gen == nil {
		return ExtractiveSummary(text), TierFallback
	}

	chunks := utils.SplitSentenceChunks(text, ChunkCharLimit)
	if len(chunks) == 1 {
		summary, err := s.generate(ctx, text, b)
		if err != nil {
			s.log.Warn("Summarizer", "Generator failed, using extractive fallback", map[string]interface{}{"error": err.Error()})
			return ExtractiveSummary(text), TierFallback
		}
		return summary, TierPrimary
	}

	parts := make([]string, 0, len(chunks))
	failed := 0
	for i, chunk := range chunks {
		summary, err := s.generate(ctx, chunk, b)
		if err != nil {
			failed++
			s.log.Warn("Summarizer", "Chunk summarization failed", map[string]interface{}{"chunk": i, "error": err.Error()})
			summary = ExtractiveSummary(chunk)
		}
		parts = append(parts, summary)
	}

	tier := TierPrimary
	if failed == len(chunks) {
		tier = TierFallback
	}
	return strings.Join(parts, " "), tier
}

func (s *Summarizer) generate(ctx context.Context, text string, b Bounds) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	summary, err = s.gen.Summarize(ctx, text, b.MaxLength, b.MinLength)
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", errEmptySummary
	}
	return summary, nil
}

// ExtractiveSummary keeps the leading sentences of text verbatim.
func ExtractiveSummary(text string) string {
	var sentences []string
	for _, s := range strings.Split(text, ".") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) <= 2 {
		return text
	}

	n := 3
	if len(sentences) <= 5 {
		n = 2
	}
	return strings.Join(sentences[:n], ". ") + "."
}
