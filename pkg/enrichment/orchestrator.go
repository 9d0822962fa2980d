// Package enrichment derives a summary, keywords, a sentiment label and text
// statistics from note text. Every component has a heuristic tier, so an
// Orchestrator always returns a structurally valid Record no matter which
// models are reachable.
package enrichment

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment/lexicon"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultBudget is the wall-clock limit applied on the note write path.
const DefaultBudget = 10 * time.Second

type Options struct {
	Generator             Generator
	Classifier            Classifier
	Lexicon               *lexicon.Lexicon
	Logger                logger.ILogger
	MaxKeywords           int
	Bounds                Bounds
	ConfidenceThreshold   float64
	DisableKeywordScoring bool
}

type Orchestrator struct {
	summarizer  *Summarizer
	keywords    *KeywordExtractor
	sentiment   *SentimentClassifier
	maxKeywords int
	log         logger.ILogger
}

func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	maxKeywords := opts.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}

	return &Orchestrator{
		summarizer:  NewSummarizer(opts.Generator, opts.Bounds, log),
		keywords:    NewKeywordExtractor(lex, log, opts.DisableKeywordScoring),
		sentiment:   NewSentimentClassifier(opts.Classifier, opts.ConfidenceThreshold, lex, log),
		maxKeywords: maxKeywords,
		log:         log,
	}
}

func (o *Orchestrator) Summarizer() *Summarizer { return o.summarizer }

// Degraded reports whether rec was produced below the tier this orchestrator
// is configured for, e.g. the summary fell back although a generator is set.
// Such records reflect a transient failure and should not be reused.
func (o *Orchestrator) Degraded(rec Record) bool {
	if rec.Tiers.Summary == TierDefault || rec.Tiers.Keywords == TierDefault || rec.Tiers.Sentiment == TierDefault {
		return true
	}
	if o.summarizer.gen != nil && rec.Tiers.Summary == TierFallback {
		return true
	}
	return o.sentiment.primary != nil && rec.Tiers.Sentiment == TierFallback
}

// Enrich runs the four components concurrently. A panic in one component is
// contained and that field falls back to its default.
func (o *Orchestrator) Enrich(ctx context.Context, text string) Record {
	ctx, span := otel.Tracer("enrichment").Start(ctx, "enrichment.Enrich")
	defer span.End()
	span.SetAttributes(attribute.Int("text.length", len(text)))

	rec := Record{
		Summary:   text,
		Keywords:  []string{},
		Sentiment: SentimentNeutral,
		Tiers: Tiers{
			Summary:   TierDefault,
			Keywords:  TierDefault,
			Sentiment: TierDefault,
		},
	}

	var wg sync.WaitGroup
	run := func(component string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.log.Error("Orchestrator", "Component panicked", map[string]interface{}{
						"component": component,
						"error":     fmt.Sprint(r),
					})
				}
			}()
			fn()
		}()
	}

	// Each goroutine owns distinct fields of rec.
	run("summary", func() {
		rec.Summary, rec.Tiers.Summary = o.summarizer.Summarize(ctx, text, Bounds{})
	})
	run("keywords", func() {
		rec.Keywords, rec.Tiers.Keywords = o.keywords.Extract(text, o.maxKeywords)
	})
	run("sentiment", func() {
		rec.Sentiment, rec.Tiers.Sentiment = o.sentiment.Classify(ctx, text)
	})
	run("statistics", func() {
		rec.Statistics = ComputeStatistics(text)
	})
	wg.Wait()

	span.SetAttributes(
		attribute.String("tier.summary", string(rec.Tiers.Summary)),
		attribute.String("tier.keywords", string(rec.Tiers.Keywords)),
		attribute.String("tier.sentiment", string(rec.Tiers.Sentiment)),
	)
	return rec
}

// EnrichWithin is Enrich bounded by budget. When the budget runs out it
// returns false and abandons the in-flight work: its context is cancelled, so
// remote calls stop, but local inference already running finishes in the
// background and its result is discarded.
func (o *Orchestrator) EnrichWithin(ctx context.Context, text string, budget time.Duration) (Record, bool) {
	if budget <= 0 {
		return o.Enrich(ctx, text), true
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan Record, 1)
	go func() {
		done <- o.Enrich(ctx, text)
	}()

	select {
	case rec := <-done:
		// Cancellation makes remote tiers fail fast into their fallbacks,
		// which must not count as a completed enrichment.
		if ctx.Err() != nil {
			o.log.Warn("Orchestrator", "Enrichment finished after its budget", map[string]interface{}{"budget": budget.String()})
			return Record{}, false
		}
		return rec, true
	case <-ctx.Done():
		o.log.Warn("Orchestrator", "Enrichment budget exceeded, abandoning", map[string]interface{}{"budget": budget.String()})
		return Record{}, false
	}
}
