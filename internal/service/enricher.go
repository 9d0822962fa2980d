package service

import (
	"context"
	"time"

	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/internal/repository/memory"
	"smart-notes-be/pkg/enrichment"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Enricher runs the enrichment pipeline under the write-path budget and
// remembers completed records by text.
type Enricher struct {
	orchestrator *enrichment.Orchestrator
	cache        *memory.EnrichmentCache
	budget       time.Duration
	logger       logger.ILogger
}

// NewEnricher wires the pipeline. cache may be nil.
func NewEnricher(orchestrator *enrichment.Orchestrator, cache *memory.EnrichmentCache, budget time.Duration, log logger.ILogger) *Enricher {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Enricher{
		orchestrator: orchestrator,
		cache:        cache,
		budget:       budget,
		logger:       log,
	}
}

// Enrich returns false when the budget ran out before a record was produced.
func (e *Enricher) Enrich(ctx context.Context, text string) (enrichment.Record, bool) {
	ctx, span := otel.Tracer("service").Start(ctx, "Enricher.Enrich",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("enrichment.budget", e.budget.String())),
	)
	defer span.End()

	if e.cache != nil {
		if rec, ok := e.cache.Get(ctx, text); ok {
			span.SetAttributes(attribute.Bool("enrichment.cache_hit", true))
			return rec, true
		}
	}

	start := time.Now()
	rec, ok := e.orchestrator.EnrichWithin(ctx, text, e.budget)
	if !ok {
		span.SetStatus(codes.Error, "enrichment timed out")
		e.logger.Warn("Enricher", "Enrichment timed out", map[string]interface{}{
			"budget":      e.budget.String(),
			"text_length": len(text),
		})
		return enrichment.Record{}, false
	}

	e.logger.Info("Enricher", "Enrichment completed", map[string]interface{}{
		"duration_ms":    time.Since(start).Milliseconds(),
		"summary_tier":   rec.Tiers.Summary,
		"keywords_tier":  rec.Tiers.Keywords,
		"sentiment_tier": rec.Tiers.Sentiment,
	})
	e.remember(ctx, text, rec)
	return rec, true
}

// Preview enriches without a budget. Used by the analysis endpoints, which do
// not persist anything.
func (e *Enricher) Preview(ctx context.Context, text string) enrichment.Record {
	if e.cache != nil {
		if rec, ok := e.cache.Get(ctx, text); ok {
			return rec
		}
	}
	rec := e.orchestrator.Enrich(ctx, text)
	e.remember(ctx, text, rec)
	return rec
}

// remember caches rec unless a configured model failed while producing it, so
// the next call for the same text consults the model again.
func (e *Enricher) remember(ctx context.Context, text string, rec enrichment.Record) {
	if e.cache == nil {
		return
	}
	if e.orchestrator.Degraded(rec) {
		e.logger.Debug("Enricher", "Skipping cache for degraded record", map[string]interface{}{
			"summary_tier":   rec.Tiers.Summary,
			"sentiment_tier": rec.Tiers.Sentiment,
		})
		return
	}
	e.cache.Set(ctx, text, rec)
}

func (e *Enricher) Summarize(ctx context.Context, text string, bounds enrichment.Bounds) (string, enrichment.Tier) {
	return e.orchestrator.Summarizer().Summarize(ctx, text, bounds)
}
