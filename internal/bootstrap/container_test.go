package bootstrap

import (
	"testing"

	"smart-notes-be/internal/config"
	"smart-notes-be/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestCacheSignature(t *testing.T) {
	cfg := &config.Config{Ai: config.AIConfig{MaxKeywords: 10, SentimentThreshold: 0.6, SummaryMaxLength: 150, SummaryMinLength: 30}}
	caps := []models.Capability{
		{Name: models.CapSentiment, Tier: models.TierFallback},
		{Name: models.CapSummarizer, Tier: "huggingface"},
	}

	base := cacheSignature(caps, cfg)
	assert.Equal(t, base, cacheSignature([]models.Capability{caps[1], caps[0]}, cfg), "order independent")
	assert.Contains(t, base, "summarizer=huggingface")

	upgraded := []models.Capability{caps[0], {Name: models.CapSummarizer, Tier: "llm-ollama"}}
	assert.NotEqual(t, base, cacheSignature(upgraded, cfg))

	tuned := *cfg
	tuned.Ai.MaxKeywords = 5
	assert.NotEqual(t, base, cacheSignature(caps, &tuned))
}
