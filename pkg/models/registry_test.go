package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/llm/factory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Ai: config.AIConfig{
			LLMProvider:         factory.ProviderNone,
			HFSummaryModel:      "sum",
			HFSentimentModel:    "sent",
			HFCaptionModel:      "cap",
			HFDocumentModel:     "doc",
			HFWhisperModel:      "whisper",
			HFSpeechModel:       "speech",
			OpenAIVisionModel:   "gpt-4o-mini",
			OllamaVisionModel:   "llava",
			WhisperModel:        "whisper-1",
			RemoteRatePerSecond: 100,
			RemoteBurst:         10,
		},
	}
}

func tiers(r *Registry) map[string]string {
	out := map[string]string{}
	for _, c := range r.Capabilities() {
		out[c.Name] = c.Tier
	}
	return out
}

func TestNewRegistry_NothingConfigured(t *testing.T) {
	r := NewRegistry(context.Background(), testConfig(), logger.NewNopLogger())
	defer r.Close()

	assert.Nil(t, r.Generator)
	assert.Nil(t, r.Classifier)
	assert.Nil(t, r.Captioner)
	assert.Nil(t, r.OCR)
	assert.Nil(t, r.Document)
	assert.Nil(t, r.Whisper)
	assert.Nil(t, r.Speech)

	assert.Equal(t, map[string]string{
		CapSummarizer:        TierFallback,
		CapSentiment:         TierFallback,
		CapCaption:           TierFallback,
		CapOCR:               TierFallback,
		CapDocument:          TierFallback,
		CapWhisper:           TierFallback,
		CapSpeechRecognition: TierFallback,
	}, tiers(r))

	sentiment, ok := r.Capability(CapSentiment)
	require.True(t, ok)
	require.Len(t, sentiment.Attempts, 3)
	assert.Equal(t, "onnx-cuda", sentiment.Attempts[0].Strategy)
	assert.Contains(t, sentiment.Attempts[0].Error, "not configured")
}

func TestNewRegistry_ONNXCudaDisabled(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.onnx")
	tok := filepath.Join(dir, "tokenizer.json")
	require.NoError(t, os.WriteFile(model, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(tok, []byte("x"), 0o600))

	cfg := testConfig()
	cfg.Onnx = config.OnnxConfig{SentimentModelPath: model, TokenizerPath: tok}
	r := NewRegistry(context.Background(), cfg, logger.NewNopLogger())
	defer r.Close()

	sentiment, ok := r.Capability(CapSentiment)
	require.True(t, ok)
	require.NotEmpty(t, sentiment.Attempts)
	assert.Equal(t, "onnx-cuda", sentiment.Attempts[0].Strategy)
	assert.Contains(t, sentiment.Attempts[0].Error, "ONNX_USE_CUDA disabled")
}

func TestNewRegistry_HuggingFace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sum":
			_, _ = w.Write([]byte(`[{"summary_text":"hosted summary"}]`))
		case "/sent":
			_, _ = w.Write([]byte(`[[{"label":"positive","score":0.9},{"label":"negative","score":0.1}]]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Keys.HuggingFace = "hf-key"
	cfg.Ai.HuggingFaceBaseURL = server.URL

	r := NewRegistry(context.Background(), cfg, nil)
	defer r.Close()

	assert.Equal(t, map[string]string{
		CapSummarizer:        "huggingface",
		CapSentiment:         "huggingface",
		CapCaption:           "huggingface",
		CapOCR:               TierFallback,
		CapDocument:          "huggingface",
		CapWhisper:           "huggingface",
		CapSpeechRecognition: "huggingface",
	}, tiers(r))

	out, err := r.Generator.Summarize(context.Background(), "some long text", 40, 10)
	require.NoError(t, err)
	assert.Equal(t, "hosted summary", out)

	pred, err := r.Classifier.Classify(context.Background(), "great day")
	require.NoError(t, err)
	assert.Equal(t, enrichment.Prediction{Label: "positive", Score: 0.9}, pred)
}

func TestNewRegistry_OpenAIAndOllama(t *testing.T) {
	cfg := testConfig()
	cfg.Keys.OpenAI = "sk-test"
	cfg.Ai.LLMProvider = factory.ProviderOllama
	cfg.Ai.LLMModel = "llama3"
	cfg.Ai.OllamaBaseURL = "http://127.0.0.1:1"

	r := NewRegistry(context.Background(), cfg, nil)
	defer r.Close()

	got := tiers(r)
	assert.Equal(t, "llm-ollama", got[CapSummarizer])
	assert.Equal(t, "vision", got[CapCaption])
	assert.Equal(t, "vision", got[CapOCR])
	assert.Equal(t, "openai", got[CapWhisper])
	assert.Equal(t, TierFallback, got[CapDocument])

	vr, ok := r.OCR.(*VisionReader)
	require.True(t, ok)
	assert.Equal(t, "llava", vr.model)
}

func TestRegistry_CloseIsIdempotent(t *testing.T) {
	r := NewRegistry(context.Background(), testConfig(), nil)
	calls := 0
	r.closers = append(r.closers, func() error { calls++; return nil })

	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
	assert.Equal(t, 1, calls)
}

func TestNewStaticRegistry(t *testing.T) {
	r := NewStaticRegistry(nil, nil)

	assert.Equal(t, map[string]string{CapSummarizer: TierFallback, CapSentiment: TierFallback}, tiers(r))
	assert.NoError(t, r.Close())
}
