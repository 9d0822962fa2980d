package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// DefaultInferenceURL hosts task pipelines addressed as {base}/{model}.
const DefaultInferenceURL = "https://router.huggingface.co/hf-inference/models"

// ErrModelLoading is returned while the hosted model is still warming up.
var ErrModelLoading = errors.New("huggingface model is loading")

// InferenceClient calls task-specific pipelines (summarization,
// classification, image-to-text, speech recognition) on the Inference API.
type InferenceClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewInferenceClient(apiKey, baseURL string) *InferenceClient {
	if baseURL == "" {
		baseURL = DefaultInferenceURL
	}
	return &InferenceClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Label is one class score from a text-classification pipeline.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type textRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type apiError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// Summarize runs a summarization pipeline with length bounds in tokens.
func (c *InferenceClient) Summarize(ctx context.Context, model, text string, maxLength, minLength int) (string, error) {
	body, err := json.Marshal(textRequest{
		Inputs: text,
		Parameters: map[string]any{
			"max_length": maxLength,
			"min_length": minLength,
			"do_sample":  false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := c.post(ctx, model, "application/json", body, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty summarization response")
	}
	return out[0].SummaryText, nil
}

// Classify runs a text-classification pipeline and returns labels ordered
// by descending score.
func (c *InferenceClient) Classify(ctx context.Context, model, text string) ([]Label, error) {
	body, err := json.Marshal(textRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var raw json.RawMessage
	if err := c.post(ctx, model, "application/json", body, &raw); err != nil {
		return nil, err
	}

	// Single inputs come back either flat or nested one level.
	var nested [][]Label
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return sortLabels(nested[0]), nil
	}
	var flat []Label
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return sortLabels(flat), nil
}

// ImageToText sends raw image bytes to a captioning or OCR pipeline.
func (c *InferenceClient) ImageToText(ctx context.Context, model string, image []byte, mimeType string) (string, error) {
	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := c.post(ctx, model, mimeType, image, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty image-to-text response")
	}
	return out[0].GeneratedText, nil
}

// SpeechToText sends raw audio bytes to an automatic speech recognition
// pipeline.
func (c *InferenceClient) SpeechToText(ctx context.Context, model string, audio []byte, mimeType string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, model, mimeType, audio, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *InferenceClient) post(ctx context.Context, model, contentType string, payload []byte, out any) error {
	if model == "" {
		return fmt.Errorf("no model configured")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.Unmarshal(bodyBytes, &apiErr)
		if resp.StatusCode == http.StatusServiceUnavailable && apiErr.EstimatedTime > 0 {
			return fmt.Errorf("%w (%s, ~%.0fs)", ErrModelLoading, model, apiErr.EstimatedTime)
		}
		return fmt.Errorf("huggingface api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func sortLabels(labels []Label) []Label {
	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Score > labels[j].Score })
	return labels
}
