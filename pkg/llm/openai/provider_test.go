package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart-notes-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatResponse(content string) goopenai.ChatCompletionResponse {
	return goopenai.ChatCompletionResponse{
		ID:     "chatcmpl-123",
		Object: "chat.completion",
		Model:  "gpt-4o-mini",
		Choices: []goopenai.ChatCompletionChoice{{
			Index:        0,
			Message:      goopenai.ChatCompletionMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(chatResponse("  The summary.  "))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider("test-key", server.URL, "")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "Summarize", llm.WithMaxTokens(80))
	require.NoError(t, err)

	assert.Equal(t, "The summary.", out)
	assert.Equal(t, goopenai.GPT4oMini, got.Model)
	assert.Equal(t, 80, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Summarize", got.Messages[0].Content)
}

func TestOpenAIProvider_Describe(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(chatResponse("Quarterly roadmap"))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider("test-key", server.URL, "gpt-4o-mini")
	require.NoError(t, err)

	out, err := p.Describe(context.Background(), []byte("img"), "image/jpeg", "Read the text", llm.WithModel("gpt-4o"))
	require.NoError(t, err)
	assert.Equal(t, "Quarterly roadmap", out)
	assert.Equal(t, "gpt-4o", raw["model"])

	messages := raw["messages"].([]any)
	parts := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	imageURL := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "data:image/jpeg;base64,"))
}

func TestOpenAIProvider_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, goopenai.Whisper1, r.FormValue("model"))
		assert.Empty(t, r.FormValue("language"))

		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "audio.wav", header.Filename)

		_, _ = w.Write([]byte(`{"text":" call the dentist "}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider("test-key", server.URL, "")
	require.NoError(t, err)

	out, err := p.Transcribe(context.Background(), []byte("RIFF"), "audio/wave", "auto")
	require.NoError(t, err)
	assert.Equal(t, "call the dentist", out)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	_, err := NewOpenAIProvider("", "", "")
	assert.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider("bad", server.URL, "")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi")
	assert.Error(t, err)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".wav", extensionFor("audio/wave"))
	assert.Equal(t, ".mp3", extensionFor("audio/mpeg"))
	assert.Equal(t, ".webm", extensionFor("video/webm"))
	assert.Equal(t, ".wav", extensionFor("application/octet-stream"))
}
