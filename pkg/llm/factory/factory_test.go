package factory

import (
	"errors"
	"testing"

	"smart-notes-be/pkg/llm/huggingface"
	"smart-notes-be/pkg/llm/ollama"
	"smart-notes-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderOllama, "llama3.1", "", "")
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	p, err = NewLLMProvider(ProviderOpenAI, "", "", "sk-test")
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider(ProviderHuggingFace, "m", "", "hf")
	require.NoError(t, err)
	assert.IsType(t, &huggingface.HuggingFaceProvider{}, p)

	_, err = NewLLMProvider(ProviderOpenAI, "", "", "")
	assert.Error(t, err)

	_, err = NewLLMProvider(ProviderNone, "", "", "")
	assert.True(t, errors.Is(err, ErrDisabled))

	_, err = NewLLMProvider("gemini", "", "", "")
	assert.Error(t, err)
}
