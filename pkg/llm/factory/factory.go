package factory

import (
	"fmt"

	"smart-notes-be/pkg/llm"
	"smart-notes-be/pkg/llm/huggingface"
	"smart-notes-be/pkg/llm/ollama"
	"smart-notes-be/pkg/llm/openai"
)

const (
	ProviderOllama      = "ollama"
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderNone        = "none"
)

// ErrDisabled is returned for the "none" provider.
var ErrDisabled = fmt.Errorf("llm provider disabled")

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case ProviderOllama:
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case ProviderOpenAI:
		return openai.NewOpenAIProvider(apiKey, baseURL, modelName)
	case ProviderHuggingFace:
		if apiKey == "" {
			return nil, fmt.Errorf("huggingface provider requires an API key")
		}
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	case ProviderNone, "":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
