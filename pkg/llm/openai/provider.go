package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"smart-notes-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to the OpenAI API or any compatible server.
type OpenAIProvider struct {
	client             *goopenai.Client
	model              string
	transcriptionModel string
}

var (
	_ llm.LLMProvider           = &OpenAIProvider{}
	_ llm.VisionProvider        = &OpenAIProvider{}
	_ llm.TranscriptionProvider = &OpenAIProvider{}
)

func NewOpenAIProvider(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = goopenai.GPT4oMini
	}

	return &OpenAIProvider{
		client:             goopenai.NewClientWithConfig(config),
		model:              model,
		transcriptionModel: goopenai.Whisper1,
	}, nil
}

// WithTranscriptionModel overrides the speech model used by Transcribe.
func (p *OpenAIProvider) WithTranscriptionModel(model string) *OpenAIProvider {
	if model != "" {
		p.transcriptionModel = model
	}
	return p
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages[i] = goopenai.ChatCompletionMessage{Role: role, Content: msg.Content}
	}
	return p.complete(ctx, messages, llm.Apply(llm.Options{Temperature: 0.3}, opts...))
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: goopenai.ChatMessageRoleUser, Content: prompt}}, opts...)
}

// Describe sends the image as a data URL next to the prompt.
func (p *OpenAIProvider) Describe(ctx context.Context, image []byte, mimeType, prompt string, opts ...llm.Option) (string, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	msg := goopenai.ChatCompletionMessage{
		Role: goopenai.ChatMessageRoleUser,
		MultiContent: []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
			{Type: goopenai.ChatMessagePartTypeImageURL, ImageURL: &goopenai.ChatMessageImageURL{
				URL:    dataURL,
				Detail: goopenai.ImageURLDetailAuto,
			}},
		},
	}
	return p.complete(ctx, []goopenai.ChatCompletionMessage{msg}, llm.Apply(llm.Options{Temperature: 0}, opts...))
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio []byte, mimeType, language string) (string, error) {
	if language == "auto" {
		language = ""
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.transcriptionModel,
		FilePath: "audio" + extensionFor(mimeType),
		Reader:   bytes.NewReader(audio),
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI transcription error: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (p *OpenAIProvider) complete(ctx context.Context, messages []goopenai.ChatCompletionMessage, options llm.Options) (string, error) {
	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   options.MaxTokens,
		Temperature: float32(options.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// extensionFor picks the upload filename suffix the API uses to detect the
// audio container.
func extensionFor(mimeType string) string {
	switch mimeType {
	case "audio/wave", "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg", "application/ogg":
		return ".ogg"
	case "video/webm", "audio/webm":
		return ".webm"
	case "audio/mp4", "video/mp4":
		return ".m4a"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".wav"
}
