package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/llm"
	"smart-notes-be/pkg/llm/factory"
	"smart-notes-be/pkg/llm/huggingface"
	"smart-notes-be/pkg/llm/openai"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/models/onnx"
)

// Capability names.
const (
	CapSummarizer        = "summarizer"
	CapSentiment         = "sentiment"
	CapCaption           = "caption"
	CapOCR               = "ocr"
	CapDocument          = "document"
	CapWhisper           = "whisper"
	CapSpeechRecognition = "speech_recognition"
)

// Registry holds the model handles chosen at startup. Nil handles mean the
// capability runs on its heuristic tier.
type Registry struct {
	Generator  enrichment.Generator
	Classifier enrichment.Classifier
	Captioner  media.ImageReader
	OCR        media.ImageReader
	Document   media.ImageReader
	Whisper    media.Transcriber
	Speech     media.Transcriber

	capabilities []Capability
	closers      []func() error
	closeOnce    sync.Once
	log          logger.ILogger
}

// NewStaticRegistry wraps handles built elsewhere, typically stubs in tests.
func NewStaticRegistry(gen enrichment.Generator, cls enrichment.Classifier) *Registry {
	r := &Registry{Generator: gen, Classifier: cls, log: logger.NewNopLogger()}
	r.capabilities = []Capability{
		staticCapability(CapSummarizer, gen != nil),
		staticCapability(CapSentiment, cls != nil),
	}
	return r
}

func staticCapability(name string, ready bool) Capability {
	c := Capability{Name: name, Tier: TierFallback, Attempts: []Attempt{}}
	if ready {
		c.Tier, c.Ready = "static", true
	}
	return c
}

var errNotConfigured = errors.New("not configured")

func requireKey(key, name string) error {
	if key == "" {
		return fmt.Errorf("%s %w", name, errNotConfigured)
	}
	return nil
}

// NewRegistry resolves every capability from configuration. It never fails;
// capabilities that cannot start are reported with TierFallback.
func NewRegistry(ctx context.Context, cfg *config.Config, log logger.ILogger) *Registry {
	if log == nil {
		log = logger.NewNopLogger()
	}
	r := &Registry{log: log}

	limiter := NewLimiter(cfg.Ai.RemoteRatePerSecond, cfg.Ai.RemoteBurst)
	hf := huggingface.NewInferenceClient(cfg.Keys.HuggingFace, cfg.Ai.HuggingFaceBaseURL)
	hfKey := func() error { return requireKey(cfg.Keys.HuggingFace, "HUGGINGFACE_API_KEY") }

	chat, chatErr := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, providerBaseURL(cfg), providerKey(cfg))
	oa := newOpenAI(cfg)
	vision, visionModel := visionProvider(cfg, chat, oa)

	var gen enrichment.Generator
	gen, c := Resolve(ctx, CapSummarizer, []Strategy[enrichment.Generator]{
		{Name: "huggingface", Init: func(context.Context) (enrichment.Generator, error) {
			if err := hfKey(); err != nil {
				return nil, err
			}
			return NewHFSummarizer(hf, cfg.Ai.HFSummaryModel, limiter), nil
		}},
		{Name: "llm-" + cfg.Ai.LLMProvider, Init: func(context.Context) (enrichment.Generator, error) {
			if chatErr != nil {
				return nil, chatErr
			}
			return NewLLMSummarizer(chat, limiter), nil
		}},
	}, log)
	r.Generator = gen
	r.capabilities = append(r.capabilities, c)

	acc := NewAccelerator()
	onnxCfg := onnx.Config{
		LibraryPath:   cfg.Onnx.LibraryPath,
		ModelPath:     cfg.Onnx.SentimentModelPath,
		TokenizerPath: cfg.Onnx.TokenizerPath,
	}
	loadONNX := func(device onnx.Device) func(context.Context) (enrichment.Classifier, error) {
		return func(context.Context) (enrichment.Classifier, error) {
			if err := onnxCfg.Check(); err != nil {
				return nil, err
			}
			if device == onnx.DeviceCUDA && !cfg.Onnx.UseCUDA {
				return nil, fmt.Errorf("ONNX_USE_CUDA disabled")
			}
			m, err := onnx.LoadSentimentModel(onnxCfg, device, acc)
			if err != nil {
				return nil, err
			}
			r.closers = append(r.closers, m.Close)
			return m, nil
		}
	}
	// Registered before any session so it runs after every session closer.
	r.closers = append(r.closers, onnx.Shutdown)
	var cls enrichment.Classifier
	cls, c = Resolve(ctx, CapSentiment, []Strategy[enrichment.Classifier]{
		{Name: "onnx-cuda", Init: loadONNX(onnx.DeviceCUDA)},
		{Name: "onnx-cpu", Init: loadONNX(onnx.DeviceCPU)},
		{Name: "huggingface", Init: func(context.Context) (enrichment.Classifier, error) {
			if err := hfKey(); err != nil {
				return nil, err
			}
			return NewHFClassifier(hf, cfg.Ai.HFSentimentModel, limiter), nil
		}},
	}, log)
	r.Classifier = cls
	r.capabilities = append(r.capabilities, c)

	visionInit := func(build func() media.ImageReader) func(context.Context) (media.ImageReader, error) {
		return func(context.Context) (media.ImageReader, error) {
			if vision == nil {
				return nil, fmt.Errorf("vision provider %w", errNotConfigured)
			}
			return build(), nil
		}
	}
	hfReader := func(model string) func(context.Context) (media.ImageReader, error) {
		return func(context.Context) (media.ImageReader, error) {
			if err := hfKey(); err != nil {
				return nil, err
			}
			return NewHFImageReader(hf, model, limiter), nil
		}
	}

	r.Captioner, c = Resolve(ctx, CapCaption, []Strategy[media.ImageReader]{
		{Name: "huggingface", Init: hfReader(cfg.Ai.HFCaptionModel)},
		{Name: "vision", Init: visionInit(func() media.ImageReader {
			return NewVisionCaptioner(vision, visionModel, limiter)
		})},
	}, log)
	r.capabilities = append(r.capabilities, c)

	r.OCR, c = Resolve(ctx, CapOCR, []Strategy[media.ImageReader]{
		{Name: "vision", Init: visionInit(func() media.ImageReader {
			return NewVisionOCR(vision, visionModel, limiter)
		})},
	}, log)
	r.capabilities = append(r.capabilities, c)

	r.Document, c = Resolve(ctx, CapDocument, []Strategy[media.ImageReader]{
		{Name: "huggingface", Init: hfReader(cfg.Ai.HFDocumentModel)},
	}, log)
	r.capabilities = append(r.capabilities, c)

	r.Whisper, c = Resolve(ctx, CapWhisper, []Strategy[media.Transcriber]{
		{Name: "openai", Init: func(context.Context) (media.Transcriber, error) {
			if oa == nil {
				return nil, requireKey("", "OPENAI_API_KEY")
			}
			return NewLLMTranscriber(oa, limiter), nil
		}},
		{Name: "huggingface", Init: func(context.Context) (media.Transcriber, error) {
			if err := hfKey(); err != nil {
				return nil, err
			}
			return NewHFTranscriber(hf, cfg.Ai.HFWhisperModel, limiter), nil
		}},
	}, log)
	r.capabilities = append(r.capabilities, c)

	r.Speech, c = Resolve(ctx, CapSpeechRecognition, []Strategy[media.Transcriber]{
		{Name: "huggingface", Init: func(context.Context) (media.Transcriber, error) {
			if err := hfKey(); err != nil {
				return nil, err
			}
			return NewHFTranscriber(hf, cfg.Ai.HFSpeechModel, limiter), nil
		}},
	}, log)
	r.capabilities = append(r.capabilities, c)

	return r
}

func providerBaseURL(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case factory.ProviderOllama:
		return cfg.Ai.OllamaBaseURL
	case factory.ProviderOpenAI:
		return cfg.Ai.OpenAIBaseURL
	default:
		return ""
	}
}

func providerKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case factory.ProviderOpenAI:
		return cfg.Keys.OpenAI
	case factory.ProviderHuggingFace:
		return cfg.Keys.HuggingFace
	default:
		return ""
	}
}

func newOpenAI(cfg *config.Config) *openai.OpenAIProvider {
	if cfg.Keys.OpenAI == "" {
		return nil
	}
	p, err := openai.NewOpenAIProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.OpenAIVisionModel)
	if err != nil {
		return nil
	}
	return p.WithTranscriptionModel(cfg.Ai.WhisperModel)
}

// visionProvider prefers the configured chat provider when it can see, then
// any OpenAI key.
func visionProvider(cfg *config.Config, chat llm.LLMProvider, oa *openai.OpenAIProvider) (llm.VisionProvider, string) {
	if v, ok := chat.(llm.VisionProvider); ok && chat != nil {
		if cfg.Ai.LLMProvider == factory.ProviderOllama {
			return v, cfg.Ai.OllamaVisionModel
		}
		return v, cfg.Ai.OpenAIVisionModel
	}
	if oa != nil {
		return oa, cfg.Ai.OpenAIVisionModel
	}
	return nil, ""
}

// Capabilities returns a copy of the per-capability resolution report.
func (r *Registry) Capabilities() []Capability {
	out := make([]Capability, len(r.capabilities))
	copy(out, r.capabilities)
	return out
}

// Capability looks up one capability by name.
func (r *Registry) Capability(name string) (Capability, bool) {
	for _, c := range r.capabilities {
		if c.Name == name {
			return c, true
		}
	}
	return Capability{}, false
}

// Close releases local model sessions in reverse order of creation. It is
// safe to call more than once.
func (r *Registry) Close() error {
	var errs []error
	r.closeOnce.Do(func() {
		for i := len(r.closers) - 1; i >= 0; i-- {
			if err := r.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		r.closers = nil
	})
	return errors.Join(errs...)
}
