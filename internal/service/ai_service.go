package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"smart-notes-be/internal/apperror"
	"smart-notes-be/internal/dto"
	"smart-notes-be/pkg/enrichment"
	"smart-notes-be/pkg/media"
	"smart-notes-be/pkg/models"
)

const (
	// MinAnalyzeLength is the shortest text the analysis endpoint accepts.
	MinAnalyzeLength = 50
	// MinAnalysisTextLength is the extracted media text length above which
	// the extraction endpoints also return an analysis.
	MinAnalysisTextLength = 10
)

type IAIService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error)
	Summarize(ctx context.Context, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error)
	ProcessImage(ctx context.Context, req *dto.ProcessImageRequest) (*dto.ProcessImageResponse, error)
	ProcessAudio(ctx context.Context, req *dto.ProcessAudioRequest) (*dto.ProcessAudioResponse, error)
	Capabilities() []dto.CapabilityResponse
}

type aiService struct {
	enricher     *Enricher
	imageAdapter *media.ImageAdapter
	audioAdapter *media.AudioAdapter
	registry     *models.Registry
}

func NewAIService(enricher *Enricher, imageAdapter *media.ImageAdapter, audioAdapter *media.AudioAdapter, registry *models.Registry) IAIService {
	return &aiService{
		enricher:     enricher,
		imageAdapter: imageAdapter,
		audioAdapter: audioAdapter,
		registry:     registry,
	}
}

func (s *aiService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) (*dto.AnalyzeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if utf8.RuneCountInString(text) < MinAnalyzeLength {
		return nil, apperror.InvalidInput("text must be at least %d characters", MinAnalyzeLength)
	}
	return &dto.AnalyzeResponse{Record: s.enricher.Preview(ctx, text)}, nil
}

func (s *aiService) Summarize(ctx context.Context, req *dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.InvalidInput("text is required")
	}
	if req.MaxLength > 0 && req.MinLength > req.MaxLength {
		return nil, apperror.InvalidInput("min_length cannot exceed max_length")
	}

	summary, tier := s.enricher.Summarize(ctx, text, enrichment.Bounds{
		MaxLength: req.MaxLength,
		MinLength: req.MinLength,
	})
	return &dto.SummarizeResponse{Summary: summary, Tier: tier}, nil
}

func (s *aiService) ProcessImage(ctx context.Context, req *dto.ProcessImageRequest) (*dto.ProcessImageResponse, error) {
	mode, err := media.ParseMode(req.Mode)
	if err != nil {
		return nil, apperror.InvalidInput("%s", err.Error())
	}

	result := s.imageAdapter.Extract(ctx, req.Image, mode)
	res := &dto.ProcessImageResponse{
		ExtractedText: result.Selected,
		Candidates:    result.Candidates,
		Error:         result.Error,
	}
	if !result.OK() {
		return res, nil
	}
	res.Analysis = s.analyzeExtracted(ctx, result.Selected)
	return res, nil
}

func (s *aiService) ProcessAudio(ctx context.Context, req *dto.ProcessAudioRequest) (*dto.ProcessAudioResponse, error) {
	result := s.audioAdapter.Extract(ctx, req.Audio, req.Language)
	res := &dto.ProcessAudioResponse{
		TranscribedText: result.Selected,
		Candidates:      result.Candidates,
		Error:           result.Error,
	}
	if !result.OK() {
		return res, nil
	}
	res.Analysis = s.analyzeExtracted(ctx, result.Selected)
	return res, nil
}

func (s *aiService) analyzeExtracted(ctx context.Context, text string) *enrichment.Record {
	if !media.Usable(text) || utf8.RuneCountInString(strings.TrimSpace(text)) <= MinAnalysisTextLength {
		return nil
	}
	rec := s.enricher.Preview(ctx, text)
	return &rec
}

func (s *aiService) Capabilities() []dto.CapabilityResponse {
	caps := s.registry.Capabilities()
	out := make([]dto.CapabilityResponse, 0, len(caps))
	for _, c := range caps {
		attempts := make([]dto.AttemptResponse, 0, len(c.Attempts))
		for _, a := range c.Attempts {
			attempts = append(attempts, dto.AttemptResponse{Strategy: a.Strategy, Error: a.Error})
		}
		out = append(out, dto.CapabilityResponse{
			Name:     c.Name,
			Tier:     c.Tier,
			Ready:    c.Ready,
			Attempts: attempts,
		})
	}
	return out
}
