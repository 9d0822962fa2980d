package dto

import "smart-notes-be/pkg/enrichment"

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

type AnalyzeResponse struct {
	enrichment.Record
}

type SummarizeRequest struct {
	Text      string `json:"text" validate:"required"`
	MaxLength int    `json:"max_length" validate:"omitempty,min=1,max=1024"`
	MinLength int    `json:"min_length" validate:"omitempty,min=1,max=1024"`
}

type SummarizeResponse struct {
	Summary string          `json:"summary"`
	Tier    enrichment.Tier `json:"tier"`
}

type ProcessImageRequest struct {
	Image string `json:"image" validate:"required"`
	Mode  string `json:"mode" validate:"omitempty,oneof=auto caption ocr document"`
}

type ProcessImageResponse struct {
	ExtractedText string             `json:"extracted_text"`
	Candidates    map[string]string  `json:"candidates"`
	Error         string             `json:"error,omitempty"`
	Analysis      *enrichment.Record `json:"analysis,omitempty"`
}

type ProcessAudioRequest struct {
	Audio    string `json:"audio" validate:"required"`
	Language string `json:"language"`
}

type ProcessAudioResponse struct {
	TranscribedText string             `json:"transcribed_text"`
	Candidates      map[string]string  `json:"candidates"`
	Error           string             `json:"error,omitempty"`
	Analysis        *enrichment.Record `json:"analysis,omitempty"`
}

type CapabilityResponse struct {
	Name     string            `json:"name"`
	Tier     string            `json:"tier"`
	Ready    bool              `json:"ready"`
	Attempts []AttemptResponse `json:"attempts"`
}

type AttemptResponse struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Services map[string]string `json:"services"`
}
