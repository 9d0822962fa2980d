package dto

import (
	"time"

	"smart-notes-be/pkg/enrichment"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"omitempty,max=50"`
	Tags     []string `json:"tags"`
}

// UpdateNoteRequest is a partial update; nil fields are left untouched.
type UpdateNoteRequest struct {
	Id       uuid.UUID `json:"-"`
	Title    *string   `json:"title" validate:"omitempty,max=200"`
	Content  *string   `json:"content"`
	Category *string   `json:"category" validate:"omitempty,max=50"`
	Tags     []string  `json:"tags"`
}

type ListNotesQuery struct {
	Category  string `query:"category"`
	Sentiment string `query:"sentiment" validate:"omitempty,oneof=positive negative neutral"`
	Search    string `query:"search"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
}

type NoteResponse struct {
	Id          uuid.UUID             `json:"id"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	Summary     string                `json:"summary"`
	Keywords    []string              `json:"keywords"`
	Sentiment   string                `json:"sentiment"`
	Statistics  enrichment.Statistics `json:"statistics"`
	Category    string                `json:"category"`
	Tags        []string              `json:"tags"`
	AiProcessed bool                  `json:"ai_processed"`
	HasImage    bool                  `json:"has_image"`
	HasAudio    bool                  `json:"has_audio"`
	ImageText   string                `json:"image_text"`
	AudioText   string                `json:"audio_text"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   *time.Time            `json:"updated_at"`
}

type ListNotesResponse struct {
	Notes []*NoteResponse `json:"notes"`
	Count int             `json:"count"`
}

type AttachImageRequest struct {
	Image string `json:"image" validate:"required"`
	Mode  string `json:"mode" validate:"omitempty,oneof=auto caption ocr document"`
}

type AttachAudioRequest struct {
	Audio    string `json:"audio" validate:"required"`
	Language string `json:"language"`
}

// AttachMediaResponse returns the updated note with the extraction details.
type AttachMediaResponse struct {
	Note          *NoteResponse     `json:"note"`
	ExtractedText string            `json:"extracted_text"`
	Candidates    map[string]string `json:"candidates"`
}

type NoteStatsResponse struct {
	Total       int64            `json:"total"`
	AiProcessed int64            `json:"ai_processed"`
	Sentiments  map[string]int64 `json:"sentiments"`
	Categories  map[string]int64 `json:"categories"`
}

type ReprocessResponse struct {
	Id     uuid.UUID `json:"id"`
	Queued bool      `json:"queued"`
}

// ReprocessNoteMessage is the queue payload for background re-enrichment.
type ReprocessNoteMessage struct {
	NoteId uuid.UUID `json:"note_id"`
}
