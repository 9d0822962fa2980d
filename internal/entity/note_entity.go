package entity

import (
	"strings"
	"time"

	"smart-notes-be/pkg/enrichment"

	"github.com/google/uuid"
)

// Markers that join attached media text onto the note body.
const (
	ImageTextMarker = "\n\n[Image Text]: "
	AudioTextMarker = "\n\n[Audio Transcription]: "
)

const DefaultCategory = "general"

type Note struct {
	Id          uuid.UUID
	Title       string
	Content     string
	Summary     string
	Keywords    []string
	Sentiment   string
	Statistics  enrichment.Statistics
	Category    string
	Tags        []string
	AiProcessed bool
	HasImage    bool
	HasAudio    bool
	ImageText   string
	AudioText   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// FullText is the content the enrichment pipeline sees: the body followed
// by any text extracted from attached media.
func (n *Note) FullText(body string) string {
	var sb strings.Builder
	sb.WriteString(body)
	if n.ImageText != "" {
		sb.WriteString(ImageTextMarker)
		sb.WriteString(n.ImageText)
	}
	if n.AudioText != "" {
		sb.WriteString(AudioTextMarker)
		sb.WriteString(n.AudioText)
	}
	return sb.String()
}

// ApplyEnrichment overwrites every enrichment field with rec.
func (n *Note) ApplyEnrichment(rec enrichment.Record) {
	n.Summary = rec.Summary
	n.Keywords = append([]string{}, rec.Keywords...)
	n.Sentiment = string(rec.Sentiment)
	n.Statistics = rec.Statistics
	n.AiProcessed = true
}

// MarkUnprocessed drops the derived fields so nothing computed from older
// content survives, and flags the note for reprocessing.
func (n *Note) MarkUnprocessed() {
	n.AiProcessed = false
	n.Summary = ""
	n.Keywords = []string{}
	n.Sentiment = string(enrichment.SentimentNeutral)
}
