package specification

import "gorm.io/gorm"

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

type BySentiment struct {
	Sentiment string
}

func (s BySentiment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sentiment = ?", s.Sentiment)
}

// AiProcessed filters on whether enrichment has run for the current content.
type AiProcessed struct {
	Processed bool
}

func (s AiProcessed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ai_processed = ?", s.Processed)
}
