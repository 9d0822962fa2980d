package model

import (
	"time"

	"smart-notes-be/pkg/enrichment"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id          uuid.UUID                                 `gorm:"type:uuid;primaryKey"`
	Title       string                                    `gorm:"type:varchar(200);not null"`
	Content     string                                    `gorm:"type:text;not null"`
	Summary     string                                    `gorm:"type:text"`
	Keywords    datatypes.JSONSlice[string]               `gorm:"type:json"`
	Sentiment   string                                    `gorm:"type:varchar(20);index"`
	Statistics  datatypes.JSONType[enrichment.Statistics] `gorm:"type:json"`
	Category    string                                    `gorm:"type:varchar(50);default:general;index"`
	Tags        datatypes.JSONSlice[string]               `gorm:"type:json"`
	AiProcessed bool                                      `gorm:"default:false;index"`
	HasImage    bool                                      `gorm:"default:false"`
	HasAudio    bool                                      `gorm:"default:false"`
	ImageText   string                                    `gorm:"type:text"`
	AudioText   string                                    `gorm:"type:text"`
	CreatedAt   time.Time                                 `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                                 `gorm:"autoUpdateTime;index"`
	DeletedAt   gorm.DeletedAt                            `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.Id == uuid.Nil {
		n.Id = uuid.New()
	}
	return nil
}
