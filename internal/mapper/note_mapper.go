package mapper

import (
	"time"

	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Summary:     n.Summary,
		Keywords:    nonNil(n.Keywords),
		Sentiment:   n.Sentiment,
		Statistics:  n.Statistics.Data(),
		Category:    n.Category,
		Tags:        nonNil(n.Tags),
		AiProcessed: n.AiProcessed,
		HasImage:    n.HasImage,
		HasAudio:    n.HasAudio,
		ImageText:   n.ImageText,
		AudioText:   n.AudioText,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	category := n.Category
	if category == "" {
		category = entity.DefaultCategory
	}

	return &model.Note{
		Id:          n.Id,
		Title:       n.Title,
		Content:     n.Content,
		Summary:     n.Summary,
		Keywords:    datatypes.NewJSONSlice(nonNil(n.Keywords)),
		Sentiment:   n.Sentiment,
		Statistics:  datatypes.NewJSONType(n.Statistics),
		Category:    category,
		Tags:        datatypes.NewJSONSlice(nonNil(n.Tags)),
		AiProcessed: n.AiProcessed,
		HasImage:    n.HasImage,
		HasAudio:    n.HasAudio,
		ImageText:   n.ImageText,
		AudioText:   n.AudioText,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
