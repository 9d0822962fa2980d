package contract

import (
	"context"

	"smart-notes-be/internal/entity"
	"smart-notes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Categories lists distinct categories in alphabetical order.
	Categories(ctx context.Context) ([]string, error)
	// CountBy groups notes by one of the low-cardinality columns
	// (sentiment, category).
	CountBy(ctx context.Context, column string) (map[string]int64, error)
}
