package repository

import (
	"context"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
)

// BugFilter narrows a listing query. Empty fields are ignored; set fields are
// combined with AND. Exact matches only.
type BugFilter struct {
	Status     string
	Priority   string
	AssignedTo string
}

// BugRepository defines the interface for bug-related database operations.
// Query returns the full matching set ordered by created_at descending,
// insertion order breaking ties. No pagination.
type BugRepository interface {
	Create(ctx context.Context, b *entity.Bug) error
	GetByID(ctx context.Context, id string) (*entity.Bug, error)
	Query(ctx context.Context, f BugFilter) ([]*entity.Bug, error)
	Update(ctx context.Context, b *entity.Bug) error
	Delete(ctx context.Context, id string) error
}
