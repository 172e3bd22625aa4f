package repository

import (
	"context"

	"github.com/martivergara/pressupost/internal/domain"
)

// ProjectRepo manages the catalogue of stored projects.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByName(ctx context.Context, name string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// SnapshotRepo persists a project's budget tree and price database as one
// unit. Saves replace the stored state wholesale inside a transaction,
// mirroring how the in-memory model treats both as immutable values.
type SnapshotRepo interface {
	Save(ctx context.Context, projectID string, b *domain.Budget, prices domain.PriceDatabase) error
	Load(ctx context.Context, projectID string) (*domain.Budget, domain.PriceDatabase, error)
}
