package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/repository"
)

type projectService struct {
	instrumented
	projects  repository.ProjectRepo
	snapshots repository.SnapshotRepo
}

func NewProjectService(projects repository.ProjectRepo, snapshots repository.SnapshotRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{
		instrumented: instrumented{useCaseObserverOrNoop(observers)},
		projects:     projects,
		snapshots:    snapshots,
	}
}

func (s *projectService) Create(ctx context.Context, name string) (p *domain.Project, err error) {
	defer s.observe(ctx, "create-project", map[string]any{"name": name}, &err)()

	now := time.Now().UTC()
	p = &domain.Project{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err = s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	empty := &domain.Budget{ID: p.ID, Name: name}
	if err = s.snapshots.Save(ctx, p.ID, empty, domain.PriceDatabase{}); err != nil {
		return nil, err
	}
	return p, nil
}

// Open resolves ref first as a project id, then as a name.
func (s *projectService) Open(ctx context.Context, ref string) (p *domain.Project, ws Workspace, err error) {
	defer s.observe(ctx, "open-project", map[string]any{"ref": ref}, &err)()

	p, err = s.projects.GetByID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = s.projects.GetByName(ctx, ref)
	}
	if err != nil {
		return nil, Workspace{}, err
	}

	budget, prices, err := s.snapshots.Load(ctx, p.ID)
	if err != nil {
		return nil, Workspace{}, err
	}
	return p, Workspace{Budget: budget, Prices: prices}, nil
}

func (s *projectService) Save(ctx context.Context, projectID string, ws Workspace) (err error) {
	defer s.observe(ctx, "save-project", map[string]any{"project": projectID}, &err)()

	return s.snapshots.Save(ctx, projectID, ws.Budget, ws.Prices)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Rename(ctx context.Context, id, name string) (err error) {
	defer s.observe(ctx, "rename-project", map[string]any{"project": id}, &err)()

	return s.projects.Rename(ctx, id, name)
}

func (s *projectService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-project", map[string]any{"project": id}, &err)()

	return s.projects.Delete(ctx, id)
}
