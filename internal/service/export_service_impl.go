package service

import (
	"context"
	"time"

	"github.com/martivergara/pressupost/internal/bc3"
	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/project"
)

type exportService struct {
	instrumented
	now func() time.Time
}

func NewExportService(observers ...UseCaseObserver) ExportService {
	return &exportService{
		instrumented: instrumented{useCaseObserverOrNoop(observers)},
		now:          time.Now,
	}
}

func (s *exportService) ExportBC3(ctx context.Context, ws Workspace) (out []byte, err error) {
	defer s.observe(ctx, "export-bc3", map[string]any{"chapters": len(ws.Budget.Chapters)}, &err)()

	return bc3.EncodeBytes(bc3.Encode(ws.Budget, ws.Prices)), nil
}

func (s *exportService) ExportProject(ctx context.Context, ws Workspace) (out []byte, err error) {
	defer s.observe(ctx, "export-project", nil, &err)()

	return project.Marshal(ws.Budget, ws.Prices, s.now())
}

func (s *exportService) ImportProjectFile(ctx context.Context, raw []byte) (ws Workspace, err error) {
	defer s.observe(ctx, "import-project-file", map[string]any{"bytes": len(raw)}, &err)()

	budget, prices, err := project.Unmarshal(raw)
	if err != nil {
		return Workspace{}, err
	}

	// The artifact carries the exporting project's node and measurement
	// ids. Adopt the tree with fresh ones so the load can be saved into
	// any project, including one sharing a database with its source.
	chapters := make([]*domain.Node, 0, len(budget.Chapters))
	for _, ch := range budget.Chapters {
		chapters = append(chapters, domain.DeepCloneNode(ch))
	}
	budget.Chapters = chapters

	return Workspace{Budget: budget, Prices: prices}, nil
}
