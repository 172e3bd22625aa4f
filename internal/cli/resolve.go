package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/repository"
	"github.com/martivergara/pressupost/internal/service"
)

// openWorkspace resolves a project reference and loads its budget and price
// database. The reference may be a full project ID, an exact name, or a
// unique ID prefix (the shortened form the list view prints).
func openWorkspace(ctx context.Context, app *App, ref string) (*domain.Project, service.Workspace, error) {
	p, ws, err := app.Projects.Open(ctx, ref)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return p, ws, err
	}

	// Fall back to ID-prefix matching.
	projects, listErr := app.Projects.List(ctx)
	if listErr != nil {
		return nil, service.Workspace{}, listErr
	}

	var matches []*domain.Project
	for _, cand := range projects {
		if strings.HasPrefix(cand.ID, ref) {
			matches = append(matches, cand)
		}
	}
	switch len(matches) {
	case 0:
		return nil, service.Workspace{}, fmt.Errorf("no project matches %q", ref)
	case 1:
		return app.Projects.Open(ctx, matches[0].ID)
	default:
		return nil, service.Workspace{}, fmt.Errorf("ambiguous project reference %q matches %d projects", ref, len(matches))
	}
}

// saveWorkspace persists the workspace back under its project. Every
// mutating command calls this on success.
func saveWorkspace(ctx context.Context, app *App, projectID string, ws service.Workspace) error {
	return app.Projects.Save(ctx, projectID, ws)
}
