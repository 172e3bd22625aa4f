package service

import (
	"context"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/merge"
	"github.com/martivergara/pressupost/internal/pricing"
	"github.com/martivergara/pressupost/internal/resources"
)

// Workspace is the in-memory state every use case operates on: the budget
// tree plus its price database. Services treat it as an immutable value and
// return a replacement instead of mutating it.
type Workspace struct {
	Budget *domain.Budget
	Prices domain.PriceDatabase
}

// ChapterSummary is one row of the budget summary: a top-level chapter with
// its total and share of the overall budget.
type ChapterSummary struct {
	Code        string
	Description string
	Total       float64
	Percent     float64
}

// BudgetSummary aggregates the read-side totals the summary views need.
type BudgetSummary struct {
	Total    float64
	Chapters []ChapterSummary
}

// NodeDraft carries the editable fields for creating or updating a node.
type NodeDraft struct {
	Code        string
	Description string
	Unit        string // empty means chapter
	Price       float64
}

type BudgetService interface {
	Summary(ctx context.Context, ws Workspace) (*BudgetSummary, error)
	Resources(ctx context.Context, ws Workspace) (*resources.Bill, error)
	Flatten(ctx context.Context, ws Workspace, opts pricing.FlattenOptions) ([]pricing.Row, error)
	AdjustPEM(ctx context.Context, ws Workspace, target float64) (Workspace, float64, error)
	SetPrice(ctx context.Context, ws Workspace, code string, price float64) (Workspace, error)
	CreateNode(ctx context.Context, ws Workspace, parentID string, draft NodeDraft) (Workspace, *domain.Node, error)
	UpdateNode(ctx context.Context, ws Workspace, nodeID string, draft NodeDraft) (Workspace, error)
	DeleteNode(ctx context.Context, ws Workspace, nodeID string) (Workspace, error)
}

// ImportService decodes interchange data and reconciles it with the current
// workspace. Decoding hands back a merge.Session: when it reports pending
// duplicates the caller drives it with decisions before calling Finalize.
type ImportService interface {
	Start(ctx context.Context, ws Workspace, raw []byte) (*merge.Session, error)
	Finalize(ctx context.Context, ws Workspace, session *merge.Session) (Workspace, error)
}

type ExportService interface {
	ExportBC3(ctx context.Context, ws Workspace) ([]byte, error)
	ExportProject(ctx context.Context, ws Workspace) ([]byte, error)
	ImportProjectFile(ctx context.Context, raw []byte) (Workspace, error)
}

// ProjectService manages stored projects and their snapshots.
type ProjectService interface {
	Create(ctx context.Context, name string) (*domain.Project, error)
	Open(ctx context.Context, ref string) (*domain.Project, Workspace, error)
	Save(ctx context.Context, projectID string, ws Workspace) error
	List(ctx context.Context) ([]*domain.Project, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
