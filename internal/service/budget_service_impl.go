package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/pricing"
	"github.com/martivergara/pressupost/internal/resources"
)

var (
	// ErrNodeNotFound marks edits addressed at an id absent from the tree.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidParent marks node creation under a non-chapter parent.
	ErrInvalidParent = errors.New("parent must be a chapter")
)

type budgetService struct {
	instrumented
}

func NewBudgetService(observers ...UseCaseObserver) BudgetService {
	return &budgetService{instrumented{useCaseObserverOrNoop(observers)}}
}

func (s *budgetService) Summary(ctx context.Context, ws Workspace) (*BudgetSummary, error) {
	total := pricing.BudgetTotal(ws.Prices, ws.Budget)
	out := &BudgetSummary{Total: total}
	for _, ch := range ws.Budget.Chapters {
		chTotal := pricing.ChapterTotal(ws.Prices, ch)
		row := ChapterSummary{Code: ch.Code, Description: ch.Description, Total: chTotal}
		if total != 0 {
			row.Percent = chTotal / total * 100
		}
		out.Chapters = append(out.Chapters, row)
	}
	return out, nil
}

func (s *budgetService) Resources(ctx context.Context, ws Workspace) (*resources.Bill, error) {
	bill := resources.Aggregate(ws.Prices, ws.Budget)
	return &bill, nil
}

func (s *budgetService) Flatten(ctx context.Context, ws Workspace, opts pricing.FlattenOptions) ([]pricing.Row, error) {
	return pricing.Flatten(ws.Prices, ws.Budget, opts), nil
}

func (s *budgetService) AdjustPEM(ctx context.Context, ws Workspace, target float64) (out Workspace, factor float64, err error) {
	defer s.observe(ctx, "adjust-pem", map[string]any{"target": target}, &err)()

	if target < 0 {
		return ws, 0, fmt.Errorf("target must be positive, got %v", target)
	}
	budget, prices, factor := pricing.AdjustPEM(ws.Budget, ws.Prices, target)
	return Workspace{Budget: budget, Prices: prices}, factor, nil
}

func (s *budgetService) SetPrice(ctx context.Context, ws Workspace, code string, price float64) (out Workspace, err error) {
	defer s.observe(ctx, "set-price", map[string]any{"code": code}, &err)()

	budget, prices := pricing.UpdateGlobalPrice(ws.Budget, ws.Prices, code, price)
	return Workspace{Budget: budget, Prices: prices}, nil
}

func (s *budgetService) CreateNode(ctx context.Context, ws Workspace, parentID string, draft NodeDraft) (out Workspace, node *domain.Node, err error) {
	defer s.observe(ctx, "create-node", map[string]any{"code": draft.Code}, &err)()

	node = &domain.Node{
		ID:          uuid.NewString(),
		Code:        draft.Code,
		Description: draft.Description,
		Unit:        draft.Unit,
		Price:       draft.Price,
	}
	if !node.IsChapter() {
		node.Measurements = []domain.Measurement{
			{ID: uuid.NewString(), Description: "Base", Units: 1, Length: 1, Width: 1, Height: 1},
		}
	}

	budget := domain.CloneBudget(ws.Budget)
	if parentID == "" {
		if !node.IsChapter() {
			return ws, nil, fmt.Errorf("item %s: %w", draft.Code, ErrInvalidParent)
		}
		budget.Chapters = append(budget.Chapters, node)
		return Workspace{Budget: budget, Prices: ws.Prices}, node, nil
	}

	parent := domain.FindByID(budget.Chapters, parentID)
	if parent == nil {
		return ws, nil, fmt.Errorf("parent %s: %w", parentID, ErrNodeNotFound)
	}
	if !parent.IsChapter() {
		return ws, nil, fmt.Errorf("parent %s: %w", parent.Code, ErrInvalidParent)
	}
	if node.IsChapter() {
		parent.SubChapters = append(parent.SubChapters, node)
	} else {
		parent.Items = append(parent.Items, node)
	}
	return Workspace{Budget: budget, Prices: ws.Prices}, node, nil
}

func (s *budgetService) UpdateNode(ctx context.Context, ws Workspace, nodeID string, draft NodeDraft) (out Workspace, err error) {
	defer s.observe(ctx, "update-node", map[string]any{"node": nodeID}, &err)()

	budget := domain.CloneBudget(ws.Budget)
	node := domain.FindByID(budget.Chapters, nodeID)
	if node == nil {
		return ws, fmt.Errorf("node %s: %w", nodeID, ErrNodeNotFound)
	}
	node.Code = draft.Code
	node.Description = draft.Description
	node.Unit = draft.Unit
	node.Price = draft.Price
	return Workspace{Budget: budget, Prices: ws.Prices}, nil
}

func (s *budgetService) DeleteNode(ctx context.Context, ws Workspace, nodeID string) (out Workspace, err error) {
	defer s.observe(ctx, "delete-node", map[string]any{"node": nodeID}, &err)()

	if domain.FindByID(ws.Budget.Chapters, nodeID) == nil {
		return ws, fmt.Errorf("node %s: %w", nodeID, ErrNodeNotFound)
	}
	budget := domain.CloneBudget(ws.Budget)
	budget.Chapters = removeNodeByID(budget.Chapters, nodeID)
	return Workspace{Budget: budget, Prices: ws.Prices}, nil
}

func removeNodeByID(nodes []*domain.Node, id string) []*domain.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		n.SubChapters = removeNodeByID(n.SubChapters, id)
		n.Items = removeNodeByID(n.Items, id)
		out = append(out, n)
	}
	return out
}
