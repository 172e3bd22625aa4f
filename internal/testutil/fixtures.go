package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/martivergara/pressupost/internal/domain"
)

// NewTestProject returns a project record with fresh timestamps.
func NewTestProject(name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Chapter options
type ChapterOption func(*domain.Node)

func WithSubChapters(subs ...*domain.Node) ChapterOption {
	return func(n *domain.Node) {
		n.SubChapters = append(n.SubChapters, subs...)
	}
}

func WithItems(items ...*domain.Node) ChapterOption {
	return func(n *domain.Node) {
		n.Items = append(n.Items, items...)
	}
}

func WithChapterMeasurements(ms ...domain.Measurement) ChapterOption {
	return func(n *domain.Node) {
		n.Measurements = append(n.Measurements, ms...)
	}
}

// NewTestChapter returns a chapter node (no unit) with the given children.
func NewTestChapter(code, description string, opts ...ChapterOption) *domain.Node {
	n := &domain.Node{
		ID:          uuid.NewString(),
		Code:        code,
		Description: description,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Item options
type ItemOption func(*domain.Node)

func WithUnit(unit string) ItemOption {
	return func(n *domain.Node) {
		n.Unit = unit
	}
}

func WithPrice(price float64) ItemOption {
	return func(n *domain.Node) {
		n.Price = price
	}
}

func WithMeasurement(desc string, units, length, width, height float64) ItemOption {
	return func(n *domain.Node) {
		n.Measurements = append(n.Measurements, domain.Measurement{
			ID:          uuid.NewString(),
			Description: desc,
			Units:       units,
			Length:      length,
			Width:       width,
			Height:      height,
		})
	}
}

func WithIncrement(desc string, percent float64) ItemOption {
	return func(n *domain.Node) {
		n.Measurements = append(n.Measurements, domain.Measurement{
			ID:          uuid.NewString(),
			Description: desc,
			Units:       percent,
			IsIncrement: true,
		})
	}
}

func WithBreakdown(lines ...domain.BreakdownLine) ItemOption {
	return func(n *domain.Node) {
		n.Breakdown = append(n.Breakdown, lines...)
	}
}

// NewTestItem returns an item node with a unit and one base measurement.
func NewTestItem(code, description string, opts ...ItemOption) *domain.Node {
	n := &domain.Node{
		ID:          uuid.NewString(),
		Code:        code,
		Description: description,
		Unit:        "u",
		Price:       10,
		Measurements: []domain.Measurement{
			{ID: uuid.NewString(), Description: "Base", Units: 1, Length: 1, Width: 1, Height: 1},
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewTestBudget wraps chapters in a budget.
func NewTestBudget(name string, chapters ...*domain.Node) *domain.Budget {
	return &domain.Budget{ID: uuid.NewString(), Name: name, Chapters: chapters}
}
