package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/pricing"
	"github.com/martivergara/pressupost/internal/resources"
	"github.com/martivergara/pressupost/internal/service"
)

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(&service.BudgetSummary{
		Total: 1234.56,
		Chapters: []service.ChapterSummary{
			{Code: "CAP01", Description: "Moviment de terres", Total: 1000, Percent: 81.0},
			{Code: "CAP02", Description: "Fonaments", Total: 234.56, Percent: 19.0},
		},
	})

	assert.Contains(t, out, "CAP01")
	assert.Contains(t, out, "MOVIMENT DE TERRES")
	assert.Contains(t, out, "1.000,00 €")
	assert.Contains(t, out, "PEM: 1.234,56 €")
	assert.Contains(t, out, "MIL DOS-CENTS TRENTA-QUATRE EUROS AMB CINQUANTA-SIS CÈNTIMS")
}

func TestFormatRows(t *testing.T) {
	out := FormatRows([]pricing.Row{
		{Kind: pricing.RowChapter, Level: 0, Ref: "1", Code: "CAP01", Description: "Estructura"},
		{Kind: pricing.RowItem, Level: 1, Ref: "1.1", Code: "E01", Description: "Formigó HA-25", Unit: "m3", Quantity: 10, UnitPrice: 85.5, Amount: 855},
		{Kind: pricing.RowMeasurement, Level: 1, Description: "Sabata S1", Quantity: 10},
		{Kind: pricing.RowChapterTotal, Level: 0, Code: "CAP01", Amount: 855},
	})

	assert.Contains(t, out, "ESTRUCTURA")
	assert.Contains(t, out, "Formigó HA-25")
	assert.Contains(t, out, "10,000")
	assert.Contains(t, out, "855,00 €")
	assert.Contains(t, out, "Sabata S1")
	assert.Contains(t, out, "Total CAP01")
}

func TestFormatProjectList(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	out := FormatProjectList([]*domain.Project{
		{ID: "0b7f2c11-2222-3333-4444-555566667777", Name: "Reforma local", UpdatedAt: ts},
	})

	assert.Contains(t, out, "0b7f2c11")
	assert.NotContains(t, out, "0b7f2c11-2222")
	assert.Contains(t, out, "Reforma local")
	assert.Contains(t, out, "2026-03-01 10:30")
}

func TestFormatResources(t *testing.T) {
	out := FormatResources(&resources.Bill{
		Labor: []resources.Resource{
			{Code: "MO01", Description: "Oficial 1a", Unit: "h", Price: 22, Quantity: 4, Amount: 88},
		},
	})
	assert.Contains(t, out, "MÀ D'OBRA")
	assert.Contains(t, out, "Oficial 1a")
	assert.Contains(t, out, "88,00 €")

	empty := FormatResources(&resources.Bill{})
	assert.True(t, strings.Contains(empty, "No resources"))
}
