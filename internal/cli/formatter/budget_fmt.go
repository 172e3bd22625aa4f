package formatter

import (
	"fmt"
	"strings"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/pricing"
	"github.com/martivergara/pressupost/internal/resources"
	"github.com/martivergara/pressupost/internal/service"
)

// FormatProjectList renders the stored projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			StyleDim.Render(shortID(p.ID)),
			p.Name,
			p.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return RenderTable(headers, rows, nil)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatSummary renders the chapter summary table plus the budget total and
// its verbal Catalan spelling.
func FormatSummary(s *service.BudgetSummary) string {
	headers := []string{"CODE", "CHAPTER", "AMOUNT", "%"}
	rows := make([][]string, 0, len(s.Chapters))
	for _, ch := range s.Chapters {
		rows = append(rows, []string{
			StyleBlue.Render(ch.Code),
			strings.ToUpper(ch.Description),
			FormatMoney(ch.Total),
			FormatNumber(ch.Percent, 2),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows, []Align{AlignLeft, AlignLeft, AlignRight, AlignRight}))
	b.WriteString("\n\n")
	b.WriteString(StyleBold.Render("PEM: " + FormatMoney(s.Total)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("El pressupost general ascendeix a la quantitat de "))
	b.WriteString(StyleFg.Render(NumberToTextCatalan(s.Total)))
	return b.String()
}

// FormatRows renders the flattened budget listing. Chapters come out as
// uppercase headers with their total; items carry unit, quantity, unit
// price and amount; measurement lines show the takeoff grid dimmed.
func FormatRows(rows []pricing.Row) string {
	var b strings.Builder
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Level)
		switch r.Kind {
		case pricing.RowChapter:
			b.WriteString(indent)
			b.WriteString(StyleHeader.Render(r.Ref + "  " + strings.ToUpper(r.Description)))
			b.WriteString("\n")
		case pricing.RowChapterTotal:
			b.WriteString(indent)
			b.WriteString(StyleBold.Render("Total " + r.Code + ": " + FormatMoney(r.Amount)))
			b.WriteString("\n")
		case pricing.RowItem:
			b.WriteString(indent)
			b.WriteString(fmt.Sprintf("%s  %s %s  %s\n",
				StyleBlue.Render(r.Ref),
				StyleDim.Render(r.Code),
				r.Description,
				StyleDim.Render(r.Unit)))
			b.WriteString(indent)
			b.WriteString(StyleDim.Render(fmt.Sprintf("      %s × %s = ",
				FormatQuantity(r.Quantity), FormatMoney(r.UnitPrice))))
			b.WriteString(StyleGreen.Render(FormatMoney(r.Amount)))
			b.WriteString("\n")
		case pricing.RowMeasurement:
			b.WriteString(indent)
			b.WriteString(StyleDim.Render("      · " + r.Description + "  " + FormatQuantity(r.Quantity)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatResources renders the bill of resources grouped by type.
func FormatResources(bill *resources.Bill) string {
	var b strings.Builder
	groups := []struct {
		title string
		list  []resources.Resource
	}{
		{"MÀ D'OBRA", bill.Labor},
		{"MATERIALS", bill.Material},
		{"MAQUINÀRIA", bill.Machinery},
		{"ALTRES", bill.Others},
	}

	first := true
	for _, g := range groups {
		if len(g.list) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n\n")
		}
		first = false

		b.WriteString(StyleHeader.Render(g.title))
		b.WriteString("\n")

		headers := []string{"CODE", "DESCRIPTION", "UT", "QUANTITY", "PRICE", "AMOUNT"}
		rows := make([][]string, 0, len(g.list))
		for _, r := range g.list {
			rows = append(rows, []string{
				StyleBlue.Render(r.Code),
				r.Description,
				r.Unit,
				FormatQuantity(r.Quantity),
				FormatMoney(r.Price),
				FormatMoney(r.Amount),
			})
		}
		aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight}
		b.WriteString(RenderTable(headers, rows, aligns))
	}

	if first {
		return StyleDim.Render("No resources: the budget has no cost breakdowns.")
	}
	return b.String()
}
