package pricing

import (
	"strings"

	"github.com/martivergara/pressupost/internal/domain"
)

// AdjustPEM scales every non-percent price in the budget and the price
// database by target/current so the budget total lands on target. Percent
// codes are left alone: their cost follows the base they apply to. Returns
// the new pair and the factor applied; when either total is zero the
// inputs are returned unchanged with factor 1.
func AdjustPEM(b *domain.Budget, db domain.PriceDatabase, target float64) (*domain.Budget, domain.PriceDatabase, float64) {
	current := BudgetTotal(db, b)
	if current == 0 || target == 0 {
		return b, db, 1
	}
	factor := target / current

	newDB := db.Clone()
	for code, entry := range newDB {
		if !strings.Contains(code, "%") {
			entry.Price *= factor
			newDB[code] = entry
		}
	}

	newBudget := &domain.Budget{ID: b.ID, Name: b.Name}
	for _, ch := range b.Chapters {
		newBudget.Chapters = append(newBudget.Chapters, scaleNode(ch, factor))
	}
	return newBudget, newDB, factor
}

// scaleNode copies a node with scaled prices, preserving identity: edits
// replace the tree wholesale but ids survive so selections stay valid.
func scaleNode(n *domain.Node, factor float64) *domain.Node {
	out := *n
	if !n.IsChapter() {
		out.Price = n.Price * factor
		if len(n.Breakdown) > 0 {
			out.Breakdown = make([]domain.BreakdownLine, len(n.Breakdown))
			for i, line := range n.Breakdown {
				if line.Code != "" && !strings.Contains(line.Code, "%") {
					line.Price *= factor
				}
				out.Breakdown[i] = line
			}
		}
		return &out
	}
	out.SubChapters = make([]*domain.Node, len(n.SubChapters))
	for i, sub := range n.SubChapters {
		out.SubChapters[i] = scaleNode(sub, factor)
	}
	out.Items = make([]*domain.Node, len(n.Items))
	for i, item := range n.Items {
		out.Items[i] = scaleNode(item, factor)
	}
	return &out
}

// UpdateGlobalPrice sets the price for a code in the database and rebuilds
// the tree against it: the matching item's fallback price is replaced, and
// every composite item referencing the code gets refreshed line prices and
// a recalculated fallback (sum of yield x resolved component price).
func UpdateGlobalPrice(b *domain.Budget, db domain.PriceDatabase, code string, price float64) (*domain.Budget, domain.PriceDatabase) {
	norm := domain.NormalizeCode(code)
	newDB := db.Clone()
	entry := newDB[norm]
	if entry.Code == "" {
		entry.Code = code
	}
	entry.Price = price
	newDB[norm] = entry

	newBudget := &domain.Budget{ID: b.ID, Name: b.Name}
	for _, ch := range b.Chapters {
		newBudget.Chapters = append(newBudget.Chapters, repriceNode(ch, newDB, norm, price))
	}
	return newBudget, newDB
}

func repriceNode(n *domain.Node, db domain.PriceDatabase, norm string, price float64) *domain.Node {
	out := *n
	if n.IsChapter() {
		out.SubChapters = make([]*domain.Node, len(n.SubChapters))
		for i, sub := range n.SubChapters {
			out.SubChapters[i] = repriceNode(sub, db, norm, price)
		}
		out.Items = make([]*domain.Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = repriceNode(item, db, norm, price)
		}
		return &out
	}

	if domain.NormalizeCode(n.Code) == norm {
		out.Price = price
		// Imported simple items carry a synthetic self-referential line
		// ("pa" + code). The edit follows into it, otherwise the breakdown
		// would keep resolving to the stale price.
		if len(n.Breakdown) > 0 {
			selfCode := "pa" + norm
			newBreakdown := make([]domain.BreakdownLine, len(n.Breakdown))
			for i, line := range n.Breakdown {
				if domain.NormalizeCode(line.Code) == selfCode {
					line.Price = price
					line.Total = line.Yield * price
				}
				newBreakdown[i] = line
			}
			out.Breakdown = newBreakdown
		}
		return &out
	}

	if len(n.Breakdown) == 0 {
		return &out
	}

	// A composite is refreshed when it references the edited code, or when
	// any of its components is known to the database at all: either way the
	// stored fallback price has gone stale.
	touched := false
	newBreakdown := make([]domain.BreakdownLine, len(n.Breakdown))
	var recalculated float64
	for i, line := range n.Breakdown {
		if p, ok := db.Price(line.Code); ok {
			line.Price = p
			touched = true
		}
		if domain.NormalizeCode(line.Code) == norm {
			line.Price = price
			touched = true
		}
		recalculated += line.Yield * line.Price
		newBreakdown[i] = line
	}
	if touched {
		out.Breakdown = newBreakdown
		out.Price = recalculated
	}
	return &out
}
