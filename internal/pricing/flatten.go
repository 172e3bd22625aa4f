package pricing

import (
	"fmt"

	"github.com/martivergara/pressupost/internal/domain"
)

// RowKind tags one printable row of a flattened budget.
type RowKind string

const (
	RowChapter      RowKind = "chapter"
	RowChapterTotal RowKind = "chapter_total"
	RowItem         RowKind = "item"
	RowMeasurement  RowKind = "measurement"
)

// Row is one line of the printable budget listing.
type Row struct {
	Kind        RowKind
	Level       int
	Ref         string // correlative reference like "1.2.3"
	Code        string
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   float64
	Amount      float64
}

// FlattenOptions controls listing depth and detail.
type FlattenOptions struct {
	MaxLevels           int // chapter levels shown as headers; <=0 means all
	IncludeMeasurements bool
}

// Flatten turns the budget tree into printable rows. Numbering state is an
// explicit value threaded through the recursion and returned alongside the
// rows, so sibling chapters hidden by MaxLevels hoist their children into
// the parent's numbering without any shared counter cell.
func Flatten(db domain.PriceDatabase, b *domain.Budget, opts FlattenOptions) []Row {
	maxLevels := opts.MaxLevels
	if maxLevels <= 0 {
		maxLevels = int(^uint(0) >> 1)
	}
	rows, _ := flattenNodes(db, b.Chapters, opts, maxLevels, 0, "", 0)
	return rows
}

func flattenNodes(db domain.PriceDatabase, nodes []*domain.Node, opts FlattenOptions, maxLevels, level int, parentRef string, counter int) ([]Row, int) {
	var rows []Row
	for _, n := range nodes {
		isChapter := n.IsChapter()

		if isChapter && level >= maxLevels {
			// Hidden chapter: hoist its children to this level, continuing
			// the current numbering.
			var childRows []Row
			childRows, counter = flattenNodes(db, n.Children(), opts, maxLevels, level, parentRef, counter)
			rows = append(rows, childRows...)
			continue
		}

		counter++
		ref := fmt.Sprintf("%d", counter)
		if parentRef != "" {
			ref = fmt.Sprintf("%s.%d", parentRef, counter)
		}

		if isChapter {
			total := ChapterTotal(db, n)
			rows = append(rows, Row{
				Kind: RowChapter, Level: level, Ref: ref,
				Code: n.Code, Description: n.Description, Amount: total,
			})
			childRows, _ := flattenNodes(db, n.Children(), opts, maxLevels, level+1, ref, 0)
			rows = append(rows, childRows...)
			rows = append(rows, Row{
				Kind: RowChapterTotal, Level: level, Ref: ref,
				Code: n.Code, Description: n.Description, Amount: total,
			})
			continue
		}

		rows = append(rows, Row{
			Kind: RowItem, Level: level, Ref: ref,
			Code: n.Code, Description: n.Description, Unit: n.Unit,
			Quantity:  ItemQuantity(n),
			UnitPrice: ItemUnitPrice(db, n),
			Amount:    ItemAmount(db, n),
		})
		if opts.IncludeMeasurements {
			for _, m := range n.Measurements {
				rows = append(rows, Row{
					Kind: RowMeasurement, Level: level + 1,
					Description: m.Description,
					Quantity:    MeasureTotal(m),
				})
			}
		}
	}
	return rows, counter
}
