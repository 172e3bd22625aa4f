// Package resources flattens a whole budget into a consolidated bill of
// resources: every terminal cost driver (labor, material, machinery,
// other) with its accumulated quantity and amount across the tree.
package resources

import (
	"sort"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/pricing"
)

// Type buckets a resource for presentation.
type Type string

const (
	TypeMaterial  Type = "material"
	TypeLabor     Type = "labor"
	TypeMachinery Type = "machinery"
	TypeOthers    Type = "others"
)

// Resource is one consolidated line of the bill of resources.
type Resource struct {
	Code        string // original spelling, first one seen
	Description string
	Unit        string
	Price       float64
	Quantity    float64
	Amount      float64
	Type        Type
}

// Bill groups resources into the four presentation buckets, each sorted
// by normalized code.
type Bill struct {
	Material  []Resource
	Labor     []Resource
	Machinery []Resource
	Others    []Resource
}

// resourceType refines the component category: "mq" material is machinery.
func resourceType(code string) Type {
	switch domain.ComponentCategory(code) {
	case domain.CategoryMaterial:
		if domain.IsMachineryCode(code) {
			return TypeMachinery
		}
		return TypeMaterial
	case domain.CategoryLabor:
		return TypeLabor
	default:
		return TypeOthers
	}
}

type aggregator struct {
	db        domain.PriceDatabase
	resources map[string]*Resource
}

// Aggregate walks the budget and expands every item's breakdown
// recursively, multiplying yields down the path from the root. Composite
// resources (ones whose database entry has its own breakdown) are
// transparent: only true leaves accumulate. Percent lines accumulate a
// synthetic "others" resource representing auxiliary or indirect cost.
func Aggregate(db domain.PriceDatabase, b *domain.Budget) Bill {
	agg := &aggregator{db: db, resources: map[string]*Resource{}}
	agg.walk(b.Chapters)

	codes := make([]string, 0, len(agg.resources))
	for code := range agg.resources {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var bill Bill
	for _, code := range codes {
		r := agg.resources[code]
		// Pure percent resources accumulate amount without a unit price;
		// derive it from the totals.
		if r.Price == 0 && r.Quantity != 0 {
			r.Price = r.Amount / r.Quantity
		}
		switch r.Type {
		case TypeMaterial:
			bill.Material = append(bill.Material, *r)
		case TypeLabor:
			bill.Labor = append(bill.Labor, *r)
		case TypeMachinery:
			bill.Machinery = append(bill.Machinery, *r)
		default:
			bill.Others = append(bill.Others, *r)
		}
	}
	return bill
}

func (a *aggregator) walk(nodes []*domain.Node) {
	for _, n := range nodes {
		if n.IsChapter() {
			a.walk(n.SubChapters)
			a.walk(n.Items)
			continue
		}
		qty := pricing.ItemQuantity(n)
		if qty == 0 {
			continue
		}

		norm := domain.NormalizeCode(n.Code)
		entry, hasEntry := a.db[norm]
		breakdown := entry.Breakdown
		if len(breakdown) == 0 {
			breakdown = n.Breakdown
		}

		if len(breakdown) > 0 {
			a.processBreakdown(breakdown, qty)
			continue
		}

		// Simple item: the item itself is a terminal resource.
		price := n.Price
		if hasEntry && entry.Price != 0 {
			price = entry.Price
		}
		if price <= 0 {
			continue
		}
		a.accumulate(norm, Resource{
			Code:        n.Code,
			Description: domain.CoalesceStr(n.Description, entry.Summary, "Sense descripció"),
			Unit:        n.Unit,
			Price:       price,
			Quantity:    qty,
			Amount:      qty * price,
			Type:        resourceType(n.Code),
		})
	}
}

// processBreakdown expands one decomposition level. multiplier is the
// physical quantity of the parent unit consumed along the path from the
// budget root.
func (a *aggregator) processBreakdown(breakdown []domain.BreakdownLine, multiplier float64) {
	// Base of this level, for percent lines.
	var levelBase float64
	for _, line := range breakdown {
		if domain.ComponentCategory(line.Code) != domain.CategoryPercent {
			levelBase += a.lineUnitPrice(line) * line.Yield
		}
	}

	for _, line := range breakdown {
		norm := domain.NormalizeCode(line.Code)

		if domain.ComponentCategory(line.Code) == domain.CategoryPercent {
			a.accumulate(norm, Resource{
				Code:        line.Code,
				Description: domain.CoalesceStr(line.Description, "Despeses Auxiliars / Indirectes"),
				Unit:        "%",
				Price:       0, // derived after aggregation
				Quantity:    multiplier,
				Amount:      levelBase * (line.Yield / 100) * multiplier,
				Type:        TypeOthers,
			})
			continue
		}

		childQty := line.Yield * multiplier
		entry := a.db[norm]
		if len(entry.Breakdown) > 0 {
			// Composite component: transparent, recurse with the child
			// quantity as the new multiplier.
			a.processBreakdown(entry.Breakdown, childQty)
			continue
		}

		price := a.lineUnitPrice(line)
		a.accumulate(norm, Resource{
			Code:        line.Code,
			Description: domain.CoalesceStr(line.Description, entry.Summary, "Sense descripció"),
			Unit:        line.Unit,
			Price:       price,
			Quantity:    childQty,
			Amount:      childQty * price,
			Type:        resourceType(line.Code),
		})
	}
}

func (a *aggregator) lineUnitPrice(line domain.BreakdownLine) float64 {
	if price, ok := a.db.Price(line.Code); ok {
		return price
	}
	return line.Price
}

func (a *aggregator) accumulate(norm string, r Resource) {
	if existing, ok := a.resources[norm]; ok {
		existing.Quantity += r.Quantity
		existing.Amount += r.Amount
		return
	}
	a.resources[norm] = &r
}

