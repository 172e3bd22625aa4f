// Package pricing derives quantities, unit prices and totals from a budget
// tree and its price database. Everything here is a pure function over the
// inputs; arithmetic is tolerant (absent or zero-valued fields default to
// 0 for quantities and 1 for dimension multipliers) so partially entered
// data never fails a computation.
package pricing

import "github.com/martivergara/pressupost/internal/domain"

// dim treats an unset dimension as a multiplier of 1.
func dim(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// MeasureTotal computes one measurement line: units x length x width x height.
func MeasureTotal(m domain.Measurement) float64 {
	return Round2(m.Units * dim(m.Length) * dim(m.Width) * dim(m.Height))
}

// ItemQuantity sums the item's non-increment measurements, then applies
// each increment measurement as a percentage of that subtotal. An item
// with no measurements has quantity 0.
func ItemQuantity(item *domain.Node) float64 {
	if len(item.Measurements) == 0 {
		return 0
	}
	var subtotal float64
	for _, m := range item.Measurements {
		if !m.IsIncrement {
			subtotal += MeasureTotal(m)
		}
	}
	var increments float64
	for _, m := range item.Measurements {
		if m.IsIncrement {
			increments += subtotal * (m.Units / 100)
		}
	}
	return Round2(subtotal + increments)
}

// linePrice resolves a breakdown line's unit price: the price database
// entry for the line's normalized code wins, the line's own price is the
// fallback. A database entry with price 0 still wins.
func linePrice(db domain.PriceDatabase, line domain.BreakdownLine) float64 {
	if price, ok := db.Price(line.Code); ok {
		return price
	}
	return line.Price
}

// ItemUnitPrice resolves an item's unit price. Items with a breakdown are
// priced from their components: percent lines contribute their yield as a
// percentage of the base total of all non-percent lines. Items without a
// breakdown take the database price for their code, else their own price.
func ItemUnitPrice(db domain.PriceDatabase, item *domain.Node) float64 {
	if len(item.Breakdown) > 0 {
		var baseTotal float64
		for _, line := range item.Breakdown {
			if domain.ComponentCategory(line.Code) != domain.CategoryPercent {
				baseTotal = Round2(baseTotal + Round2(linePrice(db, line)*line.Yield))
			}
		}
		baseTotal = Round2(baseTotal)

		var total float64
		for _, line := range item.Breakdown {
			if domain.ComponentCategory(line.Code) == domain.CategoryPercent {
				total += Round2(baseTotal * (line.Yield / 100))
				continue
			}
			total += Round2(linePrice(db, line) * line.Yield)
		}
		return Round2(total)
	}
	if price, ok := db.Price(item.Code); ok {
		return price
	}
	return item.Price
}

// ItemAmount computes quantity x unit price. Simple items whose unit is
// literally "%" price themselves as a percentage of something else, so the
// product is divided by 100 — but only when there is no breakdown; a
// breakdown already resolves its percent semantics internally.
func ItemAmount(db domain.PriceDatabase, item *domain.Node) float64 {
	total := ItemQuantity(item) * ItemUnitPrice(db, item)
	if item.Unit == "%" && len(item.Breakdown) == 0 {
		total /= 100
	}
	return Round2(total)
}

// ChapterTotal folds a chapter: direct items plus subchapters, recursively.
func ChapterTotal(db domain.PriceDatabase, chapter *domain.Node) float64 {
	var total float64
	for _, item := range chapter.Items {
		total += ItemAmount(db, item)
	}
	for _, sub := range chapter.SubChapters {
		total += ChapterTotal(db, sub)
	}
	return total
}

// BudgetTotal is the PEM: the sum over all root chapters.
func BudgetTotal(db domain.PriceDatabase, b *domain.Budget) float64 {
	var total float64
	for _, ch := range b.Chapters {
		if ch.IsChapter() {
			total += ChapterTotal(db, ch)
			continue
		}
		total += ItemAmount(db, ch)
	}
	return total
}
