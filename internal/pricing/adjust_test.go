package pricing

import (
	"testing"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureBudget() (*domain.Budget, domain.PriceDatabase) {
	db := domain.PriceDatabase{
		"E01":  {Code: "E01", Price: 10, Unit: "m2"},
		"MO01": {Code: "MO01", Price: 20, Unit: "h"},
		"%CI":  {Code: "%CI", Price: 0, Unit: "%"},
	}
	b := &domain.Budget{
		ID:   "b1",
		Name: "Obra",
		Chapters: []*domain.Node{
			{
				ID: "c1", Code: "CAP01", Description: "Moviment de terres",
				Items: []*domain.Node{
					{
						ID: "i1", Code: "E01", Unit: "m2", Price: 10,
						Measurements: []domain.Measurement{{Units: 10, Length: 1, Width: 1, Height: 1}},
					},
					{
						ID: "i2", Code: "E02", Unit: "u", Price: 0,
						Measurements: []domain.Measurement{{Units: 1, Length: 1, Width: 1, Height: 1}},
						Breakdown: []domain.BreakdownLine{
							{Code: "MO01", Yield: 2, Price: 15},
							{Code: "%CI", Yield: 3},
						},
					},
				},
			},
		},
	}
	return b, db
}

func TestAdjustPEM_HitsTarget(t *testing.T) {
	b, db := fixtureBudget()
	current := BudgetTotal(db, b)
	require.Greater(t, current, 0.0)

	newB, newDB, factor := AdjustPEM(b, db, current*2)
	assert.InDelta(t, 2.0, factor, 1e-9)
	assert.InDelta(t, current*2, BudgetTotal(newDB, newB), 0.05)

	// Percent entries are never scaled.
	price, ok := newDB.Price("%CI")
	require.True(t, ok)
	assert.Equal(t, 0.0, price)

	// Inputs untouched: replacement is wholesale, never in place.
	assert.InDelta(t, current, BudgetTotal(db, b), 1e-9)
	assert.Equal(t, 10.0, b.Chapters[0].Items[0].Price)

	// Node identity survives the rebuild.
	assert.Equal(t, "i1", newB.Chapters[0].Items[0].ID)
}

func TestAdjustPEM_ZeroTargetIsNoop(t *testing.T) {
	b, db := fixtureBudget()
	newB, newDB, factor := AdjustPEM(b, db, 0)
	assert.Equal(t, 1.0, factor)
	assert.Equal(t, b, newB)
	assert.InDelta(t, BudgetTotal(db, b), BudgetTotal(newDB, newB), 1e-9)
}

func TestUpdateGlobalPrice_SimpleItem(t *testing.T) {
	b, db := fixtureBudget()
	newB, newDB := UpdateGlobalPrice(b, db, "E01", 25)

	price, ok := newDB.Price("E01")
	require.True(t, ok)
	assert.Equal(t, 25.0, price)
	assert.Equal(t, 25.0, newB.Chapters[0].Items[0].Price)

	// The old pair is untouched.
	oldPrice, _ := db.Price("E01")
	assert.Equal(t, 10.0, oldPrice)
	assert.Equal(t, 10.0, b.Chapters[0].Items[0].Price)
}

func TestUpdateGlobalPrice_PropagatesIntoComposites(t *testing.T) {
	b, db := fixtureBudget()
	newB, newDB := UpdateGlobalPrice(b, db, "MO01", 30)

	composite := newB.Chapters[0].Items[1]
	require.Len(t, composite.Breakdown, 2)
	assert.Equal(t, 30.0, composite.Breakdown[0].Price)
	// Fallback price recalculated from components: 2 x 30 (percent line
	// carries price 0 in the database).
	assert.InDelta(t, 60.0, composite.Price, 1e-9)

	// The engine sees the new component price immediately.
	assert.InDelta(t, 61.8, ItemUnitPrice(newDB, composite), 1e-9)
}

// Imported simple items carry a synthetic "pa"-prefixed self-line; a
// global price edit must follow into it or the engine keeps resolving the
// breakdown to the old price.
func TestUpdateGlobalPrice_FollowsSyntheticSelfLine(t *testing.T) {
	db := domain.PriceDatabase{"E01": {Code: "E01", Price: 12.5, Unit: "m3"}}
	b := &domain.Budget{
		ID: "b1", Name: "Obra",
		Chapters: []*domain.Node{
			{
				ID: "c1", Code: "CAP01",
				Items: []*domain.Node{
					{
						ID: "i1", Code: "E01", Unit: "m3", Price: 12.5,
						Measurements: []domain.Measurement{{Units: 10, Length: 1, Width: 1, Height: 1}},
						Breakdown: []domain.BreakdownLine{
							{Code: "paE01", Description: "Excavació", Unit: "m3", Yield: 1, Price: 12.5, Total: 12.5},
						},
					},
				},
			},
		},
	}

	newB, newDB := UpdateGlobalPrice(b, db, "E01", 20)

	item := newB.Chapters[0].Items[0]
	assert.Equal(t, 20.0, item.Price)
	require.Len(t, item.Breakdown, 1)
	assert.Equal(t, 20.0, item.Breakdown[0].Price)
	assert.InDelta(t, 20.0, ItemUnitPrice(newDB, item), 1e-9)
	assert.InDelta(t, 200.0, BudgetTotal(newDB, newB), 1e-9)
}

func TestFlatten_NumberingAndHoisting(t *testing.T) {
	db := domain.PriceDatabase{}
	b := &domain.Budget{
		Chapters: []*domain.Node{
			{
				Code: "CAP01", Description: "U",
				SubChapters: []*domain.Node{
					{
						Code: "CAP01.1", Description: "U.1",
						Items: []*domain.Node{{Code: "E01", Unit: "u", Price: 1,
							Measurements: []domain.Measurement{{Units: 1}}}},
					},
				},
				Items: []*domain.Node{{Code: "E02", Unit: "u", Price: 2,
					Measurements: []domain.Measurement{{Units: 1}}}},
			},
			{Code: "CAP02", Description: "D"},
		},
	}

	rows := Flatten(db, b, FlattenOptions{})
	var refs []string
	for _, r := range rows {
		if r.Kind == RowChapter || r.Kind == RowItem {
			refs = append(refs, r.Ref)
		}
	}
	// CAP01=1, CAP01.1=1.1, E01=1.1.1, E02=1.2, CAP02=2
	assert.Equal(t, []string{"1", "1.1", "1.1.1", "1.2", "2"}, refs)

	// With one visible level, subchapters hoist their content into the
	// parent's numbering.
	rows = Flatten(db, b, FlattenOptions{MaxLevels: 1})
	refs = refs[:0]
	var kinds []RowKind
	for _, r := range rows {
		if r.Kind == RowChapter || r.Kind == RowItem {
			refs = append(refs, r.Ref)
			kinds = append(kinds, r.Kind)
		}
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, refs)
	assert.Equal(t, []RowKind{RowChapter, RowItem, RowItem, RowChapter}, kinds)
}
