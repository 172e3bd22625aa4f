package merge

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martivergara/pressupost/internal/domain"
)

func chapter(code string, items ...*domain.Node) *domain.Node {
	return &domain.Node{ID: uuid.NewString(), Code: code, Description: "Capítol " + code, Items: items}
}

func item(code, desc string) *domain.Node {
	return &domain.Node{ID: uuid.NewString(), Code: code, Description: desc, Unit: "m2", Price: 10}
}

func TestMergeTreeBranches_AppendsNonMatching(t *testing.T) {
	existing := []*domain.Node{chapter("CAP01", item("E01", "Existent"))}
	incoming := []*domain.Node{chapter("CAP02", item("E02", "Nou"))}

	merged := MergeTreeBranches(existing, incoming)

	require.Len(t, merged, 2)
	assert.Same(t, existing[0], merged[0])
	// Appended branches are deep clones, never aliases of the input.
	assert.NotEqual(t, incoming[0].ID, merged[1].ID)
	assert.Equal(t, "CAP02", merged[1].Code)
	require.Len(t, merged[1].Items, 1)
	assert.NotEqual(t, incoming[0].Items[0].ID, merged[1].Items[0].ID)
}

func TestMergeTreeBranches_MatchesByNormalizedCode(t *testing.T) {
	existing := []*domain.Node{chapter("CAP01", item("E01", "Existent"))}
	incoming := []*domain.Node{chapter("CAP01#", item("E02", "Nou"))}

	merged := MergeTreeBranches(existing, incoming)

	require.Len(t, merged, 1)
	require.Len(t, merged[0].Items, 2)
	assert.Equal(t, "E01", merged[0].Items[0].Code)
	assert.Equal(t, "E02", merged[0].Items[1].Code)
	// The original trees are left untouched.
	assert.Len(t, existing[0].Items, 1)
	assert.Len(t, incoming[0].Items, 1)
}

func TestMergeTreeBranches_ChapterMeasurementsAppended(t *testing.T) {
	ex := chapter("CAP01")
	ex.Measurements = []domain.Measurement{{ID: uuid.NewString(), Description: "Fase 1", Units: 2}}
	in := chapter("CAP01")
	inMeasID := uuid.NewString()
	in.Measurements = []domain.Measurement{{ID: inMeasID, Description: "Fase 2", Units: 3}}

	merged := MergeTreeBranches([]*domain.Node{ex}, []*domain.Node{in})

	require.Len(t, merged, 1)
	require.Len(t, merged[0].Measurements, 2)
	assert.Equal(t, "Fase 1", merged[0].Measurements[0].Description)
	assert.Equal(t, "Fase 2", merged[0].Measurements[1].Description)
	assert.NotEqual(t, inMeasID, merged[0].Measurements[1].ID)
	assert.Len(t, ex.Measurements, 1)
}

func TestMergeTreeBranches_ItemMeasurementsNotMerged(t *testing.T) {
	exItem := item("E01", "Existent")
	exItem.Measurements = []domain.Measurement{{ID: uuid.NewString(), Description: "Original", Units: 5}}
	inItem := item("E01", "Importat")
	inItem.Measurements = []domain.Measurement{{ID: uuid.NewString(), Description: "Importada", Units: 9}}

	merged := MergeTreeBranches(
		[]*domain.Node{chapter("CAP01", exItem)},
		[]*domain.Node{chapter("CAP01", inItem)})

	got := merged[0].Items[0]
	require.Len(t, got.Measurements, 1)
	assert.Equal(t, "Original", got.Measurements[0].Description)
	assert.Equal(t, "Existent", got.Description)
}

func TestGenerateUniqueCode(t *testing.T) {
	assert.Equal(t, "E01_1", GenerateUniqueCode("E01", map[string]bool{}))
	assert.Equal(t, "E01_2", GenerateUniqueCode("E01", map[string]bool{"E01_1": true}))
	// Uniqueness is judged on the normalized form.
	assert.Equal(t, "E01#_2", GenerateUniqueCode("E01#", map[string]bool{"E01#_1": true}))
}

func TestSession_NoDuplicatesMergesImmediately(t *testing.T) {
	existing := []*domain.Node{chapter("CAP01", item("E01", "Existent"))}
	incoming := []*domain.Node{chapter("CAP02", item("E02", "Nou"))}
	db := domain.PriceDatabase{"E01": {Code: "E01", Price: 10}}
	imported := domain.PriceDatabase{"E01": {Code: "E01", Price: 99}, "E02": {Code: "E02", Price: 5}}

	s := Begin(existing, incoming, imported)
	assert.False(t, s.Pending())
	assert.Empty(t, s.Duplicates())

	chapters, prices, err := s.Finalize(db)
	require.NoError(t, err)
	assert.Len(t, chapters, 2)
	// Imported values win on key collisions.
	assert.InDelta(t, 99.0, prices["E01"].Price, 1e-9)
	assert.InDelta(t, 5.0, prices["E02"].Price, 1e-9)
	assert.InDelta(t, 10.0, db["E01"].Price, 1e-9)
}

func TestSession_RenameKeepsBothItems(t *testing.T) {
	existing := []*domain.Node{chapter("CAP01", item("E01", "Existent"))}
	incoming := []*domain.Node{chapter("CAP01", item("E01#", "Importat"))}

	s := Begin(existing, incoming, nil)
	require.True(t, s.Pending())
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "E01#", cur.Code)
	assert.Equal(t, 1, s.Remaining())

	res, err := s.Resolve(DecisionRename)
	require.NoError(t, err)
	assert.Equal(t, "E01#_1", res.RenamedTo)
	assert.False(t, s.Pending())

	chapters, _, err := s.Finalize(domain.PriceDatabase{})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	require.Len(t, chapters[0].Items, 2)
	assert.Equal(t, "E01", chapters[0].Items[0].Code)
	assert.Equal(t, "E01#_1", chapters[0].Items[1].Code)
}

func TestSession_RenameAvoidsEarlierRenames(t *testing.T) {
	existing := []*domain.Node{chapter("CAP01", item("E01", "Existent"))}
	incoming := []*domain.Node{chapter("CAP02", item("E01", "Primer"), item("E01", "Segon"))}

	s := Begin(existing, incoming, nil)
	require.Len(t, s.Duplicates(), 2)

	first, err := s.Resolve(DecisionRename)
	require.NoError(t, err)
	second, err := s.Resolve(DecisionRename)
	require.NoError(t, err)

	assert.Equal(t, "E01_1", first.RenamedTo)
	assert.Equal(t, "E01_2", second.RenamedTo)
}

func TestSession_SkipDropsItemAndReportsPath(t *testing.T) {
	exItem := item("E01", "Existent")
	exChapter := chapter("CAP01", exItem)
	incoming := []*domain.Node{chapter("CAP01", item("E01", "Importat"), item("E02", "Nou"))}

	s := Begin([]*domain.Node{exChapter}, incoming, nil)
	require.True(t, s.Pending())

	res, err := s.Resolve(DecisionSkip)
	require.NoError(t, err)
	assert.Equal(t, []string{exChapter.ID, exItem.ID}, res.ExistingPath)

	chapters, _, err := s.Finalize(domain.PriceDatabase{})
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	require.Len(t, chapters[0].Items, 2)
	assert.Equal(t, "Existent", chapters[0].Items[0].Description)
	assert.Equal(t, "E02", chapters[0].Items[1].Code)
}

func TestSession_GuardsAgainstMisuse(t *testing.T) {
	s := Begin(nil, []*domain.Node{chapter("CAP01")}, nil)

	_, err := s.Resolve(DecisionRename)
	assert.ErrorIs(t, err, ErrNotPending)

	pending := Begin(
		[]*domain.Node{chapter("CAP01", item("E01", "Existent"))},
		[]*domain.Node{chapter("CAP01", item("E01", "Importat"))}, nil)
	_, _, err = pending.Finalize(domain.PriceDatabase{})
	assert.ErrorIs(t, err, ErrPendingDecisions)
}
