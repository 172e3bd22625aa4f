package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/testutil"
)

func snapshotFixture() (*domain.Budget, domain.PriceDatabase) {
	item := testutil.NewTestItem("E01", "Formigó de neteja",
		testutil.WithUnit("m2"),
		testutil.WithPrice(12.5),
		testutil.WithMeasurement("Zona nord", 2, 5, 1, 1),
		testutil.WithIncrement("Minves", 10),
		testutil.WithBreakdown(
			domain.BreakdownLine{Code: "MO01", Description: "Oficial 1a", Unit: "h", Yield: 0.3, Price: 22},
			domain.BreakdownLine{Code: "%CI", Description: "Costos indirectes", Unit: "%", Yield: 3},
		))
	sub := testutil.NewTestChapter("CAP01.1", "Moviment de terres",
		testutil.WithItems(testutil.NewTestItem("E02", "Excavació")))
	root := testutil.NewTestChapter("CAP01", "Fonaments",
		testutil.WithSubChapters(sub),
		testutil.WithItems(item))

	prices := domain.PriceDatabase{
		"MO01": {Code: "MO01", Unit: "h", Summary: "Oficial 1a", Price: 22},
		"AUX01": {Code: "AUX01", Unit: "m3", Summary: "Morter auxiliar", Price: 80,
			Breakdown: []domain.BreakdownLine{
				{Code: "MT02", Description: "Ciment", Unit: "kg", Yield: 300, Price: 0.12},
			}},
	}
	return testutil.NewTestBudget("Obra nova", root), prices
}

func TestSnapshotRepo_SaveLoadRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	snapRepo := NewSQLiteSnapshotRepo(database)

	p := testutil.NewTestProject("Obra nova")
	require.NoError(t, projRepo.Create(ctx, p))

	budget, prices := snapshotFixture()
	require.NoError(t, snapRepo.Save(ctx, p.ID, budget, prices))

	gotBudget, gotPrices, err := snapRepo.Load(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, p.ID, gotBudget.ID)
	assert.Equal(t, "Obra nova", gotBudget.Name)
	require.Len(t, gotBudget.Chapters, 1)

	root := gotBudget.Chapters[0]
	assert.Equal(t, "CAP01", root.Code)
	require.Len(t, root.SubChapters, 1)
	require.Len(t, root.Items, 1)
	assert.Equal(t, "CAP01.1", root.SubChapters[0].Code)
	require.Len(t, root.SubChapters[0].Items, 1)

	item := root.Items[0]
	assert.Equal(t, budget.Chapters[0].Items[0], item)
	require.Len(t, item.Measurements, 3)
	assert.True(t, item.Measurements[2].IsIncrement)
	require.Len(t, item.Breakdown, 2)
	assert.Equal(t, "%CI", item.Breakdown[1].Code)

	assert.Equal(t, prices["MO01"], gotPrices["MO01"])
	require.Len(t, gotPrices["AUX01"].Breakdown, 1)
	assert.Equal(t, "MT02", gotPrices["AUX01"].Breakdown[0].Code)
}

func TestSnapshotRepo_SaveReplacesWholesale(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	snapRepo := NewSQLiteSnapshotRepo(database)

	p := testutil.NewTestProject("Obra")
	require.NoError(t, projRepo.Create(ctx, p))

	budget, prices := snapshotFixture()
	require.NoError(t, snapRepo.Save(ctx, p.ID, budget, prices))

	smaller := testutil.NewTestBudget("Obra retallada",
		testutil.NewTestChapter("CAP02", "Acabats"))
	require.NoError(t, snapRepo.Save(ctx, p.ID, smaller, domain.PriceDatabase{}))

	gotBudget, gotPrices, err := snapRepo.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obra retallada", gotBudget.Name)
	require.Len(t, gotBudget.Chapters, 1)
	assert.Equal(t, "CAP02", gotBudget.Chapters[0].Code)
	assert.Empty(t, gotPrices)

	var orphans int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM node_measurements`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestSnapshotRepo_SaveUnknownProject(t *testing.T) {
	snapRepo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))
	budget, prices := snapshotFixture()

	err := snapRepo.Save(context.Background(), "nonexistent", budget, prices)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRepo_SaveRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	require.NoError(t, projRepo.Create(ctx, testutil.NewTestProject("Obra")))
	p, err := projRepo.GetByName(ctx, "Obra")
	require.NoError(t, err)

	snapRepo := NewSQLiteSnapshotRepo(database)
	budget, prices := snapshotFixture()
	require.NoError(t, snapRepo.Save(ctx, p.ID, budget, prices))

	boom := errors.New("disc ple")
	failing := NewSQLiteSnapshotRepoWithUoW(database,
		&testutil.FailOnNthExecUoW{DB: database, FailOn: 6, Err: boom})

	smaller := testutil.NewTestBudget("Trencat", testutil.NewTestChapter("CAPX", "X"))
	err = failing.Save(ctx, p.ID, smaller, prices)
	require.ErrorIs(t, err, boom)

	// The earlier snapshot survives intact.
	gotBudget, _, err := snapRepo.Load(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Obra nova", gotBudget.Name)
	assert.Equal(t, "CAP01", gotBudget.Chapters[0].Code)
}

func TestSnapshotRepo_DeleteProjectCascades(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	snapRepo := NewSQLiteSnapshotRepo(database)

	p := testutil.NewTestProject("Obra")
	require.NoError(t, projRepo.Create(ctx, p))
	budget, prices := snapshotFixture()
	require.NoError(t, snapRepo.Save(ctx, p.ID, budget, prices))

	require.NoError(t, projRepo.Delete(ctx, p.ID))

	for _, table := range []string{"budget_nodes", "node_measurements", "breakdown_lines", "price_entries"} {
		var count int
		require.NoError(t, database.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Zero(t, count, table)
	}
}
