package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martivergara/pressupost/internal/domain"
)

func TestMarshalUnmarshal(t *testing.T) {
	b := &domain.Budget{
		ID:   uuid.NewString(),
		Name: "Reforma local",
		Chapters: []*domain.Node{{
			ID:   uuid.NewString(),
			Code: "CAP01",
			Items: []*domain.Node{{
				ID:    uuid.NewString(),
				Code:  "E01",
				Unit:  "m2",
				Price: 12.5,
				Measurements: []domain.Measurement{
					{ID: uuid.NewString(), Description: "Planta baixa", Units: 3, Length: 4},
					{ID: uuid.NewString(), Description: "Increment", Units: 10, IsIncrement: true},
				},
				Breakdown: []domain.BreakdownLine{
					{Code: "MO01", Unit: "h", Yield: 0.2, Price: 22},
				},
			}},
		}},
	}
	db := domain.PriceDatabase{"MO01": {Code: "MO01", Unit: "h", Summary: "Oficial 1a", Price: 22}}

	data, err := Marshal(b, db, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "1.0"`)
	assert.Contains(t, string(data), `"exportDate": "2026-03-14T10:00:00Z"`)
	assert.Contains(t, string(data), `"isIncrement": true`)

	gotBudget, gotDB, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, b, gotBudget)
	assert.Equal(t, db, gotDB)
}

func TestUnmarshal_MissingKeys(t *testing.T) {
	_, _, err := Unmarshal([]byte(`{"budget": {"id": "x", "name": "y", "chapters": []}}`))
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, _, err = Unmarshal([]byte(`{"priceDatabase": {}}`))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestUnmarshal_BadJSON(t *testing.T) {
	_, _, err := Unmarshal([]byte(`{`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFile)
}
