// Package project reads and writes the standalone project artifact: a
// single JSON document bundling a budget tree with its price database.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/martivergara/pressupost/internal/domain"
)

// FormatVersion is stamped on every file this package writes.
const FormatVersion = "1.0"

// ErrInvalidFile marks a JSON document that parses but is not a project
// artifact (one of the two required keys is missing).
var ErrInvalidFile = errors.New("project: missing budget or priceDatabase")

// File is the on-disk artifact.
type File struct {
	Budget        *domain.Budget       `json:"budget"`
	PriceDatabase domain.PriceDatabase `json:"priceDatabase"`
	ExportDate    time.Time            `json:"exportDate"`
	Version       string               `json:"version"`
}

// Marshal renders the artifact as indented JSON.
func Marshal(b *domain.Budget, db domain.PriceDatabase, now time.Time) ([]byte, error) {
	f := File{Budget: b, PriceDatabase: db, ExportDate: now.UTC(), Version: FormatVersion}
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("project: marshal: %w", err)
	}
	return out, nil
}

// Unmarshal parses a project artifact. Both the budget and the price
// database must be present; a caller receiving ErrInvalidFile leaves its
// current state untouched.
func Unmarshal(data []byte) (*domain.Budget, domain.PriceDatabase, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("project: parse: %w", err)
	}
	if f.Budget == nil || f.PriceDatabase == nil {
		return nil, nil, ErrInvalidFile
	}
	return f.Budget, f.PriceDatabase, nil
}
