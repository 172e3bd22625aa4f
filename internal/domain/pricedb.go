package domain

// PriceEntry is the authoritative record for a resource: current price,
// unit, short summary and, for composite resources, its own breakdown.
// Code keeps the original (unnormalized) spelling for export fidelity.
type PriceEntry struct {
	Code      string          `json:"code"`
	Unit      string          `json:"unit,omitempty"`
	Summary   string          `json:"summary"`
	Price     float64         `json:"price"`
	Breakdown []BreakdownLine `json:"breakdown,omitempty"`
}

// PriceDatabase maps normalized codes to price entries. An item's own
// price and breakdown are fallbacks used only when the database has no
// entry for the item's normalized code.
type PriceDatabase map[string]PriceEntry

// Price returns the database price for a code, normalizing the key first.
func (db PriceDatabase) Price(code string) (float64, bool) {
	entry, ok := db[NormalizeCode(code)]
	if !ok {
		return 0, false
	}
	return entry.Price, true
}

// Breakdown returns the composite breakdown stored for a code, if any.
func (db PriceDatabase) Breakdown(code string) []BreakdownLine {
	return db[NormalizeCode(code)].Breakdown
}

// Clone returns an independent copy of the database, deep enough that
// mutating an entry's breakdown in the copy never touches the original.
func (db PriceDatabase) Clone() PriceDatabase {
	out := make(PriceDatabase, len(db))
	for code, entry := range db {
		if len(entry.Breakdown) > 0 {
			entry.Breakdown = append([]BreakdownLine(nil), entry.Breakdown...)
		}
		out[code] = entry
	}
	return out
}

// Union merges other into a copy of db. Entries from other win on key
// collision, matching import semantics where fresher data replaces stale.
func (db PriceDatabase) Union(other PriceDatabase) PriceDatabase {
	out := db.Clone()
	for code, entry := range other.Clone() {
		out[code] = entry
	}
	return out
}
