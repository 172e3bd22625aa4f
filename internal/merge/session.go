package merge

import (
	"errors"

	"github.com/martivergara/pressupost/internal/domain"
)

var (
	// ErrNotPending is returned by Resolve when no duplicate awaits a decision.
	ErrNotPending = errors.New("merge: no pending duplicate")
	// ErrPendingDecisions is returned by Finalize while duplicates remain.
	ErrPendingDecisions = errors.New("merge: unresolved duplicates remain")
)

// Decision answers a single duplicate-code conflict.
type Decision int

const (
	// DecisionRename keeps the incoming item under a suffixed unique code.
	DecisionRename Decision = iota
	// DecisionSkip drops the incoming item in favour of the existing one.
	DecisionSkip
)

// Duplicate identifies an incoming item whose normalized code already
// exists somewhere in the target budget.
type Duplicate struct {
	ID          string
	Code        string
	Description string
}

// Resolution reports what a single decision did.
type Resolution struct {
	// RenamedTo is the new code assigned by DecisionRename.
	RenamedTo string
	// ExistingPath holds the node ids from a top-level chapter down to the
	// kept existing item after DecisionSkip, so a caller can bring it into
	// view. Empty when the existing item is no longer present.
	ExistingPath []string
}

// Session steps an import with duplicate item codes through one decision at
// a time. It never blocks: a caller inspects Current, answers with Resolve,
// and calls Finalize once Pending reports false. Non-interactive callers
// can drive it in a plain loop.
type Session struct {
	existing   []*domain.Node
	incoming   []*domain.Node
	prices     domain.PriceDatabase
	duplicates []Duplicate
	cursor     int
}

// Begin scans the incoming tree for items whose normalized code already
// exists in the target chapters. The incoming nodes become owned by the
// session; the existing chapters are only read.
func Begin(existing, incoming []*domain.Node, prices domain.PriceDatabase) *Session {
	codes := map[string]bool{}
	domain.CollectCodes(existing, codes)

	s := &Session{existing: existing, incoming: incoming, prices: prices}
	s.findDuplicates(incoming, codes)
	return s
}

func (s *Session) findDuplicates(nodes []*domain.Node, codes map[string]bool) {
	for _, n := range nodes {
		if !n.IsChapter() && codes[domain.NormalizeCode(n.Code)] {
			s.duplicates = append(s.duplicates, Duplicate{ID: n.ID, Code: n.Code, Description: n.Description})
		}
		s.findDuplicates(n.SubChapters, codes)
		s.findDuplicates(n.Items, codes)
	}
}

// Pending reports whether a duplicate still awaits a decision.
func (s *Session) Pending() bool { return s.cursor < len(s.duplicates) }

// Current returns the duplicate awaiting a decision.
func (s *Session) Current() (Duplicate, bool) {
	if !s.Pending() {
		return Duplicate{}, false
	}
	return s.duplicates[s.cursor], true
}

// Duplicates returns the full ordered conflict list found at Begin.
func (s *Session) Duplicates() []Duplicate { return s.duplicates }

// Remaining counts duplicates not yet decided, the current one included.
func (s *Session) Remaining() int { return len(s.duplicates) - s.cursor }

// Resolve applies one decision to the current duplicate and advances the
// cursor.
func (s *Session) Resolve(d Decision) (Resolution, error) {
	cur, ok := s.Current()
	if !ok {
		return Resolution{}, ErrNotPending
	}

	var res Resolution
	switch d {
	case DecisionSkip:
		s.incoming = removeByID(s.incoming, cur.ID)
		if existing := findByCode(s.existing, domain.NormalizeCode(cur.Code)); existing != nil {
			res.ExistingPath = pathToID(s.existing, existing.ID)
		}
	default:
		codes := map[string]bool{}
		domain.CollectCodes(s.existing, codes)
		domain.CollectCodes(s.incoming, codes)
		newCode := GenerateUniqueCode(cur.Code, codes)
		if node := domain.FindByID(s.incoming, cur.ID); node != nil {
			node.Code = newCode
		}
		res.RenamedTo = newCode
	}
	s.cursor++
	return res, nil
}

// Finalize merges the resolved incoming tree into the existing chapters and
// unions the imported prices into the database, import values winning.
func (s *Session) Finalize(db domain.PriceDatabase) ([]*domain.Node, domain.PriceDatabase, error) {
	if s.Pending() {
		return nil, nil, ErrPendingDecisions
	}
	return MergeTreeBranches(s.existing, s.incoming), db.Union(s.prices), nil
}

func removeByID(nodes []*domain.Node, id string) []*domain.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		n.SubChapters = removeByID(n.SubChapters, id)
		n.Items = removeByID(n.Items, id)
		out = append(out, n)
	}
	return out
}

func findByCode(nodes []*domain.Node, norm string) *domain.Node {
	for _, n := range nodes {
		if domain.NormalizeCode(n.Code) == norm {
			return n
		}
		if found := findByCode(n.SubChapters, norm); found != nil {
			return found
		}
		if found := findByCode(n.Items, norm); found != nil {
			return found
		}
	}
	return nil
}

func pathToID(nodes []*domain.Node, id string) []string {
	for _, n := range nodes {
		if n.ID == id {
			return []string{n.ID}
		}
		for _, children := range [][]*domain.Node{n.SubChapters, n.Items} {
			if sub := pathToID(children, id); sub != nil {
				return append([]string{n.ID}, sub...)
			}
		}
	}
	return nil
}
