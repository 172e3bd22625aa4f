// Package merge combines an imported budget tree into an existing one,
// matching nodes by normalized code and resolving duplicate item codes
// through an explicit decision protocol.
package merge

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/martivergara/pressupost/internal/domain"
)

// MergeTreeBranches merges incoming nodes into existing ones by normalized
// code and returns a new slice; neither input is mutated. A matching node is
// merged recursively; for matching chapters the incoming measurements are
// appended (re-identified) rather than replacing. Matching items keep the
// existing measurements untouched: duplicate items are already resolved
// before the merge runs. Non-matching incoming nodes are deep-cloned and
// appended.
func MergeTreeBranches(existing, incoming []*domain.Node) []*domain.Node {
	merged := make([]*domain.Node, len(existing))
	copy(merged, existing)

	for _, in := range incoming {
		normIn := domain.NormalizeCode(in.Code)
		idx := -1
		for i, node := range merged {
			if domain.NormalizeCode(node.Code) == normIn {
				idx = i
				break
			}
		}
		if idx < 0 {
			merged = append(merged, domain.DeepCloneNode(in))
			continue
		}

		updated := *merged[idx]
		if len(in.SubChapters) > 0 {
			updated.SubChapters = MergeTreeBranches(merged[idx].SubChapters, in.SubChapters)
		}
		if len(in.Items) > 0 {
			updated.Items = MergeTreeBranches(merged[idx].Items, in.Items)
		}
		if in.IsChapter() && len(in.Measurements) > 0 {
			ms := make([]domain.Measurement, 0, len(merged[idx].Measurements)+len(in.Measurements))
			ms = append(ms, merged[idx].Measurements...)
			for _, m := range in.Measurements {
				m.ID = uuid.NewString()
				ms = append(ms, m)
			}
			updated.Measurements = ms
		}
		merged[idx] = &updated
	}
	return merged
}

// GenerateUniqueCode appends the smallest numeric suffix, starting at 1,
// that makes the normalized code unique against the given set.
func GenerateUniqueCode(baseCode string, existing map[string]bool) string {
	for suffix := 1; ; suffix++ {
		candidate := fmt.Sprintf("%s_%d", baseCode, suffix)
		if !existing[domain.NormalizeCode(candidate)] {
			return candidate
		}
	}
}
