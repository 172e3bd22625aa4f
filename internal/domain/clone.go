package domain

import "github.com/google/uuid"

// DeepCloneNode produces a fully independent copy of a node: fresh ids for
// the node and each measurement, recursively cloned children, copied
// breakdown lines. Adopting an imported node always goes through here so
// the result never aliases the source tree.
func DeepCloneNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	clone := &Node{
		ID:              uuid.New().String(),
		Code:            n.Code,
		Description:     n.Description,
		FullDescription: n.FullDescription,
		Unit:            n.Unit,
		Price:           n.Price,
	}
	if len(n.Measurements) > 0 {
		clone.Measurements = make([]Measurement, len(n.Measurements))
		for i, m := range n.Measurements {
			m.ID = uuid.New().String()
			clone.Measurements[i] = m
		}
	}
	if len(n.Breakdown) > 0 {
		clone.Breakdown = append([]BreakdownLine(nil), n.Breakdown...)
	}
	for _, sub := range n.SubChapters {
		if c := DeepCloneNode(sub); c != nil {
			clone.SubChapters = append(clone.SubChapters, c)
		}
	}
	for _, item := range n.Items {
		if c := DeepCloneNode(item); c != nil {
			clone.Items = append(clone.Items, c)
		}
	}
	return clone
}

// CloneBudget returns a structurally independent copy of the budget with
// every id preserved. Editing operations copy first and mutate the copy,
// so the caller's value is never changed under it.
func CloneBudget(b *Budget) *Budget {
	if b == nil {
		return nil
	}
	clone := &Budget{ID: b.ID, Name: b.Name}
	for _, ch := range b.Chapters {
		clone.Chapters = append(clone.Chapters, cloneNodeKeepID(ch))
	}
	return clone
}

func cloneNodeKeepID(n *Node) *Node {
	clone := *n
	if len(n.Measurements) > 0 {
		clone.Measurements = append([]Measurement(nil), n.Measurements...)
	}
	if len(n.Breakdown) > 0 {
		clone.Breakdown = append([]BreakdownLine(nil), n.Breakdown...)
	}
	clone.SubChapters = nil
	clone.Items = nil
	for _, sub := range n.SubChapters {
		clone.SubChapters = append(clone.SubChapters, cloneNodeKeepID(sub))
	}
	for _, item := range n.Items {
		clone.Items = append(clone.Items, cloneNodeKeepID(item))
	}
	return &clone
}
