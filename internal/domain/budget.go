package domain

// Budget is the root of a project: an ordered list of top-level chapters
// (or, occasionally, root-level items imported from flat BC3 files).
type Budget struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Chapters []*Node `json:"chapters"`
}

// Node is either a chapter or an item. A node is a chapter iff it has no
// unit; items are leaves carrying measurements and a cost breakdown.
type Node struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	FullDescription string          `json:"fullDescription,omitempty"`
	Unit            string          `json:"unit,omitempty"`
	Price           float64         `json:"price"` // fallback unit price; the price database wins when it has an entry
	Measurements    []Measurement   `json:"measurements,omitempty"`
	Breakdown       []BreakdownLine `json:"breakdown,omitempty"`
	SubChapters     []*Node         `json:"subChapters,omitempty"`
	Items           []*Node         `json:"items,omitempty"`
}

// Measurement is one line of an item's quantity takeoff. A zero dimension
// counts as 1 (partially entered rows must still total something sensible);
// zero units counts as 0. When IsIncrement is set, Units is a percentage
// applied to the subtotal of the item's non-increment measurements.
type Measurement struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Units       float64 `json:"units"`
	Length      float64 `json:"length"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	IsIncrement bool    `json:"isIncrement,omitempty"`
}

// BreakdownLine is one component of an item's cost decomposition.
// Yield is the quantity of the component consumed per unit of the item.
// Total is derived display data, never authoritative.
type BreakdownLine struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Unit        string  `json:"unit,omitempty"`
	Yield       float64 `json:"yield"`
	Price       float64 `json:"price"` // fallback; the price database wins when it has an entry
	Total       float64 `json:"total"`
}

// IsChapter reports whether the node groups other nodes rather than
// being a priced work item.
func (n *Node) IsChapter() bool {
	return n.Unit == ""
}

// Children returns subchapters followed by items, the display order the
// original interchange format implies.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.SubChapters)+len(n.Items))
	out = append(out, n.SubChapters...)
	out = append(out, n.Items...)
	return out
}

// HasDescendants reports whether deleting the node would discard nested
// content. Callers use it to decide when a destructive confirmation is due.
func (n *Node) HasDescendants() bool {
	return len(n.SubChapters) > 0 || len(n.Items) > 0
}

// CollectCodes adds the normalized code of every node in the forest to set.
func CollectCodes(nodes []*Node, set map[string]bool) {
	for _, n := range nodes {
		set[NormalizeCode(n.Code)] = true
		CollectCodes(n.SubChapters, set)
		CollectCodes(n.Items, set)
	}
}

// FindByID returns the first node in the forest with the given id, or nil.
func FindByID(nodes []*Node, id string) *Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := FindByID(n.SubChapters, id); found != nil {
			return found
		}
		if found := FindByID(n.Items, id); found != nil {
			return found
		}
	}
	return nil
}
