// Package bc3 reads and writes the FIEBDC-3 (BC3) text interchange format
// for construction cost databases: '~'-separated records, '|'-separated
// fields, '\'-separated sub-lists, comma decimal separators.
package bc3

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/martivergara/pressupost/internal/domain"
)

// ErrUnrecognizedFormat signals that decoding produced no usable chapters.
// The caller shows a message; nothing about it is fatal.
var ErrUnrecognizedFormat = errors.New("bc3: format not recognized")

// DecodeResult is a candidate tree plus the price knowledge carried by the
// file's concept records. The caller reconciles it into an existing budget.
type DecodeResult struct {
	Chapters []*domain.Node
	Prices   domain.PriceDatabase
}

type concept struct {
	originalCode string
	unit         string
	summary      string
	price        float64
}

type relation struct {
	child  string // normalized code
	factor float64
	yield  float64
}

type rawMeasurement struct {
	target      string // normalized code
	description string
	units       float64
	length      float64
	width       float64
	height      float64
}

type decoder struct {
	concepts     map[string]concept
	conceptOrder []string
	relations    map[string][]relation
	measurements []rawMeasurement
	longTexts    map[string]string
}

// Decode parses raw BC3 text and reconstructs the chapter/item tree.
// Malformed numeric tokens and missing fields are recovered by defaulting;
// only a file yielding zero usable chapters is rejected.
func Decode(text string) (*DecodeResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrUnrecognizedFormat
	}

	d := &decoder{
		concepts:  map[string]concept{},
		relations: map[string][]relation{},
		longTexts: map[string]string{},
	}
	for _, record := range strings.Split(text, "~") {
		record = strings.TrimSpace(record)
		if len(record) < 2 {
			continue
		}
		// record[0] is the type letter, record[1] the '|' marker.
		fields := strings.Split(record[2:], "|")
		switch record[0] {
		case 'C':
			d.readConcept(fields)
		case 'T':
			d.readLongText(fields)
		case 'D':
			d.readDecomposition(fields)
		case 'M':
			d.readMeasurement(fields)
		default:
			// V and K headers carry no tree data; R (waste) records are
			// ignored, the feature was removed.
		}
	}

	chapters := d.buildChapters()
	if len(chapters) == 0 {
		return nil, ErrUnrecognizedFormat
	}

	prices := make(domain.PriceDatabase, len(d.concepts))
	for norm, c := range d.concepts {
		prices[norm] = domain.PriceEntry{
			Code:    c.originalCode,
			Unit:    c.unit,
			Summary: c.summary,
			Price:   c.price,
		}
	}
	return &DecodeResult{Chapters: chapters, Prices: prices}, nil
}

// conceptKey is the map key for a concept code: its normalized form, or
// the raw spelling for all-'#' codes like the "##" project marker, whose
// normalized form would be empty.
func conceptKey(code string) string {
	code = strings.TrimSpace(code)
	if norm := domain.NormalizeCode(code); norm != "" {
		return norm
	}
	return code
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}

func (d *decoder) readConcept(fields []string) {
	codeRaw := strings.TrimSpace(strings.Split(field(fields, 0), `\`)[0])
	norm := conceptKey(codeRaw)
	if norm == "" {
		return
	}
	price := 0.0
	if raw := field(fields, 3); raw != "" {
		// Several price columns may be present; the first one rules.
		price = numOr(strings.Split(raw, `\`)[0], 0)
	}
	if _, seen := d.concepts[norm]; !seen {
		d.conceptOrder = append(d.conceptOrder, norm)
	}
	d.concepts[norm] = concept{
		originalCode: codeRaw,
		unit:         field(fields, 1),
		summary:      field(fields, 2),
		price:        price,
	}
}

func (d *decoder) readLongText(fields []string) {
	norm := conceptKey(field(fields, 0))
	if norm != "" {
		d.longTexts[norm] = field(fields, 1)
	}
}

func (d *decoder) readDecomposition(fields []string) {
	parent := conceptKey(field(fields, 0))
	rawChildren := field(fields, 1)
	if rawChildren == "" {
		rawChildren = field(fields, 2)
	}
	if parent == "" || rawChildren == "" {
		return
	}
	parts := strings.Split(rawChildren, `\`)
	var children []relation
	for i := 0; i < len(parts); i += 3 {
		child := domain.NormalizeCode(parts[i])
		if child == "" {
			continue
		}
		factor, yield := 1.0, 1.0
		if i+1 < len(parts) {
			factor = numOr(parts[i+1], 1)
		}
		if i+2 < len(parts) {
			yield = numOr(parts[i+2], 1)
		}
		children = append(children, relation{child: child, factor: factor, yield: yield})
	}
	d.relations[parent] = children
}

func (d *decoder) readMeasurement(fields []string) {
	pathParts := strings.Split(field(fields, 0), `\`)
	target := conceptKey(pathParts[len(pathParts)-1])
	if target == "" {
		return
	}
	if raw := field(fields, 3); raw != "" {
		// Groups of 6 tokens per line: type, description, units, length,
		// width, height.
		lines := strings.Split(raw, `\`)
		for i := 0; i+2 < len(lines); i += 6 {
			desc := strings.TrimSpace(lines[i+1])
			if desc == "" && strings.TrimSpace(lines[i+2]) == "" {
				continue
			}
			m := rawMeasurement{
				target:      target,
				description: domain.CoalesceStr(desc, "Importat"),
				units:       numOr(lines[i+2], 0),
				length:      1, width: 1, height: 1,
			}
			if i+3 < len(lines) {
				m.length = numOr(lines[i+3], 1)
			}
			if i+4 < len(lines) {
				m.width = numOr(lines[i+4], 1)
			}
			if i+5 < len(lines) {
				m.height = numOr(lines[i+5], 1)
			}
			d.measurements = append(d.measurements, m)
		}
		return
	}
	if raw := field(fields, 2); raw != "" {
		// Total-only record: a single base measurement, zero dimensions
		// (which count as 1 when the quantity is computed).
		d.measurements = append(d.measurements, rawMeasurement{
			target:      target,
			description: "Amidament base",
			units:       numOr(raw, 0),
		})
	}
}

// buildNode reconstructs the node for a concept, resolving decomposition
// relations into breakdown lines and, for chapters, into child nodes.
// visited is the set of normalized codes on the current branch: meeting
// one again terminates that branch, so cyclic decomposition data cannot
// recurse forever. The same code may still appear in independent branches.
func (d *decoder) buildNode(norm string, visited map[string]bool) *domain.Node {
	if visited[norm] {
		return nil
	}
	c, ok := d.concepts[norm]
	if !ok {
		return nil
	}
	visited[norm] = true
	defer delete(visited, norm)

	var breakdown []domain.BreakdownLine
	for _, rel := range d.relations[norm] {
		child := d.concepts[rel.child]
		isPercent := child.unit == "%"
		// Percent components store their yield as a fraction of the base;
		// rescale to whole percentage points and undo it in the total.
		yield := rel.yield * rel.factor
		total := yield * child.price
		if isPercent {
			yield *= 100
			total = (yield / 100) * child.price
		}
		breakdown = append(breakdown, domain.BreakdownLine{
			Code:        rel.child,
			Description: domain.CoalesceStr(child.summary, "Sense descripció"),
			Unit:        child.unit,
			Yield:       yield,
			Price:       child.price,
			Total:       total,
		})
	}

	// A priced item with no decomposition gets a synthetic self-component
	// so every priced concept has an explainable breakdown.
	if len(breakdown) == 0 && c.unit != "" && c.price > 0 {
		breakdown = append(breakdown, domain.BreakdownLine{
			Code:        "pa" + c.originalCode,
			Description: c.summary,
			Unit:        c.unit,
			Yield:       1,
			Price:       c.price,
			Total:       c.price,
		})
	}

	node := &domain.Node{
		ID:              uuid.New().String(),
		Code:            c.originalCode,
		Description:     c.summary,
		FullDescription: domain.CoalesceStr(d.longTexts[norm], c.summary),
		Unit:            c.unit,
		Price:           c.price,
		Breakdown:       breakdown,
	}
	for _, m := range d.measurements {
		if m.target == norm {
			node.Measurements = append(node.Measurements, domain.Measurement{
				ID:          uuid.New().String(),
				Description: m.description,
				Units:       m.units,
				Length:      m.length,
				Width:       m.width,
				Height:      m.height,
			})
		}
	}

	if c.unit == "" {
		for _, rel := range d.relations[norm] {
			child := d.buildNode(rel.child, visited)
			if child == nil {
				continue
			}
			if child.IsChapter() {
				node.SubChapters = append(node.SubChapters, child)
			} else {
				node.Items = append(node.Items, child)
			}
		}
	}
	return node
}

func (d *decoder) buildChapters() []*domain.Node {
	referenced := map[string]bool{}
	for _, rels := range d.relations {
		for _, rel := range rels {
			referenced[rel.child] = true
		}
	}

	var chapters []*domain.Node
	for _, norm := range d.conceptOrder {
		c := d.concepts[norm]
		isProjectRoot := strings.Contains(c.originalCode, "##")
		if !isProjectRoot && referenced[norm] {
			continue
		}
		if isProjectRoot {
			// The project marker node is discarded; its relation children
			// become the budget's top-level chapters regardless of the
			// marker's own unit.
			for _, rel := range d.relations[norm] {
				if child := d.buildNode(rel.child, map[string]bool{norm: true}); child != nil {
					chapters = append(chapters, child)
				}
			}
			continue
		}
		root := d.buildNode(norm, map[string]bool{})
		if root == nil {
			continue
		}
		// Orphans are promoted only when they look like groupings.
		if root.IsChapter() || root.HasDescendants() {
			chapters = append(chapters, root)
		}
	}

	seen := map[string]bool{}
	unique := chapters[:0]
	for _, ch := range chapters {
		if !seen[ch.ID] {
			seen[ch.ID] = true
			unique = append(unique, ch)
		}
	}
	return unique
}
