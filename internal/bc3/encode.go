package bc3

import (
	"fmt"
	"sort"
	"strings"

	"github.com/martivergara/pressupost/internal/domain"
)

type conceptOut struct {
	unit            string
	description     string
	fullDescription string
	price           float64
	isDecomposed    bool
}

type relationOut struct {
	child  string // normalized code
	factor float64
	yield  float64
}

type encoder struct {
	concepts     map[string]*conceptOut
	conceptOrder []string
	relations    map[string][]relationOut
	relOrder     []string
	measurements map[string][]domain.Measurement
	measOrder    []string
}

// Encode serializes the budget tree and price database into BC3 text.
// Decomposed concepts (chapters, items with a breakdown) export their code
// with a trailing '#' so readers know a decomposition record follows; a
// synthetic '##' root concept lists the top-level chapters.
func Encode(b *domain.Budget, db domain.PriceDatabase) string {
	e := &encoder{
		concepts:     map[string]*conceptOut{},
		relations:    map[string][]relationOut{},
		measurements: map[string][]domain.Measurement{},
	}
	for _, ch := range b.Chapters {
		e.collect(ch)
	}
	// Price-only knowledge still gets exported.
	dbCodes := make([]string, 0, len(db))
	for norm := range db {
		dbCodes = append(dbCodes, norm)
	}
	sort.Strings(dbCodes)
	for _, norm := range dbCodes {
		if _, ok := e.concepts[norm]; !ok {
			entry := db[norm]
			e.conceptOrder = append(e.conceptOrder, norm)
			e.concepts[norm] = &conceptOut{
				unit:        entry.Unit,
				description: entry.Summary,
				price:       entry.Price,
			}
		}
	}

	var lines []string
	lines = append(lines,
		"~V|FIEBDC-3/2016|Pressupost|ANSI",
		`~K|\0\0\0\2\2\2\2\`,
	)

	if len(b.Chapters) > 0 {
		name := domain.CoalesceStr(b.Name, "PROJECTE")
		lines = append(lines, fmt.Sprintf(`~C|##|u|%s|0|0|0|0\0\0`, name))
		roots := make([]string, len(b.Chapters))
		for i, ch := range b.Chapters {
			roots[i] = e.exportCode(domain.NormalizeCode(ch.Code)) + `\1\1`
		}
		lines = append(lines, `~D|##|`+strings.Join(roots, `\`))
	}

	for _, norm := range e.conceptOrder {
		c := e.concepts[norm]
		code := e.exportCode(norm)
		lines = append(lines, fmt.Sprintf(`~C|%s|%s|%s|%s|0|0|0\0\0`,
			code, c.unit, c.description, formatNum(c.price)))
		if c.fullDescription != "" {
			lines = append(lines, fmt.Sprintf("~T|%s|%s", code, c.fullDescription))
		}
	}

	for _, norm := range e.relOrder {
		rels := e.relations[norm]
		parts := make([]string, len(rels))
		for i, r := range rels {
			parts[i] = fmt.Sprintf(`%s\%s\%s`,
				e.exportCode(r.child), formatNum(r.factor), formatNum(r.yield))
		}
		if joined := strings.Join(parts, `\`); joined != "" {
			lines = append(lines, fmt.Sprintf("~D|%s|%s", e.exportCode(norm), joined))
		}
	}

	for _, norm := range e.measOrder {
		ms := e.measurements[norm]
		if len(ms) == 0 {
			continue
		}
		code := e.exportCode(norm)
		var totalQty float64
		mParts := make([]string, len(ms))
		for i, m := range ms {
			totalQty += m.Units * orOne(m.Length) * orOne(m.Width) * orOne(m.Height)
			mParts[i] = fmt.Sprintf(`2\%s\%s\%s\%s\%s`, m.Description,
				formatNum(m.Units), formatNum(m.Length), formatNum(m.Width), formatNum(m.Height))
		}
		lines = append(lines, fmt.Sprintf("~Q|%s|%s", code, formatNum(totalQty)))
		lines = append(lines, fmt.Sprintf(`~M|%s|1|%s|%s`, code,
			formatNum(totalQty), strings.Join(mParts, `\`)))
	}

	return strings.Join(lines, "\n")
}

func (e *encoder) exportCode(norm string) string {
	if c, ok := e.concepts[norm]; ok && c.isDecomposed {
		return norm + "#"
	}
	return norm
}

func (e *encoder) collect(node *domain.Node) {
	norm := domain.NormalizeCode(node.Code)
	hasChildren := node.HasDescendants()
	hasBreakdown := len(node.Breakdown) > 0

	c, ok := e.concepts[norm]
	if !ok {
		c = &conceptOut{
			unit:            node.Unit,
			description:     node.Description,
			fullDescription: node.FullDescription,
			price:           node.Price,
		}
		e.concepts[norm] = c
		e.conceptOrder = append(e.conceptOrder, norm)
	}
	if hasChildren || hasBreakdown {
		c.isDecomposed = true
	}

	switch {
	case hasChildren:
		rels := e.relations[norm]
		if rels == nil {
			e.relOrder = append(e.relOrder, norm)
		}
		for _, child := range node.Children() {
			childNorm := domain.NormalizeCode(child.Code)
			if !hasRelation(rels, childNorm) {
				rels = append(rels, relationOut{child: childNorm, factor: 1, yield: 1})
			}
		}
		e.relations[norm] = rels
	case hasBreakdown:
		rels := e.relations[norm]
		if rels == nil {
			e.relOrder = append(e.relOrder, norm)
		}
		for _, line := range node.Breakdown {
			lineNorm := domain.NormalizeCode(line.Code)
			if !hasRelation(rels, lineNorm) {
				yield := line.Yield
				if line.Unit == "%" {
					// Percent yields are held as whole percentage points in
					// memory but as fractions on the wire; the decoder
					// rescales them back.
					yield /= 100
				}
				rels = append(rels, relationOut{child: lineNorm, factor: 1, yield: yield})
			}
			if _, seen := e.concepts[lineNorm]; !seen {
				e.conceptOrder = append(e.conceptOrder, lineNorm)
				e.concepts[lineNorm] = &conceptOut{
					unit:        line.Unit,
					description: line.Description,
					price:       line.Price,
				}
			}
		}
		e.relations[norm] = rels
	}

	if len(node.Measurements) > 0 {
		if _, ok := e.measurements[norm]; !ok {
			e.measOrder = append(e.measOrder, norm)
		}
		e.measurements[norm] = append(e.measurements[norm], node.Measurements...)
	}

	for _, sub := range node.SubChapters {
		e.collect(sub)
	}
	for _, item := range node.Items {
		e.collect(item)
	}
}

func hasRelation(rels []relationOut, child string) bool {
	for _, r := range rels {
		if r.child == child {
			return true
		}
	}
	return false
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
