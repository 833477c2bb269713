// Package convert rewrites quantity expressions in an HTML tree: each
// recognized number-plus-unit span is wrapped in a primary annotation and a
// converted value in the complementary unit system is spliced in as an
// auxiliary sibling. A stylesheet outside this package maps the emitted
// classes to visibility.
package convert

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/FocuswithJustin/unitspan/core/number"
	"github.com/FocuswithJustin/unitspan/core/scan"
	"github.com/FocuswithJustin/unitspan/core/units"
	"github.com/FocuswithJustin/unitspan/internal/logging"
)

// Class vocabulary. The first five are emitted on spliced structure;
// ClassDelta is author input marking a region whose temperatures are changes
// rather than absolute values. Container toggles (unit-show-si and friends)
// are a stylesheet concern and are never read here.
const (
	ClassProcessed = "unit-processed"
	ClassPrimary   = "unit-primary"
	ClassAuxiliary = "unit-auxiliary"
	ClassSI        = "unit-si"
	ClassImperial  = "unit-imp"
	ClassDelta     = "unit-delta"
)

// sigDigits is the precision of every rendered conversion.
const sigDigits = 3

var (
	defaultOnce    sync.Once
	defaultScanner *scan.Scanner
)

// Convert scans the subtree under root and splices converted quantities in
// place, using the builtin unit table. The pass runs to completion in the
// calling goroutine; the caller must not mutate the subtree concurrently.
// A second pass over already-converted output is a no-op.
func Convert(root *html.Node) {
	defaultOnce.Do(func() {
		defaultScanner = scan.New(units.Default())
	})
	run(root, units.Default(), defaultScanner)
}

// ConvertWithTable is Convert with a caller-supplied unit table, typically
// one extended from a YAML catalog.
func ConvertWithTable(root *html.Node, table *units.Table) {
	NewConverter(table).Convert(root)
}

// Converter binds a unit table to its compiled grammar so repeated passes
// don't recompile the scanner.
type Converter struct {
	table   *units.Table
	scanner *scan.Scanner
}

// NewConverter compiles the quantity grammar for table.
func NewConverter(table *units.Table) *Converter {
	return &Converter{table: table, scanner: scan.New(table)}
}

// Convert runs one conversion pass over the subtree under root.
func (c *Converter) Convert(root *html.Node) {
	run(root, c.table, c.scanner)
}

func run(root *html.Node, table *units.Table, scanner *scan.Scanner) {
	text, leaves := scan.Flatten(root)
	matches := scanner.FindAll(text)
	if len(matches) == 0 {
		return
	}
	logging.Debug("conversion pass", "chars", len(text), "matches", len(matches))

	// Matches are applied highest offset first so the offsets of matches
	// not yet applied stay valid while the tree mutates under them.
	sp := &splicer{text: text, leaves: leaves, table: table}
	for i := len(matches) - 1; i >= 0; i-- {
		sp.apply(matches[i])
	}
}

// splicer holds the read-only text snapshot and the shrinking leaf table for
// one conversion pass.
type splicer struct {
	text   string
	leaves []scan.Leaf
	table  *units.Table
}

// leafAt returns the index of the leaf whose range contains pos.
func (sp *splicer) leafAt(pos int) int {
	i := sort.Search(len(sp.leaves), func(i int) bool {
		return sp.leaves[i].Start > pos
	}) - 1
	if i < 0 {
		panic("unitspan: match offset precedes first leaf")
	}
	return i
}

func (sp *splicer) apply(m scan.Match) {
	last := sp.leafAt(m.End - 1)
	anchor := sp.leaves[last].Node

	// Reprocessing guard: text already inside annotated output is left
	// alone, which is also what makes a repeated pass a no-op.
	if hasAncestorClass(anchor, ClassProcessed) {
		return
	}

	def, ok := sp.table.Lookup(m.Unit)
	if !ok {
		// The grammar only matches tokens the table produced.
		panic("unitspan: matched unit token missing from table: " + m.Unit)
	}

	// A temperature inside a delta-marked region is a change, not an
	// absolute value: the zero-point shift must not apply.
	offset := def.Offset
	if offset != 0 && hasAncestorClass(anchor, ClassDelta) {
		offset = 0
	}

	leftText := number.Significant((m.Left+offset)*def.Ratio, sigDigits)
	rightText := ""
	if m.Right != nil {
		rightText = number.Significant((*m.Right+offset)*def.Ratio, sigDigits)
	}

	// Plural display unless the rendered value is exactly "1" and there is
	// no range. The range's right endpoint never influences plurality.
	name := def.Plural
	if leftText == "1" && m.Right == nil {
		name = def.Singular
	}

	srcClass, dstClass := ClassImperial, ClassSI
	if def.IsMetric {
		srcClass, dstClass = ClassSI, ClassImperial
	}
	aux := buildAuxiliary(dstClass, sp.text[m.Start:m.End], leftText, rightText, name)

	first := sp.leafAt(m.Start)
	for idx := last; idx >= first; idx-- {
		sp.spliceLeaf(m, idx, idx == last, srcClass, aux)
	}

	// Advance the cursor to before the match: leaves above first were
	// consumed, and leaf first survives only if it kept leading text.
	if m.Start > sp.leaves[first].Start {
		sp.leaves = sp.leaves[:first+1]
	} else {
		sp.leaves = sp.leaves[:first]
	}
}

// spliceLeaf isolates the matched portion of one leaf, wraps it in a primary
// annotation, and, on the leaf containing the match end, inserts the
// auxiliary structure right after the wrapper.
func (sp *splicer) spliceLeaf(m scan.Match, idx int, isLast bool, srcClass string, aux *html.Node) {
	leaf := sp.leaves[idx]
	n := leaf.Node
	parent := n.Parent
	if parent == nil {
		panic("unitspan: leaf detached during splice")
	}

	data := n.Data
	ls := m.Start - leaf.Start
	if ls < 0 {
		ls = 0
	}
	le := m.End - leaf.Start
	if le > len(data) {
		if isLast {
			panic("unitspan: leaf table out of sync with text snapshot")
		}
		le = len(data)
	}
	pre, mid, post := data[:ls], data[ls:le], data[le:]

	primary := newElement("span", ClassPrimary, ClassProcessed, srcClass)
	primary.AppendChild(textNode(mid))

	ref := n.NextSibling
	parent.InsertBefore(primary, ref)
	if isLast {
		parent.InsertBefore(aux, ref)
	}
	if post != "" {
		parent.InsertBefore(textNode(post), ref)
	}
	if pre == "" {
		parent.RemoveChild(n)
	} else {
		n.Data = pre
	}
}

// buildAuxiliary assembles the inserted structure: a container tagged with
// the opposite system, labeled with the original matched text, holding the
// formatted value(s) and the display unit name.
func buildAuxiliary(systemClass, label, left, right, unitName string) *html.Node {
	b := newContainer("span", ClassAuxiliary, ClassProcessed, systemClass).
		attr("title", label)
	b.child("span", "num").text(left)
	if right != "" {
		b.text("-")
		b.child("span", "num").text(right)
	}
	b.text(" ")
	b.child("span", "unit").text(unitName)
	return b.build()
}

func hasAncestorClass(n *html.Node, class string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hasClass(p, class) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, f := range strings.Fields(a.Val) {
			if f == class {
				return true
			}
		}
	}
	return false
}
