// Package scan flattens an HTML subtree into one logical string and
// recognizes quantity expressions (number plus unit token) within it.
package scan

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/FocuswithJustin/unitspan/core/number"
	"github.com/FocuswithJustin/unitspan/core/units"
)

// skipTags are containers whose content is never rendered as prose: raw-text
// and editable-text elements contribute nothing and are not recursed into.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"noscript": true,
	"iframe":   true,
}

// Leaf records one text node and its byte offset in the flattened string.
// Leaf i covers [Start_i, Start_i+1) of the flattened text.
type Leaf struct {
	Node  *html.Node
	Start int
}

// Flatten walks the subtree depth-first in document order and concatenates
// every non-empty text node into one string, recording each node's start
// offset. Empty text nodes are skipped so offsets stay strictly increasing.
// The pass is read-only.
func Flatten(root *html.Node) (string, []Leaf) {
	var sb strings.Builder
	var leaves []Leaf

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Data != "" {
				leaves = append(leaves, Leaf{Node: n, Start: sb.Len()})
				sb.WriteString(n.Data)
			}
			return
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return sb.String(), leaves
}

// Match is one recognized quantity span in the flattened text.
// Invariant: 0 <= Start < End <= len(text); matches returned by FindAll are
// non-overlapping and ascending by Start.
type Match struct {
	Start int
	End   int

	// Left is the parsed scalar; Right is the range's second scalar, if any.
	Left  float64
	Right *float64

	// Unit is the matched unit token, lower-cased.
	Unit string
}

// Scanner holds the compiled quantity grammar for one unit table.
type Scanner struct {
	re *regexp.Regexp
}

// sp matches spacing between grammar parts, including non-breaking spaces.
const sp = `[\s\x{00a0}]`

const fractionGlyphs = "¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞"

// numPattern accepts signed integers with myriad separators, decimal
// fractions, and standalone or trailing vulgar fractions. The denominator
// requires a non-zero leading digit.
var numPattern = `(?:` +
	`[-+−]?\b[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?(?:` + sp + `?(?:[0-9]+/[1-9][0-9]*|[` + fractionGlyphs + `]))?` +
	`|[-+−]?\b[0-9]+/[1-9][0-9]*` +
	`|[-+−]?\.[0-9]+` +
	`|[-+−]?[` + fractionGlyphs + `]` +
	`)`

var rangeSeparator = `(?:` + sp + `*[-–—]` + sp + `*|` + sp + `+(?:to|and)` + sp + `+)`

var degreeWord = `(?:°` + sp + `*|\bdeg(?:ree)?s?\b\.?` + sp + `*)?`

// New compiles the quantity grammar for the given table. Unit tokens are
// matched case-insensitively and tried longest-first, so "kilometers" wins
// over "km" at the same position; combined with a single left-to-right scan
// this keeps matches non-overlapping.
func New(t *units.Table) *Scanner {
	tokens := t.Tokens()
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}

	pattern := `(?i)` +
		`(` + numPattern + `)` +
		`(?:` + rangeSeparator + `(` + numPattern + `))?` +
		sp + `*` + degreeWord +
		`(` + strings.Join(quoted, "|") + `)` +
		`(?:e?s)?\b`

	return &Scanner{re: regexp.MustCompile(pattern)}
}

// FindAll returns every quantity match in text, in ascending order.
// Candidate spans whose numeric text fails to parse are silently dropped;
// the grammar should already exclude them.
func (s *Scanner) FindAll(text string) []Match {
	var matches []Match
	for _, idx := range s.re.FindAllStringSubmatchIndex(text, -1) {
		left, err := number.Parse(text[idx[2]:idx[3]])
		if err != nil {
			continue
		}
		m := Match{
			Start: idx[0],
			End:   idx[1],
			Left:  left,
			Unit:  strings.ToLower(text[idx[6]:idx[7]]),
		}
		if idx[4] >= 0 {
			right, err := number.Parse(text[idx[4]:idx[5]])
			if err != nil {
				continue
			}
			m.Right = &right
		}
		matches = append(matches, m)
	}
	return matches
}
