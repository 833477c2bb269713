package scan

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/FocuswithJustin/unitspan/core/units"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("html.Parse failed: %v", err)
	}
	return doc
}

func TestFlatten(t *testing.T) {
	doc := parse(t, "<p>I walked <b>100</b> km <i>yesterday</i>.</p>")

	text, leaves := Flatten(doc)
	if text != "I walked 100 km yesterday." {
		t.Errorf("text = %q", text)
	}
	if len(leaves) != 5 {
		t.Fatalf("len(leaves) = %d, want 5", len(leaves))
	}
	for i, leaf := range leaves {
		if leaf.Node.Type != html.TextNode {
			t.Errorf("leaf %d is not a text node", i)
		}
		if got := text[leaf.Start : leaf.Start+len(leaf.Node.Data)]; got != leaf.Node.Data {
			t.Errorf("leaf %d covers %q, node holds %q", i, got, leaf.Node.Data)
		}
		if i > 0 && leaf.Start <= leaves[i-1].Start {
			t.Errorf("leaf offsets not strictly increasing at %d", i)
		}
	}
}

func TestFlattenSkipsRawTextContainers(t *testing.T) {
	doc := parse(t, `<p>5 km</p><script>var x = "10 miles";</script><style>p{}</style><textarea>3 kg</textarea>`)

	text, _ := Flatten(doc)
	if text != "5 km" {
		t.Errorf("text = %q, want %q", text, "5 km")
	}
}

func TestFindAll(t *testing.T) {
	scanner := New(units.Default())

	tests := []struct {
		text  string
		span  string
		left  float64
		right *float64
		unit  string
	}{
		{"I walked 100 km yesterday.", "100 km", 100, nil, "km"},
		{"She weighs 150 lbs.", "150 lbs", 150, nil, "lb"},
		{"about 4 1/2 miles away", "4 1/2 miles", 4.5, nil, "mile"},
		{"a 20-25 km stage", "20-25 km", 20, ptr(25.0), "km"},
		{"between 5 and 10 miles", "5 and 10 miles", 5, ptr(10.0), "mile"},
		{"from 3 to 4 kg", "3 to 4 kg", 3, ptr(4.0), "kg"},
		{"it rose by 5 °C today", "5 °C", 5, nil, "c"},
		{"heated to 20 deg C", "20 deg C", 20, nil, "c"},
		{"a 12 KM run", "12 KM", 12, nil, "km"},
		{"add ½ oz of salt", "½ oz", 0.5, nil, "oz"},
		{"dropped to -40 °F", "-40 °F", -40, nil, "f"},
		{"doing 100 km/h easily", "100 km/h", 100, nil, "km/h"},
		{"weighs 1,000 kg", "1,000 kg", 1000, nil, "kg"},
	}

	for _, tt := range tests {
		matches := scanner.FindAll(tt.text)
		if len(matches) != 1 {
			t.Errorf("FindAll(%q) returned %d matches, want 1", tt.text, len(matches))
			continue
		}
		m := matches[0]
		if got := tt.text[m.Start:m.End]; got != tt.span {
			t.Errorf("FindAll(%q) span = %q, want %q", tt.text, got, tt.span)
		}
		if m.Left != tt.left {
			t.Errorf("FindAll(%q) Left = %v, want %v", tt.text, m.Left, tt.left)
		}
		if (m.Right == nil) != (tt.right == nil) {
			t.Errorf("FindAll(%q) Right = %v, want %v", tt.text, m.Right, tt.right)
		} else if m.Right != nil && *m.Right != *tt.right {
			t.Errorf("FindAll(%q) *Right = %v, want %v", tt.text, *m.Right, *tt.right)
		}
		canonical := strings.TrimSuffix(m.Unit, "s")
		if m.Unit != tt.unit && canonical != tt.unit && m.Unit != tt.unit+"s" {
			if _, ok := units.Default().Lookup(m.Unit); !ok {
				t.Errorf("FindAll(%q) Unit = %q does not resolve", tt.text, m.Unit)
			}
		}
	}
}

func ptr(f float64) *float64 { return &f }

func TestFindAllNoMatches(t *testing.T) {
	scanner := New(units.Default())

	for _, text := range []string{
		"",
		"no quantities here",
		"paragraph 7 discusses terms", // number without a unit
		"the A40 motorway",            // digits glued to a word
	} {
		if matches := scanner.FindAll(text); len(matches) != 0 {
			t.Errorf("FindAll(%q) = %d matches, want 0", text, len(matches))
		}
	}
}

func TestFindAllOrderedNonOverlapping(t *testing.T) {
	scanner := New(units.Default())
	text := "Drive 100 km, then lift 150 lbs, in under 30 °C heat."

	matches := scanner.FindAll(text)
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	for i, m := range matches {
		if m.Start < 0 || m.Start >= m.End || m.End > len(text) {
			t.Errorf("match %d has invalid span [%d,%d)", i, m.Start, m.End)
		}
		if i > 0 && m.Start < matches[i-1].End {
			t.Errorf("match %d overlaps match %d", i, i-1)
		}
	}
}

func TestFindAllPrefersLongestUnitToken(t *testing.T) {
	scanner := New(units.Default())

	matches := scanner.FindAll("a 5 kilometers walk")
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if got := "a 5 kilometers walk"[matches[0].Start:matches[0].End]; got != "5 kilometers" {
		t.Errorf("span = %q, want %q", got, "5 kilometers")
	}
}

func TestFindAllWithExtendedTable(t *testing.T) {
	cfg, err := units.Load(strings.NewReader("units:\n  - tokens: [furlong, furlongs]\n    ratio: 0.2012\n    singular: km\n    plural: km\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	scanner := New(units.Default().Extend(cfg))

	matches := scanner.FindAll("raced 8 furlongs")
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Unit != "furlongs" && matches[0].Unit != "furlong" {
		t.Errorf("Unit = %q", matches[0].Unit)
	}
}
