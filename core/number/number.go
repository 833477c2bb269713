// Package number parses the numeric literal forms the quantity grammar
// accepts (signed integers with myriad separators, decimals, vulgar
// fractions) and formats conversion results to a fixed number of
// significant digits.
package number

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	uerrors "github.com/FocuswithJustin/unitspan/core/errors"
)

// literalGrammar is the participle grammar for quantity literals.
// Examples: "100", "1,000.5", ".25", "7/8", "4 1/2", "3½", "-40"
//
//nolint:govet // participle grammar tags are not standard struct tags
type literalGrammar struct {
	Sign     string `parser:"@Sign?"`
	Whole    string `parser:"@Number?"`
	Fraction string `parser:"@Fraction?"`
	Glyph    string `parser:"@Glyph?"`
}

// literalLexer tokenizes quantity literals. Fraction must precede Number so
// "7/8" lexes as one fraction token rather than a number followed by a stray
// slash.
var literalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Fraction", Pattern: `[0-9]+/[0-9]+`},
	{Name: "Number", Pattern: `(?:[0-9]+(?:,[0-9]{3})*(?:\.[0-9]+)?|\.[0-9]+)`},
	{Name: "Glyph", Pattern: `[¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞]`},
	{Name: "Sign", Pattern: `[-+−]`},
	{Name: "Whitespace", Pattern: `[\s\x{00a0}]+`},
})

var literalParser = participle.MustBuild[literalGrammar](
	participle.Lexer(literalLexer),
	participle.Elide("Whitespace"),
)

// glyphValues maps single-rune vulgar fractions to their value.
var glyphValues = map[string]float64{
	"¼": 1.0 / 4, "½": 1.0 / 2, "¾": 3.0 / 4,
	"⅓": 1.0 / 3, "⅔": 2.0 / 3,
	"⅕": 1.0 / 5, "⅖": 2.0 / 5, "⅗": 3.0 / 5, "⅘": 4.0 / 5,
	"⅙": 1.0 / 6, "⅚": 5.0 / 6,
	"⅐": 1.0 / 7, "⅑": 1.0 / 9, "⅒": 1.0 / 10,
	"⅛": 1.0 / 8, "⅜": 3.0 / 8, "⅝": 5.0 / 8, "⅞": 7.0 / 8,
}

// Parse evaluates a quantity literal. The integer part and any trailing
// fraction are summed; a sign prefix negates the whole result.
func Parse(s string) (float64, error) {
	lit, err := literalParser.ParseString("", s)
	if err != nil {
		return 0, &uerrors.ParseError{Format: "number", Message: strconv.Quote(s), Err: err}
	}
	if lit.Whole == "" && lit.Fraction == "" && lit.Glyph == "" {
		return 0, uerrors.NewParse("number", "", "empty literal "+strconv.Quote(s))
	}

	var value float64
	if lit.Whole != "" {
		whole, err := strconv.ParseFloat(strings.ReplaceAll(lit.Whole, ",", ""), 64)
		if err != nil {
			return 0, &uerrors.ParseError{Format: "number", Message: strconv.Quote(lit.Whole), Err: err}
		}
		value = whole
	}
	if lit.Fraction != "" {
		num, den, ok := strings.Cut(lit.Fraction, "/")
		if !ok {
			return 0, uerrors.NewParse("number", "", "malformed fraction "+strconv.Quote(lit.Fraction))
		}
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, &uerrors.ParseError{Format: "number", Message: strconv.Quote(num), Err: err}
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, &uerrors.ParseError{Format: "number", Message: strconv.Quote(den), Err: err}
		}
		if d == 0 {
			return 0, uerrors.NewParse("number", "", "zero denominator in "+strconv.Quote(lit.Fraction))
		}
		value += n / d
	}
	if lit.Glyph != "" {
		value += glyphValues[lit.Glyph]
	}
	if lit.Sign == "-" || lit.Sign == "−" {
		value = -value
	}
	return value, nil
}

// Significant renders x in plain decimal keeping only the first digits
// significant digits. The remaining mantissa digits are zeroed, a
// zero-only fractional tail is stripped, and a bare trailing decimal point
// is stripped. An exponent suffix, if present in the rendering, is
// preserved verbatim.
func Significant(x float64, digits int) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if digits <= 0 {
		return s
	}

	mantissa, exponent := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exponent = s[:i], s[i:]
	}

	b := []byte(mantissa)
	counting := false
	seen := 0
	for i, c := range b {
		if c < '0' || c > '9' {
			continue // sign or decimal point
		}
		if !counting && c == '0' {
			continue // leading zeros are not significant
		}
		counting = true
		if seen < digits {
			seen++
			continue
		}
		b[i] = '0'
	}

	out := string(b)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	return out + exponent
}
