// Package units defines the unit conversion table: an immutable, process-wide
// mapping from unit tokens (including aliases) to shared conversion records.
package units

import (
	"sort"
	"strings"
	"sync"
)

// Definition describes how a quantity in one unit converts to its counterpart
// in the opposite system. The conversion is aux = (value + Offset) * Ratio.
// All aliases for a unit share one Definition; it is never copied or mutated
// after table construction.
type Definition struct {
	// IsMetric reports which system the source token belongs to.
	IsMetric bool

	// Offset is added before scaling. Non-zero only for temperature.
	Offset float64

	// Ratio scales into the opposite system.
	Ratio float64

	// Singular is the display name of the converted unit for a value of
	// exactly one.
	Singular string

	// Plural is the display name for every other value.
	Plural string
}

// Table maps lower-cased unit tokens to their shared Definition.
// A Table is immutable after construction.
type Table struct {
	defs map[string]*Definition
}

// Lookup resolves a token to its Definition. The token is lower-cased first;
// if no entry exists, a trailing plural "s" (or "es") is stripped and the
// lookup retried.
func (t *Table) Lookup(token string) (*Definition, bool) {
	key := strings.ToLower(token)
	if d, ok := t.defs[key]; ok {
		return d, true
	}
	if trimmed := strings.TrimSuffix(key, "es"); trimmed != key {
		if d, ok := t.defs[trimmed]; ok {
			return d, true
		}
	}
	if trimmed := strings.TrimSuffix(key, "s"); trimmed != key {
		if d, ok := t.defs[trimmed]; ok {
			return d, true
		}
	}
	return nil, false
}

// Tokens returns all tokens in the table, sorted longest-first so a scanner
// alternation prefers "kilometers" over "km" at the same position.
func (t *Table) Tokens() []string {
	tokens := make([]string, 0, len(t.defs))
	for token := range t.defs {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// Len returns the number of tokens (aliases counted individually).
func (t *Table) Len() int {
	return len(t.defs)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide unit table, built once.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = build()
	})
	return defaultTable
}

// entry pairs a set of alias tokens with one shared Definition.
type entry struct {
	tokens []string
	def    Definition
}

// builtin holds the stock distance, mass, temperature, and speed units.
// Ratios are the conventional 4-digit conversion factors; round-tripping is
// therefore only accurate to the 3 significant digits the converter renders.
var builtin = []entry{
	// Distance, metric -> imperial.
	{[]string{"km", "kilometer", "kilometers", "kilometre", "kilometres"},
		Definition{IsMetric: true, Ratio: 0.6214, Singular: "mile", Plural: "miles"}},
	{[]string{"m", "meter", "meters", "metre", "metres"},
		Definition{IsMetric: true, Ratio: 1.094, Singular: "yard", Plural: "yards"}},
	{[]string{"cm", "centimeter", "centimeters", "centimetre", "centimetres"},
		Definition{IsMetric: true, Ratio: 0.3937, Singular: "inch", Plural: "inches"}},
	{[]string{"mm", "millimeter", "millimeters", "millimetre", "millimetres"},
		Definition{IsMetric: true, Ratio: 0.03937, Singular: "inch", Plural: "inches"}},

	// Distance, imperial -> metric. "in" is not an inch alias: it is an
	// English preposition and would match constantly.
	{[]string{"mile", "miles", "mi"},
		Definition{Ratio: 1.609, Singular: "km", Plural: "km"}},
	{[]string{"yard", "yards", "yd", "yds"},
		Definition{Ratio: 0.9144, Singular: "m", Plural: "m"}},
	{[]string{"foot", "feet", "ft"},
		Definition{Ratio: 0.3048, Singular: "m", Plural: "m"}},
	{[]string{"inch", "inches"},
		Definition{Ratio: 2.54, Singular: "cm", Plural: "cm"}},

	// Mass, metric -> imperial.
	{[]string{"kg", "kilogram", "kilograms", "kilo", "kilos"},
		Definition{IsMetric: true, Ratio: 2.205, Singular: "lb", Plural: "lbs"}},
	{[]string{"g", "gram", "grams", "gramme", "grammes"},
		Definition{IsMetric: true, Ratio: 0.03527, Singular: "oz", Plural: "oz"}},
	{[]string{"tonne", "tonnes"},
		Definition{IsMetric: true, Ratio: 1.102, Singular: "ton", Plural: "tons"}},

	// Mass, imperial -> metric.
	{[]string{"lb", "lbs", "pound", "pounds"},
		Definition{Ratio: 0.454, Singular: "kg", Plural: "kg"}},
	{[]string{"oz", "ounce", "ounces"},
		Definition{Ratio: 28.35, Singular: "g", Plural: "g"}},
	{[]string{"stone", "stones"},
		Definition{Ratio: 6.35, Singular: "kg", Plural: "kg"}},
	{[]string{"ton", "tons"},
		Definition{Ratio: 0.907, Singular: "tonne", Plural: "tonnes"}},

	// Temperature. F = (C + 17.78) * 1.8, C = (F - 32) / 1.8.
	{[]string{"°c", "c", "celsius", "centigrade"},
		Definition{IsMetric: true, Offset: 17.78, Ratio: 1.8, Singular: "°F", Plural: "°F"}},
	{[]string{"°f", "f", "fahrenheit"},
		Definition{Offset: -32, Ratio: 1 / 1.8, Singular: "°C", Plural: "°C"}},

	// Speed.
	{[]string{"km/h", "kmh", "kph", "kmph"},
		Definition{IsMetric: true, Ratio: 0.6214, Singular: "mph", Plural: "mph"}},
	{[]string{"m/s"},
		Definition{IsMetric: true, Ratio: 2.237, Singular: "mph", Plural: "mph"}},
	{[]string{"mph"},
		Definition{Ratio: 1.609, Singular: "km/h", Plural: "km/h"}},
}

func build() *Table {
	t := &Table{defs: make(map[string]*Definition)}
	for i := range builtin {
		def := builtin[i].def
		for _, token := range builtin[i].tokens {
			t.defs[strings.ToLower(token)] = &def
		}
	}
	return t
}
