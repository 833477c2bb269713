package units

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	uerrors "github.com/FocuswithJustin/unitspan/core/errors"
)

// ConfigEntry is one unit definition in a YAML catalog. Tokens are aliases
// that all resolve to the same shared definition.
type ConfigEntry struct {
	Tokens   []string `yaml:"tokens"`
	Metric   bool     `yaml:"metric"`
	Offset   float64  `yaml:"offset"`
	Ratio    float64  `yaml:"ratio"`
	Singular string   `yaml:"singular"`
	Plural   string   `yaml:"plural"`
}

// Config is the document shape of a YAML unit catalog:
//
//	units:
//	  - tokens: [furlong, furlongs]
//	    metric: false
//	    ratio: 0.2012
//	    singular: km
//	    plural: km
type Config struct {
	Units []ConfigEntry `yaml:"units"`
}

// Load parses a YAML unit catalog.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, uerrors.NewIO("read", "", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, uerrors.NewParse("YAML", "", err.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile parses a YAML unit catalog from disk.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, uerrors.NewIO("open", path, err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, uerrors.Wrapf(err, "loading unit catalog %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for i, e := range c.Units {
		field := fmt.Sprintf("units[%d]", i)
		if len(e.Tokens) == 0 {
			return uerrors.NewValidation(field+".tokens", "at least one token is required")
		}
		for _, token := range e.Tokens {
			if strings.TrimSpace(token) == "" {
				return uerrors.NewValidation(field+".tokens", "tokens must be non-empty")
			}
		}
		if e.Ratio == 0 {
			return uerrors.NewValidation(field+".ratio", "ratio must be non-zero")
		}
		if e.Singular == "" || e.Plural == "" {
			return uerrors.NewValidation(field, "singular and plural display names are required")
		}
	}
	return nil
}

// Extend returns a new Table containing every definition of t plus the
// catalog's entries. Catalog tokens shadow builtin tokens; t itself is never
// mutated.
func (t *Table) Extend(cfg *Config) *Table {
	out := &Table{defs: make(map[string]*Definition, len(t.defs)+len(cfg.Units))}
	for token, def := range t.defs {
		out.defs[token] = def
	}
	for _, e := range cfg.Units {
		def := &Definition{
			IsMetric: e.Metric,
			Offset:   e.Offset,
			Ratio:    e.Ratio,
			Singular: e.Singular,
			Plural:   e.Plural,
		}
		for _, token := range e.Tokens {
			out.defs[strings.ToLower(token)] = def
		}
	}
	return out
}
