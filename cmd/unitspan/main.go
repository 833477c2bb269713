// Command unitspan annotates quantity expressions in HTML documents.
// Each recognized number-plus-unit span is wrapped in a primary annotation
// and followed by its converted value in the complementary unit system, so a
// stylesheet can toggle which unit family readers see.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"github.com/FocuswithJustin/unitspan/core/convert"
	uerrors "github.com/FocuswithJustin/unitspan/core/errors"
	"github.com/FocuswithJustin/unitspan/core/units"
	"github.com/FocuswithJustin/unitspan/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for unitspan.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log output format"`
	Catalog   string `name:"catalog" short:"c" help:"YAML catalog of extra unit definitions" type:"existingfile"`

	Convert ConvertCmd `cmd:"" help:"Convert quantities in an HTML document"`
	Units   UnitsGroup `cmd:"" help:"Unit table operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// UnitsGroup contains unit table inspection operations.
type UnitsGroup struct {
	List UnitsListCmd `cmd:"" help:"List every token in the active unit table"`
	Show UnitsShowCmd `cmd:"" help:"Show the definition one token resolves to"`
}

// activeTable builds the unit table for this invocation: the builtin table,
// extended by the --catalog file when one is given.
func activeTable() (*units.Table, error) {
	table := units.Default()
	if CLI.Catalog == "" {
		return table, nil
	}
	cfg, err := units.LoadFile(CLI.Catalog)
	if err != nil {
		return nil, err
	}
	logging.Debug("extending unit table", "catalog", CLI.Catalog, "entries", len(cfg.Units))
	return table.Extend(cfg), nil
}

// ConvertCmd converts quantities in one document.
type ConvertCmd struct {
	Path   string `arg:"" optional:"" help:"HTML file to convert (defaults to stdin)" type:"existingfile"`
	Output string `short:"o" help:"Output file (defaults to stdout)" type:"path"`
	Root   string `help:"XPath expression selecting the subtree(s) to convert"`
}

func (c *ConvertCmd) Run() error {
	table, err := activeTable()
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	name := "stdin"
	if c.Path != "" {
		f, err := os.Open(c.Path)
		if err != nil {
			return uerrors.NewIO("open", c.Path, err)
		}
		defer f.Close()
		in = f
		name = c.Path
	}

	doc, err := html.Parse(in)
	if err != nil {
		return &uerrors.ParseError{Format: "HTML", Path: name, Message: err.Error(), Err: err}
	}

	roots := []*html.Node{doc}
	if c.Root != "" {
		expr, err := xpath.Compile(c.Root)
		if err != nil {
			return uerrors.Wrapf(err, "invalid xpath %q", c.Root)
		}
		roots = htmlquery.QuerySelectorAll(doc, expr)
		if len(roots) == 0 {
			logging.Warn("xpath selected no nodes", "xpath", c.Root)
		}
	}

	converter := convert.NewConverter(table)
	for _, root := range roots {
		converter.Convert(root)
	}

	var out io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return uerrors.NewIO("create", c.Output, err)
		}
		defer f.Close()
		out = f
	}
	if err := html.Render(out, doc); err != nil {
		return uerrors.NewIO("write", c.Output, err)
	}
	return nil
}

// UnitsListCmd dumps the active unit table.
type UnitsListCmd struct{}

func (c *UnitsListCmd) Run() error {
	table, err := activeTable()
	if err != nil {
		return err
	}

	tokens := table.Tokens()
	sort.Strings(tokens)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tSYSTEM\tRATIO\tOFFSET\tCONVERTS TO")
	for _, token := range tokens {
		def, ok := table.Lookup(token)
		if !ok {
			continue
		}
		system := "imperial"
		if def.IsMetric {
			system = "si"
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%s\n", token, system, def.Ratio, def.Offset, def.Plural)
	}
	return w.Flush()
}

// UnitsShowCmd shows one unit definition.
type UnitsShowCmd struct {
	Token string `arg:"" help:"Unit token to resolve (e.g. km, lbs, °c)"`
}

func (c *UnitsShowCmd) Run() error {
	table, err := activeTable()
	if err != nil {
		return err
	}
	def, ok := table.Lookup(c.Token)
	if !ok {
		return uerrors.NewNotFound("unit", c.Token)
	}

	system := "imperial"
	if def.IsMetric {
		system = "si"
	}
	fmt.Printf("token:    %s\n", c.Token)
	fmt.Printf("system:   %s\n", system)
	fmt.Printf("ratio:    %g\n", def.Ratio)
	fmt.Printf("offset:   %g\n", def.Offset)
	fmt.Printf("converts: %s / %s\n", def.Singular, def.Plural)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("unitspan version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("unitspan"),
		kong.Description("Annotate HTML quantities with metric/imperial conversions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
