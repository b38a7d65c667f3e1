package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/xcc/compiler"
	"github.com/ardanlabs/xcc/config"
	"github.com/ardanlabs/xcc/generator"
	"github.com/ardanlabs/xcc/parser"
)

type options struct {
	input   string
	output  string
	exe     string
	compile bool
	dump    bool
	preview int
	cfg     config.Config
	cc      compiler.Compiler
	stdout  io.Writer
}

func main() {
	input := flag.String("input", "./main.xc", "Path to the xc source file")
	output := flag.String("output", "./main.c", "Path of the generated C file")
	exe := flag.String("exec", "./main", "Path of the executable built by -compile")
	configPath := flag.String("config", "", "Optional YAML config file")
	compile := flag.Bool("compile", false, "Compile the generated C file")
	dump := flag.Bool("dump", false, "Print the parsed declarations as JSON")
	preview := flag.Int("preview", 0, "Print the first N lines of the generated C file")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("xcc: ")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	opts := options{
		input:   *input,
		output:  *output,
		exe:     *exe,
		compile: *compile,
		dump:    *dump,
		preview: *preview,
		cfg:     cfg,
		cc:      compiler.Command{Path: cfg.Compiler.Command, Args: cfg.Compiler.Args},
		stdout:  os.Stdout,
	}

	if err := run(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	src, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("error reading source: %w", err)
	}

	prog := parser.Parse(string(src))
	for _, d := range prog.Diagnostics {
		log.Printf("%s:%d: skipped: %s", opts.input, d.Line, d.Msg)
	}

	if opts.dump {
		if err := dumpProgram(opts.stdout, prog); err != nil {
			return fmt.Errorf("error dumping declarations: %w", err)
		}
	}

	res := generator.New(prog, generatorOptions(opts)...).Generate()
	for _, d := range res.Diagnostics {
		log.Printf("%s: warning: %s", opts.input, d)
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := os.WriteFile(opts.output, []byte(res.Code), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", opts.output, err)
	}
	fmt.Fprintf(opts.stdout, "Generated: %s\n", opts.output)

	if opts.preview > 0 {
		printPreview(opts.stdout, res.Code, opts.preview)
	}
	printSummary(opts.stdout, prog.Count())

	if !opts.compile {
		return nil
	}
	if err := opts.cc.Compile(ctx, opts.output, opts.exe); err != nil {
		return fmt.Errorf("error compiling %s: %w", opts.output, err)
	}
	fmt.Fprintf(opts.stdout, "Compiled: %s\n", opts.exe)

	return nil
}

func generatorOptions(opts options) []generator.Option {
	cfg := opts.cfg

	bounds := generator.Bounds{Exact: cfg.Bounds.Exact}
	for _, r := range cfg.Bounds.Rules {
		bounds.Rules = append(bounds.Rules, generator.BoundRule{Contains: r.Contains, Bound: r.Bound})
	}
	if !cfg.Bounds.Replace {
		bounds.Rules = append(bounds.Rules, generator.DefaultBounds().Rules...)
	}

	return []generator.Option{
		generator.WithSource(filepath.Base(opts.input)),
		generator.WithEntry(cfg.Entry),
		generator.WithIncludes(cfg.Includes),
		generator.WithBounds(bounds),
	}
}

type dumpedDecl struct {
	Kind string      `json:"kind"`
	Decl parser.Decl `json:"decl"`
}

func dumpProgram(w io.Writer, prog *parser.Program) error {
	decls := make([]dumpedDecl, 0, len(prog.Decls))
	for _, d := range prog.Decls {
		var kind string
		switch d.(type) {
		case parser.Include:
			kind = "include"
		case parser.Define:
			kind = "define"
		case parser.Struct:
			kind = "struct"
		case parser.Global:
			kind = "global"
		case parser.Function:
			kind = "function"
		}
		decls = append(decls, dumpedDecl{Kind: kind, Decl: d})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(decls)
}

func printPreview(w io.Writer, code string, n int) {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	if len(lines) > n {
		lines = append(lines[:n], "...")
	}
	fmt.Fprintf(w, "%s\n", strings.Join(lines, "\n"))
}

func printSummary(w io.Writer, c parser.Count) {
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Includes  : %d\n", c.Includes)
	fmt.Fprintf(w, "  Defines   : %d\n", c.Defines)
	fmt.Fprintf(w, "  Structs   : %d\n", c.Structs)
	fmt.Fprintf(w, "  Globals   : %d\n", c.Globals)
	fmt.Fprintf(w, "  Functions : %d\n", c.Functions)
}
