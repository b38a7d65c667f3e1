package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ardanlabs/xcc/parser"
)

// DefaultIncludes maps short include names to their header file.
var DefaultIncludes = map[string]string{
	"stdio":  "stdio.h",
	"string": "string.h",
}

// DefaultEntry is the function always emitted with an int return type.
const DefaultEntry = "main"

type Generator struct {
	prog     *parser.Program
	source   string
	entry    string
	includes map[string]string
	bounds   Bounds
}

type Option func(*Generator)

// WithSource names the input file in the banner comment.
func WithSource(name string) Option {
	return func(g *Generator) { g.source = name }
}

func WithEntry(name string) Option {
	return func(g *Generator) { g.entry = name }
}

// WithIncludes adds include aliases on top of DefaultIncludes.
func WithIncludes(aliases map[string]string) Option {
	return func(g *Generator) {
		for k, v := range aliases {
			g.includes[k] = v
		}
	}
}

// WithBounds replaces the for:each bound table.
func WithBounds(b Bounds) Option {
	return func(g *Generator) { g.bounds = b }
}

func New(prog *parser.Program, opts ...Option) *Generator {
	g := &Generator{
		prog:     prog,
		entry:    DefaultEntry,
		includes: make(map[string]string, len(DefaultIncludes)),
		bounds:   DefaultBounds(),
	}
	for k, v := range DefaultIncludes {
		g.includes[k] = v
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the generated C source and everything that needs a human look.
type Result struct {
	Code        string
	Diagnostics []Diagnostic
}

// Generate emits the program in fixed section order: includes, defines,
// globals, structs, functions.
func (g *Generator) Generate() Result {
	var (
		buf       bytes.Buffer
		diags     []Diagnostic
		includes  []parser.Include
		defines   []parser.Define
		globals   []parser.Global
		structs   []parser.Struct
		functions []parser.Function
	)

	for _, d := range g.prog.Decls {
		switch d := d.(type) {
		case parser.Include:
			includes = append(includes, d)
		case parser.Define:
			defines = append(defines, d)
		case parser.Global:
			globals = append(globals, d)
		case parser.Struct:
			structs = append(structs, d)
		case parser.Function:
			functions = append(functions, d)
		}
	}
	diags = append(diags, duplicates(g.prog.Decls)...)

	if g.source != "" {
		fmt.Fprintf(&buf, "// Generated C code from %s by xcc\n\n", g.source)
	} else {
		fmt.Fprintf(&buf, "// Generated C code by xcc\n\n")
	}

	for _, inc := range includes {
		fmt.Fprintf(&buf, "#include <%s>\n", g.header(inc.Name))
	}
	fmt.Fprintf(&buf, "#include <stdbool.h>\n\n")

	if len(defines) > 0 {
		for _, d := range defines {
			fmt.Fprintf(&buf, "#define %s %s\n", d.Name, d.Value)
		}
		fmt.Fprintf(&buf, "\n")
	}

	if len(globals) > 0 {
		for _, v := range globals {
			fmt.Fprintf(&buf, "%s %s = %s;\n", v.Type, v.Name, v.Value)
		}
		fmt.Fprintf(&buf, "\n")
	}

	for _, s := range structs {
		fmt.Fprintf(&buf, "struct %s {\n", s.Name)
		for _, f := range s.Fields {
			fmt.Fprintf(&buf, "%s%s %s;\n", indentUnit, normalizeType(f.Type), f.Name)
		}
		fmt.Fprintf(&buf, "};\n\n")
	}

	tr := NewTranspiler(g.bounds)
	for _, fn := range functions {
		fmt.Fprintf(&buf, "%s %s(%s) {\n", g.returnType(fn), fn.Name, paramList(fn.Params))

		code, fnDiags := tr.Transpile(fn.Body)
		for _, line := range strings.Split(code, "\n") {
			if line != "" {
				fmt.Fprintf(&buf, "%s%s\n", indentUnit, line)
			}
		}
		fmt.Fprintf(&buf, "}\n\n")

		for _, d := range fnDiags {
			d.Func = fn.Name
			diags = append(diags, d)
		}
	}

	return Result{
		Code:        strings.TrimRight(buf.String(), "\n") + "\n",
		Diagnostics: diags,
	}
}

func (g *Generator) header(name string) string {
	if h, ok := g.includes[name]; ok {
		return h
	}
	if strings.HasSuffix(name, ".h") {
		return name
	}
	return name + ".h"
}

func (g *Generator) returnType(fn parser.Function) string {
	switch {
	case fn.Name == g.entry:
		return "int"
	case fn.ReturnType == nil:
		return "void"
	}
	return *fn.ReturnType
}

func paramList(params []parser.Param) string {
	if len(params) == 0 {
		return "void"
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		typ := normalizeType(p.Type)
		if p.IsPointer {
			typ = strings.TrimSpace(strings.TrimSuffix(typ, "*"))
			parts = append(parts, strings.TrimSpace(typ+" *"+p.Name))
			continue
		}
		parts = append(parts, strings.TrimSpace(typ+" "+p.Name))
	}
	return strings.Join(parts, ", ")
}

// duplicates reports declarations that reuse a name. Struct tags live in
// their own namespace; includes are never reported. Both copies are still
// emitted.
func duplicates(decls []parser.Decl) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]bool)

	for _, d := range decls {
		var key, name string
		switch d := d.(type) {
		case parser.Define:
			key, name = "ident:"+d.Name, d.Name
		case parser.Global:
			key, name = "ident:"+d.Name, d.Name
		case parser.Function:
			key, name = "ident:"+d.Name, d.Name
		case parser.Struct:
			key, name = "struct:"+d.Name, "struct "+d.Name
		default:
			continue
		}
		if seen[key] {
			diags = append(diags, Diagnostic{Msg: fmt.Sprintf("duplicate declaration of %s; all copies emitted", name)})
			continue
		}
		seen[key] = true
	}

	return diags
}
