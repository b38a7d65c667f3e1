package generator

import (
	"fmt"
	"regexp"
	"strings"
)

var loopRe = regexp.MustCompile(`^for:loop\s*=\s*\(\s*(.+?)\s*\|\s*(.+?)\s*\|\s*(.+?)\s*\)\s*=>\s*\{?$`)
var eachRe = regexp.MustCompile(`^for:each\s*=\s*\(\s*([^|]+?)\s*\|\s*([^|]+?)(?:\s*\|\s*([^|]+?))?\s*\)\s*=>\s*\{?$`)
var ifRe = regexp.MustCompile(`^if:\s*\(\s*(.+?)\s*\)\s*=>\s*\{?$`)
var declRe = regexp.MustCompile(`^([A-Za-z_]\w*(?::[A-Za-z_]\w*)*\**):(\**[A-Za-z_]\w*)\s*=(.*)$`)

const indentUnit = "    "

// Diagnostic describes a body line that was not fully translated.
type Diagnostic struct {
	Func string
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	switch {
	case d.Func == "" && d.Line == 0:
		return d.Msg
	case d.Func == "":
		return fmt.Sprintf("line %d: %s", d.Line, d.Msg)
	}
	return fmt.Sprintf("%s: line %d: %s", d.Func, d.Line, d.Msg)
}

// Transpiler rewrites function bodies line by line.
type Transpiler struct {
	bounds Bounds
}

func NewTranspiler(bounds Bounds) *Transpiler {
	return &Transpiler{bounds: bounds}
}

// body is the per-call state of Transpile.
type body struct {
	out   []string
	diags []Diagnostic
	line  int

	depth int

	// matchDepth is the brace depth inside a match block whose lines are
	// being commented out; zero when not inside one.
	matchDepth int
}

func (b *body) emit(format string, args ...any) {
	b.out = append(b.out, strings.Repeat(indentUnit, b.depth)+fmt.Sprintf(format, args...))
}

func (b *body) warn(format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{Line: b.line, Msg: fmt.Sprintf(format, args...)})
}

// Transpile converts the raw body of a function into C statements
// indented from depth zero. Every block it opens is closed, including
// blocks left open by the input.
func (t *Transpiler) Transpile(src string) (string, []Diagnostic) {
	b := &body{}

	for i, raw := range strings.Split(src, "\n") {
		b.line = i + 1
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		t.line(b, line)
	}

	for b.depth > 0 {
		b.depth--
		b.emit("}")
	}

	return strings.Join(b.out, "\n"), b.diags
}

func (t *Transpiler) line(b *body, line string) {
	if b.matchDepth > 0 {
		b.matchDepth += strings.Count(line, "{") - strings.Count(line, "}")
		b.emit("// %s", line)
		return
	}

	if m := loopRe.FindStringSubmatch(line); m != nil {
		b.emit("for (%s; %s; %s) {", normalizeDecl(m[1]), m[2], m[3])
		b.depth++
		return
	}

	if m := eachRe.FindStringSubmatch(line); m != nil {
		t.each(b, m[1], m[2], m[3])
		return
	}

	if m := ifRe.FindStringSubmatch(line); m != nil {
		b.emit("if (%s) {", m[1])
		b.depth++
		return
	}

	if strings.HasPrefix(line, "match:") {
		b.emit("/* match not yet transpiled: %s */", line)
		b.warn("match not yet transpiled")
		if strings.HasSuffix(line, "{") {
			b.matchDepth = 1
		}
		return
	}

	t.verbatim(b, normalizeDecl(line))
}

// verbatim emits a line that is not notation. Every brace it opens or
// closes moves the depth; closers with nothing left to close are moved
// into an unmatched comment.
func (t *Transpiler) verbatim(b *body, line string) {
	kept, surplus, low, end := scanBraces(line, b.depth)

	if kept != "" {
		b.depth = low
		b.emit("%s", kept)
	}
	b.depth = end

	if surplus > 0 {
		b.emit("/* unmatched: %s */", strings.Repeat("}", surplus))
		b.warn("unmatched closing brace")
	}
}

// scanBraces walks the braces of line starting at depth, skipping quoted
// literals and a trailing line comment. It returns the line without its
// surplus closers, the number of surplus closers, and the lowest and final
// depth reached.
func scanBraces(line string, depth int) (kept string, surplus, low, end int) {
	var sb strings.Builder
	low, end = depth, depth

	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(line) {
				sb.WriteByte(c)
				i++
				c = line[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			sb.WriteString(line[i:])
			return strings.TrimSpace(sb.String()), surplus, low, end
		case c == '{':
			end++
		case c == '}':
			if end == 0 {
				surplus++
				continue
			}
			end--
			low = min(low, end)
		}
		sb.WriteByte(c)
	}

	return strings.TrimSpace(sb.String()), surplus, low, end
}

// each emits an indexed loop over coll with one element binding.
func (t *Transpiler) each(b *body, coll, elem, index string) {
	idx := "i"
	if index = strings.TrimSpace(index); index != "" {
		idx = index
		if k := strings.LastIndex(index, ":"); k != -1 {
			idx = strings.TrimSpace(index[k+1:])
		}
	}

	bound, ok := t.bounds.Lookup(coll)
	if !ok {
		bound = placeholderBound(coll)
		b.warn("unmapped collection %q: loop bound needs manual completion", coll)
	}

	typ, name := "void", strings.TrimLeft(elem, "* ")
	pointer := true
	if k := strings.LastIndex(elem, ":"); k != -1 {
		typePart := strings.TrimSpace(elem[:k])
		namePart := strings.TrimSpace(elem[k+1:])
		pointer = strings.HasPrefix(namePart, "*") || strings.HasSuffix(typePart, "*")
		typ = normalizeType(strings.TrimRight(typePart, "* "))
		name = strings.TrimLeft(namePart, "* ")
	}

	star := ""
	if pointer {
		star = "*"
	}

	b.emit("for (int %s = 0; %s < %s; %s++) {", idx, idx, bound, idx)
	b.depth++
	b.emit("%s %s%s = &%s[%s];", typ, star, name, coll, idx)
}

// normalizeDecl rewrites a leading "type:name = value" into
// "type name = value". Other text is returned unchanged.
func normalizeDecl(s string) string {
	m := declRe.FindStringSubmatch(s)
	if m == nil || strings.HasPrefix(m[3], "=") {
		return s
	}
	return normalizeType(m[1]) + " " + m[2] + " =" + m[3]
}

// normalizeType turns a colon-separated type path into its C spelling.
func normalizeType(t string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(t, ":", " ")), " ")
}
