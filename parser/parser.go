package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Parse scans source for top-level declarations. It never fails: constructs
// it cannot recognize are skipped, and constructs whose block never closes
// are dropped and reported in Program.Diagnostics.
func Parse(source string) *Program {
	s := &scanner{src: source, toks: Lex(source)}
	prog := &Program{}

	for i := 0; s.tok(i).Type != EOF; {
		d, next := s.next(i)
		if next <= i {
			panic(fmt.Sprintf("parser: scanner made no progress at token %d", i))
		}
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		i = next
	}
	prog.Diagnostics = s.diags

	return prog
}

type scanner struct {
	src   string
	toks  []Token
	diags []Diagnostic
}

func (s *scanner) tok(i int) Token {
	if i >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[i]
}

func (s *scanner) report(t Token, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{
		Pos:  t.Pos,
		Line: t.Line,
		Msg:  fmt.Sprintf(format, args...),
	})
}

// indexAt returns the index of the first token starting at or after pos.
func (s *scanner) indexAt(pos int) int {
	i := sort.Search(len(s.toks), func(k int) bool { return s.toks[k].Pos >= pos })
	return min(i, len(s.toks)-1)
}

// find returns the index of the first token of type tt at or after i,
// stopping at any token type listed in stop.
func (s *scanner) find(i int, tt TokenType, stop ...TokenType) (int, bool) {
	for ; s.tok(i).Type != EOF; i++ {
		t := s.tok(i).Type
		if t == tt {
			return i, true
		}
		for _, st := range stop {
			if t == st {
				return i, false
			}
		}
	}
	return i, false
}

// next recognizes at most one declaration starting at token i and returns
// it along with the index to resume from, which is always greater than i.
func (s *scanner) next(i int) (Decl, int) {
	switch t := s.tok(i); {
	case t.Type == INCLUDE:
		return s.include(i)
	case t.Type == DEF:
		return s.define(i)
	case t.Type == STRUCT && s.tok(i+1).Type == COLON && s.tok(i+2).Type == IDENT && s.tok(i+3).Type == ASSIGN && s.tok(i+4).Type == LBRACE:
		return s.record(i)
	case t.Type == IDENT || t.Type == STRUCT || t.Type == FN:
		return s.typed(i)
	case t.Type.IsControl():
		return s.control(i)
	}
	return nil, i + 1
}

// include: include <name>
func (s *scanner) include(i int) (Decl, int) {
	lt := s.tok(i + 1)
	if lt.Type != LANGLE {
		return nil, i + 1
	}
	j, ok := s.find(i+2, RANGLE, SEMICOLON, LBRACE, RBRACE)
	if !ok {
		return nil, i + 1
	}
	name := strings.TrimSpace(s.src[lt.End():s.tok(j).Pos])
	if name == "" {
		return nil, j + 1
	}
	return Include{Pos: s.tok(i).Pos, Name: name}, j + 1
}

// define: def:NAME = value;
func (s *scanner) define(i int) (Decl, int) {
	if s.tok(i+1).Type != COLON || s.tok(i+2).Type != IDENT || s.tok(i+3).Type != ASSIGN {
		return nil, i + 1
	}
	value, next, ok := s.value(i + 4)
	if !ok {
		return nil, i + 4
	}
	return Define{Pos: s.tok(i).Pos, Name: s.tok(i + 2).Lexeme, Value: value}, next
}

// record: struct:NAME = { type:name; ... } [;]
func (s *scanner) record(i int) (Decl, int) {
	open := s.tok(i + 4)
	body, end, err := ExtractBlock(s.src, open.Pos)
	if err != nil {
		s.report(open, "struct %s: %v", s.tok(i+2).Lexeme, err)
		return nil, max(s.indexAt(end), i+5)
	}

	next := s.indexAt(end)
	if s.tok(next).Type == SEMICOLON {
		next++
	}

	return Struct{
		Pos:    s.tok(i).Pos,
		Name:   s.tok(i + 2).Lexeme,
		Fields: parseFields(body),
	}, next
}

func parseFields(body string) []Field {
	var fields []Field

	for _, line := range strings.Split(body, ";") {
		line = strings.TrimSpace(line)
		idx := strings.LastIndex(line, ":")
		if line == "" || idx == -1 {
			continue
		}
		typ := strings.TrimSpace(line[:idx])
		name := strings.TrimSpace(line[idx+1:])
		if typ == "" || name == "" {
			continue
		}
		fields = append(fields, Field{Type: typ, Name: name})
	}

	return fields
}

// typed recognizes the forms that start with a type path:
//
//	TYPE:NAME = value;
//	TYPE:NAME = (params) => { body }
//	fn:NAME = (params) => { body }
//
// TYPE is one or more identifiers joined by ':' with an optional trailing
// '*'. The token kinds already exclude control keywords, so for:loop and
// if:(...) headers never reach here.
func (s *scanner) typed(i int) (Decl, int) {
	var path []int
	j := i
	for {
		t := s.tok(j)
		if t.Type != IDENT && t.Type != STRUCT && t.Type != FN {
			return nil, i + 1
		}
		path = append(path, j)
		j++
		for s.tok(j).Type == STAR {
			j++
		}
		if s.tok(j).Type != COLON {
			return nil, i + 1
		}
		j++
		if s.tok(j).Type == STAR {
			j++
		}
		if s.tok(j).Type == IDENT && s.tok(j+1).Type == ASSIGN {
			break
		}
	}

	nameTok := s.tok(j)
	generic := len(path) == 1 && s.tok(i).Type == FN
	typ := normalizeType(s.src[s.tok(i).Pos:s.tok(j-1).Pos])
	// A '*' between the last ':' and the name belongs to the type.
	if s.tok(j-1).Type == STAR {
		typ = normalizeType(s.src[s.tok(i).Pos:s.tok(j-2).Pos]) + " *"
	}
	eq := j + 1

	if s.tok(eq+1).Type == LPAREN {
		if d, next, matched := s.function(i, eq+1, nameTok.Lexeme, typ, generic); matched {
			return d, next
		}
	}
	if generic {
		return nil, eq + 1
	}

	value, next, ok := s.value(eq + 1)
	if !ok {
		return nil, eq + 1
	}
	return Global{Pos: s.tok(i).Pos, Type: typ, Name: nameTok.Lexeme, Value: value}, next
}

// function matches ( params ) => { body } starting at the LPAREN at index
// lp. matched is false when the shape does not fit, letting the caller try
// a global initialized by a parenthesized expression.
func (s *scanner) function(start, lp int, name, typ string, generic bool) (Decl, int, bool) {
	rp, ok := s.find(lp+1, RPAREN, LPAREN, LBRACE, RBRACE, SEMICOLON)
	if !ok || s.tok(rp+1).Type != ARROW || s.tok(rp+2).Type != LBRACE {
		return nil, 0, false
	}

	open := s.tok(rp + 2)
	body, end, err := ExtractBlock(s.src, open.Pos)
	if err != nil {
		s.report(open, "function %s: %v", name, err)
		return nil, max(s.indexAt(end), rp+3), true
	}

	fn := Function{
		Pos:    s.tok(start).Pos,
		Name:   name,
		Params: ParseParams(s.src[s.tok(lp).End():s.tok(rp).Pos]),
		Body:   body,
	}
	if !generic {
		rt := typ
		fn.ReturnType = &rt
	}

	return fn, s.indexAt(end), true
}

// control skips a control form that appears outside any function body:
// the keyword, its parenthesized header and, when present, the block after
// the arrow. None of it is ever read as a declaration.
func (s *scanner) control(i int) (Decl, int) {
	kw := s.tok(i)
	s.report(kw, "%s form outside a function body ignored", kw.Lexeme)

	lp, ok := s.find(i+1, LPAREN, SEMICOLON, LBRACE, RBRACE)
	if !ok {
		return nil, i + 1
	}

	j, depth := lp+1, 1
	for ; s.tok(j).Type != EOF; j++ {
		switch s.tok(j).Type {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if depth != 0 {
		return nil, j
	}

	if s.tok(j+1).Type != ARROW || s.tok(j+2).Type != LBRACE {
		return nil, j + 1
	}
	_, end, _ := ExtractBlock(s.src, s.tok(j+2).Pos)
	return nil, max(s.indexAt(end), j+3)
}

// value returns the trimmed source text from token i up to the next ';'
// and the index just past it.
func (s *scanner) value(i int) (string, int, bool) {
	semi, ok := s.find(i, SEMICOLON)
	if !ok || semi == i {
		return "", 0, false
	}
	text := strings.TrimSpace(s.src[s.tok(i).Pos:s.tok(semi).Pos])
	return text, semi + 1, true
}

// normalizeType turns a colon-separated type path such as "struct:Player"
// into its C spelling "struct Player".
func normalizeType(t string) string {
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, ":")
	return strings.Join(strings.Fields(strings.ReplaceAll(t, ":", " ")), " ")
}
