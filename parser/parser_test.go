package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// stripPos zeroes the source offsets so tests can compare shapes.
func stripPos(decls []Decl) []Decl {
	out := make([]Decl, 0, len(decls))
	for _, d := range decls {
		switch d := d.(type) {
		case Include:
			d.Pos = 0
			out = append(out, d)
		case Define:
			d.Pos = 0
			out = append(out, d)
		case Struct:
			d.Pos = 0
			out = append(out, d)
		case Global:
			d.Pos = 0
			out = append(out, d)
		case Function:
			d.Pos = 0
			out = append(out, d)
		}
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Decl
	}{
		{
			name:  "include",
			input: "include <stdio>\ninclude <math.h>",
			want: []Decl{
				Include{Name: "stdio"},
				Include{Name: "math.h"},
			},
		},
		{
			name:  "define",
			input: "def:MAX_PLAYERS = 4 * 2 ;",
			want: []Decl{
				Define{Name: "MAX_PLAYERS", Value: "4 * 2"},
			},
		},
		{
			name:  "record type",
			input: "struct:Player = {\n    int:hp;\n    int:score;\n};",
			want: []Decl{
				Struct{Name: "Player", Fields: []Field{
					{Type: "int", Name: "hp"},
					{Type: "int", Name: "score"},
				}},
			},
		},
		{
			name:  "record type drops fields without a separator",
			input: "struct:P = { int:x; junk; char:*name; }",
			want: []Decl{
				Struct{Name: "P", Fields: []Field{
					{Type: "int", Name: "x"},
					{Type: "char", Name: "*name"},
				}},
			},
		},
		{
			name:  "globals",
			input: "int:score_multiplier = 100;\nstruct:Player:hero = {0};\nchar:*title = \"a;b\";",
			want: []Decl{
				Global{Type: "int", Name: "score_multiplier", Value: "100"},
				Global{Type: "struct Player", Name: "hero", Value: "{0}"},
				Global{Type: "char *", Name: "title", Value: `"a;b"`},
			},
		},
		{
			name:  "global with parenthesized value",
			input: "int:total = (1 + 2) * 3;",
			want: []Decl{
				Global{Type: "int", Name: "total", Value: "(1 + 2) * 3"},
			},
		},
		{
			name:  "generic function",
			input: "fn:greet = (char:*name) => {\n    printf(\"hi %s\", name);\n}",
			want: []Decl{
				Function{
					Name:   "greet",
					Params: []Param{{Type: "char *", Name: "name", IsPointer: true}},
					Body:   "printf(\"hi %s\", name);",
				},
			},
		},
		{
			name:  "typed function",
			input: "int:add = (int:a | int:b) => { return a + b; }",
			want: []Decl{
				Function{
					Name:       "add",
					ReturnType: strPtr("int"),
					Params:     []Param{{Type: "int", Name: "a"}, {Type: "int", Name: "b"}},
					Body:       "return a + b;",
				},
			},
		},
		{
			name:  "multi part return type",
			input: "struct:Player:spawn = () => { }",
			want: []Decl{
				Function{Name: "spawn", ReturnType: strPtr("struct Player"), Body: ""},
			},
		},
		{
			name:  "duplicates are kept in order",
			input: "int:x = 1;\nint:x = 2;",
			want: []Decl{
				Global{Type: "int", Name: "x", Value: "1"},
				Global{Type: "int", Name: "x", Value: "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := Parse(tt.input)
			assert.Equal(t, tt.want, stripPos(prog.Decls))
			assert.Empty(t, prog.Diagnostics)
		})
	}
}

func TestParseBodyStatementsAreNotGlobals(t *testing.T) {
	src := `
int:limit = 3;

fn:main = () => {
    int:count = 0;
    for:loop = (int:i = 0 | i < limit | i++) => {
        int:tmp = i;
    }
    if:(count == 0) => {
        count = 1;
    }
}
`
	prog := Parse(src)

	require.Len(t, prog.Decls, 2)
	assert.Equal(t, Global{Type: "int", Name: "limit", Value: "3"}, stripPos(prog.Decls)[0])

	fn, ok := prog.Decls[1].(Function)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.Nil(t, fn.ReturnType)
	assert.Contains(t, fn.Body, "int:tmp = i;")
}

func TestParseControlFormOutsideFunction(t *testing.T) {
	src := "for:loop = (int:i = 0 | i < 3 | i++) => {\n int:x = 1;\n}\nint:y = 2;\nif:(y) => { int:z = 3; }"
	prog := Parse(src)

	assert.Equal(t, []Decl{Global{Type: "int", Name: "y", Value: "2"}}, stripPos(prog.Decls))
	require.Len(t, prog.Diagnostics, 2)
	assert.Contains(t, prog.Diagnostics[0].Msg, "for")
	assert.Contains(t, prog.Diagnostics[1].Msg, "if")
}

func TestParseUnbalancedFunction(t *testing.T) {
	src := "int:before = 1;\nfn:broken = () => {\n    if:(x) => {\n}\nint:after = 2;"
	prog := Parse(src)

	assert.Equal(t, []Decl{Global{Type: "int", Name: "before", Value: "1"}}, stripPos(prog.Decls))
	require.Len(t, prog.Diagnostics, 1)
	assert.Contains(t, prog.Diagnostics[0].Msg, "broken")
	assert.Contains(t, prog.Diagnostics[0].Msg, ErrUnbalanced.Error())
	assert.Equal(t, 2, prog.Diagnostics[0].Line)
}

func TestParseUnbalancedStruct(t *testing.T) {
	prog := Parse("struct:S = { int:a;")

	assert.Empty(t, prog.Decls)
	require.Len(t, prog.Diagnostics, 1)
	assert.Contains(t, prog.Diagnostics[0].Msg, "struct S")
}

func TestParseMalformedInputTerminates(t *testing.T) {
	inputs := []string{
		"int:",
		"int:x =",
		"fn:f = (",
		"fn:f = (a | b) =>",
		"include <",
		"def:X = 1",
		"struct:S = {{{{",
		"::::====;;;;}}}}{{{{",
		"for:loop = ((((",
		strings.Repeat("fn:f = () => {", 50),
		"match:(x) => { 1 => a }",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() { Parse(in) }, in)
	}
}

func TestParseOffsets(t *testing.T) {
	src := "include <stdio>\n\nint:x = 1;"
	prog := Parse(src)

	require.Len(t, prog.Decls, 2)
	assert.Equal(t, 0, prog.Decls[0].Offset())
	assert.Equal(t, strings.Index(src, "int:x"), prog.Decls[1].Offset())
}

func TestProgramCount(t *testing.T) {
	src := `
include <stdio>
def:N = 3;
struct:P = { int:a; };
int:g = 1;
fn:f = () => { }
int:main = () => { return 0; }
`
	assert.Equal(t, Count{Includes: 1, Defines: 1, Structs: 1, Globals: 1, Functions: 2}, Parse(src).Count())
}
