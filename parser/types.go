package parser

// Decl is one top-level declaration. The set of implementations is closed:
// Include, Define, Struct, Global and Function.
type Decl interface {
	decl()
	Offset() int
}

type Include struct {
	Pos  int
	Name string
}

type Define struct {
	Pos   int
	Name  string
	Value string
}

type Field struct {
	Type string
	Name string
}

type Struct struct {
	Pos    int
	Name   string
	Fields []Field
}

type Global struct {
	Pos   int
	Type  string
	Name  string
	Value string
}

type Param struct {
	Type      string
	Name      string
	IsPointer bool
}

// Function holds a function definition. ReturnType is nil when the source
// used the generic fn marker. Body is the raw statement text between the
// outer braces.
type Function struct {
	Pos        int
	Name       string
	ReturnType *string
	Params     []Param
	Body       string
}

func (Include) decl()  {}
func (Define) decl()   {}
func (Struct) decl()   {}
func (Global) decl()   {}
func (Function) decl() {}

func (d Include) Offset() int  { return d.Pos }
func (d Define) Offset() int   { return d.Pos }
func (d Struct) Offset() int   { return d.Pos }
func (d Global) Offset() int   { return d.Pos }
func (d Function) Offset() int { return d.Pos }

// Diagnostic describes a construct the scanner skipped.
type Diagnostic struct {
	Pos  int
	Line int
	Msg  string
}

type Program struct {
	Decls       []Decl
	Diagnostics []Diagnostic
}

// Count reports how many declarations of each kind the program holds.
type Count struct {
	Includes  int
	Defines   int
	Structs   int
	Globals   int
	Functions int
}

func (p *Program) Count() Count {
	var c Count
	for _, d := range p.Decls {
		switch d.(type) {
		case Include:
			c.Includes++
		case Define:
			c.Defines++
		case Struct:
			c.Structs++
		case Global:
			c.Globals++
		case Function:
			c.Functions++
		}
	}
	return c
}
