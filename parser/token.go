package parser

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota

	IDENT
	STRING // "..." or '...', kept whole

	// Declaration keywords
	INCLUDE
	DEF
	STRUCT
	FN

	// Control keywords. These never start a declaration.
	FOR
	IF
	MATCH

	COLON     // :
	ASSIGN    // =
	ARROW     // =>
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LANGLE    // <
	RANGLE    // >
	SEMICOLON // ;
	PIPE      // |
	STAR      // *
	OTHER     // anything else, including two-rune operators like == and <=
)

var tokenNames = [...]string{
	EOF:       "EOF",
	IDENT:     "IDENT",
	STRING:    "STRING",
	INCLUDE:   "INCLUDE",
	DEF:       "DEF",
	STRUCT:    "STRUCT",
	FN:        "FN",
	FOR:       "FOR",
	IF:        "IF",
	MATCH:     "MATCH",
	COLON:     "COLON",
	ASSIGN:    "ASSIGN",
	ARROW:     "ARROW",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LANGLE:    "LANGLE",
	RANGLE:    "RANGLE",
	SEMICOLON: "SEMICOLON",
	PIPE:      "PIPE",
	STAR:      "STAR",
	OTHER:     "OTHER",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsControl reports whether tt is one of the reserved control-form keywords.
func (tt TokenType) IsControl() bool {
	return tt == FOR || tt == IF || tt == MATCH
}

// Token is a single lexical unit. Pos is the byte offset of the first byte
// of Lexeme in the source.
type Token struct {
	Type   TokenType
	Lexeme string
	Pos    int
	Line   int
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Lexeme)
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
