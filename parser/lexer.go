package parser

// keywords maps source text to its reserved TokenType.
var keywords = map[string]TokenType{
	"include": INCLUDE,
	"def":     DEF,
	"struct":  STRUCT,
	"fn":      FN,
	"for":     FOR,
	"if":      IF,
	"match":   MATCH,
}

var punct = map[byte]TokenType{
	':': COLON,
	'=': ASSIGN,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'<': LANGLE,
	'>': RANGLE,
	';': SEMICOLON,
	'|': PIPE,
	'*': STAR,
}

// lexer holds the state for a single scanning pass over src. It never
// fails: malformed literals and comments run to the end of their line or
// of the input.
type lexer struct {
	src  string
	pos  int
	line int
}

// Lex splits source into tokens. The last token is always EOF.
func Lex(source string) []Token {
	l := &lexer{src: source, line: 1}

	var toks []Token
	for {
		tok := l.next()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *lexer) advance() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		switch c := l.peek(); {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.advance()
		case c == '/' && l.peek2() == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peek2() == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peek() == '*' && l.peek2() == '/') {
				l.advance()
			}
			l.advance()
			l.advance()
		default:
			return
		}
	}
}

func (l *lexer) emit(tt TokenType, start, line int) Token {
	return Token{Type: tt, Lexeme: l.src[start:l.pos], Pos: start, Line: line}
}

func (l *lexer) next() Token {
	l.skipSpaceAndComments()

	start, line := l.pos, l.line
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Pos: len(l.src), Line: l.line}
	}

	c := l.peek()
	switch {
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		tok := l.emit(IDENT, start, line)
		if kw, ok := keywords[tok.Lexeme]; ok {
			tok.Type = kw
		}
		return tok

	case c == '"' || c == '\'':
		l.scanQuoted(c)
		return l.emit(STRING, start, line)

	case c == '=' && l.peek2() == '>':
		l.advance()
		l.advance()
		return l.emit(ARROW, start, line)

	case (c == '=' || c == '<' || c == '>' || c == '!') && l.peek2() == '=':
		l.advance()
		l.advance()
		return l.emit(OTHER, start, line)
	}

	l.advance()
	if tt, ok := punct[c]; ok {
		return l.emit(tt, start, line)
	}
	return l.emit(OTHER, start, line)
}

// scanQuoted consumes a quoted literal including both quotes. An
// unterminated literal stops before the end of its line.
func (l *lexer) scanQuoted(quote byte) {
	l.advance()
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == '\n':
			return
		case c == '\\':
			l.advance()
			if l.peek() != '\n' {
				l.advance()
			}
		case c == quote:
			l.advance()
			return
		default:
			l.advance()
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
