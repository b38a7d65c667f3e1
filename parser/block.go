package parser

import (
	"errors"
	"strings"
)

var (
	ErrNotBlockStart = errors.New("not a block start")
	ErrUnbalanced    = errors.New("unbalanced block")
)

// ExtractBlock returns the trimmed text between the brace at text[pos] and
// its matching closer, and the offset just past that closer.
//
// When text[pos] is not '{' it returns ErrNotBlockStart and pos unchanged.
// When the input ends first it returns ErrUnbalanced and the offset it
// reached, which is always greater than pos.
func ExtractBlock(text string, pos int) (string, int, error) {
	if pos < 0 || pos >= len(text) || text[pos] != '{' {
		return "", pos, ErrNotBlockStart
	}

	depth := 1
	i := pos + 1
	for ; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return strings.TrimSpace(text[pos+1 : i]), i + 1, nil
		}
	}

	return "", i, ErrUnbalanced
}
