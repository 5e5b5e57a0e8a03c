package lexer

import (
	"fmt"
	"io"
	"unicode"
)

func isWhitespace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

func isLetter(char byte) bool {
	return 'a' <= char && char <= 'z' || 'A' <= char && char <= 'Z' || char == '_'
}

func isDigit(char byte) bool {
	return '0' <= char && char <= '9'
}

// readASCIISource reads the complete source and ensures it only
// consists of ASCII characters.
func readASCIISource(src io.Reader) ([]byte, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("could not read source: %v", err)
	}

	for i, b := range buf {
		// currently only UTF-8 encoded ASCII characters are supported
		if b > unicode.MaxASCII {
			return nil, fmt.Errorf("invalid input: byte %d (0x%x) is not a valid ASCII character", i, b)
		}
	}

	return buf, nil
}

// escapes maps the character following a backslash
// to the character it denotes.
var escapes = map[byte]byte{
	'0':  0,
	'a':  '\a',
	'b':  '\b',
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
}
