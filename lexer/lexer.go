package lexer

import (
	"github.com/hfmohammed/compiler/token"
	"io"
)

// operators maps the spelling of every operator and delimiter to its token.Type.
// Two character operators take precedence over single character ones.
var operators = map[string]token.Type{
	"==": token.Equal,
	"!=": token.NotEqual,
	"<=": token.LessThanEqual,
	">=": token.GreaterThanEqual,
	"**": token.DotMul,
	"||": token.Concat,
	"->": token.StreamOut,
	"<-": token.StreamIn,
	"..": token.Range,

	"=": token.Assign,
	"<": token.LessThan,
	">": token.GreaterThan,
	"+": token.Sum,
	"-": token.Sub,
	"*": token.Mul,
	"/": token.Div,
	"%": token.Mod,
	"^": token.Exp,
	".": token.Dot,
	",": token.Comma,
	";": token.Semicolon,
	"(": token.LParen,
	")": token.RParen,
	"{": token.LBrace,
	"}": token.RBrace,
	"[": token.LBracket,
	"]": token.RBracket,
}

// The Lexer reads the source code and produces lexical tokens.
type Lexer struct {
	// src is the complete source the Lexer is reading from
	src []byte
	// pos is the index of the next unread character in src
	pos int
	// row and column point to the next unread character in the source file.
	row, column int
	// err is set when the source could not be read,
	// it is reported once through an token.Illegal token.
	err error
	// prev is the type of the previously produced token, it is
	// required to distinguish tuple access (t.1) from real literals (.1).
	prev token.Type
	// member is set if the previous token is a tuple position (the 1 in t.1)
	member bool
	// stack contains the characters consumed from the source
	// which are being matched to a token.
	stack *stack
}

// New creates and initializes the Lexer.
func New(src io.Reader) *Lexer {
	buf, err := readASCIISource(src)
	return &Lexer{
		src:    buf,
		err:    err,
		row:    1,
		column: 1,
		stack:  newStack(),
	}
}

// Next reads the underlying source until a token is discovered.
// When the underlying source has been read to completion a
// token.Token of token.Type token.EOF is returned.
// When the Lexer is unable to recognize a token.Token,
// a token.Token of token.Type token.Illegal is returned.
func (l *Lexer) Next() token.Token {
	t := l.next()
	if t.Type != token.Comment {
		l.member = l.prev == token.Dot && t.Type == token.IntegerLit
		l.prev = t.Type
	}
	return t
}

func (l *Lexer) next() token.Token {
	if l.err != nil {
		err := l.err
		l.err = nil
		l.src = nil
		return token.Token{Type: token.Illegal, Literal: err.Error(), Position: l.position()}
	}

	// skip leading whitespace
	l.skipWhitespace()
	l.stack.clear()

	pos := l.position()
	c := l.peekChar(0)

	switch {
	case c == 0 && l.pos >= len(l.src):
		return token.Token{Type: token.EOF, Position: pos}
	case isLetter(c):
		return l.identifier(pos)
	case isDigit(c):
		return l.number(pos)
	case c == '.' && isDigit(l.peekChar(1)) && !l.afterOperand():
		return l.number(pos)
	case c == '\'':
		return l.character(pos)
	case c == '"':
		return l.string(pos)
	case c == '/' && l.peekChar(1) == '/':
		return l.lineComment(pos)
	case c == '/' && l.peekChar(1) == '*':
		return l.blockComment(pos)
	}

	if l.pos+1 < len(l.src) {
		if t, ok := operators[string(l.src[l.pos:l.pos+2])]; ok {
			l.readChar()
			l.readChar()
			return token.Token{Type: t, Literal: string(t), Position: pos}
		}
	}
	if t, ok := operators[string(c)]; ok {
		l.readChar()
		return token.Token{Type: t, Literal: string(t), Position: pos}
	}

	l.readChar()
	return token.Token{Type: token.Illegal, Literal: string(c), Position: pos}
}

// identifier has the form /([a-zA-Z_])([a-zA-Z0-9_])*/
// Some identifiers are keywords.
func (l *Lexer) identifier(pos token.Position) token.Token {
	for isLetter(l.peekChar(0)) || isDigit(l.peekChar(0)) {
		l.stack.push(l.readChar())
	}
	literal := l.stack.String()
	return token.Token{Type: token.LookupIdentifier(literal), Literal: literal, Position: pos}
}

// number recognizes integer, real and generator literals.
//
//	integer   /[0-9]+/
//	real      /[0-9]*\.[0-9]*([eE][+-]?[0-9]+)?/ or /[0-9]+[eE][+-]?[0-9]+/
//	generator /[0-9]+\.[0-9]+\.[0-9]+/
//
// A '.' directly followed by another '.' is a range operator and
// terminates an integer literal (1..5).
func (l *Lexer) number(pos token.Position) token.Token {
	l.digits()

	// tuple access such as t.1 only allows integer positions
	if l.prev == token.Dot {
		return l.literal(token.IntegerLit, pos)
	}

	if l.peekChar(0) == '.' && l.peekChar(1) == '.' {
		return l.literal(token.IntegerLit, pos)
	}

	if l.peekChar(0) != '.' {
		if l.exponent() {
			return l.literal(token.RealLit, pos)
		}
		return l.literal(token.IntegerLit, pos)
	}

	intDigits := l.stack.len()
	l.stack.push(l.readChar())
	fracDigits := l.digits()

	// exactly two '.' separators, each followed by digits
	if intDigits > 0 && fracDigits > 0 && l.peekChar(0) == '.' && isDigit(l.peekChar(1)) {
		l.stack.push(l.readChar())
		l.digits()
		return l.literal(token.GeneratorLit, pos)
	}

	l.exponent()
	return l.literal(token.RealLit, pos)
}

func (l *Lexer) digits() int {
	n := 0
	for isDigit(l.peekChar(0)) {
		l.stack.push(l.readChar())
		n++
	}
	return n
}

func (l *Lexer) exponent() bool {
	c := l.peekChar(0)
	if c != 'e' && c != 'E' {
		return false
	}
	switch {
	case isDigit(l.peekChar(1)):
		l.stack.push(l.readChar())
	case (l.peekChar(1) == '+' || l.peekChar(1) == '-') && isDigit(l.peekChar(2)):
		l.stack.push(l.readChar())
		l.stack.push(l.readChar())
	default:
		return false
	}
	l.digits()
	return true
}

// character literals contain exactly one (possibly escaped) character
// enclosed in single quotes. The quotes are not part of the literal.
func (l *Lexer) character(pos token.Position) token.Token {
	// consume the opening quote
	l.readChar()

	if !l.quotedChar('\'') {
		return l.illegal(pos)
	}
	if l.peekChar(0) != '\'' {
		return l.illegal(pos)
	}
	l.readChar()

	return l.literal(token.CharacterLit, pos)
}

// string literals are enclosed in double quotes and may not span multiple lines.
// Escape sequences are decoded, the quotes are not part of the literal.
func (l *Lexer) string(pos token.Position) token.Token {
	// consume the opening quote
	l.readChar()

	for l.peekChar(0) != '"' {
		if !l.quotedChar('"') {
			return l.illegal(pos)
		}
	}
	l.readChar()

	return l.literal(token.StringLit, pos)
}

// quotedChar reads a single, possibly escaped, character
// within a quoted literal and pushes the decoded value.
func (l *Lexer) quotedChar(quote byte) bool {
	c := l.peekChar(0)
	if l.pos >= len(l.src) || c == '\n' || c == quote {
		return false
	}
	l.readChar()

	if c != '\\' {
		l.stack.push(c)
		return true
	}

	decoded, ok := escapes[l.peekChar(0)]
	if !ok {
		return false
	}
	l.readChar()
	l.stack.push(decoded)
	return true
}

func (l *Lexer) lineComment(pos token.Position) token.Token {
	for l.pos < len(l.src) && l.peekChar(0) != '\n' {
		l.stack.push(l.readChar())
	}
	return l.literal(token.Comment, pos)
}

func (l *Lexer) blockComment(pos token.Position) token.Token {
	// consume the "/*"
	l.stack.push(l.readChar())
	l.stack.push(l.readChar())

	for !(l.peekChar(0) == '*' && l.peekChar(1) == '/') {
		if l.pos >= len(l.src) {
			return l.illegal(pos)
		}
		l.stack.push(l.readChar())
	}
	l.stack.push(l.readChar())
	l.stack.push(l.readChar())

	return l.literal(token.Comment, pos)
}

func (l *Lexer) literal(t token.Type, pos token.Position) token.Token {
	return token.Token{Type: t, Literal: l.stack.String(), Position: pos}
}

func (l *Lexer) illegal(pos token.Position) token.Token {
	return token.Token{Type: token.Illegal, Literal: l.stack.String(), Position: pos}
}

// afterOperand reports whether the previous token ends an operand,
// in which case a '.' is a member access and not the start of a real literal.
func (l *Lexer) afterOperand() bool {
	switch l.prev {
	case token.Identifier, token.RParen, token.RBracket:
		return true
	case token.IntegerLit:
		return l.member
	}
	return false
}

func (l *Lexer) position() token.Position {
	return token.Position{Row: l.row, Col: l.column}
}

func (l *Lexer) readChar() byte {
	if l.pos >= len(l.src) {
		return 0
	}

	c := l.src[l.pos]
	l.pos++
	l.row, l.column = updatePosition(c, l.row, l.column)

	return c
}

func (l *Lexer) peekChar(ahead int) byte {
	if l.pos+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.pos+ahead]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isWhitespace(l.peekChar(0)) {
		l.readChar()
	}
}

func updatePosition(char byte, row, col int) (int, int) {
	switch char {
	case '\n':
		return row + 1, 1
	}
	return row, col + 1
}
