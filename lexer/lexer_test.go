package lexer

import (
	"github.com/hfmohammed/compiler/token"
	"strings"
	"testing"
)

func TestLexer_Next(t *testing.T) {
	program := `
const integer dec = 1;
var real r = 2.5;
function add(integer a, integer b) returns integer {
	return a + b;
}
`

	expect := []token.Token{
		{Type: token.Const, Literal: "const"},
		{Type: token.Integer, Literal: "integer"},
		{Type: token.Identifier, Literal: "dec"},
		{Type: token.Assign, Literal: "="},
		{Type: token.IntegerLit, Literal: "1"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.Var, Literal: "var"},
		{Type: token.Real, Literal: "real"},
		{Type: token.Identifier, Literal: "r"},
		{Type: token.Assign, Literal: "="},
		{Type: token.RealLit, Literal: "2.5"},
		{Type: token.Semicolon, Literal: ";"},

		{Type: token.Function, Literal: "function"},
		{Type: token.Identifier, Literal: "add"},
		{Type: token.LParen, Literal: "("},
		{Type: token.Integer, Literal: "integer"},
		{Type: token.Identifier, Literal: "a"},
		{Type: token.Comma, Literal: ","},
		{Type: token.Integer, Literal: "integer"},
		{Type: token.Identifier, Literal: "b"},
		{Type: token.RParen, Literal: ")"},
		{Type: token.Returns, Literal: "returns"},
		{Type: token.Integer, Literal: "integer"},
		{Type: token.LBrace, Literal: "{"},
		{Type: token.Return, Literal: "return"},
		{Type: token.Identifier, Literal: "a"},
		{Type: token.Sum, Literal: "+"},
		{Type: token.Identifier, Literal: "b"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.RBrace, Literal: "}"},

		{Type: token.EOF, Literal: ""},
	}

	expectTokens(t, New(strings.NewReader(program)), expect)
}

func TestLexer_Empty(t *testing.T) {
	expectTokens(t, New(strings.NewReader("")), []token.Token{
		{Type: token.EOF, Literal: ""},
	})
}

func TestLexer_Position(t *testing.T) {
	l := New(strings.NewReader("integer x;\n  x -> std_output;"))

	expect := []token.Position{
		{Row: 1, Col: 1},
		{Row: 1, Col: 9},
		{Row: 1, Col: 10},
		{Row: 2, Col: 3},
		{Row: 2, Col: 5},
		{Row: 2, Col: 8},
		{Row: 2, Col: 18},
	}

	for i, pos := range expect {
		next := l.Next()
		if next.Position != pos {
			t.Fatalf("#%d (%s): expected position %s, got %s", i, next.Literal, pos, next.Position)
		}
	}
}

func TestLexer_OperatorTokens(t *testing.T) {
	cases := []struct {
		input  string
		expect token.Token
	}{
		{input: "=", expect: token.Token{Type: token.Assign, Literal: "="}},
		{input: "==", expect: token.Token{Type: token.Equal, Literal: "=="}},
		{input: "!=", expect: token.Token{Type: token.NotEqual, Literal: "!="}},
		{input: "<", expect: token.Token{Type: token.LessThan, Literal: "<"}},
		{input: "<=", expect: token.Token{Type: token.LessThanEqual, Literal: "<="}},
		{input: ">", expect: token.Token{Type: token.GreaterThan, Literal: ">"}},
		{input: ">=", expect: token.Token{Type: token.GreaterThanEqual, Literal: ">="}},
		{input: "+", expect: token.Token{Type: token.Sum, Literal: "+"}},
		{input: "-", expect: token.Token{Type: token.Sub, Literal: "-"}},
		{input: "*", expect: token.Token{Type: token.Mul, Literal: "*"}},
		{input: "**", expect: token.Token{Type: token.DotMul, Literal: "**"}},
		{input: "/", expect: token.Token{Type: token.Div, Literal: "/"}},
		{input: "%", expect: token.Token{Type: token.Mod, Literal: "%"}},
		{input: "^", expect: token.Token{Type: token.Exp, Literal: "^"}},
		{input: "||", expect: token.Token{Type: token.Concat, Literal: "||"}},
		{input: "..", expect: token.Token{Type: token.Range, Literal: ".."}},
		{input: ".", expect: token.Token{Type: token.Dot, Literal: "."}},
		{input: "->", expect: token.Token{Type: token.StreamOut, Literal: "->"}},
		{input: "<-", expect: token.Token{Type: token.StreamIn, Literal: "<-"}},
		{input: "and", expect: token.Token{Type: token.And, Literal: "and"}},
		{input: "or", expect: token.Token{Type: token.Or, Literal: "or"}},
		{input: "xor", expect: token.Token{Type: token.Xor, Literal: "xor"}},
		{input: "not", expect: token.Token{Type: token.Not, Literal: "not"}},
		{input: "by", expect: token.Token{Type: token.By, Literal: "by"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			l := New(strings.NewReader(tc.input))
			expectSingleToken(t, l, tc.expect)
		})
	}
}

func TestLexer_NumericLiterals(t *testing.T) {
	cases := []struct {
		input  string
		expect []token.Token
	}{
		{
			input:  "42",
			expect: []token.Token{{Type: token.IntegerLit, Literal: "42"}},
		},
		{
			input:  "3.14",
			expect: []token.Token{{Type: token.RealLit, Literal: "3.14"}},
		},
		{
			input:  ".5",
			expect: []token.Token{{Type: token.RealLit, Literal: ".5"}},
		},
		{
			input:  "1.",
			expect: []token.Token{{Type: token.RealLit, Literal: "1."}},
		},
		{
			input:  "1e10",
			expect: []token.Token{{Type: token.RealLit, Literal: "1e10"}},
		},
		{
			input:  "2.5e-3",
			expect: []token.Token{{Type: token.RealLit, Literal: "2.5e-3"}},
		},
		{
			input:  "1.2.3",
			expect: []token.Token{{Type: token.GeneratorLit, Literal: "1.2.3"}},
		},
		{
			input: "1..10",
			expect: []token.Token{
				{Type: token.IntegerLit, Literal: "1"},
				{Type: token.Range, Literal: ".."},
				{Type: token.IntegerLit, Literal: "10"},
			},
		},
		{
			input: "t.1",
			expect: []token.Token{
				{Type: token.Identifier, Literal: "t"},
				{Type: token.Dot, Literal: "."},
				{Type: token.IntegerLit, Literal: "1"},
			},
		},
		{
			input: "t.1.2",
			expect: []token.Token{
				{Type: token.Identifier, Literal: "t"},
				{Type: token.Dot, Literal: "."},
				{Type: token.IntegerLit, Literal: "1"},
				{Type: token.Dot, Literal: "."},
				{Type: token.IntegerLit, Literal: "2"},
			},
		},
		{
			input: "3e",
			expect: []token.Token{
				{Type: token.IntegerLit, Literal: "3"},
				{Type: token.Identifier, Literal: "e"},
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			expect := append(tc.expect, token.Token{Type: token.EOF})
			expectTokens(t, New(strings.NewReader(tc.input)), expect)
		})
	}
}

func TestLexer_QuotedLiterals(t *testing.T) {
	cases := []struct {
		input  string
		expect token.Token
	}{
		{input: `'a'`, expect: token.Token{Type: token.CharacterLit, Literal: "a"}},
		{input: `'\n'`, expect: token.Token{Type: token.CharacterLit, Literal: "\n"}},
		{input: `'\''`, expect: token.Token{Type: token.CharacterLit, Literal: "'"}},
		{input: `'\0'`, expect: token.Token{Type: token.CharacterLit, Literal: "\x00"}},
		{input: `"hello"`, expect: token.Token{Type: token.StringLit, Literal: "hello"}},
		{input: `""`, expect: token.Token{Type: token.StringLit, Literal: ""}},
		{input: `"a\tb\"c\\"`, expect: token.Token{Type: token.StringLit, Literal: "a\tb\"c\\"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			l := New(strings.NewReader(tc.input))
			expectSingleToken(t, l, tc.expect)
		})
	}
}

func TestLexer_IllegalInput(t *testing.T) {
	cases := []string{
		`''`,
		`'ab'`,
		`'\q'`,
		`"unterminated`,
		"\"line\nbreak\"",
		`/* never closed`,
		`#`,
		`!`,
	}

	for _, input := range cases {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			next := New(strings.NewReader(input)).Next()
			if next.Type != token.Illegal {
				t.Fatalf("expected illegal token, got '%v'", next)
			}
		})
	}
}

func TestLexer_Comments(t *testing.T) {
	program := `
// line comment
integer /* inline */ x; /* multi
line */
`
	expectTokens(t, New(strings.NewReader(program)), []token.Token{
		{Type: token.Comment, Literal: "// line comment"},
		{Type: token.Integer, Literal: "integer"},
		{Type: token.Comment, Literal: "/* inline */"},
		{Type: token.Identifier, Literal: "x"},
		{Type: token.Semicolon, Literal: ";"},
		{Type: token.Comment, Literal: "/* multi\nline */"},
		{Type: token.EOF, Literal: ""},
	})
}

func TestLexer_Keywords(t *testing.T) {
	for keyword, expect := range keywordsUnderTest() {
		keyword, expect := keyword, expect
		t.Run(keyword, func(t *testing.T) {
			t.Parallel()
			l := New(strings.NewReader(keyword))
			expectSingleToken(t, l, token.Token{Type: expect, Literal: keyword})
		})
	}
}

func keywordsUnderTest() map[string]token.Type {
	return map[string]token.Type{
		"std_output": token.StdOutput,
		"std_input":  token.StdInput,
		"typealias":  token.TypeAlias,
		"procedure":  token.Procedure,
		"returns":    token.Returns,
		"vector":     token.Vector,
		"tuple":      token.Tuple,
		"loop":       token.Loop,
		"integer_":   token.Identifier,
	}
}

func expectTokens(t *testing.T, l *Lexer, expect []token.Token) {
	t.Helper()

	for i, test := range expect {
		next := l.Next()

		if next.Type != test.Type {
			t.Fatalf("#%d bad token type: expected %s, got %s", i, test.Type, next.Type)
		}
		if next.Literal != test.Literal {
			t.Fatalf("#%d bad token literal: expected %q, got %q", i, test.Literal, next.Literal)
		}
	}
}

func expectSingleToken(t *testing.T, l *Lexer, expect token.Token) {
	actualToken := l.Next()

	if actualToken.Type != expect.Type {
		t.Fatalf("expected '%+v', got '%+v", expect, actualToken)
	}

	if actualToken.Literal != expect.Literal {
		t.Fatalf("expected '%+v', got '%+v", expect, actualToken)
	}

	next := l.Next()
	if next.Type != token.EOF {
		t.Fatalf("expected EOF, got '%v'", next)
	}
}
