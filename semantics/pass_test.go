package semantics

import (
	"errors"
	"github.com/hfmohammed/compiler/parser"
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		expect error
	}{
		{
			name:  "return",
			input: "function f() returns integer { return 1; }",
		},
		{
			name:  "expression body",
			input: "function f(integer x) returns integer = x + 1;",
		},
		{
			name:  "if else",
			input: "function f(integer x) returns integer { if (x < 0) return 0; else if (x == 0) { return 1; } else return 2; }",
		},
		{
			name:  "infinite loop",
			input: "function f() returns integer { loop { } }",
		},
		{
			name:  "nested loop break",
			input: "function f() returns integer { loop { loop { break; } } }",
		},
		{
			name:  "procedure",
			input: "procedure p() { }",
		},
		{
			name:   "empty body",
			input:  "function f() returns integer { }",
			expect: ErrMissingReturn,
		},
		{
			name:   "if without else",
			input:  "function f(integer x) returns integer { if (x < 0) return 0; }",
			expect: ErrMissingReturn,
		},
		{
			name:   "else if falls through",
			input:  "function f(integer x) returns integer { if (x < 0) return 0; else if (x == 0) x = 1; else return 2; }",
			expect: ErrMissingReturn,
		},
		{
			name:   "infinite loop with break",
			input:  "function f() returns integer { loop { if (true) break; } }",
			expect: ErrMissingReturn,
		},
		{
			name:   "pre loop",
			input:  "function f() returns integer { loop while (true) { return 1; } }",
			expect: ErrMissingReturn,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := parser.ParseFile(parser.LexerTokenSource(strings.NewReader(tc.input)), parser.PanicErrHandler)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			err = Analyze(f)
			if tc.expect == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.expect) {
				t.Fatalf("expected %v, got %v", tc.expect, err)
			}
		})
	}
}
