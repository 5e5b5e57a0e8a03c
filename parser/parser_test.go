package parser

import (
	"bytes"
	"errors"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/constant"
	"github.com/hfmohammed/compiler/token"
	"strings"
	"testing"
)

// -- Helpers

func parse(t *testing.T, src string) *ast.File {
	t.Helper()

	f, err := ParseFile(LexerTokenSource(strings.NewReader(src)), PanicErrHandler, EnableDebug())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f
}

func statementAt[S ast.Statement](t *testing.T, f *ast.File, i int) S {
	t.Helper()

	if len(f.Elements) <= i {
		t.Fatalf("expected at least %d elements, got %d", i+1, len(f.Elements))
	}
	ref, ok := f.Elements[i].(ast.StmtRef)
	if !ok {
		t.Fatalf("expected element %d to be a statement, got %T", i, f.Elements[i])
	}
	s, ok := f.Arena.Stmt(ref).(S)
	if !ok {
		t.Fatalf("expected statement to satisfy %T, got %T", *new(S), f.Arena.Stmt(ref))
	}
	return s
}

func createAssertLiteral[T comparable](expect T) func(*testing.T, *ast.Arena, ast.ExprRef) {
	return func(t *testing.T, a *ast.Arena, r ast.ExprRef) {
		lit, ok := a.Expr(r).(ast.ConstExpression)
		if !ok {
			t.Fatalf("expected literal, got %T", a.Expr(r))
		}
		actual, ok := constant.As[T](lit.Value())
		if !ok {
			t.Fatalf("expected literal of type %T, got %s", expect, lit.Value().Type())
		}
		if actual != expect {
			t.Fatalf("expected literal %v, got %v", expect, actual)
		}
	}
}

func createAssertName(expect string) func(*testing.T, *ast.Arena, ast.IdentRef) {
	return func(t *testing.T, a *ast.Arena, r ast.IdentRef) {
		name, ok := a.Ident(r).(*ast.Name)
		if !ok {
			t.Fatalf("expected name, got %T", a.Ident(r))
		}
		if name.Name != expect {
			t.Fatalf("expected name %s, got %s", expect, name.Name)
		}
	}
}

func createAssertDecl(
	qualifier token.Type,
	typ string,
	assertI func(*testing.T, *ast.Arena, ast.IdentRef),
	assertE func(*testing.T, *ast.Arena, ast.ExprRef),
) func(*testing.T, *ast.Arena, *ast.DeclarationStatement) {
	return func(t *testing.T, a *ast.Arena, d *ast.DeclarationStatement) {
		if d.Qualifier != qualifier {
			t.Fatalf("expected qualifier '%s', got '%s'", qualifier, d.Qualifier)
		}
		if actual := a.FormatType(d.Type); actual != typ {
			t.Fatalf("expected type %s, got %s", typ, actual)
		}
		assertI(t, a, d.Identifier)

		if assertE == nil {
			if d.Value.Valid() {
				t.Fatalf("expected no value, got %s", a.FormatExpr(d.Value))
			}
			return
		}
		assertE(t, a, d.Value)
	}
}

// -- Expressions

func TestParseExpression(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		// precedence
		{input: "1 + 2 * 3", expect: "(1 + (2 * 3))"},
		{input: "1 * 2 + 3", expect: "((1 * 2) + 3)"},
		{input: "1 + 2 * 3 - 4 / 5", expect: "((1 + (2 * 3)) - (4 / 5))"},
		{input: "a or b and c", expect: "(a or (b and c))"},
		{input: "a and b xor c", expect: "((a and b) xor c)"},
		{input: "a == b < c", expect: "(a == (b < c))"},
		{input: "a < b + 1", expect: "(a < (b + 1))"},
		{input: "1 .. 5 by 2", expect: "((1 .. 5) by 2)"},
		{input: "1..n + 1", expect: "((1 .. n) + 1)"},
		{input: "a ** b + c", expect: "((a ** b) + c)"},
		{input: "(1 + 2) * 3", expect: "((1 + 2) * 3)"},

		// associativity
		{input: "1 - 2 - 3", expect: "((1 - 2) - 3)"},
		{input: "2 ^ 3 ^ 2", expect: "(2 ^ (3 ^ 2))"},
		{input: "x || y || z", expect: "(x || (y || z))"},

		// unary
		{input: "-a", expect: "(-a)"},
		{input: "-a * b", expect: "((-a) * b)"},
		{input: "-a ^ 2", expect: "((-a) ^ 2)"},
		{input: "not a and b", expect: "((not a) and b)"},
		{input: "- -1", expect: "(-(-1))"},
		{input: "+x", expect: "(+x)"},

		// identifiers
		{input: "t.1 + p.x", expect: "(t.1 + p.x)"},
		{input: "p.x.y", expect: "p.x.y"},
		{input: "v[i + 1] * 2", expect: "(v[(i + 1)] * 2)"},
		{input: "f(x)[0](y)", expect: "f(x)[0](y)"},
		{input: "f(1, g(2)) + 1", expect: "(f(1, g(2)) + 1)"},
		{input: "a[0].b", expect: "a[0].b"},

		// literals
		{input: "(1, 'c', \"s\")", expect: "(1, 'c', \"s\")"},
		{input: "[1, 2, 3]", expect: "[1, 2, 3]"},
		{input: "[]", expect: "[]"},
		{input: "2.5", expect: "2.5"},
		{input: "true", expect: "true"},
		{input: "1.2.3", expect: "1.2.3"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			f := parse(t, "integer r = "+tc.input+";")
			d := statementAt[*ast.DeclarationStatement](t, f, 0)

			if actual := f.Arena.FormatExpr(d.Value); actual != tc.expect {
				t.Fatalf("expected %s, got %s", tc.expect, actual)
			}
		})
	}
}

func TestParseExpression_Call(t *testing.T) {
	f := parse(t, "integer r = add(2, 3);")
	d := statementAt[*ast.DeclarationStatement](t, f, 0)

	call, ok := f.Arena.Expr(d.Value).(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected call expression, got %T", f.Arena.Expr(d.Value))
	}
	if call.Function != "add" {
		t.Fatalf("expected call of add, got %s", call.Function)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
	createAssertLiteral[int64](2)(t, f.Arena, call.Arguments[0])
	createAssertLiteral[int64](3)(t, f.Arena, call.Arguments[1])
}

func TestParseExpression_MemberAccess(t *testing.T) {
	f := parse(t, "integer r = t.2;")
	d := statementAt[*ast.DeclarationStatement](t, f, 0)

	expr, ok := f.Arena.Expr(d.Value).(*ast.IdentifierExpression)
	if !ok {
		t.Fatalf("expected identifier expression, got %T", f.Arena.Expr(d.Value))
	}

	base := f.Arena.Ident(expr.Identifier)
	createAssertName("t")(t, f.Arena, expr.Identifier)

	member, ok := f.Arena.Ident(base.AccessLink()).(*ast.Name)
	if !ok {
		t.Fatalf("expected member name, got %T", f.Arena.Ident(base.AccessLink()))
	}
	if i, ok := member.TupleIndex(); !ok || i != 1 {
		t.Fatalf("expected tuple index 1, got %d", i)
	}
}

// -- Declarations

func TestParseDeclaration(t *testing.T) {
	cases := []struct {
		input  string
		assert func(*testing.T, *ast.Arena, *ast.DeclarationStatement)
	}{
		{
			input: "integer x = 5;",
			assert: createAssertDecl(
				"", "integer",
				createAssertName("x"),
				createAssertLiteral[int64](5),
			),
		},
		{
			input: "const character c = 'a';",
			assert: createAssertDecl(
				token.Const, "character",
				createAssertName("c"),
				createAssertLiteral[byte]('a'),
			),
		},
		{
			input: "var boolean b;",
			assert: createAssertDecl(
				token.Var, "boolean",
				createAssertName("b"),
				nil,
			),
		},
		{
			input: "var string s = \"hi\";",
			assert: createAssertDecl(
				token.Var, "string",
				createAssertName("s"),
				createAssertLiteral("hi"),
			),
		},
		{
			input: "real[3] v;",
			assert: createAssertDecl(
				"", "real[3]",
				createAssertName("v"),
				nil,
			),
		},
		{
			input: "integer[*][2] m;",
			assert: createAssertDecl(
				"", "integer[*][2]",
				createAssertName("m"),
				nil,
			),
		},
		{
			input: "vector<vector<integer>> v;",
			assert: createAssertDecl(
				"", "vector<vector<integer>>",
				createAssertName("v"),
				nil,
			),
		},
		{
			input: "tuple(integer, real) t;",
			assert: createAssertDecl(
				"", "tuple(integer, real)",
				createAssertName("t"),
				nil,
			),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			f := parse(t, tc.input)
			tc.assert(t, f.Arena, statementAt[*ast.DeclarationStatement](t, f, 0))
		})
	}
}

func TestParseDeclaration_TuplePattern(t *testing.T) {
	f := parse(t, "integer a, b = (1, 2);")
	d := statementAt[*ast.DeclarationStatement](t, f, 0)

	pattern, ok := f.Arena.Ident(d.Identifier).(*ast.TuplePattern)
	if !ok {
		t.Fatalf("expected tuple pattern, got %T", f.Arena.Ident(d.Identifier))
	}
	if len(pattern.Elements) != 2 {
		t.Fatalf("expected 2 names, got %d", len(pattern.Elements))
	}
	createAssertName("a")(t, f.Arena, pattern.Elements[0])
	createAssertName("b")(t, f.Arena, pattern.Elements[1])

	if _, ok := f.Arena.Expr(d.Value).(*ast.TupleLiteral); !ok {
		t.Fatalf("expected tuple literal, got %T", f.Arena.Expr(d.Value))
	}
}

func TestParseDeclaration_Struct(t *testing.T) {
	f := parse(t, `
struct Point(integer x, integer y);
Point p;
struct Pair(character a, real b) pair;
`)

	bare := statementAt[*ast.DeclarationStatement](t, f, 0)
	if bare.Identifier.Valid() {
		t.Fatalf("expected bare struct definition, got %s", f.Arena.FormatIdent(bare.Identifier))
	}
	st, ok := f.Arena.Type(bare.Type).(*ast.StructType)
	if !ok {
		t.Fatalf("expected struct type, got %T", f.Arena.Type(bare.Type))
	}
	if st.Name != "Point" || len(st.Fields) != 2 {
		t.Fatalf("expected struct Point with 2 fields, got %s with %d", st.Name, len(st.Fields))
	}

	createAssertDecl("", "Point", createAssertName("p"), nil)(
		t, f.Arena, statementAt[*ast.DeclarationStatement](t, f, 1),
	)
	createAssertDecl("", "struct Pair(character a, real b)", createAssertName("pair"), nil)(
		t, f.Arena, statementAt[*ast.DeclarationStatement](t, f, 2),
	)
}

func TestParseTypeAlias(t *testing.T) {
	f := parse(t, "typealias tuple(integer, integer) pair; pair p = (1, 2);")

	alias, ok := f.Elements[0].(*ast.TypeAlias)
	if !ok {
		t.Fatalf("expected type alias, got %T", f.Elements[0])
	}
	if alias.Name != "pair" {
		t.Fatalf("expected alias pair, got %s", alias.Name)
	}

	d := statementAt[*ast.DeclarationStatement](t, f, 1)
	if named, ok := f.Arena.Type(d.Type).(*ast.NamedType); !ok || named.Name != "pair" {
		t.Fatalf("expected named type pair, got %s", f.Arena.FormatType(d.Type))
	}
}

// -- Functions

func TestParseFuncDeclaration(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{
			input:  "function add(integer a, integer b) returns integer { return a + b; }",
			expect: "function add(const integer a, const integer b) returns integer\n{\n    return (a + b);\n}\n",
		},
		{
			input:  "function sq(const integer x) returns integer = x * x;",
			expect: "function sq(const integer x) returns integer = (x * x);\n",
		},
		{
			input:  "procedure inc(var integer x) { x = x + 1; }",
			expect: "procedure inc(var integer x)\n{\n    x = (x + 1);\n}\n",
		},
		{
			input:  "procedure show(const integer x, var boolean b) { }",
			expect: "procedure show(const integer x, var boolean b)\n{\n}\n",
		},
		{
			input:  "procedure noop() {}",
			expect: "procedure noop()\n{\n}\n",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			f := parse(t, tc.input)
			fn, ok := f.Elements[0].(*ast.FuncDeclaration)
			if !ok {
				t.Fatalf("expected function declaration, got %T", f.Elements[0])
			}
			if fn.Expression.Valid() == fn.Body.Valid() {
				t.Fatal("expected exactly one of expression and body")
			}
			if actual := f.String(); actual != tc.expect {
				t.Fatalf("expected\n%s\ngot\n%s", tc.expect, actual)
			}
		})
	}
}

// -- Statements

func TestParseStatement(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{
			input:  "if (x < 1) x = 1; else if (x < 2) x = 2; else x = 3;",
			expect: "if (x < 1)\nx = 1;\nelse if (x < 2)\nx = 2;\nelse\nx = 3;\n",
		},
		{
			input:  "if (done) { break; }",
			expect: "if (done)\n{\n    break;\n}\n",
		},
		{
			input:  "loop while (i < 10) { i = i + 1; }",
			expect: "loop while (i < 10)\n{\n    i = (i + 1);\n}\n",
		},
		{
			input:  "loop { continue; } while (not done);",
			expect: "loop\n{\n    continue;\n}\nwhile (not done);\n",
		},
		{
			input:  "loop { break; }",
			expect: "loop\n{\n    break;\n}\n",
		},
		{
			input:  "return;",
			expect: "return;\n",
		},
		{
			input:  "x * 2 -> std_output;",
			expect: "(x * 2) -> std_output;\n",
		},
		{
			input:  "x <- std_input;",
			expect: "x <- std_input;\n",
		},
		{
			input:  "call p(1, x);",
			expect: "call p(1, x);\n",
		},
		{
			input:  "a, b = (b, a);",
			expect: "a, b = (b, a);\n",
		},
		{
			input:  "p.x = t.1;",
			expect: "p.x = t.1;\n",
		},
		{
			input:  "{ integer x = 1; { integer x = 2; } }",
			expect: "{\n    integer x = 1;\n    {\n        integer x = 2;\n    }\n}\n",
		},
		{
			input:  "// comment\ninteger x; /* block */",
			expect: "integer x;\n",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			f := parse(t, tc.input)
			if actual := f.String(); actual != tc.expect {
				t.Fatalf("expected\n%s\ngot\n%s", tc.expect, actual)
			}
		})
	}
}

func TestParseStatement_LoopKinds(t *testing.T) {
	cases := []struct {
		input  string
		expect ast.LoopKind
	}{
		{input: "loop while (true) {}", expect: ast.PreLoop},
		{input: "loop {} while (true);", expect: ast.PostLoop},
		{input: "loop {}", expect: ast.InfiniteLoop},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			f := parse(t, tc.input)
			loop := statementAt[*ast.LoopStatement](t, f, 0)
			if loop.Kind != tc.expect {
				t.Fatalf("expected loop kind %d, got %d", tc.expect, loop.Kind)
			}
			if (loop.Kind == ast.InfiniteLoop) == loop.Condition.Valid() {
				t.Fatal("only infinite loops are expected to have no condition")
			}
		})
	}
}

// -- Errors

func TestParseFile_Errors(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{input: "integer x = 5", expect: "1:14: syntax error: expected ';' in declaration, got end of file"},
		{input: "x + 1;", expect: "1:3: syntax error: expected '=' in assignment, got '+'"},
		{input: "integer x = 99999999999999999999;", expect: "invalid numeric literal"},
		{input: "function f(var integer x) returns integer = x;", expect: "function parameters cannot be declared var"},
		{input: "function f() = 1;", expect: "expected 'returns' in function declaration"},
		{input: "procedure p() returns integer {}", expect: "procedure cannot declare a return type"},
		{input: "procedure p(integer x) {}", expect: "1:13: syntax error: expected qualifier of procedure parameter, got 'integer'"},
		{input: "procedure p(var integer x, y) {}", expect: "expected qualifier of procedure parameter, got Identifier 'y'"},
		{input: "function f() returns integer", expect: "expected start of function body"},
		{input: "const tuple(integer, integer) t;", expect: "1:7: syntax error: qualifier 'const' cannot be applied to a tuple type"},
		{input: "1 -> std_input;", expect: "expected std_output after '->'"},
		{input: "1 <- std_input;", expect: "input can only be stored in an identifier"},
		{input: "if x {}", expect: "expected '(' in if statement"},
		{input: "{ integer x;", expect: "expected '}' to close block"},
		{input: "call x;", expect: "expected procedure call after 'call'"},
		{input: "integer x = #;", expect: "illegal token \"#\""},
		{input: "f(x) = 1;", expect: "cannot assign to a call"},
		{input: "integer x = (1 + 2;", expect: "expected ')' in group expression"},
		{input: "integer x = t.0;", expect: "tuple positions start at 1"},
		{input: "Unknown u;", expect: "expected '=' in assignment"},
		{input: "typealias integer;", expect: "expected alias name"},
		{input: "if (x) {} else typealias integer i;", expect: "type alias is not allowed here"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			f, err := ParseFile(LexerTokenSource(strings.NewReader(tc.input)), PanicErrHandler)
			if err == nil {
				t.Fatalf("expected error, got none")
			}
			if f != nil {
				t.Fatalf("expected no file on error, got %v", f)
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("expected syntax error, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.expect) {
				t.Fatalf("expected error containing %q, got %q", tc.expect, err.Error())
			}
		})
	}
}

func TestParseFile_ErrorHandler(t *testing.T) {
	var reported []error
	handler := func(err error) { reported = append(reported, err) }

	_, err := ParseFile(LexerTokenSource(strings.NewReader("integer x = ;")), handler)
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if len(reported) != 1 {
		t.Fatalf("expected handler to be notified once, got %d", len(reported))
	}
	if reported[0] != err {
		t.Fatalf("expected handler to receive %v, got %v", err, reported[0])
	}
}

func TestParseFile_Trace(t *testing.T) {
	out := &bytes.Buffer{}
	_, err := ParseFile(LexerTokenSource(strings.NewReader("integer x = 1;")), PanicErrHandler, EnableTrace(out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "> parseDeclaration") {
		t.Fatalf("expected trace of parseDeclaration, got:\n%s", out.String())
	}
}

func TestParseFile_TraceAnnotatesTokens(t *testing.T) {
	out := &bytes.Buffer{}
	_, err := ParseFile(LexerTokenSource(strings.NewReader("integer x = 1;")), PanicErrHandler, EnableTrace(out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := strings.SplitN(out.String(), "\n", 2)[0]
	if !strings.HasPrefix(first, "> ") || !strings.Contains(first, "1:1") {
		t.Fatalf("expected the first entry to name the first token, got %q", first)
	}
	if !strings.Contains(out.String(), "< parseDeclaration") {
		t.Fatalf("expected the end of parseDeclaration to be traced, got:\n%s", out.String())
	}
}

func TestParseFile_TokenSourceFunc(t *testing.T) {
	tokens := []token.Token{
		{Type: token.Comment, Literal: "// leading"},
		{Type: token.Break, Literal: "break"},
		{Type: token.Comment, Literal: "/* inner */"},
		{Type: token.Semicolon, Literal: ";"},
	}
	src := TokenSourceFunc(func() token.Token {
		if len(tokens) == 0 {
			return token.Token{Type: token.EOF}
		}
		next := tokens[0]
		tokens = tokens[1:]
		return next
	})

	f, err := ParseFile(withoutComments(src), PanicErrHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Elements) != 1 {
		t.Fatalf("expected a single element, got %d", len(f.Elements))
	}
}
