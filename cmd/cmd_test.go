package cmd

import (
	"bytes"
	"errors"
	"github.com/hfmohammed/compiler/parser"
	"github.com/hfmohammed/compiler/symbols"
	log "github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.gaz")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func TestLayouts(t *testing.T) {
	src := `
typealias tuple(integer, integer) pair;
struct Point(integer x, pair y);
Point p;
pair q = (1, 2);
procedure f(var integer a) { }
`
	f, err := parser.ParseFile(parser.LexerTokenSource(strings.NewReader(src)), parser.PanicErrHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := layouts(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		name   string
		layout string
		slots  int
	}{
		{"typealias pair", "tuple(integer, integer)", 2},
		{"struct Point", "struct Point", 3},
		{"p", "struct Point", 3},
		{"q", "tuple(integer, integer)", 2},
		{"f.a", "integer", 1},
	}
	if len(rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(rows))
	}
	for i, e := range expected {
		row := rows[i]
		if row.name != e.name || row.layout.String() != e.layout || row.layout.Slots != e.slots {
			t.Errorf("expected %s %s %d, got %s %s %d", e.name, e.layout, e.slots, row.name, row.layout, row.layout.Slots)
		}
	}
}

func TestCompileCommand(t *testing.T) {
	path := writeSource(t, "function add(integer a, integer b) returns integer = a + b;\ninteger r = add(2,3);\n")
	output := filepath.Join(t.TempDir(), "out.s")

	cmd := newCompileCommand()
	cmd.SetArgs([]string{path, "-o", output, "--target", "rars"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	asm, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, expected := range []string{".global _start", ".global add", "call add"} {
		if !strings.Contains(string(asm), expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, asm)
		}
	}
}

func TestCompileCommand_Stdout(t *testing.T) {
	path := writeSource(t, "integer x = 1;")

	out := &bytes.Buffer{}
	cmd := newCompileCommand()
	cmd.SetOut(out)
	cmd.SetArgs([]string{path, "-o", "-", "--comments"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "# x = 1") {
		t.Fatalf("expected annotated assembly on stdout, got:\n%s", out.String())
	}
}

func TestCompileCommand_NoOutputOnError(t *testing.T) {
	path := writeSource(t, "integer x = 1; integer x = 2;")
	output := filepath.Join(t.TempDir(), "out.s")

	cmd := newCompileCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{path, "-o", output})
	err := cmd.Execute()
	if !errors.Is(err, symbols.ErrRedeclared) {
		t.Fatalf("expected error '%v', got '%v'", symbols.ErrRedeclared, err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, got '%v'", err)
	}
}

func TestLexCommand(t *testing.T) {
	path := writeSource(t, "integer x; // note")

	out := &bytes.Buffer{}
	cmd := newLexCommand()
	cmd.SetOut(out)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"integer"`) || strings.Contains(out.String(), "note") {
		t.Fatalf("unexpected tokens:\n%s", out.String())
	}
}

func TestCheckCommand(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected error
	}{
		{"valid", "integer x = 1; x -> std_output;", nil},
		{"redeclaration", "integer x = 1; integer x = 2;", symbols.ErrRedeclared},
		{"undeclared", "y -> std_output;", symbols.ErrUndeclared},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logs := &bytes.Buffer{}
			log.SetOutput(logs)
			defer log.SetOutput(os.Stderr)

			cmd := newCheckCommand()
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			cmd.SetArgs([]string{writeSource(t, test.src)})
			err := cmd.Execute()

			if test.expected == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !strings.Contains(logs.String(), "no errors found") {
					t.Fatalf("expected success to be logged, got:\n%s", logs.String())
				}
				return
			}
			if !errors.Is(err, test.expected) {
				t.Fatalf("expected error '%v', got '%v'", test.expected, err)
			}
		})
	}
}

func TestCheckCommand_SyntaxError(t *testing.T) {
	cmd := newCheckCommand()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{writeSource(t, "integer x = 1")})

	var syntaxErr *parser.SyntaxError
	if err := cmd.Execute(); !errors.As(err, &syntaxErr) {
		t.Fatalf("expected syntax error, got '%v'", err)
	}
}

func TestParseCommand_Dump(t *testing.T) {
	path := writeSource(t, "procedure inc(var integer x) { x = x + 1; }")

	out := &bytes.Buffer{}
	cmd := newParseCommand()
	cmd.SetOut(out)
	cmd.SetArgs([]string{path, "--dump"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "procedure inc(var integer x)\n{\n    x = (x + 1);\n}\n"
	if out.String() != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, out.String())
	}
}
