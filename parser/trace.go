package parser

import (
	"fmt"
	"github.com/hfmohammed/compiler/token"
	"io"
	"strings"
)

// tracerI is notified whenever a parse function is entered or left.
type tracerI interface {
	begin(string)
	end(string)
}

// tracer writes one indented line per parse function, each entry
// is annotated with the token the parser is looking at.
type tracer struct {
	depth   int
	out     io.Writer
	current func() token.Token
}

func newTracer(out io.Writer, current func() token.Token) *tracer {
	return &tracer{out: out, current: current}
}

func (t *tracer) begin(fn string) {
	t.depth++
	tok := t.current()
	_, _ = fmt.Fprintf(t.out, "%s> %s %d:%d %s %q\n",
		strings.Repeat("  ", t.depth-1), fn, tok.Position.Row, tok.Position.Col, tok.Type, tok.Literal)
}

func (t *tracer) end(fn string) {
	_, _ = fmt.Fprintf(t.out, "%s< %s\n", strings.Repeat("  ", t.depth-1), fn)
	t.depth--
}

type noTracer struct{}

func (noTracer) begin(string) {}

func (noTracer) end(string) {}
