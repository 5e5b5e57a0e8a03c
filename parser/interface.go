package parser

import (
	"errors"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/lexer"
	"github.com/hfmohammed/compiler/pkg/ext"
	"github.com/hfmohammed/compiler/token"
	"io"
)

// The ErrorHandler is notified of the error which aborts parsing.
// Parsing stops at the first error regardless of the ErrorHandler.
type ErrorHandler func(err error)

// PanicErrHandler simply panics on the first error which is encountered during parsing.
func PanicErrHandler(err error) { panic(err) }

// LexerTokenSource provides a TokenSource which is implemented by the [lexer] package.
// Comments will automatically be ignored when using LexerTokenSource.
func LexerTokenSource(r io.Reader) TokenSource {
	return withoutComments(lexer.New(r))
}

// Option defines the type for parser customization options.
type Option func(*parser)

// EnableDebug enables additional assertions during parsing.
// Caution is advised, the parser may terminate prematurely on incorrect input.
func EnableDebug() Option {
	return func(p *parser) { p.debug = true }
}

// EnableTrace writes a trace of the called parser functions to the provided io.Writer.
// This can be useful to investigate the parser.
func EnableTrace(out io.Writer) Option {
	return func(p *parser) {
		p.tracer = newTracer(out, func() token.Token { return p.current })
	}
}

// ParseFile using the provided TokenSource and ErrorHandler.
// The result is an [*ast.File] representing the AST.
// If parsing fails, the returned error is a [*SyntaxError]
// and no [*ast.File] is returned.
func ParseFile(src TokenSource, errHandler ErrorHandler, opts ...Option) (f *ast.File, err error) {
	if src == nil {
		return nil, errors.New("token source cannot be nil")
	}
	if errHandler == nil {
		return nil, errors.New("error handler cannot be nil")
	}

	p := newParser(src, errHandler)

	for _, option := range opts {
		option(p)
	}

	err = ext.CatchPanic(func() {
		f = p.parse()
	})
	if err != nil {
		return nil, err
	}

	return f, nil
}

func newParser(src TokenSource, errH ErrorHandler) *parser {
	p := new(parser)
	p.errHandler = errH
	p.tracer = noTracer{}
	p.typeNames = make(map[string]struct{})

	// drain the source, the parser requires random access to the tokens
	for {
		t := src.Next()
		p.tokens = append(p.tokens, t)
		if t.Type == token.EOF {
			break
		}
	}
	p.current = p.tokens[0]

	return p
}
