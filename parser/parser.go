package parser

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/pkg/ext"
	"github.com/hfmohammed/compiler/token"
	"slices"
)

// The parser produces an AST from the received tokens.
// All tokens are read from the TokenSource up front, which allows
// looking ahead by any offset and restoring a saved position.
// After a parse function returns, current is the first token
// following the parsed construct.
type parser struct {
	// tokens contains all tokens of the source, the last one is token.EOF
	tokens []token.Token
	// pos is the index of current within tokens
	pos int
	// current is the current token.Token which is being parsed
	current token.Token

	// errHandler is notified of an error before parsing is aborted
	errHandler ErrorHandler

	// arena stores the nodes of the parsed file
	arena *ast.Arena

	// typeNames contains the names of structs and type aliases declared so far
	typeNames map[string]struct{}

	// tracer is used to easily trace the parsing path
	tracer tracerI

	// When debug is enabled additional assertions are made.
	// Notice, this can cause the parser to terminate prematurely.
	debug bool
}

// SyntaxError is the only error produced by the parser.
type SyntaxError struct {
	Position token.Position
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Position.Row, e.Position.Col, e.Message)
}

func (p *parser) parse() *ast.File {
	root := ast.NewFile()
	root.SetPosition(p.current.Position)
	p.arena = root.Arena

	if p.currentIs(token.Illegal) {
		p.syntaxError(fmt.Sprintf("illegal token %q", p.current.Literal))
	}

	for !p.currentIs(token.EOF) {
		root.Elements = append(root.Elements, p.parseElement())
	}

	return root
}

// Element = FuncDeclaration | TypeAlias | Statement .
func (p *parser) parseElement() ast.Element {
	switch p.current.Type {
	case token.Function, token.Procedure:
		return p.parseFuncDeclaration()
	case token.TypeAlias:
		return p.parseTypeAlias()
	default:
		return p.parseStatement()
	}
}

// Block = "{" { Element } "}" .
func (p *parser) parseBlock() ast.StmtRef {
	p.tracer.begin("parseBlock")
	defer p.tracer.end("parseBlock")

	// precondition
	p.assert(p.currentIs(token.LBrace), "parseBlock must be called with '{' as the current token")

	block := new(ast.Block)
	block.SetPosition(p.current.Position)
	p.advance()

	for !p.currentIs(token.RBrace) {
		if p.currentIs(token.EOF) {
			p.syntaxError("expected '}' to close block, got end of file")
		}
		block.Elements = append(block.Elements, p.parseElement())
	}
	p.advance()

	return p.arena.NewStmt(block)
}

// parseStatement parses a Statement.
//
//	Statement = ( IfStatement
//				| LoopStatement
//				| Block
//				| "break" ";"
//				| "continue" ";"
//				| ReturnStatement
//				| CallStatement
//				| StreamStatement
//				| AssignStatement
//				| Declaration ) .
func (p *parser) parseStatement() ast.StmtRef {
	p.tracer.begin("parseStatement")
	defer p.tracer.end("parseStatement")

	switch p.current.Type {
	case token.If:
		return p.parseIfStatement()
	case token.Loop:
		return p.parseLoopStatement()
	case token.LBrace:
		return p.parseBlock()
	case token.Break:
		s := new(ast.BreakStatement)
		s.SetPosition(p.current.Position)
		p.advance()
		p.expect(token.Semicolon, "break statement")
		return p.arena.NewStmt(s)
	case token.Continue:
		s := new(ast.ContinueStatement)
		s.SetPosition(p.current.Position)
		p.advance()
		p.expect(token.Semicolon, "continue statement")
		return p.arena.NewStmt(s)
	case token.Return:
		return p.parseReturnStatement()
	case token.Call:
		return p.parseCallStatement()
	case token.TypeAlias:
		p.syntaxError("type alias is not allowed here")
	}

	return p.parseSimpleStatement()
}

// parseSimpleStatement disambiguates statements which start with an expression,
// an assignment target or a type by speculatively parsing them in order.
func (p *parser) parseSimpleStatement() ast.StmtRef {
	p.tracer.begin("parseSimpleStatement")
	defer p.tracer.end("parseSimpleStatement")

	start := p.mark()

	var expr ast.ExprRef
	err := p.try(func() { expr = p.parseExpression(Lowest) })
	if err == nil && slices.Contains(token.StreamOperators, p.current.Type) {
		return p.parseStreamStatement(expr)
	}
	p.reset(start)

	var stmt ast.StmtRef
	assignErr := p.try(func() { stmt = p.parseAssignStatement() })
	if assignErr == nil {
		return stmt
	}
	p.reset(start)

	if p.startsDeclaration() {
		return p.parseDeclaration()
	}

	// neither of the alternatives apply, report the
	// error of the furthest alternative which was attempted
	p.fail(assignErr)
	return ast.NoStmt
}

// IfStatement = "if" "(" Expression ")" Statement
//
//	{ "else" "if" "(" Expression ")" Statement }
//	[ "else" Statement ] .
func (p *parser) parseIfStatement() ast.StmtRef {
	p.tracer.begin("parseIfStatement")
	defer p.tracer.end("parseIfStatement")

	// precondition
	p.assert(p.currentIs(token.If), "parseIfStatement must be called with 'if' as the current token")

	s := &ast.IfStatement{Else: ast.NoStmt}
	s.SetPosition(p.current.Position)
	p.advance()

	s.Condition = p.parseCondition("if statement")
	s.Body = p.parseStatement()

	for p.currentIs(token.Else) {
		pos := p.current.Position
		p.advance()

		if !p.currentIs(token.If) {
			s.Else = p.parseStatement()
			break
		}
		p.advance()

		elif := ast.ElseIf{Position: pos}
		elif.Condition = p.parseCondition("else if statement")
		elif.Body = p.parseStatement()
		s.ElseIfs = append(s.ElseIfs, elif)
	}

	return p.arena.NewStmt(s)
}

// LoopStatement = "loop" "while" "(" Expression ")" Statement
//
//	| "loop" Statement "while" "(" Expression ")" ";"
//	| "loop" Statement .
func (p *parser) parseLoopStatement() ast.StmtRef {
	p.tracer.begin("parseLoopStatement")
	defer p.tracer.end("parseLoopStatement")

	// precondition
	p.assert(p.currentIs(token.Loop), "parseLoopStatement must be called with 'loop' as the current token")

	s := &ast.LoopStatement{Kind: ast.InfiniteLoop, Condition: ast.NoExpr}
	s.SetPosition(p.current.Position)
	p.advance()

	if p.currentIs(token.While) {
		p.advance()
		s.Kind = ast.PreLoop
		s.Condition = p.parseCondition("loop")
		s.Body = p.parseStatement()
		return p.arena.NewStmt(s)
	}

	s.Body = p.parseStatement()

	if p.currentIs(token.While) {
		p.advance()
		s.Kind = ast.PostLoop
		s.Condition = p.parseCondition("loop")
		p.expect(token.Semicolon, "loop")
	}

	return p.arena.NewStmt(s)
}

func (p *parser) parseCondition(context string) ast.ExprRef {
	p.expect(token.LParen, context)
	cond := p.parseExpression(Lowest)
	p.expect(token.RParen, context)
	return cond
}

// ReturnStatement = "return" [ Expression ] ";" .
func (p *parser) parseReturnStatement() ast.StmtRef {
	p.tracer.begin("parseReturnStatement")
	defer p.tracer.end("parseReturnStatement")

	// precondition
	p.assert(p.currentIs(token.Return), "parseReturnStatement must be called with 'return' as the current token")

	s := &ast.ReturnStatement{Value: ast.NoExpr}
	s.SetPosition(p.current.Position)
	p.advance()

	if !p.currentIs(token.Semicolon) {
		s.Value = p.parseExpression(Lowest)
	}
	p.expect(token.Semicolon, "return statement")

	return p.arena.NewStmt(s)
}

// CallStatement = "call" name "(" Arguments ")" ";" .
func (p *parser) parseCallStatement() ast.StmtRef {
	p.tracer.begin("parseCallStatement")
	defer p.tracer.end("parseCallStatement")

	// precondition
	p.assert(p.currentIs(token.Call), "parseCallStatement must be called with 'call' as the current token")

	s := new(ast.CallStatement)
	s.SetPosition(p.current.Position)
	p.advance()

	pos := p.current.Position
	name, args, ok := p.plainCall(p.parseIdentifier(true))
	if !ok {
		p.syntaxErrorAt(pos, "expected procedure call after 'call'")
	}
	p.expect(token.Semicolon, "call statement")

	call := &ast.CallExpression{Function: name, Arguments: args}
	call.SetPosition(pos)
	s.Call = p.arena.NewExpr(call)

	return p.arena.NewStmt(s)
}

// StreamStatement = Expression "->" "std_output" ";"
//
//	| Identifier "<-" "std_input" ";" .
func (p *parser) parseStreamStatement(value ast.ExprRef) ast.StmtRef {
	p.tracer.begin("parseStreamStatement")
	defer p.tracer.end("parseStreamStatement")

	s := &ast.StreamStatement{Value: value, Direction: p.current.Type}
	s.SetPosition(p.arena.Expr(value).Position())
	p.advance()

	switch s.Direction {
	case token.StreamOut:
		if !p.currentIs(token.StdOutput) {
			p.syntaxError(fmt.Sprintf("expected std_output after '->', got %s", describe(p.current)))
		}
	case token.StreamIn:
		if !p.currentIs(token.StdInput) {
			p.syntaxError(fmt.Sprintf("expected std_input after '<-', got %s", describe(p.current)))
		}
		if _, ok := p.arena.Expr(value).(*ast.IdentifierExpression); !ok {
			p.syntaxErrorAt(s.Position(), "input can only be stored in an identifier")
		}
	}
	s.Stream = p.current.Type
	p.advance()
	p.expect(token.Semicolon, "stream statement")

	return p.arena.NewStmt(s)
}

// AssignStatement = Identifier { "," Identifier } "=" Expression ";" .
func (p *parser) parseAssignStatement() ast.StmtRef {
	p.tracer.begin("parseAssignStatement")
	defer p.tracer.end("parseAssignStatement")

	pos := p.current.Position

	targets := []ast.IdentRef{p.parseAssignTarget()}
	for p.currentIs(token.Comma) {
		p.advance()
		targets = append(targets, p.parseAssignTarget())
	}

	left := targets[0]
	if len(targets) > 1 {
		left = p.arena.NewTuplePattern(pos, targets)
	}

	p.expect(token.Assign, "assignment")

	assign := &ast.AssignExpression{Left: left}
	assign.SetPosition(pos)
	assign.Value = p.parseExpression(Lowest)
	p.expect(token.Semicolon, "assignment")

	s := &ast.AssignStatement{Assign: p.arena.NewExpr(assign)}
	s.SetPosition(pos)
	return p.arena.NewStmt(s)
}

func (p *parser) parseAssignTarget() ast.IdentRef {
	pos := p.current.Position
	id := p.parseIdentifier(true)
	if _, ok := p.arena.Ident(id).(*ast.Call); ok {
		p.syntaxErrorAt(pos, "cannot assign to a call")
	}
	return id
}

// try runs f and reports the syntax error which aborted it.
// The ErrorHandler is not notified while trying.
func (p *parser) try(f func()) error {
	handler := p.errHandler
	p.errHandler = func(error) {}
	defer func() { p.errHandler = handler }()

	return ext.CatchPanic(f)
}

func (p *parser) mark() int {
	return p.pos
}

func (p *parser) reset(mark int) {
	p.pos = mark
	p.current = p.tokens[mark]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.current = p.tokens[p.pos]

	if p.currentIs(token.Illegal) {
		p.syntaxError(fmt.Sprintf("illegal token %q", p.current.Literal))
	}
}

// expect consumes the current token if it is of the expected token.Type.
func (p *parser) expect(t token.Type, context string) {
	if !p.currentIs(t) {
		p.syntaxError(fmt.Sprintf("expected '%s' in %s, got %s", t, context, describe(p.current)))
	}
	p.advance()
}

func (p *parser) currentIs(t token.Type) bool {
	return p.current.Type == t
}

func (p *parser) syntaxError(message string) {
	p.syntaxErrorAt(p.current.Position, message)
}

func (p *parser) syntaxErrorAt(pos token.Position, message string) {
	p.fail(&SyntaxError{Position: pos, Message: message})
}

// fail aborts parsing with the first encountered error.
func (p *parser) fail(err error) {
	p.errHandler(err)
	panic(err)
}

func (p *parser) assert(condition bool, msg string) {
	if !p.debug {
		return
	}
	if condition {
		return
	}
	panic(msg)
}

// describe renders a token for error messages.
func describe(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.Identifier, token.IntegerLit, token.RealLit, token.GeneratorLit:
		return fmt.Sprintf("%s '%s'", t.Type, t.Literal)
	case token.CharacterLit, token.StringLit:
		return fmt.Sprintf("%s %q", t.Type, t.Literal)
	}
	return fmt.Sprintf("'%s'", t.Type)
}
