package parser

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/constant"
	"github.com/hfmohammed/compiler/token"
)

type precedence = int

// Precedence levels from the loosest to the tightest binding,
// the operators of each level are listed in binaryOperators.
const (
	_ precedence = iota
	Concat
	LogicOr
	LogicAnd
	Equality
	Relational
	Step
	Sum
	Product
	Exponent
	Unary
	Range

	Lowest = Concat
)

type binaryOperator struct {
	prec       precedence
	rightAssoc bool
}

// binaryOperators contains the precedence and associativity for each binary token.Type.
// A higher precedence binds tighter.
// Example: "+" has a lower precedence than "*" therefore A + B * C => A+(B*C).
//
// Member access and indexing are not part of the table,
// they are parsed as suffixes of identifiers.
var binaryOperators = map[token.Type]binaryOperator{
	token.Range: {prec: Range},

	token.Exp: {prec: Exponent, rightAssoc: true},

	token.Mul:    {prec: Product},
	token.Div:    {prec: Product},
	token.Mod:    {prec: Product},
	token.DotMul: {prec: Product},

	token.Sum: {prec: Sum},
	token.Sub: {prec: Sum},

	token.By: {prec: Step},

	token.LessThan:         {prec: Relational},
	token.GreaterThan:      {prec: Relational},
	token.LessThanEqual:    {prec: Relational},
	token.GreaterThanEqual: {prec: Relational},

	token.Equal:    {prec: Equality},
	token.NotEqual: {prec: Equality},

	token.And: {prec: LogicAnd},

	token.Or:  {prec: LogicOr},
	token.Xor: {prec: LogicOr},

	token.Concat: {prec: Concat, rightAssoc: true},
}

// parseExpression parses binary expressions whose operators
// bind at least as tight as minPrec using precedence climbing.
//
// Example: "1 + 2 * 3" with minPrec Lowest
//
//	parsePrimary -> 1
//	"+" qualifies, the right side is parsed with minPrec Sum+1
//	    parsePrimary -> 2
//	    "*" qualifies, the right side is parsed with minPrec Product+1 -> 3
//	    => (2 * 3)
//	=> (1 + (2 * 3))
func (p *parser) parseExpression(minPrec precedence) ast.ExprRef {
	p.tracer.begin("parseExpression")
	defer p.tracer.end("parseExpression")

	left := p.parsePrimary()

	for {
		op, ok := binaryOperators[p.current.Type]
		if !ok || op.prec < minPrec {
			return left
		}

		opToken := p.current
		p.advance()

		next := op.prec + 1
		if op.rightAssoc {
			next = op.prec
		}
		right := p.parseExpression(next)

		expr, err := p.arena.NewBinary(opToken.Position, opToken.Type, left, right)
		if err != nil {
			p.syntaxErrorAt(opToken.Position, err.Error())
		}
		left = expr
	}
}

// parsePrimary parses the operand of a binary expression.
//
//	Primary = "(" Expression { "," Expression } ")"
//			| ( "not" | "+" | "-" ) Expression
//			| Literal
//			| Identifier
//			| "[" [ Expression { "," Expression } ] "]"
//			| GeneratorLiteral .
func (p *parser) parsePrimary() ast.ExprRef {
	p.tracer.begin("parsePrimary")
	defer p.tracer.end("parsePrimary")

	switch p.current.Type {
	case token.LParen:
		return p.parseGroupExpression()
	case token.Not, token.Sum, token.Sub:
		return p.parseUnaryExpression()
	case token.IntegerLit, token.RealLit, token.CharacterLit, token.StringLit, token.True, token.False:
		return p.parseLiteral()
	case token.Identifier:
		return p.parseIdentifierExpression()
	case token.LBracket:
		return p.parseListLiteral()
	case token.GeneratorLit:
		g := &ast.GeneratorLiteral{Literal: p.current.Literal}
		g.SetPosition(p.current.Position)
		p.advance()
		return p.arena.NewExpr(g)
	default:
		p.syntaxError(fmt.Sprintf("expected expression, got %s", describe(p.current)))
		return ast.NoExpr
	}
}

func (p *parser) parseUnaryExpression() ast.ExprRef {
	p.tracer.begin("parseUnaryExpression")
	defer p.tracer.end("parseUnaryExpression")

	opToken := p.current
	p.advance()

	operand := p.parseExpression(Unary)

	expr, err := p.arena.NewUnary(opToken.Position, opToken.Type, operand)
	if err != nil {
		p.syntaxErrorAt(opToken.Position, err.Error())
	}
	return expr
}

// parseGroupExpression parses a parenthesized expression.
// A comma after the first expression promotes the group to a tuple literal.
func (p *parser) parseGroupExpression() ast.ExprRef {
	p.tracer.begin("parseGroupExpression")
	defer p.tracer.end("parseGroupExpression")

	// precondition
	p.assert(p.currentIs(token.LParen), "parseGroupExpression must be called with '(' as the current token")

	pos := p.current.Position
	p.advance()

	expr := p.parseExpression(Lowest)
	if !p.currentIs(token.Comma) {
		p.expect(token.RParen, "group expression")
		return expr
	}

	tuple := &ast.TupleLiteral{Elements: []ast.ExprRef{expr}}
	tuple.SetPosition(pos)
	for p.currentIs(token.Comma) {
		p.advance()
		tuple.Elements = append(tuple.Elements, p.parseExpression(Lowest))
	}
	p.expect(token.RParen, "tuple literal")

	return p.arena.NewExpr(tuple)
}

// literalNode is implemented by all literal expressions.
type literalNode interface {
	ast.ConstExpression
	SetValue(constant.Value)
	SetPosition(token.Position)
}

func (p *parser) parseLiteral() ast.ExprRef {
	p.tracer.begin("parseLiteral")
	defer p.tracer.end("parseLiteral")

	v, err := constant.FromLiteral(p.current)
	if err != nil {
		p.syntaxError(err.Error())
	}

	var lit literalNode
	switch v.Type() {
	case constant.Int:
		lit = &ast.IntegerLiteral{}
	case constant.Real:
		lit = &ast.RealLiteral{}
	case constant.Char:
		lit = &ast.CharacterLiteral{}
	case constant.String:
		lit = &ast.StringLiteral{}
	case constant.Bool:
		lit = &ast.BooleanLiteral{}
	default:
		panic(fmt.Errorf("unexpected literal type %s", v.Type()))
	}
	lit.SetValue(v)
	lit.SetPosition(p.current.Position)
	p.advance()

	return p.arena.NewExpr(lit)
}

func (p *parser) parseListLiteral() ast.ExprRef {
	p.tracer.begin("parseListLiteral")
	defer p.tracer.end("parseListLiteral")

	// precondition
	p.assert(p.currentIs(token.LBracket), "parseListLiteral must be called with '[' as the current token")

	list := &ast.ListLiteral{}
	list.SetPosition(p.current.Position)
	p.advance()

	list.Elements = p.parseExpressionList(token.RBracket)
	p.expect(token.RBracket, "list literal")

	return p.arena.NewExpr(list)
}

// parseExpressionList parses comma separated expressions until
// the closing token.Type is encountered, the closing token is not consumed.
func (p *parser) parseExpressionList(closing token.Type) []ast.ExprRef {
	var exprs []ast.ExprRef
	if p.currentIs(closing) {
		return exprs
	}

	exprs = append(exprs, p.parseExpression(Lowest))
	for p.currentIs(token.Comma) {
		p.advance()
		exprs = append(exprs, p.parseExpression(Lowest))
	}
	return exprs
}

// parseIdentifierExpression parses an identifier used as a value.
// A plain call of a name becomes an *ast.CallExpression.
func (p *parser) parseIdentifierExpression() ast.ExprRef {
	pos := p.current.Position
	id := p.parseIdentifier(true)

	if name, args, ok := p.plainCall(id); ok {
		call := &ast.CallExpression{Function: name, Arguments: args}
		call.SetPosition(pos)
		return p.arena.NewExpr(call)
	}

	expr := &ast.IdentifierExpression{Identifier: id}
	expr.SetPosition(pos)
	return p.arena.NewExpr(expr)
}

// plainCall reports whether the identifier is the call of a name without any member access.
func (p *parser) plainCall(id ast.IdentRef) (string, []ast.ExprRef, bool) {
	call, ok := p.arena.Ident(id).(*ast.Call)
	if !ok || call.Access.Valid() {
		return "", nil, false
	}
	name, ok := p.arena.Ident(call.Base).(*ast.Name)
	if !ok || name.Access.Valid() {
		return "", nil, false
	}
	return name.Name, call.Arguments, true
}

// parseIdentifier parses a name followed by its suffixes.
//
//	Identifier = name { "[" Expression "]" | "(" Arguments ")" } [ "." Member ] .
//	Member     = ( Identifier | integer ) .
//
// Index and call suffixes are only parsed if postfix is set.
func (p *parser) parseIdentifier(postfix bool) ast.IdentRef {
	p.tracer.begin("parseIdentifier")
	defer p.tracer.end("parseIdentifier")

	if !p.currentIs(token.Identifier) {
		p.syntaxError(fmt.Sprintf("expected identifier, got %s", describe(p.current)))
	}
	id := p.arena.NewName(p.current.Position, p.current.Literal)
	p.advance()

	return p.parseIdentifierSuffix(id, postfix)
}

func (p *parser) parseIdentifierSuffix(id ast.IdentRef, postfix bool) ast.IdentRef {
	var err error
	for {
		pos := p.current.Position
		switch {
		case p.currentIs(token.Dot):
			p.advance()
			p.arena.Ident(id).SetAccess(p.parseMember(postfix))
			return id

		case postfix && p.currentIs(token.LBracket):
			p.advance()
			index := p.parseExpression(Lowest)
			p.expect(token.RBracket, "index")
			id, err = p.arena.NewIndex(pos, id, index)

		case postfix && p.currentIs(token.LParen):
			p.advance()
			args := p.parseExpressionList(token.RParen)
			p.expect(token.RParen, "argument list")
			id, err = p.arena.NewCall(pos, id, args)

		default:
			return id
		}

		if err != nil {
			p.syntaxErrorAt(pos, err.Error())
		}
	}
}

// parseMember parses the right side of a member access,
// a field name or a 1-based tuple position.
func (p *parser) parseMember(postfix bool) ast.IdentRef {
	if !p.currentIs(token.IntegerLit) {
		return p.parseIdentifier(postfix)
	}

	pos := p.current.Position
	if v, err := constant.FromLiteral(p.current); err != nil {
		p.syntaxError(err.Error())
	} else if i, _ := constant.AsInt(v); i < 1 {
		p.syntaxError(fmt.Sprintf("tuple positions start at 1, got %d", i))
	}

	id := p.arena.NewName(pos, p.current.Literal)
	p.advance()

	return p.parseIdentifierSuffix(id, postfix)
}
