package parser

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/token"
	"slices"
)

// startsDeclaration reports whether the current token can start a Declaration.
func (p *parser) startsDeclaration() bool {
	switch {
	case slices.Contains(token.Qualifiers, p.current.Type),
		slices.Contains(token.PrimitiveTypes, p.current.Type):
		return true
	case p.currentIs(token.Struct), p.currentIs(token.Tuple), p.currentIs(token.Vector):
		return true
	case p.currentIs(token.Identifier):
		return p.isTypeName(p.current.Literal)
	}
	return false
}

func (p *parser) isTypeName(name string) bool {
	_, ok := p.typeNames[name]
	return ok
}

func (p *parser) registerTypeName(name string) {
	p.typeNames[name] = struct{}{}
}

// Declaration = [ Qualifier ] ( StructType [ IdentifierList ] | Type IdentifierList )
//
//	[ "=" Expression ] ";" .
//
// IdentifierList = name { "," name } .
func (p *parser) parseDeclaration() ast.StmtRef {
	p.tracer.begin("parseDeclaration")
	defer p.tracer.end("parseDeclaration")

	d := &ast.DeclarationStatement{Identifier: ast.NoIdent, Value: ast.NoExpr}
	d.SetPosition(p.current.Position)

	if slices.Contains(token.Qualifiers, p.current.Type) {
		d.Qualifier = p.current.Type
		p.advance()
	}

	if p.currentIs(token.Struct) {
		d.Type = p.parseStructType()
		// a struct definition does not need to declare a variable
		if p.currentIs(token.Semicolon) {
			p.advance()
			return p.arena.NewStmt(d)
		}
	} else {
		typePos := p.current.Position
		d.Type = p.parseType()
		if _, ok := p.arena.Type(d.Type).(*ast.TupleType); ok && d.Qualifier != "" {
			p.syntaxErrorAt(typePos, fmt.Sprintf("qualifier '%s' cannot be applied to a tuple type", d.Qualifier))
		}
	}

	d.Identifier = p.parseDeclarationNames()

	if p.currentIs(token.Assign) {
		p.advance()
		d.Value = p.parseExpression(Lowest)
	}
	p.expect(token.Semicolon, "declaration")

	return p.arena.NewStmt(d)
}

// parseDeclarationNames parses one or more declared names,
// two or more names are promoted to a tuple pattern.
func (p *parser) parseDeclarationNames() ast.IdentRef {
	pos := p.current.Position

	names := []ast.IdentRef{p.parseName("declaration")}
	for p.currentIs(token.Comma) {
		p.advance()
		names = append(names, p.parseName("declaration"))
	}

	if len(names) == 1 {
		return names[0]
	}
	return p.arena.NewTuplePattern(pos, names)
}

func (p *parser) parseName(context string) ast.IdentRef {
	if !p.currentIs(token.Identifier) {
		p.syntaxError(fmt.Sprintf("expected identifier in %s, got %s", context, describe(p.current)))
	}
	id := p.arena.NewName(p.current.Position, p.current.Literal)
	p.advance()
	return id
}

// Type     = BaseType { "[" ( Expression | "*" ) "]" } .
// BaseType = "boolean" | "character" | "integer" | "real" | "string"
//
//	| "tuple" "(" [ Type { "," Type } ] ")"
//	| "vector" "<" Type ">"
//	| TypeName .
func (p *parser) parseType() ast.TypeRef {
	p.tracer.begin("parseType")
	defer p.tracer.end("parseType")

	pos := p.current.Position

	var t ast.TypeRef
	switch {
	case slices.Contains(token.PrimitiveTypes, p.current.Type):
		prim := &ast.PrimitiveType{Name: p.current.Type}
		prim.SetPosition(pos)
		p.advance()
		t = p.arena.NewType(prim)

	case p.currentIs(token.Tuple):
		p.advance()
		tuple := new(ast.TupleType)
		tuple.SetPosition(pos)
		p.expect(token.LParen, "tuple type")
		if !p.currentIs(token.RParen) {
			tuple.Elements = append(tuple.Elements, p.parseType())
			for p.currentIs(token.Comma) {
				p.advance()
				tuple.Elements = append(tuple.Elements, p.parseType())
			}
		}
		p.expect(token.RParen, "tuple type")
		t = p.arena.NewType(tuple)

	case p.currentIs(token.Vector):
		p.advance()
		vector := new(ast.VectorType)
		vector.SetPosition(pos)
		p.expect(token.LessThan, "vector type")
		vector.Element = p.parseType()
		p.expect(token.GreaterThan, "vector type")
		t = p.arena.NewType(vector)

	case p.currentIs(token.Identifier) && p.isTypeName(p.current.Literal):
		named := &ast.NamedType{Name: p.current.Literal}
		named.SetPosition(pos)
		p.advance()
		t = p.arena.NewType(named)

	default:
		p.syntaxError(fmt.Sprintf("expected type, got %s", describe(p.current)))
	}

	// array suffixes are applied left to right, integer[2][3] is an array of 3 integer[2]
	for p.currentIs(token.LBracket) {
		array := &ast.ArrayType{Element: t, Size: ast.NoExpr}
		array.SetPosition(p.current.Position)
		p.advance()

		if p.currentIs(token.Mul) {
			array.AnySize = true
			p.advance()
		} else {
			array.Size = p.parseExpression(Lowest)
		}
		p.expect(token.RBracket, "array type")
		t = p.arena.NewType(array)
	}

	return t
}

// StructType = "struct" name "(" Params ")" .
func (p *parser) parseStructType() ast.TypeRef {
	p.tracer.begin("parseStructType")
	defer p.tracer.end("parseStructType")

	// precondition
	p.assert(p.currentIs(token.Struct), "parseStructType must be called with 'struct' as the current token")

	s := new(ast.StructType)
	s.SetPosition(p.current.Position)
	p.advance()

	if !p.currentIs(token.Identifier) {
		p.syntaxError(fmt.Sprintf("expected struct name, got %s", describe(p.current)))
	}
	s.Name = p.current.Literal
	p.advance()

	s.Fields = p.parseParams("struct", "", false)
	p.registerTypeName(s.Name)

	return p.arena.NewType(s)
}

// TypeAlias = "typealias" Type name ";" .
func (p *parser) parseTypeAlias() *ast.TypeAlias {
	p.tracer.begin("parseTypeAlias")
	defer p.tracer.end("parseTypeAlias")

	// precondition
	p.assert(p.currentIs(token.TypeAlias), "parseTypeAlias must be called with 'typealias' as the current token")

	alias := new(ast.TypeAlias)
	alias.SetPosition(p.current.Position)
	p.advance()

	alias.Type = p.parseType()

	if !p.currentIs(token.Identifier) {
		p.syntaxError(fmt.Sprintf("expected alias name, got %s", describe(p.current)))
	}
	alias.Name = p.current.Literal
	p.advance()
	p.expect(token.Semicolon, "type alias")

	p.registerTypeName(alias.Name)

	return alias
}

// FuncDeclaration = "function" name "(" Params ")" "returns" Type FuncBody
//
//	| "procedure" name "(" Params ")" FuncBody .
//
// FuncBody = "=" Expression ";" | Block .
func (p *parser) parseFuncDeclaration() *ast.FuncDeclaration {
	p.tracer.begin("parseFuncDeclaration")
	defer p.tracer.end("parseFuncDeclaration")

	// precondition
	p.assert(
		p.currentIs(token.Function) || p.currentIs(token.Procedure),
		"parseFuncDeclaration must be called with 'function' or 'procedure' as the current token",
	)

	fn := &ast.FuncDeclaration{
		Kind:       p.current.Type,
		Result:     ast.NoType,
		Expression: ast.NoExpr,
		Body:       ast.NoStmt,
	}
	fn.SetPosition(p.current.Position)
	p.advance()

	if !p.currentIs(token.Identifier) {
		p.syntaxError(fmt.Sprintf("expected %s name, got %s", fn.Kind, describe(p.current)))
	}
	fn.Name = p.current.Literal
	p.advance()

	// parameters are immutable unless a procedure declares them var
	fn.Parameters = p.parseParams(string(fn.Kind), token.Const, fn.IsProcedure())

	switch {
	case p.currentIs(token.Returns) && fn.IsProcedure():
		p.syntaxError("procedure cannot declare a return type")
	case p.currentIs(token.Returns):
		p.advance()
		fn.Result = p.parseType()
	case !fn.IsProcedure():
		p.syntaxError(fmt.Sprintf("expected 'returns' in function declaration, got %s", describe(p.current)))
	}

	switch {
	case p.currentIs(token.Assign):
		p.advance()
		fn.Expression = p.parseExpression(Lowest)
		p.expect(token.Semicolon, fmt.Sprintf("%s declaration", fn.Kind))
	case p.currentIs(token.LBrace):
		fn.Body = p.parseBlock()
	default:
		p.syntaxError(fmt.Sprintf("expected start of %s body, got %s", fn.Kind, describe(p.current)))
	}

	return fn
}

// Params = "(" [ Param { "," Param } ] ")" .
// Param  = [ Qualifier ] Type name .
//
// Parameters without a qualifier receive the defaultQualifier.
// If var parameters are allowed, as for procedures, the qualifier
// is mandatory.
func (p *parser) parseParams(context string, defaultQualifier token.Type, allowVar bool) []*ast.Param {
	p.tracer.begin("parseParams")
	defer p.tracer.end("parseParams")

	p.expect(token.LParen, context+" parameters")

	var params []*ast.Param
	for !p.currentIs(token.RParen) {
		if len(params) > 0 {
			p.expect(token.Comma, context+" parameters")
		}

		param := &ast.Param{Qualifier: defaultQualifier}
		param.SetPosition(p.current.Position)

		switch {
		case p.currentIs(token.Var) && !allowVar:
			p.syntaxError(fmt.Sprintf("%s parameters cannot be declared var", context))
		case slices.Contains(token.Qualifiers, p.current.Type):
			param.Qualifier = p.current.Type
			p.advance()
		case allowVar:
			p.syntaxError(fmt.Sprintf("expected qualifier of %s parameter, got %s", context, describe(p.current)))
		}

		param.Type = p.parseType()

		if !p.currentIs(token.Identifier) {
			p.syntaxError(fmt.Sprintf("expected parameter name, got %s", describe(p.current)))
		}
		param.Name = p.current.Literal
		p.advance()

		params = append(params, param)
	}
	p.advance()

	return params
}
