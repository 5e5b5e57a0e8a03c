package ast

import (
	"errors"
	"fmt"
	"github.com/hfmohammed/compiler/token"
)

type (
	// ExprRef references an Expression within an Arena.
	ExprRef int32
	// StmtRef references a Statement within an Arena.
	StmtRef int32
	// TypeRef references a TypeExpr within an Arena.
	TypeRef int32
	// IdentRef references an Identifier within an Arena.
	IdentRef int32
)

// The No* references mark an absent child.
const (
	NoExpr  ExprRef  = -1
	NoStmt  StmtRef  = -1
	NoType  TypeRef  = -1
	NoIdent IdentRef = -1
)

func (r ExprRef) Valid() bool  { return r >= 0 }
func (r StmtRef) Valid() bool  { return r >= 0 }
func (r TypeRef) Valid() bool  { return r >= 0 }
func (r IdentRef) Valid() bool { return r >= 0 }

var (
	ErrMissingOperand = errors.New("missing operand")
	ErrInvalidBase    = errors.New("tuple pattern cannot be indexed or called")
)

// Arena owns every node of a File. Nodes reference each other
// through typed indices into the Arena.
type Arena struct {
	exprs  []Expression
	stmts  []Statement
	types  []TypeExpr
	idents []Identifier
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewExpr(e Expression) ExprRef {
	a.exprs = append(a.exprs, e)
	return ExprRef(len(a.exprs) - 1)
}

func (a *Arena) NewStmt(s Statement) StmtRef {
	a.stmts = append(a.stmts, s)
	return StmtRef(len(a.stmts) - 1)
}

func (a *Arena) NewType(t TypeExpr) TypeRef {
	a.types = append(a.types, t)
	return TypeRef(len(a.types) - 1)
}

func (a *Arena) NewIdent(i Identifier) IdentRef {
	a.idents = append(a.idents, i)
	return IdentRef(len(a.idents) - 1)
}

// NewUnary creates a UnaryExpression, the operand must be present.
func (a *Arena) NewUnary(p token.Position, op token.Type, operand ExprRef) (ExprRef, error) {
	if !operand.Valid() {
		return NoExpr, fmt.Errorf("unary %s: %w", op, ErrMissingOperand)
	}
	e := &UnaryExpression{Operator: op, Operand: operand}
	e.SetPosition(p)
	return a.NewExpr(e), nil
}

// NewBinary creates a BinaryExpression, both operands must be present.
func (a *Arena) NewBinary(p token.Position, op token.Type, left, right ExprRef) (ExprRef, error) {
	if !left.Valid() || !right.Valid() {
		return NoExpr, fmt.Errorf("binary %s: %w", op, ErrMissingOperand)
	}
	e := &BinaryExpression{Operator: op, Left: left, Right: right}
	e.SetPosition(p)
	return a.NewExpr(e), nil
}

// NewIndex wraps base into an Index identifier.
func (a *Arena) NewIndex(p token.Position, base IdentRef, index ExprRef) (IdentRef, error) {
	if err := a.checkBase(base); err != nil {
		return NoIdent, err
	}
	if !index.Valid() {
		return NoIdent, fmt.Errorf("index: %w", ErrMissingOperand)
	}
	i := &Index{Base: base, Index: index}
	i.SetPosition(p)
	i.Access = NoIdent
	return a.NewIdent(i), nil
}

// NewCall wraps base into a Call identifier.
func (a *Arena) NewCall(p token.Position, base IdentRef, args []ExprRef) (IdentRef, error) {
	if err := a.checkBase(base); err != nil {
		return NoIdent, err
	}
	c := &Call{Base: base, Arguments: args}
	c.SetPosition(p)
	c.Access = NoIdent
	return a.NewIdent(c), nil
}

func (a *Arena) checkBase(base IdentRef) error {
	if !base.Valid() {
		return fmt.Errorf("base: %w", ErrMissingOperand)
	}
	if _, ok := a.Ident(base).(*TuplePattern); ok {
		return ErrInvalidBase
	}
	return nil
}

func (a *Arena) Expr(r ExprRef) Expression {
	if !r.Valid() || int(r) >= len(a.exprs) {
		panic(fmt.Sprintf("invalid expression reference %d", r))
	}
	return a.exprs[r]
}

func (a *Arena) Stmt(r StmtRef) Statement {
	if !r.Valid() || int(r) >= len(a.stmts) {
		panic(fmt.Sprintf("invalid statement reference %d", r))
	}
	return a.stmts[r]
}

func (a *Arena) Type(r TypeRef) TypeExpr {
	if !r.Valid() || int(r) >= len(a.types) {
		panic(fmt.Sprintf("invalid type reference %d", r))
	}
	return a.types[r]
}

func (a *Arena) Ident(r IdentRef) Identifier {
	if !r.Valid() || int(r) >= len(a.idents) {
		panic(fmt.Sprintf("invalid identifier reference %d", r))
	}
	return a.idents[r]
}

// Len reports the number of nodes of each category.
func (a *Arena) Len() (exprs, stmts, types, idents int) {
	return len(a.exprs), len(a.stmts), len(a.types), len(a.idents)
}
