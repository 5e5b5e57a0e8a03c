package ast

import (
	"github.com/hfmohammed/compiler/constant"
	"github.com/hfmohammed/compiler/token"
)

type Expression interface {
	Node
	aExpression()
}

type expression struct {
	node
}

func (expression) aExpression() {}

// ConstExpression is implemented by all literals
// whose value is known after parsing.
type ConstExpression interface {
	Expression
	Value() constant.Value
	aConstExpression()
}

type constExpression struct {
	expression
	v constant.Value
}

func (ce *constExpression) Value() constant.Value {
	return ce.v
}

func (ce *constExpression) SetValue(v constant.Value) {
	ce.v = v
}

func (ce *constExpression) aConstExpression() {}

type IntegerLiteral struct{ constExpression }

type RealLiteral struct{ constExpression }

type CharacterLiteral struct{ constExpression }

type StringLiteral struct{ constExpression }

type BooleanLiteral struct{ constExpression }

// GeneratorLiteral holds numeric text with two '.' separators (1.2.3).
// Its value is not interpreted.
type GeneratorLiteral struct {
	expression
	Literal string
}

// IdentifierExpression uses an Identifier as a value.
type IdentifierExpression struct {
	expression
	Identifier IdentRef
}

// UnaryExpression = Operator Operand
type UnaryExpression struct {
	expression
	Operator token.Type
	Operand  ExprRef
}

// BinaryExpression = Left Operator Right
type BinaryExpression struct {
	expression
	Operator    token.Type
	Left, Right ExprRef
}

// CallExpression = Function(Arguments...)
type CallExpression struct {
	expression
	Function  string
	Arguments []ExprRef
}

// TupleLiteral = (Elements...)
type TupleLiteral struct {
	expression
	Elements []ExprRef
}

// ListLiteral = [Elements...]
type ListLiteral struct {
	expression
	Elements []ExprRef
}

// AssignExpression = Left = Value
type AssignExpression struct {
	expression
	Left  IdentRef
	Value ExprRef
}
