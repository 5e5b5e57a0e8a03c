package ast

import "fmt"

// This is inspired by the go implementation of AST traversal.
// https://go.dev/src/go/ast/walk.go

type Visitor interface {
	Visit(node Node) Visitor
}

// Inspect traverses the File in depth-first order.
// Children of a node are only visited if f returns true.
func Inspect(file *File, f func(Node) bool) {
	Walk(file, inspector(f))
}

type inspector func(Node) bool

func (v inspector) Visit(node Node) Visitor {
	if v(node) {
		return v
	}
	return nil
}

func Walk(file *File, v Visitor) {
	walker{a: file.Arena, v: v}.walk(file)
}

type walker struct {
	a *Arena
	v Visitor
}

func (w walker) element(e Element) {
	switch el := e.(type) {
	case StmtRef:
		w.stmt(el)
	case *FuncDeclaration:
		w.walk(el)
	case *TypeAlias:
		w.walk(el)
	default:
		panic(fmt.Errorf("unhandled element type in walker: %T", e))
	}
}

func (w walker) expr(r ExprRef) {
	if r.Valid() {
		w.walk(w.a.Expr(r))
	}
}

func (w walker) stmt(r StmtRef) {
	if r.Valid() {
		w.walk(w.a.Stmt(r))
	}
}

func (w walker) typ(r TypeRef) {
	if r.Valid() {
		w.walk(w.a.Type(r))
	}
}

func (w walker) ident(r IdentRef) {
	if r.Valid() {
		w.walk(w.a.Ident(r))
	}
}

func (w walker) walk(n Node) {
	if n == nil {
		panic("walk received nil node")
	}

	w.v = w.v.Visit(n)
	if w.v == nil {
		return
	}

	switch node := n.(type) {
	case *File:
		for _, e := range node.Elements {
			w.element(e)
		}

	// Statements

	case *DeclarationStatement:
		w.typ(node.Type)
		w.ident(node.Identifier)
		w.expr(node.Value)

	case *Block:
		for _, e := range node.Elements {
			w.element(e)
		}

	case *IfStatement:
		w.expr(node.Condition)
		w.stmt(node.Body)
		for _, elif := range node.ElseIfs {
			w.expr(elif.Condition)
			w.stmt(elif.Body)
		}
		w.stmt(node.Else)

	case *LoopStatement:
		w.expr(node.Condition)
		w.stmt(node.Body)

	case *BreakStatement, *ContinueStatement: // leaf

	case *ReturnStatement:
		w.expr(node.Value)

	case *StreamStatement:
		w.expr(node.Value)

	case *CallStatement:
		w.expr(node.Call)

	case *AssignStatement:
		w.expr(node.Assign)

	// Declarations

	case *FuncDeclaration:
		for _, param := range node.Parameters {
			w.walk(param)
		}
		w.typ(node.Result)
		w.expr(node.Expression)
		w.stmt(node.Body)

	case *Param:
		w.typ(node.Type)

	case *TypeAlias:
		w.typ(node.Type)

	// Types

	case *PrimitiveType, *NamedType: // leaf

	case *TupleType:
		for _, t := range node.Elements {
			w.typ(t)
		}

	case *VectorType:
		w.typ(node.Element)

	case *ArrayType:
		w.typ(node.Element)
		w.expr(node.Size)

	case *StructType:
		for _, field := range node.Fields {
			w.walk(field)
		}

	// Identifiers

	case *Name:
		w.ident(node.Access)

	case *TuplePattern:
		for _, e := range node.Elements {
			w.ident(e)
		}
		w.ident(node.Access)

	case *Index:
		w.ident(node.Base)
		w.expr(node.Index)
		w.ident(node.Access)

	case *Call:
		w.ident(node.Base)
		for _, arg := range node.Arguments {
			w.expr(arg)
		}
		w.ident(node.Access)

	// Expressions

	case *IntegerLiteral, *RealLiteral, *CharacterLiteral,
		*StringLiteral, *BooleanLiteral, *GeneratorLiteral: // leaf

	case *IdentifierExpression:
		w.ident(node.Identifier)

	case *UnaryExpression:
		w.expr(node.Operand)

	case *BinaryExpression:
		w.expr(node.Left)
		w.expr(node.Right)

	case *CallExpression:
		for _, arg := range node.Arguments {
			w.expr(arg)
		}

	case *TupleLiteral:
		for _, e := range node.Elements {
			w.expr(e)
		}

	case *ListLiteral:
		for _, e := range node.Elements {
			w.expr(e)
		}

	case *AssignExpression:
		w.ident(node.Left)
		w.expr(node.Value)

	default:
		panic(fmt.Errorf("unhandled node type in walker: %T", node))
	}

	w.v.Visit(nil)
}
