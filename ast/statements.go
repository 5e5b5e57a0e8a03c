package ast

import "github.com/hfmohammed/compiler/token"

type Statement interface {
	Node
	// Prevent external implementation
	aStatement()
}

type statement struct{ node }

func (statement) aStatement() {}

// DeclarationStatement = [Qualifier] Type Identifier ["=" Value] ";"
// Identifier is NoIdent for a bare struct definition.
type DeclarationStatement struct {
	statement
	Qualifier  token.Type
	Type       TypeRef
	Identifier IdentRef
	Value      ExprRef
}

type Block struct {
	statement
	Elements []Element
}

type ElseIf struct {
	Position  token.Position
	Condition ExprRef
	Body      StmtRef
}

type IfStatement struct {
	statement
	Condition ExprRef
	Body      StmtRef
	ElseIfs   []ElseIf
	Else      StmtRef
}

type LoopKind int

const (
	// InfiniteLoop = "loop" Body
	InfiniteLoop LoopKind = iota
	// PreLoop = "loop" "while" (Condition) Body
	PreLoop
	// PostLoop = "loop" Body "while" (Condition) ";"
	PostLoop
)

type LoopStatement struct {
	statement
	Kind      LoopKind
	Condition ExprRef
	Body      StmtRef
}

type BreakStatement struct{ statement }

type ContinueStatement struct{ statement }

type ReturnStatement struct {
	statement
	Value ExprRef
}

// StreamStatement = Value "->" "std_output" | Value "<-" "std_input"
type StreamStatement struct {
	statement
	Value     ExprRef
	Direction token.Type
	Stream    token.Type
}

// CallStatement = "call" Call ";", Call is a *CallExpression.
type CallStatement struct {
	statement
	Call ExprRef
}

// AssignStatement wraps an *AssignExpression.
type AssignStatement struct {
	statement
	Assign ExprRef
}
