package ast

import (
	"github.com/hfmohammed/compiler/token"
)

type Node interface {
	// Position returns the position of the first token
	// of the Node.
	Position() token.Position

	// prevent external implementations
	aNode()
}

type node struct {
	p token.Position
}

func (n *node) SetPosition(p token.Position) { n.p = p }
func (n *node) Position() token.Position     { return n.p }
func (*node) aNode()                         {}

// Element is a top level or block level element of a program.
// It is one of StmtRef, *FuncDeclaration or *TypeAlias.
type Element interface {
	aElement()
}

func (StmtRef) aElement()          {}
func (*FuncDeclaration) aElement() {}
func (*TypeAlias) aElement()       {}

// File is the root of a parsed compilation unit.
// All nodes reachable from Elements live in Arena.
type File struct {
	node
	Arena    *Arena
	Elements []Element
}

func NewFile() *File {
	return &File{Arena: NewArena()}
}
