package ast

import (
	"github.com/hfmohammed/compiler/token"
	"strconv"
)

// Identifier = Name | TuplePattern | Index | Call
//
// Every Identifier can be followed by a member access link,
// a.b.c is the Name a whose Access is the Name b whose Access is c.
type Identifier interface {
	Node
	// AccessLink returns the chained member, NoIdent if there is none.
	AccessLink() IdentRef
	SetAccess(IdentRef)
	aIdentifier()
}

type identifier struct {
	node
	Access IdentRef
}

func (i *identifier) AccessLink() IdentRef { return i.Access }
func (i *identifier) SetAccess(a IdentRef) { i.Access = a }
func (*identifier) aIdentifier()           {}

// Name [a-zA-Z_][a-zA-Z0-9_]*
//
// As the member of an access link a Name may also hold
// a 1-based tuple position such as the 1 in t.1.
type Name struct {
	identifier
	Name string
}

// TupleIndex returns the 0-based tuple element
// if the Name is a tuple position.
func (n *Name) TupleIndex() (int, bool) {
	i, err := strconv.Atoi(n.Name)
	if err != nil || i < 1 {
		return 0, false
	}
	return i - 1, true
}

// TuplePattern = Identifier, Identifier {, Identifier}
type TuplePattern struct {
	identifier
	Elements []IdentRef
}

// Index = Base[Index]
type Index struct {
	identifier
	Base  IdentRef
	Index ExprRef
}

// Call = Base(Arguments...)
type Call struct {
	identifier
	Base      IdentRef
	Arguments []ExprRef
}

func (a *Arena) NewName(p token.Position, name string) IdentRef {
	n := &Name{Name: name}
	n.SetPosition(p)
	n.Access = NoIdent
	return a.NewIdent(n)
}

func (a *Arena) NewTuplePattern(p token.Position, elements []IdentRef) IdentRef {
	tp := &TuplePattern{Elements: elements}
	tp.SetPosition(p)
	tp.Access = NoIdent
	return a.NewIdent(tp)
}
