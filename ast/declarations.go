package ast

import "github.com/hfmohammed/compiler/token"

// FuncDeclaration declares a function or a procedure,
// exactly one of Expression and Body is present.
type FuncDeclaration struct {
	node
	Kind       token.Type
	Name       string
	Parameters []*Param
	Result     TypeRef
	Expression ExprRef
	Body       StmtRef
}

func (d *FuncDeclaration) IsProcedure() bool {
	return d.Kind == token.Procedure
}

type Param struct {
	node
	Qualifier token.Type
	Type      TypeRef
	Name      string
}

// TypeAlias = "typealias" Type Name ";"
type TypeAlias struct {
	node
	Type TypeRef
	Name string
}
