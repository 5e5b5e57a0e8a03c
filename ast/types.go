package ast

import "github.com/hfmohammed/compiler/token"

// TypeExpr = PrimitiveType | TupleType | VectorType | ArrayType | NamedType | StructType
type TypeExpr interface {
	Node
	aTypeExpr()
}

type typeExpr struct {
	node
}

func (typeExpr) aTypeExpr() {}

// PrimitiveType = "boolean" | "character" | "integer" | "real" | "string"
type PrimitiveType struct {
	typeExpr
	Name token.Type
}

// TupleType = "tuple" "(" Type {, Type} ")"
type TupleType struct {
	typeExpr
	Elements []TypeRef
}

// VectorType = "vector" "<" Type ">"
type VectorType struct {
	typeExpr
	Element TypeRef
}

// ArrayType = Type "[" (Size | "*") "]"
type ArrayType struct {
	typeExpr
	Element TypeRef
	Size    ExprRef
	AnySize bool
}

// NamedType refers to a struct or a type alias by name.
type NamedType struct {
	typeExpr
	Name string
}

// StructType = "struct" Name "(" Params ")"
type StructType struct {
	typeExpr
	Name   string
	Fields []*Param
}
