package token

import (
	"fmt"
)

const (
	// CONTROL

	Illegal = "Illegal"
	EOF     = "EOF"

	// Identifiers & Literals

	Identifier = "Identifier"

	IntegerLit   = "Integer"
	RealLit      = "Real"
	CharacterLit = "Character"
	StringLit    = "String"
	// GeneratorLit is numeric text with exactly two '.' separators (e.g. 1.2.3).
	GeneratorLit = "Generator"

	// Comments

	Comment = "Comment"

	// Operators

	Assign = "="

	Mul    = "*"
	Div    = "/"
	Mod    = "%"
	Sum    = "+"
	Sub    = "-"
	Exp    = "^"
	DotMul = "**"
	Concat = "||"
	Range  = ".."
	Dot    = "."

	LessThan         = "<"
	GreaterThan      = ">"
	Equal            = "=="
	NotEqual         = "!="
	LessThanEqual    = "<="
	GreaterThanEqual = ">="

	// Stream operators

	StreamOut = "->"
	StreamIn  = "<-"

	// Delimiters

	Comma     = ","
	Semicolon = ";"
	LParen    = "("
	RParen    = ")"
	LBrace    = "{"
	RBrace    = "}"
	LBracket  = "["
	RBracket  = "]"

	// Keywords

	And       = "and"
	Or        = "or"
	Xor       = "xor"
	Not       = "not"
	By        = "by"
	Const     = "const"
	Var       = "var"
	True      = "true"
	False     = "false"
	If        = "if"
	Else      = "else"
	Loop      = "loop"
	While     = "while"
	Break     = "break"
	Continue  = "continue"
	Return    = "return"
	Returns   = "returns"
	Call      = "call"
	Function  = "function"
	Procedure = "procedure"
	Struct    = "struct"
	TypeAlias = "typealias"
	StdInput  = "std_input"
	StdOutput = "std_output"

	// reserved type names

	Boolean   = "boolean"
	Character = "character"
	Integer   = "integer"
	Real      = "real"
	String    = "string"
	Tuple     = "tuple"
	Vector    = "vector"
)

var keywords = map[string]Type{
	"and":        And,
	"or":         Or,
	"xor":        Xor,
	"not":        Not,
	"by":         By,
	"const":      Const,
	"var":        Var,
	"true":       True,
	"false":      False,
	"if":         If,
	"else":       Else,
	"loop":       Loop,
	"while":      While,
	"break":      Break,
	"continue":   Continue,
	"return":     Return,
	"returns":    Returns,
	"call":       Call,
	"function":   Function,
	"procedure":  Procedure,
	"struct":     Struct,
	"typealias":  TypeAlias,
	"std_input":  StdInput,
	"std_output": StdOutput,
	"boolean":    Boolean,
	"character":  Character,
	"integer":    Integer,
	"real":       Real,
	"string":     String,
	"tuple":      Tuple,
	"vector":     Vector,
}

type Type string

// Token defines a valid language token.
// Literal contains the tokens unchanged literal value as specified in the source code,
// except for character and string literals whose delimiting quotes are stripped.
type Token struct {
	Type     Type
	Literal  string
	Position Position
}

type Position struct {
	Row, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

func (t Token) String() string {
	return fmt.Sprintf(
		"TypeID='%s', Literal='%s', Row='%d' Col='%d'",
		t.Type, t.Literal, t.Position.Row, t.Position.Col,
	)
}

func IsReservedKeyword(identifier string) bool {
	_, ok := keywords[identifier]
	return ok
}

// LookupIdentifier checks if the supplied identifier is a reserved keyword.
func LookupIdentifier(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return Identifier
}

var (
	// PrimitiveTypes are the keywords naming a built-in scalar type.
	PrimitiveTypes = []Type{Boolean, Character, Integer, Real, String}

	// Qualifiers control the mutability intent of a declaration or parameter.
	Qualifiers = []Type{Const, Var}

	// StreamOperators are the directional operators of stream statements.
	StreamOperators = []Type{StreamOut, StreamIn}
)
