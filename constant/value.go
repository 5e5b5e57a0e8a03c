package constant

import (
	"errors"
	"fmt"
	"github.com/hfmohammed/compiler/token"
	"math/big"
	"strconv"
)

type Type int

const (
	Illegal = Type(iota)
	Bool
	String
	Int
	Real
	Char
)

func (t Type) String() string {
	switch t {
	case Illegal:
		return "illegal"
	case Int:
		return "integer"
	case Real:
		return "real"
	case Char:
		return "character"
	case String:
		return "string"
	case Bool:
		return "boolean"
	default:
		panic("unknown type")
	}
}

// ErrInvalidNumeric is returned for integer or real literals which
// cannot be represented by the target.
var ErrInvalidNumeric = errors.New("invalid numeric literal")

type Value interface {
	// Type returns the Type of the Value.
	Type() Type
	// String returns the original literal of the Value.
	String() string
	// any must return the underlying value.
	any() any
}

// FromLiteral decodes the value of a literal token.
func FromLiteral(literal token.Token) (Value, error) {
	switch literal.Type {
	case token.IntegerLit:
		return makeInt(literal)
	case token.RealLit:
		return makeReal(literal)
	case token.CharacterLit:
		return makeChar(literal)
	case token.StringLit:
		return makeString(literal), nil
	case token.True, token.False:
		return makeBool(literal)
	default:
		return nil, fmt.Errorf("unexpected literal token type %s", literal.Type)
	}
}

func AsInt(value Value) (int64, error) {
	intVal, ok := value.(intValue)
	if !ok {
		return 0, errors.New("value is not an integer")
	}
	return intVal.v.Int64(), nil
}

func AsByte(value Value) (byte, error) {
	switch v := value.(type) {
	case charValue:
		return v.v, nil
	case intValue:
		if v.v.Sign() < 0 || v.v.BitLen() > 8 {
			return 0, fmt.Errorf("value is too big for byte need at least %d bits", v.v.BitLen())
		}
		return byte(v.v.Uint64()), nil
	}
	return 0, errors.New("value is not a character")
}

func AsBool(value Value) (bool, error) {
	boolValue, ok := value.(boolValue)
	if !ok {
		return false, errors.New("value is not a boolean")
	}
	return boolValue.v, nil
}

func As[T any](value Value) (T, bool) {
	v, ok := (value.any()).(T)
	return v, ok
}

type boolValue struct {
	literal string
	v       bool
}

func (b boolValue) Type() Type {
	return Bool
}

func (b boolValue) String() string {
	return b.literal
}

func (b boolValue) any() any {
	return b.v
}

func makeBool(t token.Token) (Value, error) {
	v, err := strconv.ParseBool(t.Literal)
	if err != nil {
		return nil, err
	}
	return boolValue{
		literal: t.Literal,
		v:       v,
	}, nil
}

type stringValue struct {
	literal string
	v       string
}

func (str stringValue) Type() Type {
	return String
}

func (str stringValue) String() string {
	return strconv.Quote(str.literal)
}

func (str stringValue) any() any {
	return str.v
}

func makeString(t token.Token) Value {
	return stringValue{
		literal: t.Literal,
		v:       t.Literal,
	}
}

type charValue struct {
	v byte
}

func (c charValue) Type() Type {
	return Char
}

func (c charValue) String() string {
	return strconv.QuoteRune(rune(c.v))
}

func (c charValue) any() any {
	return c.v
}

func makeChar(t token.Token) (Value, error) {
	if len(t.Literal) != 1 {
		return nil, fmt.Errorf("character literal must contain exactly one character, got %q", t.Literal)
	}
	return charValue{v: t.Literal[0]}, nil
}

type intValue struct {
	literal string
	v       *big.Int
}

func (iv intValue) Type() Type {
	return Int
}

func (iv intValue) String() string {
	return iv.literal
}

func (iv intValue) any() any {
	return iv.v.Int64()
}

func makeInt(t token.Token) (Value, error) {
	bigInt, ok := new(big.Int).SetString(t.Literal, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNumeric, t.Literal)
	}
	// integers are as wide as a register
	if !bigInt.IsInt64() {
		return nil, fmt.Errorf("%w: %s overflows integer", ErrInvalidNumeric, t.Literal)
	}

	return intValue{
		literal: t.Literal,
		v:       bigInt,
	}, nil
}

type realValue struct {
	literal string
	v       float64
}

func (rv realValue) Type() Type {
	return Real
}

func (rv realValue) String() string {
	return rv.literal
}

func (rv realValue) any() any {
	return rv.v
}

func makeReal(t token.Token) (Value, error) {
	v, err := strconv.ParseFloat(t.Literal, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNumeric, t.Literal)
	}
	return realValue{
		literal: t.Literal,
		v:       v,
	}, nil
}
