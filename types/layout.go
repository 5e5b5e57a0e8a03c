package types

import (
	"fmt"
	"github.com/hfmohammed/compiler/pkg/slices"
	"strconv"
	"strings"
)

// SlotSize is the size of a stack slot in bytes.
const SlotSize = 8

type Kind int

const (
	Invalid Kind = iota
	Integer
	Real
	Character
	Boolean
	String
	Tuple
	Struct
	Vector
	Array
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Character:
		return "character"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Tuple:
		return "tuple"
	case Struct:
		return "struct"
	case Vector:
		return "vector"
	case Array:
		return "array"
	default:
		return "invalid"
	}
}

// Layout describes how a value of a type is stored on the stack.
// Scalars occupy exactly one slot, tuples and structs store their
// members in consecutive slots. Vectors and arrays have no stack layout.
type Layout struct {
	Kind Kind
	// Name is set for structs and aliased types.
	Name string
	// Members of a tuple or struct in declaration order.
	Members []Member
	// Element is the element layout of vectors and arrays.
	Element *Layout
	// Slots is the number of stack slots a value occupies.
	Slots int
}

type Member struct {
	// Name is the field name of a struct member, tuple members are unnamed.
	Name   string
	Layout *Layout
	// Slot is the index of the first slot of the member within its parent.
	Slot int
}

func NewScalar(k Kind) *Layout {
	return &Layout{Kind: k, Slots: 1}
}

// NewComposite creates a tuple or struct layout from its members.
// The member slots are assigned in order.
func NewComposite(k Kind, name string, members []Member) *Layout {
	l := &Layout{Kind: k, Name: name, Members: members}
	for i := range l.Members {
		l.Members[i].Slot = l.Slots
		l.Slots += l.Members[i].Layout.Slots
	}
	return l
}

func (l *Layout) IsScalar() bool {
	switch l.Kind {
	case Integer, Real, Character, Boolean, String:
		return true
	}
	return false
}

func (l *Layout) IsComposite() bool {
	return l.Kind == Tuple || l.Kind == Struct
}

// Member resolves a struct field or a 1-based tuple position.
func (l *Layout) Member(name string) (Member, error) {
	switch l.Kind {
	case Tuple:
		i, err := strconv.Atoi(name)
		if err != nil || i < 1 || i > len(l.Members) {
			return Member{}, ErrUnknownMember.WithName(name).WithActual(l)
		}
		return l.Members[i-1], nil
	case Struct:
		for _, m := range l.Members {
			if m.Name == name {
				return m, nil
			}
		}
	}
	return Member{}, ErrUnknownMember.WithName(name).WithActual(l)
}

func (l *Layout) String() string {
	switch l.Kind {
	case Tuple:
		return fmt.Sprintf("tuple(%s)", strings.Join(slices.Map(l.Members, func(m Member) string {
			return m.Layout.String()
		}), ", "))
	case Struct:
		return fmt.Sprintf("struct %s", l.Name)
	case Vector:
		return fmt.Sprintf("vector<%s>", l.Element)
	case Array:
		return fmt.Sprintf("%s[]", l.Element)
	}
	return l.Kind.String()
}
