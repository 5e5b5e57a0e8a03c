package types

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/token"
)

// Resolver turns type expressions of a File into Layouts.
// Structs and aliases must be declared before they are resolved,
// which matches the order in which the parser accepts them.
type Resolver struct {
	arena   *ast.Arena
	named   map[string]*Layout
	structs map[*ast.StructType]*Layout
}

func NewResolver(arena *ast.Arena) *Resolver {
	return &Resolver{
		arena:   arena,
		named:   make(map[string]*Layout),
		structs: make(map[*ast.StructType]*Layout),
	}
}

// DeclareStruct resolves the struct and makes it available by name.
func (r *Resolver) DeclareStruct(st *ast.StructType) (*Layout, error) {
	// the same definition may be resolved more than once
	if l, ok := r.structs[st]; ok {
		return l, nil
	}
	if _, ok := r.named[st.Name]; ok {
		return nil, ErrRedeclaredType.WithName(st.Name)
	}

	seen := make(map[string]struct{}, len(st.Fields))
	members := make([]Member, 0, len(st.Fields))
	for _, field := range st.Fields {
		if _, ok := seen[field.Name]; ok {
			return nil, ErrDuplicateMember.WithName(field.Name)
		}
		seen[field.Name] = struct{}{}

		l, err := r.Resolve(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		members = append(members, Member{Name: field.Name, Layout: l})
	}

	l := NewComposite(Struct, st.Name, members)
	r.named[st.Name] = l
	r.structs[st] = l
	return l, nil
}

// DeclareAlias makes the aliased type available by the alias name.
func (r *Resolver) DeclareAlias(alias *ast.TypeAlias) error {
	if _, ok := r.named[alias.Name]; ok {
		return ErrRedeclaredType.WithName(alias.Name)
	}
	l, err := r.Resolve(alias.Type)
	if err != nil {
		return fmt.Errorf("alias %s: %w", alias.Name, err)
	}
	r.named[alias.Name] = l
	return nil
}

// Resolve returns the Layout of the referenced type expression.
func (r *Resolver) Resolve(ref ast.TypeRef) (*Layout, error) {
	switch t := r.arena.Type(ref).(type) {
	case *ast.PrimitiveType:
		return primitive(t.Name)

	case *ast.NamedType:
		l, ok := r.named[t.Name]
		if !ok {
			return nil, ErrUnknownType.WithName(t.Name)
		}
		return l, nil

	case *ast.TupleType:
		members := make([]Member, 0, len(t.Elements))
		for _, e := range t.Elements {
			l, err := r.Resolve(e)
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Layout: l})
		}
		return NewComposite(Tuple, "", members), nil

	case *ast.StructType:
		return r.DeclareStruct(t)

	case *ast.VectorType:
		element, err := r.Resolve(t.Element)
		if err != nil {
			return nil, err
		}
		return &Layout{Kind: Vector, Element: element}, nil

	case *ast.ArrayType:
		element, err := r.Resolve(t.Element)
		if err != nil {
			return nil, err
		}
		return &Layout{Kind: Array, Element: element}, nil

	default:
		panic(fmt.Errorf("unhandled type expression %T", t))
	}
}

func primitive(name token.Type) (*Layout, error) {
	switch name {
	case token.Integer:
		return NewScalar(Integer), nil
	case token.Real:
		return NewScalar(Real), nil
	case token.Character:
		return NewScalar(Character), nil
	case token.Boolean:
		return NewScalar(Boolean), nil
	case token.String:
		return NewScalar(String), nil
	}
	return nil, ErrUnknownType.WithName(string(name))
}
