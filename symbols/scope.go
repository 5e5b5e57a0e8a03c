package symbols

import (
	"github.com/hfmohammed/compiler/types"
)

type Kind int

const (
	Variable Kind = iota
	Parameter
)

// Binding associates a name with its storage in the current stack frame.
type Binding struct {
	Name string
	Kind Kind
	// Offset is the distance in bytes between the frame pointer
	// and the first slot of the binding, the slot is at -Offset(fp).
	Offset int
	Layout *types.Layout
	// Const bindings cannot be assigned after their declaration.
	Const bool
}

// Slot returns the offset of the i-th slot of the binding.
// The slots of a binding grow towards lower addresses.
func (b *Binding) Slot(i int) int {
	return b.Offset + i*types.SlotSize
}

// IsGlobal reports whether the supplied Scope
// is the outermost Scope.
func IsGlobal(scope *Scope) bool {
	return scope.parent == nil
}

// Scope represents a lexical scope of a function body,
// every block opens a new Scope.
type Scope struct {
	parent   *Scope
	bindings map[string]*Binding
	order    []*Binding
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		bindings: make(map[string]*Binding),
	}
}

// Parent returns the enclosing Scope, nil for the outermost Scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Declare registers the binding in the current Scope.
// Shadowing a binding of an enclosing Scope is allowed,
// redeclaring a name within the same Scope is not.
func (s *Scope) Declare(b *Binding) error {
	if s.lookup(b.Name) != nil {
		return &Error{Kind: ErrRedeclared, Name: b.Name}
	}
	s.bindings[b.Name] = b
	s.order = append(s.order, b)
	return nil
}

// Lookup returns the innermost Binding with the supplied name.
func (s *Scope) Lookup(name string) (*Binding, error) {
	if _, b := s.lookupClimb(name); b != nil {
		return b, nil
	}
	return nil, &Error{Kind: ErrUndeclared, Name: name}
}

// Bindings returns the bindings of the current Scope in declaration order.
func (s *Scope) Bindings() []*Binding {
	return s.order
}

// lookup checks if the name is defined in the current Scope.
// If the name is not found, nil is returned.
func (s *Scope) lookup(name string) *Binding {
	if b, ok := s.bindings[name]; ok {
		return b
	}
	return nil
}

// lookupClimb checks if the supplied name is defined in the current Scope
// or any of its ancestors.
// Either the Scope in which the Binding is found and the Binding itself is returned
// or nil for both values if the name could not be found.
func (s *Scope) lookupClimb(name string) (*Scope, *Binding) {
	current := s
	for current != nil {
		if b := current.lookup(name); b != nil {
			return current, b
		}
		current = current.parent
	}
	return nil, nil
}
