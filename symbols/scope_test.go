package symbols

import (
	"errors"
	"github.com/hfmohammed/compiler/types"
	"testing"
)

func newVar(name string, offset int) *Binding {
	return &Binding{Name: name, Offset: offset, Layout: types.NewScalar(types.Integer)}
}

func TestScope_Lookup(t *testing.T) {
	foo := newVar("foo", 8)
	bar := newVar("bar", 16)

	// root <- parent <- child
	//			 |			|
	//			foo		   bar
	root := NewScope(nil)
	parent := NewScope(root)
	createAssertDeclare(t, nil)(parent.Declare(foo))
	child := NewScope(parent)
	createAssertDeclare(t, nil)(child.Declare(bar))

	createAssertLookup(t, foo, nil)(child.Lookup("foo"))
	createAssertLookup(t, bar, nil)(child.Lookup("bar"))

	// not visible in enclosing scopes
	createAssertLookup(t, nil, ErrUndeclared)(root.Lookup("foo"))
	createAssertLookup(t, nil, ErrUndeclared)(parent.Lookup("bar"))

	if !IsGlobal(root) || IsGlobal(child) {
		t.Fatal("only the root scope is expected to be global")
	}
}

func TestScope_Shadowing(t *testing.T) {
	outer := newVar("x", 8)
	inner := newVar("x", 16)

	root := NewScope(nil)
	createAssertDeclare(t, nil)(root.Declare(outer))

	block := NewScope(root)
	createAssertDeclare(t, nil)(block.Declare(inner))

	createAssertLookup(t, inner, nil)(block.Lookup("x"))
	createAssertLookup(t, outer, nil)(block.Parent().Lookup("x"))
}

func TestScope_Redeclaration(t *testing.T) {
	root := NewScope(nil)
	createAssertDeclare(t, nil)(root.Declare(newVar("x", 8)))
	createAssertDeclare(t, ErrRedeclared)(root.Declare(newVar("x", 16)))

	if len(root.Bindings()) != 1 {
		t.Fatalf("expected 1 binding, got %d", len(root.Bindings()))
	}
}

func TestBinding_Slot(t *testing.T) {
	b := &Binding{Name: "t", Offset: 24, Layout: types.NewComposite(types.Tuple, "", []types.Member{
		{Layout: types.NewScalar(types.Integer)},
		{Layout: types.NewScalar(types.Integer)},
	})}

	if b.Slot(0) != 24 || b.Slot(1) != 32 {
		t.Fatalf("expected slots at 24 and 32, got %d and %d", b.Slot(0), b.Slot(1))
	}
}

func createAssertDeclare(t *testing.T, expected error) func(error) {
	return func(err error) {
		t.Helper()
		if expected == nil {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			return
		}
		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	}
}

func createAssertLookup(t *testing.T, expected *Binding, expectedErr error) func(*Binding, error) {
	return func(b *Binding, err error) {
		t.Helper()
		if expectedErr != nil {
			if !errors.Is(err, expectedErr) {
				t.Fatalf("expected %v, got %v", expectedErr, err)
			}
			var symErr *Error
			if !errors.As(err, &symErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b != expected {
			t.Fatalf("binding: expected '%v', got '%v'", expected, b)
		}
	}
}
