package symbols

import (
	"errors"
	"fmt"
)

var (
	ErrUndeclared = newSymbolError("undeclared identifier")
	ErrRedeclared = newSymbolError("redeclaration")
)

type symbolError struct {
	msg string
}

func newSymbolError(msg string) symbolError {
	return symbolError{msg}
}

func (se symbolError) Error() string {
	return fmt.Sprintf("symbol error: %s", se.msg)
}

func (se symbolError) Is(target error) bool {
	var other symbolError
	if !errors.As(target, &other) {
		return false
	}
	return other.msg == se.msg
}

// Error reports the name which caused a symbol error,
// the kind is either ErrUndeclared or ErrRedeclared.
type Error struct {
	Kind error
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s '%s'", e.Kind, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Kind
}
