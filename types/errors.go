package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType     = newTypeError("unknown type")
	ErrRedeclaredType  = newTypeError("type redeclared")
	ErrDuplicateMember = newTypeError("duplicate member")
	ErrUnknownMember   = newTypeError("unknown member")
)

type typeError struct {
	msg   string
	parts []string
}

func newTypeError(msg string) typeError {
	return typeError{
		msg: fmt.Sprintf("type error: %s", msg),
	}
}

func (e typeError) WithName(name string) typeError {
	return typeError{
		msg:   e.msg,
		parts: append(e.parts, fmt.Sprintf("'%s'", name)),
	}
}

func (e typeError) WithActual(actual *Layout) typeError {
	return typeError{
		msg:   e.msg,
		parts: append(e.parts, fmt.Sprintf("in '%s'", actual)),
	}
}

// Is only compares the message, the parts are details
// of a specific occurrence.
func (e typeError) Is(err error) bool {
	var other typeError
	if !errors.As(err, &other) {
		return false
	}
	return other.msg == e.msg
}

func (e typeError) Error() string {
	if len(e.parts) > 0 {
		return fmt.Sprintf("%s: %s", e.msg, strings.Join(e.parts, " "))
	}
	return e.msg
}
