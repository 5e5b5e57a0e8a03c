package riscv

import (
	"errors"
	"fmt"
	"github.com/hfmohammed/compiler/token"
)

var (
	ErrBreakOutsideLoop    = errors.New("break outside of a loop")
	ErrContinueOutsideLoop = errors.New("continue outside of a loop")
	ErrTooManyArguments    = errors.New("too many arguments")
	ErrArgumentCount       = errors.New("wrong number of arguments")
	ErrMalformedFunction   = errors.New("malformed function")
	ErrInvalidMemberAccess = errors.New("invalid member access")
	ErrConstAssignment     = errors.New("assignment to constant")
	ErrShapeMismatch       = errors.New("value does not match the shape of its destination")
	ErrUnsupported         = errors.New("unsupported")
)

// errorAt prefixes err with the source position it was caused by.
func errorAt(p token.Position, format string, args ...any) error {
	return fmt.Errorf("%d:%d: %w", p.Row, p.Col, fmt.Errorf(format, args...))
}
