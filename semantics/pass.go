package semantics

import (
	"errors"
	"fmt"
	"github.com/hfmohammed/compiler/ast"
)

var ErrMissingReturn = errors.New("missing return statement")

// Analyze ensures that the program adheres to the following rules:
//   - every function with a block body returns on all paths
//
// Procedures may fall off the end of their body.
func Analyze(f *ast.File) error {
	var err error

	ast.Inspect(f, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		fn, ok := n.(*ast.FuncDeclaration)
		if !ok || fn.IsProcedure() || !fn.Body.Valid() {
			return true
		}

		if !terminates(f.Arena, fn.Body) {
			pos := fn.Position()
			err = fmt.Errorf("%d:%d: function %s: %w", pos.Row, pos.Col, fn.Name, ErrMissingReturn)
		}
		return true
	})

	return err
}

// terminates reports whether control can not reach the end of the statement.
func terminates(a *ast.Arena, ref ast.StmtRef) bool {
	switch s := a.Stmt(ref).(type) {
	case *ast.ReturnStatement:
		return true

	case *ast.Block:
		// statements following a terminating statement are unreachable
		for _, e := range s.Elements {
			if stmt, ok := e.(ast.StmtRef); ok && terminates(a, stmt) {
				return true
			}
		}
		return false

	case *ast.IfStatement:
		if !s.Else.Valid() || !terminates(a, s.Body) || !terminates(a, s.Else) {
			return false
		}
		for _, elif := range s.ElseIfs {
			if !terminates(a, elif.Body) {
				return false
			}
		}
		return true

	case *ast.LoopStatement:
		switch s.Kind {
		case ast.InfiniteLoop:
			return !breaks(a, s.Body)
		case ast.PostLoop:
			// the body of a post-predicated loop runs at least once
			return terminates(a, s.Body) && !breaks(a, s.Body)
		}
		return false
	}

	return false
}

// breaks reports whether the statement contains a break
// which leaves the enclosing loop.
func breaks(a *ast.Arena, ref ast.StmtRef) bool {
	switch s := a.Stmt(ref).(type) {
	case *ast.BreakStatement:
		return true
	case *ast.Block:
		for _, e := range s.Elements {
			if stmt, ok := e.(ast.StmtRef); ok && breaks(a, stmt) {
				return true
			}
		}
	case *ast.IfStatement:
		if breaks(a, s.Body) || (s.Else.Valid() && breaks(a, s.Else)) {
			return true
		}
		for _, elif := range s.ElseIfs {
			if breaks(a, elif.Body) {
				return true
			}
		}
	}
	// breaks within nested loops leave the nested loop
	return false
}
