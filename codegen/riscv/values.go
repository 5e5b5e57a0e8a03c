package riscv

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/constant"
	"github.com/hfmohammed/compiler/symbols"
	"github.com/hfmohammed/compiler/token"
	"github.com/hfmohammed/compiler/types"
	"strings"
)

// place is the storage of a variable or one of its members.
type place struct {
	binding *symbols.Binding
	layout  *types.Layout
	// offset is the distance between the frame pointer and the first slot
	offset int
}

func (p place) slot(i int) int {
	return p.offset + i*types.SlotSize
}

func (p place) slots() []int {
	slots := make([]int, p.layout.Slots)
	for i := range slots {
		slots[i] = p.slot(i)
	}
	return slots
}

// place resolves an identifier and its member accesses to a stack location.
func (g *Generator) place(ref ast.IdentRef) (place, error) {
	switch id := g.arena.Ident(ref).(type) {
	case *ast.Name:
		b, err := g.env.scope.Lookup(id.Name)
		if err != nil {
			return place{}, errorAt(id.Position(), "%w", err)
		}
		return g.member(place{binding: b, layout: b.Layout, offset: b.Offset}, id.Access)

	case *ast.Index:
		return place{}, errorAt(id.Position(), "indexing %s: %w", g.arena.FormatIdent(id.Base), ErrUnsupported)

	case *ast.Call:
		if id.Access.Valid() {
			return place{}, errorAt(id.Position(), "member of the result of %s: %w", g.arena.FormatIdent(ref), ErrInvalidMemberAccess)
		}
		return place{}, errorAt(id.Position(), "calling %s: %w", g.arena.FormatIdent(id.Base), ErrUnsupported)

	case *ast.TuplePattern:
		return place{}, errorAt(id.Position(), "tuple pattern %s: %w", g.arena.FormatIdent(ref), ErrUnsupported)

	default:
		panic(fmt.Errorf("unsupported identifier type: %T", id))
	}
}

// member follows the access chain of p, every link names
// a struct field or a 1-based tuple position.
func (g *Generator) member(p place, access ast.IdentRef) (place, error) {
	for access.Valid() {
		link := g.arena.Ident(access)

		name, ok := link.(*ast.Name)
		if !ok {
			return place{}, errorAt(link.Position(), "%s: %w", g.arena.FormatIdent(access), ErrInvalidMemberAccess)
		}
		if !p.layout.IsComposite() {
			return place{}, errorAt(name.Position(), "%s of %s: %w", name.Name, p.layout, ErrInvalidMemberAccess)
		}

		m, err := p.layout.Member(name.Name)
		if err != nil {
			return place{}, errorAt(name.Position(), "%w: %w", ErrInvalidMemberAccess, err)
		}

		p = place{binding: p.binding, layout: m.Layout, offset: p.slot(m.Slot)}
		access = name.Access
	}
	return p, nil
}

// assignable resolves the place of an assignment target.
func (g *Generator) assignable(ref ast.IdentRef) (place, error) {
	p, err := g.place(ref)
	if err != nil {
		return place{}, err
	}
	if p.binding.Const {
		return place{}, errorAt(g.arena.Ident(ref).Position(), "%s: %w", p.binding.Name, ErrConstAssignment)
	}
	return p, nil
}

// checkStorable ensures that values of the layout can be kept on the stack.
func checkStorable(pos token.Position, l *types.Layout) error {
	if l.IsScalar() || l.IsComposite() {
		return nil
	}
	return errorAt(pos, "variables of type %s: %w", l, ErrUnsupported)
}

// compositeValue evaluates a tuple or struct value and pushes one
// temporary per slot of want. Tuple literals and variables of the same
// width are supported.
func (g *Generator) compositeValue(ref ast.ExprRef, want *types.Layout) error {
	switch e := g.arena.Expr(ref).(type) {
	case *ast.TupleLiteral:
		if len(e.Elements) != len(want.Members) {
			return errorAt(e.Position(), "%d values for %s: %w", len(e.Elements), want, ErrShapeMismatch)
		}
		for i, element := range e.Elements {
			if m := want.Members[i].Layout; m.IsComposite() {
				if err := g.compositeValue(element, m); err != nil {
					return err
				}
				continue
			}
			if _, err := g.expression(element); err != nil {
				return err
			}
			g.push(t0)
		}
		return nil

	case *ast.IdentifierExpression:
		p, err := g.place(e.Identifier)
		if err != nil {
			return err
		}
		if !p.layout.IsComposite() || p.layout.Slots != want.Slots {
			return errorAt(e.Position(), "%s for %s: %w", p.layout, want, ErrShapeMismatch)
		}
		for _, slot := range p.slots() {
			g.asm.LoadFromOffset(t0, s0, -slot)
			g.push(t0)
		}
		return nil

	default:
		return errorAt(e.Position(), "%s as %s: %w", g.arena.FormatExpr(ref), want, ErrUnsupported)
	}
}

// push saves the register in the next temporary.
func (g *Generator) push(r Register) {
	g.asm.StoreAtOffset(r, s0, g.env.pushTemp())
}

// pop restores the most recent temporary into the register.
func (g *Generator) pop(r Register) {
	g.asm.LoadFromOffset(r, s0, g.env.popTemp())
}

// popInto stores previously pushed temporaries into the slots,
// the last slot receives the most recent temporary.
func (g *Generator) popInto(slots []int) {
	for i := len(slots) - 1; i >= 0; i-- {
		g.pop(t0)
		g.asm.StoreAtOffset(t0, s0, -slots[i])
	}
}

func (g *Generator) zero(slots []int) {
	for _, slot := range slots {
		g.asm.StoreAtOffset(x0, s0, -slot)
	}
}

// expression generates the code for a scalar expression.
// The result is left in t0 and its kind is reported.
func (g *Generator) expression(ref ast.ExprRef) (types.Kind, error) {
	switch e := g.arena.Expr(ref).(type) {
	case *ast.IntegerLiteral:
		v, err := constant.AsInt(e.Value())
		if err != nil {
			return types.Invalid, errorAt(e.Position(), "%w", err)
		}
		g.asm.LoadImmediate(t0, v)
		return types.Integer, nil

	case *ast.BooleanLiteral:
		// 1 = true, 0 = false
		v, err := constant.AsBool(e.Value())
		if err != nil {
			return types.Invalid, errorAt(e.Position(), "%w", err)
		}
		if v {
			g.asm.LoadImmediate(t0, 1)
		} else {
			g.asm.LoadImmediate(t0, 0)
		}
		return types.Boolean, nil

	case *ast.CharacterLiteral:
		v, err := constant.AsByte(e.Value())
		if err != nil {
			return types.Invalid, errorAt(e.Position(), "%w", err)
		}
		g.asm.LoadImmediate(t0, int64(v))
		return types.Character, nil

	case *ast.StringLiteral:
		v, ok := constant.As[string](e.Value())
		if !ok {
			panic(fmt.Errorf("string literal holds %s", e.Value()))
		}
		label := g.provideDataLabel()
		g.asm.DefineData(label, emitData{kind: emitString, value: quoteASM(v)})
		g.asm.LoadDataAddress(label, t0)
		return types.String, nil

	case *ast.IdentifierExpression:
		p, err := g.place(e.Identifier)
		if err != nil {
			return types.Invalid, err
		}
		if !p.layout.IsScalar() {
			return types.Invalid, errorAt(e.Position(), "%s value of %s: %w", p.layout, g.arena.FormatIdent(e.Identifier), ErrUnsupported)
		}
		g.asm.LoadFromOffset(t0, s0, -p.offset)
		return p.layout.Kind, nil

	case *ast.UnaryExpression:
		return g.unaryExpression(e)

	case *ast.BinaryExpression:
		return g.binaryExpression(e)

	case *ast.CallExpression:
		return g.call(e)

	case *ast.RealLiteral:
		return types.Invalid, errorAt(e.Position(), "real literal %s: %w", e.Value(), ErrUnsupported)
	case *ast.GeneratorLiteral:
		return types.Invalid, errorAt(e.Position(), "generator literal %s: %w", e.Literal, ErrUnsupported)
	case *ast.ListLiteral:
		return types.Invalid, errorAt(e.Position(), "list literal: %w", ErrUnsupported)
	case *ast.TupleLiteral:
		return types.Invalid, errorAt(e.Position(), "tuple literal as a scalar: %w", ErrUnsupported)
	case *ast.AssignExpression:
		return types.Invalid, errorAt(e.Position(), "assignment as a value: %w", ErrUnsupported)

	default:
		panic(fmt.Errorf("unsupported expression type: %T", e))
	}
}

func (g *Generator) unaryExpression(e *ast.UnaryExpression) (types.Kind, error) {
	kind, err := g.expression(e.Operand)
	if err != nil {
		return types.Invalid, err
	}

	switch e.Operator {
	case token.Sub:
		g.asm.Neg(t0, t0)
		return kind, nil
	case token.Sum:
		return kind, nil
	case token.Not:
		g.asm.SetEQZ(t0, t0)
		return types.Boolean, nil
	}
	return types.Invalid, errorAt(e.Position(), "unary operator '%s': %w", e.Operator, ErrUnsupported)
}

// binaryExpression evaluates the right operand first and keeps it in
// a temporary while the left operand is evaluated.
func (g *Generator) binaryExpression(e *ast.BinaryExpression) (types.Kind, error) {
	switch e.Operator {
	case token.Range, token.By, token.DotMul, token.Concat:
		return types.Invalid, errorAt(e.Position(), "operator '%s': %w", e.Operator, ErrUnsupported)
	}

	if _, err := g.expression(e.Right); err != nil {
		return types.Invalid, err
	}
	g.push(t0)

	kind, err := g.expression(e.Left)
	if err != nil {
		return types.Invalid, err
	}
	g.pop(t1)

	switch e.Operator {
	case token.Sum:
		g.asm.Add(t0, t0, t1)
	case token.Sub:
		g.asm.Sub(t0, t0, t1)
	case token.Mul:
		g.asm.Mul(t0, t0, t1)
	case token.Div:
		g.asm.Div(t0, t0, t1)
	case token.Mod:
		g.asm.Rem(t0, t0, t1)
	case token.Exp:
		g.asm.Move(a0, t0)
		g.asm.Move(a1, t1)
		g.asm.Call(rtIntPow)
		g.asm.Move(t0, a0)

	case token.LessThan:
		g.asm.LessThan(t0, t0, t1)
		return types.Boolean, nil
	case token.LessThanEqual:
		g.asm.LessThanOrEqual(t0, t0, t1)
		return types.Boolean, nil
	case token.GreaterThan:
		g.asm.GreaterThan(t0, t0, t1)
		return types.Boolean, nil
	case token.GreaterThanEqual:
		g.asm.GreaterThanOrEqual(t0, t0, t1)
		return types.Boolean, nil
	case token.Equal:
		g.asm.Equal(t0, t0, t1)
		return types.Boolean, nil
	case token.NotEqual:
		g.asm.NotEqual(t0, t0, t1)
		return types.Boolean, nil

	case token.And, token.Or, token.Xor:
		// any value other than 0 is true
		g.asm.SetNEZ(t0, t0)
		g.asm.SetNEZ(t1, t1)
		switch e.Operator {
		case token.And:
			g.asm.And(t0, t0, t1)
		case token.Or:
			g.asm.Or(t0, t0, t1)
		default:
			g.asm.Xor(t0, t0, t1)
		}
		return types.Boolean, nil

	default:
		return types.Invalid, errorAt(e.Position(), "binary operator '%s': %w", e.Operator, ErrUnsupported)
	}

	return kind, nil
}

// call evaluates the arguments from left to right, passes them in a0-a7
// and moves the result into t0. Procedures report an invalid kind.
func (g *Generator) call(e *ast.CallExpression) (types.Kind, error) {
	if len(e.Arguments) > len(argRegisters) {
		return types.Invalid, errorAt(e.Position(), "call of %s with %d arguments: %w", e.Function, len(e.Arguments), ErrTooManyArguments)
	}

	sig, ok := g.functions[e.Function]
	if !ok {
		return types.Invalid, errorAt(e.Position(), "%w", &symbols.Error{Kind: symbols.ErrUndeclared, Name: e.Function})
	}
	if len(e.Arguments) != len(sig.params) {
		return types.Invalid, errorAt(e.Position(), "%s expects %d, got %d: %w",
			e.Function, len(sig.params), len(e.Arguments), ErrArgumentCount)
	}

	g.comment("call %s", e.Function)

	// earlier arguments are kept in temporaries,
	// evaluating a later argument may clobber any register
	for _, arg := range e.Arguments {
		if _, err := g.expression(arg); err != nil {
			return types.Invalid, err
		}
		g.push(t0)
	}
	for i := len(e.Arguments) - 1; i >= 0; i-- {
		g.pop(argRegisters[i])
	}

	g.asm.Call(e.Function)
	g.asm.Move(t0, a0)

	if sig.result == nil {
		return types.Invalid, nil
	}
	return sig.result.Kind, nil
}

// quoteASM quotes s for a .string directive,
// bytes which are not printable are written as octal escapes.
func quoteASM(s string) string {
	sb := &strings.Builder{}
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c < ' ' || c > '~':
			sb.WriteString(fmt.Sprintf("\\%03o", c))
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
