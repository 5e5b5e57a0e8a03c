package ast

import (
	"fmt"
	"github.com/hfmohammed/compiler/pkg/slices"
	"github.com/hfmohammed/compiler/token"
	"strings"
)

func (file *File) String() string {
	p := printer{a: file.Arena}
	for _, e := range file.Elements {
		p.element(e)
	}
	return p.sb.String()
}

// FormatExpr renders an expression fully parenthesized,
// e.g. 1 + 2 * 3 is rendered as (1 + (2 * 3)).
func (a *Arena) FormatExpr(r ExprRef) string {
	if !r.Valid() {
		return ""
	}

	switch e := a.Expr(r).(type) {
	case ConstExpression:
		return e.Value().String()
	case *GeneratorLiteral:
		return e.Literal
	case *IdentifierExpression:
		return a.FormatIdent(e.Identifier)
	case *UnaryExpression:
		if e.Operator == token.Not {
			return fmt.Sprintf("(not %s)", a.FormatExpr(e.Operand))
		}
		return fmt.Sprintf("(%s%s)", e.Operator, a.FormatExpr(e.Operand))
	case *BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", a.FormatExpr(e.Left), e.Operator, a.FormatExpr(e.Right))
	case *CallExpression:
		return fmt.Sprintf("%s(%s)", e.Function, a.formatExprs(e.Arguments))
	case *TupleLiteral:
		return fmt.Sprintf("(%s)", a.formatExprs(e.Elements))
	case *ListLiteral:
		return fmt.Sprintf("[%s]", a.formatExprs(e.Elements))
	case *AssignExpression:
		return fmt.Sprintf("%s = %s", a.FormatIdent(e.Left), a.FormatExpr(e.Value))
	default:
		panic(fmt.Errorf("unhandled expression type in printer: %T", e))
	}
}

func (a *Arena) formatExprs(refs []ExprRef) string {
	return strings.Join(slices.Map(refs, a.FormatExpr), ", ")
}

func (a *Arena) FormatIdent(r IdentRef) string {
	if !r.Valid() {
		return ""
	}

	var str string
	id := a.Ident(r)
	switch i := id.(type) {
	case *Name:
		str = i.Name
	case *TuplePattern:
		str = strings.Join(slices.Map(i.Elements, a.FormatIdent), ", ")
	case *Index:
		str = fmt.Sprintf("%s[%s]", a.FormatIdent(i.Base), a.FormatExpr(i.Index))
	case *Call:
		str = fmt.Sprintf("%s(%s)", a.FormatIdent(i.Base), a.formatExprs(i.Arguments))
	default:
		panic(fmt.Errorf("unhandled identifier type in printer: %T", id))
	}

	if id.AccessLink().Valid() {
		str += "." + a.FormatIdent(id.AccessLink())
	}
	return str
}

func (a *Arena) FormatType(r TypeRef) string {
	if !r.Valid() {
		return ""
	}

	switch t := a.Type(r).(type) {
	case *PrimitiveType:
		return string(t.Name)
	case *NamedType:
		return t.Name
	case *TupleType:
		return fmt.Sprintf("tuple(%s)", strings.Join(slices.Map(t.Elements, a.FormatType), ", "))
	case *VectorType:
		return fmt.Sprintf("vector<%s>", a.FormatType(t.Element))
	case *ArrayType:
		if t.AnySize {
			return fmt.Sprintf("%s[*]", a.FormatType(t.Element))
		}
		return fmt.Sprintf("%s[%s]", a.FormatType(t.Element), a.FormatExpr(t.Size))
	case *StructType:
		return fmt.Sprintf("struct %s(%s)", t.Name, a.formatParams(t.Fields))
	default:
		panic(fmt.Errorf("unhandled type in printer: %T", t))
	}
}

func (a *Arena) formatParams(params []*Param) string {
	return strings.Join(slices.Map(params, func(p *Param) string {
		if p.Qualifier != "" {
			return fmt.Sprintf("%s %s %s", p.Qualifier, a.FormatType(p.Type), p.Name)
		}
		return fmt.Sprintf("%s %s", a.FormatType(p.Type), p.Name)
	}), ", ")
}

type printer struct {
	a     *Arena
	sb    strings.Builder
	depth int
}

func (p *printer) line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("    ", p.depth))
	p.sb.WriteString(fmt.Sprintf(format, args...))
	p.sb.WriteByte('\n')
}

// cond renders a condition, binary and unary expressions are already parenthesized.
func (p *printer) cond(r ExprRef) string {
	switch p.a.Expr(r).(type) {
	case *BinaryExpression, *UnaryExpression:
		return p.a.FormatExpr(r)
	}
	return fmt.Sprintf("(%s)", p.a.FormatExpr(r))
}

func (p *printer) element(e Element) {
	switch el := e.(type) {
	case StmtRef:
		p.stmt(el)
	case *TypeAlias:
		p.line("typealias %s %s;", p.a.FormatType(el.Type), el.Name)
	case *FuncDeclaration:
		header := fmt.Sprintf("%s %s(%s)", el.Kind, el.Name, p.a.formatParams(el.Parameters))
		if el.Result.Valid() {
			header += " returns " + p.a.FormatType(el.Result)
		}
		if el.Expression.Valid() {
			p.line("%s = %s;", header, p.a.FormatExpr(el.Expression))
			return
		}
		p.line("%s", header)
		p.stmt(el.Body)
	default:
		panic(fmt.Errorf("unhandled element type in printer: %T", e))
	}
}

func (p *printer) stmt(r StmtRef) {
	switch s := p.a.Stmt(r).(type) {
	case *DeclarationStatement:
		str := p.a.FormatType(s.Type)
		if s.Qualifier != "" {
			str = fmt.Sprintf("%s %s", s.Qualifier, str)
		}
		if s.Identifier.Valid() {
			str += " " + p.a.FormatIdent(s.Identifier)
		}
		if s.Value.Valid() {
			str += " = " + p.a.FormatExpr(s.Value)
		}
		p.line("%s;", str)
	case *Block:
		p.line("{")
		p.depth++
		for _, e := range s.Elements {
			p.element(e)
		}
		p.depth--
		p.line("}")
	case *IfStatement:
		p.line("if %s", p.cond(s.Condition))
		p.stmt(s.Body)
		for _, elif := range s.ElseIfs {
			p.line("else if %s", p.cond(elif.Condition))
			p.stmt(elif.Body)
		}
		if s.Else.Valid() {
			p.line("else")
			p.stmt(s.Else)
		}
	case *LoopStatement:
		switch s.Kind {
		case PreLoop:
			p.line("loop while %s", p.cond(s.Condition))
			p.stmt(s.Body)
		case PostLoop:
			p.line("loop")
			p.stmt(s.Body)
			p.line("while %s;", p.cond(s.Condition))
		default:
			p.line("loop")
			p.stmt(s.Body)
		}
	case *BreakStatement:
		p.line("break;")
	case *ContinueStatement:
		p.line("continue;")
	case *ReturnStatement:
		if s.Value.Valid() {
			p.line("return %s;", p.a.FormatExpr(s.Value))
			return
		}
		p.line("return;")
	case *StreamStatement:
		p.line("%s %s %s;", p.a.FormatExpr(s.Value), s.Direction, s.Stream)
	case *CallStatement:
		p.line("call %s;", p.a.FormatExpr(s.Call))
	case *AssignStatement:
		p.line("%s;", p.a.FormatExpr(s.Assign))
	default:
		panic(fmt.Errorf("unhandled statement type in printer: %T", s))
	}
}
