package riscv

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/semantics"
	"github.com/hfmohammed/compiler/symbols"
	"github.com/hfmohammed/compiler/token"
	"github.com/hfmohammed/compiler/types"
	log "github.com/sirupsen/logrus"
	"io"
	"strings"
)

type GeneratorOptions func(*Generator)

func WithTarget(target Target) GeneratorOptions {
	return func(g *Generator) {
		g.target = target
	}
}

// WithComments interleaves the generated code with comments
// naming the source constructs it was generated from.
func WithComments() GeneratorOptions {
	return func(g *Generator) {
		g.comments = true
	}
}

// Generate compiles the File into RV64 assembly and writes it to out.
// Nothing is written if the File cannot be compiled.
func Generate(file *ast.File, out io.Writer, opts ...GeneratorOptions) error {
	if err := semantics.Analyze(file); err != nil {
		return err
	}

	g := &Generator{
		target:    TargetLibC,
		asm:       newPseudoASM64Impl(),
		arena:     file.Arena,
		resolver:  types.NewResolver(file.Arena),
		functions: make(map[string]*signature),
	}

	for _, opt := range opts {
		opt(g)
	}

	specificGen, err := fromTarget(g.target)
	if err != nil {
		return err
	}

	if err := g.prepass(file); err != nil {
		return err
	}

	pseudoasm, err := specificGen.exec(g, file)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, pseudoasm)
	return err
}

type Generator struct {
	asm      pseudoASM
	target   Target
	comments bool

	arena    *ast.Arena
	resolver *types.Resolver

	// functions contains the signature of every function and procedure,
	// nested declarations included.
	functions map[string]*signature
	// order is the source order of the declarations in functions
	order []*ast.FuncDeclaration

	// labelCounter provides the ids of control flow labels
	labelCounter int
	// dataCounter provides the ids of data labels
	dataCounter int

	// env is the environment of the procedure being generated
	env *environment
}

type signature struct {
	decl   *ast.FuncDeclaration
	params []*types.Layout
	// result is nil for procedures
	result *types.Layout
}

// routine is a procedure generated from source code.
type routine struct {
	name  string
	entry bool
	// body generates everything following the prologue
	body func() error
	// returns is set if the body ends with an explicit return
	returns bool
}

// prepass collects the type definitions and the function signatures of the File,
// functions may be called before they are declared.
func (g *Generator) prepass(f *ast.File) error {
	var err error

	ast.Inspect(f, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		switch n := n.(type) {
		case *ast.TypeAlias:
			if e := g.resolver.DeclareAlias(n); e != nil {
				err = errorAt(n.Position(), "typealias %s: %w", n.Name, e)
			}
		case *ast.StructType:
			if _, e := g.resolver.DeclareStruct(n); e != nil {
				err = errorAt(n.Position(), "struct %s: %w", n.Name, e)
			}
		case *ast.FuncDeclaration:
			err = g.declareFunction(n)
		}
		return err == nil
	})
	if err != nil {
		return err
	}

	for _, decl := range g.order {
		if err := g.resolveSignature(g.functions[decl.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) declareFunction(decl *ast.FuncDeclaration) error {
	_, exists := g.functions[decl.Name]
	if exists || isReserved(decl.Name) {
		return errorAt(decl.Position(), "%s %s: %w", decl.Kind, decl.Name,
			&symbols.Error{Kind: symbols.ErrRedeclared, Name: decl.Name})
	}
	g.functions[decl.Name] = &signature{decl: decl}
	g.order = append(g.order, decl)
	return nil
}

// resolveSignature resolves the parameter and result layouts,
// values are passed through a single register so they must be scalars.
func (g *Generator) resolveSignature(sig *signature) error {
	for _, param := range sig.decl.Parameters {
		l, err := g.resolver.Resolve(param.Type)
		if err != nil {
			return errorAt(param.Position(), "parameter %s: %w", param.Name, err)
		}
		if !l.IsScalar() {
			return errorAt(param.Position(), "parameter %s of type %s: %w", param.Name, l, ErrUnsupported)
		}
		sig.params = append(sig.params, l)
	}

	if !sig.decl.Result.Valid() {
		return nil
	}
	l, err := g.resolver.Resolve(sig.decl.Result)
	if err != nil {
		return errorAt(sig.decl.Position(), "result of %s: %w", sig.decl.Name, err)
	}
	if !l.IsScalar() {
		return errorAt(sig.decl.Position(), "result of %s of type %s: %w", sig.decl.Name, l, ErrUnsupported)
	}
	sig.result = l
	return nil
}

// exec generates all functions in source order followed by the program entry point.
func (g *Generator) exec(file *ast.File) (string, error) {
	for _, decl := range g.order {
		if err := g.fnDeclaration(decl); err != nil {
			return "", err
		}
	}

	if err := g.entryPoint(file); err != nil {
		return "", err
	}

	return g.asm.String(), nil
}

// generate sizes the frame of the routine and emits it.
// Both passes start from the same label counters,
// so they allocate the same labels in the same order.
func (g *Generator) generate(r routine) error {
	labels, data := g.labelCounter, g.dataCounter

	layout, err := g.measure(r)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"procedure": r.name,
		"locals":    layout.LocalSize,
		"temps":     layout.MaxTempSize,
		"frame":     layout.Size(),
	}).Debug("frame layout")

	g.labelCounter, g.dataCounter = labels, data
	return g.emit(r, layout)
}

// measure runs the body against an assembler which discards everything
// and reports the frame the body requires.
func (g *Generator) measure(r routine) (FrameLayout, error) {
	out := g.asm
	g.asm = newDiscardASM()
	defer func() { g.asm = out }()

	g.env = newEnvironment(r.name, r.entry, FrameLayout{})
	defer func() { g.env = nil }()

	if err := r.body(); err != nil {
		return FrameLayout{}, err
	}
	return g.env.measured(), nil
}

// emit generates the routine using the previously measured layout.
func (g *Generator) emit(r routine, layout FrameLayout) error {
	g.env = newEnvironment(r.name, r.entry, layout)
	defer func() { g.env = nil }()

	g.asm.BeginProcedure(r.name, true)
	emitPrologue(g.asm, layout.Size())

	if err := r.body(); err != nil {
		return err
	}

	if !r.returns {
		if r.entry {
			g.asm.LoadImmediate(a0, 0)
		}
		emitEpilogue(g.asm)
	}
	return nil
}

func (g *Generator) fnDeclaration(decl *ast.FuncDeclaration) error {
	if len(decl.Parameters) > len(argRegisters) {
		// The calling convention passes additional arguments
		// on the stack, this is not supported.
		return errorAt(decl.Position(), "%s %s: %w", decl.Kind, decl.Name, ErrTooManyArguments)
	}
	if decl.Expression.Valid() == decl.Body.Valid() {
		return errorAt(decl.Position(), "%s %s: %w", decl.Kind, decl.Name, ErrMalformedFunction)
	}

	sig := g.functions[decl.Name]

	r := routine{name: decl.Name}
	if decl.Expression.Valid() {
		r.returns = true
		r.body = func() error {
			if err := g.parameters(sig); err != nil {
				return err
			}
			g.comment("return %s", g.arena.FormatExpr(decl.Expression))
			if _, err := g.expression(decl.Expression); err != nil {
				return err
			}
			g.asm.Move(a0, t0)
			emitEpilogue(g.asm)
			return nil
		}
		return g.generate(r)
	}

	// the parameters and the outermost block of the body share a scope,
	// a local may not redeclare a parameter
	body, ok := g.arena.Stmt(decl.Body).(*ast.Block)
	if !ok {
		return errorAt(decl.Position(), "%s %s: %w", decl.Kind, decl.Name, ErrMalformedFunction)
	}
	r.returns = g.endsWithReturn(body.Elements)
	r.body = func() error {
		if err := g.parameters(sig); err != nil {
			return err
		}
		return g.elements(body.Elements)
	}
	return g.generate(r)
}

// parameters stores the arguments passed in a0-a7 into their stack slots.
func (g *Generator) parameters(sig *signature) error {
	for i, param := range sig.decl.Parameters {
		b, err := g.bind(param.Position(), param.Name, sig.params[i], param.Qualifier == token.Const, symbols.Parameter)
		if err != nil {
			return err
		}
		g.asm.StoreAtOffset(argRegisters[i], s0, -b.Offset)
	}
	return nil
}

// entryPoint generates the top level statements of the File as the program entry point.
func (g *Generator) entryPoint(file *ast.File) error {
	return g.generate(routine{
		name:    entryName,
		entry:   true,
		returns: g.endsWithReturn(file.Elements),
		body: func() error {
			return g.elements(file.Elements)
		},
	})
}

func (g *Generator) endsWithReturn(elements []ast.Element) bool {
	for i := len(elements) - 1; i >= 0; i-- {
		if ref, ok := elements[i].(ast.StmtRef); ok {
			_, isReturn := g.arena.Stmt(ref).(*ast.ReturnStatement)
			return isReturn
		}
	}
	return false
}

func (g *Generator) elements(elements []ast.Element) error {
	for _, e := range elements {
		switch el := e.(type) {
		case ast.StmtRef:
			if err := g.statement(el); err != nil {
				return err
			}
		case *ast.FuncDeclaration, *ast.TypeAlias:
			// collected by the prepass
		default:
			panic(fmt.Errorf("unsupported element type: %T", e))
		}
	}
	return nil
}

func (g *Generator) statement(ref ast.StmtRef) error {
	switch s := g.arena.Stmt(ref).(type) {
	case *ast.DeclarationStatement:
		return g.declaration(s)
	case *ast.Block:
		return g.block(s)
	case *ast.IfStatement:
		return g.ifStatement(s)
	case *ast.LoopStatement:
		return g.loopStatement(s)
	case *ast.BreakStatement:
		if !g.env.inLoop() {
			return errorAt(s.Position(), "%w", ErrBreakOutsideLoop)
		}
		g.asm.Jump(fmt.Sprintf("%s%d", loopEndPrefix, g.env.loops.Top()))
		return nil
	case *ast.ContinueStatement:
		if !g.env.inLoop() {
			return errorAt(s.Position(), "%w", ErrContinueOutsideLoop)
		}
		g.asm.Jump(fmt.Sprintf("%s%d", loopConditionPrefix, g.env.loops.Top()))
		return nil
	case *ast.ReturnStatement:
		return g.returnStatement(s)
	case *ast.StreamStatement:
		return g.streamStatement(s)
	case *ast.CallStatement:
		call, ok := g.arena.Expr(s.Call).(*ast.CallExpression)
		if !ok {
			panic(fmt.Errorf("call statement holds %T", g.arena.Expr(s.Call)))
		}
		// the result of the call is ignored
		_, err := g.call(call)
		return err
	case *ast.AssignStatement:
		assign, ok := g.arena.Expr(s.Assign).(*ast.AssignExpression)
		if !ok {
			panic(fmt.Errorf("assign statement holds %T", g.arena.Expr(s.Assign)))
		}
		return g.assignment(assign)
	default:
		panic(fmt.Errorf("unsupported statement type: %T", s))
	}
}

func (g *Generator) block(block *ast.Block) error {
	g.env.enterScope()
	defer g.env.leaveScope()

	return g.elements(block.Elements)
}

// declaration generates code for a declaration and its initialization.
// The value is evaluated before the declared names are bound,
// it may refer to a binding which is shadowed by the declaration.
// Declarations without a value are initialized to zero.
func (g *Generator) declaration(d *ast.DeclarationStatement) error {
	layout, err := g.resolver.Resolve(d.Type)
	if err != nil {
		return errorAt(d.Position(), "%w", err)
	}
	if !d.Identifier.Valid() {
		// struct definitions are registered by the prepass
		return nil
	}

	if d.Value.Valid() {
		g.comment("%s = %s", g.arena.FormatIdent(d.Identifier), g.arena.FormatExpr(d.Value))
	} else {
		g.comment("%s", g.arena.FormatIdent(d.Identifier))
	}

	constant := d.Qualifier == token.Const

	switch id := g.arena.Ident(d.Identifier).(type) {
	case *ast.Name:
		if err := checkStorable(id.Position(), layout); err != nil {
			return err
		}
		if layout.IsScalar() {
			return g.declareScalar(d, id, layout, constant)
		}

		if d.Value.Valid() {
			if err := g.compositeValue(d.Value, layout); err != nil {
				return err
			}
		}
		b, err := g.bind(id.Position(), id.Name, layout, constant, symbols.Variable)
		if err != nil {
			return err
		}
		p := place{binding: b, layout: layout, offset: b.Offset}
		if d.Value.Valid() {
			g.popInto(p.slots())
		} else {
			g.zero(p.slots())
		}
		return nil

	case *ast.TuplePattern:
		return g.declarePattern(d, id, layout, constant)

	default:
		panic(fmt.Errorf("unsupported declared identifier: %T", id))
	}
}

func (g *Generator) declareScalar(d *ast.DeclarationStatement, name *ast.Name, layout *types.Layout, constant bool) error {
	if d.Value.Valid() {
		if _, err := g.expression(d.Value); err != nil {
			return err
		}
	} else {
		g.asm.Move(t0, x0)
	}

	b, err := g.bind(name.Position(), name.Name, layout, constant, symbols.Variable)
	if err != nil {
		return err
	}
	g.asm.StoreAtOffset(t0, s0, -b.Offset)
	return nil
}

// declarePattern declares every name of the pattern. A tuple type with
// as many members as the pattern has names gives each name the type of
// its member, otherwise every name is declared with the supplied type.
func (g *Generator) declarePattern(d *ast.DeclarationStatement, pattern *ast.TuplePattern, layout *types.Layout, constant bool) error {
	members := make([]types.Member, len(pattern.Elements))
	for i := range pattern.Elements {
		members[i].Layout = layout
		if layout.Kind == types.Tuple && len(layout.Members) == len(pattern.Elements) {
			members[i].Layout = layout.Members[i].Layout
		}
		if err := checkStorable(pattern.Position(), members[i].Layout); err != nil {
			return err
		}
	}
	whole := types.NewComposite(types.Tuple, "", members)

	if d.Value.Valid() {
		if err := g.compositeValue(d.Value, whole); err != nil {
			return err
		}
	}

	var slots []int
	for i, ref := range pattern.Elements {
		name, ok := g.arena.Ident(ref).(*ast.Name)
		if !ok {
			return errorAt(g.arena.Ident(ref).Position(), "nested pattern: %w", ErrUnsupported)
		}
		b, err := g.bind(name.Position(), name.Name, whole.Members[i].Layout, constant, symbols.Variable)
		if err != nil {
			return err
		}
		p := place{binding: b, layout: b.Layout, offset: b.Offset}
		slots = append(slots, p.slots()...)
	}

	if d.Value.Valid() {
		g.popInto(slots)
	} else {
		g.zero(slots)
	}
	return nil
}

// bind declares the name in the current scope and reserves its stack slots.
func (g *Generator) bind(pos token.Position, name string, layout *types.Layout, constant bool, kind symbols.Kind) (*symbols.Binding, error) {
	b := &symbols.Binding{Name: name, Kind: kind, Layout: layout, Const: constant}
	if err := g.env.scope.Declare(b); err != nil {
		return nil, errorAt(pos, "%w", err)
	}
	b.Offset = g.env.allocate(layout.Slots)
	return b, nil
}

func (g *Generator) assignment(assign *ast.AssignExpression) error {
	g.comment("%s = %s", g.arena.FormatIdent(assign.Left), g.arena.FormatExpr(assign.Value))

	if pattern, ok := g.arena.Ident(assign.Left).(*ast.TuplePattern); ok {
		var slots []int
		members := make([]types.Member, 0, len(pattern.Elements))
		for _, ref := range pattern.Elements {
			p, err := g.assignable(ref)
			if err != nil {
				return err
			}
			slots = append(slots, p.slots()...)
			members = append(members, types.Member{Layout: p.layout})
		}

		// all values are evaluated before the first one is stored,
		// a, b = (b, a) swaps both values
		if err := g.compositeValue(assign.Value, types.NewComposite(types.Tuple, "", members)); err != nil {
			return err
		}
		g.popInto(slots)
		return nil
	}

	p, err := g.assignable(assign.Left)
	if err != nil {
		return err
	}

	if p.layout.IsComposite() {
		if err := g.compositeValue(assign.Value, p.layout); err != nil {
			return err
		}
		g.popInto(p.slots())
		return nil
	}

	if _, err := g.expression(assign.Value); err != nil {
		return err
	}
	g.asm.StoreAtOffset(t0, s0, -p.offset)
	return nil
}

func (g *Generator) ifStatement(s *ast.IfStatement) error {
	id := g.provideLabel()
	lNext := fmt.Sprintf(".Lnext_%d", id)
	lEnd := fmt.Sprintf(".Lend_%d", id)

	g.comment("if %s", g.arena.FormatExpr(s.Condition))
	if err := g.condition(s.Condition, lNext); err != nil {
		return err
	}
	if err := g.statement(s.Body); err != nil {
		return err
	}
	g.asm.Jump(lEnd)
	g.asm.Insert(lNext)

	for n, elif := range s.ElseIfs {
		lElifNext := fmt.Sprintf(".Lelifnext_%d_%d", id, n)

		g.comment("else if %s", g.arena.FormatExpr(elif.Condition))
		if err := g.condition(elif.Condition, lElifNext); err != nil {
			return err
		}
		if err := g.statement(elif.Body); err != nil {
			return err
		}
		g.asm.Jump(lEnd)
		g.asm.Insert(lElifNext)
	}

	if s.Else.Valid() {
		if err := g.statement(s.Else); err != nil {
			return err
		}
	}

	g.asm.Insert(lEnd)
	return nil
}

func (g *Generator) loopStatement(s *ast.LoopStatement) error {
	id := g.provideLabel()
	lBegin := fmt.Sprintf("%s%d", loopBeginPrefix, id)
	lCondition := fmt.Sprintf("%s%d", loopConditionPrefix, id)
	lEnd := fmt.Sprintf("%s%d", loopEndPrefix, id)

	g.env.loops.Push(id)
	defer g.env.loops.Pop()

	g.asm.Insert(lBegin)

	switch s.Kind {
	case ast.PreLoop:
		g.comment("loop while %s", g.arena.FormatExpr(s.Condition))
		g.asm.Insert(lCondition)
		if err := g.condition(s.Condition, lEnd); err != nil {
			return err
		}
		if err := g.statement(s.Body); err != nil {
			return err
		}

	case ast.PostLoop:
		if err := g.statement(s.Body); err != nil {
			return err
		}
		g.comment("while %s", g.arena.FormatExpr(s.Condition))
		g.asm.Insert(lCondition)
		if err := g.condition(s.Condition, lEnd); err != nil {
			return err
		}

	default:
		// continue restarts the body of an infinite loop
		g.asm.Insert(lCondition)
		if err := g.statement(s.Body); err != nil {
			return err
		}
	}

	g.asm.Jump(lBegin)
	g.asm.Insert(lEnd)
	return nil
}

// condition evaluates the expression and jumps to label if it is false.
func (g *Generator) condition(ref ast.ExprRef, label string) error {
	if _, err := g.expression(ref); err != nil {
		return err
	}
	g.asm.BranchEQZ(label, t0)
	return nil
}

// returnStatement places the value in a0 and leaves the procedure.
// The program entry point returns 0 if no value is supplied.
func (g *Generator) returnStatement(s *ast.ReturnStatement) error {
	if s.Value.Valid() {
		g.comment("return %s", g.arena.FormatExpr(s.Value))
		if _, err := g.expression(s.Value); err != nil {
			return err
		}
		g.asm.Move(a0, t0)
	} else if g.env.entry {
		g.asm.LoadImmediate(a0, 0)
	}

	emitEpilogue(g.asm)
	return nil
}

// streamStatement writes a value to std_output or reads a value
// from std_input using the runtime helpers of the target.
func (g *Generator) streamStatement(s *ast.StreamStatement) error {
	if s.Direction == token.StreamIn {
		return g.read(s)
	}

	g.comment("%s -> %s", g.arena.FormatExpr(s.Value), s.Stream)
	kind, err := g.expression(s.Value)
	if err != nil {
		return err
	}

	helper, ok := writers[kind]
	if !ok {
		return errorAt(s.Position(), "writing %s to %s: %w", kind, s.Stream, ErrUnsupported)
	}
	g.asm.Move(a0, t0)
	g.asm.Call(helper)
	return nil
}

func (g *Generator) read(s *ast.StreamStatement) error {
	expr, ok := g.arena.Expr(s.Value).(*ast.IdentifierExpression)
	if !ok {
		return errorAt(s.Position(), "reading into %s: %w", g.arena.FormatExpr(s.Value), ErrUnsupported)
	}

	g.comment("%s <- %s", g.arena.FormatExpr(s.Value), s.Stream)
	p, err := g.assignable(expr.Identifier)
	if err != nil {
		return err
	}

	helper, ok := readers[p.layout.Kind]
	if !ok {
		return errorAt(s.Position(), "reading %s from %s: %w", p.layout, s.Stream, ErrUnsupported)
	}
	g.asm.Call(helper)
	g.asm.StoreAtOffset(a0, s0, -p.offset)
	return nil
}

func (g *Generator) provideLabel() int {
	id := g.labelCounter
	g.labelCounter++
	return id
}

func (g *Generator) provideDataLabel() string {
	l := fmt.Sprintf(".Lstr_%d", g.dataCounter)
	g.dataCounter++
	return l
}

func (g *Generator) comment(format string, args ...any) {
	if !g.comments {
		return
	}
	msg := fmt.Sprintf(format, args...)
	// comments span a single line
	g.asm.DebugAddComment(strings.ReplaceAll(msg, "\n", " "))
}
