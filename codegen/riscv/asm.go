package riscv

import (
	"fmt"
	"strings"
)

type dataEmitDirective string

const (
	emitString dataEmitDirective = ".string"
	emitDword  dataEmitDirective = ".dword"
)

type emitData struct {
	kind  dataEmitDirective
	value string
}

// pseudoASM provides generic low-level instructions.
// This abstraction is used to avoid having to know all exact
// details of the underlying architecture during code-generation.
// It generalizes fine-grained instructions and hides quirks
// of the underlying non-pseudo instructions.
type pseudoASM interface {
	DebugAddComment(msg string)

	// data section related operations

	// DefineData defines a read-write global labelled with label.
	DefineData(label string, data emitData)
	// LoadDataAddress loads the address of the given label into the dst Register.
	LoadDataAddress(label string, dst Register)

	// text section related operations

	// BeginProcedure starts a new procedure, all following instructions
	// are appended to it. Global procedures are visible to the linker.
	BeginProcedure(label string, global bool)

	// Move values from register rs1 into register rd.
	Move(rd, rs1 Register)
	// StoreAtOffset stores the value in register src
	// to the address base + offset.
	StoreAtOffset(src, base Register, offset int)
	// LoadImmediate loads the value into the dst Register.
	LoadImmediate(dst Register, value int64)
	// LoadFromOffset loads the value at base + offset
	// into register dst.
	LoadFromOffset(dst, base Register, offset int)

	// control flow

	// BranchEQZ will take the branch if the specified register
	// is equal to 0.
	BranchEQZ(label string, a Register)
	// Jump to the specified label.
	Jump(label string)
	// Insert a label at the current position.
	Insert(label string)
	// Call emits a position independent procedure-call.
	Call(label string)
	// SysCall performs an environment call using the ecall instruction
	SysCall()
	// Return emits a return from a sub-routine.
	Return()

	// ops for two operands OP(a, b)

	AddImmediate(rd, rs1 Register, imm int)
	XorImmediate(rd, rs1 Register, imm int)
	Add(dst, a, b Register)
	Sub(dst, a, b Register)
	Mul(dst, a, b Register)
	Div(dst, a, b Register)
	Rem(dst, a, b Register)
	And(dst, a, b Register)
	Or(dst, a, b Register)
	Xor(dst, a, b Register)
	LessThan(dst, a, b Register)
	LessThanOrEqual(dst, a, b Register)
	GreaterThan(dst, a, b Register)
	GreaterThanOrEqual(dst, a, b Register)
	Equal(dst, a, b Register)
	NotEqual(dst, a, b Register)

	// ops for a single operand OP(a)

	Neg(dst, a Register)
	// SetEQZ sets dst to 1 if a is zero, otherwise 0.
	SetEQZ(dst, a Register)
	// SetNEZ sets dst to 1 if a is not zero, otherwise 0.
	SetNEZ(dst, a Register)

	String() string
}

type procedure struct {
	label  string
	global bool
	code   []string
}

// textSection keeps the procedures in the order they were started
// so the output is deterministic.
type textSection struct {
	procedures []*procedure
}

func (s *textSection) begin(label string, global bool) *procedure {
	p := &procedure{label: label, global: global}
	s.procedures = append(s.procedures, p)
	return p
}

type dataSection struct {
	labels    []string
	variables map[string]emitData
}

func (s *dataSection) emit(label string, data emitData) {
	if _, exists := s.variables[label]; !exists {
		s.labels = append(s.labels, label)
	}
	s.variables[label] = data
}

// enforce interface implementation

var _ pseudoASM = (*rv64PseudoASMImpl)(nil)

type commonRV struct {
	data    dataSection
	text    textSection
	current *procedure
	// discard drops everything, it is used while measuring frames
	discard bool
}

// emit instruction into current procedure
func (p *commonRV) emit(s string) {
	if p.discard {
		return
	}
	if p.current == nil {
		panic(fmt.Errorf("instruction '%s' emitted outside of a procedure", s))
	}
	p.current.code = append(p.current.code, s)
}

func (p *commonRV) DebugAddComment(msg string) {
	p.emit(fmt.Sprintf("# %s", msg))
}

func (p *commonRV) DefineData(l string, data emitData) {
	if p.discard {
		return
	}
	p.data.emit(l, data)
}

func (p *commonRV) BeginProcedure(label string, global bool) {
	if p.discard {
		return
	}
	p.current = p.text.begin(label, global)
}

func (p *commonRV) Call(label string) {
	// call expands to auipc+jalr and stores the return address in ra
	p.emit(fmt.Sprintf("call %s", label))
}

func (p *commonRV) SysCall() {
	p.emit("ecall")
}

func (p *commonRV) Return() {
	// jump to address in ra register
	p.emit("ret")
}

func (p *commonRV) Insert(label string) {
	p.emit(fmt.Sprintf("%s:", label))
}

func (p *commonRV) String() string {
	sb := &strings.Builder{}

	if len(p.data.labels) > 0 {
		sb.WriteString(".data\n")
		for _, label := range p.data.labels {
			data := p.data.variables[label]
			sb.WriteString(fmt.Sprintf("%s: %s %s\n", label, data.kind, data.value))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(".text\n")

	for _, proc := range p.text.procedures {
		if proc.global {
			sb.WriteString(fmt.Sprintf(".global %s\n", proc.label))
		}
		sb.WriteString(fmt.Sprintf("%s:\n", proc.label))
		for _, line := range proc.code {
			// labels are not indented
			if strings.HasSuffix(line, ":") {
				sb.WriteString(line + "\n")
				continue
			}
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

type rv64PseudoASMImpl struct {
	*commonRV
}

func newPseudoASM64Impl() *rv64PseudoASMImpl {
	return &rv64PseudoASMImpl{
		commonRV: &commonRV{
			data: dataSection{variables: map[string]emitData{}},
		},
	}
}

// newDiscardASM returns an assembler which accepts every
// instruction but never produces any output.
func newDiscardASM() *rv64PseudoASMImpl {
	asm := newPseudoASM64Impl()
	asm.discard = true
	return asm
}

func (p *rv64PseudoASMImpl) LoadDataAddress(label string, dst Register) {
	p.emit(fmt.Sprintf("la %s, %s", dst, label))
}

func (p *rv64PseudoASMImpl) Move(rd, rs1 Register) {
	p.emit(fmt.Sprintf("mv %s, %s", rd, rs1))
}

// fitsImm12 reports whether v fits into the signed 12-bit
// immediate of I-type and S-type instructions.
func fitsImm12(v int) bool {
	return v >= -2048 && v <= 2047
}

// address returns a base and an offset addressing base + offset,
// offsets beyond an immediate are added to base in t2.
func (p *rv64PseudoASMImpl) address(base Register, offset int) (Register, int) {
	if fitsImm12(offset) {
		return base, offset
	}
	p.LoadImmediate(t2, int64(offset))
	p.Add(t2, base, t2)
	return t2, 0
}

func (p *rv64PseudoASMImpl) StoreAtOffset(src, base Register, offset int) {
	base, offset = p.address(base, offset)
	p.emit(fmt.Sprintf("sd %s, %d(%s)", src, offset, base))
}

func (p *rv64PseudoASMImpl) LoadImmediate(dst Register, value int64) {
	// li is expanded by the assembler into as many instructions
	// as the immediate requires
	p.emit(fmt.Sprintf("li %s, %d", dst, value))
}

func (p *rv64PseudoASMImpl) LoadFromOffset(dst, base Register, offset int) {
	base, offset = p.address(base, offset)
	p.emit(fmt.Sprintf("ld %s, %d(%s)", dst, offset, base))
}

func (p *rv64PseudoASMImpl) BranchEQZ(label string, a Register) {
	p.emit(fmt.Sprintf("beq %s, x0, %s", a, label))
}

func (p *rv64PseudoASMImpl) Jump(label string) {
	// j is jal with x0 as link register,
	// the return address is discarded
	p.emit(fmt.Sprintf("j %s", label))
}

func (p *rv64PseudoASMImpl) AddImmediate(rd, rs1 Register, imm int) {
	if !fitsImm12(imm) {
		p.LoadImmediate(t2, int64(imm))
		p.Add(rd, rs1, t2)
		return
	}
	p.emit(fmt.Sprintf("addi %s, %s, %d", rd, rs1, imm))
}

func (p *rv64PseudoASMImpl) XorImmediate(rd, rs1 Register, imm int) {
	p.emit(fmt.Sprintf("xori %s, %s, %d", rd, rs1, imm))
}

func (p *rv64PseudoASMImpl) Add(dst, a, b Register) {
	p.emit(fmt.Sprintf("add %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Sub(dst, a, b Register) {
	p.emit(fmt.Sprintf("sub %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Mul(dst, a, b Register) {
	p.emit(fmt.Sprintf("mul %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Div(dst, a, b Register) {
	p.emit(fmt.Sprintf("div %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Rem(dst, a, b Register) {
	p.emit(fmt.Sprintf("rem %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) And(dst, a, b Register) {
	p.emit(fmt.Sprintf("and %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Or(dst, a, b Register) {
	p.emit(fmt.Sprintf("or %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) Xor(dst, a, b Register) {
	p.emit(fmt.Sprintf("xor %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) LessThan(dst, a, b Register) {
	p.emit(fmt.Sprintf("slt %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) LessThanOrEqual(dst, a, b Register) {
	// a <= b is equivalent to !(a > b)
	p.GreaterThan(dst, a, b)
	p.XorImmediate(dst, dst, 1)
}

func (p *rv64PseudoASMImpl) GreaterThan(dst, a, b Register) {
	p.emit(fmt.Sprintf("sgt %s, %s, %s", dst, a, b))
}

func (p *rv64PseudoASMImpl) GreaterThanOrEqual(dst, a, b Register) {
	// a >= b is equivalent to !(a < b)
	p.LessThan(dst, a, b)
	p.XorImmediate(dst, dst, 1)
}

func (p *rv64PseudoASMImpl) Equal(dst, a, b Register) {
	p.emit(fmt.Sprintf("xor %s, %s, %s", dst, a, b))
	p.emit(fmt.Sprintf("seqz %s, %s", dst, dst))
}

func (p *rv64PseudoASMImpl) NotEqual(dst, a, b Register) {
	p.emit(fmt.Sprintf("xor %s, %s, %s", dst, a, b))
	p.emit(fmt.Sprintf("snez %s, %s", dst, dst))
}

func (p *rv64PseudoASMImpl) Neg(dst, a Register) {
	p.emit(fmt.Sprintf("neg %s, %s", dst, a))
}

func (p *rv64PseudoASMImpl) SetEQZ(dst, a Register) {
	p.emit(fmt.Sprintf("seqz %s, %s", dst, a))
}

func (p *rv64PseudoASMImpl) SetNEZ(dst, a Register) {
	p.emit(fmt.Sprintf("snez %s, %s", dst, a))
}
