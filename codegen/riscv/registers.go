package riscv

// Register is one of the 32 integer registers of the RV64I base ISA.
type Register int

// regToString maps a Register to its ABI mnemonic.
var regToString = [32]string{
	"x0",
	"ra",
	"sp",
	"gp",
	"tp",
	"t0",
	"t1",
	"t2",
	"s0",
	"s1",
	"a0",
	"a1",
	"a2",
	"a3",
	"a4",
	"a5",
	"a6",
	"a7",
	"s2",
	"s3",
	"s4",
	"s5",
	"s6",
	"s7",
	"s8",
	"s9",
	"s10",
	"s11",
	"t3",
	"t4",
	"t5",
	"t6",
}

func (r Register) String() string {
	return regToString[r]
}

// Only the registers of the fixed register convention are named.
const (
	// x0 always contains 0.
	x0 Register = 0
	// ra = return address
	ra Register = 1
	// sp = stack pointer
	sp Register = 2
	// t0 is the accumulator, every expression leaves its result in t0.
	t0 Register = 5
	// t1 holds the second operand of a binary operation.
	t1 Register = 6
	// t2 holds offsets which do not fit into an immediate.
	t2 Register = 7
	// s0 is the frame pointer.
	s0 Register = 8
	// a0 through a7 are function arguments,
	// a0 is also used for return values.
	a0 Register = 10
	a1 Register = 11
	a2 Register = 12
	a3 Register = 13
	a4 Register = 14
	a5 Register = 15
	a6 Register = 16
	a7 Register = 17
)

var argRegisters = []Register{
	a0, a1, a2, a3, a4, a5, a6, a7,
}
