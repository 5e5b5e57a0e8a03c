package riscv

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/types"
	"strings"
)

// runtimeGenerator abstracts Target specific generation details.
type runtimeGenerator interface {
	exec(g *Generator, f *ast.File) (string, error)
}

type Target string

const (
	TargetLibC Target = "libc"
	TargetRars Target = "rars"
)

// Targets lists every supported Target.
var Targets = []Target{TargetLibC, TargetRars}

func fromTarget(t Target) (runtimeGenerator, error) {
	switch t {
	case TargetLibC:
		return libcGenerator{}, nil
	case TargetRars:
		return rarsGenerator{}, nil
	default:
		return nil, fmt.Errorf("invalid target: %s", t)
	}
}

const (
	// entryName is the label of the top level statements
	entryName = "main"
	// startName is the label of the process entry point if no libc is linked
	startName = "_start"

	// runtimePrefix is reserved for the runtime helpers
	runtimePrefix = "_rt_"

	rtIntPow      = "_rt_ipow"
	rtWriteInt    = "_rt_write_int"
	rtWriteChar   = "_rt_write_char"
	rtWriteBool   = "_rt_write_bool"
	rtWriteString = "_rt_write_str"
	rtReadInt     = "_rt_read_int"
	rtReadChar    = "_rt_read_char"
	rtReadBool    = "_rt_read_bool"

	libcPrintf  = "printf"
	libcPutchar = "putchar"
	libcScanf   = "scanf"

	// prefixes of the labels delimiting a loop, they are global to the text section
	loopBeginPrefix     = "BeginLoop_"
	loopConditionPrefix = "LoopCondition_"
	loopEndPrefix       = "EndLoop_"
)

// reservedNames are linked from libc and may not name a function.
var reservedNames = []string{entryName, startName, libcPrintf, libcPutchar, libcScanf}

// reservedPrefixes start every label emitted by the generator itself.
var reservedPrefixes = []string{runtimePrefix, loopBeginPrefix, loopConditionPrefix, loopEndPrefix}

// writers maps the kind of a value to the helper writing it to std_output.
var writers = map[types.Kind]string{
	types.Integer:   rtWriteInt,
	types.Character: rtWriteChar,
	types.Boolean:   rtWriteBool,
	types.String:    rtWriteString,
}

// readers maps the kind of a variable to the helper reading it from std_input.
var readers = map[types.Kind]string{
	types.Integer:   rtReadInt,
	types.Character: rtReadChar,
	types.Boolean:   rtReadBool,
}

// isReserved reports whether a function name clashes with a generated
// procedure, a loop label or a libc symbol.
func isReserved(name string) bool {
	for _, r := range reservedNames {
		if name == r {
			return true
		}
	}
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// emitPrologue saves the return address and the frame pointer,
// establishes the new frame pointer and reserves frameSize bytes.
//
// frameSize must be a multiple of 16.
func emitPrologue(asm pseudoASM, frameSize int) {
	asm.AddImmediate(sp, sp, -16)
	asm.StoreAtOffset(ra, sp, 8)
	asm.StoreAtOffset(s0, sp, 0)
	asm.Move(s0, sp)
	if frameSize > 0 {
		asm.AddImmediate(sp, sp, -frameSize)
	}
}

// emitEpilogue releases the frame, restores the saved registers
// and returns to the caller.
func emitEpilogue(asm pseudoASM) {
	asm.Move(sp, s0)
	asm.LoadFromOffset(s0, sp, 0)
	asm.LoadFromOffset(ra, sp, 8)
	asm.AddImmediate(sp, sp, 16)
	asm.Return()
}

// genIntPow generates integer exponentiation by repeated multiplication.
// Arguments: 	base in a0, exponent in a1
// Returns: 	base^exponent in a0, 0 for negative exponents
func genIntPow(asm pseudoASM) {
	asm.BeginProcedure(rtIntPow, false)
	emitPrologue(asm, 0)

	// t0 = result
	asm.LoadImmediate(t0, 1)

	// negative exponents truncate to 0
	asm.LessThan(t1, a1, x0)
	asm.BranchEQZ("_rt_ipow_loop", t1)
	asm.LoadImmediate(t0, 0)
	asm.Jump("_rt_ipow_done")

	asm.Insert("_rt_ipow_loop")
	asm.BranchEQZ("_rt_ipow_done", a1)
	asm.Mul(t0, t0, a0)
	asm.AddImmediate(a1, a1, -1)
	asm.Jump("_rt_ipow_loop")

	asm.Insert("_rt_ipow_done")
	asm.Move(a0, t0)
	emitEpilogue(asm)
}

// genWriteBool writes 'T' or 'F' using the character writer of the target.
// Arguments: 	boolean in a0
func genWriteBool(asm pseudoASM) {
	asm.BeginProcedure(rtWriteBool, false)
	emitPrologue(asm, 0)

	asm.BranchEQZ("_rt_write_bool_false", a0)
	asm.LoadImmediate(a0, 'T')
	asm.Jump("_rt_write_bool_done")
	asm.Insert("_rt_write_bool_false")
	asm.LoadImmediate(a0, 'F')
	asm.Insert("_rt_write_bool_done")
	asm.Call(rtWriteChar)

	emitEpilogue(asm)
}

// genReadBool reads a character using the character reader of the target,
// 'T' is true, everything else is false.
// Returns: 	boolean in a0
func genReadBool(asm pseudoASM) {
	asm.BeginProcedure(rtReadBool, false)
	emitPrologue(asm, 0)

	asm.Call(rtReadChar)
	asm.AddImmediate(a0, a0, -'T')
	asm.SetEQZ(a0, a0)

	emitEpilogue(asm)
}

// genCommonRuntime generates the target independent runtime helpers.
func genCommonRuntime(asm pseudoASM) {
	genIntPow(asm)
	genWriteBool(asm)
	genReadBool(asm)
}
