package riscv

import (
	"fmt"
	"github.com/hfmohammed/compiler/pkg/ext"
	"github.com/hfmohammed/compiler/symbols"
	"github.com/hfmohammed/compiler/types"
)

// FrameLayout describes the stack frame of a single procedure.
//
//	HI	+---------------------------+
//		| return address			| 8(s0)
//		| saved frame pointer		| 0(s0) <- s0 (frame pointer)
//		+---------------------------+
//		| ...locals					| -8(s0), -16(s0), ...
//		+---------------------------+
//		| ...temporaries			| -(LocalSize+8)(s0), ...
//	LO	+---------------------------+ <- sp (stack pointer)
type FrameLayout struct {
	// LocalSize is the number of bytes used by parameters and local variables.
	LocalSize int
	// MaxTempSize is the highest number of bytes used by temporaries at once.
	MaxTempSize int
}

// Size of the frame below the frame pointer, aligned to 16 bytes as required by the ABI.
func (l FrameLayout) Size() int {
	return align16(l.LocalSize + l.MaxTempSize)
}

func align16(n int) int {
	if n%16 != 0 {
		n += 16 - n%16
	}
	return n
}

// environment tracks the state of the procedure being generated.
// Every procedure uses a new environment, the measuring pass and
// the emitting pass each start from a fresh one.
type environment struct {
	// name of the procedure
	name string
	// entry is set for the program entry point
	entry bool
	// layout is only known while emitting, it is zero while measuring
	layout FrameLayout

	scope *symbols.Scope
	// locals is the number of local slots allocated so far,
	// slots are never reused so every binding keeps its offset.
	locals int
	// temps is the number of temporaries currently in use
	temps    int
	maxTemps int
	// loops contains the label ids of the enclosing loops
	loops ext.Stack[int]
}

func newEnvironment(name string, entry bool, layout FrameLayout) *environment {
	return &environment{
		name:   name,
		entry:  entry,
		layout: layout,
		scope:  symbols.NewScope(nil),
	}
}

// measured reports the frame layout the procedure requires.
func (e *environment) measured() FrameLayout {
	return FrameLayout{
		LocalSize:   e.locals * types.SlotSize,
		MaxTempSize: e.maxTemps * types.SlotSize,
	}
}

// allocate reserves the slots of a new binding and returns
// the offset of its first slot.
func (e *environment) allocate(slots int) int {
	offset := (e.locals + 1) * types.SlotSize
	e.locals += slots
	return offset
}

// pushTemp reserves the next temporary and returns its offset from the frame pointer.
func (e *environment) pushTemp() int {
	e.temps++
	if e.temps > e.maxTemps {
		e.maxTemps = e.temps
	}
	return e.tempOffset(e.temps - 1)
}

// popTemp releases the most recent temporary and returns its offset from the frame pointer.
func (e *environment) popTemp() int {
	if e.temps == 0 {
		panic(fmt.Errorf("temporary stack of %s is empty", e.name))
	}
	e.temps--
	return e.tempOffset(e.temps)
}

func (e *environment) tempOffset(k int) int {
	return -(e.layout.LocalSize + (k+1)*types.SlotSize)
}

func (e *environment) enterScope() {
	e.scope = symbols.NewScope(e.scope)
}

func (e *environment) leaveScope() {
	e.scope = e.scope.Parent()
}

func (e *environment) inLoop() bool {
	return e.loops.Len() > 0
}
