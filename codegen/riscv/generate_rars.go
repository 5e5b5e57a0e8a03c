package riscv

import (
	"github.com/hfmohammed/compiler/ast"
)

// rarsGenerator targets the RARS and Ripes simulators,
// input and output use their environment calls.
type rarsGenerator struct{}

// environment call services, the service number is passed in a7
const (
	ecallPrintInt    = 1
	ecallPrintString = 4
	ecallReadInt     = 5
	ecallPrintChar   = 11
	ecallReadChar    = 12
	// ecallExit terminates with the status in a0
	ecallExit = 93
)

func (gen rarsGenerator) exec(g *Generator, f *ast.File) (string, error) {
	gen.genStart(g.asm)
	genCommonRuntime(g.asm)
	gen.genServices(g.asm)

	return g.exec(f)
}

// genStart generates the entry point procedure.
// This procedure is called initially when running a program.
// It calls main and exits with the value main returned.
func (rarsGenerator) genStart(asm pseudoASM) {
	asm.BeginProcedure(startName, true)
	asm.Call(entryName)
	asm.LoadImmediate(a7, ecallExit)
	asm.SysCall()
}

// genServices generates a helper per environment call.
// Arguments and results are passed in a0.
func (rarsGenerator) genServices(asm pseudoASM) {
	for _, service := range []struct {
		label  string
		number int64
	}{
		{rtWriteInt, ecallPrintInt},
		{rtWriteChar, ecallPrintChar},
		{rtWriteString, ecallPrintString},
		{rtReadInt, ecallReadInt},
		{rtReadChar, ecallReadChar},
	} {
		asm.BeginProcedure(service.label, false)
		emitPrologue(asm, 0)
		asm.LoadImmediate(a7, service.number)
		asm.SysCall()
		emitEpilogue(asm)
	}
}
