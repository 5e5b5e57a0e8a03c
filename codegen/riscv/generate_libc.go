package riscv

import (
	"github.com/hfmohammed/compiler/ast"
)

type libcGenerator struct{}

const (
	libcFmtInt     = "_rt_fmt_int"
	libcFmtString  = "_rt_fmt_str"
	libcFmtScanInt = "_rt_fmt_scan_int"
	libcFmtChar    = "_rt_fmt_scan_char"
)

// exec generates the runtime helpers on top of the C standard library.
// The C runtime provides _start and calls main.
func (gen libcGenerator) exec(g *Generator, f *ast.File) (string, error) {
	g.asm.DefineData(libcFmtInt, emitData{kind: emitString, value: quoteASM("%ld")})
	g.asm.DefineData(libcFmtString, emitData{kind: emitString, value: quoteASM("%s")})
	g.asm.DefineData(libcFmtScanInt, emitData{kind: emitString, value: quoteASM(" %ld")})
	g.asm.DefineData(libcFmtChar, emitData{kind: emitString, value: quoteASM(" %c")})

	genCommonRuntime(g.asm)
	gen.genWrite(g.asm)
	gen.genRead(g.asm)

	return g.exec(f)
}

func (libcGenerator) genWrite(asm pseudoASM) {
	// printf("%ld", a0)
	asm.BeginProcedure(rtWriteInt, false)
	emitPrologue(asm, 0)
	asm.Move(a1, a0)
	asm.LoadDataAddress(libcFmtInt, a0)
	asm.Call(libcPrintf)
	emitEpilogue(asm)

	// putchar(a0)
	asm.BeginProcedure(rtWriteChar, false)
	emitPrologue(asm, 0)
	asm.Call(libcPutchar)
	emitEpilogue(asm)

	// printf("%s", a0)
	asm.BeginProcedure(rtWriteString, false)
	emitPrologue(asm, 0)
	asm.Move(a1, a0)
	asm.LoadDataAddress(libcFmtString, a0)
	asm.Call(libcPrintf)
	emitEpilogue(asm)
}

// genRead generates the readers, scanf writes the value into
// a zeroed slot of the helper's frame which is returned in a0.
func (libcGenerator) genRead(asm pseudoASM) {
	for _, reader := range []struct{ label, format string }{
		{rtReadInt, libcFmtScanInt},
		{rtReadChar, libcFmtChar},
	} {
		asm.BeginProcedure(reader.label, false)
		emitPrologue(asm, 16)
		asm.StoreAtOffset(x0, s0, -8)
		asm.AddImmediate(a1, s0, -8)
		asm.LoadDataAddress(reader.format, a0)
		asm.Call(libcScanf)
		asm.LoadFromOffset(a0, s0, -8)
		emitEpilogue(asm)
	}
}
