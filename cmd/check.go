package cmd

import (
	"github.com/hfmohammed/compiler/codegen/riscv"
	"github.com/hfmohammed/compiler/parser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"io"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [source_file]",
		Short: "Run every analysis of the compiler without writing any output",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
}

func runCheck(_ *cobra.Command, args []string) error {
	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	astFile, err := parser.ParseFile(
		parser.LexerTokenSource(f),
		parser.PanicErrHandler,
	)
	if err != nil {
		return err
	}

	// scoping and frame sizing happen during generation
	if err := riscv.Generate(astFile, io.Discard); err != nil {
		return err
	}

	log.WithField("file", args[0]).Info("no errors found")
	return nil
}
