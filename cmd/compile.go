package cmd

import (
	"bytes"
	"fmt"
	"github.com/hfmohammed/compiler/codegen/riscv"
	"github.com/hfmohammed/compiler/parser"
	"github.com/hfmohammed/compiler/toolchain"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"path/filepath"
	"strings"
)

var (
	compileFlagOutput    string
	compileFlagTarget    string
	compileFlagComments  bool
	compileFlagAssemble  bool
	compileFlagAssembler string
	compileFlagLinker    string
	compileFlagExe       string
)

func newCompileCommand() *cobra.Command {
	compileCmd := &cobra.Command{
		Use:   "compile [source_file]",
		Short: "Compile a source file into RV64 assembly",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompiler,
	}

	targets := make([]string, len(riscv.Targets))
	for i, t := range riscv.Targets {
		targets[i] = string(t)
	}

	compileCmd.PersistentFlags().StringVarP(&compileFlagOutput, "output", "o", "", "assembly file, defaults to the source file with a .s extension, - for stdout")
	compileCmd.PersistentFlags().StringVarP(&compileFlagTarget, "target", "t", string(riscv.TargetLibC), fmt.Sprintf("target, one of [%s]", strings.Join(targets, ", ")))
	compileCmd.PersistentFlags().BoolVar(&compileFlagComments, "comments", false, "annotate the assembly with the source it was generated from")
	compileCmd.PersistentFlags().BoolVar(&compileFlagAssemble, "assemble", false, "assemble and link the generated assembly")
	compileCmd.PersistentFlags().StringVar(&compileFlagAssembler, "as", toolchain.DefaultAssembler, "assembler used by --assemble")
	compileCmd.PersistentFlags().StringVar(&compileFlagLinker, "ld", toolchain.DefaultLinker, "linker used by --assemble")
	compileCmd.PersistentFlags().StringVar(&compileFlagExe, "exe", "a.out", "executable written by --assemble")
	return compileCmd
}

func runCompiler(cmd *cobra.Command, args []string) error {
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
	log.WithField("file", args[0]).Debug("parsed")

	opts := []riscv.GeneratorOptions{riscv.WithTarget(riscv.Target(compileFlagTarget))}
	if compileFlagComments {
		opts = append(opts, riscv.WithComments())
	}

	// nothing is written unless generation succeeds
	asm := &bytes.Buffer{}
	if err := riscv.Generate(astFile, asm, opts...); err != nil {
		return err
	}
	log.WithField("target", compileFlagTarget).Debug("generated")

	output := compileFlagOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".s"
	}
	if output == "-" {
		if compileFlagAssemble {
			return fmt.Errorf("--assemble requires an assembly file, not stdout")
		}
		_, err := asm.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(output, asm.Bytes(), 0o644); err != nil {
		return err
	}
	log.WithField("output", output).Info("assembly written")

	if !compileFlagAssemble {
		return nil
	}

	err = toolchain.Build(cmd.Context(), toolchain.Config{
		Assembler: compileFlagAssembler,
		Linker:    compileFlagLinker,
		Input:     output,
		Output:    compileFlagExe,
	})
	if err != nil {
		log.WithError(err).Error("toolchain failed, the assembly file is kept")
		return err
	}
	log.WithField("executable", compileFlagExe).Info("executable written")
	return nil
}
