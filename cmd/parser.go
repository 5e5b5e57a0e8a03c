package cmd

import (
	"fmt"
	"github.com/hfmohammed/compiler/parser"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	parseFlagDebug bool
	parseFlagTrace bool
	parseFlagDump  bool
)

func newParseCommand() *cobra.Command {
	parseCmd := &cobra.Command{
		Use:   "parse [source_file]",
		Short: "Invoke the parser",
		Args:  cobra.ExactArgs(1),
		RunE:  runParser,
	}

	parseCmd.PersistentFlags().BoolVar(&parseFlagDebug, "debug", false, "enable additional debugging asserts")
	parseCmd.PersistentFlags().BoolVar(&parseFlagTrace, "trace", false, "enable trace of called parse functions")
	parseCmd.PersistentFlags().BoolVar(&parseFlagDump, "dump", false, "print the syntax tree")

	return parseCmd
}

func runParser(cmd *cobra.Command, args []string) error {
	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var parserOptions []parser.Option
	if parseFlagDebug {
		parserOptions = append(parserOptions, parser.EnableDebug())
	}
	if parseFlagTrace {
		parserOptions = append(parserOptions, parser.EnableTrace(cmd.OutOrStdout()))
	}

	astFile, err := parser.ParseFile(
		parser.LexerTokenSource(f),
		parser.PanicErrHandler,
		parserOptions...,
	)
	if err != nil {
		return err
	}
	log.WithField("elements", len(astFile.Elements)).Debug("parsed")

	if parseFlagDump {
		fmt.Fprint(cmd.OutOrStdout(), astFile)
	}
	return nil
}
