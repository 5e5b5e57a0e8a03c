package cmd

import (
	"fmt"
	"github.com/hfmohammed/compiler/lexer"
	"github.com/hfmohammed/compiler/token"
	"github.com/spf13/cobra"
	"text/tabwriter"
)

var lexFlagComments bool

func newLexCommand() *cobra.Command {
	lexCmd := &cobra.Command{
		Use:   "lex [source_file]",
		Short: "Show the output of the lexical analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runLexer,
	}
	lexCmd.PersistentFlags().BoolVar(&lexFlagComments, "comments", false, "include comment tokens")
	return lexCmd
}

func runLexer(cmd *cobra.Command, args []string) error {
	f, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	l := lexer.New(f)
	for {
		t := l.Next()

		switch t.Type {
		case token.EOF:
			return nil
		case token.Illegal:
			return fmt.Errorf("%d:%d: illegal input: %s", t.Position.Row, t.Position.Col, t.Literal)
		case token.Comment:
			if !lexFlagComments {
				continue
			}
		}

		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Position.Row, t.Position.Col, t.Type, t.Literal)
	}
}
