package cmd

import (
	"fmt"
	"github.com/hfmohammed/compiler/ast"
	"github.com/hfmohammed/compiler/parser"
	"github.com/hfmohammed/compiler/types"
	"github.com/spf13/cobra"
	"io"
	"strings"
)

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types [source_file]",
		Short: "Show the storage layout of every declaration",
		Args:  cobra.ExactArgs(1),
		RunE:  runTypes,
	}
}

func runTypes(cmd *cobra.Command, args []string) error {
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

	rows, err := layouts(astFile)
	if err != nil {
		return err
	}

	printLayouts(cmd.OutOrStdout(), rows)
	return nil
}

type layoutRow struct {
	name   string
	layout *types.Layout
}

// layouts resolves the types of all declarations in source order.
func layouts(file *ast.File) ([]layoutRow, error) {
	resolver := types.NewResolver(file.Arena)

	var (
		rows []layoutRow
		err  error
	)
	ast.Inspect(file, func(n ast.Node) bool {
		if err != nil {
			return false
		}

		switch n := n.(type) {
		case *ast.TypeAlias:
			if err = resolver.DeclareAlias(n); err != nil {
				return false
			}
			l, _ := resolver.Resolve(n.Type)
			rows = append(rows, layoutRow{name: "typealias " + n.Name, layout: l})

		case *ast.DeclarationStatement:
			var l *types.Layout
			if l, err = resolver.Resolve(n.Type); err != nil {
				return false
			}
			name := file.Arena.FormatIdent(n.Identifier)
			if !n.Identifier.Valid() {
				name = "struct " + l.Name
			}
			rows = append(rows, layoutRow{name: name, layout: l})

		case *ast.FuncDeclaration:
			for _, param := range n.Parameters {
				var l *types.Layout
				if l, err = resolver.Resolve(param.Type); err != nil {
					return false
				}
				rows = append(rows, layoutRow{name: n.Name + "." + param.Name, layout: l})
			}
		}
		return true
	})
	return rows, err
}

func printLayouts(out io.Writer, rows []layoutRow) {
	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[3]s +\n", strings.Repeat("-", 24), strings.Repeat("-", 32), strings.Repeat("-", 5))
	fmt.Fprintf(out, "| %24s | %32s | %5s |\n", "name", "type", "slots")
	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[3]s +\n", strings.Repeat("-", 24), strings.Repeat("-", 32), strings.Repeat("-", 5))

	for _, row := range rows {
		fmt.Fprintf(out, "| %24s | %32s | %5d |\n", row.name, row.layout, row.layout.Slots)
	}

	fmt.Fprintf(out, "+ %[1]s + %[2]s + %[3]s +\n", strings.Repeat("-", 24), strings.Repeat("-", 32), strings.Repeat("-", 5))
}
