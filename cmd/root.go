package cmd

import (
	"context"
	"fmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"os"
	"os/signal"
)

var (
	rootFlagVerbose bool
	rootFlagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "gazc",
	Short: "A compiler for a subset of Gazprea targeting RV64",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&log.TextFormatter{
			DisableColors:    rootFlagNoColor,
			DisableTimestamp: true,
		})
		if rootFlagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Exec() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlagVerbose, "verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().BoolVar(&rootFlagNoColor, "no-color", false, "disable colored diagnostics")

	rootCmd.AddCommand(newLexCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newTypesCommand())
	rootCmd.AddCommand(newCompileCommand())

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		report(err)
		os.Exit(1)
	}
}

// report prints the diagnostic, in red if stderr is a terminal.
func report(err error) {
	if !rootFlagNoColor && term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\033[31merror:\033[0m %s\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fmt.Errorf("'%s' is a directory, please provide a file", path)
	}
	return f, nil
}
