package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/livepreview/internal/logger"
)

const (
	logFormatAuto    = "auto"
	logFormatConsole = "console"
	logFormatJSON    = "json"
)

type rootFlags struct {
	verbose   bool
	logFormat string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "livepreview",
		Short:         "Compile field descriptors into a live-preview script",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", logFormatAuto, "Log format: auto, console or json")

	cmd.AddCommand(newBuildCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newLintCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newWatchCmd(flags))
	cmd.AddCommand(newHistoryCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newLogger writes to the command's stderr so stdout stays free for script output.
func newLogger(cmd *cobra.Command, flags *rootFlags) (*logger.Logger, error) {
	level := "info"
	if flags.verbose {
		level = "debug"
	}

	w := cmd.ErrOrStderr()
	var human bool
	switch flags.logFormat {
	case logFormatConsole:
		human = true
	case logFormatJSON:
		human = false
	case logFormatAuto, "":
		human = isTerminal(w)
	default:
		return nil, fmt.Errorf("unknown log format %q", flags.logFormat)
	}

	return logger.New(logger.Options{Level: level, HumanReadable: human, Writer: w})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
