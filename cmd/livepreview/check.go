package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
	"github.com/alexisbeaulieu97/livepreview/pkg/diff"
)

var errStale = errors.New("compiled script is out of date")

type checkOptions struct {
	configPath string
	against    string
}

func newCheckCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify a compiled script on disk matches its descriptor document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd, rootFlags)
			if err != nil {
				return err
			}
			return runCheck(cmd, log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to descriptor document")
	cmd.Flags().StringVar(&opts.against, "against", "", "Compiled script to compare; defaults to build.output")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runCheck(cmd *cobra.Command, log *logger.Logger, opts *checkOptions) error {
	p, err := loadProject("check", opts.configPath)
	if err != nil {
		return err
	}

	target := opts.against
	if target == "" {
		target = p.resolve(p.doc.Build.Output)
	}
	if target == "" {
		return newCommandError("check", "choosing the script to compare", errors.New("no --against path and no build.output"), "Pass --against <file>.")
	}

	current, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return newCommandError("check", fmt.Sprintf("reading %s", target), err, "")
	}

	res, err := p.build(cmd.Context(), buildEnv{log: log, metrics: telemetry.NewMetrics()})
	if err != nil {
		return err
	}

	if string(current) == res.Script {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is up to date\n", target)
		return err
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), diff.Unified(current, []byte(res.Script), target, "compiled")); err != nil {
		return err
	}
	return newCommandError("check", fmt.Sprintf("comparing %s", target), errStale, "Run `livepreview build` to regenerate it.")
}
