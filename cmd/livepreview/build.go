package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/compiler"
	"github.com/alexisbeaulieu97/livepreview/internal/history"
	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/policy"
	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
)

type buildOptions struct {
	configPath  string
	output      string
	manifest    string
	historyPath string
	strict      bool
	trace       bool
}

func newBuildCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a descriptor document into the preview script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd, rootFlags)
			if err != nil {
				return err
			}
			return runBuild(cmd, log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to descriptor document (YAML, JSON or CUE)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path; defaults to build.output, \"-\" for stdout")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Write a JSON build manifest to this path")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "Record the build in this SQLite history database")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when validation or policies report errors")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print OpenTelemetry spans to stderr")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runBuild(cmd *cobra.Command, log *logger.Logger, opts *buildOptions) error {
	ctx := cmd.Context()

	p, err := loadProject("build", opts.configPath)
	if err != nil {
		return err
	}

	if opts.strict {
		if err := enforceLint(ctx, p, log); err != nil {
			return err
		}
	}

	tracer, err := telemetry.NewTracer(telemetry.TracingConfig{
		Enabled:     opts.trace,
		Writer:      cmd.ErrOrStderr(),
		ServiceName: "livepreview",
	})
	if err != nil {
		return newCommandError("build", "initialising tracing", err, "")
	}
	defer func() {
		if err := tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Error(err, "tracer shutdown failed")
		}
	}()

	res, err := p.build(ctx, buildEnv{log: log, metrics: telemetry.NewMetrics(), tracer: tracer})
	if err != nil {
		return err
	}

	out := p.outputPath(opts.output)
	if err := emitScript(cmd, out, res); err != nil {
		return err
	}

	if opts.manifest != "" {
		data, err := res.MarshalManifest()
		if err == nil {
			err = writeFile(opts.manifest, data)
		}
		if err != nil {
			return newCommandError("build", fmt.Sprintf("writing manifest %s", opts.manifest), err, "")
		}
	}

	if opts.historyPath != "" {
		if err := recordHistory(ctx, opts.historyPath, p.path, res); err != nil {
			return newCommandError("build", fmt.Sprintf("recording build in %s", opts.historyPath), err, "Check that the history database is writable.")
		}
	}

	log.WithFields(map[string]any{
		"build_id": res.ID,
		"digest":   res.Digest,
		"output":   displayOutput(out),
	}).Debug("build written")
	return nil
}

func enforceLint(ctx context.Context, p *project, log *logger.Logger) error {
	findings, err := p.lint(ctx, log, nil)
	if err != nil {
		return err
	}
	for _, f := range findings {
		entry := log.WithFields(map[string]any{
			"rule":    f.Rule,
			"setting": f.Setting,
			"binding": f.Binding,
		})
		if f.Severity == policy.SeverityError {
			entry.Error(nil, f.Message)
		} else {
			entry.Warn(f.Message)
		}
	}
	if policy.HasErrors(findings) {
		return newCommandError("build", fmt.Sprintf("linting %s", p.path), fmt.Errorf("%d lint error(s)", countErrors(findings)), "Run `livepreview lint` for details or drop --strict.")
	}
	return nil
}

func countErrors(findings []policy.Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == policy.SeverityError {
			n++
		}
	}
	return n
}

func emitScript(cmd *cobra.Command, path string, res *compiler.Result) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Script)
		return err
	}
	if err := writeFile(path, []byte(res.Script)); err != nil {
		return newCommandError("build", fmt.Sprintf("writing %s", path), err, "Check that the output directory is writable.")
	}
	return nil
}

func recordHistory(ctx context.Context, dbPath, document string, res *compiler.Result) error {
	store, err := openHistory(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, history.FromResult(document, res))
}

func openHistory(ctx context.Context, dbPath string) (*history.Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}
	return history.Open(ctx, dbPath)
}

func displayOutput(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".livepreview", "history.db")
	}
	return filepath.Join(home, ".livepreview", "history.db")
}
