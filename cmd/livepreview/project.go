package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alexisbeaulieu97/livepreview/internal/compiler"
	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/hook"
	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/policy"
	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

// project is a loaded descriptor document and the directory its relative paths resolve against.
type project struct {
	path string
	dir  string
	doc  *descriptor.Document
}

func validateConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("descriptor file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve descriptor path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("descriptor file does not exist: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("descriptor path %s is a directory", abs)
	}
	return abs, nil
}

func loadProject(operation, configPath string) (*project, error) {
	abs, err := validateConfigPath(configPath)
	if err != nil {
		return nil, newCommandError(operation, fmt.Sprintf("resolving descriptor path %q", configPath), err, "Pass an existing descriptor file with -c.")
	}

	doc, err := descriptor.ParseFile(abs)
	if err != nil {
		return nil, newCommandError(operation, "parsing descriptor document", err, "Check the YAML or CUE syntax near the reported line.")
	}

	return &project{path: abs, dir: filepath.Dir(abs), doc: doc}, nil
}

func (p *project) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.dir, path)
}

// outputPath returns where the script goes; empty means stdout.
func (p *project) outputPath(flag string) string {
	switch flag {
	case "-":
		return ""
	case "":
		return p.resolve(p.doc.Build.Output)
	default:
		return flag
	}
}

func (p *project) filterPaths() []string {
	paths := make([]string, 0, len(p.doc.Build.Filters))
	for _, ref := range p.doc.Build.Filters {
		paths = append(paths, p.resolve(ref.Path))
	}
	return paths
}

// watchedFiles is the sorted set of files a rebuild depends on.
func (p *project) watchedFiles() []string {
	files := append([]string{p.path}, p.filterPaths()...)
	for i, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			files[i] = abs
		}
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func (p *project) hooks(metrics *telemetry.Metrics) (*hook.Registry, error) {
	registry := hook.NewRegistry(hook.WithMetrics(metrics))
	for _, ref := range p.doc.Build.Filters {
		f, err := hook.LoadStarlark(p.resolve(ref.Path), hook.DefaultTimeout)
		if err != nil {
			return nil, err
		}
		registry.Add(hook.Script, ref.Priority, f)
	}
	return registry, nil
}

type buildEnv struct {
	log     *logger.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
}

func (p *project) build(ctx context.Context, env buildEnv) (*compiler.Result, error) {
	hooks, err := p.hooks(env.metrics)
	if err != nil {
		return nil, newCommandError("build", "loading script filters", err, "Check the build.filters paths in the descriptor document.")
	}

	builder := compiler.NewBuilder(
		compiler.WithHooks(hooks),
		compiler.WithLogger(env.log),
		compiler.WithMetrics(env.metrics),
		compiler.WithTracer(env.tracer),
		compiler.WithWorkers(p.doc.Build.Workers),
	)

	res, err := builder.Build(ctx, p.doc.Fields)
	if err != nil {
		return nil, newCommandError("build", fmt.Sprintf("compiling %s", p.path), err, "Run `livepreview lint` to check the descriptor document.")
	}
	return res, nil
}

// lint runs schema validation and the policy engine. Schema errors become findings so they
// are reported alongside policy results.
func (p *project) lint(ctx context.Context, log *logger.Logger, policyPaths []string) ([]policy.Finding, error) {
	var findings []policy.Finding
	if err := descriptor.Validate(p.doc); err != nil {
		findings = append(findings, schemaFinding(err))
	}

	opts, err := policy.LoadModules(policyPaths...)
	if err != nil {
		return nil, newCommandError("lint", "loading policies", err, "Pass .rego files or directories containing them with --policy.")
	}
	opts = append(opts, policy.WithLogger(log))

	engine, err := policy.NewEngine(ctx, opts...)
	if err != nil {
		return nil, newCommandError("lint", "compiling policies", err, "Fix the reported Rego error.")
	}

	evaluated, err := engine.Evaluate(ctx, p.doc)
	if err != nil {
		return nil, newCommandError("lint", "evaluating policies", err, "")
	}
	return append(findings, evaluated...), nil
}

func schemaFinding(err error) policy.Finding {
	finding := policy.Finding{
		Rule:     "schema",
		Severity: policy.SeverityError,
		Index:    -1,
		Message:  err.Error(),
	}
	var verr *lperrors.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		finding.Message = verr.Field + ": " + verr.Message
	}
	return finding
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
