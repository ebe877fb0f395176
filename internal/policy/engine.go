// Package policy lints descriptor documents with Rego rules.
package policy

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/logger"
)

// Query selects the lint package. Additional modules join it by declaring the same package.
const Query = "data.livepreview.lint"

//go:embed rules/*.rego
var builtinRules embed.FS

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one rule violation.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Index    int      `json:"index"`
	Setting  string   `json:"setting"`
	Binding  string   `json:"binding,omitempty"`
	Message  string   `json:"message"`
}

// Engine evaluates the prepared lint query.
type Engine struct {
	query   rego.PreparedEvalQuery
	modules []string
	logger  *logger.Logger
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	modules map[string]string
	logger  *logger.Logger
}

// WithModule adds a Rego module to the built-in rules.
func WithModule(name, source string) Option {
	return func(c *engineConfig) {
		c.modules[name] = source
	}
}

// WithLogger injects a logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *engineConfig) {
		c.logger = l
	}
}

// NewEngine compiles the built-in rules plus any supplied modules.
func NewEngine(ctx context.Context, opts ...Option) (*Engine, error) {
	cfg := engineConfig{modules: map[string]string{}, logger: logger.Nop()}
	if err := fs.WalkDir(builtinRules, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := builtinRules.ReadFile(path)
		if err != nil {
			return err
		}
		cfg.modules[path] = string(data)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load built-in rules: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	names := make([]string, 0, len(cfg.modules))
	for name := range cfg.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	regoOpts := []func(*rego.Rego){rego.Query(Query)}
	for _, name := range names {
		regoOpts = append(regoOpts, rego.Module(name, cfg.modules[name]))
	}

	query, err := rego.New(regoOpts...).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile lint rules: %w", err)
	}

	return &Engine{
		query:   query,
		modules: names,
		logger:  cfg.logger.Component("policy"),
	}, nil
}

// LoadModules reads .rego files from the given paths. Directories are read one level deep.
func LoadModules(paths ...string) ([]Option, error) {
	var opts []Option
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("policy %s: %w", p, err)
		}
		files := []string{p}
		if info.IsDir() {
			files, err = filepath.Glob(filepath.Join(p, "*.rego"))
			if err != nil {
				return nil, err
			}
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("policy %s: %w", file, err)
			}
			opts = append(opts, WithModule(file, string(data)))
		}
	}
	return opts, nil
}

// Modules lists the loaded module names.
func (e *Engine) Modules() []string {
	return append([]string(nil), e.modules...)
}

// Evaluate lints the document. Findings are ordered by field index, then severity, rule
// and binding.
func (e *Engine) Evaluate(ctx context.Context, doc *descriptor.Document) ([]Finding, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(NewInput(doc)))
	if err != nil {
		return nil, fmt.Errorf("policy evaluation error: %w", err)
	}

	var findings []Finding
	for _, result := range results {
		if len(result.Expressions) == 0 {
			continue
		}
		pkg, ok := result.Expressions[0].Value.(map[string]interface{})
		if !ok {
			continue
		}
		findings = append(findings, collect(pkg["deny"], SeverityError)...)
		findings = append(findings, collect(pkg["warn"], SeverityWarning)...)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		if a.Severity != b.Severity {
			return a.Severity == SeverityError
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Binding != b.Binding {
			return a.Binding < b.Binding
		}
		return a.Message < b.Message
	})

	e.logger.WithFields(map[string]any{
		"findings": len(findings),
		"errors":   countSeverity(findings, SeverityError),
	}).Debug("lint evaluated")
	return findings, nil
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	return countSeverity(findings, SeverityError) > 0
}

func countSeverity(findings []Finding, sev Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func collect(set interface{}, sev Severity) []Finding {
	items, ok := set.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Finding, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]interface{}:
			f := Finding{Severity: sev}
			f.Rule, _ = v["rule"].(string)
			f.Setting, _ = v["setting"].(string)
			f.Binding, _ = v["binding"].(string)
			f.Message, _ = v["message"].(string)
			f.Index = toInt(v["index"])
			out = append(out, f)
		case string:
			out = append(out, Finding{Severity: sev, Rule: "custom", Index: -1, Message: v})
		}
	}
	return out
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return -1
		}
		return int(i)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return -1
	}
}
