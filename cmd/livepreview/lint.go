package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/policy"
	"github.com/alexisbeaulieu97/livepreview/internal/report"
)

type lintOptions struct {
	configPath string
	jsonOutput bool
	policies   []string
}

type lintReport struct {
	Document string           `json:"document"`
	Findings []policy.Finding `json:"findings"`
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
}

func newLintCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate a descriptor document and evaluate lint policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd, rootFlags)
			if err != nil {
				return err
			}
			return runLint(cmd, log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to descriptor document")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print findings as JSON")
	cmd.Flags().StringArrayVar(&opts.policies, "policy", nil, "Additional .rego file or directory (repeatable)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runLint(cmd *cobra.Command, log *logger.Logger, opts *lintOptions) error {
	p, err := loadProject("lint", opts.configPath)
	if err != nil {
		return err
	}

	findings, err := p.lint(cmd.Context(), log, opts.policies)
	if err != nil {
		return err
	}

	rep := lintReport{Document: p.path, Findings: findings}
	if rep.Findings == nil {
		rep.Findings = []policy.Finding{}
	}
	rep.Errors = countErrors(findings)
	rep.Warnings = len(findings) - rep.Errors

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		if err := writeJSON(out, rep); err != nil {
			return err
		}
	} else if err := printLintReport(out, rep, !isTerminal(out)); err != nil {
		return err
	}

	if rep.Errors > 0 {
		return newCommandError("lint", p.path, fmt.Errorf("%d error(s), %d warning(s)", rep.Errors, rep.Warnings), "Fix the reported errors; warnings do not fail the lint.")
	}
	return nil
}

func printLintReport(w io.Writer, rep lintReport, plain bool) error {
	if len(rep.Findings) == 0 {
		_, err := fmt.Fprintf(w, "✓ %s: no findings\n", rep.Document)
		return err
	}

	for _, f := range rep.Findings {
		status := report.StatusWarning
		if f.Severity == policy.SeverityError {
			status = report.StatusError
		}

		var meta []report.Item
		if f.Index >= 0 {
			meta = append(meta, report.Item{Key: "field", Value: strconv.Itoa(f.Index)})
		}
		if f.Setting != "" {
			meta = append(meta, report.Item{Key: "setting", Value: f.Setting})
		}
		if f.Binding != "" {
			meta = append(meta, report.Item{Key: "binding", Value: f.Binding})
		}

		card := report.StatusCard(report.CardData{
			Title:       f.Rule,
			Status:      status,
			Description: f.Message,
			Metadata:    meta,
		}).Plain(plain)
		if _, err := fmt.Fprint(w, card.View()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", rep.Errors, rep.Warnings)
	return err
}
