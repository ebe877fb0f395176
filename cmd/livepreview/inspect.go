package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/compiler"
	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/report"
)

type inspectOptions struct {
	configPath string
	raw        bool
}

var rawDumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newInspectCmd(_ *rootFlags) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show how each field is compiled or why it is skipped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to descriptor document")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Dump normalized bindings instead of the report")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	p, err := loadProject("inspect", opts.configPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.raw {
		for i, f := range p.doc.Fields {
			if _, err := fmt.Fprintf(out, "# fields[%d] %s\n", i, f.Settings); err != nil {
				return err
			}
			rawDumper.Fdump(out, binding.NormalizeField(f))
		}
		return nil
	}

	plain := !isTerminal(out)
	compiled, skipped := 0, 0
	for _, f := range p.doc.Fields {
		card := fieldCard(f)
		if card.Status == report.StatusSkipped {
			skipped++
		} else {
			compiled++
		}
		if _, err := fmt.Fprint(out, report.StatusCard(card).Plain(plain).View()); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(out, "%d compiled, %d skipped\n", compiled, skipped)
	return err
}

func fieldCard(f descriptor.Field) report.CardData {
	title := f.Settings
	if strings.TrimSpace(title) == "" {
		title = "(no setting)"
	}
	meta := []report.Item{
		{Key: "style id", Value: f.StyleID()},
		{Key: "control", Value: string(f.Control())},
		{Key: "transport", Value: transportLabel(f.Transport)},
	}

	if reason := f.Eligibility(); reason != descriptor.SkipNone {
		return report.CardData{
			Title:    title,
			Status:   report.StatusSkipped,
			Metadata: append(meta, report.Item{Key: "skipped", Value: string(reason)}),
		}
	}

	cf := compiler.CompileField(f)
	meta = append(meta, report.Item{Key: "handlers", Value: strings.Join(cf.Handlers(), ", ")})
	lines := make([]string, 0, len(cf.Bindings))
	for _, b := range cf.Bindings {
		lines = append(lines, describeBinding(b))
	}
	return report.CardData{Title: title, Status: report.StatusSuccess, Metadata: meta, Lines: lines}
}

func describeBinding(b binding.Binding) string {
	target := b.Selector
	switch {
	case b.Kind == binding.KindHTML && b.Attr != "":
		target += "[" + b.Attr + "]"
	case b.Property != "":
		target += "{" + b.Property + "}"
	}
	desc := fmt.Sprintf("%s → %s %s", b.Key, b.Kind, target)
	if b.Choice != "" {
		desc += " choice=" + b.Choice
	}
	if b.Callback.Set() {
		desc += " callback=" + b.Callback.Name
	}
	if b.MediaQuery != "" {
		desc += " " + b.MediaQuery
	}
	return desc
}

func transportLabel(t string) string {
	if t == "" {
		return "refresh"
	}
	return t
}
