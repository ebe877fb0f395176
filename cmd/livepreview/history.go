package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/history"
	"github.com/alexisbeaulieu97/livepreview/internal/report"
)

type historyOptions struct {
	dbPath     string
	limit      int
	jsonOutput bool
}

func newHistoryCmd(_ *rootFlags) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [build-id]",
		Short: "List recorded builds or show one build",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dbPath, "db", defaultHistoryPath(), "Path to the history database")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of builds to list")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string, opts *historyOptions) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, opts.dbPath)
	if err != nil {
		return newCommandError("read history", fmt.Sprintf("opening %s", opts.dbPath), err, "Pass --db with the database used by `build --history`.")
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		rec, err := store.Get(ctx, args[0])
		if errors.Is(err, history.ErrNotFound) {
			return newCommandError("read history", fmt.Sprintf("looking up build %q", args[0]), err, "Run `livepreview history` to list build ids.")
		}
		if err != nil {
			return newCommandError("read history", fmt.Sprintf("looking up build %q", args[0]), err, "")
		}
		if opts.jsonOutput {
			return writeJSON(out, rec)
		}
		_, err = fmt.Fprint(out, buildCard(*rec).Plain(!isTerminal(out)).View())
		return err
	}

	records, err := store.Recent(ctx, opts.limit)
	if err != nil {
		return newCommandError("read history", "listing builds", err, "")
	}
	if records == nil {
		records = []history.Record{}
	}
	if opts.jsonOutput {
		return writeJSON(out, records)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no builds recorded")
		return err
	}
	_, err = fmt.Fprintln(out, historyTable(records))
	return err
}

func historyTable(records []history.Record) string {
	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("BUILD", "DOCUMENT", "FIELDS", "SKIPPED", "BYTES", "DURATION", "BUILT").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return lipgloss.NewStyle()
		})
	for _, r := range records {
		t.Row(
			r.ID,
			r.Document,
			strconv.Itoa(r.Fields),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Bytes),
			r.Duration.Round(time.Microsecond).String(),
			r.BuiltAt.Format(time.RFC3339),
		)
	}
	return t.String()
}

func buildCard(rec history.Record) *report.Card {
	lines := make([]string, 0, len(rec.FieldList))
	for _, f := range rec.FieldList {
		lines = append(lines, fmt.Sprintf("%s → %s (%s)", f.Setting, f.StyleID, strings.Join(f.Handlers, ", ")))
	}
	return report.StatusCard(report.CardData{
		Title:  rec.ID,
		Status: report.StatusInfo,
		Metadata: []report.Item{
			{Key: "document", Value: rec.Document},
			{Key: "digest", Value: rec.Digest},
			{Key: "bytes", Value: strconv.Itoa(rec.Bytes)},
			{Key: "fields", Value: strconv.Itoa(rec.Fields)},
			{Key: "skipped", Value: strconv.Itoa(rec.Skipped)},
			{Key: "duration", Value: rec.Duration.String()},
			{Key: "built", Value: rec.BuiltAt.Format(time.RFC3339)},
		},
		Lines: lines,
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
