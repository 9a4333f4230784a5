package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rosterhq/rostertrack/modules/roster/services"
)

type importOptions struct {
	file     string
	apply    bool
	legacy   bool
	manifest string
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Ingest a roster workbook (dry-run unless --apply)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.file = args[0]
			return runImport(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Persist ingested records (default is dry-run)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Treat the workbook as a legacy per-test results export")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "Write the run summary as JSON to this path")
	return cmd
}

type importSummary struct {
	RunID    uuid.UUID `json:"run_id"`
	Source   string    `json:"source"`
	DryRun   bool      `json:"dry_run"`
	Created  int       `json:"created"`
	Merged   int       `json:"merged"`
	Skipped  int       `json:"skipped"`
	Warnings []string  `json:"warnings,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
}

func runImport(ctx context.Context, opts importOptions) error {
	if opts.legacy && !opts.apply {
		return withCode(exitUsage, errors.New("--legacy requires --apply: legacy results merge into stored records"))
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read %s: %w", opts.file, err))
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	source := filepath.Base(opts.file)
	var report *services.ImportReport
	switch {
	case opts.legacy:
		report, err = a.ingest.IngestLegacyWorkbook(ctx, source, data)
	case opts.apply:
		report, err = a.ingest.IngestWorkbook(ctx, source, data)
	default:
		report, err = a.ingest.PreviewWorkbook(ctx, data)
	}
	if err != nil {
		return withCode(exitDB, err)
	}

	summary := importSummary{
		RunID:    report.RunID,
		Source:   source,
		DryRun:   !opts.apply,
		Created:  report.Created,
		Merged:   report.Merged,
		Skipped:  report.Skipped,
		Warnings: report.Warnings,
		Errors:   report.Errors,
	}
	if err := writeJSONLine(summary); err != nil {
		return err
	}
	if opts.manifest != "" {
		if err := writeJSONFile(opts.manifest, summary); err != nil {
			return err
		}
	}
	if report.Failed() {
		return withCode(exitValidation, errors.New(report.Errors[0]))
	}
	return nil
}
