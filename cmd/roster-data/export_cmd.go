package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	out        string
	unit       string
	category   string
	activeOnly bool
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <workbook.xlsx>",
		Short: "Export the stored roster into a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = args[0]
			return runExport(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.unit, "unit", "", "Only records in this unit")
	cmd.Flags().StringVar(&opts.category, "category", "", "Only records in this category (NSF or Regular)")
	cmd.Flags().BoolVar(&opts.activeOnly, "active-only", false, "Exclude records marked service complete")
	return cmd
}

type exportSummary struct {
	Destination string `json:"destination"`
	Records     int    `json:"records"`
}

func runExport(ctx context.Context, opts exportOptions) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params, err := buildFindParams(a.resolver, opts.unit, opts.category, opts.activeOnly)
	if err != nil {
		return err
	}

	buf, records, err := a.export.Export(ctx, filepath.Base(opts.out), params)
	if err != nil {
		return withCode(exitDB, err)
	}
	if err := writeFileAtomic(opts.out, buf.Bytes()); err != nil {
		return withCode(exitDB, err)
	}
	return writeJSONLine(exportSummary{Destination: opts.out, Records: records})
}
