package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
)

func newAuditCmd() *cobra.Command {
	var params audit.FindParams
	var since, until string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit trail events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if since != "" {
				t, err := parseTimeField(since)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("invalid --since: %w", err))
				}
				params.From = &t
			}
			if until != "" {
				t, err := parseTimeField(until)
				if err != nil {
					return withCode(exitUsage, fmt.Errorf("invalid --until: %w", err))
				}
				// A bare date means "through the end of that day".
				if len(strings.TrimSpace(until)) == len(time.DateOnly) {
					t = t.Add(24*time.Hour - time.Nanosecond)
				}
				params.To = &t
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if params.Limit == 0 {
				params.Limit = a.conf.PageSize
			}
			events, err := a.audit.List(cmd.Context(), &params)
			if err != nil {
				return withCode(exitDB, err)
			}
			for _, ev := range events {
				if err := writeJSONLine(toAuditView(ev)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Subject, "subject", "", "Only events on this subject (record name or file)")
	cmd.Flags().StringVar(&params.Action, "action", "", "Only events with this action")
	cmd.Flags().StringVar(&since, "since", "", "Only events at or after this time (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&until, "until", "", "Only events at or before this time (YYYY-MM-DD or RFC3339)")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "Page size (default from configuration)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "Events to skip")
	return cmd
}
