package main

import (
	"github.com/spf13/cobra"

	"github.com/rosterhq/rostertrack/modules/roster/domain/aggregates/serviceman"
)

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and edit stored roster records",
	}
	cmd.AddCommand(newRecordsListCmd())
	cmd.AddCommand(newRecordsGetCmd())
	cmd.AddCommand(newRecordsCreateCmd())
	cmd.AddCommand(newRecordsUpdateCmd())
	cmd.AddCommand(newRecordsSetResultCmd())
	cmd.AddCommand(newRecordsDeleteCmd())
	cmd.AddCommand(newRecordsBulkAssignCmd())
	cmd.AddCommand(newRecordsCompleteCmd())
	return cmd
}

func newRecordsListCmd() *cobra.Command {
	var rawUnit, rawCategory string
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			params, err := buildFindParams(a.resolver, rawUnit, rawCategory, activeOnly)
			if err != nil {
				return err
			}
			records, err := a.roster.Find(cmd.Context(), params)
			if err != nil {
				return withCode(exitDB, err)
			}
			for _, rec := range records {
				if err := writeJSONLine(toRecordView(rec)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawUnit, "unit", "", "Only records in this unit")
	cmd.Flags().StringVar(&rawCategory, "category", "", "Only records in this category (NSF or Regular)")
	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "Exclude records marked service complete")
	return cmd
}

func newRecordsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.GetByName(cmd.Context(), args[0])
			if err != nil {
				if is(err, serviceman.ErrNotFound) {
					return withCode(exitValidation, err)
				}
				return withCode(exitDB, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}
}

func newRecordsCreateCmd() *cobra.Command {
	var dto serviceman.CreateDTO

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a record by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.Create(cmd.Context(), &dto)
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}

	cmd.Flags().StringVar(&dto.Name, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&dto.Category, "category", "", "NSF or Regular (required)")
	cmd.Flags().StringVar(&dto.Rank, "rank", "", "Rank (required)")
	cmd.Flags().StringVar(&dto.Unit, "unit", "", "Unit label, resolved through alias rules")
	cmd.Flags().StringVar(&dto.PESStatus, "pes", "", "PES status")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("rank")
	return cmd
}

func newRecordsUpdateCmd() *cobra.Command {
	var dto serviceman.UpdateDTO

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Edit fields on a record (empty flags leave fields untouched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dto.Name = args[0]
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.Update(cmd.Context(), &dto)
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}

	cmd.Flags().StringVar(&dto.Rank, "rank", "", "New rank")
	cmd.Flags().StringVar(&dto.PESStatus, "pes", "", "New PES status")
	cmd.Flags().StringVar(&dto.Unit, "unit", "", "New unit label, resolved through alias rules")
	cmd.Flags().StringVar(&dto.MedicalStatus, "medical", "", "Fit, Light Duty, Excused Fitness or Medical Board")
	cmd.Flags().StringVar(&dto.ORDDate, "ord", "", "ORD date, any accepted date form")
	cmd.Flags().StringVar(&dto.WindowOneEnd, "window-one", "", "First assessment window end date")
	cmd.Flags().StringVar(&dto.WindowTwoEnd, "window-two", "", "Second assessment window end date")
	return cmd
}

func newRecordsSetResultCmd() *cobra.Command {
	var phase, slot, grade, date string

	cmd := &cobra.Command{
		Use:   "set-result <name>",
		Short: "Write one assessment slot on a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.SetResult(cmd.Context(), args[0],
				serviceman.Phase(phase), serviceman.Slot(slot), grade, date)
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "phaseOne, phaseTwo or workYear (required)")
	cmd.Flags().StringVar(&slot, "slot", "", "fitness, vocational, advanced or skill (required)")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade from the slot's vocabulary (required)")
	cmd.Flags().StringVar(&date, "date", "", "Completion date, any accepted date form")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("slot")
	_ = cmd.MarkFlagRequired("grade")
	return cmd
}

func newRecordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.Delete(cmd.Context(), args[0])
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}
}

func newRecordsBulkAssignCmd() *cobra.Command {
	var rawUnit string

	cmd := &cobra.Command{
		Use:   "bulk-assign <name>...",
		Short: "Move several records into one unit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			moved, err := a.roster.BulkAssignUnit(cmd.Context(), args, rawUnit)
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(map[string]any{"unit": rawUnit, "moved": moved})
		},
	}

	cmd.Flags().StringVar(&rawUnit, "unit", "", "Target unit label (required)")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newRecordsCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <name>",
		Short: "Mark a record's service as complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.roster.MarkServiceComplete(cmd.Context(), args[0])
			if err != nil {
				return withCode(exitValidation, err)
			}
			return writeJSONLine(toRecordView(rec))
		},
	}
}
