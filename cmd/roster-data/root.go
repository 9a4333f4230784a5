package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/audit"
	"github.com/rosterhq/rostertrack/modules/roster/domain/entities/unit"
	"github.com/rosterhq/rostertrack/modules/roster/infrastructure/persistence"
	"github.com/rosterhq/rostertrack/modules/roster/services"
	"github.com/rosterhq/rostertrack/pkg/configuration"
	"github.com/rosterhq/rostertrack/pkg/eventbus"
)

var actorFlag string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roster-data",
		Short:         "Roster workbook ingestion, export and record upkeep",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "Actor recorded in the audit trail (default: current OS user)")

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newRecordsCmd())
	cmd.AddCommand(newAuditCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

func resolveActor() string {
	if actorFlag != "" {
		return actorFlag
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// app bundles the wired service layer for one command invocation.
type app struct {
	conf     *configuration.Configuration
	store    *persistence.Store
	resolver *unit.Resolver
	roster   *services.RosterService
	ingest   *services.IngestService
	export   *services.ExportService
	audit    audit.Repository
}

func openApp() (*app, error) {
	conf := configuration.Use()
	store, err := persistence.Open(conf.Store)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("open store: %w", err))
	}

	resolver := unit.NewResolver()
	if path := conf.Units.AliasRulesPath; path != "" {
		if err := resolver.LoadAliasFile(path); err != nil {
			_ = store.Close()
			return nil, withCode(exitUsage, err)
		}
	}

	repo := persistence.NewRosterRepository(store)
	auditRepo := persistence.NewAuditRepository(store)
	bus := eventbus.NewEventPublisher(conf.Logger())
	services.NewAuditRecorder(auditRepo, resolveActor(), conf.Logger()).Register(bus)

	return &app{
		conf:     conf,
		store:    store,
		resolver: resolver,
		roster:   services.NewRosterService(repo, bus, resolver),
		ingest:   services.NewIngestService(repo, bus, resolver, conf.Ingest, conf.Decode),
		export:   services.NewExportService(repo, bus),
		audit:    auditRepo,
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
	a.conf.Unload()
}
