package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/azvmotors/fleetcore/config"
	"github.com/azvmotors/fleetcore/core/reservation"
	"github.com/azvmotors/fleetcore/pkg/export"
)

var (
	journalFormat  string
	journalOut     string
	journalVehicle int64
	journalOutcome string
	journalSince   string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Reservation journal commands",
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journal records as JSON or CSV",
	RunE:  runJournalExport,
}

func init() {
	journalExportCmd.Flags().StringVar(&journalFormat, "format", "json", "output format (json, csv)")
	journalExportCmd.Flags().StringVar(&journalOut, "out", "", "output file (default stdout)")
	journalExportCmd.Flags().Int64Var(&journalVehicle, "vehicle", 0, "filter by vehicle id")
	journalExportCmd.Flags().StringVar(&journalOutcome, "outcome", "", "filter by outcome")
	journalExportCmd.Flags().StringVar(&journalSince, "since", "", "filter records after this RFC3339 time")
	journalCmd.AddCommand(journalExportCmd)
	rootCmd.AddCommand(journalCmd)
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Journal.Backend != "jsonl" {
		return fmt.Errorf("journal backend %s has nothing to export", cfg.Journal.Backend)
	}
	journal, err := reservation.NewJSONLJournal(cfg.Journal.Path, cfg.Journal.MaxSizeMB, cfg.Journal.MaxBackups, cfg.Journal.MaxAgeDays)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	q := reservation.JournalQuery{
		VehicleID: journalVehicle,
		Outcome:   reservation.Outcome(journalOutcome),
	}
	if journalSince != "" {
		t, err := time.Parse(time.RFC3339, journalSince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		q.Start = t
	}
	records, err := journal.Query(context.Background(), q)
	if err != nil {
		return fmt.Errorf("query journal: %w", err)
	}

	out := os.Stdout
	if journalOut != "" {
		f, err := os.Create(journalOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	switch journalFormat {
	case "json":
		return export.WriteJSON(out, records)
	case "csv":
		return export.WriteCSV(out, records)
	default:
		return fmt.Errorf("unknown format %s", journalFormat)
	}
}
