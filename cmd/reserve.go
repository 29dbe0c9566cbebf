package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/azvmotors/fleetcore/config"
	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/core/reservation"
	"github.com/azvmotors/fleetcore/infra/fleetapi"
	"github.com/azvmotors/fleetcore/infra/logger"
)

var (
	reserveVehicleID int64
	reserveDuration  int
	reserveUnit      string
	reserveOwner     bool
	deliveryLat      float64
	deliveryLng      float64
)

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Submit a one-shot reservation attempt",
	RunE:  runReserve,
}

func init() {
	reserveCmd.Flags().Int64Var(&reserveVehicleID, "vehicle", 0, "vehicle id")
	reserveCmd.Flags().IntVar(&reserveDuration, "duration", 1, "reservation duration")
	reserveCmd.Flags().StringVar(&reserveUnit, "unit", "hours", "duration unit (minutes, hours, days)")
	reserveCmd.Flags().BoolVar(&reserveOwner, "owner", false, "reserve as the vehicle's owner")
	reserveCmd.Flags().Float64Var(&deliveryLat, "delivery-lat", 0, "delivery target latitude")
	reserveCmd.Flags().Float64Var(&deliveryLng, "delivery-lng", 0, "delivery target longitude")
	if err := reserveCmd.MarkFlagRequired("vehicle"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(reserveCmd)
}

func runReserve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("reserve-command")
	client, err := fleetapi.NewClient(cfg.FleetAPI)
	if err != nil {
		return fmt.Errorf("fleet api client: %w", err)
	}
	zone, err := cfg.Zone.Polygon()
	if err != nil {
		return fmt.Errorf("service zone: %w", err)
	}

	store := fleetstate.NewMemoryStore()
	vehicle, err := client.GetVehicle(ctx, reserveVehicleID)
	if err != nil {
		return fmt.Errorf("fetch vehicle %d: %w", reserveVehicleID, err)
	}
	store.Set(vehicle)

	var journal reservation.Journal = reservation.NopJournal{}
	if cfg.Journal.Backend == "jsonl" {
		journal, err = reservation.NewJSONLJournal(cfg.Journal.Path, cfg.Journal.MaxSizeMB, cfg.Journal.MaxBackups, cfg.Journal.MaxAgeDays)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	dispatcher, err := reservation.NewDispatcher(client, zone, store, cfg.Reservation.Bounds, nil, journal, nil, logg)
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	var res reservation.Result
	switch {
	case reserveOwner:
		res = dispatcher.ReserveAsOwner(ctx, reserveVehicleID)
	case cmd.Flags().Changed("delivery-lat") || cmd.Flags().Changed("delivery-lng"):
		unit, ok := model.ParseDurationUnit(reserveUnit)
		if !ok {
			return fmt.Errorf("unknown duration unit %s", reserveUnit)
		}
		res = dispatcher.ReserveDelivery(ctx, reserveVehicleID, reserveDuration, unit, deliveryLng, deliveryLat)
	default:
		unit, ok := model.ParseDurationUnit(reserveUnit)
		if !ok {
			return fmt.Errorf("unknown duration unit %s", reserveUnit)
		}
		res = dispatcher.Reserve(ctx, reserveVehicleID, reserveDuration, unit)
	}

	fmt.Printf("request %s: %s\n", res.RequestID, res.Outcome)
	if res.Action != reservation.ActionNone {
		fmt.Printf("suggested action: %s\n", res.Action)
	}
	if !res.OK() {
		if res.Err != nil {
			return res.Err
		}
		return fmt.Errorf("reservation not confirmed: %s", res.Outcome)
	}
	return nil
}
