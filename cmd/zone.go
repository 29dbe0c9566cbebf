package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azvmotors/fleetcore/config"
)

var (
	zoneLat float64
	zoneLng float64
)

var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Service zone commands",
}

var zoneCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a point lies inside the service zone",
	RunE:  runZoneCheck,
}

func init() {
	zoneCheckCmd.Flags().Float64Var(&zoneLat, "lat", 0, "latitude")
	zoneCheckCmd.Flags().Float64Var(&zoneLng, "lng", 0, "longitude")
	zoneCmd.AddCommand(zoneCheckCmd)
	rootCmd.AddCommand(zoneCmd)
}

func runZoneCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	zone, err := cfg.Zone.Polygon()
	if err != nil {
		return fmt.Errorf("service zone: %w", err)
	}
	if zone.Contains(zoneLat, zoneLng) {
		fmt.Printf("(%f, %f) is inside the service zone\n", zoneLat, zoneLng)
	} else {
		fmt.Printf("(%f, %f) is outside the service zone\n", zoneLat, zoneLng)
	}
	return nil
}
