package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/infra/fleetapi"
	"github.com/azvmotors/fleetcore/infra/statusfeed"
)

type Config struct {
	FleetAPI    fleetapi.Config   `json:"fleet_api"`
	StatusFeed  statusfeed.Config `json:"status_feed"`
	Zone        ZoneConfig        `json:"zone"`
	Reservation ReservationConfig `json:"reservation"`
	Journal     JournalConfig     `json:"journal"`
	Metrics     MetricsConfig     `json:"metrics"`
	API         APIConfig         `json:"api"`
}

// ReservationConfig bounds reservation durations per unit.
type ReservationConfig struct {
	Bounds model.DurationBounds `json:"bounds"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The "__" delimiter is left in place so
	// the provider unflattens FC_FLEET_API__TOKEN into the nested fleet_api
	// map and the override merges over the file's value.
	if err := k.Load(env.Provider("FC_", "__", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "fc_")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.FleetAPI.SetDefaults()
	cfg.StatusFeed.SetDefaults()
	cfg.Reservation.Bounds.SetDefaults()
	cfg.Journal.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.FleetAPI.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Zone.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Journal.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
