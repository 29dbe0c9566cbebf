package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validYAML = `
fleet_api:
  base_url: "https://fleet.example.com/api"
  token: "secret"
status_feed:
  broker: "tcp://broker:1883"
zone:
  vertices:
    - {lat: 51.0, lng: 71.0}
    - {lat: 51.0, lng: 71.6}
    - {lat: 51.3, lng: 71.6}
    - {lat: 51.3, lng: 71.0}
reservation:
  bounds:
    max_hours: 48
journal:
  path: "res.jsonl"
metrics:
  prometheus_enabled: true
  prometheus_port: "9090"
`

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://fleet.example.com/api", cfg.FleetAPI.BaseURL)
	require.Equal(t, 10, cfg.FleetAPI.TimeoutSeconds) // default
	require.Equal(t, "fleet/status/+", cfg.StatusFeed.Topic)
	require.Equal(t, 48, cfg.Reservation.Bounds.MaxHours)
	require.Equal(t, 300, cfg.Reservation.Bounds.MaxMinutes) // default
	require.Equal(t, "jsonl", cfg.Journal.Backend)
	require.True(t, cfg.Metrics.PrometheusEnabled)

	poly, err := cfg.Zone.Polygon()
	require.NoError(t, err)
	require.True(t, poly.Contains(51.1, 71.4))
	require.False(t, poly.Contains(40.0, 71.4))
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"fleet_api": {"base_url": "https://fleet.example.com"},
		"zone": {"vertices": [
			{"lat": 0, "lng": 0}, {"lat": 0, "lng": 1}, {"lat": 1, "lng": 1}
		]}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://fleet.example.com", cfg.FleetAPI.BaseURL)
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsDegenerateZone(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
fleet_api:
  base_url: "https://fleet.example.com"
zone:
  vertices:
    - {lat: 0, lng: 0}
    - {lat: 1, lng: 1}
`)
	_, err := Load(path)
	require.ErrorContains(t, err, "at least 3 vertices")
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
zone:
  vertices:
    - {lat: 0, lng: 0}
    - {lat: 0, lng: 1}
    - {lat: 1, lng: 1}
`)
	_, err := Load(path)
	require.ErrorContains(t, err, "base_url")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", validYAML)
	t.Setenv("FC_FLEET_API__TOKEN", "from-env")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.FleetAPI.Token)
}
