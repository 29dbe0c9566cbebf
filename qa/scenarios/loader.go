package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/azvmotors/fleetcore/core/model"
)

type VehicleDef struct {
	ID      int64   `yaml:"id"`
	Status  string  `yaml:"status"`
	OwnerID int64   `yaml:"owner_id,omitempty"`
	Lat     float64 `yaml:"lat,omitempty"`
	Lng     float64 `yaml:"lng,omitempty"`
}

func (v VehicleDef) ToModel() model.Vehicle {
	st, ok := model.ParseStatus(v.Status)
	if !ok {
		st = model.StatusUnknown
	}
	return model.Vehicle{
		ID:       v.ID,
		Status:   st,
		OwnerID:  v.OwnerID,
		Position: model.Coordinates{Lat: v.Lat, Lng: v.Lng},
	}
}

type VertexDef struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

type AttemptDef struct {
	Vehicle     int64   `yaml:"vehicle"`
	Flow        string  `yaml:"flow"`
	Duration    int     `yaml:"duration,omitempty"`
	Unit        string  `yaml:"unit,omitempty"`
	DeliveryLat float64 `yaml:"delivery_lat,omitempty"`
	DeliveryLng float64 `yaml:"delivery_lng,omitempty"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Zone        []VertexDef  `yaml:"zone,omitempty"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	// FailVehicles maps a vehicle id to the backend error code its
	// reservation calls return.
	FailVehicles map[int64]string `yaml:"fail_vehicles,omitempty"`
	Attempts     []AttemptDef     `yaml:"attempts"`
	// Expected holds one outcome per attempt, in order.
	Expected []string `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
