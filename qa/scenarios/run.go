package scenarios

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/geofence"
	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/core/reservation"
	"github.com/azvmotors/fleetcore/infra/logger"
	"github.com/azvmotors/fleetcore/infra/metrics"
	"github.com/azvmotors/fleetcore/internal/eventbus"
)

type backendErr struct{ code, detail string }

func (e backendErr) Error() string     { return e.detail }
func (e backendErr) ErrorCode() string { return e.code }
func (e backendErr) Detail() string    { return e.detail }

// scenarioAPI fails reservations for the configured vehicles and accepts the
// rest.
type scenarioAPI struct{ fail map[int64]string }

func (a scenarioAPI) result(id int64) error {
	if code, ok := a.fail[id]; ok {
		return backendErr{code: code, detail: "backend rejected vehicle"}
	}
	return nil
}

func (a scenarioAPI) ReserveVehicle(ctx context.Context, req reservation.Request) error {
	return a.result(req.VehicleID)
}

func (a scenarioAPI) ReserveDelivery(ctx context.Context, req reservation.Request) error {
	return a.result(req.VehicleID)
}

// worldZone covers every coordinate, for scenarios that do not care about the
// service area.
var worldZone = []model.Coordinates{
	{Lat: -90, Lng: -180},
	{Lat: -90, Lng: 180},
	{Lat: 90, Lng: 180},
	{Lat: 90, Lng: -180},
}

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	vertices := worldZone
	if len(sc.Zone) > 0 {
		vertices = make([]model.Coordinates, len(sc.Zone))
		for i, v := range sc.Zone {
			vertices[i] = model.Coordinates{Lat: v.Lat, Lng: v.Lng}
		}
	}
	zone, err := geofence.New(vertices)
	if err != nil {
		t.Fatalf("zone: %v", err)
	}

	store := fleetstate.NewMemoryStore()
	vehicles := make([]model.Vehicle, len(sc.Vehicles))
	for i, v := range sc.Vehicles {
		vehicles[i] = v.ToModel()
	}
	store.SetAll(vehicles)

	bus := eventbus.New()
	defer bus.Close()
	dispatcher, err := reservation.NewDispatcher(
		scenarioAPI{fail: sc.FailVehicles},
		zone,
		store,
		model.DurationBounds{},
		bus,
		nil,
		sink,
		logger.NopLogger{},
	)
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}

	if len(sc.Expected) != len(sc.Attempts) {
		t.Fatalf("scenario %s declares %d attempts but %d expected outcomes", sc.Name, len(sc.Attempts), len(sc.Expected))
	}
	for i, at := range sc.Attempts {
		var res reservation.Result
		switch at.Flow {
		case "owner":
			res = dispatcher.ReserveAsOwner(context.Background(), at.Vehicle)
		case "delivery":
			res = dispatcher.ReserveDelivery(context.Background(), at.Vehicle, at.Duration, attemptUnit(at), at.DeliveryLng, at.DeliveryLat)
		default:
			res = dispatcher.Reserve(context.Background(), at.Vehicle, at.Duration, attemptUnit(at))
		}
		if string(res.Outcome) != sc.Expected[i] {
			t.Errorf("scenario %s attempt %d: outcome %s, want %s", sc.Name, i, res.Outcome, sc.Expected[i])
		}
	}
}

func attemptUnit(at AttemptDef) model.DurationUnit {
	if u, ok := model.ParseDurationUnit(at.Unit); ok {
		return u
	}
	return model.UnitHours
}
