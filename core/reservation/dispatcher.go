package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/logger"
	"github.com/azvmotors/fleetcore/core/metrics"
	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/internal/eventbus"
)

// Request is the wire-level reservation submission handed to the fleet
// authority. RequestID doubles as an idempotency key.
type Request struct {
	RequestID string
	VehicleID int64
	Duration  int
	Unit      model.DurationUnit
	Target    *model.Coordinates
}

// FleetAPI is the remote fleet authority seen by the dispatcher.
type FleetAPI interface {
	ReserveVehicle(ctx context.Context, req Request) error
	ReserveDelivery(ctx context.Context, req Request) error
}

// Zone gates delivery targets. The service polygon implements it.
type Zone interface {
	Contains(lat, lng float64) bool
}

// Dispatcher issues reservation intents against the fleet authority. Every
// attempt is guarded locally first: duration clamp, status transition check
// and, for deliveries, the service-zone test all run before any network call.
type Dispatcher struct {
	api     FleetAPI
	zone    Zone
	store   fleetstate.Store
	bounds  model.DurationBounds
	bus     eventbus.EventBus
	journal Journal
	sink    metrics.MetricsSink
	log     logger.Logger

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewDispatcher creates a Dispatcher. api, store and log are mandatory; bus,
// journal and sink may be nil.
func NewDispatcher(api FleetAPI, zone Zone, store fleetstate.Store, bounds model.DurationBounds, bus eventbus.EventBus, journal Journal, sink metrics.MetricsSink, log logger.Logger) (*Dispatcher, error) {
	if api == nil || store == nil || log == nil {
		return nil, fmt.Errorf("reservation: nil parameter provided to NewDispatcher")
	}
	bounds.SetDefaults()
	if journal == nil {
		journal = NopJournal{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Dispatcher{
		api:      api,
		zone:     zone,
		store:    store,
		bounds:   bounds,
		bus:      bus,
		journal:  journal,
		sink:     sink,
		log:      log,
		inFlight: make(map[int64]struct{}),
	}, nil
}

// Reserve submits a standard reservation for the vehicle.
func (d *Dispatcher) Reserve(ctx context.Context, vehicleID int64, duration int, unit model.DurationUnit) Result {
	intent := model.ReservationIntent{VehicleID: vehicleID, Duration: duration, Unit: unit}
	return d.dispatch(ctx, FlowStandard, intent, model.StatusReserved)
}

// ReserveDelivery submits a delivery reservation. Targets outside the service
// zone are rejected before the authority is contacted, with a user-facing
// outcome distinct from backend errors.
func (d *Dispatcher) ReserveDelivery(ctx context.Context, vehicleID int64, duration int, unit model.DurationUnit, deliveryLng, deliveryLat float64) Result {
	intent := model.ReservationIntent{
		VehicleID:      vehicleID,
		Duration:       duration,
		Unit:           unit,
		DeliveryTarget: &model.Coordinates{Lat: deliveryLat, Lng: deliveryLng},
	}
	return d.dispatch(ctx, FlowDelivery, intent, model.StatusDelivering)
}

// ReserveAsOwner submits an open-ended hold by the vehicle's owner. Duration
// zero is the sentinel for "until manually ended"; the unit is fixed to the
// finest granularity because owner holds bypass normal pricing.
func (d *Dispatcher) ReserveAsOwner(ctx context.Context, vehicleID int64) Result {
	intent := model.ReservationIntent{VehicleID: vehicleID, Duration: 0, Unit: model.UnitMinutes}
	return d.dispatch(ctx, FlowOwner, intent, model.StatusInUse)
}

func (d *Dispatcher) dispatch(ctx context.Context, flow Flow, intent model.ReservationIntent, want model.Status) Result {
	submitted := time.Now()
	res := Result{
		RequestID:   uuid.NewString(),
		VehicleID:   intent.VehicleID,
		Flow:        flow,
		SubmittedAt: submitted,
	}

	// Owner holds keep the zero-duration sentinel; everything else is
	// clamped into the configured bound, never bounced back to the user.
	if flow != FlowOwner {
		intent = intent.Normalize(d.bounds)
	}

	v, ok := d.store.Get(intent.VehicleID)
	if !ok {
		return d.settle(ctx, res, intent, OutcomeFailed, ActionRetry, ErrUnknownVehicle)
	}
	if !model.CanRequest(v.Status, want) {
		d.log.Debugw("transition denied locally", map[string]any{
			"vehicle_id": intent.VehicleID,
			"from":       v.Status.String(),
			"to":         want.String(),
		})
		return d.settle(ctx, res, intent, OutcomeTransitionDenied, ActionNone, ErrTransitionDenied)
	}
	if flow == FlowDelivery {
		t := intent.DeliveryTarget
		if d.zone == nil || !d.zone.Contains(t.Lat, t.Lng) {
			d.log.Infof("delivery target (%f,%f) outside service zone, vehicle %d", t.Lat, t.Lng, intent.VehicleID)
			if rec, ok := d.sink.(metrics.GeofenceRecorder); ok {
				if err := rec.RecordGeofenceRejection(metrics.GeofenceEvent{VehicleID: intent.VehicleID, Target: *t, Time: submitted}); err != nil {
					d.log.Warnf("geofence metric: %v", err)
				}
			}
			return d.settle(ctx, res, intent, OutcomeGeofenceRejected, ActionChangeAddress, ErrOutsideServiceZone)
		}
	}

	release, err := d.acquire(intent.VehicleID)
	if err != nil {
		return d.settle(ctx, res, intent, OutcomeFailed, ActionNone, err)
	}
	defer release()

	// Local guards passed: the attempt is now pending. Selection UI closes
	// on this event; the displayed state is stale until Settled follows.
	if d.bus != nil {
		d.bus.Publish(Submitted{RequestID: res.RequestID, VehicleID: intent.VehicleID, Flow: flow, Time: submitted})
	}

	req := Request{
		RequestID: res.RequestID,
		VehicleID: intent.VehicleID,
		Duration:  intent.Duration,
		Unit:      intent.Unit,
		Target:    intent.DeliveryTarget,
	}
	if flow == FlowDelivery {
		err = d.api.ReserveDelivery(ctx, req)
	} else {
		err = d.api.ReserveVehicle(ctx, req)
	}
	if err != nil {
		if isBalanceError(err) {
			return d.settle(ctx, res, intent, OutcomeInsufficientBalance, ActionTopUp, err)
		}
		return d.settle(ctx, res, intent, OutcomeFailed, ActionRetry, err)
	}
	res.RefreshRequired = true
	return d.settle(ctx, res, intent, OutcomeReserved, ActionNone, nil)
}

// settle finalizes the result, journals it, records metrics and publishes the
// Settled event. Journal and metrics failures are logged, never propagated.
func (d *Dispatcher) settle(ctx context.Context, res Result, intent model.ReservationIntent, out Outcome, action UserAction, err error) Result {
	res.Outcome = out
	res.Action = action
	res.Err = err
	res.SettledAt = time.Now()

	rec := JournalRecord{
		Timestamp: res.SettledAt,
		RequestID: res.RequestID,
		VehicleID: res.VehicleID,
		Flow:      res.Flow,
		Duration:  intent.Duration,
		Unit:      intent.Unit.String(),
		Outcome:   out,
	}
	if err != nil {
		rec.Detail = err.Error()
	}
	if jerr := d.journal.Append(ctx, rec); jerr != nil {
		d.log.Warnf("journal append: %v", jerr)
	}
	ev := metrics.ReservationEvent{
		VehicleID:   res.VehicleID,
		Flow:        string(res.Flow),
		Outcome:     string(out),
		RequestID:   res.RequestID,
		SubmittedAt: res.SubmittedAt,
		SettledAt:   res.SettledAt,
	}
	if merr := d.sink.RecordReservation(ev); merr != nil {
		d.log.Warnf("reservation metric: %v", merr)
	}
	if d.bus != nil {
		d.bus.Publish(Settled{Result: res, Time: res.SettledAt})
	}
	if err != nil {
		d.log.Infof("reservation %s settled: vehicle=%d flow=%s outcome=%s err=%v", res.RequestID, res.VehicleID, res.Flow, out, err)
	} else {
		d.log.Infof("reservation %s settled: vehicle=%d flow=%s outcome=%s", res.RequestID, res.VehicleID, res.Flow, out)
	}
	return res
}

// acquire takes the per-vehicle single-flight slot. A second submission for
// the same vehicle fails locally while the first is pending.
func (d *Dispatcher) acquire(vehicleID int64) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[vehicleID]; busy {
		return nil, ErrReservationInFlight
	}
	d.inFlight[vehicleID] = struct{}{}
	return func() {
		d.mu.Lock()
		delete(d.inFlight, vehicleID)
		d.mu.Unlock()
	}, nil
}
