package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/azvmotors/fleetcore/core/logger"
	"github.com/azvmotors/fleetcore/core/metrics"
	"github.com/azvmotors/fleetcore/core/model"
)

// AssignmentAPI is the fleet authority surface the tracker reads from.
type AssignmentAPI interface {
	// CurrentDeliveryAssignment returns the single active assignment for the
	// actor, or (nil, nil) when there is none.
	CurrentDeliveryAssignment(ctx context.Context, role model.Role) (*model.DeliveryAssignment, error)
}

// MapFocuser is the external map collaborator. Focusing is a side effect
// request, not a mutation of the assignment.
type MapFocuser interface {
	Focus(lat, lng float64, zoom int)
}

// FocusZoom is the zoom level requested when centering on a delivery target.
const FocusZoom = 17

// Tracker holds the single active delivery assignment of a dispatch-role
// actor. Fetches replace the held assignment wholesale; fetch errors are
// surfaced to the caller, never silently mapped to "no assignment".
type Tracker struct {
	api  AssignmentAPI
	mapc MapFocuser
	sink metrics.MetricsSink
	log  logger.Logger

	mu      sync.RWMutex
	current *model.DeliveryAssignment
}

// NewTracker creates a Tracker. api and log are mandatory; mapc and sink may
// be nil.
func NewTracker(api AssignmentAPI, mapc MapFocuser, sink metrics.MetricsSink, log logger.Logger) (*Tracker, error) {
	if api == nil || log == nil {
		return nil, fmt.Errorf("delivery: nil parameter provided to NewTracker")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Tracker{api: api, mapc: mapc, sink: sink, log: log}, nil
}

// FetchCurrent retrieves the active assignment for the actor. Roles without
// delivery authorization resolve to none locally, with zero network calls.
func (t *Tracker) FetchCurrent(ctx context.Context, role model.Role) (*model.DeliveryAssignment, error) {
	if !role.CanReceiveDeliveries() {
		t.replace(nil)
		return nil, nil
	}
	a, err := t.api.CurrentDeliveryAssignment(ctx, role)
	t.recordFetch(role, a != nil, err != nil)
	if err != nil {
		t.log.Errorf("assignment fetch: %v", err)
		return nil, fmt.Errorf("fetch current assignment: %w", err)
	}
	t.replace(a)
	if a != nil {
		t.log.Debugw("assignment replaced", map[string]any{
			"rental_id":   a.RentalID,
			"vehicle_id":  a.Vehicle.ID,
			"deliverable": a.HasDeliverableCoordinates(),
		})
	}
	return a, nil
}

// Current returns the held assignment, if any.
func (t *Tracker) Current() (*model.DeliveryAssignment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return nil, false
	}
	a := *t.current
	return &a, true
}

// HasDeliverableCoordinates reports whether the held assignment carries a
// usable delivery address.
func (t *Tracker) HasDeliverableCoordinates() bool {
	a, ok := t.Current()
	return ok && a.HasDeliverableCoordinates()
}

// FormattedReservationTime renders the held assignment's reservation time,
// empty when there is no assignment.
func (t *Tracker) FormattedReservationTime() string {
	a, ok := t.Current()
	if !ok {
		return ""
	}
	return a.FormattedReservationTime()
}

// FocusOnDeliveryTarget asks the map collaborator to center on the delivery
// address. It reports whether a focus request was issued; assignments without
// deliverable coordinates are a no-op.
func (t *Tracker) FocusOnDeliveryTarget() bool {
	a, ok := t.Current()
	if !ok || !a.HasDeliverableCoordinates() || t.mapc == nil {
		return false
	}
	t.mapc.Focus(a.DeliveryTarget.Lat, a.DeliveryTarget.Lng, FocusZoom)
	return true
}

func (t *Tracker) replace(a *model.DeliveryAssignment) {
	t.mu.Lock()
	t.current = a
	t.mu.Unlock()
}

func (t *Tracker) recordFetch(role model.Role, found, failed bool) {
	rec, ok := t.sink.(metrics.AssignmentRecorder)
	if !ok {
		return
	}
	ev := metrics.AssignmentFetchEvent{Role: role, Found: found, Err: failed, Time: time.Now()}
	if err := rec.RecordAssignmentFetch(ev); err != nil {
		t.log.Warnf("assignment metric: %v", err)
	}
}
