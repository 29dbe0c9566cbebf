package metrics

import (
	"time"

	"github.com/azvmotors/fleetcore/core/model"
)

// ReservationEvent represents a settled reservation attempt to be recorded.
type ReservationEvent struct {
	VehicleID   int64
	Flow        string // standard, delivery or owner
	Outcome     string
	RequestID   string
	SubmittedAt time.Time
	SettledAt   time.Time
}

// Latency returns the time between submission and settlement.
func (e ReservationEvent) Latency() time.Duration {
	return e.SettledAt.Sub(e.SubmittedAt)
}

// MetricsSink records reservation outcomes for observability purposes.
type MetricsSink interface {
	RecordReservation(ev ReservationEvent) error
}

// GeofenceEvent captures a delivery target rejected before dispatch.
type GeofenceEvent struct {
	VehicleID int64
	Target    model.Coordinates
	Time      time.Time
}

// GeofenceRecorder records geofence rejections.
type GeofenceRecorder interface {
	RecordGeofenceRejection(ev GeofenceEvent) error
}

// AssignmentFetchEvent captures a delivery assignment lookup.
type AssignmentFetchEvent struct {
	Role  model.Role
	Found bool
	Err   bool
	Time  time.Time
}

// AssignmentRecorder records assignment fetches.
type AssignmentRecorder interface {
	RecordAssignmentFetch(ev AssignmentFetchEvent) error
}

// FleetSizeRecorder records the size of the visible fleet after a refresh.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordReservation(ReservationEvent) error { return nil }
