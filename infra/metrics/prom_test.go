package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/azvmotors/fleetcore/core/metrics"
	"github.com/azvmotors/fleetcore/core/model"
)

func TestPromSink_RecordReservation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	now := time.Now()
	ev := coremetrics.ReservationEvent{
		VehicleID:   1,
		Flow:        "standard",
		Outcome:     "reserved",
		SubmittedAt: now,
		SettledAt:   now.Add(120 * time.Millisecond),
	}
	require.NoError(t, sink.RecordReservation(ev))
	require.NoError(t, sink.RecordReservation(ev))

	got := testutil.ToFloat64(sink.reservations.WithLabelValues("standard", "reserved"))
	require.Equal(t, 2.0, got)
}

func TestPromSink_GeofenceAndFleet(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordGeofenceRejection(coremetrics.GeofenceEvent{
		VehicleID: 9,
		Target:    model.Coordinates{Lat: 99, Lng: 99},
		Time:      time.Now(),
	}))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.geofence))

	require.NoError(t, sink.RecordFleetSize(37))
	require.Equal(t, 37.0, testutil.ToFloat64(sink.fleet))
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	// Registering on the same registry again reuses the existing collectors.
	_, err = NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
}

func TestMultiSink_ForwardsAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	multi := NewMultiSink(prom, coremetrics.NopSink{})

	require.NoError(t, multi.RecordReservation(coremetrics.ReservationEvent{Flow: "delivery", Outcome: "failed"}))
	require.NoError(t, multi.RecordGeofenceRejection(coremetrics.GeofenceEvent{}))
	require.NoError(t, multi.RecordFleetSize(3))

	require.Equal(t, 1.0, testutil.ToFloat64(prom.reservations.WithLabelValues("delivery", "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(prom.geofence))
}
