package metrics

import coremetrics "github.com/azvmotors/fleetcore/core/metrics"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordReservation forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordReservation(ev coremetrics.ReservationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordReservation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordGeofenceRejection forwards geofence rejections.
func (m *MultiSink) RecordGeofenceRejection(ev coremetrics.GeofenceEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.GeofenceRecorder); ok {
			if err := rec.RecordGeofenceRejection(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordAssignmentFetch forwards assignment lookups.
func (m *MultiSink) RecordAssignmentFetch(ev coremetrics.AssignmentFetchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.AssignmentRecorder); ok {
			if err := rec.RecordAssignmentFetch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards fleet size updates.
func (m *MultiSink) RecordFleetSize(size int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.FleetSizeRecorder); ok {
			if err := rec.RecordFleetSize(size); err != nil {
				return err
			}
		}
	}
	return nil
}
