package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/azvmotors/fleetcore/core/metrics"
)

// PromSink records reservation events in Prometheus metrics.
type PromSink struct {
	reservations *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	geofence     prometheus.Counter
	assignments  *prometheus.CounterVec
	fleet        prometheus.Gauge
}

// NewPromSink registers reservation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reservations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_attempts_total",
		Help: "Total number of settled reservation attempts",
	}, []string{"flow", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservation_settle_seconds",
		Help:    "Time between reservation submission and settlement",
		Buckets: prometheus.DefBuckets,
	}, []string{"flow", "outcome"})
	geofence := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geofence_rejections_total",
		Help: "Delivery targets rejected for falling outside the service zone",
	})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_assignment_fetches_total",
		Help: "Delivery assignment lookups against the fleet authority",
	}, []string{"found", "error"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_visible_vehicles",
		Help: "Number of vehicles in the last authoritative fleet refresh",
	})

	if err := reg.Register(reservations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reservations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(geofence); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			geofence = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		reservations: reservations,
		latency:      latency,
		geofence:     geofence,
		assignments:  assignments,
		fleet:        fleet,
	}, nil
}

// RecordReservation increments the counter and observes the settle latency.
func (s *PromSink) RecordReservation(ev coremetrics.ReservationEvent) error {
	s.reservations.WithLabelValues(ev.Flow, ev.Outcome).Inc()
	s.latency.WithLabelValues(ev.Flow, ev.Outcome).Observe(ev.Latency().Seconds())
	return nil
}

// RecordGeofenceRejection counts rejected delivery targets.
func (s *PromSink) RecordGeofenceRejection(coremetrics.GeofenceEvent) error {
	s.geofence.Inc()
	return nil
}

// RecordAssignmentFetch counts assignment lookups.
func (s *PromSink) RecordAssignmentFetch(ev coremetrics.AssignmentFetchEvent) error {
	s.assignments.WithLabelValues(strconv.FormatBool(ev.Found), strconv.FormatBool(ev.Err)).Inc()
	return nil
}

// RecordFleetSize tracks the visible fleet size.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

// StartPromServer exposes /metrics until the context is canceled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
