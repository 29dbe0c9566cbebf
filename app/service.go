package app

import (
	"context"
	"fmt"
	"time"

	"github.com/azvmotors/fleetcore/api"
	"github.com/azvmotors/fleetcore/config"
	"github.com/azvmotors/fleetcore/core/delivery"
	"github.com/azvmotors/fleetcore/core/fleetstate"
	coremetrics "github.com/azvmotors/fleetcore/core/metrics"
	"github.com/azvmotors/fleetcore/core/reservation"
	"github.com/azvmotors/fleetcore/infra/fleetapi"
	"github.com/azvmotors/fleetcore/infra/logger"
	"github.com/azvmotors/fleetcore/infra/metrics"
	"github.com/azvmotors/fleetcore/infra/statusfeed"
	"github.com/azvmotors/fleetcore/internal/eventbus"
)

// syncInterval is the period of the background fleet refresh.
const syncInterval = 30 * time.Second

// Service wires the fleet client, vehicle cache, reservation dispatcher and
// delivery tracker together from the configuration.
type Service struct {
	Dispatcher *reservation.Dispatcher
	Tracker    *delivery.Tracker
	Store      fleetstate.Store
	Client     *fleetapi.Client

	bus         eventbus.EventBus
	feed        *statusfeed.Feed
	journal     reservation.Journal
	sink        coremetrics.MetricsSink
	log         logger.Logger
	promEnabled bool
	promPort    string
	apiEnabled  bool
	apiAddr     string
	apiToken    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	client, err := fleetapi.NewClient(cfg.FleetAPI)
	if err != nil {
		return nil, fmt.Errorf("fleet api client: %w", err)
	}
	zone, err := cfg.Zone.Polygon()
	if err != nil {
		return nil, fmt.Errorf("service zone: %w", err)
	}

	var sinks []coremetrics.MetricsSink
	promEnabled := cfg.Metrics.PrometheusEnabled
	promPort := cfg.Metrics.PrometheusPort
	if promEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket)
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var journal reservation.Journal = reservation.NopJournal{}
	if cfg.Journal.Backend == "jsonl" {
		journal, err = reservation.NewJSONLJournal(cfg.Journal.Path, cfg.Journal.MaxSizeMB, cfg.Journal.MaxBackups, cfg.Journal.MaxAgeDays)
		if err != nil {
			return nil, fmt.Errorf("journal: %w", err)
		}
	}

	bus := eventbus.New()
	store := fleetstate.NewMemoryStore()
	dispatcher, err := reservation.NewDispatcher(client, zone, store, cfg.Reservation.Bounds, bus, journal, sink, logg)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}
	tracker, err := delivery.NewTracker(client, nil, sink, logg)
	if err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}

	svc := &Service{
		Dispatcher:  dispatcher,
		Tracker:     tracker,
		Store:       store,
		Client:      client,
		bus:         bus,
		journal:     journal,
		sink:        sink,
		log:         logg,
		promEnabled: promEnabled,
		promPort:    promPort,
		apiEnabled:  cfg.API.Enabled,
		apiAddr:     cfg.API.Addr,
		apiToken:    cfg.API.Token,
	}
	if cfg.StatusFeed.Broker != "" {
		feed, err := statusfeed.New(cfg.StatusFeed, store)
		if err != nil {
			return nil, fmt.Errorf("status feed: %w", err)
		}
		svc.feed = feed
	}
	return svc, nil
}

// Run starts the background loops and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiEnabled {
		go func() {
			if err := api.StartServer(ctx, s.apiAddr, s.Store, s.journal, s.apiToken); err != nil {
				s.log.Errorf("local api: %v", err)
			}
		}()
	}
	if err := s.syncFleet(ctx); err != nil {
		s.log.Errorf("initial fleet sync: %v", err)
	}
	go s.refreshOnSettle(ctx)
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.syncFleet(ctx); err != nil {
				s.log.Warnf("fleet sync: %v", err)
			}
		}
	}
}

// syncFleet replaces the vehicle cache with the authority's current view.
func (s *Service) syncFleet(ctx context.Context) error {
	vehicles, err := s.Client.ListVehicles(ctx)
	if err != nil {
		return err
	}
	s.Store.SetAll(vehicles)
	if r, ok := s.sink.(coremetrics.FleetSizeRecorder); ok {
		_ = r.RecordFleetSize(len(vehicles))
	}
	s.log.Debugf("fleet sync: %d vehicles", len(vehicles))
	return nil
}

// refreshOnSettle honours the refresh obligation: a settled attempt that
// touched the backend invalidates the cached vehicle, so it is re-fetched.
func (s *Service) refreshOnSettle(ctx context.Context) {
	events := s.bus.Subscribe()
	defer s.bus.Unsubscribe(events)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			settled, ok := e.(reservation.Settled)
			if !ok || !settled.Result.RefreshRequired {
				continue
			}
			v, err := s.Client.GetVehicle(ctx, settled.Result.VehicleID)
			if err != nil {
				s.log.Warnf("vehicle %d refresh: %v", settled.Result.VehicleID, err)
				continue
			}
			s.Store.Set(v)
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.feed != nil {
		s.feed.Close()
	}
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.journal.Close()
}
