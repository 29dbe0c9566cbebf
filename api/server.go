// Package api exposes a local read-only HTTP surface for inspecting the
// vehicle cache and the reservation journal.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/azvmotors/fleetcore/api/reservations"
	"github.com/azvmotors/fleetcore/api/vehicles"
	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/reservation"
)

// NewMux builds the handler tree for the local API.
func NewMux(store fleetstate.Store, journal reservation.Journal, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/vehicles", vehicles.NewFleetHandler(store))
	mux.Handle("/api/reservations/logs", reservations.NewLogHandler(journal, token))
	return mux
}

// StartServer serves the local API until the context is cancelled.
func StartServer(ctx context.Context, addr string, store fleetstate.Store, journal reservation.Journal, token string) error {
	srv := &http.Server{Addr: addr, Handler: NewMux(store, journal, token)}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
