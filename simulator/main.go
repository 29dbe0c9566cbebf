// The simulator impersonates the fleet authority for local development: it
// serves the vehicle API and pushes status transitions over MQTT the way the
// real backend does.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fleet := NewSimFleet(cfg, rng)
	if cfg.Broker != "" {
		cli, err := connectBroker(cfg.Broker)
		if err != nil {
			log.Fatalf("broker: %v", err)
		}
		defer cli.Disconnect(250)
		fleet.OnStatusChange(statusPublisher(cli))
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: fleet.Handler(cfg.Verbose)}
	go func() {
		log.Printf("simulated authority listening on %s (seed %d)", cfg.Addr, seed)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("shutdown: %v", err)
			}
			return
		case <-ticker.C:
			fleet.Tick()
		}
	}
}

func connectBroker(broker string) (paho.Client, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("fleetcore-simulator")
	cli := paho.NewClient(opts)
	token := cli.Connect()
	token.Wait()
	return cli, token.Error()
}

// statusPublisher pushes transitions on the same topic shape the client's
// status feed subscribes to.
func statusPublisher(cli paho.Client) func(id int64, status string) {
	type update struct {
		VehicleID int64  `json:"vehicle_id"`
		Status    string `json:"status"`
	}
	return func(id int64, status string) {
		payload, err := json.Marshal(update{VehicleID: id, Status: status})
		if err != nil {
			return
		}
		cli.Publish(fmt.Sprintf("fleet/status/%d", id), 1, false, payload)
	}
}
