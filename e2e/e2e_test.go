package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/azvmotors/fleetcore/core/fleetstate"
	coremetrics "github.com/azvmotors/fleetcore/core/metrics"
	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/infra/metrics"
	"github.com/azvmotors/fleetcore/infra/statusfeed"
)

// startInflux starts an InfluxDB 2.7 container and returns it with the base
// URL. Skips the test when the container cannot be started.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         "e2e_org",
			"DOCKER_INFLUXDB_INIT_BUCKET":      "e2e_bucket",
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": "e2e-token",
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

// startMosquitto spins up a basic Mosquitto broker.
func startMosquitto(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "1883")
	return cont, fmt.Sprintf("tcp://%s:%s", host, port.Port())
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
}

// Test_E2E_InfluxSink verifies that settled reservation attempts land in a
// real InfluxDB instance.
func Test_E2E_InfluxSink(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, url := startInflux(ctx, t)
	if cont != nil {
		defer cont.Terminate(ctx) //nolint:errcheck
	}

	org := "e2e_org"
	bucket := "e2e_bucket"
	token := "e2e-token"
	helper := newInfluxHelper(url, org, bucket, token)
	defer helper.close()
	if err := helper.setupBucket(ctx); err != nil {
		t.Fatalf("setup bucket: %v", err)
	}

	sink := metrics.NewInfluxSink(url, token, org, bucket)
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.ReservationEvent{
		VehicleID:   42,
		Flow:        "standard",
		Outcome:     "reserved",
		RequestID:   "e2e-req",
		SubmittedAt: now.Add(-200 * time.Millisecond),
		SettledAt:   now,
	}
	if err := sink.RecordReservation(ev); err != nil {
		t.Fatalf("record reservation: %v", err)
	}

	count, err := helper.countPoints(ctx, "reservation_attempt")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count == 0 {
		t.Fatal("no reservation points returned from Influx")
	}
}

// Test_E2E_StatusFeed verifies that a status update published on a real
// broker reaches the vehicle cache.
func Test_E2E_StatusFeed(t *testing.T) {
	requireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cont, broker := startMosquitto(ctx, t)
	if cont != nil {
		defer cont.Terminate(ctx) //nolint:errcheck
	}

	store := fleetstate.NewMemoryStore()
	store.Set(model.Vehicle{ID: 1, Status: model.StatusFree})

	feed, err := statusfeed.New(statusfeed.Config{Broker: broker, ClientID: "e2e-feed"}, store)
	if err != nil {
		t.Fatalf("status feed: %v", err)
	}
	defer feed.Close()

	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("e2e-pub")
	pub := paho.NewClient(opts)
	if token := pub.Connect(); token.Wait() && token.Error() != nil {
		t.Fatalf("publisher connect: %v", token.Error())
	}
	defer pub.Disconnect(100)

	payload, _ := json.Marshal(map[string]any{"vehicle_id": 1, "status": "service"})
	if token := pub.Publish("fleet/status/1", 1, false, payload); token.Wait() && token.Error() != nil {
		t.Fatalf("publish: %v", token.Error())
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if v, ok := store.Get(1); ok && v.Status == model.StatusService {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	v, _ := store.Get(1)
	t.Fatalf("status update never applied, vehicle status is %s", v.Status)
}
