package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testFleet(t *testing.T, cfg Config) (*SimFleet, *httptest.Server) {
	t.Helper()
	if cfg.Count == 0 {
		cfg.Count = 5
	}
	f := NewSimFleet(cfg, rand.New(rand.NewSource(1)))
	srv := httptest.NewServer(f.Handler(false))
	t.Cleanup(srv.Close)
	return f, srv
}

func TestListAndGet(t *testing.T) {
	_, srv := testFleet(t, Config{})

	resp, err := http.Get(srv.URL + "/vehicles")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	var vehicles []vehicleJSON
	if err := json.NewDecoder(resp.Body).Decode(&vehicles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(vehicles) != 5 {
		t.Fatalf("expected 5 vehicles, got %d", len(vehicles))
	}

	resp, err = http.Get(srv.URL + "/vehicles/99")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown vehicle, got %d", resp.StatusCode)
	}
}

func TestReserveTransitions(t *testing.T) {
	f, srv := testFleet(t, Config{})
	var events []string
	f.OnStatusChange(func(id int64, status string) { events = append(events, status) })

	body := strings.NewReader(`{"duration":2,"unit":"hours"}`)
	resp, err := http.Post(srv.URL+"/vehicles/1/reserve", "application/json", body)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(events) != 1 || events[0] != "reserved" {
		t.Fatalf("events = %v", events)
	}

	// second attempt on the same vehicle conflicts
	resp, err = http.Post(srv.URL+"/vehicles/1/reserve", "application/json", strings.NewReader(`{"duration":1,"unit":"hours"}`))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var apiErr map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if apiErr["code"] != "vehicle_unavailable" {
		t.Fatalf("code = %s", apiErr["code"])
	}
}

func TestReserveDeliveryRequiresTarget(t *testing.T) {
	_, srv := testFleet(t, Config{})

	resp, err := http.Post(srv.URL+"/vehicles/2/reserve-delivery", "application/json", strings.NewReader(`{"duration":1,"unit":"hours"}`))
	if err != nil {
		t.Fatalf("reserve-delivery: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without target, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/vehicles/2/reserve-delivery", "application/json", strings.NewReader(`{"duration":1,"unit":"hours","delivery_lat":48.9,"delivery_lng":2.4}`))
	if err != nil {
		t.Fatalf("reserve-delivery: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestInjectedFailures(t *testing.T) {
	_, srv := testFleet(t, Config{FailEvery: 1, FailureCode: "insufficient_balance"})

	resp, err := http.Post(srv.URL+"/vehicles/3/reserve", "application/json", strings.NewReader(`{"duration":1,"unit":"hours"}`))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var apiErr map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if apiErr["code"] != "insufficient_balance" {
		t.Fatalf("code = %s", apiErr["code"])
	}
}
