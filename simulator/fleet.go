package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// vehicleJSON mirrors the wire shape of the authority's vehicle resource.
type vehicleJSON struct {
	ID              int64    `json:"id"`
	Status          string   `json:"status"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Heading         float64  `json:"heading"`
	EngineCC        float64  `json:"engine_cc"`
	FuelLevel       float64  `json:"fuel_level"`
	BodyType        string   `json:"body_type"`
	PricePerMinute  float64  `json:"price_per_minute"`
	PricePerHour    float64  `json:"price_per_hour"`
	PricePerDay     float64  `json:"price_per_day"`
	OwnerID         int64    `json:"owner_id"`
	CurrentRenterID *int64   `json:"current_renter_id,omitempty"`
	DeliveryLat     *float64 `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64 `json:"delivery_lng,omitempty"`
	RentalID        *int64   `json:"rental_id,omitempty"`
}

var bodyTypes = []string{"sedan", "hatchback", "suv", "van"}

// SimFleet is an in-memory stand-in for the fleet authority: it serves the
// vehicle API and walks its vehicles through status transitions.
type SimFleet struct {
	mu        sync.Mutex
	rng       *rand.Rand
	vehicles  map[int64]*vehicleJSON
	attempts  int
	rentals   int64
	failEvery int
	failCode  string
	notify    func(id int64, status string)
}

// NewSimFleet generates count vehicles scattered around the origin.
func NewSimFleet(cfg Config, rng *rand.Rand) *SimFleet {
	f := &SimFleet{
		rng:       rng,
		vehicles:  make(map[int64]*vehicleJSON, cfg.Count),
		failEvery: cfg.FailEvery,
		failCode:  cfg.FailureCode,
	}
	for i := 1; i <= cfg.Count; i++ {
		engineCC := float64(0)
		if rng.Intn(2) == 0 {
			engineCC = float64(1200 + rng.Intn(1800))
		}
		f.vehicles[int64(i)] = &vehicleJSON{
			ID:             int64(i),
			Status:         "free",
			Lat:            48.85 + rng.Float64()*0.2 - 0.1,
			Lng:            2.35 + rng.Float64()*0.2 - 0.1,
			Heading:        rng.Float64() * 360,
			EngineCC:       engineCC,
			FuelLevel:      0.2 + rng.Float64()*0.8,
			BodyType:       bodyTypes[rng.Intn(len(bodyTypes))],
			PricePerMinute: 0.3,
			PricePerHour:   12,
			PricePerDay:    80,
			OwnerID:        int64(100 + rng.Intn(20)),
		}
	}
	return f
}

// OnStatusChange registers a callback invoked for every transition.
func (f *SimFleet) OnStatusChange(fn func(id int64, status string)) { f.notify = fn }

// Tick nudges positions and occasionally frees occupied vehicles.
func (f *SimFleet) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vehicles {
		v.Lat += (f.rng.Float64() - 0.5) * 0.001
		v.Lng += (f.rng.Float64() - 0.5) * 0.001
		if (v.Status == "reserved" || v.Status == "delivering") && f.rng.Float64() < 0.2 {
			f.setStatus(v, "free")
		}
	}
}

// setStatus mutates under the caller's lock and fires the notify hook.
func (f *SimFleet) setStatus(v *vehicleJSON, status string) {
	v.Status = status
	if status == "free" {
		v.CurrentRenterID = nil
		v.DeliveryLat = nil
		v.DeliveryLng = nil
		v.RentalID = nil
	}
	if f.notify != nil {
		f.notify(v.ID, status)
	}
}

// Handler builds the HTTP surface consumed by the client.
func (f *SimFleet) Handler(verbose bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/vehicles", f.handleList)
	mux.HandleFunc("/vehicles/", f.handleVehicle)
	h := http.Handler(mux)
	if verbose {
		h = logRequests(h)
	}
	return h
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Printf("%s %s\n", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (f *SimFleet) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	out := make([]vehicleJSON, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (f *SimFleet) handleVehicle(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/vehicles/")
	parts := strings.SplitN(rest, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "bad vehicle id", http.StatusBadRequest)
		return
	}
	if len(parts) == 1 {
		f.mu.Lock()
		v, ok := f.vehicles[id]
		var cp vehicleJSON
		if ok {
			cp = *v
		}
		f.mu.Unlock()
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "unknown vehicle")
			return
		}
		writeJSON(w, http.StatusOK, cp)
		return
	}
	switch parts[1] {
	case "reserve":
		f.reserve(w, r, id, "reserved")
	case "reserve-delivery":
		f.reserve(w, r, id, "delivering")
	default:
		http.NotFound(w, r)
	}
}

type reserveJSON struct {
	Duration    int      `json:"duration"`
	Unit        string   `json:"unit"`
	DeliveryLat *float64 `json:"delivery_lat"`
	DeliveryLng *float64 `json:"delivery_lng"`
}

func (f *SimFleet) reserve(w http.ResponseWriter, r *http.Request, id int64, target string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body reserveJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[id]
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown vehicle")
		return
	}
	f.attempts++
	if f.failEvery > 0 && f.attempts%f.failEvery == 0 {
		writeError(w, http.StatusConflict, f.failCode, "injected failure")
		return
	}
	if v.Status != "free" && v.Status != "owner" {
		writeError(w, http.StatusConflict, "vehicle_unavailable", "vehicle is "+v.Status)
		return
	}
	if target == "delivering" {
		if body.DeliveryLat == nil || body.DeliveryLng == nil {
			writeError(w, http.StatusBadRequest, "bad_request", "delivery target required")
			return
		}
		v.DeliveryLat = body.DeliveryLat
		v.DeliveryLng = body.DeliveryLng
		renter := int64(500 + f.rng.Intn(100))
		v.CurrentRenterID = &renter
	}
	f.rentals++
	rid := f.rentals
	v.RentalID = &rid
	f.setStatus(v, target)
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"code": code, "detail": detail})
}
