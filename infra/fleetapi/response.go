package fleetapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/azvmotors/fleetcore/core/logger"
	"github.com/azvmotors/fleetcore/core/model"
)

// APIError is the structured error payload of the fleet authority. Older
// backend versions send only Detail; Code is authoritative when present.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	DetailMsg  string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("fleetapi: %s (%s)", e.DetailMsg, e.Code)
	}
	return fmt.Sprintf("fleetapi: %s (status %d)", e.DetailMsg, e.StatusCode)
}

// ErrorCode implements reservation.BackendError.
func (e *APIError) ErrorCode() string { return e.Code }

// Detail implements reservation.BackendError.
func (e *APIError) Detail() string { return e.DetailMsg }

func decodeError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unexpected status code %d, unreadable body: %w", resp.StatusCode, err)
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if jerr := json.Unmarshal(body, apiErr); jerr != nil || apiErr.DetailMsg == "" && apiErr.Code == "" {
		apiErr.DetailMsg = string(body)
	}
	return apiErr
}

// vehiclePayload mirrors the authority's vehicle resource.
type vehiclePayload struct {
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
	CurrentRenterID *int64   `json:"current_renter_id"`
	DeliveryLat     *float64 `json:"delivery_lat"`
	DeliveryLng     *float64 `json:"delivery_lng"`
	RentalID        *int64   `json:"rental_id"`
}

func (p vehiclePayload) toModel(log logger.Logger) model.Vehicle {
	st, ok := model.ParseStatus(p.Status)
	if !ok {
		log.Warnf("vehicle %d: unrecognized status %q", p.ID, p.Status)
	}
	bt, ok := model.ParseBodyType(p.BodyType)
	if !ok && p.BodyType != "" {
		log.Warnf("vehicle %d: unrecognized body type %q", p.ID, p.BodyType)
	}
	v := model.Vehicle{
		ID:              p.ID,
		Status:          st,
		Position:        model.Coordinates{Lat: p.Lat, Lng: p.Lng},
		Heading:         p.Heading,
		EngineCC:        p.EngineCC,
		FuelLevel:       p.FuelLevel,
		Body:            bt,
		Rates:           model.Rates{PerMinute: p.PricePerMinute, PerHour: p.PricePerHour, PerDay: p.PricePerDay},
		OwnerID:         p.OwnerID,
		CurrentRenterID: p.CurrentRenterID,
		RentalID:        p.RentalID,
	}
	if p.DeliveryLat != nil && p.DeliveryLng != nil {
		v.DeliveryTarget = &model.Coordinates{Lat: *p.DeliveryLat, Lng: *p.DeliveryLng}
	}
	return v
}

// assignmentPayload mirrors the authority's delivery assignment resource.
type assignmentPayload struct {
	RentalID        int64          `json:"rental_id"`
	Vehicle         vehiclePayload `json:"vehicle"`
	DeliveryLat     float64        `json:"delivery_lat"`
	DeliveryLng     float64        `json:"delivery_lng"`
	ReservationTime string         `json:"reservation_time"`
	Status          string         `json:"status"`
}

func (p assignmentPayload) toModel(log logger.Logger) (*model.DeliveryAssignment, error) {
	a := &model.DeliveryAssignment{
		RentalID:       p.RentalID,
		Vehicle:        p.Vehicle.toModel(log),
		DeliveryTarget: model.Coordinates{Lat: p.DeliveryLat, Lng: p.DeliveryLng},
		Status:         p.Status,
	}
	if p.ReservationTime != "" {
		ts, err := time.Parse(time.RFC3339, p.ReservationTime)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reservation time: %w", err)
		}
		a.ReservationTime = ts
	}
	return a, nil
}
