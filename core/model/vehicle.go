package model

import "fmt"

// BodyType categorizes the vehicle chassis as reported by the authority.
type BodyType string

const (
	BodySedan     BodyType = "sedan"
	BodySUV       BodyType = "suv"
	BodyHatchback BodyType = "hatchback"
	BodyMinivan   BodyType = "minivan"
	BodyUnknown   BodyType = "unknown"
)

// ParseBodyType maps a wire value to a BodyType, with an explicit unknown
// arm instead of a silent default.
func ParseBodyType(s string) (BodyType, bool) {
	switch bt := BodyType(s); bt {
	case BodySedan, BodySUV, BodyHatchback, BodyMinivan:
		return bt, true
	}
	return BodyUnknown, false
}

// EngineKind classifies propulsion. Classification is keyed on displacement
// alone: zero displacement means electric regardless of body type.
type EngineKind string

const (
	EngineCombustion EngineKind = "combustion"
	EngineElectric   EngineKind = "electric"
)

// Coordinates is a geographic point (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Zero reports whether both components are zero, the wire encoding for "no
// coordinates".
func (c Coordinates) Zero() bool { return c.Lat == 0 && c.Lng == 0 }

// Rates holds the rental pricing of a vehicle.
type Rates struct {
	PerMinute float64 `json:"per_minute"`
	PerHour   float64 `json:"per_hour"`
	PerDay    float64 `json:"per_day"`
}

// Vehicle is the client-side snapshot of a physical vehicle. It is owned by
// the remote fleet authority; the client holds a read-through copy and
// requests, never asserts, status transitions.
type Vehicle struct {
	ID       int64       `json:"id"`
	Status   Status      `json:"status"`
	Position Coordinates `json:"position"`
	Heading  float64     `json:"heading"`

	// EngineCC is the engine displacement in cubic centimeters. Zero marks
	// an electric vehicle.
	EngineCC  float64  `json:"engine_cc"`
	FuelLevel float64  `json:"fuel_level"` // fraction in [0,1]; charge level for electric
	Body      BodyType `json:"body"`

	Rates Rates `json:"rates"`

	OwnerID         int64  `json:"owner_id"`
	CurrentRenterID *int64 `json:"current_renter_id,omitempty"`

	// DeliveryTarget is set if and only if Status is StatusDelivering.
	DeliveryTarget *Coordinates `json:"delivery_target,omitempty"`
	RentalID       *int64       `json:"rental_id,omitempty"`
}

// Engine classifies the vehicle propulsion from its displacement.
func (v Vehicle) Engine() EngineKind {
	if v.EngineCC == 0 {
		return EngineElectric
	}
	return EngineCombustion
}

// OwnedBy reports whether the actor with the given id owns this vehicle.
func (v Vehicle) OwnedBy(actorID int64) bool {
	return v.OwnerID != 0 && v.OwnerID == actorID
}

// Validate checks the structural invariants of a vehicle snapshot.
func (v Vehicle) Validate() error {
	if v.ID == 0 {
		return fmt.Errorf("vehicle id is required")
	}
	if (v.DeliveryTarget != nil) != (v.Status == StatusDelivering) {
		return fmt.Errorf("vehicle %d: delivery target must be set iff status is delivering, got status %s", v.ID, v.Status)
	}
	if (v.CurrentRenterID != nil) != v.Status.Occupied() {
		return fmt.Errorf("vehicle %d: renter must be set iff status is occupied, got status %s", v.ID, v.Status)
	}
	return nil
}
