package model

import "fmt"

// DurationUnit is the granularity of a reservation duration.
type DurationUnit string

const (
	UnitMinutes DurationUnit = "minutes"
	UnitHours   DurationUnit = "hours"
	UnitDays    DurationUnit = "days"
)

// ParseDurationUnit maps a wire value to a DurationUnit.
func ParseDurationUnit(s string) (DurationUnit, bool) {
	switch u := DurationUnit(s); u {
	case UnitMinutes, UnitHours, UnitDays:
		return u, true
	}
	return "", false
}

func (u DurationUnit) String() string { return string(u) }

// DurationBounds holds the configured maximum reservation duration per unit.
type DurationBounds struct {
	MaxMinutes int `json:"max_minutes"`
	MaxHours   int `json:"max_hours"`
	MaxDays    int `json:"max_days"`
}

// SetDefaults applies sane defaults.
func (b *DurationBounds) SetDefaults() {
	if b.MaxMinutes <= 0 {
		b.MaxMinutes = 300
	}
	if b.MaxHours <= 0 {
		b.MaxHours = 24
	}
	if b.MaxDays <= 0 {
		b.MaxDays = 30
	}
}

// Max returns the bound for the given unit.
func (b DurationBounds) Max(u DurationUnit) int {
	switch u {
	case UnitHours:
		return b.MaxHours
	case UnitDays:
		return b.MaxDays
	default:
		return b.MaxMinutes
	}
}

// ClampDuration forces d into [1, max]. The operation is idempotent.
func ClampDuration(d, max int) int {
	if max < 1 {
		max = 1
	}
	if d < 1 {
		return 1
	}
	if d > max {
		return max
	}
	return d
}

// ReservationIntent is the ephemeral client-side request to transition a
// vehicle out of free/owner status. It is never persisted.
type ReservationIntent struct {
	VehicleID int64
	Duration  int
	Unit      DurationUnit

	// DeliveryTarget is present only for delivery reservations.
	DeliveryTarget *Coordinates
}

// Normalize clamps the duration into the configured bound for the unit.
func (r ReservationIntent) Normalize(b DurationBounds) ReservationIntent {
	r.Duration = ClampDuration(r.Duration, b.Max(r.Unit))
	return r
}

// Validate checks the intent after normalization.
func (r ReservationIntent) Validate(b DurationBounds) error {
	if r.VehicleID == 0 {
		return fmt.Errorf("vehicle id is required")
	}
	if _, ok := ParseDurationUnit(string(r.Unit)); !ok {
		return fmt.Errorf("unknown duration unit %q", r.Unit)
	}
	if max := b.Max(r.Unit); r.Duration < 1 || r.Duration > max {
		return fmt.Errorf("duration %d out of bounds [1,%d] for unit %s", r.Duration, max, r.Unit)
	}
	return nil
}
