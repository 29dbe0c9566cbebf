package model

import "time"

// Role identifies the actor type interacting with the fleet.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	// RoleMechanic is the dispatch role authorized to receive delivery
	// assignments and perform inspections.
	RoleMechanic Role = "mechanic"
	RoleUnknown  Role = "unknown"
)

// ParseRole maps a wire value to a Role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleRenter, RoleOwner, RoleMechanic:
		return r, true
	}
	return RoleUnknown, false
}

// CanReceiveDeliveries reports whether actors of this role hold delivery
// assignments.
func (r Role) CanReceiveDeliveries() bool { return r == RoleMechanic }

// DeliveryAssignment is the single active delivery task visible to a
// dispatch-role actor. It is owned by the fleet authority and replaced
// wholesale on each fetch.
type DeliveryAssignment struct {
	RentalID        int64       `json:"rental_id"`
	Vehicle         Vehicle     `json:"vehicle"`
	DeliveryTarget  Coordinates `json:"delivery_coordinates"`
	ReservationTime time.Time   `json:"reservation_time"`
	Status          string      `json:"status"`
}

// HasDeliverableCoordinates reports whether the assignment carries a usable
// delivery address. The wire encodes "no address" as (0,0).
func (a DeliveryAssignment) HasDeliverableCoordinates() bool {
	return a.DeliveryTarget.Lat != 0 && a.DeliveryTarget.Lng != 0
}

// FormattedReservationTime renders the reservation timestamp for display.
func (a DeliveryAssignment) FormattedReservationTime() string {
	if a.ReservationTime.IsZero() {
		return ""
	}
	return a.ReservationTime.Local().Format("02.01.2006 15:04")
}
