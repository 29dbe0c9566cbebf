// Package flow selects which reservation flow a given actor may enter for a
// given vehicle. The decision is pure: the router never touches the network
// and hands off execution to the reservation dispatcher.
package flow

import "github.com/azvmotors/fleetcore/core/model"

// Kind identifies a reservation flow.
type Kind string

const (
	// None means the UI must not offer a reservation entry point at all.
	None           Kind = ""
	StandardRental Kind = "standard_rental"
	OwnerRental    Kind = "owner_rental"
	DeliveryRental Kind = "delivery_rental"
)

// Actor is the minimal view of the current user the router needs.
type Actor struct {
	ID   int64
	Role model.Role
}

// SelectFlow decides the reservation flow for the actor on this vehicle.
// Ownership wins over everything; a requested delivery mode wins over the
// standard flow; a vehicle whose status forbids new reservations yields None.
func SelectFlow(actor Actor, v model.Vehicle, deliveryRequested bool) Kind {
	if v.OwnedBy(actor.ID) && v.Status.AllowsOwnerHold() {
		return OwnerRental
	}
	if !v.Status.AllowsNewReservation() {
		return None
	}
	if deliveryRequested {
		return DeliveryRental
	}
	return StandardRental
}
