package reservation

import (
	"errors"
	"strings"
)

var (
	// ErrReservationInFlight is returned when a reservation for the same
	// vehicle is already awaiting its response.
	ErrReservationInFlight = errors.New("reservation already in flight for vehicle")
	// ErrUnknownVehicle is returned when the vehicle is not present in the
	// local cache and its status cannot be checked.
	ErrUnknownVehicle = errors.New("vehicle not in local cache")
	// ErrTransitionDenied is returned when the requested status transition
	// is not client-requestable. The request never reaches the network.
	ErrTransitionDenied = errors.New("status transition not requestable")
	// ErrOutsideServiceZone is returned when a delivery target falls outside
	// the service polygon. Retrying without changing the address is useless.
	ErrOutsideServiceZone = errors.New("delivery target outside service zone")
)

// BackendError is implemented by transport errors that carry the structured
// payload of the fleet authority.
type BackendError interface {
	error
	// ErrorCode returns the machine-readable code, empty when the backend
	// sent none.
	ErrorCode() string
	// Detail returns the free-text detail message.
	Detail() string
}

// Backend error codes from the reservation contract.
const (
	CodeInsufficientBalance = "insufficient_balance"
)

// balancePatterns is the legacy fallback for backends that still answer with
// free text only. The structured code is authoritative when present.
var balancePatterns = []string{
	"insufficient balance",
	"top up",
	"not enough funds",
}

// isBalanceError classifies a backend error into the "offer top-up" bucket.
func isBalanceError(err error) bool {
	var be BackendError
	if !errors.As(err, &be) {
		return false
	}
	if code := be.ErrorCode(); code != "" {
		return code == CodeInsufficientBalance
	}
	detail := strings.ToLower(be.Detail())
	for _, p := range balancePatterns {
		if strings.Contains(detail, p) {
			return true
		}
	}
	return false
}
