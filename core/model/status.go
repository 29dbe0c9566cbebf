package model

// Status is the lifecycle state of a vehicle as reported by the fleet
// authority. The client never asserts a status locally; it requests
// transitions and observes the authoritative result.
type Status string

const (
	StatusFree       Status = "free"
	StatusReserved   Status = "reserved"
	StatusInUse      Status = "inUse"
	StatusDelivering Status = "delivering"
	StatusTracking   Status = "tracking"
	// StatusPending marks a vehicle awaiting post-rental inspection.
	StatusPending Status = "pending"
	// StatusService marks a vehicle taken out of service.
	StatusService Status = "service"
	StatusFailure Status = "failure"
	// StatusOwner marks a vehicle held by its owner and not rentable by others.
	StatusOwner Status = "owner"
	// StatusUnknown is returned for wire values the client does not
	// recognize. Callers must log it rather than default silently.
	StatusUnknown Status = "unknown"
)

var knownStatuses = map[Status]struct{}{
	StatusFree:       {},
	StatusReserved:   {},
	StatusInUse:      {},
	StatusDelivering: {},
	StatusTracking:   {},
	StatusPending:    {},
	StatusService:    {},
	StatusFailure:    {},
	StatusOwner:      {},
}

// ParseStatus maps a wire value to a Status. Unrecognized values yield
// StatusUnknown and false so the caller can surface them to logs.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if _, ok := knownStatuses[st]; ok {
		return st, true
	}
	return StatusUnknown, false
}

func (s Status) String() string { return string(s) }

// requestableTransitions lists the transitions the client may request from
// the fleet authority. A vehicle in owner status stays open to the normal
// reservation flows, and an owner hold starts from free as well as owner.
// Everything else is server-driven and read-only here: reserved/delivering
// -> inUse on pickup, inUse -> pending on drop-off, and pending ->
// free/service/failure after inspection.
var requestableTransitions = map[Status][]Status{
	StatusFree:  {StatusReserved, StatusDelivering, StatusInUse},
	StatusOwner: {StatusReserved, StatusDelivering, StatusInUse},
}

// CanRequest reports whether the client is allowed to ask the authority for
// the given transition. A false result must short-circuit before any network
// call.
func CanRequest(from, to Status) bool {
	for _, t := range requestableTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowsNewReservation reports whether a vehicle in this status may enter a
// new reservation flow.
func (s Status) AllowsNewReservation() bool {
	return s == StatusFree || s == StatusOwner
}

// AllowsOwnerHold reports whether the vehicle's owner may take it for an
// open-ended rental.
func (s Status) AllowsOwnerHold() bool {
	return s == StatusFree || s == StatusOwner
}

// Occupied reports whether the vehicle currently has an active renter.
func (s Status) Occupied() bool {
	switch s {
	case StatusInUse, StatusDelivering, StatusTracking:
		return true
	default:
		return false
	}
}
