package reservation

import "time"

// Outcome is the settled classification of a reservation attempt.
type Outcome string

const (
	OutcomeReserved            Outcome = "reserved"
	OutcomeTransitionDenied    Outcome = "transition_denied"
	OutcomeGeofenceRejected    Outcome = "geofence_rejected"
	OutcomeInsufficientBalance Outcome = "insufficient_balance"
	OutcomeFailed              Outcome = "failed"
)

// UserAction is the single call-to-action surfaced to the actor. Exactly one
// action survives error classification.
type UserAction string

const (
	ActionNone UserAction = ""
	// ActionTopUp routes the actor toward balance replenishment.
	ActionTopUp UserAction = "top_up"
	// ActionRetry lets the actor resubmit the same request.
	ActionRetry UserAction = "retry"
	// ActionChangeAddress asks for a delivery target inside the zone.
	ActionChangeAddress UserAction = "change_address"
)

// Flow labels the reservation variant for journaling and metrics.
type Flow string

const (
	FlowStandard Flow = "standard"
	FlowDelivery Flow = "delivery"
	FlowOwner    Flow = "owner"
)

// Result is the settled state of a reservation attempt. The pending phase is
// observable on the event bus (Submitted is published before the network
// call); Result only ever describes a finished attempt.
type Result struct {
	RequestID string
	VehicleID int64
	Flow      Flow
	Outcome   Outcome
	Action    UserAction
	// RefreshRequired obliges the caller to re-fetch authoritative state; a
	// successful reservation never implies the local cache is now correct.
	RefreshRequired bool
	Err             error
	SubmittedAt     time.Time
	SettledAt       time.Time
}

// OK reports whether the attempt ended in a confirmed reservation.
func (r Result) OK() bool { return r.Outcome == OutcomeReserved }

// Submitted is published on the event bus the moment an attempt passes local
// validation, before the network result is known. Selection UI collaborators
// dismiss on it; displayed state may be stale until Settled follows.
type Submitted struct {
	RequestID string
	VehicleID int64
	Flow      Flow
	Time      time.Time
}

// Settled is published once the attempt has a Result.
type Settled struct {
	Result Result
	Time   time.Time
}
