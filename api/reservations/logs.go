package reservations

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/azvmotors/fleetcore/core/reservation"
)

// NewLogHandler returns an HTTP handler exposing the reservation journal via
// GET /api/reservations/logs. Requests must include an Authorization header
// with "Bearer <token>" when token is non-empty.
func NewLogHandler(journal reservation.Journal, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := reservation.JournalQuery{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		if s := r.URL.Query().Get("vehicle_id"); s != "" {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				q.VehicleID = id
			}
		}
		if s := r.URL.Query().Get("outcome"); s != "" {
			q.Outcome = reservation.Outcome(s)
		}
		records, err := journal.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
