package vehicles

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/azvmotors/fleetcore/core/fleetstate"
	"github.com/azvmotors/fleetcore/core/model"
)

// NewFleetHandler returns an HTTP handler exposing the cached fleet snapshot
// via GET /api/vehicles. The cache is read-only here; the fleet authority
// remains the source of truth.
func NewFleetHandler(store fleetstate.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		f := fleetstate.Filter{}
		if s := r.URL.Query().Get("status"); s != "" {
			st, ok := model.ParseStatus(s)
			if !ok {
				http.Error(w, "unknown status "+s, http.StatusBadRequest)
				return
			}
			f.Status = st
		}
		if s := r.URL.Query().Get("engine"); s != "" {
			switch model.EngineKind(s) {
			case model.EngineCombustion, model.EngineElectric:
				f.Engine = model.EngineKind(s)
			default:
				http.Error(w, "unknown engine kind "+s, http.StatusBadRequest)
				return
			}
		}
		if s := r.URL.Query().Get("owner_id"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				http.Error(w, "invalid owner_id", http.StatusBadRequest)
				return
			}
			f.OwnerID = id
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(store.List(f)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
