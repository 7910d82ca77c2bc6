package fleet

import (
	"encoding/json"
	"net/http"
)

// Snapshotter exposes the active route set.
type Snapshotter interface {
	FleetSnapshot() []string
	ClearFleet()
}

// NewSnapshotHandler returns an HTTP handler exposing the active fleet
// via GET /api/fleet.
func NewSnapshotHandler(engine Snapshotter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		routes := engine.FleetSnapshot()
		if routes == nil {
			routes = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"active_routes": routes}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// NewResetHandler returns an HTTP handler clearing the active fleet via
// POST /api/fleet/reset.
func NewResetHandler(engine Snapshotter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		engine.ClearFleet()
		w.WriteHeader(http.StatusNoContent)
	})
}
