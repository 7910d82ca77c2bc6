package tracks

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/busradar/busradar/core/tracklog"
)

// NewTrackHandler returns an HTTP handler exposing recorded vehicle
// coordinates via GET /api/tracks?vehicle_id=...&start=...&end=...
// with RFC 3339 time bounds.
func NewTrackHandler(store tracklog.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := tracklog.Query{VehicleID: r.URL.Query().Get("vehicle_id")}
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
		points, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if points == nil {
			points = []tracklog.Point{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(points); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
