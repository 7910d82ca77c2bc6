package roster

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/busradar/busradar/core/logger"
	"github.com/busradar/busradar/core/model"
)

// Loader fetches the full roster from the external directory.
type Loader interface {
	Load(ctx context.Context) ([]model.Subscriber, error)
}

// Refresher swaps the active roster.
type Refresher interface {
	RefreshRoster(ctx context.Context, subs []model.Subscriber) error
}

// NewRefreshHandler returns an HTTP handler reloading the roster via
// POST /api/roster/refresh. The whole roster is replaced; per-cycle
// notified flags are re-armed by construction.
func NewRefreshHandler(loader Loader, engine Refresher, log logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		subs, err := loader.Load(r.Context())
		if err != nil {
			log.Errorf("roster load: %v", err)
			http.Error(w, "roster load failed", http.StatusBadGateway)
			return
		}
		if err := engine.RefreshRoster(r.Context(), subs); err != nil {
			log.Errorf("roster refresh: %v", err)
			http.Error(w, "roster refresh failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]int{"subscribers": len(subs)}); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}
