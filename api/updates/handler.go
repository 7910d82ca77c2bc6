package updates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/busradar/busradar/core/logger"
	"github.com/busradar/busradar/core/model"
	"github.com/busradar/busradar/core/notify"
)

// Handler processes one validated vehicle update.
type Handler interface {
	HandleUpdate(ctx context.Context, u model.VehicleUpdate) (notify.Outcome, error)
}

// updateRequest is the inbound wire format. Lat and Lon are pointers so
// a location report with missing coordinates is distinguishable from
// one at (0, 0).
type updateRequest struct {
	VehicleID string   `json:"vehicle_id" validate:"required"`
	Event     string   `json:"event" validate:"required,oneof=started stopped new_loc"`
	Lat       *float64 `json:"lat" validate:"required_if=Event new_loc,omitempty,gte=-90,lte=90"`
	Lon       *float64 `json:"lon" validate:"required_if=Event new_loc,omitempty,gte=-180,lte=180"`
}

type updateResponse struct {
	VehicleID string `json:"vehicle_id"`
	Event     string `json:"event"`
	Success   int    `json:"success"`
	Fail      int    `json:"fail"`
}

// NewUpdateHandler returns an HTTP handler accepting vehicle updates via
// POST /api/vehicles/update. Malformed updates are rejected with 400
// before any state is touched.
func NewUpdateHandler(engine Handler, log logger.Logger) http.Handler {
	validate := validator.New()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		kind, _ := model.ParseEventKind(req.Event)
		u := model.VehicleUpdate{VehicleID: req.VehicleID, Kind: kind}
		if kind == model.EventLocation {
			u.Lat, u.Lon = *req.Lat, *req.Lon
		}

		out, err := engine.HandleUpdate(r.Context(), u)
		if err != nil {
			if errors.Is(err, model.ErrInvalidUpdate) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			log.Errorf("handle update for %s: %v", u.VehicleID, err)
			writeError(w, http.StatusInternalServerError, "update failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(updateResponse{
			VehicleID: u.VehicleID,
			Event:     u.Kind.String(),
			Success:   out.Success,
			Fail:      out.Fail,
		}); err != nil {
			log.Errorf("encode response: %v", err)
		}
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
