package events

import (
	"time"

	"github.com/busradar/busradar/core/model"
)

// UpdateEvent is published when a vehicle update passes validation.
type UpdateEvent struct {
	Update model.VehicleUpdate
}

// DeliveryEvent is published for each push delivery attempt.
type DeliveryEvent struct {
	SubscriberID string
	RouteKey     string
	Kind         model.EventKind
	Delivered    bool
	Err          error
	Latency      time.Duration
}

// RosterEvent is published after a roster replace or reset.
// Action is "replace" or "reset".
type RosterEvent struct {
	Action      string
	Subscribers int
}
