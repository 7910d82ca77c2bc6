package model

import (
	"errors"
	"fmt"
)

// EventKind defines the kind of inbound vehicle update.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventStarted
	EventStopped
	EventLocation
)

// String returns the wire representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventLocation:
		return "new_loc"
	default:
		return "unknown"
	}
}

// ParseEventKind maps a wire value to an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	switch s {
	case "started":
		return EventStarted, true
	case "stopped":
		return EventStopped, true
	case "new_loc":
		return EventLocation, true
	default:
		return EventUnknown, false
	}
}

// ErrInvalidUpdate marks updates rejected before any state is touched.
var ErrInvalidUpdate = errors.New("invalid vehicle update")

// VehicleUpdate is one inbound lifecycle or location event for a vehicle.
// VehicleID doubles as the route identifier the subscribers wait on.
type VehicleUpdate struct {
	VehicleID string
	Kind      EventKind
	Lat       float64
	Lon       float64
}

// Validate rejects updates that must never enter the critical section.
func (u VehicleUpdate) Validate() error {
	if u.VehicleID == "" {
		return fmt.Errorf("%w: missing vehicle id", ErrInvalidUpdate)
	}
	switch u.Kind {
	case EventStarted, EventStopped:
		return nil
	case EventLocation:
		if u.Lat < -90 || u.Lat > 90 {
			return fmt.Errorf("%w: latitude %f out of range", ErrInvalidUpdate, u.Lat)
		}
		if u.Lon < -180 || u.Lon > 180 {
			return fmt.Errorf("%w: longitude %f out of range", ErrInvalidUpdate, u.Lon)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown event kind", ErrInvalidUpdate)
	}
}

// RouteKey returns the normalized route key for the vehicle.
func (u VehicleUpdate) RouteKey() string {
	return NormalizeRouteKey(u.VehicleID)
}
