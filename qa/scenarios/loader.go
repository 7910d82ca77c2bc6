package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/busradar/busradar/core/model"
)

type SubscriberDef struct {
	ID       string  `yaml:"id"`
	Endpoint string  `yaml:"endpoint"`
	RouteKey string  `yaml:"route_key"`
	Lat      float64 `yaml:"lat"`
	Lon      float64 `yaml:"lon"`
	NoPos    bool    `yaml:"no_pos,omitempty"`
}

func (s SubscriberDef) ToModel() model.Subscriber {
	sub := model.Subscriber{
		ID:       s.ID,
		RouteKey: model.NormalizeRouteKey(s.RouteKey),
	}
	sub.Subscription.Endpoint = s.Endpoint
	if !s.NoPos {
		sub.Lat, sub.Lon, sub.HasPosition = s.Lat, s.Lon, true
	}
	return sub
}

type UpdateDef struct {
	VehicleID string  `yaml:"vehicle_id"`
	Event     string  `yaml:"event"`
	Lat       float64 `yaml:"lat,omitempty"`
	Lon       float64 `yaml:"lon,omitempty"`
}

func (u UpdateDef) ToModel() (model.VehicleUpdate, error) {
	kind, ok := model.ParseEventKind(u.Event)
	if !ok {
		return model.VehicleUpdate{}, fmt.Errorf("%w: unknown event %q", model.ErrInvalidUpdate, u.Event)
	}
	return model.VehicleUpdate{VehicleID: u.VehicleID, Kind: kind, Lat: u.Lat, Lon: u.Lon}, nil
}

type Expected struct {
	// Delivered counts total push deliveries across the whole scenario.
	Delivered int `yaml:"delivered"`
	// ActiveRoutes is the fleet snapshot size at the end.
	ActiveRoutes int `yaml:"active_routes"`
}

type Scenario struct {
	Name          string          `yaml:"name"`
	Description   string          `yaml:"description,omitempty"`
	RadiusKM      float64         `yaml:"radius_km,omitempty"`
	Subscribers   []SubscriberDef `yaml:"subscribers"`
	Updates       []UpdateDef     `yaml:"updates"`
	FailEndpoints []string        `yaml:"fail_endpoints,omitempty"`
	Expected      Expected        `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
