package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// SimulatedVehicle connects to MQTT and walks its route, publishing a
// started event, periodic location reports and a stopped event.
type SimulatedVehicle struct {
	ID       string
	Broker   string
	Route    []Waypoint
	Interval time.Duration
	SpeedKMH float64

	client paho.Client
	pos    Waypoint
	leg    int
}

// Waypoint is one corner of a simulated route.
type Waypoint struct {
	Lat float64
	Lon float64
}

type updateMessage struct {
	VehicleID string   `json:"vehicle_id"`
	Event     string   `json:"event"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// NewSimulatedVehicle creates a new vehicle at the first waypoint.
func NewSimulatedVehicle(id, broker string, route []Waypoint, interval time.Duration, speedKMH float64) *SimulatedVehicle {
	v := &SimulatedVehicle{ID: id, Broker: broker, Route: route, Interval: interval, SpeedKMH: speedKMH}
	if len(route) > 0 {
		v.pos = route[0]
	}
	return v
}

// Run connects to the broker and drives the route until ctx is done.
func (v *SimulatedVehicle) Run(ctx context.Context) error {
	cli, err := newMQTTClient(v.Broker, "sim-"+v.ID)
	if err != nil {
		return err
	}
	v.client = cli
	defer cli.Disconnect(250)

	v.publish(updateMessage{VehicleID: v.ID, Event: "started"})
	ticker := time.NewTicker(v.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			v.publish(updateMessage{VehicleID: v.ID, Event: "stopped"})
			return nil
		case <-ticker.C:
			v.advance()
			lat, lon := v.pos.Lat, v.pos.Lon
			v.publish(updateMessage{VehicleID: v.ID, Event: "new_loc", Lat: &lat, Lon: &lon})
		}
	}
}

// advance moves the vehicle one tick along its route, looping back to
// the start when the last waypoint is reached.
func (v *SimulatedVehicle) advance() {
	if len(v.Route) < 2 {
		return
	}
	stepKM := v.SpeedKMH / 3600 * v.Interval.Seconds()
	target := v.Route[(v.leg+1)%len(v.Route)]
	dLat := target.Lat - v.pos.Lat
	dLon := target.Lon - v.pos.Lon
	// Rough km-per-degree conversion, good enough for a simulator.
	distKM := math.Hypot(dLat*111, dLon*111*math.Cos(v.pos.Lat*math.Pi/180))
	if distKM <= stepKM {
		v.pos = target
		v.leg = (v.leg + 1) % len(v.Route)
		return
	}
	frac := stepKM / distKM
	v.pos.Lat += dLat * frac
	v.pos.Lon += dLon * frac
}

func (v *SimulatedVehicle) publish(m updateMessage) {
	payload, err := json.Marshal(m)
	if err != nil {
		log.Printf("%s: marshal update: %v", v.ID, err)
		return
	}
	topic := fmt.Sprintf("fleet/vehicle/%s/update", v.ID)
	if token := v.client.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("%s: publish %s: %v", v.ID, m.Event, token.Error())
	}
}
