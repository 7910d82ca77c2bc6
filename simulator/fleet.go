package main

import (
	"fmt"
	"math/rand"
	"time"
)

var fleetRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// FleetConfig holds parameters for bulk fleet generation.
type FleetConfig struct {
	Size      int
	OriginLat float64
	OriginLon float64
	// SpreadKM bounds how far generated routes wander from the origin.
	SpreadKM float64
	Interval time.Duration
	SpeedKMH float64
	Broker   string
}

// GenerateFleet creates Size vehicles with route keys "1".."N", each on
// a random rectangular loop around the origin.
func GenerateFleet(cfg FleetConfig) []*SimulatedVehicle {
	if cfg.Size <= 0 {
		return nil
	}
	if cfg.SpreadKM <= 0 {
		cfg.SpreadKM = 3
	}
	vs := make([]*SimulatedVehicle, cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		id := fmt.Sprintf("%d", i+1)
		vs[i] = NewSimulatedVehicle(id, cfg.Broker, randomLoop(cfg), cfg.Interval, cfg.SpeedKMH)
	}
	return vs
}

// randomLoop builds a four-corner loop offset from the origin.
func randomLoop(cfg FleetConfig) []Waypoint {
	degPerKM := 1.0 / 111.0
	span := cfg.SpreadKM * degPerKM
	baseLat := cfg.OriginLat + (fleetRng.Float64()-0.5)*span
	baseLon := cfg.OriginLon + (fleetRng.Float64()-0.5)*span
	side := (0.2 + fleetRng.Float64()*0.8) * span
	return []Waypoint{
		{Lat: baseLat, Lon: baseLon},
		{Lat: baseLat + side, Lon: baseLon},
		{Lat: baseLat + side, Lon: baseLon + side},
		{Lat: baseLat, Lon: baseLon + side},
	}
}
