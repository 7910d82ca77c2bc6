package main

import "time"

// Config holds parameters for the simulator.
type Config struct {
	Broker    string
	Count     int
	Interval  time.Duration
	OriginLat float64
	OriginLon float64
	SpeedKMH  float64
	Verbose   bool
}
