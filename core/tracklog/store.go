package tracklog

import (
	"context"
	"time"
)

// Point is one recorded vehicle coordinate.
type Point struct {
	VehicleID string    `json:"vehicle_id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Timestamp time.Time `json:"timestamp"`
}

// Query defines filters for retrieving points.
type Query struct {
	VehicleID string
	Start     time.Time
	End       time.Time
}

// Store is an append-only log of vehicle coordinates.
type Store interface {
	Append(ctx context.Context, p Point) error
	Query(ctx context.Context, q Query) ([]Point, error)
	Close() error
}
