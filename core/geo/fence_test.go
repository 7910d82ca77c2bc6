package geo

import (
	"math"
	"testing"
)

func TestFenceAroundContainsCenter(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		radius   float64
	}{
		{"equator", 0, 0, 1},
		{"bangalore", 12.9716, 77.5946, 1},
		{"high latitude", 60.2, 24.9, 1},
		{"southern", -33.86, 151.2, 2},
		{"near limit", 84.9, 10, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			box := FenceAround(c.lat, c.lon, c.radius)
			if !box.Contains(c.lat, c.lon) {
				t.Fatalf("box %+v does not contain its center (%f, %f)", box, c.lat, c.lon)
			}
		})
	}
}

func TestFenceAroundSymmetry(t *testing.T) {
	lat, lon, radius := 12.9716, 77.5946, 1.0
	box := FenceAround(lat, lon, radius)

	wantDeltaLat := (radius / 6371) * (180 / math.Pi)
	wantDeltaLon := wantDeltaLat / math.Cos(lat*math.Pi/180)

	if got := box.MaxLat - lat; math.Abs(got-wantDeltaLat) > 1e-12 {
		t.Errorf("MaxLat delta = %g want %g", got, wantDeltaLat)
	}
	if got := lat - box.MinLat; math.Abs(got-wantDeltaLat) > 1e-12 {
		t.Errorf("MinLat delta = %g want %g", got, wantDeltaLat)
	}
	if got := box.MaxLon - lon; math.Abs(got-wantDeltaLon) > 1e-12 {
		t.Errorf("MaxLon delta = %g want %g", got, wantDeltaLon)
	}
	if got := lon - box.MinLon; math.Abs(got-wantDeltaLon) > 1e-12 {
		t.Errorf("MinLon delta = %g want %g", got, wantDeltaLon)
	}
}

func TestFenceAroundLonWidensWithLatitude(t *testing.T) {
	low := FenceAround(0, 0, 1)
	high := FenceAround(60, 0, 1)
	if high.MaxLon-high.MinLon <= low.MaxLon-low.MinLon {
		t.Error("longitude span should widen as latitude grows")
	}
	// Latitude span is latitude independent.
	if math.Abs((high.MaxLat-high.MinLat)-(low.MaxLat-low.MinLat)) > 1e-12 {
		t.Error("latitude span should not depend on latitude")
	}
}

func TestContainsEdges(t *testing.T) {
	box := BoundingBox{MinLat: 1, MaxLat: 2, MinLon: 3, MaxLon: 4}
	edges := [][2]float64{{1, 3}, {1, 4}, {2, 3}, {2, 4}, {1.5, 3.5}}
	for _, p := range edges {
		if !box.Contains(p[0], p[1]) {
			t.Errorf("edge point (%f, %f) should be inside", p[0], p[1])
		}
	}
	outside := [][2]float64{{0.999, 3.5}, {2.001, 3.5}, {1.5, 2.999}, {1.5, 4.001}}
	for _, p := range outside {
		if box.Contains(p[0], p[1]) {
			t.Errorf("point (%f, %f) should be outside", p[0], p[1])
		}
	}
}
