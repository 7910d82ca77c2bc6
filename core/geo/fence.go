package geo

import "math"

const earthRadiusKM = 6371

// BoundingBox is an axis-aligned box in degrees. All bounds are inclusive.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// FenceAround computes the bounding box of a circle of radiusKM around
// the center using the equirectangular approximation on a spherical
// Earth. The approximation holds for short radii away from the poles;
// callers must not pass |lat| close to 90° where cos(lat) vanishes.
func FenceAround(lat, lon, radiusKM float64) BoundingBox {
	deltaLat := (radiusKM / earthRadiusKM) * (180 / math.Pi)
	deltaLon := deltaLat / math.Cos(lat*math.Pi/180)
	return BoundingBox{
		MinLat: lat - deltaLat,
		MaxLat: lat + deltaLat,
		MinLon: lon - deltaLon,
		MaxLon: lon + deltaLon,
	}
}
