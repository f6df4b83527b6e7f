// Package geo provides great-circle distance and geofence checks.
package geo

import (
	"math"

	"github.com/Mukul-Bhagat/AttendanceMark-sub002/internal/domain/models"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Distance returns the haversine distance in metres between a and b.
func Distance(a, b models.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Within reports whether p lies inside the fence and returns the distance
// to its center.
func Within(fence models.PhysicalLocation, p models.GeoPoint) (bool, float64) {
	dist := Distance(fence.Center, p)
	return dist <= fence.RadiusMeters, dist
}

// ValidPoint reports whether p is a plausible WGS84 coordinate.
func ValidPoint(p models.GeoPoint) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
