// Package geo holds the spherical-geometry helpers used by the discovery
// queries: unit conversions, distance, and bounding boxes for index-friendly
// prefiltering.
package geo

import "math"

const (
	// MetersPerMile converts the stored distance preference (miles) to meters.
	MetersPerMile = 1609.344

	// EarthRadiusMeters is the equatorial radius used for radian conversion.
	EarthRadiusMeters = 6378137.0
)

// MilesToMeters converts a distance preference to meters.
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

// MetersToRadians converts a distance on the sphere's surface to the central
// angle it subtends.
func MetersToRadians(meters float64) float64 {
	return meters / EarthRadiusMeters
}

// Haversine returns the great-circle distance in meters between two points
// given as (latitude, longitude) degree pairs.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox returns the degree bounds of a square that fully contains the
// circle of the given radius around (lat, lng). Used as a cheap SQL
// prefilter before the exact Haversine cut.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoxAround computes the bounding box for a radius in meters.
func BoxAround(lat, lng, radiusMeters float64) BoundingBox {
	dLat := MetersToRadians(radiusMeters) * 180 / math.Pi

	// Longitude degrees shrink with latitude. Clamp near the poles where
	// the circle spans all longitudes.
	cosLat := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = dLat / cosLat
		if dLng > 180 {
			dLng = 180
		}
	}

	return BoundingBox{
		MinLat: lat - dLat,
		MaxLat: lat + dLat,
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}
