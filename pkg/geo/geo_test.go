package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMilesToMeters(t *testing.T) {
	assert.InDelta(t, 16093.44, MilesToMeters(10), 0.001)
	assert.Equal(t, 0.0, MilesToMeters(0))
}

func TestMetersToRadians(t *testing.T) {
	assert.InDelta(t, 1.0, MetersToRadians(EarthRadiusMeters), 1e-12)
}

func TestHaversine(t *testing.T) {
	// Same point.
	assert.Equal(t, 0.0, Haversine(51.5, -0.12, 51.5, -0.12))

	// 0.01 degrees of latitude on the equator.
	d := Haversine(0, 0, 0.01, 0)
	assert.InDelta(t, 1113.2, d, 1)

	// Symmetric in its arguments.
	assert.InDelta(t, Haversine(40.7, -74.0, 48.85, 2.35), Haversine(48.85, 2.35, 40.7, -74.0), 1e-6)

	// A quarter of the circumference pole to pole.
	quarter := Haversine(0, 0, 90, 0)
	assert.InDelta(t, EarthRadiusMeters*3.14159265/2, quarter, 100)
}

func TestBoxAround(t *testing.T) {
	box := BoxAround(0, 0, 10000)

	assert.InDelta(t, -box.MinLat, box.MaxLat, 1e-12)
	assert.InDelta(t, -box.MinLng, box.MaxLng, 1e-12)

	// On the equator a degree of longitude equals a degree of latitude.
	assert.InDelta(t, box.MaxLat, box.MaxLng, 1e-9)

	// The box must contain every point of the circle.
	edge := Haversine(0, 0, box.MaxLat, 0)
	assert.GreaterOrEqual(t, edge, 10000.0)
}

func TestBoxAround_HighLatitude(t *testing.T) {
	box := BoxAround(60, 10, 10000)

	latSpan := box.MaxLat - box.MinLat
	lngSpan := box.MaxLng - box.MinLng

	// Longitude degrees shrink with latitude, so the box widens.
	assert.Greater(t, lngSpan, latSpan)
}

func TestBoxAround_PoleClamp(t *testing.T) {
	box := BoxAround(90, 0, 1000)

	assert.Equal(t, -180.0, box.MinLng)
	assert.Equal(t, 180.0, box.MaxLng)
}
