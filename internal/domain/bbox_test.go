package domain_test

import (
	"math"
	"testing"

	"github.com/odo48-debug/riesgos/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint_Bounds(t *testing.T) {
	p, err := domain.NewPoint(40.4168, -3.7038)
	require.NoError(t, err)
	assert.Equal(t, 40.4168, p.Lat)
	assert.Equal(t, -3.7038, p.Lon)

	_, err = domain.NewPoint(90.0001, 0)
	assert.Error(t, err)
	_, err = domain.NewPoint(-90.0001, 0)
	assert.Error(t, err)
	_, err = domain.NewPoint(0, 180.5)
	assert.Error(t, err)
	_, err = domain.NewPoint(0, -181)
	assert.Error(t, err)

	// Inclusive boundaries.
	_, err = domain.NewPoint(90, 180)
	assert.NoError(t, err)
	_, err = domain.NewPoint(-90, -180)
	assert.NoError(t, err)
}

// CRS:84 and EPSG:4326 boxes for the same point and window must be axis
// reflections of each other: swapping the coordinate pairs of one yields the
// other.
func TestComputeBBox_AxisOrderReflection(t *testing.T) {
	points := []domain.Point{
		{Lat: 40.4168, Lon: -3.7038},
		{Lat: -33.45, Lon: -70.66},
		{Lat: 0, Lon: 0},
		{Lat: 63.1, Lon: 21.6},
	}

	for _, p := range points {
		crs84, err := domain.ComputeBBox(p, 0.02, domain.CRS84)
		require.NoError(t, err)
		epsg, err := domain.ComputeBBox(p, 0.02, domain.EPSG4326)
		require.NoError(t, err)

		assert.Equal(t, crs84.MinA, epsg.MinB, "lon min")
		assert.Equal(t, crs84.MinB, epsg.MinA, "lat min")
		assert.Equal(t, crs84.MaxA, epsg.MaxB, "lon max")
		assert.Equal(t, crs84.MaxB, epsg.MaxA, "lat max")
	}
}

func TestComputeBBox_WebMercatorOrigin(t *testing.T) {
	bbox, err := domain.ComputeBBox(domain.Point{Lat: 0, Lon: 0}, 15000, domain.EPSG3857)
	require.NoError(t, err)

	// Projection origin: the box center must be (0, 0).
	assert.InDelta(t, 0, (bbox.MinA+bbox.MaxA)/2, 1e-9)
	assert.InDelta(t, 0, (bbox.MinB+bbox.MaxB)/2, 1e-9)
	assert.InDelta(t, -15000, bbox.MinA, 1e-9)
	assert.InDelta(t, 15000, bbox.MaxB, 1e-9)
}

func TestComputeBBox_WebMercatorClosedForm(t *testing.T) {
	// Known spherical-Mercator values for lat=45, lon=90.
	const (
		wantX = 10018754.171394622
		wantY = 5621521.486192335
	)

	bbox, err := domain.ComputeBBox(domain.Point{Lat: 45, Lon: 90}, 0, domain.EPSG3857)
	require.NoError(t, err)

	assert.InDelta(t, wantX, bbox.MinA, 1e-6)
	assert.InDelta(t, wantY, bbox.MinB, 1e-6)
	assert.InDelta(t, wantX, bbox.MaxA, 1e-6)
	assert.InDelta(t, wantY, bbox.MaxB, 1e-6)
}

func TestComputeBBox_WindowIsSymmetric(t *testing.T) {
	p := domain.Point{Lat: 41.65, Lon: -0.88}
	bbox, err := domain.ComputeBBox(p, 0.05, domain.CRS84)
	require.NoError(t, err)

	assert.InDelta(t, p.Lon, (bbox.MinA+bbox.MaxA)/2, 1e-12)
	assert.InDelta(t, p.Lat, (bbox.MinB+bbox.MaxB)/2, 1e-12)
	assert.InDelta(t, 0.1, bbox.MaxA-bbox.MinA, 1e-12)
}

func TestComputeBBox_UnsupportedCRS(t *testing.T) {
	_, err := domain.ComputeBBox(domain.Point{}, 0.02, domain.CRS("EPSG:25830"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EPSG:25830")
}

func TestBoundingBox_String(t *testing.T) {
	bbox, err := domain.ComputeBBox(domain.Point{Lat: 0, Lon: 0}, 0.02, domain.CRS84)
	require.NoError(t, err)
	assert.Equal(t, "-0.02,-0.02,0.02,0.02", bbox.String())
}

func TestComputeBBox_MercatorMonotonicInLat(t *testing.T) {
	low, err := domain.ComputeBBox(domain.Point{Lat: 10, Lon: 0}, 0, domain.EPSG3857)
	require.NoError(t, err)
	high, err := domain.ComputeBBox(domain.Point{Lat: 60, Lon: 0}, 0, domain.EPSG3857)
	require.NoError(t, err)

	assert.True(t, high.MinB > low.MinB, "projected y must grow with latitude")
	assert.False(t, math.IsInf(high.MinB, 0))
}
