package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CRS identifies a coordinate reference system as it appears in the WMS
// CRS request parameter.
type CRS string

const (
	// CRS84 is WGS-84 with lon,lat axis order.
	CRS84 CRS = "CRS:84"
	// EPSG4326 is WGS-84 with lat,lon axis order. WMS 1.3.0 honors the
	// EPSG axis definition here, which is the reverse of CRS:84 — the two
	// must never be conflated.
	EPSG4326 CRS = "EPSG:4326"
	// EPSG3857 is spherical Web-Mercator, meters, x,y axis order.
	EPSG3857 CRS = "EPSG:3857"
)

// earthRadius is the WGS-84 semi-major axis used by the spherical
// Web-Mercator projection.
const earthRadius = 6378137.0

// BoundingBox is a query window expressed in the axis order of its CRS.
// MinA/MaxA hold the first axis, MinB/MaxB the second.
type BoundingBox struct {
	MinA, MinB, MaxA, MaxB float64
	CRS                    CRS
}

// String renders the box as the comma-separated BBOX parameter value.
func (b BoundingBox) String() string {
	parts := []string{
		strconv.FormatFloat(b.MinA, 'f', -1, 64),
		strconv.FormatFloat(b.MinB, 'f', -1, 64),
		strconv.FormatFloat(b.MaxA, 'f', -1, 64),
		strconv.FormatFloat(b.MaxB, 'f', -1, 64),
	}
	return strings.Join(parts, ",")
}

// ComputeBBox returns a square window of ±halfWindow around the point in the
// axis order the given CRS requires. halfWindow is in degrees for CRS:84 and
// EPSG:4326 and in meters for EPSG:3857. The window must stay centered on the
// point: the GetFeatureInfo sample pixel is the image center, so an off-center
// box would sample the wrong location.
func ComputeBBox(p Point, halfWindow float64, crs CRS) (BoundingBox, error) {
	switch crs {
	case CRS84:
		return BoundingBox{
			MinA: p.Lon - halfWindow, MinB: p.Lat - halfWindow,
			MaxA: p.Lon + halfWindow, MaxB: p.Lat + halfWindow,
			CRS: crs,
		}, nil
	case EPSG4326:
		return BoundingBox{
			MinA: p.Lat - halfWindow, MinB: p.Lon - halfWindow,
			MaxA: p.Lat + halfWindow, MaxB: p.Lon + halfWindow,
			CRS: crs,
		}, nil
	case EPSG3857:
		x, y := webMercator(p)
		return BoundingBox{
			MinA: x - halfWindow, MinB: y - halfWindow,
			MaxA: x + halfWindow, MaxB: y + halfWindow,
			CRS: crs,
		}, nil
	default:
		return BoundingBox{}, fmt.Errorf("unsupported CRS %q", crs)
	}
}

// webMercator applies the spherical Web-Mercator forward transform.
func webMercator(p Point) (x, y float64) {
	x = p.Lon * math.Pi / 180 * earthRadius
	y = earthRadius * math.Log(math.Tan(math.Pi/4+p.Lat*math.Pi/360))
	return x, y
}
