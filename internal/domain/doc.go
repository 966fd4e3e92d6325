// Package domain models natural-hazard queries against the Spanish
// geospatial agencies' WMS services.
//
// # Upstream Services
//
// Five map services answer WMS 1.3.0 GetFeatureInfo requests, one per hazard
// family:
//
//	wildfire        MAPAMA fire-frequency layer (NZ.HazardArea, 2006–2015 series)
//	flood           IDEE inundation rasters, per return period:
//	                fluvial T10/T100/T500, coastal ("Marina") T100/T500
//	seismic         IGN seismic hazard polygons (HazardArea2002.NCSE-02)
//	desertification MAPAMA desertification index and INES laminar erosion
//
// Each request samples the center pixel (I=J=128) of a 256x256 window, so the
// bounding box must stay centered on the query point.
//
// # Axis Order
//
// WMS 1.3.0 follows the CRS's own axis definition. In practice:
//
//	CRS:84     lon,lat (degrees)
//	EPSG:4326  lat,lon (degrees) — reversed relative to CRS:84
//	EPSG:3857  x,y (meters, spherical Web-Mercator)
//
// Upstreams disagree on which they actually accept, and the wildfire service
// rejects some CRS/format combinations unpredictably. The fallback cascade in
// the assessor exists for exactly this reason; candidate order is the
// robustness mechanism, not an optimization.
//
// # Response Conventions
//
// JSON responses are GeoJSON FeatureCollections with agency-specific property
// schemas; alternate key spellings for the same field appear across service
// revisions, so normalizers probe an ordered key list instead of assuming a
// schema. Raster layers expose the sampled value as GRAY_INDEX, with the
// float32 lowest-finite value (-3.4028234663852886e38) as the no-data
// sentinel. Text formats (HTML/plain) return human-readable fragments; the
// desertification normalizer extracts the first numeric token from them as an
// explicitly best-effort path.
//
// # Risk Scales
//
// Thresholds are the upstream agencies' own classification constants, not
// tunables:
//
//	wildfire         fire count buckets 0 | 1–5 | 6–10 | 11–25 | 26–50 | 51–100 |
//	                 101–500 | 501–1000 | 1001–1511 | >1511
//	flood            GRAY_INDEX 0 = not flooded, sentinel/absent = no data,
//	                 anything else = flooded
//	seismic          PGA <0.04 low | <0.08 medium | ≥0.08 high
//	desertification  index ≤0 no risk | <50 low | <100 medium | ≥100 high
//
// Absence of data is a first-class value throughout: every scale has an
// explicit unknown/no-data member and empty results never read as zero risk.
package domain
