package domain

import "encoding/json"

// FeatureCollection is the GeoJSON payload returned by the JSON info format.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature. Properties are kept as a generic map
// because every upstream publishes a different schema; normalizers probe the
// map with typed fallible lookups instead of assuming field names.
type Feature struct {
	Type       string         `json:"type,omitempty"`
	ID         any            `json:"id,omitempty"`
	Properties map[string]any `json:"properties"`
	Geometry   any            `json:"geometry,omitempty"`
}

// ResultKind discriminates the RawHazardResult variants.
type ResultKind int

const (
	// KindFeatures holds a parsed GeoJSON feature list (possibly empty —
	// an empty list means "no data here", which is not an error).
	KindFeatures ResultKind = iota
	// KindText holds an unparsed body from a text info format. This is a
	// valid outcome, not a failure; some sources only speak HTML or plain
	// text.
	KindText
	// KindError records an exhausted fallback cascade. Only the last
	// attempt's message is kept.
	KindError
)

// RawHazardResult is the tagged union produced by the fallback fetcher and
// consumed by exactly one normalizer.
type RawHazardResult struct {
	kind     ResultKind
	features []Feature
	text     string
	errMsg   string
}

// FeaturesResult wraps a parsed feature list.
func FeaturesResult(features []Feature) RawHazardResult {
	return RawHazardResult{kind: KindFeatures, features: features}
}

// TextResult wraps an unparsed response body.
func TextResult(text string) RawHazardResult {
	return RawHazardResult{kind: KindText, text: text}
}

// ErrorResult records the final failure of a cascade.
func ErrorResult(msg string) RawHazardResult {
	return RawHazardResult{kind: KindError, errMsg: msg}
}

func (r RawHazardResult) Kind() ResultKind     { return r.kind }
func (r RawHazardResult) Features() []Feature  { return r.features }
func (r RawHazardResult) Text() string         { return r.text }
func (r RawHazardResult) ErrorMessage() string { return r.errMsg }

// StripGeometry returns a copy with the geometry removed from every feature.
// This is a lossy, display-oriented transform for response-size reduction;
// normalizers must consume the original result, never the stripped copy.
func (r RawHazardResult) StripGeometry() RawHazardResult {
	if r.kind != KindFeatures {
		return r
	}
	stripped := make([]Feature, len(r.features))
	for i, f := range r.features {
		f.Geometry = nil
		stripped[i] = f
	}
	return RawHazardResult{kind: KindFeatures, features: stripped}
}

// MarshalJSON renders each variant in the shape the API has always exposed:
// a GeoJSON FeatureCollection, {"raw": text}, or {"error": message}.
func (r RawHazardResult) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindText:
		return json.Marshal(map[string]string{"raw": r.text})
	case KindError:
		return json.Marshal(map[string]string{"error": r.errMsg})
	default:
		features := r.features
		if features == nil {
			features = []Feature{}
		}
		return json.Marshal(FeatureCollection{Type: "FeatureCollection", Features: features})
	}
}
