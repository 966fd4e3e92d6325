package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// WildfireRisk classifies historic wildfire frequency.
type WildfireRisk string

const (
	WildfireNone        WildfireRisk = "none"
	WildfireVeryLow     WildfireRisk = "very-low"
	WildfireLow         WildfireRisk = "low"
	WildfireMedium      WildfireRisk = "medium"
	WildfireMediumHigh  WildfireRisk = "medium-high"
	WildfireHigh        WildfireRisk = "high"
	WildfireVeryHigh    WildfireRisk = "very-high"
	WildfireExtreme     WildfireRisk = "extreme"
	WildfireExtremePlus WildfireRisk = "extreme-plus"
	WildfireMaximum     WildfireRisk = "maximum"
	WildfireUnknown     WildfireRisk = "unknown"
)

// FloodRisk classifies the inundation raster sample.
type FloodRisk string

const (
	FloodFlooded    FloodRisk = "flooded"
	FloodNotFlooded FloodRisk = "not-flooded"
	FloodNoData     FloodRisk = "no-data"
)

// SeismicRisk classifies peak ground acceleration.
type SeismicRisk string

const (
	SeismicLow     SeismicRisk = "low"
	SeismicMedium  SeismicRisk = "medium"
	SeismicHigh    SeismicRisk = "high"
	SeismicUnknown SeismicRisk = "unknown"
)

// SeismicSummary carries the level together with the PGA value it was
// derived from, when one was present.
type SeismicSummary struct {
	Level SeismicRisk `json:"level"`
	PGA   *float64    `json:"pga,omitempty"`
}

// DesertificationRisk classifies the erosion/desertification index.
type DesertificationRisk string

const (
	DesertificationNoRisk DesertificationRisk = "no-risk"
	DesertificationLow    DesertificationRisk = "low"
	DesertificationMedium DesertificationRisk = "medium"
	DesertificationHigh   DesertificationRisk = "high"
	DesertificationNoData DesertificationRisk = "no-data"
)

// Alternate property spellings observed across upstream revisions, probed in
// priority order.
var (
	wildfireFrequencyKeys = []string{"FRECUENCIA", "frecuencia", "Frecuencia", "NUM_INCENDIOS", "num_incendios"}
	seismicPGAKeys        = []string{"PGA", "pga", "ACELERACION", "aceleracion"}
	grayIndexKeys         = []string{"GRAY_INDEX"}
)

// grayNoData is the float32 lowest-finite sentinel the flood rasters emit
// where no measurement exists.
const grayNoData = -3.4028234663852886e38

// numericTokenRe extracts the first numeric token from an unstructured info
// response. Best effort only; some format variants return a human-readable
// fragment instead of structured properties.
var numericTokenRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// NormalizeWildfire buckets the fire-frequency property of the first feature
// into the ten-level scale used by the upstream agency. Errors, empty feature
// lists, and absent or unparseable frequency fields all map to unknown —
// absence of data is never reported as zero risk.
func NormalizeWildfire(raw RawHazardResult) WildfireRisk {
	props, ok := firstFeatureProperties(raw)
	if !ok {
		return WildfireUnknown
	}
	v, ok := probeNumeric(props, wildfireFrequencyKeys)
	if !ok {
		return WildfireUnknown
	}
	freq := int(math.Round(v))
	switch {
	case freq <= 0:
		return WildfireNone
	case freq <= 5:
		return WildfireVeryLow
	case freq <= 10:
		return WildfireLow
	case freq <= 25:
		return WildfireMedium
	case freq <= 50:
		return WildfireMediumHigh
	case freq <= 100:
		return WildfireHigh
	case freq <= 500:
		return WildfireVeryHigh
	case freq <= 1000:
		return WildfireExtreme
	case freq <= 1511:
		return WildfireExtremePlus
	default:
		return WildfireMaximum
	}
}

// NormalizeFlood reads the GRAY_INDEX raster sample. Zero means measured dry;
// the float32 no-data sentinel, an absent field, an empty feature list, a
// text body, and an exhausted cascade all mean no-data; anything else means
// the point falls inside the inundation envelope.
func NormalizeFlood(raw RawHazardResult) FloodRisk {
	props, ok := firstFeatureProperties(raw)
	if !ok {
		return FloodNoData
	}
	v, ok := probeNumeric(props, grayIndexKeys)
	if !ok {
		return FloodNoData
	}
	switch {
	case v == 0:
		return FloodNotFlooded
	case isGrayNoData(v):
		return FloodNoData
	default:
		return FloodFlooded
	}
}

func isGrayNoData(v float64) bool {
	return math.Abs(v-grayNoData) <= 1e-6*math.Abs(grayNoData)
}

// NormalizeSeismic maps peak ground acceleration to the NCSE-02 three-level
// scale: pga < 0.04 low, 0.04 ≤ pga < 0.08 medium, pga ≥ 0.08 high.
func NormalizeSeismic(raw RawHazardResult) SeismicSummary {
	props, ok := firstFeatureProperties(raw)
	if !ok {
		return SeismicSummary{Level: SeismicUnknown}
	}
	v, ok := probeNumeric(props, seismicPGAKeys)
	if !ok {
		return SeismicSummary{Level: SeismicUnknown}
	}
	level := SeismicHigh
	switch {
	case v < 0.04:
		level = SeismicLow
	case v < 0.08:
		level = SeismicMedium
	}
	return SeismicSummary{Level: level, PGA: &v}
}

// NormalizeDesertification classifies the erosion index. Structured
// responses read GRAY_INDEX from the first feature; text responses fall back
// to the first numeric token in the body. The two paths stay separate because
// their failure semantics differ: the structured path reports typed absence,
// the text path reports a pattern miss — both map to no-data.
func NormalizeDesertification(raw RawHazardResult) DesertificationRisk {
	switch raw.Kind() {
	case KindError:
		return DesertificationNoData
	case KindText:
		v, ok := firstNumericToken(raw.Text())
		if !ok {
			return DesertificationNoData
		}
		return classifyDesertification(v)
	default:
		props, ok := firstFeatureProperties(raw)
		if !ok {
			return DesertificationNoData
		}
		v, ok := probeNumeric(props, grayIndexKeys)
		if !ok {
			return DesertificationNoData
		}
		return classifyDesertification(v)
	}
}

// classifyDesertification applies the agency's index scale. A present
// non-positive value is a measured "no risk", distinct from no-data.
func classifyDesertification(v float64) DesertificationRisk {
	switch {
	case v <= 0:
		return DesertificationNoRisk
	case v < 50:
		return DesertificationLow
	case v < 100:
		return DesertificationMedium
	default:
		return DesertificationHigh
	}
}

// firstNumericToken scans unstructured text for the first numeric token.
func firstNumericToken(text string) (float64, bool) {
	m := numericTokenRe.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// firstFeatureProperties returns the property map of the first feature when
// the result is a non-empty feature collection.
func firstFeatureProperties(raw RawHazardResult) (map[string]any, bool) {
	if raw.Kind() != KindFeatures {
		return nil, false
	}
	features := raw.Features()
	if len(features) == 0 || features[0].Properties == nil {
		return nil, false
	}
	return features[0].Properties, true
}

// probeNumeric looks candidate keys up in priority order and returns the
// first value convertible to float64. Present-but-null and wrongly-typed
// values are skipped, so a field that exists but carries no number reads as
// absent.
func probeNumeric(props map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, ok := props[k]
		if !ok {
			continue
		}
		if f, ok := toFloat(v); ok {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
