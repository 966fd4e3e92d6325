package domain

import "time"

// RawResults holds every hazard's raw upstream outcome for one point. Flood
// hazards carry one result per return period; desertification one per layer.
type RawResults struct {
	Wildfire        RawHazardResult            `json:"wildfire"`
	Fluvial         map[string]RawHazardResult `json:"fluvial"`
	Marine          map[string]RawHazardResult `json:"marine"`
	Seismic         RawHazardResult            `json:"seismic"`
	Desertification map[string]RawHazardResult `json:"desertification"`
}

// Compact returns a geometry-stripped copy for transport-size reduction.
// Display only — Summarize works on the original, never on this copy.
func (r RawResults) Compact() RawResults {
	out := RawResults{
		Wildfire:        r.Wildfire.StripGeometry(),
		Seismic:         r.Seismic.StripGeometry(),
		Fluvial:         make(map[string]RawHazardResult, len(r.Fluvial)),
		Marine:          make(map[string]RawHazardResult, len(r.Marine)),
		Desertification: make(map[string]RawHazardResult, len(r.Desertification)),
	}
	for k, v := range r.Fluvial {
		out.Fluvial[k] = v.StripGeometry()
	}
	for k, v := range r.Marine {
		out.Marine[k] = v.StripGeometry()
	}
	for k, v := range r.Desertification {
		out.Desertification[k] = v.StripGeometry()
	}
	return out
}

// Summary is the normalized risk tree, one level per hazard.
type Summary struct {
	Wildfire        WildfireRisk                   `json:"wildfire"`
	Fluvial         map[string]FloodRisk           `json:"fluvial"`
	Marine          map[string]FloodRisk           `json:"marine"`
	Seismic         SeismicSummary                 `json:"seismic"`
	Desertification map[string]DesertificationRisk `json:"desertification"`
}

// Summarize runs every normalizer over the raw tree.
func Summarize(raw RawResults) Summary {
	s := Summary{
		Wildfire:        NormalizeWildfire(raw.Wildfire),
		Seismic:         NormalizeSeismic(raw.Seismic),
		Fluvial:         make(map[string]FloodRisk, len(raw.Fluvial)),
		Marine:          make(map[string]FloodRisk, len(raw.Marine)),
		Desertification: make(map[string]DesertificationRisk, len(raw.Desertification)),
	}
	for period, res := range raw.Fluvial {
		s.Fluvial[period] = NormalizeFlood(res)
	}
	for period, res := range raw.Marine {
		s.Marine[period] = NormalizeFlood(res)
	}
	for layer, res := range raw.Desertification {
		s.Desertification[layer] = NormalizeDesertification(res)
	}
	return s
}

// Assessment is the complete per-point result: the raw upstream tree and the
// normalized summary derived from it. Built once per request, never stored.
type Assessment struct {
	Point      Point      `json:"point"`
	AssessedAt time.Time  `json:"assessed_at"`
	Raw        RawResults `json:"raw"`
	Summary    Summary    `json:"summary"`
}

// NewAssessment derives the summary from the raw tree and stamps the
// assessment time.
func NewAssessment(p Point, raw RawResults) Assessment {
	return Assessment{
		Point:      p,
		AssessedAt: clock.Now().UTC(),
		Raw:        raw,
		Summary:    Summarize(raw),
	}
}
