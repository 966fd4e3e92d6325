package domain

import (
	"fmt"
	"strings"
)

// InfoFormat is the requested GetFeatureInfo response encoding.
type InfoFormat string

const (
	FormatJSON  InfoFormat = "application/json"
	FormatHTML  InfoFormat = "text/html"
	FormatPlain InfoFormat = "text/plain"
)

// GetFeatureInfo sample window. I and J point at the window center, which is
// why ComputeBBox must center the box on the query point.
const (
	sampleWidth  = 256
	sampleHeight = 256
	featureCount = 10
)

// CandidateRequest is one entry of a fallback cascade. Earlier entries are
// strictly higher priority.
type CandidateRequest struct {
	URL    string
	CRS    CRS
	Format InfoFormat
}

// BuildRequest assembles a WMS 1.3.0 GetFeatureInfo URL for one layer of a
// source. Values are interpolated without URL escaping: every input is either
// a catalog constant or a bounds-checked float, never caller-supplied text.
func BuildRequest(src HazardSource, layer string, bbox BoundingBox, format InfoFormat) CandidateRequest {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?SERVICE=WMS&VERSION=1.3.0&REQUEST=GetFeatureInfo", src.BaseURL)
	fmt.Fprintf(&b, "&LAYERS=%s&QUERY_LAYERS=%s", layer, layer)
	fmt.Fprintf(&b, "&CRS=%s&BBOX=%s", bbox.CRS, bbox)
	fmt.Fprintf(&b, "&WIDTH=%d&HEIGHT=%d&I=%d&J=%d", sampleWidth, sampleHeight, sampleWidth/2, sampleHeight/2)
	fmt.Fprintf(&b, "&INFO_FORMAT=%s&FEATURE_COUNT=%d", format, featureCount)
	if src.Style != "" {
		fmt.Fprintf(&b, "&STYLES=%s", src.Style)
	}
	for _, p := range src.VendorParams {
		fmt.Fprintf(&b, "&%s=%s", p.Key, p.Value)
	}
	return CandidateRequest{URL: b.String(), CRS: bbox.CRS, Format: format}
}
