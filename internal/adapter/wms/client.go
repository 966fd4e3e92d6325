package wms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/odo48-debug/riesgos/internal/domain"
	"github.com/odo48-debug/riesgos/internal/observability"
)

// Client executes candidate-request cascades against live WMS services. One
// instance (and its connection pool) is shared by all hazards of all
// assessments; it holds no per-request state.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a WMS GetFeatureInfo client. timeout bounds each
// individual attempt; redirects are followed by default.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// FetchAny tries candidates strictly in order and returns the first usable
// response. Transport failures and upstream service exceptions advance the
// cascade; a parseable FeatureCollection or any other successfully-delivered
// body short-circuits it. When every candidate fails, only the last failure
// message is surfaced — cascade order already encodes priority.
//
// FetchAny never returns a Go error: every outcome, including total failure,
// is a RawHazardResult value scoped to this one hazard.
func (c *Client) FetchAny(ctx context.Context, hazard string, candidates []domain.CandidateRequest) domain.RawHazardResult {
	if len(candidates) == 0 {
		return domain.ErrorResult("no candidate requests")
	}

	var lastFailure string
	for i, cand := range candidates {
		result, err := c.attempt(ctx, hazard, cand)
		if err != nil {
			lastFailure = err.Error()
			c.metrics.UpstreamRequests.WithLabelValues(hazard, "error").Inc()
			c.logger.Warn("candidate request failed",
				"hazard", hazard,
				"attempt", i+1,
				"crs", string(cand.CRS),
				"format", string(cand.Format),
				"error", err,
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		c.metrics.UpstreamRequests.WithLabelValues(hazard, outcomeLabel(result)).Inc()
		c.metrics.CascadeAttempts.Observe(float64(i + 1))
		return result
	}

	c.metrics.CascadeExhausted.WithLabelValues(hazard).Inc()
	return domain.ErrorResult(lastFailure)
}

func (c *Client) attempt(ctx context.Context, hazard string, cand domain.CandidateRequest) (domain.RawHazardResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cand.URL, nil)
	if err != nil {
		return domain.RawHazardResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawHazardResult{}, fmt.Errorf("getfeatureinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.UpstreamDuration.WithLabelValues(hazard).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.RawHazardResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RawHazardResult{}, fmt.Errorf("upstream status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	// Some upstreams report rejected CRS/format combinations as an XML
	// exception with a 200 status. That is a failed candidate, not a text
	// result.
	if bytes.Contains(body, []byte("ServiceException")) {
		return domain.RawHazardResult{}, fmt.Errorf("upstream service exception: %s", truncate(body, 200))
	}

	var fc domain.FeatureCollection
	if err := json.Unmarshal(body, &fc); err == nil && fc.Type == "FeatureCollection" {
		return domain.FeaturesResult(fc.Features), nil
	}

	// Transport succeeded but the body is not structured data. Valid
	// outcome for the HTML/plain info formats; normalizers decide what to
	// make of it.
	return domain.TextResult(string(body)), nil
}

func outcomeLabel(r domain.RawHazardResult) string {
	switch r.Kind() {
	case domain.KindFeatures:
		return "features"
	case domain.KindText:
		return "text"
	default:
		return "error"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
