package assessor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/odo48-debug/riesgos/internal/domain"
	"github.com/odo48-debug/riesgos/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Fetcher executes one hazard's candidate cascade against a live service.
type Fetcher interface {
	FetchAny(ctx context.Context, hazard string, candidates []domain.CandidateRequest) domain.RawHazardResult
}

// Publisher emits completed assessments to an external sink.
type Publisher interface {
	Publish(ctx context.Context, a domain.Assessment) error
}

// Query windows. Degree windows apply to CRS:84 and EPSG:4326; the meter
// window applies to EPSG:3857.
const (
	wildfireHalfWindowDeg = 0.05
	defaultHalfWindowDeg  = 0.02
	mercatorHalfWindowM   = 15000.0
)

// Assessor orchestrates all hazard queries for one point: independent
// hazards fan out concurrently, candidates within one hazard run strictly in
// sequence.
type Assessor struct {
	fetcher   Fetcher
	catalog   *domain.Catalog
	publisher Publisher // nil when event publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
	timeout   time.Duration // whole-assessment deadline; 0 disables
}

// New creates an Assessor. publisher may be nil.
func New(fetcher Fetcher, catalog *domain.Catalog, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, timeout time.Duration) *Assessor {
	return &Assessor{
		fetcher:   fetcher,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		timeout:   timeout,
	}
}

// CheckReadiness reports whether the assessor can serve queries. The service
// is stateless, so it is ready as soon as it is wired.
func (a *Assessor) CheckReadiness(_ context.Context) error {
	if a.fetcher == nil {
		return errors.New("no fetcher configured")
	}
	return nil
}

// Assess queries every hazard family for the point and returns the raw and
// normalized result trees. A hazard whose cascade is exhausted contributes an
// error-valued raw result and an unknown/no-data level; it never blanks the
// other hazards. Only cancellation of the caller's context fails the whole
// assessment — expiry of the internal deadline degrades the remaining hazards
// to errors instead.
func (a *Assessor) Assess(ctx context.Context, p domain.Point) (domain.Assessment, error) {
	start := time.Now()

	fetchCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw := domain.RawResults{
		Fluvial:         make(map[string]domain.RawHazardResult, len(domain.FluvialPeriods)),
		Marine:          make(map[string]domain.RawHazardResult, len(domain.MarinePeriods)),
		Desertification: make(map[string]domain.RawHazardResult, 2),
	}

	g, gctx := errgroup.WithContext(fetchCtx)
	var mu sync.Mutex

	fetch := func(hazard string, candidates []domain.CandidateRequest, assign func(domain.RawHazardResult)) {
		g.Go(func() error {
			result := a.fetcher.FetchAny(gctx, hazard, candidates)
			mu.Lock()
			assign(result)
			mu.Unlock()
			return nil
		})
	}

	fetch("wildfire", a.wildfireCandidates(p), func(r domain.RawHazardResult) { raw.Wildfire = r })

	for _, period := range domain.FluvialPeriods {
		period := period
		fetch("fluvial-"+period, a.floodCandidates(p, domain.FluvialLayer(period)),
			func(r domain.RawHazardResult) { raw.Fluvial[period] = r })
	}
	for _, period := range domain.MarinePeriods {
		period := period
		fetch("marine-"+period, a.floodCandidates(p, domain.MarineLayer(period)),
			func(r domain.RawHazardResult) { raw.Marine[period] = r })
	}

	fetch("seismic", a.seismicCandidates(p), func(r domain.RawHazardResult) { raw.Seismic = r })

	fetch("desertification-potential", a.desertificationCandidates(p, a.catalog.DesertificationPotential),
		func(r domain.RawHazardResult) { raw.Desertification[domain.DesertificationPotential] = r })
	fetch("desertification-laminar", a.desertificationCandidates(p, a.catalog.DesertificationLaminar),
		func(r domain.RawHazardResult) { raw.Desertification[domain.DesertificationLaminar] = r })

	_ = g.Wait() // tasks never return errors; results carry their own failures

	if ctx.Err() != nil {
		return domain.Assessment{}, ctx.Err()
	}

	assessment := domain.NewAssessment(p, raw)

	a.metrics.Assessments.Inc()
	a.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("assessment complete",
		"lat", p.Lat,
		"lon", p.Lon,
		"duration", time.Since(start),
		"wildfire", string(assessment.Summary.Wildfire),
		"seismic", string(assessment.Summary.Seismic.Level),
	)

	a.publish(ctx, assessment)

	return assessment, nil
}

// publish forwards the assessment to the event sink when one is configured.
// Publishing is strictly best-effort: a sink failure must not fail the
// caller's request.
func (a *Assessor) publish(ctx context.Context, assessment domain.Assessment) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, assessment); err != nil {
		a.metrics.PublishErrors.Inc()
		a.logger.Warn("assessment publish failed", "error", err)
		return
	}
	a.metrics.AssessmentsPublished.Inc()
}

// wildfireCandidates builds the wildfire cascade: CRS:84, then EPSG:4326,
// then EPSG:3857, each in JSON followed by the text formats. The upstream
// rejects some CRS/format combinations unpredictably; this order is the
// system's core robustness mechanism and must be preserved exactly.
func (a *Assessor) wildfireCandidates(p domain.Point) []domain.CandidateRequest {
	src := a.catalog.Wildfire
	crss := []domain.CRS{domain.CRS84, domain.EPSG4326, domain.EPSG3857}
	formats := []domain.InfoFormat{domain.FormatJSON, domain.FormatHTML, domain.FormatPlain}

	candidates := make([]domain.CandidateRequest, 0, len(crss)*len(formats))
	for _, crs := range crss {
		half := wildfireHalfWindowDeg
		if crs == domain.EPSG3857 {
			half = mercatorHalfWindowM
		}
		bbox, err := domain.ComputeBBox(p, half, crs)
		if err != nil {
			continue
		}
		for _, format := range formats {
			candidates = append(candidates, domain.BuildRequest(src, src.Layer, bbox, format))
		}
	}
	return candidates
}

func (a *Assessor) floodCandidates(p domain.Point, layer string) []domain.CandidateRequest {
	src := a.catalog.Flood
	return a.degreeCascade(src, layer, p, []domain.InfoFormat{domain.FormatJSON})
}

func (a *Assessor) seismicCandidates(p domain.Point) []domain.CandidateRequest {
	src := a.catalog.Seismic
	candidates := a.degreeCascade(src, src.Layer, p, []domain.InfoFormat{domain.FormatJSON})
	if bbox, err := domain.ComputeBBox(p, defaultHalfWindowDeg, domain.EPSG4326); err == nil {
		candidates = append(candidates, domain.BuildRequest(src, src.Layer, bbox, domain.FormatPlain))
	}
	return candidates
}

// desertificationCandidates prefers structured JSON but falls back to the
// text formats, which feed the best-effort numeric extraction path.
func (a *Assessor) desertificationCandidates(p domain.Point, src domain.HazardSource) []domain.CandidateRequest {
	candidates := a.degreeCascade(src, src.Layer, p, []domain.InfoFormat{domain.FormatJSON})
	if bbox, err := domain.ComputeBBox(p, defaultHalfWindowDeg, domain.EPSG4326); err == nil {
		candidates = append(candidates,
			domain.BuildRequest(src, src.Layer, bbox, domain.FormatPlain),
			domain.BuildRequest(src, src.Layer, bbox, domain.FormatHTML),
		)
	}
	return candidates
}

// degreeCascade emits one candidate per degree CRS (CRS:84 first, then
// EPSG:4326) for each format.
func (a *Assessor) degreeCascade(src domain.HazardSource, layer string, p domain.Point, formats []domain.InfoFormat) []domain.CandidateRequest {
	var candidates []domain.CandidateRequest
	for _, crs := range []domain.CRS{domain.CRS84, domain.EPSG4326} {
		bbox, err := domain.ComputeBBox(p, defaultHalfWindowDeg, crs)
		if err != nil {
			continue
		}
		for _, format := range formats {
			candidates = append(candidates, domain.BuildRequest(src, layer, bbox, format))
		}
	}
	return candidates
}
