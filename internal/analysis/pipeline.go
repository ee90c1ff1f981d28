package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ecodrive/internal/llm"
	"ecodrive/internal/metrics"
	"ecodrive/internal/report"
	"ecodrive/internal/report/archive"
	"ecodrive/internal/telemetry"
	"ecodrive/internal/trip"
)

// Options carries the pipeline's optional collaborators. Archive and
// Metrics may be nil.
type Options struct {
	Archive archive.Store
	Metrics *metrics.Analysis
	Logger  zerolog.Logger
	Timeout time.Duration
}

// Pipeline runs one trip analysis per call: fetch points, aggregate,
// detect peaks, build the prompt, call the external model, validate,
// assemble, persist. Strictly sequential; the only suspension point is the
// model call. No state is shared between runs.
type Pipeline struct {
	points  telemetry.Store
	reports report.Repository
	client  llm.Client
	arch    archive.Store
	met     *metrics.Analysis
	log     zerolog.Logger
	timeout time.Duration
}

func NewPipeline(points telemetry.Store, reports report.Repository, client llm.Client, opts Options) *Pipeline {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Pipeline{
		points:  points,
		reports: reports,
		client:  client,
		arch:    opts.Archive,
		met:     opts.Metrics,
		log:     opts.Logger,
		timeout: timeout,
	}
}

// AnalyzeTrip runs the full pipeline for one trip. On a storage failure the
// assembled report is returned together with the StorageError so the caller
// can decide what to surface. Every other failure returns a nil report.
func (p *Pipeline) AnalyzeTrip(ctx context.Context, tripID string) (*TripReport, error) {
	start := time.Now()
	outcome := metrics.OutcomeEmptyTrip
	defer func() { p.met.Observe(outcome, time.Since(start)) }()

	points, err := p.points.FetchTrip(ctx, tripID)
	if err != nil {
		if !errors.Is(err, telemetry.ErrTripNotFound) {
			outcome = metrics.OutcomeStorageError
		}
		return nil, err
	}

	stats, err := trip.Aggregate(points)
	if err != nil {
		return nil, err
	}
	stats.Events = trip.CriticalEvents(points)

	prompt, err := BuildPrompt(stats)
	if err != nil {
		outcome = metrics.OutcomeValidationError
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	raw, err := p.client.GenerateReport(callCtx, prompt)
	cancel()
	if err != nil {
		outcome = metrics.OutcomeExternalError
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &ExternalServiceError{Err: err}
	}
	// The caller abandoned the request while the model call was in
	// flight; nothing may be persisted.
	if err := ctx.Err(); err != nil {
		outcome = metrics.OutcomeExternalError
		return nil, err
	}

	validated, err := ValidateResponse(raw)
	if err != nil {
		outcome = metrics.OutcomeValidationError
		p.log.Error().Err(err).Str("trip_id", tripID).
			RawJSON("response", raw).
			Msg("rejected external response")
		return nil, err
	}

	rep := Assemble(tripID, validated)
	stored := report.StoredReport{
		ID:        uuid.New(),
		VehicleID: points[0].VehicleID,
		Score:     rep.EcoScore,
		Date:      report.Day(time.Now()),
		Analysis:  validated.Raw,
	}
	if err := p.reports.Save(ctx, stored); err != nil {
		outcome = metrics.OutcomeStorageError
		return &rep, &StorageError{Err: err}
	}

	if p.arch != nil {
		if err := p.arch.Put(ctx, stored.VehicleID, stored.ID.String(), validated.Raw); err != nil {
			p.log.Warn().Err(err).Str("report_id", stored.ID.String()).
				Msg("audit blob archive failed")
		}
	}

	outcome = metrics.OutcomePersisted
	p.log.Info().Str("trip_id", tripID).Str("vehicle_id", stored.VehicleID).
		Str("report_id", stored.ID.String()).Int("eco_score", rep.EcoScore).
		Msg("trip analysis persisted")
	return &rep, nil
}
