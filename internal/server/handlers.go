package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"ecodrive/internal/analysis"
	"ecodrive/internal/report"
	"ecodrive/internal/telemetry"
	"ecodrive/internal/trip"
)

// Analyzer runs one trip analysis. Satisfied by *analysis.Pipeline and by
// fakes in tests.
type Analyzer interface {
	AnalyzeTrip(ctx context.Context, tripID string) (*analysis.TripReport, error)
}

type Handlers struct {
	analyzer Analyzer
	points   telemetry.Store
	reports  report.Repository
	log      zerolog.Logger
}

func NewHandlers(analyzer Analyzer, points telemetry.Store, reports report.Repository, log zerolog.Logger) *Handlers {
	return &Handlers{analyzer: analyzer, points: points, reports: reports, log: log}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

func (h *Handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleIngest accepts a batch of telemetry points. Validation is basic
// shape-correctness only; metric fields stay optional.
func (h *Handlers) handleIngest(w http.ResponseWriter, r *http.Request) {
	var points []telemetry.Point
	if err := json.NewDecoder(r.Body).Decode(&points); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON array")
		return
	}
	if len(points) == 0 {
		respondError(w, http.StatusBadRequest, "empty array")
		return
	}
	for i, p := range points {
		if p.VehicleID == "" || p.TripID == "" || p.Timestamp.IsZero() {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("point %d: vehicle_id, trip_id, and timestamp are required", i))
			return
		}
	}

	if err := h.points.Insert(r.Context(), points); err != nil {
		h.log.Error().Err(err).Msg("telemetry insert failed")
		respondError(w, http.StatusInternalServerError, "could not store telemetry")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"ingested": len(points)})
}

func (h *Handlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["trip_id"]

	rep, err := h.analyzer.AnalyzeTrip(r.Context(), tripID)
	if err != nil {
		h.writeAnalysisError(w, tripID, rep, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// writeAnalysisError maps the pipeline's error taxonomy to status codes:
// no data is 404, external/validation failures are 502, storage is 500.
func (h *Handlers) writeAnalysisError(w http.ResponseWriter, tripID string, rep *analysis.TripReport, err error) {
	var (
		externalErr   *analysis.ExternalServiceError
		validationErr *analysis.SchemaValidationError
		storageErr    *analysis.StorageError
	)
	switch {
	case errors.Is(err, telemetry.ErrTripNotFound), errors.Is(err, trip.ErrEmptyTrip):
		respondError(w, http.StatusNotFound, "trip data not found")
	case errors.As(err, &externalErr):
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("external analysis failed")
		respondError(w, http.StatusBadGateway, "analysis failed")
	case errors.As(err, &validationErr):
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("analysis response rejected")
		respondError(w, http.StatusBadGateway, "analysis failed")
	case errors.As(err, &storageErr):
		// The report was assembled; only persistence failed.
		ev := h.log.Error().Err(err).Str("trip_id", tripID)
		if rep != nil {
			ev = ev.Int("eco_score", rep.EcoScore)
		}
		ev.Msg("report generated but not saved")
		respondError(w, http.StatusInternalServerError, "could not save report")
	default:
		h.log.Error().Err(err).Str("trip_id", tripID).Msg("trip analysis failed")
		respondError(w, http.StatusInternalServerError, "trip analysis failed")
	}
}

type reportResponse struct {
	ID        string          `json:"id"`
	VehicleID string          `json:"vehicle_id"`
	Score     int             `json:"score"`
	Date      string          `json:"date"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
}

func (h *Handlers) handleListReports(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	reports, err := h.reports.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		h.log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("report listing failed")
		respondError(w, http.StatusInternalServerError, "could not list reports")
		return
	}
	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, reportResponse{
			ID:        rep.ID.String(),
			VehicleID: rep.VehicleID,
			Score:     rep.Score,
			Date:      rep.Date.Format(time.DateOnly),
			Analysis:  json.RawMessage(rep.Analysis),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
