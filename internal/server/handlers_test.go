package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ecodrive/internal/analysis"
	"ecodrive/internal/llm"
	"ecodrive/internal/report"
	"ecodrive/internal/telemetry"
)

func newTestServer(t *testing.T) (http.Handler, *report.MemoryRepository) {
	t.Helper()
	points := telemetry.NewMemoryStore()
	reports := report.NewMemoryRepository()
	pipeline := analysis.NewPipeline(points, reports, llm.NewFakeClient(), analysis.Options{Logger: zerolog.Nop()})
	h := NewHandlers(pipeline, points, reports, zerolog.Nop())
	return NewRouter(h, zerolog.Nop()), reports
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func ingestBody(tripID string, n int) []byte {
	points := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, map[string]any{
			"vehicle_id": "V1",
			"trip_id":    tripID,
			"timestamp":  fmt.Sprintf("2026-08-30T14:00:%02dZ", i),
			"rpm":        2000 + 1600*(i%2),
			"speed":      40.0 + float64(i),
		})
	}
	b, _ := json.Marshal(points)
	return b
}

func TestHandleHealth(t *testing.T) {
	router, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.True(t, decodeResponse(t, rec).Success)
}

func TestHandleIngest(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(ingestBody("T1", 3))))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 3, data["ingested"])
}

func TestHandleIngest_BadRequests(t *testing.T) {
	router, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"empty array", "[]"},
		{"missing trip id", `[{"vehicle_id":"V1","timestamp":"2026-08-30T14:00:00Z"}]`},
		{"missing timestamp", `[{"vehicle_id":"V1","trip_id":"T1"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewBufferString(tc.body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.False(t, decodeResponse(t, rec).Success)
		})
	}
}

func TestHandleAnalyze_FullFlow(t *testing.T) {
	router, reports := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(ingestBody("T1", 3))))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyze/T1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	var rep analysis.TripReport
	data, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Equal(t, "T1", rep.TripID)
	require.Equal(t, 78, rep.EcoScore)
	require.GreaterOrEqual(t, len(rep.Suggestions), 3)

	// Analysis persisted a report for the vehicle; the listing endpoint
	// serves it back.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/V1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []reportResponse
	data, _ = json.Marshal(decodeResponse(t, rec).Data)
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Len(t, listed, 1)
	require.Equal(t, "V1", listed[0].VehicleID)
	require.Equal(t, 78, listed[0].Score)

	stored, err := reports.ListByVehicle(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "V1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestHandleAnalyze_UnknownTrip(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/analyze/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.False(t, resp.Success)
	require.Equal(t, "trip data not found", resp.Error)
}

func TestHandleListReports_EmptyVehicle(t *testing.T) {
	router, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/unknown", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	var listed []reportResponse
	data, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(data, &listed))
	require.Empty(t, listed)
}
