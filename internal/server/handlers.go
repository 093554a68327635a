// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/sentiment-engine/internal/store"
	"github.com/pdiddy/sentiment-engine/internal/trends"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

type handler struct {
	store    *store.Store
	analyzer Analyzer
	trends   types.TrendsConfig
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Texts  []string             `json:"texts"`
	Facts  []types.VerifiedFact `json:"facts,omitempty"`
	Save   bool                 `json:"save,omitempty"`
	Source string               `json:"source,omitempty"`
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		respondWithError(w, http.StatusServiceUnavailable, "analysis pipeline not configured", nil)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Texts) == 0 {
		respondWithError(w, http.StatusBadRequest, "texts is required", nil)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), req.Texts, req.Facts, io.Discard)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "analysis failed", err)
		return
	}

	if req.Save {
		source := req.Source
		if source == "" {
			source = "api"
		}
		if _, err := h.store.SaveDocuments(r.Context(), result.Documents, time.Now(), source); err != nil {
			respondWithError(w, http.StatusInternalServerError, "saving documents failed", err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *handler) overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading overview failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *handler) topics(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)
	topics, err := h.store.TopTopics(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading topics failed", err)
		return
	}
	if topics == nil {
		topics = []types.TopicSummary{}
	}
	respondWithJSON(w, http.StatusOK, topics)
}

func (h *handler) concerns(w http.ResponseWriter, r *http.Request) {
	opts := trends.ConcernOptions{
		Window:    h.window(r),
		Threshold: queryFloat(r, "threshold", h.trends.ConcernThreshold),
	}
	records, err := h.recentRecords(r, opts.Window)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading records failed", err)
		return
	}
	concerns := trends.EmergingConcerns(records, opts)
	if concerns == nil {
		concerns = []types.Concern{}
	}
	respondWithJSON(w, http.StatusOK, concerns)
}

func (h *handler) spikes(w http.ResponseWriter, r *http.Request) {
	opts := trends.SpikeOptions{
		Window:    h.window(r),
		Threshold: queryFloat(r, "threshold", h.trends.SpikeThreshold),
	}
	records, err := h.recentRecords(r, opts.Window)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading records failed", err)
		return
	}
	spikes := trends.Spikes(records, opts)
	if spikes == nil {
		spikes = []types.Spike{}
	}
	respondWithJSON(w, http.StatusOK, spikes)
}

func (h *handler) demographicInsights(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Records(r.Context(), time.Time{})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading records failed", err)
		return
	}
	insights := trends.DemographicInsights(records)
	if insights == nil {
		insights = []types.DemographicInsight{}
	}
	respondWithJSON(w, http.StatusOK, insights)
}

func (h *handler) geographicInsights(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Records(r.Context(), time.Time{})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading records failed", err)
		return
	}
	insights := trends.GeographicInsights(records)
	if insights == nil {
		insights = []types.GeoInsight{}
	}
	respondWithJSON(w, http.StatusOK, insights)
}

func (h *handler) recommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.store.Stats(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading overview failed", err)
		return
	}
	topTopics, err := h.store.TopTopics(ctx, 5)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading topics failed", err)
		return
	}
	records, err := h.store.Records(ctx, time.Time{})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading records failed", err)
		return
	}

	results := types.AggregateResults{
		TopConcerns:         topTopics,
		DemographicInsights: trends.DemographicInsights(records),
		GeographicInsights:  trends.GeographicInsights(records),
		OverallSentiment:    stats.OverallSentiment,
		EmergingConcerns: trends.EmergingConcerns(records, trends.ConcernOptions{
			Window:    h.window(r),
			Threshold: h.trends.ConcernThreshold,
		}),
	}
	recs := trends.Recommend(results)
	if recs == nil {
		recs = []types.Recommendation{}
	}
	respondWithJSON(w, http.StatusOK, recs)
}

func (h *handler) alerts(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	alerts, err := h.store.Alerts(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "loading alerts failed", err)
		return
	}
	if alerts == nil {
		alerts = []store.Alert{}
	}
	respondWithJSON(w, http.StatusOK, alerts)
}

func (h *handler) importRecords(w http.ResponseWriter, r *http.Request) {
	var records []types.ScoredRecord
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(records) == 0 {
		respondWithError(w, http.StatusBadRequest, "records is required", nil)
		return
	}
	n, err := h.store.ImportRecords(r.Context(), records)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "importing records failed", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int{"imported": n})
}

// window returns the detection window from the window_days query
// parameter, falling back to the configured default.
func (h *handler) window(r *http.Request) time.Duration {
	days := queryInt(r, "window_days", h.trends.WindowDays)
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// recentRecords loads records inside the detection window so detectors
// never scan the full history.
func (h *handler) recentRecords(r *http.Request, window time.Duration) ([]types.ScoredRecord, error) {
	return h.store.Records(r.Context(), time.Now().Add(-window))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func queryFloat(r *http.Request, name string, fallback float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	response, _ := json.Marshal(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
