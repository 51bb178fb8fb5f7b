package web

import (
	"net/http"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/compare"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.recorder.Summary())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", "attachment; filename=focusmetrics-export.json")
	writeJSON(w, http.StatusOK, s.recorder.Export())
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.environment.GetInsights(queryInt(r, "lookback_days", 30)))
}

func (s *Server) handleOptimalWindow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.environment.DetectOptimalWindow())
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.environment.Heatmap())
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.patterns.Mine())
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.patterns.TrendSeries())
}

func (s *Server) handleComparePeriods(w http.ResponseWriter, r *http.Request) {
	g := compare.Granularity(r.URL.Query().Get("granularity"))
	if g == "" {
		g = compare.GranularityWeek
	}

	// Truncate the anchor so back-to-back calls share a cache key.
	anchor := time.Now().Truncate(time.Minute)
	result, err := s.compare.ComparePeriods(g, anchor, queryInt(r, "n", 1))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompareWeekend(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.compare.CompareWeekdaysVsWeekends(rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompareTimePeriods(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.compare.CompareTimePeriods(rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompareProgress(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := s.compare.AnalyzeProgressTrends(rng, queryInt(r, "window_days", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
