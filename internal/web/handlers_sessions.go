package web

import (
	"net/http"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/session"
)

type startSessionRequest struct {
	Type           string `json:"type"`
	PlannedMinutes int    `json:"planned_minutes"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.recorder.Start(
		domain.SessionType(req.Type),
		time.Duration(req.PlannedMinutes)*time.Minute,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	s.interruptions.SessionStarted()
	writeJSON(w, http.StatusCreated, rec)
}

type endSessionRequest struct {
	Completed bool   `json:"completed"`
	Rating    int    `json:"productivity_rating,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	var req endSessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var opts []session.EndOption
	if req.Rating != 0 {
		opts = append(opts, session.WithRating(req.Rating))
	}
	if req.Notes != "" {
		opts = append(opts, session.WithNotes(req.Notes))
	}

	rec := s.recorder.End(req.Completed, opts...)
	if rec == nil {
		writeError(w, domain.Validationf("session", "no active session to end"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSessionActive(w http.ResponseWriter, r *http.Request) {
	rec := s.recorder.Active()
	if rec == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "session": rec})
}

func (s *Server) handleSessionLive(w http.ResponseWriter, r *http.Request) {
	live := s.recorder.Live()
	if live == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, live)
}

type interactionRequest struct {
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	s.recorder.RecordInteraction(domain.InteractionKind(req.Kind), req.Details)
	s.interruptions.RecordUserActivity()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.HistoryRange(rng.Start, rng.End))
}

type cleanupRequest struct {
	RetainDays int `json:"retain_days"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RetainDays < 1 {
		writeError(w, domain.Validationf("retain_days", "must be at least 1"))
		return
	}

	removed, err := s.recorder.Cleanup(r.Context(), time.Duration(req.RetainDays)*24*time.Hour)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handlePauseStart(w http.ResponseWriter, r *http.Request) {
	s.interruptions.RecordPauseStart()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePauseEnd(w http.ResponseWriter, r *http.Request) {
	s.interruptions.RecordPauseEnd()
	w.WriteHeader(http.StatusNoContent)
}

type externalInterruptionRequest struct {
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleExternalInterruption(w http.ResponseWriter, r *http.Request) {
	var req externalInterruptionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Kind == "" {
		writeError(w, domain.Validationf("kind", "interruption kind is required"))
		return
	}
	s.interruptions.RecordExternal(req.Kind, req.Description)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	s.interruptions.RecordUserActivity()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInterruptionHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.interruptions.History())
}
