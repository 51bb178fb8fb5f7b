package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmpllc001/focusmetrics/internal/reports"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.reports.Generate(rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReportSession(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.reports.SessionDetail(rng, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCustomReport(w http.ResponseWriter, r *http.Request) {
	var cfg reports.Config
	if err := readJSON(r, &cfg); err != nil {
		writeError(w, err)
		return
	}
	report, err := s.reports.Build(cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	names, err := s.templates.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"templates": names})
}

func (s *Server) handleTemplateSave(w http.ResponseWriter, r *http.Request) {
	var cfg reports.Config
	if err := readJSON(r, &cfg); err != nil {
		writeError(w, err)
		return
	}
	if err := s.templates.Save(cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": cfg.Name})
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.Delete(chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type templateBuildRequest struct {
	Overrides map[string]map[string]string `json:"overrides,omitempty"`
}

func (s *Server) handleTemplateBuild(w http.ResponseWriter, r *http.Request) {
	var req templateBuildRequest
	if r.ContentLength != 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	cfg, err := s.templates.Resolve(chi.URLParam(r, "name"), req.Overrides)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := s.reports.Build(cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
