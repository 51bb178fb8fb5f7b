package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/environment"
	"github.com/tmpllc001/focusmetrics/internal/interruption"
	"github.com/tmpllc001/focusmetrics/internal/patterns"
	"github.com/tmpllc001/focusmetrics/internal/ports"
	"github.com/tmpllc001/focusmetrics/internal/reports"
	"github.com/tmpllc001/focusmetrics/internal/session"
)

// Server exposes the analytics engine over a local HTTP API. The timer
// frontend drives sessions through it; everything else is read-only.
type Server struct {
	router        chi.Router
	port          int
	recorder      *session.Recorder
	interruptions *interruption.Tracker
	environment   *environment.Correlator
	patterns      *patterns.Tracker
	compare       *compare.Service
	reports       *reports.Engine
	templates     *reports.TemplateStore
	logger        ports.Logger
}

func NewServer(
	port int,
	recorder *session.Recorder,
	interruptions *interruption.Tracker,
	env *environment.Correlator,
	pat *patterns.Tracker,
	cmp *compare.Service,
	rep *reports.Engine,
	templates *reports.TemplateStore,
	logger ports.Logger,
) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		port:          port,
		recorder:      recorder,
		interruptions: interruptions,
		environment:   env,
		patterns:      pat,
		compare:       cmp,
		reports:       rep,
		templates:     templates,
		logger:        logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Session lifecycle
	r.Post("/api/sessions/start", s.handleSessionStart)
	r.Post("/api/sessions/end", s.handleSessionEnd)
	r.Get("/api/sessions/active", s.handleSessionActive)
	r.Get("/api/sessions/live", s.handleSessionLive)
	r.Post("/api/sessions/interactions", s.handleInteraction)
	r.Get("/api/sessions", s.handleSessionHistory)
	r.Post("/api/sessions/cleanup", s.handleCleanup)

	// Interruption signals
	r.Post("/api/interruptions/pause/start", s.handlePauseStart)
	r.Post("/api/interruptions/pause/end", s.handlePauseEnd)
	r.Post("/api/interruptions/external", s.handleExternalInterruption)
	r.Post("/api/interruptions/activity", s.handleActivity)
	r.Get("/api/interruptions/history", s.handleInterruptionHistory)

	// Aggregates and insights
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/export", s.handleExport)
	r.Get("/api/insights", s.handleInsights)
	r.Get("/api/insights/optimal-window", s.handleOptimalWindow)
	r.Get("/api/insights/heatmap", s.handleHeatmap)
	r.Get("/api/patterns", s.handlePatterns)
	r.Get("/api/trends", s.handleTrends)

	// Comparisons
	r.Get("/api/compare/periods", s.handleComparePeriods)
	r.Get("/api/compare/weekend", s.handleCompareWeekend)
	r.Get("/api/compare/time-periods", s.handleCompareTimePeriods)
	r.Get("/api/compare/progress", s.handleCompareProgress)

	// Reports
	r.Get("/api/reports", s.handleReport)
	r.Get("/api/reports/sessions/{id}", s.handleReportSession)
	r.Post("/api/reports/custom", s.handleCustomReport)
	r.Get("/api/reports/templates", s.handleTemplateList)
	r.Post("/api/reports/templates", s.handleTemplateSave)
	r.Delete("/api/reports/templates/{name}", s.handleTemplateDelete)
	r.Post("/api/reports/templates/{name}/build", s.handleTemplateBuild)
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Debug(fmt.Sprintf("starting server at http://localhost:%d", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(fmt.Sprintf("server shutdown error: %v", err))
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
