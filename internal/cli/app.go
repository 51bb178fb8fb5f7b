package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/adapters/filestore"
	"github.com/tmpllc001/focusmetrics/internal/adapters/otel"
	"github.com/tmpllc001/focusmetrics/internal/adapters/turso"
	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/environment"
	"github.com/tmpllc001/focusmetrics/internal/infrastructure/config"
	"github.com/tmpllc001/focusmetrics/internal/interruption"
	"github.com/tmpllc001/focusmetrics/internal/patterns"
	"github.com/tmpllc001/focusmetrics/internal/ports"
	"github.com/tmpllc001/focusmetrics/internal/reports"
	"github.com/tmpllc001/focusmetrics/internal/session"
	"github.com/tmpllc001/focusmetrics/internal/util"
)

type consoleLogger struct{}

func (l *consoleLogger) Debug(msg string) {
	if verbose {
		log.Println("[DEBUG]", msg)
	}
}

func (l *consoleLogger) Error(msg string) {
	log.Println("[ERROR]", msg)
}

// logNotifier surfaces interruption and pattern alerts on the terminal
// running the engine.
type logNotifier struct {
	logger ports.Logger
}

func newLogNotifier(logger ports.Logger) *logNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) InterruptionDetected(ev domain.InterruptionEvent) {
	n.logger.Debug(fmt.Sprintf("interruption detected: %s (%s)", ev.Type, ev.Severity))
}

func (n *logNotifier) PatternDetected(alert ports.PatternAlert) {
	msg := fmt.Sprintf("pattern detected [%s]: %s", alert.Kind, alert.Message)
	if alert.Recommendation != "" {
		msg += " - " + alert.Recommendation
	}
	n.logger.Debug(msg)
}

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config        *config.App
	Logger        ports.Logger
	Store         ports.SnapshotStore
	Exporter      ports.MetricsExporter
	Recorder      *session.Recorder
	Interruptions *interruption.Tracker
	Environment   *environment.Correlator
	Patterns      *patterns.Tracker
	Compare       *compare.Service
	Reports       *reports.Engine
	Templates     *reports.TemplateStore

	closers []func()
}

// NewAppContext creates an AppContext with all dependencies initialized
// and the finalization fan-out wired.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.LoadApp()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := &consoleLogger{}
	app := &AppContext{Config: cfg, Logger: logger}

	switch cfg.Storage {
	case config.StorageTurso:
		db, err := turso.NewDB()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		store, err := turso.NewSnapshotStore(db)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.Store = store
	default:
		store, err := filestore.NewSnapshotStore()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize snapshot storage: %w", err)
		}
		app.Store = store
	}

	otelCfg := otel.LoadConfig()
	if exporter, err := otel.NewExporter(ctx, otelCfg); err == nil {
		app.Exporter = exporter
		app.closers = append(app.closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = exporter.Close(closeCtx)
		})
	} else {
		logger.Debug(fmt.Sprintf("metrics export disabled: %v", err))
		app.Exporter = otel.NewNoOpExporter()
	}

	app.Recorder = session.NewRecorder(app.Store, app.Exporter, logger, session.Config{
		SampleInterval: time.Duration(cfg.SampleIntervalSeconds) * time.Second,
		HistoryCap:     cfg.HistoryCap,
	})

	notifier := newLogNotifier(logger)
	app.Interruptions = interruption.NewTracker(app.Recorder, notifier, app.Store, logger)
	app.Environment = environment.NewCorrelator(app.Store, logger)
	app.Patterns = patterns.NewTracker(app.Store, notifier, logger)
	app.Patterns.Seed(app.Recorder.History())

	// One finalized record feeds every analytics component.
	app.Recorder.OnFinalized(func(rec domain.SessionRecord) {
		app.Interruptions.SessionEnded(rec)
		app.Environment.SessionEnded(rec)
		app.Patterns.SessionEnded(rec)
	})

	app.Compare = compare.NewService(app.Recorder)
	app.Reports = reports.NewEngine(app.Recorder, app.Compare, app.Environment, logger)

	templatePath := cfg.TemplatePath
	if templatePath == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			app.Close()
			return nil, err
		}
		templatePath = filepath.Join(dataDir, "report_templates.yaml")
	}
	app.Templates = reports.NewTemplateStore(templatePath)

	return app, nil
}

// Close releases database connections and flushes the exporter.
func (a *AppContext) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
