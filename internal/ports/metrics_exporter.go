package ports

import "context"

// SessionMetrics is the per-session payload handed to the metrics exporter
// once a record is finalized.
type SessionMetrics struct {
	SessionID       string
	Type            string
	DurationSeconds float64
	FocusScore      float64
	EfficiencyScore float64
	Interruptions   int64
	Completed       bool
}

// MetricsExporter exports finalized session metrics to a collector.
type MetricsExporter interface {
	ExportSessionMetrics(ctx context.Context, m *SessionMetrics) error
	Close(ctx context.Context) error
}
