package session

import (
	"context"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

// ExportDocument is the serialized form handed to the export subsystem.
type ExportDocument struct {
	ExportDate time.Time              `json:"export_date"`
	Sessions   []domain.SessionRecord `json:"sessions"`
	Summary    StatsSummary           `json:"summary"`
}

// Export assembles the full history plus summary for external export.
func (r *Recorder) Export() ExportDocument {
	records := r.History()
	return ExportDocument{
		ExportDate: r.clock(),
		Sessions:   records,
		Summary:    summarize(records, r.clock()),
	}
}

// Cleanup drops finalized records older than the retention window and
// rewrites the snapshot. Returns the number of records removed.
func (r *Recorder) Cleanup(ctx context.Context, retain time.Duration) (int, error) {
	r.mu.Lock()
	cutoff := r.clock().Add(-retain)
	kept := r.history[:0]
	for i := range r.history {
		if !r.history[i].StartTime.Before(cutoff) {
			kept = append(kept, r.history[i])
		}
	}
	removed := len(r.history) - len(kept)
	r.history = kept
	snapshot := append([]domain.SessionRecord(nil), r.history...)
	r.mu.Unlock()

	if removed == 0 {
		return 0, nil
	}
	doc := historyDocument{Sessions: snapshot, UpdatedAt: r.clock()}
	if err := r.store.Save(ctx, ports.SnapshotSessions, doc); err != nil {
		return removed, err
	}
	return removed, nil
}
