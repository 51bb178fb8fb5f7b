package ports

import (
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// HistoryProvider exposes finalized session history to read-only analytics.
// Implementations must return copy-on-read snapshots so queries can run
// concurrently with new-session writes.
type HistoryProvider interface {
	// History returns all finalized records, oldest first.
	History() []domain.SessionRecord
	// HistoryRange returns finalized records whose start time falls in
	// [start, end), oldest first.
	HistoryRange(start, end time.Time) []domain.SessionRecord
}
