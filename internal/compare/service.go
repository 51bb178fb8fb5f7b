package compare

import (
	"time"

	"github.com/tmpllc001/focusmetrics/internal/cache"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	cacheTTL = time.Hour
	cacheCap = 20
)

// Service answers comparison queries over finalized history. All
// operations are pure reads cached by parameter signature; they run
// concurrently with new-session writes because the history provider
// hands out copy-on-read snapshots.
type Service struct {
	history ports.HistoryProvider
	cache   *cache.Cache
	clock   func() time.Time
}

// NewService builds a comparison service with its own query cache.
func NewService(history ports.HistoryProvider) *Service {
	return &Service{
		history: history,
		cache:   cache.New(cacheTTL, cacheCap),
		clock:   time.Now,
	}
}
