package patterns

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	historyCap     = 1000
	trendCap       = 30
	persistTimeout = 5 * time.Second

	minHistoryForMining = 5
	defaultWindowDays   = 7

	hourEfficiencyThreshold = 75.0
	hourMinSessions         = 3
	trendDelta              = 10.0
	trendRecentWindow       = 5
	interruptionMeanLimit   = 3.0
	interruptionShareLimit  = 0.5
	minWorkForTrendPoint    = 3

	dateLayout = "2006-01-02"
)

// TrendPoint is one day's composite productivity score.
type TrendPoint struct {
	Date     string  `json:"date"`
	Score    float64 `json:"score"`
	Sessions int     `json:"sessions_count"`
}

// MiningResult is the outcome of a pattern query. Below the minimum
// sample threshold it carries an InsufficientData marker instead of
// fabricated patterns.
type MiningResult struct {
	Patterns     []ports.PatternAlert     `json:"patterns"`
	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// Tracker mines behavioral trends from finalized sessions and maintains
// the smoothed productivity-trend series.
type Tracker struct {
	mu       sync.Mutex
	clock    func() time.Time
	store    ports.SnapshotStore
	logger   ports.Logger
	notifier ports.Notifier

	windowDays int
	history    []domain.SessionRecord
	byDate     map[string][]int
	trend      []TrendPoint

	trendListeners []func(TrendPoint)
}

// NewTracker builds a tracker and loads the persisted trend snapshot.
func NewTracker(store ports.SnapshotStore, notifier ports.Notifier, logger ports.Logger) *Tracker {
	t := &Tracker{
		clock:      time.Now,
		store:      store,
		logger:     logger,
		notifier:   notifier,
		windowDays: defaultWindowDays,
		byDate:     make(map[string][]int),
	}
	var doc trendDocument
	if err := store.Load(context.Background(), ports.SnapshotTrends, &doc); err == nil {
		t.trend = doc.Trend
		if len(t.trend) > trendCap {
			t.trend = t.trend[len(t.trend)-trendCap:]
		}
	} else if logger != nil {
		logger.Debug(fmt.Sprintf("no trend snapshot loaded: %v", err))
	}
	return t
}

// OnTrendUpdated registers a consumer of new trend points. Not safe to
// call once sessions are running.
func (t *Tracker) OnTrendUpdated(fn func(TrendPoint)) {
	t.trendListeners = append(t.trendListeners, fn)
}

// Seed preloads history from the event store's persisted records without
// firing notifications.
func (t *Tracker) Seed(records []domain.SessionRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, rec := range records {
		t.appendLocked(rec)
	}
}

// SessionEnded consumes a finalized record: appends it to the capped
// history, mines patterns, and advances the productivity trend.
func (t *Tracker) SessionEnded(rec domain.SessionRecord) {
	if !rec.Finalized {
		return
	}

	t.mu.Lock()
	t.appendLocked(rec)
	result := t.mineLocked()
	point, updated := t.updateTrendLocked(rec)
	listeners := t.trendListeners
	trendSnapshot := append([]TrendPoint(nil), t.trend...)
	t.mu.Unlock()

	for _, alert := range result.Patterns {
		if t.notifier != nil {
			t.notifier.PatternDetected(alert)
		}
	}
	if updated {
		for _, fn := range listeners {
			fn(point)
		}
		go t.persist(trendSnapshot)
	}
}

// Mine runs pattern mining over the trailing window on demand.
func (t *Tracker) Mine() MiningResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mineLocked()
}

// TrendSeries returns a copy of the productivity trend points.
func (t *Tracker) TrendSeries() []TrendPoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]TrendPoint(nil), t.trend...)
}

func (t *Tracker) appendLocked(rec domain.SessionRecord) {
	t.history = append(t.history, rec)
	if len(t.history) > historyCap {
		t.history = t.history[len(t.history)-historyCap:]
		t.reindexLocked()
	} else {
		date := rec.StartTime.Format(dateLayout)
		t.byDate[date] = append(t.byDate[date], len(t.history)-1)
	}
}

func (t *Tracker) reindexLocked() {
	t.byDate = make(map[string][]int, len(t.byDate))
	for i := range t.history {
		date := t.history[i].StartTime.Format(dateLayout)
		t.byDate[date] = append(t.byDate[date], i)
	}
}

// mineLocked inspects work sessions in the trailing window. Caller holds
// the lock.
func (t *Tracker) mineLocked() MiningResult {
	if len(t.history) < minHistoryForMining {
		return MiningResult{Insufficient: &domain.InsufficientData{
			Required: minHistoryForMining,
			Actual:   len(t.history),
			What:     "sessions",
		}}
	}

	cutoff := t.clock().AddDate(0, 0, -t.windowDays)
	var window []domain.SessionRecord
	for i := range t.history {
		if t.history[i].Type == domain.SessionWork && t.history[i].StartTime.After(cutoff) {
			window = append(window, t.history[i])
		}
	}

	var out MiningResult
	out.Patterns = append(out.Patterns, mineHourEfficiency(window)...)
	if a, ok := mineEfficiencyTrend(window); ok {
		out.Patterns = append(out.Patterns, a)
	}
	if a, ok := mineInterruptionFrequency(window); ok {
		out.Patterns = append(out.Patterns, a)
	}
	return out
}

// updateTrendLocked recomputes the composite productivity score for the
// record's day once enough same-day work sessions exist. Caller holds the
// lock.
func (t *Tracker) updateTrendLocked(rec domain.SessionRecord) (TrendPoint, bool) {
	date := rec.StartTime.Format(dateLayout)
	var work []domain.SessionRecord
	for _, i := range t.byDate[date] {
		if t.history[i].Type == domain.SessionWork {
			work = append(work, t.history[i])
		}
	}
	if len(work) < minWorkForTrendPoint {
		return TrendPoint{}, false
	}

	var completed int
	var effSum, focusSum float64
	for i := range work {
		if work[i].Completed {
			completed++
		}
		effSum += work[i].EfficiencyScore
		focusSum += work[i].FocusScore
	}
	n := float64(len(work))
	completionRate := float64(completed) / n
	score := completionRate*30 + (effSum/n)*0.4 + (focusSum/n)*0.3
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	point := TrendPoint{Date: date, Score: score, Sessions: len(work)}
	replaced := false
	for i := range t.trend {
		if t.trend[i].Date == date {
			t.trend[i] = point
			replaced = true
			break
		}
	}
	if !replaced {
		t.trend = append(t.trend, point)
		if len(t.trend) > trendCap {
			t.trend = t.trend[len(t.trend)-trendCap:]
		}
	}
	return point, true
}

func (t *Tracker) persist(trend []TrendPoint) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	doc := trendDocument{Trend: trend, UpdatedAt: t.clock()}
	if err := t.store.Save(ctx, ports.SnapshotTrends, doc); err != nil && t.logger != nil {
		t.logger.Error(fmt.Sprintf("failed to persist trend snapshot: %v", err))
	}
}

type trendDocument struct {
	Trend     []TrendPoint `json:"trend"`
	UpdatedAt time.Time    `json:"last_updated"`
}
