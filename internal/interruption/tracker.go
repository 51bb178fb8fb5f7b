package interruption

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	// minPause is the threshold below which a pause is discarded silently.
	minPause = 10 * time.Second
	// watchdogInterval is how often the inactivity watchdog polls.
	watchdogInterval = 30 * time.Second
	// inactivityThreshold is how long without activity counts as an
	// interruption.
	inactivityThreshold = 180 * time.Second

	defaultHistoryCap = 100
	persistTimeout    = 5 * time.Second
)

type state int

const (
	stateIdle state = iota
	stateActive
	statePaused
)

// Sink receives committed interruption events, normally the session
// recorder.
type Sink interface {
	RecordInterruption(ev domain.InterruptionEvent)
}

// SessionSummary aggregates one session's interruptions for cross-session
// mining. Appended at session end, capped, persisted.
type SessionSummary struct {
	SessionID string                          `json:"session_id"`
	EndedAt   time.Time                       `json:"ended_at"`
	Hour      int                             `json:"hour"`
	Total     int                             `json:"total"`
	ByType    map[domain.InterruptionType]int `json:"by_type"`
}

// Tracker detects and classifies interruptions for the active session and
// mines cross-session patterns at session end.
type Tracker struct {
	mu           sync.Mutex
	st           state
	pauseStart   time.Time
	lastActivity time.Time
	clock        func() time.Time

	sink     Sink
	notifier ports.Notifier
	store    ports.SnapshotStore
	logger   ports.Logger

	history    []SessionSummary
	historyCap int
}

// NewTracker builds a tracker and loads its persisted history snapshot.
func NewTracker(sink Sink, notifier ports.Notifier, store ports.SnapshotStore, logger ports.Logger) *Tracker {
	t := &Tracker{
		clock:      time.Now,
		sink:       sink,
		notifier:   notifier,
		store:      store,
		logger:     logger,
		historyCap: defaultHistoryCap,
	}
	var doc historyDocument
	if err := store.Load(context.Background(), ports.SnapshotInterruptions, &doc); err == nil {
		t.history = doc.History
		if len(t.history) > t.historyCap {
			t.history = t.history[len(t.history)-t.historyCap:]
		}
	} else if logger != nil {
		logger.Debug(fmt.Sprintf("no interruption snapshot loaded: %v", err))
	}
	return t
}

// SessionStarted arms the tracker for a new session.
func (t *Tracker) SessionStarted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.st = stateActive
	t.lastActivity = t.clock()
}

// RecordPauseStart transitions active -> paused and remembers when.
func (t *Tracker) RecordPauseStart() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st != stateActive {
		return
	}
	t.st = statePaused
	t.pauseStart = t.clock()
}

// RecordPauseEnd transitions paused -> active. Pauses of at least ten
// seconds are committed as manual_pause interruptions; shorter pauses are
// discarded silently.
func (t *Tracker) RecordPauseEnd() {
	t.mu.Lock()
	ev, ok := t.closePauseLocked()
	t.mu.Unlock()
	if ok {
		t.commit(ev)
	}
}

// RecordUserActivity marks the user as engaged, implicitly closing any
// open pause.
func (t *Tracker) RecordUserActivity() {
	t.mu.Lock()
	ev, ok := t.closePauseLocked()
	t.st = stateActive
	t.lastActivity = t.clock()
	t.mu.Unlock()
	if ok {
		t.commit(ev)
	}
}

// closePauseLocked resolves an open pause. Caller holds the lock.
func (t *Tracker) closePauseLocked() (domain.InterruptionEvent, bool) {
	if t.st != statePaused {
		return domain.InterruptionEvent{}, false
	}
	t.st = stateActive
	now := t.clock()
	t.lastActivity = now
	d := now.Sub(t.pauseStart)
	if d < minPause {
		return domain.InterruptionEvent{}, false
	}
	return domain.InterruptionEvent{
		Type:     domain.InterruptionManualPause,
		At:       t.pauseStart,
		Duration: d,
		Severity: domain.SeverityForDuration(d),
	}, true
}

// RecordExternal commits an externally reported interruption immediately.
// Severity is preset by kind, not duration.
func (t *Tracker) RecordExternal(kind, description string) {
	ev := domain.InterruptionEvent{
		Type:        domain.ExternalInterruption(kind),
		At:          t.clock(),
		Severity:    domain.SeverityForExternal(kind),
		Description: description,
	}
	t.commit(ev)
}

// Run polls for inactivity until the context is cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.CheckInactivity()
		}
	}
}

// CheckInactivity commits an inactivity interruption when the activity
// clock has been quiet past the threshold, then resets the clock so the
// same gap never fires twice.
func (t *Tracker) CheckInactivity() {
	t.mu.Lock()
	if t.st != stateActive {
		t.mu.Unlock()
		return
	}
	now := t.clock()
	gap := now.Sub(t.lastActivity)
	if gap < inactivityThreshold {
		t.mu.Unlock()
		return
	}
	t.lastActivity = now
	t.mu.Unlock()

	t.commit(domain.InterruptionEvent{
		Type:     domain.InterruptionInactivity,
		At:       now.Add(-gap),
		Duration: gap,
		Severity: domain.SeverityForDuration(gap),
	})
}

func (t *Tracker) commit(ev domain.InterruptionEvent) {
	t.sink.RecordInterruption(ev)
	if t.notifier != nil {
		t.notifier.InterruptionDetected(ev)
	}
}

// SessionEnded folds the finalized record's interruptions into the
// cross-session history, persists it, and mines patterns once enough
// history has accumulated.
func (t *Tracker) SessionEnded(rec domain.SessionRecord) {
	summary := SessionSummary{
		SessionID: rec.ID,
		EndedAt:   rec.EndTime,
		Hour:      rec.StartTime.Hour(),
		Total:     len(rec.Interruptions),
		ByType:    make(map[domain.InterruptionType]int),
	}
	for _, ev := range rec.Interruptions {
		summary.ByType[ev.Type]++
	}

	t.mu.Lock()
	t.st = stateIdle
	t.history = append(t.history, summary)
	if len(t.history) > t.historyCap {
		t.history = t.history[len(t.history)-t.historyCap:]
	}
	snapshot := append([]SessionSummary(nil), t.history...)
	t.mu.Unlock()

	go t.persist(snapshot)

	for _, alert := range MinePatterns(snapshot) {
		if t.notifier != nil {
			t.notifier.PatternDetected(alert)
		}
	}
}

// History returns a copy of the cross-session summaries.
func (t *Tracker) History() []SessionSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]SessionSummary(nil), t.history...)
}

func (t *Tracker) persist(history []SessionSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	doc := historyDocument{History: history, UpdatedAt: t.clock()}
	if err := t.store.Save(ctx, ports.SnapshotInterruptions, doc); err != nil && t.logger != nil {
		t.logger.Error(fmt.Sprintf("failed to persist interruption snapshot: %v", err))
	}
}

type historyDocument struct {
	History   []SessionSummary `json:"history"`
	UpdatedAt time.Time        `json:"last_updated"`
}
