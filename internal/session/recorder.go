package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/focus"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	defaultSampleInterval = 10 * time.Second
	defaultHistoryCap     = 1000

	persistTimeout = 5 * time.Second
)

// Config tunes the recorder. Zero values fall back to defaults.
type Config struct {
	SampleInterval time.Duration
	HistoryCap     int
}

// Recorder is the session event store. It owns the single in-progress
// record, drives periodic focus sampling, and appends finalized records to
// a capped history backed by best-effort snapshot persistence.
//
// All writes to the record and history are serialized behind one mutex;
// readers get copy-on-read snapshots.
type Recorder struct {
	mu      sync.Mutex
	cfg     Config
	store   ports.SnapshotStore
	export  ports.MetricsExporter
	logger  ports.Logger
	clock   func() time.Time
	history []domain.SessionRecord

	active      *domain.SessionRecord
	stopSampler chan struct{}
	levels      focus.LevelTracker

	finalizedListeners []func(domain.SessionRecord)
	sampleListeners    []func(domain.FocusSample)
	levelListeners     []func(focus.Level, float64)
}

// NewRecorder builds a recorder and loads any persisted history snapshot.
// A missing snapshot is not an error; a corrupt one is logged and skipped.
func NewRecorder(store ports.SnapshotStore, export ports.MetricsExporter, logger ports.Logger, cfg Config) *Recorder {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = defaultSampleInterval
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = defaultHistoryCap
	}
	r := &Recorder{
		cfg:    cfg,
		store:  store,
		export: export,
		logger: logger,
		clock:  time.Now,
	}

	var doc historyDocument
	if err := store.Load(context.Background(), ports.SnapshotSessions, &doc); err == nil {
		r.history = doc.Sessions
		if len(r.history) > cfg.HistoryCap {
			r.history = r.history[len(r.history)-cfg.HistoryCap:]
		}
	} else if logger != nil {
		logger.Debug(fmt.Sprintf("no session snapshot loaded: %v", err))
	}
	return r
}

// OnFinalized registers a consumer of finalized records. Not safe to call
// once sessions are running.
func (r *Recorder) OnFinalized(fn func(domain.SessionRecord)) {
	r.finalizedListeners = append(r.finalizedListeners, fn)
}

// OnSample registers a consumer of the continuous per-tick focus signal.
func (r *Recorder) OnSample(fn func(domain.FocusSample)) {
	r.sampleListeners = append(r.sampleListeners, fn)
}

// OnLevelChange registers a consumer of the edge-triggered focus level
// channel. It fires only on category transitions.
func (r *Recorder) OnLevelChange(fn func(focus.Level, float64)) {
	r.levelListeners = append(r.levelListeners, fn)
}

// Start begins a new in-progress record and starts periodic sampling.
// Corrupt planned durations are clamped, never propagated.
func (r *Recorder) Start(sessionType domain.SessionType, planned time.Duration) (*domain.SessionRecord, error) {
	if !sessionType.Valid() {
		return nil, domain.Validationf("session type", "unknown type %q", sessionType)
	}

	r.mu.Lock()
	if r.active != nil {
		r.mu.Unlock()
		return nil, domain.Validationf("session", "session %s is still active", r.active.ID)
	}

	now := r.clock()
	rec := &domain.SessionRecord{
		ID:              uuid.NewString(),
		Type:            sessionType,
		PlannedDuration: domain.ClampPlannedDuration(planned),
		StartTime:       now,
		Interactions:    []domain.InteractionEvent{},
		Interruptions:   []domain.InterruptionEvent{},
		Environment:     domain.TagFor(now),
	}
	r.active = rec
	r.levels.Reset()
	r.stopSampler = make(chan struct{})
	go r.runSampler(r.stopSampler)

	out := rec.Clone()
	r.mu.Unlock()
	return &out, nil
}

// RecordInteraction appends an interaction event to the active session.
// No-op when no session is active.
func (r *Recorder) RecordInteraction(kind domain.InteractionKind, details map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return
	}
	now := r.clock()
	r.active.Interactions = append(r.active.Interactions, domain.InteractionEvent{
		Timestamp:   now,
		Kind:        kind,
		Details:     details,
		SessionTime: now.Sub(r.active.StartTime),
	})
}

// RecordInterruption appends a committed interruption event to the active
// session. No-op when no session is active.
func (r *Recorder) RecordInterruption(ev domain.InterruptionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return
	}
	r.active.Interruptions = append(r.active.Interruptions, ev)
}

// EndOption mutates a record between finalization and persistence.
type EndOption func(*domain.SessionRecord)

// WithRating attaches an optional 1-5 productivity rating. Out-of-range
// values are dropped.
func WithRating(rating int) EndOption {
	return func(rec *domain.SessionRecord) {
		if rating >= 1 && rating <= 5 {
			rec.Rating = &rating
		}
	}
}

// WithNotes attaches free-form notes.
func WithNotes(notes string) EndOption {
	return func(rec *domain.SessionRecord) {
		rec.Notes = notes
	}
}

// End stops sampling, finalizes the active record, appends it to the
// capped history, persists the snapshot, and returns the record. Calling
// End with no active session is a no-op returning nil.
func (r *Recorder) End(completed bool, opts ...EndOption) *domain.SessionRecord {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return nil
	}
	if r.stopSampler != nil {
		close(r.stopSampler)
		r.stopSampler = nil
	}

	rec := r.active
	r.active = nil

	now := r.clock()
	rec.EndTime = now
	rec.ActualDuration = now.Sub(rec.StartTime)
	rec.Completed = completed
	rec.FocusScore = finalFocusScore(rec, now)
	rec.EfficiencyScore = efficiencyScore(rec)
	rec.Finalized = true
	for _, opt := range opts {
		opt(rec)
	}

	r.history = append(r.history, *rec)
	if len(r.history) > r.cfg.HistoryCap {
		r.history = r.history[len(r.history)-r.cfg.HistoryCap:]
	}
	snapshot := append([]domain.SessionRecord(nil), r.history...)
	out := rec.Clone()
	listeners := r.finalizedListeners
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(out)
	}
	go r.persist(snapshot)
	go r.exportMetrics(out)

	result := out
	return &result
}

// Active returns a copy of the in-progress record, or nil.
func (r *Recorder) Active() *domain.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return nil
	}
	out := r.active.Clone()
	return &out
}

// History returns a copy-on-read snapshot of finalized records.
func (r *Recorder) History() []domain.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SessionRecord, len(r.history))
	for i := range r.history {
		out[i] = r.history[i].Clone()
	}
	return out
}

// HistoryRange returns finalized records starting in [start, end).
func (r *Recorder) HistoryRange(start, end time.Time) []domain.SessionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SessionRecord
	for i := range r.history {
		st := r.history[i].StartTime
		if !st.Before(start) && st.Before(end) {
			out = append(out, r.history[i].Clone())
		}
	}
	return out
}

// runSampler appends one focus sample per tick until stopped. It never
// blocks session control: each tick takes the lock briefly and fans out
// notifications outside it.
func (r *Recorder) runSampler(stop chan struct{}) {
	ticker := time.NewTicker(r.cfg.SampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.sampleOnce()
		}
	}
}

// sampleOnce records one focus sample and fires the continuous and
// edge-triggered notification channels.
func (r *Recorder) sampleOnce() {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return
	}
	now := r.clock()
	in := liveInput(r.active, now)
	sample := domain.FocusSample{Timestamp: now, Score: focus.TickScore(in)}
	r.active.Samples = append(r.active.Samples, sample)

	live := focus.LiveScore(in)
	level, changed := r.levels.Observe(live.Score)
	sampleFns := r.sampleListeners
	levelFns := r.levelListeners
	r.mu.Unlock()

	for _, fn := range sampleFns {
		fn(sample)
	}
	if changed {
		for _, fn := range levelFns {
			fn(level, live.Score)
		}
	}
}

// persist rewrites the full session snapshot. Failures are logged and
// swallowed: durability here is best-effort, not transactional.
func (r *Recorder) persist(records []domain.SessionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	doc := historyDocument{Sessions: records, UpdatedAt: r.clock()}
	if err := r.store.Save(ctx, ports.SnapshotSessions, doc); err != nil && r.logger != nil {
		r.logger.Error(fmt.Sprintf("failed to persist session snapshot: %v", err))
	}
}

func (r *Recorder) exportMetrics(rec domain.SessionRecord) {
	if r.export == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	m := &ports.SessionMetrics{
		SessionID:       rec.ID,
		Type:            string(rec.Type),
		DurationSeconds: rec.ActualDuration.Seconds(),
		FocusScore:      rec.FocusScore,
		EfficiencyScore: rec.EfficiencyScore,
		Interruptions:   int64(len(rec.Interruptions)),
		Completed:       rec.Completed,
	}
	if err := r.export.ExportSessionMetrics(ctx, m); err != nil && r.logger != nil {
		r.logger.Error(fmt.Sprintf("failed to export session metrics: %v", err))
	}
}

// historyDocument is the durable snapshot shape, rewritten in full on
// every mutation.
type historyDocument struct {
	Sessions  []domain.SessionRecord `json:"sessions"`
	UpdatedAt time.Time              `json:"last_updated"`
}
