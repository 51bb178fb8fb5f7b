package interruption

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

type mockSink struct {
	mu     sync.Mutex
	events []domain.InterruptionEvent
}

func (s *mockSink) RecordInterruption(ev domain.InterruptionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *mockSink) all() []domain.InterruptionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.InterruptionEvent(nil), s.events...)
}

type mockNotifier struct {
	mu            sync.Mutex
	interruptions []domain.InterruptionEvent
	patterns      []ports.PatternAlert
}

func (n *mockNotifier) InterruptionDetected(ev domain.InterruptionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.interruptions = append(n.interruptions, ev)
}

func (n *mockNotifier) PatternDetected(alert ports.PatternAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.patterns = append(n.patterns, alert)
}

func (n *mockNotifier) patternKinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var kinds []string
	for _, p := range n.patterns {
		kinds = append(kinds, p.Kind)
	}
	return kinds
}

type mockStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{docs: make(map[string][]byte)}
}

func (s *mockStore) Save(_ context.Context, name string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = data
	return nil
}

func (s *mockStore) Load(_ context.Context, name string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(data, out)
}

type testLogger struct{}

func (testLogger) Debug(string) {}
func (testLogger) Error(string) {}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTracker(sink *mockSink, notifier *mockNotifier) (*Tracker, *testClock) {
	t := NewTracker(sink, notifier, newMockStore(), testLogger{})
	clock := &testClock{now: time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC)}
	t.clock = clock.Now
	return t, clock
}

func TestTracker_ShortPauseDiscarded(t *testing.T) {
	sink := &mockSink{}
	tr, clock := newTestTracker(sink, &mockNotifier{})

	tr.SessionStarted()
	tr.RecordPauseStart()
	clock.Advance(9 * time.Second)
	tr.RecordPauseEnd()

	if len(sink.all()) != 0 {
		t.Errorf("pause under ten seconds should be discarded, got %d events", len(sink.all()))
	}
}

func TestTracker_PauseCommittedWithSeverity(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     domain.Severity
	}{
		{"short pause is low", 15 * time.Second, domain.SeverityLow},
		{"minute pause is medium", time.Minute, domain.SeverityMedium},
		{"long pause is high", 3 * time.Minute, domain.SeverityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mockSink{}
			notifier := &mockNotifier{}
			tr, clock := newTestTracker(sink, notifier)

			tr.SessionStarted()
			tr.RecordPauseStart()
			clock.Advance(tt.duration)
			tr.RecordPauseEnd()

			events := sink.all()
			if len(events) != 1 {
				t.Fatalf("expected 1 committed event, got %d", len(events))
			}
			ev := events[0]
			if ev.Type != domain.InterruptionManualPause {
				t.Errorf("Type = %v, want manual_pause", ev.Type)
			}
			if ev.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", ev.Duration, tt.duration)
			}
			if ev.Severity != tt.want {
				t.Errorf("Severity = %v, want %v", ev.Severity, tt.want)
			}
			if len(notifier.interruptions) != 1 {
				t.Errorf("notifier should receive the committed event")
			}
		})
	}
}

func TestTracker_ActivityClosesOpenPause(t *testing.T) {
	sink := &mockSink{}
	tr, clock := newTestTracker(sink, &mockNotifier{})

	tr.SessionStarted()
	tr.RecordPauseStart()
	clock.Advance(45 * time.Second)
	tr.RecordUserActivity()

	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("activity should close and commit the open pause, got %d events", len(events))
	}
	if events[0].Severity != domain.SeverityMedium {
		t.Errorf("Severity = %v, want medium", events[0].Severity)
	}
}

func TestTracker_PauseIgnoredWhenIdle(t *testing.T) {
	sink := &mockSink{}
	tr, clock := newTestTracker(sink, &mockNotifier{})

	// No SessionStarted: pause signals are noise.
	tr.RecordPauseStart()
	clock.Advance(time.Minute)
	tr.RecordPauseEnd()

	if len(sink.all()) != 0 {
		t.Error("pause outside a session should be ignored")
	}
}

func TestTracker_ExternalSeverityPresets(t *testing.T) {
	sink := &mockSink{}
	tr, _ := newTestTracker(sink, &mockNotifier{})
	tr.SessionStarted()

	tr.RecordExternal("phone_call", "call from school")
	tr.RecordExternal("doorbell", "")

	events := sink.all()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != domain.ExternalInterruption("phone_call") || events[0].Severity != domain.SeverityHigh {
		t.Errorf("phone_call = (%v, %v), want external:phone_call high", events[0].Type, events[0].Severity)
	}
	if events[0].Description != "call from school" {
		t.Errorf("Description = %q", events[0].Description)
	}
	if events[1].Severity != domain.SeverityMedium {
		t.Errorf("unknown kinds default to medium, got %v", events[1].Severity)
	}
}

func TestTracker_InactivityDetection(t *testing.T) {
	sink := &mockSink{}
	tr, clock := newTestTracker(sink, &mockNotifier{})
	tr.SessionStarted()

	clock.Advance(179 * time.Second)
	tr.CheckInactivity()
	if len(sink.all()) != 0 {
		t.Fatal("gap under the threshold should not fire")
	}

	clock.Advance(time.Second)
	tr.CheckInactivity()
	events := sink.all()
	if len(events) != 1 {
		t.Fatalf("expected inactivity event, got %d", len(events))
	}
	if events[0].Type != domain.InterruptionInactivity {
		t.Errorf("Type = %v, want inactivity", events[0].Type)
	}
	if events[0].Duration != 180*time.Second {
		t.Errorf("Duration = %v, want 3m", events[0].Duration)
	}

	// The activity clock was reset: the same gap must not fire twice.
	tr.CheckInactivity()
	if len(sink.all()) != 1 {
		t.Error("same inactivity gap fired twice")
	}

	clock.Advance(inactivityThreshold)
	tr.CheckInactivity()
	if len(sink.all()) != 2 {
		t.Error("a fresh gap past the threshold should fire again")
	}
}

func TestTracker_InactivityIgnoredWhilePaused(t *testing.T) {
	sink := &mockSink{}
	tr, clock := newTestTracker(sink, &mockNotifier{})
	tr.SessionStarted()
	tr.RecordPauseStart()

	clock.Advance(10 * time.Minute)
	tr.CheckInactivity()
	if len(sink.all()) != 0 {
		t.Error("paused sessions are not inactive, they are paused")
	}
}

func TestTracker_SessionEndedAggregatesAndMines(t *testing.T) {
	notifier := &mockNotifier{}
	tr, clock := newTestTracker(&mockSink{}, notifier)

	// Three sessions averaging well above the frequency threshold.
	for i := 0; i < 3; i++ {
		tr.SessionStarted()
		rec := domain.SessionRecord{
			ID:        "s" + string(rune('a'+i)),
			StartTime: clock.Now(),
			EndTime:   clock.Now().Add(25 * time.Minute),
		}
		for j := 0; j < 7; j++ {
			rec.Interruptions = append(rec.Interruptions, domain.InterruptionEvent{
				Type: domain.InterruptionManualPause,
			})
		}
		tr.SessionEnded(rec)
		clock.Advance(time.Hour)
	}

	history := tr.History()
	if len(history) != 3 {
		t.Fatalf("history = %d, want 3", len(history))
	}
	if history[0].Total != 7 {
		t.Errorf("Total = %d, want 7", history[0].Total)
	}
	if history[0].ByType[domain.InterruptionManualPause] != 7 {
		t.Errorf("ByType[manual_pause] = %d, want 7", history[0].ByType[domain.InterruptionManualPause])
	}

	kinds := notifier.patternKinds()
	var sawFrequency, sawDominant bool
	for _, k := range kinds {
		if k == "high_frequency" {
			sawFrequency = true
		}
		if k == "dominant_type" {
			sawDominant = true
		}
	}
	if !sawFrequency {
		t.Errorf("expected high_frequency alert, got %v", kinds)
	}
	if !sawDominant {
		t.Errorf("expected dominant_type alert, got %v", kinds)
	}
}

func TestMinePatterns_BelowMinimumHistory(t *testing.T) {
	history := []SessionSummary{
		{Total: 20}, {Total: 20},
	}
	if alerts := MinePatterns(history); alerts != nil {
		t.Errorf("two sessions should mine nothing, got %v", alerts)
	}
}

func TestMineTimeOfDay(t *testing.T) {
	history := []SessionSummary{
		{Hour: 14, Total: 6},
		{Hour: 14, Total: 5},
		{Hour: 9, Total: 0},
	}
	alerts := mineTimeOfDay(history)
	if len(alerts) != 1 {
		t.Fatalf("expected one heavy hour, got %d", len(alerts))
	}
	if alerts[0].Kind != "time_of_day" {
		t.Errorf("Kind = %q", alerts[0].Kind)
	}
}
