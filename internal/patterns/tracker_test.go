package patterns

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

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

type mockNotifier struct {
	mu     sync.Mutex
	alerts []ports.PatternAlert
}

func (n *mockNotifier) InterruptionDetected(domain.InterruptionEvent) {}

func (n *mockNotifier) PatternDetected(alert ports.PatternAlert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func (n *mockNotifier) kinds() map[string]bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]bool)
	for _, a := range n.alerts {
		out[a.Kind] = true
	}
	return out
}

type testLogger struct{}

func (testLogger) Debug(string) {}
func (testLogger) Error(string) {}

var testBase = time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC) // Monday

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newTestTracker(notifier *mockNotifier) *Tracker {
	t := NewTracker(newMockStore(), notifier, testLogger{})
	t.clock = func() time.Time { return testBase.Add(12 * time.Hour) }
	return t
}

func workRecord(start time.Time, efficiency, focus float64, completed bool, interruptions int) domain.SessionRecord {
	rec := domain.SessionRecord{
		Type:            domain.SessionWork,
		StartTime:       start,
		EndTime:         start.Add(25 * time.Minute),
		EfficiencyScore: efficiency,
		FocusScore:      focus,
		Completed:       completed,
		Finalized:       true,
	}
	for i := 0; i < interruptions; i++ {
		rec.Interruptions = append(rec.Interruptions, domain.InterruptionEvent{
			Type: domain.InterruptionManualPause,
		})
	}
	return rec
}

func TestMine_InsufficientHistory(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	for i := 0; i < 4; i++ {
		tr.SessionEnded(workRecord(testBase.Add(time.Duration(i)*time.Hour), 80, 80, true, 0))
	}

	result := tr.Mine()
	if result.Insufficient == nil {
		t.Fatal("four sessions should be below the mining minimum")
	}
	if result.Insufficient.Required != 5 || result.Insufficient.Actual != 4 {
		t.Errorf("insufficient = %+v, want required 5 actual 4", result.Insufficient)
	}
}

func TestMine_OptimalHour(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	// Three strong sessions at 09:00 plus filler at other hours.
	for i := 0; i < 3; i++ {
		tr.SessionEnded(workRecord(testBase.AddDate(0, 0, -i), 90, 85, true, 0))
	}
	tr.SessionEnded(workRecord(testBase.Add(5*time.Hour), 60, 60, true, 0))
	tr.SessionEnded(workRecord(testBase.Add(7*time.Hour), 60, 60, true, 0))

	result := tr.Mine()
	if result.Insufficient != nil {
		t.Fatalf("unexpected insufficient: %+v", result.Insufficient)
	}
	var found bool
	for _, a := range result.Patterns {
		if a.Kind == "optimal_hour" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected optimal_hour alert, got %+v", result.Patterns)
	}
}

func TestMine_EfficiencyDecline(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	// Spread across hours so no hour bucket qualifies; early sessions
	// strong, last five weak.
	for i := 0; i < 5; i++ {
		tr.SessionEnded(workRecord(testBase.AddDate(0, 0, -3).Add(time.Duration(i)*time.Hour), 85, 70, true, 0))
	}
	for i := 0; i < 5; i++ {
		tr.SessionEnded(workRecord(testBase.AddDate(0, 0, -1).Add(time.Duration(i)*time.Hour), 60, 70, true, 0))
	}

	result := tr.Mine()
	var found bool
	for _, a := range result.Patterns {
		if a.Kind == "efficiency_declining" {
			found = true
		}
	}
	if !found {
		t.Errorf("25-point drop should flag a decline, got %+v", result.Patterns)
	}
}

func TestMine_InterruptionFrequency(t *testing.T) {
	tests := []struct {
		name          string
		interruptions []int
		want          bool
	}{
		{"frequent and widespread", []int{5, 6, 4, 5, 0, 6}, true},
		{"high average but concentrated", []int{20, 0, 0, 0, 0, 1}, false},
		{"widespread but low average", []int{4, 4, 0, 0, 0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(&mockNotifier{})
			for i, n := range tt.interruptions {
				tr.SessionEnded(workRecord(testBase.Add(time.Duration(i)*time.Hour), 70, 70, true, n))
			}

			var found bool
			for _, a := range tr.Mine().Patterns {
				if a.Kind == "interruption_frequency" {
					found = true
				}
			}
			if found != tt.want {
				t.Errorf("interruption_frequency = %v, want %v", found, tt.want)
			}
		})
	}
}

func TestMine_WindowExcludesOldSessions(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	// Enough total history to mine, but everything outside the window.
	for i := 0; i < 6; i++ {
		tr.SessionEnded(workRecord(testBase.AddDate(0, 0, -10).Add(time.Duration(i)*time.Hour), 95, 95, true, 10))
	}

	result := tr.Mine()
	if result.Insufficient != nil {
		t.Fatalf("unexpected insufficient: %+v", result.Insufficient)
	}
	if len(result.Patterns) != 0 {
		t.Errorf("stale sessions should not mine patterns, got %+v", result.Patterns)
	}
}

func TestTrendPoint_RequiresThreeWorkSessions(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	tr.SessionEnded(workRecord(testBase, 80, 80, true, 0))
	tr.SessionEnded(workRecord(testBase.Add(time.Hour), 80, 80, true, 0))

	if got := tr.TrendSeries(); len(got) != 0 {
		t.Fatalf("two work sessions should not produce a trend point, got %+v", got)
	}

	breakRec := workRecord(testBase.Add(2*time.Hour), 0, 0, true, 0)
	breakRec.Type = domain.SessionShortBreak
	tr.SessionEnded(breakRec)
	if got := tr.TrendSeries(); len(got) != 0 {
		t.Fatalf("breaks do not count toward the trend, got %+v", got)
	}

	tr.SessionEnded(workRecord(testBase.Add(3*time.Hour), 80, 80, true, 0))
	series := tr.TrendSeries()
	if len(series) != 1 {
		t.Fatalf("series = %d points, want 1", len(series))
	}
	point := series[0]
	if point.Date != "2025-04-07" {
		t.Errorf("Date = %q, want 2025-04-07", point.Date)
	}
	if point.Sessions != 3 {
		t.Errorf("Sessions = %d, want 3", point.Sessions)
	}
	// All completed at 80/80: 1.0*30 + 80*0.4 + 80*0.3 = 86.
	if !approx(point.Score, 86) {
		t.Errorf("Score = %v, want 86", point.Score)
	}
}

func TestTrendPoint_ReplacedForSameDay(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	for i := 0; i < 3; i++ {
		tr.SessionEnded(workRecord(testBase.Add(time.Duration(i)*time.Hour), 80, 80, true, 0))
	}
	tr.SessionEnded(workRecord(testBase.Add(4*time.Hour), 40, 40, false, 0))

	series := tr.TrendSeries()
	if len(series) != 1 {
		t.Fatalf("same-day sessions must update in place, got %d points", len(series))
	}
	if series[0].Sessions != 4 {
		t.Errorf("Sessions = %d, want 4", series[0].Sessions)
	}
	// 3/4 completed, mean 70/70: 0.75*30 + 70*0.4 + 70*0.3 = 71.5.
	if !approx(series[0].Score, 71.5) {
		t.Errorf("Score = %v, want 71.5", series[0].Score)
	}
}

func TestOnTrendUpdated(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	var points []TrendPoint
	tr.OnTrendUpdated(func(p TrendPoint) { points = append(points, p) })

	for i := 0; i < 3; i++ {
		tr.SessionEnded(workRecord(testBase.Add(time.Duration(i)*time.Hour), 80, 80, true, 0))
	}
	if len(points) != 1 {
		t.Fatalf("listener fired %d times, want 1", len(points))
	}
	if !approx(points[0].Score, 86) {
		t.Errorf("Score = %v, want 86", points[0].Score)
	}
}

func TestSeed_LoadsWithoutNotifying(t *testing.T) {
	notifier := &mockNotifier{}
	tr := newTestTracker(notifier)

	var records []domain.SessionRecord
	for i := 0; i < 6; i++ {
		records = append(records, workRecord(testBase.Add(time.Duration(i)*time.Hour), 90, 85, true, 0))
	}
	tr.Seed(records)

	if len(notifier.alerts) != 0 {
		t.Errorf("seeding must not notify, got %d alerts", len(notifier.alerts))
	}
	if tr.Mine().Insufficient != nil {
		t.Error("seeded history should satisfy the mining minimum")
	}
	if len(tr.TrendSeries()) != 0 {
		t.Error("seeding must not synthesize trend points")
	}
}

func TestSessionEnded_IgnoresUnfinalized(t *testing.T) {
	tr := newTestTracker(&mockNotifier{})
	rec := workRecord(testBase, 80, 80, true, 0)
	rec.Finalized = false
	tr.SessionEnded(rec)

	if tr.Mine().Insufficient.Actual != 0 {
		t.Error("unfinalized record was counted")
	}
}

func TestSessionEnded_NotifiesMinedPatterns(t *testing.T) {
	notifier := &mockNotifier{}
	tr := newTestTracker(notifier)
	for i := 0; i < 6; i++ {
		tr.SessionEnded(workRecord(testBase.AddDate(0, 0, -i%3), 90, 85, true, 0))
	}

	if !notifier.kinds()["optimal_hour"] {
		t.Errorf("expected optimal_hour via notifier, got %+v", notifier.alerts)
	}
}
