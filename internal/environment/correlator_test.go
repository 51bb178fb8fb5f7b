package environment

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
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

type testLogger struct{}

func (testLogger) Debug(string) {}
func (testLogger) Error(string) {}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

var testBase = time.Date(2025, time.April, 7, 10, 0, 0, 0, time.UTC) // Monday

func finalizedRecord(start time.Time, perf float64) domain.SessionRecord {
	return domain.SessionRecord{
		StartTime:       start,
		EndTime:         start.Add(25 * time.Minute),
		FocusScore:      perf,
		EfficiencyScore: perf,
		Environment:     domain.TagFor(start),
		Finalized:       true,
	}
}

func newTestCorrelator() (*Correlator, *mockStore) {
	store := newMockStore()
	c := NewCorrelator(store, testLogger{})
	c.clock = func() time.Time { return testBase }
	return c, store
}

func TestDetectOptimalWindow_HourBucket(t *testing.T) {
	c, _ := newTestCorrelator()
	for i := 0; i < 3; i++ {
		c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -i), 80))
	}

	w := c.DetectOptimalWindow()
	if w.Insufficient != nil {
		t.Fatalf("expected a window, got insufficient: %+v", w.Insufficient)
	}
	if w.Kind != "hour" || w.Hour != 10 {
		t.Errorf("window = (%s, %d), want (hour, 10)", w.Kind, w.Hour)
	}
	if w.Mean != 80 {
		t.Errorf("Mean = %v, want 80", w.Mean)
	}
	if w.Samples != 3 {
		t.Errorf("Samples = %d, want 3", w.Samples)
	}
}

func TestDetectOptimalWindow_WeekdayFallback(t *testing.T) {
	c, _ := newTestCorrelator()
	// Two Mondays at different hours: no hour bucket reaches three
	// samples, but the weekday bucket qualifies.
	c.SessionEnded(finalizedRecord(testBase, 70))
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -7).Add(3*time.Hour), 72))

	w := c.DetectOptimalWindow()
	if w.Kind != "weekday" || w.Weekday != time.Monday {
		t.Errorf("window = (%s, %v), want (weekday, Monday)", w.Kind, w.Weekday)
	}
	if w.Mean != 71 {
		t.Errorf("Mean = %v, want 71", w.Mean)
	}
}

func TestDetectOptimalWindow_Insufficient(t *testing.T) {
	c, _ := newTestCorrelator()
	c.SessionEnded(finalizedRecord(testBase, 95))

	w := c.DetectOptimalWindow()
	if w.Insufficient == nil {
		t.Fatal("one session should not qualify any window")
	}
	if w.Insufficient.Actual != 1 {
		t.Errorf("Actual = %d, want 1", w.Insufficient.Actual)
	}
}

func TestDetectOptimalWindow_BelowThresholdMean(t *testing.T) {
	c, _ := newTestCorrelator()
	for i := 0; i < 4; i++ {
		c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -i*7), 50))
	}
	if w := c.DetectOptimalWindow(); w.Insufficient == nil {
		t.Errorf("mediocre performance should not qualify, got %+v", w)
	}
}

func TestSessionEnded_IgnoresUnfinalized(t *testing.T) {
	c, _ := newTestCorrelator()
	rec := finalizedRecord(testBase, 90)
	rec.Finalized = false
	c.SessionEnded(rec)

	if got := c.GetInsights(30).Sessions; got != 0 {
		t.Errorf("unfinalized record was counted, sessions = %d", got)
	}
}

func TestGetInsights_WeekdayVsWeekend(t *testing.T) {
	c, _ := newTestCorrelator()
	// Strong weekday mornings, weak weekend sessions.
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -7), 90)) // Monday
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -6), 90)) // Tuesday
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -2), 70)) // Saturday
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -1), 70)) // Sunday

	in := c.GetInsights(30)
	if in.Insufficient != nil {
		t.Fatalf("unexpected insufficient: %+v", in.Insufficient)
	}
	if in.Sessions != 4 {
		t.Errorf("Sessions = %d, want 4", in.Sessions)
	}
	if in.WeekdayMean != 90 || in.WeekendMean != 70 {
		t.Errorf("means = (%v, %v), want (90, 70)", in.WeekdayMean, in.WeekendMean)
	}
	if in.BestTimePeriod != domain.PeriodMorning {
		t.Errorf("BestTimePeriod = %v, want morning", in.BestTimePeriod)
	}
	if in.Recommendation == "" {
		t.Error("a 20-point weekday edge should produce a recommendation")
	}
}

func TestGetInsights_WindowExcludesOldSessions(t *testing.T) {
	c, _ := newTestCorrelator()
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -40), 90))
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -3), 60))

	in := c.GetInsights(30)
	if in.Sessions != 1 {
		t.Errorf("Sessions = %d, want 1", in.Sessions)
	}
}

func TestGetInsights_EmptyWindow(t *testing.T) {
	c, _ := newTestCorrelator()
	in := c.GetInsights(7)
	if in.Insufficient == nil {
		t.Error("empty window should report insufficient data")
	}
}

func TestHeatmap_RequiresTwoSamplesPerCell(t *testing.T) {
	c, _ := newTestCorrelator()
	// Two Monday-10:00 sessions, one lone Tuesday session.
	c.SessionEnded(finalizedRecord(testBase, 80))
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -7), 90))
	c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -6), 85))

	cells := c.Heatmap()
	if len(cells) != 1 {
		t.Fatalf("cells = %d, want 1", len(cells))
	}
	cell := cells[0]
	if cell.Weekday != time.Monday || cell.Hour != 10 {
		t.Errorf("cell = (%v, %d), want (Monday, 10)", cell.Weekday, cell.Hour)
	}
	if cell.Mean != 85 {
		t.Errorf("Mean = %v, want 85", cell.Mean)
	}
	if cell.Samples != 2 {
		t.Errorf("Samples = %d, want 2", cell.Samples)
	}
}

func TestCorrelator_SnapshotRoundTrip(t *testing.T) {
	c, store := newTestCorrelator()
	for i := 0; i < 3; i++ {
		c.SessionEnded(finalizedRecord(testBase.AddDate(0, 0, -i), 80))
	}
	waitFor(t, func() bool {
		var doc snapshotDocument
		if err := store.Load(context.Background(), "environment", &doc); err != nil {
			return false
		}
		return len(doc.Records) == 3
	})

	fresh := NewCorrelator(store, testLogger{})
	fresh.clock = func() time.Time { return testBase }

	w := fresh.DetectOptimalWindow()
	if w.Kind != "hour" || w.Hour != 10 || w.Samples != 3 {
		t.Errorf("restored window = %+v, want hour 10 with 3 samples", w)
	}
	if fresh.GetInsights(30).Sessions != 3 {
		t.Errorf("restored records missing, sessions = %d", fresh.GetInsights(30).Sessions)
	}
}
