package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/environment"
	"github.com/tmpllc001/focusmetrics/internal/focus"
)

type mockHistory struct {
	records []domain.SessionRecord
}

func (m *mockHistory) History() []domain.SessionRecord {
	return append([]domain.SessionRecord(nil), m.records...)
}

func (m *mockHistory) HistoryRange(start, end time.Time) []domain.SessionRecord {
	var out []domain.SessionRecord
	for _, r := range m.records {
		if !r.StartTime.Before(start) && r.StartTime.Before(end) {
			out = append(out, r)
		}
	}
	return out
}

type testLogger struct{}

func (testLogger) Debug(string) {}
func (testLogger) Error(string) {}

// nopStore backs the correlator without touching disk.
type nopStore struct{}

func (nopStore) Save(context.Context, string, any) error { return nil }
func (nopStore) Load(context.Context, string, any) error { return domain.ErrNotFound }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var testBase = time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC) // Monday

func session(id string, start time.Time, focusScore, efficiency float64, completed bool, interruptions int) domain.SessionRecord {
	rec := domain.SessionRecord{
		ID:              id,
		Type:            domain.SessionWork,
		StartTime:       start,
		EndTime:         start.Add(25 * time.Minute),
		ActualDuration:  25 * time.Minute,
		FocusScore:      focusScore,
		EfficiencyScore: efficiency,
		Completed:       completed,
		Environment:     domain.TagFor(start),
		Finalized:       true,
	}
	for i := 0; i < interruptions; i++ {
		rec.Interruptions = append(rec.Interruptions, domain.InterruptionEvent{
			Type: domain.InterruptionManualPause,
		})
	}
	return rec
}

func newTestEngine(history *mockHistory) *Engine {
	env := environment.NewCorrelator(nopStore{}, testLogger{})
	e := NewEngine(history, compare.NewService(history), env, testLogger{})
	e.clock = func() time.Time { return testBase.AddDate(0, 0, 1) }
	return e
}

func testRange() compare.DateRange {
	return compare.DateRange{Start: testBase.AddDate(0, 0, -7), End: testBase.AddDate(0, 0, 1)}
}

func hasRecommendation(recs []string, fragment string) bool {
	for _, r := range recs {
		if strings.Contains(r, fragment) {
			return true
		}
	}
	return false
}

func TestGenerate_WeakPeriodRecommendations(t *testing.T) {
	history := &mockHistory{records: []domain.SessionRecord{
		session("a", testBase, 50, 55, false, 2),
		session("b", testBase.Add(time.Hour), 55, 60, false, 1),
		session("c", testBase.Add(2*time.Hour), 45, 50, false, 3),
		session("d", testBase.Add(3*time.Hour), 50, 55, true, 0),
	}}
	e := newTestEngine(history)

	report, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Insufficient != nil {
		t.Fatalf("unexpected insufficient: %+v", report.Insufficient)
	}

	recs := report.Recommendations
	if !hasRecommendation(recs, "Completion") {
		t.Errorf("25%% completion should trigger advice, got %v", recs)
	}
	if !hasRecommendation(recs, "focus") {
		t.Errorf("sub-60 focus should trigger advice, got %v", recs)
	}
	if !hasRecommendation(recs, "interrupted") {
		t.Errorf("3 of 4 sessions interrupted should trigger advice, got %v", recs)
	}
	if !hasRecommendation(recs, "strongest window") {
		t.Errorf("a confident best period should be surfaced, got %v", recs)
	}
}

func TestGenerate_ComprehensiveSections(t *testing.T) {
	history := &mockHistory{}
	for i := 0; i < 6; i++ {
		history.records = append(history.records,
			session(fmt.Sprintf("s%d", i), testBase.AddDate(0, 0, -i).Add(time.Hour), 70+float64(i), 75, true, 0))
	}
	history.records[0].Interruptions = []domain.InterruptionEvent{
		{Type: domain.InterruptionManualPause, Severity: domain.SeverityLow},
		{Type: domain.ExternalInterruption("phone_call"), Severity: domain.SeverityHigh},
	}
	history.records[1].Interruptions = []domain.InterruptionEvent{
		{Type: domain.InterruptionManualPause, Severity: domain.SeverityMedium},
	}

	e := newTestEngine(history)
	for _, rec := range history.records {
		e.env.SessionEnded(rec)
	}

	report, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ia := report.Interruptions
	if ia.Total != 3 {
		t.Errorf("interruption total = %d, want 3", ia.Total)
	}
	if ia.ByType[domain.InterruptionManualPause] != 2 {
		t.Errorf("manual pauses = %d, want 2", ia.ByType[domain.InterruptionManualPause])
	}
	if ia.ByType[domain.ExternalInterruption("phone_call")] != 1 {
		t.Errorf("phone calls = %d, want 1", ia.ByType[domain.ExternalInterruption("phone_call")])
	}
	if ia.BySeverity[domain.SeverityHigh] != 1 {
		t.Errorf("high severity = %d, want 1", ia.BySeverity[domain.SeverityHigh])
	}
	if !approx(ia.PerSession, 0.5) {
		t.Errorf("per session = %v, want 0.5", ia.PerSession)
	}
	if !approx(ia.InterruptedShare, 1.0/3) {
		t.Errorf("interrupted share = %v, want 1/3", ia.InterruptedShare)
	}

	ow := report.Environment.OptimalWindow
	if ow.Kind != "hour" || ow.Hour != 10 {
		t.Errorf("optimal window = %+v, want the 10:00 hour", ow)
	}
	if got := report.Environment.Insights.LookbackDays; got != 8 {
		t.Errorf("insights lookback = %d, want the 8-day range", got)
	}

	if report.Trends.Insufficient != nil {
		t.Fatalf("unexpected insufficient trends: %+v", report.Trends.Insufficient)
	}
	if len(report.Trends.Trends) != 3 {
		t.Errorf("trend metrics = %d, want 3", len(report.Trends.Trends))
	}

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	for _, key := range []string{"interruption_analysis", "environment", "trend_analysis"} {
		if !strings.Contains(string(raw), `"`+key+`"`) {
			t.Errorf("report JSON is missing the %q section", key)
		}
	}
}

func TestGenerate_AffirmationWhenSolid(t *testing.T) {
	history := &mockHistory{records: []domain.SessionRecord{
		session("a", testBase, 90, 95, true, 0),
	}}
	e := newTestEngine(history)

	report, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Recommendations) != 1 {
		t.Fatalf("recommendations = %v, want the single affirmation", report.Recommendations)
	}
	if !strings.Contains(report.Recommendations[0], "Solid period") {
		t.Errorf("recommendation = %q, want affirmation", report.Recommendations[0])
	}
}

func TestGenerate_EmptyRange(t *testing.T) {
	e := newTestEngine(&mockHistory{})

	report, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Insufficient == nil {
		t.Fatal("empty range should report insufficient data")
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("empty report should carry no recommendations, got %v", report.Recommendations)
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	e := newTestEngine(&mockHistory{})
	_, err := e.Generate(compare.DateRange{Start: testBase, End: testBase})
	if !domain.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestGenerate_Cached(t *testing.T) {
	history := &mockHistory{records: []domain.SessionRecord{
		session("a", testBase, 80, 85, true, 0),
	}}
	e := newTestEngine(history)

	first, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history.records = append(history.records, session("b", testBase.Add(time.Hour), 10, 10, false, 4))
	second, err := e.Generate(testRange())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Summary.Count != first.Summary.Count {
		t.Errorf("cached count = %d, want %d", second.Summary.Count, first.Summary.Count)
	}
}

func TestAnalyzeProductivity(t *testing.T) {
	breakRec := session("br", testBase.Add(30*time.Minute), 0, 0, true, 0)
	breakRec.Type = domain.SessionShortBreak
	records := []domain.SessionRecord{
		session("low", testBase, 55, 50, false, 1),
		session("high", testBase.Add(time.Hour), 92, 95, true, 0),
		session("mid", testBase.Add(2*time.Hour), 70, 75, true, 0),
		breakRec,
	}

	p := analyzeProductivity(records)
	if p.Best == nil || p.Best.SessionID != "high" {
		t.Errorf("Best = %+v, want session high", p.Best)
	}
	if p.Worst == nil || p.Worst.SessionID != "low" {
		t.Errorf("Worst = %+v, want session low", p.Worst)
	}
	if got := p.ByType[domain.SessionWork].Count; got != 3 {
		t.Errorf("work count = %d, want 3", got)
	}
	if got := p.ByType[domain.SessionShortBreak].Count; got != 1 {
		t.Errorf("break count = %d, want 1", got)
	}
	if p.FocusDistribution[focus.LevelHigh] != 1 {
		t.Errorf("high-focus sessions = %d, want 1", p.FocusDistribution[focus.LevelHigh])
	}
	if p.FocusDistribution[focus.LevelLow] != 2 {
		t.Errorf("low-focus sessions = %d, want 2", p.FocusDistribution[focus.LevelLow])
	}
}

func TestAnalyzeProductivity_SingleSession(t *testing.T) {
	p := analyzeProductivity([]domain.SessionRecord{
		session("only", testBase, 80, 85, true, 0),
	})
	if p.Best == nil || p.Best.SessionID != "only" {
		t.Errorf("Best = %+v, want the only session", p.Best)
	}
	if p.Worst != nil {
		t.Errorf("Worst = %+v, want nil when best and worst coincide", p.Worst)
	}
}

func TestSessionDetail(t *testing.T) {
	history := &mockHistory{records: []domain.SessionRecord{
		session("a", testBase, 80, 85, true, 1),
	}}
	e := newTestEngine(history)

	rec, err := e.SessionDetail(testRange(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "a" || len(rec.Interruptions) != 1 {
		t.Errorf("record = %+v, want full session a", rec)
	}

	if _, err := e.SessionDetail(testRange(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := e.SessionDetail(compare.DateRange{Start: testBase, End: testBase}, "a"); !domain.IsValidation(err) {
		t.Errorf("err = %v, want validation error", err)
	}
}
