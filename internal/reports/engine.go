package reports

import (
	"fmt"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/cache"
	"github.com/tmpllc001/focusmetrics/internal/compare"
	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/environment"
	"github.com/tmpllc001/focusmetrics/internal/focus"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

const (
	cacheTTL = 15 * time.Minute
	cacheCap = 10
)

// Recommendation thresholds over a report range.
const (
	completionFloor         = 70.0 // percent
	focusFloor              = 60.0
	interruptedShareCeiling = 0.5
)

// Engine assembles comprehensive reports over finalized history.
// Reports are cached by range for a short window since they aggregate
// the same immutable records on every call.
type Engine struct {
	history ports.HistoryProvider
	compare *compare.Service
	env     *environment.Correlator
	logger  ports.Logger
	cache   *cache.Cache
	clock   func() time.Time
}

// NewEngine builds a report engine with its own short-lived cache.
func NewEngine(history ports.HistoryProvider, cmp *compare.Service, env *environment.Correlator, logger ports.Logger) *Engine {
	return &Engine{
		history: history,
		compare: cmp,
		env:     env,
		logger:  logger,
		cache:   cache.New(cacheTTL, cacheCap),
		clock:   time.Now,
	}
}

// SessionDigest is the per-session line item a report carries. Full
// records stay behind the drill-down call.
type SessionDigest struct {
	SessionID       string             `json:"session_id"`
	Type            domain.SessionType `json:"type"`
	StartTime       time.Time          `json:"start_time"`
	FocusScore      float64            `json:"focus_score"`
	EfficiencyScore float64            `json:"efficiency_score"`
	Completed       bool               `json:"completed"`
	Interruptions   int                `json:"interruptions"`
}

// ProductivityAnalysis is the analytical middle of a report.
type ProductivityAnalysis struct {
	Best              *SessionDigest                          `json:"best,omitempty"`
	Worst             *SessionDigest                          `json:"worst,omitempty"`
	ByType            map[domain.SessionType]compare.Metrics `json:"by_type"`
	FocusDistribution map[focus.Level]int                     `json:"focus_distribution"`
}

// InterruptionAnalysis aggregates the range's interruption load.
type InterruptionAnalysis struct {
	Total            int                             `json:"total"`
	PerSession       float64                         `json:"per_session"`
	InterruptedShare float64                         `json:"interrupted_share"` // 0..1
	ByType           map[domain.InterruptionType]int `json:"by_type"`
	BySeverity       map[domain.Severity]int         `json:"by_severity"`
}

// EnvironmentAnalysis carries the correlator's view for the range.
type EnvironmentAnalysis struct {
	Insights      environment.Insights      `json:"insights"`
	OptimalWindow environment.OptimalWindow `json:"optimal_window"`
}

// Report is the comprehensive view of a date range.
type Report struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Range           compare.DateRange      `json:"range"`
	Summary         compare.Metrics        `json:"summary"`
	Productivity    ProductivityAnalysis   `json:"productivity"`
	Interruptions   InterruptionAnalysis   `json:"interruption_analysis"`
	Environment     EnvironmentAnalysis    `json:"environment"`
	Trends          compare.ProgressTrends `json:"trend_analysis"`
	Sessions        []SessionDigest        `json:"sessions"`
	Recommendations []string               `json:"recommendations"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// Generate builds the comprehensive report for a range.
func (e *Engine) Generate(r compare.DateRange) (Report, error) {
	if err := r.Validate(); err != nil {
		return Report{}, err
	}

	key := fmt.Sprintf("report|%d|%d", r.Start.Unix(), r.End.Unix())
	if v, ok := e.cache.Get(key); ok {
		e.logger.Debug("report cache hit")
		return v.(Report), nil
	}

	records := e.history.HistoryRange(r.Start, r.End)
	report := Report{
		GeneratedAt: e.clock(),
		Range:       r,
		Summary:     compare.ComputeMetrics(records),
	}
	if len(records) == 0 {
		report.Insufficient = &domain.InsufficientData{Required: 1, Actual: 0, What: "sessions in range"}
		e.cache.Put(key, report)
		return report, nil
	}

	report.Productivity = analyzeProductivity(records)
	report.Interruptions = analyzeInterruptions(records)
	report.Environment = EnvironmentAnalysis{
		Insights:      e.env.GetInsights(rangeDays(r)),
		OptimalWindow: e.env.DetectOptimalWindow(),
	}
	trends, err := e.compare.AnalyzeProgressTrends(r, 0)
	if err != nil {
		return Report{}, err
	}
	report.Trends = trends
	report.Sessions = digests(records)
	report.Recommendations = e.recommend(r, report.Summary, report.Interruptions)

	e.cache.Put(key, report)
	return report, nil
}

func rangeDays(r compare.DateRange) int {
	days := int(r.End.Sub(r.Start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// SessionDetail drills into one session of a report range.
func (e *Engine) SessionDetail(r compare.DateRange, sessionID string) (domain.SessionRecord, error) {
	if err := r.Validate(); err != nil {
		return domain.SessionRecord{}, err
	}
	for _, rec := range e.history.HistoryRange(r.Start, r.End) {
		if rec.ID == sessionID {
			return rec, nil
		}
	}
	return domain.SessionRecord{}, fmt.Errorf("session %s in range: %w", sessionID, domain.ErrNotFound)
}

func digests(records []domain.SessionRecord) []SessionDigest {
	out := make([]SessionDigest, 0, len(records))
	for i := range records {
		out = append(out, SessionDigest{
			SessionID:       records[i].ID,
			Type:            records[i].Type,
			StartTime:       records[i].StartTime,
			FocusScore:      records[i].FocusScore,
			EfficiencyScore: records[i].EfficiencyScore,
			Completed:       records[i].Completed,
			Interruptions:   len(records[i].Interruptions),
		})
	}
	return out
}

func analyzeProductivity(records []domain.SessionRecord) ProductivityAnalysis {
	out := ProductivityAnalysis{
		ByType:            make(map[domain.SessionType]compare.Metrics),
		FocusDistribution: make(map[focus.Level]int),
	}

	byType := make(map[domain.SessionType][]domain.SessionRecord)
	best, worst := -1, -1
	for i := range records {
		byType[records[i].Type] = append(byType[records[i].Type], records[i])
		out.FocusDistribution[focus.LevelFor(records[i].FocusScore)]++

		if records[i].Type != domain.SessionWork {
			continue
		}
		if best < 0 || records[i].Performance() > records[best].Performance() {
			best = i
		}
		if worst < 0 || records[i].Performance() < records[worst].Performance() {
			worst = i
		}
	}
	for t, recs := range byType {
		out.ByType[t] = compare.ComputeMetrics(recs)
	}
	if best >= 0 {
		d := digests(records[best : best+1])
		out.Best = &d[0]
	}
	if worst >= 0 && worst != best {
		d := digests(records[worst : worst+1])
		out.Worst = &d[0]
	}
	return out
}

// analyzeInterruptions aggregates interruption counts by type and
// severity across the range.
func analyzeInterruptions(records []domain.SessionRecord) InterruptionAnalysis {
	out := InterruptionAnalysis{
		ByType:     make(map[domain.InterruptionType]int),
		BySeverity: make(map[domain.Severity]int),
	}
	var interrupted int
	for i := range records {
		if len(records[i].Interruptions) > 0 {
			interrupted++
		}
		for _, ev := range records[i].Interruptions {
			out.Total++
			out.ByType[ev.Type]++
			out.BySeverity[ev.Severity]++
		}
	}
	if n := len(records); n > 0 {
		out.PerSession = float64(out.Total) / float64(n)
		out.InterruptedShare = float64(interrupted) / float64(n)
	}
	return out
}

// recommend derives advice from the range's weak spots.
func (e *Engine) recommend(r compare.DateRange, m compare.Metrics, ia InterruptionAnalysis) []string {
	var out []string
	if m.CompletionRate < completionFloor {
		out = append(out, "Completion is under 70%. Plan shorter sessions and finish them before stretching the goal.")
	}
	if m.AvgFocusScore < focusFloor {
		out = append(out, "Average focus is low. Try a short pre-session ritual: clear the desk, silence the phone, write the goal down.")
	}
	if ia.InterruptedShare > interruptedShareCeiling {
		out = append(out, "More than half your sessions get interrupted. Review notification settings before the next block.")
	}

	if tp, err := e.compare.CompareTimePeriods(r); err == nil && tp.Insufficient == nil {
		best := tp.Periods[0]
		if best.Confidence != compare.ConfidenceLow {
			out = append(out, fmt.Sprintf("Your strongest window is the %s. Schedule demanding work there.", best.Period))
		}
	}

	if len(out) == 0 {
		out = append(out, "Solid period across the board. Keep the current routine.")
	}
	return out
}
