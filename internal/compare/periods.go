package compare

import (
	"fmt"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// Granularity selects the window size for period comparisons.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) step() (time.Duration, error) {
	switch g {
	case GranularityDay:
		return 24 * time.Hour, nil
	case GranularityWeek:
		return 7 * 24 * time.Hour, nil
	case GranularityMonth:
		return 30 * 24 * time.Hour, nil
	default:
		return 0, domain.Validationf("granularity", "unknown granularity %q", g)
	}
}

// PeriodMetrics is one window's aggregate.
type PeriodMetrics struct {
	Range   DateRange `json:"range"`
	Metrics Metrics   `json:"metrics"`
}

// PeriodDelta compares one prior window against the anchor.
type PeriodDelta struct {
	PeriodMetrics
	Changes map[string]float64 `json:"changes"` // anchor vs this window, percent
}

// PeriodComparison is the anchor window against n prior equivalents.
type PeriodComparison struct {
	Granularity Granularity   `json:"granularity"`
	Anchor      PeriodMetrics `json:"anchor"`
	Previous    []PeriodDelta `json:"previous"`
	Verdict     string        `json:"verdict"`
	Insights    []string      `json:"insights"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// verdict thresholds, percent.
const (
	verdictThreshold  = 5.0
	focusInsight      = 10.0
	completionInsight = 15.0
)

// ComparePeriods compares the window ending at end against n prior
// windows of the same granularity.
func (s *Service) ComparePeriods(g Granularity, end time.Time, n int) (PeriodComparison, error) {
	step, err := g.step()
	if err != nil {
		return PeriodComparison{}, err
	}
	if n < 1 {
		n = 1
	}

	key := fmt.Sprintf("periods|%s|%d|%d", g, end.Unix(), n)
	if v, ok := s.cache.Get(key); ok {
		return v.(PeriodComparison), nil
	}

	anchorRange := DateRange{Start: end.Add(-step), End: end}
	out := PeriodComparison{
		Granularity: g,
		Anchor: PeriodMetrics{
			Range:   anchorRange,
			Metrics: ComputeMetrics(s.history.HistoryRange(anchorRange.Start, anchorRange.End)),
		},
	}

	if out.Anchor.Metrics.Count == 0 {
		out.Insufficient = &domain.InsufficientData{Required: 1, Actual: 0, What: "sessions in anchor window"}
		s.cache.Put(key, out)
		return out, nil
	}

	for i := 1; i <= n; i++ {
		r := DateRange{
			Start: end.Add(-time.Duration(i+1) * step),
			End:   end.Add(-time.Duration(i) * step),
		}
		m := ComputeMetrics(s.history.HistoryRange(r.Start, r.End))
		delta := PeriodDelta{PeriodMetrics: PeriodMetrics{Range: r, Metrics: m}}
		if m.Count > 0 {
			delta.Changes = out.Anchor.Metrics.PercentChanges(m)
		}
		out.Previous = append(out.Previous, delta)
	}

	out.Verdict, out.Insights = summarizePeriods(out.Previous)
	s.cache.Put(key, out)
	return out, nil
}

// summarizePeriods averages the per-window changes and votes a verdict.
// Interruptions count as improvement when they fall.
func summarizePeriods(previous []PeriodDelta) (string, []string) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, d := range previous {
		for key, v := range d.Changes {
			sums[key] += v
			counts[key]++
		}
	}
	if len(counts) == 0 {
		return "stable", nil
	}

	avg := func(key string) (float64, bool) {
		n := counts[key]
		if n == 0 {
			return 0, false
		}
		return sums[key] / float64(n), true
	}

	var improving, declining int
	vote := func(change float64, higherIsBetter bool) {
		if !higherIsBetter {
			change = -change
		}
		switch {
		case change > verdictThreshold:
			improving++
		case change < -verdictThreshold:
			declining++
		}
	}
	for _, key := range []string{MetricFocus, MetricEfficiency, MetricCompletion} {
		if v, ok := avg(key); ok {
			vote(v, true)
		}
	}
	if v, ok := avg(MetricInterruptions); ok {
		vote(v, false)
	}

	verdict := "stable"
	switch {
	case improving > declining:
		verdict = "improving"
	case declining > improving:
		verdict = "declining"
	case improving > 0:
		verdict = "mixed"
	}

	var insights []string
	if v, ok := avg(MetricFocus); ok {
		switch {
		case v > focusInsight:
			insights = append(insights, fmt.Sprintf("Focus is up %.0f%% against prior periods.", v))
		case v < -focusInsight:
			insights = append(insights, fmt.Sprintf("Focus is down %.0f%% against prior periods.", -v))
		}
	}
	if v, ok := avg(MetricCompletion); ok {
		switch {
		case v > completionInsight:
			insights = append(insights, fmt.Sprintf("Completion rate is up %.0f%%; plans are landing.", v))
		case v < -completionInsight:
			insights = append(insights, fmt.Sprintf("Completion rate is down %.0f%%; plans may be too ambitious.", -v))
		}
	}
	return verdict, insights
}
