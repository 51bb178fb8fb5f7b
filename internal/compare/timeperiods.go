package compare

import (
	"fmt"
	"sort"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// Composite score weights for ranking time periods.
const (
	compositeFocusWeight      = 0.4
	compositeEfficiencyWeight = 0.4
	compositeCompletionWeight = 0.2
)

// Confidence labels the sample size behind a period's composite score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // >= 5 sessions
	ConfidenceMedium Confidence = "medium" // >= 2 sessions
	ConfidenceLow    Confidence = "low"
)

func confidenceFor(n int) Confidence {
	switch {
	case n >= 5:
		return ConfidenceHigh
	case n >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// TimePeriodMetrics is one period-of-day bucket's aggregate.
type TimePeriodMetrics struct {
	Period     domain.TimePeriod `json:"period"`
	Metrics    Metrics           `json:"metrics"`
	Composite  float64           `json:"composite"`
	Confidence Confidence        `json:"confidence"`
}

// TimePeriodComparison ranks morning through night by composite score.
type TimePeriodComparison struct {
	Range   DateRange           `json:"range"`
	Periods []TimePeriodMetrics `json:"periods"` // best first
	Best    domain.TimePeriod   `json:"best,omitempty"`
	Insight string              `json:"insight,omitempty"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// CompareTimePeriods buckets the range by period of day and ranks the
// buckets by a weighted composite of focus, efficiency, and completion.
func (s *Service) CompareTimePeriods(r DateRange) (TimePeriodComparison, error) {
	if err := r.Validate(); err != nil {
		return TimePeriodComparison{}, err
	}

	key := fmt.Sprintf("timeperiods|%d|%d", r.Start.Unix(), r.End.Unix())
	if v, ok := s.cache.Get(key); ok {
		return v.(TimePeriodComparison), nil
	}

	buckets := make(map[domain.TimePeriod][]domain.SessionRecord)
	for _, rec := range s.history.HistoryRange(r.Start, r.End) {
		buckets[rec.Environment.TimePeriod] = append(buckets[rec.Environment.TimePeriod], rec)
	}

	out := TimePeriodComparison{Range: r}
	if len(buckets) == 0 {
		out.Insufficient = &domain.InsufficientData{Required: 1, Actual: 0, What: "sessions in range"}
		s.cache.Put(key, out)
		return out, nil
	}

	for period, recs := range buckets {
		m := ComputeMetrics(recs)
		out.Periods = append(out.Periods, TimePeriodMetrics{
			Period:     period,
			Metrics:    m,
			Composite:  compositeScore(m),
			Confidence: confidenceFor(m.Count),
		})
	}
	sort.Slice(out.Periods, func(i, j int) bool {
		return out.Periods[i].Composite > out.Periods[j].Composite
	})

	best := out.Periods[0]
	out.Best = best.Period
	out.Insight = fmt.Sprintf("%s sessions score highest (composite %.1f, %s confidence).",
		best.Period, best.Composite, best.Confidence)

	s.cache.Put(key, out)
	return out, nil
}

func compositeScore(m Metrics) float64 {
	return compositeFocusWeight*m.AvgFocusScore +
		compositeEfficiencyWeight*m.AvgEfficiencyScore +
		compositeCompletionWeight*m.CompletionRate
}
