package compare

import (
	"fmt"
	"sort"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

const (
	trendMinSessions   = 5
	trendWindowDays    = 7
	trendSlopeEpsilon  = 0.5 // points per day
	trendPredictionDay = 7
)

// TrendDirection classifies the slope of a smoothed metric series.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// MetricTrend is one metric's smoothed trajectory over the range.
type MetricTrend struct {
	Metric          string         `json:"metric"`
	Slope           float64        `json:"slope"` // points per day
	Direction       TrendDirection `json:"direction"`
	MovingAverage   []float64      `json:"moving_average"`
	ImprovementRate float64        `json:"improvement_rate"` // first vs last MA, percent
	Predicted       float64        `json:"predicted"`        // naive linear, 7 days out
}

// Milestone records the best day seen for one metric.
type Milestone struct {
	Metric string  `json:"metric"`
	Date   string  `json:"date"`
	Value  float64 `json:"value"`
}

// ProgressTrends is the smoothed multi-metric trajectory of a range.
type ProgressTrends struct {
	Range      DateRange      `json:"range"`
	Days       []string       `json:"days"`
	Trends     []MetricTrend  `json:"trends"`
	Overall    TrendDirection `json:"overall"`
	Milestones []Milestone    `json:"milestones"`

	Insufficient *domain.InsufficientData `json:"insufficient,omitempty"`
}

// AnalyzeProgressTrends reduces the range to daily averages, smooths
// them with a trailing moving average of windowDays (7 when
// non-positive), and fits a linear slope per metric. Direction needs
// the slope to clear half a point per day; the overall call is a
// majority vote across metrics.
func (s *Service) AnalyzeProgressTrends(r DateRange, windowDays int) (ProgressTrends, error) {
	if err := r.Validate(); err != nil {
		return ProgressTrends{}, err
	}
	if windowDays <= 0 {
		windowDays = trendWindowDays
	}

	key := fmt.Sprintf("trends|%d|%d|%d", r.Start.Unix(), r.End.Unix(), windowDays)
	if v, ok := s.cache.Get(key); ok {
		return v.(ProgressTrends), nil
	}

	records := s.history.HistoryRange(r.Start, r.End)
	out := ProgressTrends{Range: r, Overall: TrendStable}
	if len(records) < trendMinSessions {
		out.Insufficient = &domain.InsufficientData{
			Required: trendMinSessions,
			Actual:   len(records),
			What:     "sessions in range",
		}
		s.cache.Put(key, out)
		return out, nil
	}

	days, daily := dailyAverages(records)
	out.Days = days

	var improving, declining int
	for _, metric := range []string{MetricFocus, MetricEfficiency, MetricCompletion} {
		series := daily[metric]
		ma := movingAverage(series, windowDays)
		slope := linearSlope(ma)

		t := MetricTrend{
			Metric:        metric,
			Slope:         slope,
			Direction:     TrendStable,
			MovingAverage: ma,
			Predicted:     clampScore(ma[len(ma)-1] + slope*trendPredictionDay),
		}
		switch {
		case slope > trendSlopeEpsilon:
			t.Direction = TrendImproving
			improving++
		case slope < -trendSlopeEpsilon:
			t.Direction = TrendDeclining
			declining++
		}
		if first := ma[0]; first != 0 {
			t.ImprovementRate = (ma[len(ma)-1] - first) / first * 100
		}
		out.Trends = append(out.Trends, t)
	}

	switch {
	case improving > declining:
		out.Overall = TrendImproving
	case declining > improving:
		out.Overall = TrendDeclining
	}

	out.Milestones = milestones(days, daily)
	s.cache.Put(key, out)
	return out, nil
}

// dailyAverages reduces records to one averaged value per metric per
// day, sorted chronologically.
func dailyAverages(records []domain.SessionRecord) ([]string, map[string][]float64) {
	type acc struct {
		focus, eff float64
		completed  int
		n          int
	}
	byDay := make(map[string]*acc)
	for i := range records {
		day := records[i].StartTime.Format("2006-01-02")
		a := byDay[day]
		if a == nil {
			a = &acc{}
			byDay[day] = a
		}
		a.focus += records[i].FocusScore
		a.eff += records[i].EfficiencyScore
		if records[i].Completed {
			a.completed++
		}
		a.n++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	daily := map[string][]float64{
		MetricFocus:      make([]float64, 0, len(days)),
		MetricEfficiency: make([]float64, 0, len(days)),
		MetricCompletion: make([]float64, 0, len(days)),
	}
	for _, day := range days {
		a := byDay[day]
		n := float64(a.n)
		daily[MetricFocus] = append(daily[MetricFocus], a.focus/n)
		daily[MetricEfficiency] = append(daily[MetricEfficiency], a.eff/n)
		daily[MetricCompletion] = append(daily[MetricCompletion], float64(a.completed)/n*100)
	}
	return days, daily
}

// movingAverage smooths a series with a trailing window.
func movingAverage(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	var sum float64
	for i, v := range series {
		sum += v
		if i >= window {
			sum -= series[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// linearSlope fits a least-squares line over evenly spaced points and
// returns its slope in points per step.
func linearSlope(series []float64) float64 {
	n := len(series)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range series {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

func milestones(days []string, daily map[string][]float64) []Milestone {
	var out []Milestone
	for _, metric := range []string{MetricFocus, MetricEfficiency, MetricCompletion} {
		series := daily[metric]
		if len(series) == 0 {
			continue
		}
		best := 0
		for i := range series {
			if series[i] > series[best] {
				best = i
			}
		}
		out = append(out, Milestone{Metric: metric, Date: days[best], Value: series[best]})
	}
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
