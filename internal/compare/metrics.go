package compare

import (
	"math"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// Metric keys shared across comparison results.
const (
	MetricFocus         = "avg_focus_score"
	MetricEfficiency    = "avg_efficiency_score"
	MetricCompletion    = "completion_rate"
	MetricDuration      = "avg_duration"
	MetricInterruptions = "interruptions_per_session"
)

// Metrics is the common aggregate set every comparison reports.
type Metrics struct {
	Count                   int           `json:"count"`
	AvgFocusScore           float64       `json:"avg_focus_score"`
	AvgEfficiencyScore      float64       `json:"avg_efficiency_score"`
	CompletionRate          float64       `json:"completion_rate"` // percent
	AvgDuration             time.Duration `json:"avg_duration"`
	TotalInterruptions      int           `json:"total_interruptions"`
	InterruptionsPerSession float64       `json:"interruptions_per_session"`
}

// ComputeMetrics aggregates finalized records into the common metric set.
func ComputeMetrics(records []domain.SessionRecord) Metrics {
	m := Metrics{Count: len(records)}
	if len(records) == 0 {
		return m
	}

	var focusSum, effSum float64
	var completed int
	var durationSum time.Duration
	for i := range records {
		focusSum += records[i].FocusScore
		effSum += records[i].EfficiencyScore
		durationSum += records[i].ActualDuration
		m.TotalInterruptions += len(records[i].Interruptions)
		if records[i].Completed {
			completed++
		}
	}

	n := float64(len(records))
	m.AvgFocusScore = focusSum / n
	m.AvgEfficiencyScore = effSum / n
	m.CompletionRate = float64(completed) / n * 100
	m.AvgDuration = time.Duration(float64(durationSum) / n)
	m.InterruptionsPerSession = float64(m.TotalInterruptions) / n
	return m
}

// values exposes the numeric metrics for percent-change computation.
func (m Metrics) values() map[string]float64 {
	return map[string]float64{
		MetricFocus:         m.AvgFocusScore,
		MetricEfficiency:    m.AvgEfficiencyScore,
		MetricCompletion:    m.CompletionRate,
		MetricDuration:      m.AvgDuration.Minutes(),
		MetricInterruptions: m.InterruptionsPerSession,
	}
}

// PercentChanges computes per-metric percent change from base to m.
// Metrics with a zero base are omitted.
func (m Metrics) PercentChanges(base Metrics) map[string]float64 {
	out := make(map[string]float64)
	baseVals := base.values()
	for key, v := range m.values() {
		b := baseVals[key]
		if b == 0 {
			continue
		}
		out[key] = (v - b) / b * 100
	}
	return out
}

// DateRange is a half-open [Start, End) query window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate rejects inverted ranges.
func (r DateRange) Validate() error {
	if !r.Start.Before(r.End) {
		return domain.Validationf("date range", "start %s is not before end %s",
			r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	}
	return nil
}

// LastDays builds a range covering the trailing n days up to now.
func LastDays(now time.Time, n int) DateRange {
	return DateRange{Start: now.AddDate(0, 0, -n), End: now}
}

func meanOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func stddevOf(vs []float64) float64 {
	if len(vs) < 2 {
		return 0
	}
	mean := meanOf(vs)
	var variance float64
	for _, v := range vs {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(vs)-1))
}
