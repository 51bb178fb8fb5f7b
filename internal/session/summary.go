package session

import (
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
)

// PeriodStats is a rollup of sessions within one calendar bucket.
type PeriodStats struct {
	WorkSessions      int           `json:"work_sessions"`
	BreakSessions     int           `json:"break_sessions"`
	WorkTime          time.Duration `json:"work_time"`
	BreakTime         time.Duration `json:"break_time"`
	CompletedSessions int           `json:"completed_sessions"`
	AvgFocusScore     float64       `json:"avg_focus_score"`
}

// StatsSummary is the today/week/total rollup shown by the stats command.
type StatsSummary struct {
	Today         PeriodStats   `json:"today"`
	Week          PeriodStats   `json:"week"`
	TotalSessions int           `json:"total_sessions"`
	TotalWorkTime time.Duration `json:"total_work_time"`
}

// Summary rolls up history into today/this-week/all-time buckets.
func (r *Recorder) Summary() StatsSummary {
	return summarize(r.History(), r.clock())
}

func summarize(records []domain.SessionRecord, now time.Time) StatsSummary {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := dayStart.AddDate(0, 0, -(weekday - 1))

	var s StatsSummary
	var todayFocus, weekFocus []float64
	for i := range records {
		rec := &records[i]
		s.TotalSessions++
		if rec.Type == domain.SessionWork {
			s.TotalWorkTime += rec.ActualDuration
		}
		if !rec.StartTime.Before(weekStart) {
			accumulate(&s.Week, rec)
			if rec.Type == domain.SessionWork {
				weekFocus = append(weekFocus, rec.FocusScore)
			}
		}
		if !rec.StartTime.Before(dayStart) {
			accumulate(&s.Today, rec)
			if rec.Type == domain.SessionWork {
				todayFocus = append(todayFocus, rec.FocusScore)
			}
		}
	}
	s.Today.AvgFocusScore = mean(todayFocus)
	s.Week.AvgFocusScore = mean(weekFocus)
	return s
}

func accumulate(p *PeriodStats, rec *domain.SessionRecord) {
	if rec.Type == domain.SessionWork {
		p.WorkSessions++
		p.WorkTime += rec.ActualDuration
	} else {
		p.BreakSessions++
		p.BreakTime += rec.ActualDuration
	}
	if rec.Completed {
		p.CompletedSessions++
	}
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
