package session

import (
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/focus"
)

// LiveStatus is the on-demand view of the in-progress session handed to
// the timer controller.
type LiveStatus struct {
	SessionID       string             `json:"session_id"`
	Type            domain.SessionType `json:"type"`
	Elapsed         time.Duration      `json:"elapsed"`
	Planned         time.Duration      `json:"planned_duration"`
	Interactions    int                `json:"interactions"`
	Interruptions   int                `json:"interruptions"`
	Focus           focus.Breakdown    `json:"focus"`
	Level           focus.Level        `json:"focus_level"`
	Recommendations []string           `json:"recommendations"`
}

// Live computes the multi-factor score and recommendations for the active
// session. Returns nil when no session is running.
func (r *Recorder) Live() *LiveStatus {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return nil
	}
	now := r.clock()
	rec := r.active
	in := liveInput(rec, now)
	status := &LiveStatus{
		SessionID:     rec.ID,
		Type:          rec.Type,
		Elapsed:       in.Elapsed,
		Planned:       rec.PlannedDuration,
		Interactions:  in.Interactions,
		Interruptions: in.Interruptions,
	}
	r.mu.Unlock()

	status.Focus = focus.LiveScore(in)
	status.Level = focus.LevelFor(status.Focus.Score)
	status.Recommendations = focus.Recommendations(in, status.Focus.Score)
	return status
}
