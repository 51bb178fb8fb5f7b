package domain

import "time"

// SessionType classifies a timed interval.
type SessionType string

const (
	SessionWork       SessionType = "work"
	SessionShortBreak SessionType = "short_break"
	SessionLongBreak  SessionType = "long_break"
)

// IsBreak reports whether the session is any kind of break.
func (t SessionType) IsBreak() bool {
	return t == SessionShortBreak || t == SessionLongBreak
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return t == SessionWork || t == SessionShortBreak || t == SessionLongBreak
}

// InteractionKind is the closed set of known interaction types. Anything
// not covered by the enum travels in InteractionEvent.Details.
type InteractionKind string

const (
	InteractionKeyboard   InteractionKind = "keyboard"
	InteractionMouse      InteractionKind = "mouse"
	InteractionTaskUpdate InteractionKind = "task_update"
	InteractionNote       InteractionKind = "note"
	InteractionOther      InteractionKind = "other"
)

// InteractionEvent is a single user interaction within a session.
// Append-only once recorded.
type InteractionEvent struct {
	Timestamp   time.Time         `json:"timestamp"`
	Kind        InteractionKind   `json:"type"`
	Details     map[string]string `json:"details,omitempty"`
	SessionTime time.Duration     `json:"session_time"`
}

// FocusSample is one periodic focus score observation, 0-100.
type FocusSample struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// SessionRecord is the full lifecycle record of one session. A skeleton is
// created at start, mutated while the session runs, and finalized exactly
// once at end; after finalization it must not change.
type SessionRecord struct {
	ID              string              `json:"session_id"`
	Type            SessionType         `json:"type"`
	PlannedDuration time.Duration       `json:"planned_duration"`
	StartTime       time.Time           `json:"start_time"`
	EndTime         time.Time           `json:"end_time"`
	ActualDuration  time.Duration       `json:"actual_duration"`
	Completed       bool                `json:"completed"`
	FocusScore      float64             `json:"focus_score"`
	EfficiencyScore float64             `json:"efficiency_score"`
	Interactions    []InteractionEvent  `json:"interactions"`
	Interruptions   []InterruptionEvent `json:"interruptions"`
	Samples         []FocusSample       `json:"focus_samples,omitempty"`
	Environment     EnvironmentTag      `json:"environment_data"`
	Rating          *int                `json:"productivity_rating,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	Finalized       bool                `json:"finalized"`
}

// Elapsed returns how long the session has been running as of now.
func (r *SessionRecord) Elapsed(now time.Time) time.Duration {
	if r.Finalized {
		return r.ActualDuration
	}
	return now.Sub(r.StartTime)
}

// Performance is the blend of efficiency and focus used for environment
// correlation. Undefined before finalization.
func (r *SessionRecord) Performance() float64 {
	return (r.EfficiencyScore + r.FocusScore) / 2
}

// Clone returns a deep copy safe to hand to readers while the original
// keeps mutating.
func (r *SessionRecord) Clone() SessionRecord {
	c := *r
	c.Interactions = append([]InteractionEvent(nil), r.Interactions...)
	c.Interruptions = append([]InterruptionEvent(nil), r.Interruptions...)
	c.Samples = append([]FocusSample(nil), r.Samples...)
	if r.Rating != nil {
		v := *r.Rating
		c.Rating = &v
	}
	return c
}
