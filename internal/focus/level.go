package focus

// Level is the categorical focus band derived from the live score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// LevelFor maps a score to its band.
func LevelFor(score float64) Level {
	switch {
	case score >= 80:
		return LevelHigh
	case score >= 60:
		return LevelMedium
	default:
		return LevelLow
	}
}

// LevelTracker fires only on band transitions, keeping the edge-triggered
// level channel separate from the continuous per-sample signal.
type LevelTracker struct {
	current Level
	primed  bool
}

// Observe feeds a score and reports the band plus whether it changed.
// The first observation always reports a change.
func (t *LevelTracker) Observe(score float64) (Level, bool) {
	level := LevelFor(score)
	if t.primed && level == t.current {
		return level, false
	}
	t.current = level
	t.primed = true
	return level, true
}

// Reset clears the tracker for a new session.
func (t *LevelTracker) Reset() {
	t.current = ""
	t.primed = false
}
