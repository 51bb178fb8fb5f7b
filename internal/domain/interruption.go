package domain

import (
	"strings"
	"time"
)

// InterruptionType identifies how an engagement discontinuity was detected.
// External reports carry their kind as an "external:" suffix.
type InterruptionType string

const (
	InterruptionManualPause InterruptionType = "manual_pause"
	InterruptionInactivity  InterruptionType = "inactivity"

	externalPrefix = "external:"
)

// ExternalInterruption builds the type for an externally reported
// interruption kind, e.g. "phone_call" -> "external:phone_call".
func ExternalInterruption(kind string) InterruptionType {
	return InterruptionType(externalPrefix + kind)
}

// IsExternal reports whether the interruption was reported from outside
// rather than detected by the tracker.
func (t InterruptionType) IsExternal() bool {
	return strings.HasPrefix(string(t), externalPrefix)
}

// ExternalKind returns the kind behind an external type, or "" for
// detected interruptions.
func (t InterruptionType) ExternalKind() string {
	return strings.TrimPrefix(string(t), externalPrefix)
}

// Severity classifies an interruption by how disruptive it was.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities for comparisons.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// SeverityForDuration maps an interruption duration to a severity.
// Monotonic: longer interruptions never map to a lower severity.
func SeverityForDuration(d time.Duration) Severity {
	switch {
	case d < 30*time.Second:
		return SeverityLow
	case d < 2*time.Minute:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// SeverityForExternal presets the severity of an externally reported
// interruption from its kind.
func SeverityForExternal(kind string) Severity {
	switch kind {
	case "phone_call", "urgent_message":
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// InterruptionEvent is one committed engagement discontinuity.
// Append-only within a session.
type InterruptionEvent struct {
	Type        InterruptionType `json:"type"`
	At          time.Time        `json:"timing"`
	Duration    time.Duration    `json:"duration"`
	Severity    Severity         `json:"severity"`
	Description string           `json:"description,omitempty"`
}
