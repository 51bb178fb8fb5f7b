package ports

import "github.com/tmpllc001/focusmetrics/internal/domain"

// PatternAlert is a cross-session behavioral finding worth surfacing.
type PatternAlert struct {
	Source         string `json:"source"` // "interruptions", "patterns", "environment"
	Kind           string `json:"kind"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Notifier is the outbound port to the notification layer. The engine
// reports findings; it never calls audio or UI APIs itself.
type Notifier interface {
	InterruptionDetected(ev domain.InterruptionEvent)
	PatternDetected(alert PatternAlert)
}

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

func (NoOpNotifier) InterruptionDetected(domain.InterruptionEvent) {}
func (NoOpNotifier) PatternDetected(PatternAlert)                  {}
