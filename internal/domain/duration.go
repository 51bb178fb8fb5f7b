package domain

import "time"

const (
	// DefaultPlannedDuration is the fallback applied when an externally
	// supplied duration is detected as corrupt.
	DefaultPlannedDuration = 5 * time.Minute

	// maxPlannedDuration rejects values no real session plan can reach.
	maxPlannedDuration = 24 * time.Hour
)

// ClampPlannedDuration resets corrupt planned durations to the safe
// default. Durations are typed end to end, so the only corruption left to
// guard against is a non-positive or absurdly large value arriving from an
// external caller; it must never reach a live display.
func ClampPlannedDuration(d time.Duration) time.Duration {
	if d <= 0 || d > maxPlannedDuration {
		return DefaultPlannedDuration
	}
	return d
}
