package focus

import "time"

// Recommendations returns qualitative guidance for an in-progress session.
// When nothing triggers, a single affirmation is returned so the caller
// always has something to show.
func Recommendations(in Input, score float64) []string {
	var recs []string

	if score < 60 {
		recs = append(recs, "Focus is slipping. Consider a short break to reset before continuing.")
	}
	if in.Interruptions > 3 {
		recs = append(recs, "Frequent interruptions this session. Try silencing notifications or closing the door.")
	}
	if in.Interactions > 30 {
		recs = append(recs, "High interaction churn. Settle on one task instead of switching around.")
	}
	if in.Elapsed < 10*time.Minute {
		recs = append(recs, "Still warming up. Deep focus usually arrives after the first ten minutes.")
	}

	if len(recs) == 0 {
		recs = append(recs, "Strong session so far. Keep the current rhythm going.")
	}
	return recs
}
