package session

import (
	"math"
	"time"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/focus"
)

// liveInput builds the calculator input from the in-progress record.
// Caller holds the recorder lock.
func liveInput(rec *domain.SessionRecord, now time.Time) focus.Input {
	in := focus.Input{
		Elapsed:       now.Sub(rec.StartTime),
		Interruptions: len(rec.Interruptions),
		Interactions:  len(rec.Interactions),
	}
	for i := 1; i < len(rec.Interactions); i++ {
		gap := rec.Interactions[i].Timestamp.Sub(rec.Interactions[i-1].Timestamp)
		in.InteractionGaps = append(in.InteractionGaps, gap)
	}
	return in
}

// finalFocusScore is the mean of the sampled sequence. A session too short
// to collect any samples falls back to a single tick score at end time.
func finalFocusScore(rec *domain.SessionRecord, now time.Time) float64 {
	if len(rec.Samples) == 0 {
		return focus.TickScore(liveInput(rec, now))
	}
	var sum float64
	for _, s := range rec.Samples {
		sum += s.Score
	}
	return math.Round(sum/float64(len(rec.Samples))*10) / 10
}

// efficiencyScore measures plan adherence: how close the actual duration
// landed to the plan, discounted per interruption. Clamped to [0,100].
func efficiencyScore(rec *domain.SessionRecord) float64 {
	planned := rec.PlannedDuration.Seconds()
	actual := rec.ActualDuration.Seconds()
	if planned <= 0 || actual <= 0 {
		return 0
	}

	adherence := actual / planned
	if adherence > 1 {
		adherence = planned / actual
	}

	penalty := math.Max(0.5, 1-0.05*float64(len(rec.Interruptions)))

	score := adherence * 100 * penalty
	if score > 100 {
		score = 100
	}
	return math.Round(score*10) / 10
}
