package focus

import (
	"math"
	"time"
)

// Scoring constants. The 25-minute optimum mirrors the classic work
// interval the timer plans around.
const (
	optimalDuration = 25 * time.Minute

	tickBaseFloor          = 50.0
	tickOvertimeDecay      = 0.5 // points per minute past optimum
	tickOvertimeMaxPenalty = 20.0
	tickInterruptionCost   = 5.0
	tickInterruptionCap    = 30.0
	tickInteractionSoftCap = 10
	tickInteractionCost    = 2.0
	tickInteractionMax     = 20.0
)

// Input is the session state a score is computed from.
type Input struct {
	Elapsed       time.Duration
	Interruptions int
	Interactions  int
	// InteractionGaps are the gaps between consecutive interactions,
	// used by the time-consistency factor.
	InteractionGaps []time.Duration
}

// TickScore is the cheap per-sample score recorded every sampling tick.
// Base score rises with elapsed time to an optimum at 25 minutes, then
// decays mildly; interruptions and excess interactions subtract capped
// penalties. Result is clamped to [0,100].
func TickScore(in Input) float64 {
	minutes := in.Elapsed.Minutes()
	optimal := optimalDuration.Minutes()

	var base float64
	if minutes <= optimal {
		base = tickBaseFloor + (100-tickBaseFloor)*(minutes/optimal)
	} else {
		base = 100 - math.Min(tickOvertimeMaxPenalty, (minutes-optimal)*tickOvertimeDecay)
	}

	penalty := math.Min(tickInterruptionCap, float64(in.Interruptions)*tickInterruptionCost)
	if in.Interactions > tickInteractionSoftCap {
		penalty += math.Min(tickInteractionMax, float64(in.Interactions-tickInteractionSoftCap)*tickInteractionCost)
	}

	return clamp(base - penalty)
}

// Factor weights for the live multi-factor score. Must sum to 1.0.
const (
	weightDuration      = 0.30
	weightInterruptions = 0.25
	weightInteractions  = 0.20
	weightConsistency   = 0.15
	weightCompletion    = 0.10
)

// Breakdown carries the live score with its per-factor components.
type Breakdown struct {
	Score         float64 `json:"score"`
	Duration      float64 `json:"duration_score"`
	Interruptions float64 `json:"interruption_score"`
	Interactions  float64 `json:"interaction_score"`
	Consistency   float64 `json:"consistency_score"`
	Completion    float64 `json:"completion_score"`
}

// LiveScore computes the weighted multi-factor focus score for an
// in-progress session. Clamped to [0,100], rounded to one decimal.
func LiveScore(in Input) Breakdown {
	b := Breakdown{
		Duration:      durationScore(in.Elapsed),
		Interruptions: interruptionScore(in.Elapsed, in.Interruptions),
		Interactions:  interactionScore(in.Elapsed, in.Interactions),
		Consistency:   consistencyScore(in.InteractionGaps),
		Completion:    completionScore(in.Elapsed),
	}
	score := b.Duration*weightDuration +
		b.Interruptions*weightInterruptions +
		b.Interactions*weightInteractions +
		b.Consistency*weightConsistency +
		b.Completion*weightCompletion
	b.Score = math.Round(clamp(score)*10) / 10
	return b
}

// durationScore ramps linearly to 100 at the optimum, then applies a soft
// overtime penalty with a floor of 80.
func durationScore(elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	optimal := optimalDuration.Minutes()
	if minutes <= optimal {
		return clamp(minutes / optimal * 100)
	}
	penalty := math.Min(20, minutes-optimal)
	return math.Max(80, 100-penalty)
}

// interruptionScore gives full marks up to one interruption per 15
// minutes, then descends linearly to a floor of 20.
func interruptionScore(elapsed time.Duration, interruptions int) float64 {
	if interruptions == 0 {
		return 100
	}
	windows := elapsed.Minutes() / 15
	if windows < 1 {
		windows = 1
	}
	rate := float64(interruptions) / windows
	if rate <= 1 {
		return 100
	}
	return math.Max(20, 100-(rate-1)*40)
}

// interactionScore rewards a steady 1-3 interactions per minute. Quieter
// sessions scale up from 60; busier ones are penalized down to 40.
func interactionScore(elapsed time.Duration, interactions int) float64 {
	minutes := elapsed.Minutes()
	if minutes < 1 {
		minutes = 1
	}
	perMinute := float64(interactions) / minutes
	switch {
	case perMinute >= 1 && perMinute <= 3:
		return 100
	case perMinute < 1:
		return 60 + perMinute*40
	default:
		return math.Max(40, 100-(perMinute-3)*15)
	}
}

// consistencyScore penalizes erratic interaction timing via the standard
// deviation of inter-interaction gaps, floored at 50. Fewer than three
// gaps is treated as perfectly consistent.
func consistencyScore(gaps []time.Duration) float64 {
	if len(gaps) < 3 {
		return 100
	}
	var sum float64
	for _, g := range gaps {
		sum += g.Seconds()
	}
	mean := sum / float64(len(gaps))

	var variance float64
	for _, g := range gaps {
		d := g.Seconds() - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(gaps)))

	return math.Max(50, 100-math.Min(50, stddev/2))
}

// completionScore is progress toward the optimal interval.
func completionScore(elapsed time.Duration) float64 {
	return math.Min(1, elapsed.Minutes()/optimalDuration.Minutes()) * 100
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
