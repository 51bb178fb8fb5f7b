package patterns

import (
	"fmt"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

// mineHourEfficiency finds start hours whose work sessions run strong.
func mineHourEfficiency(window []domain.SessionRecord) []ports.PatternAlert {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i := range window {
		hour := window[i].StartTime.Hour()
		sums[hour] += window[i].EfficiencyScore
		counts[hour]++
	}

	var alerts []ports.PatternAlert
	for hour, n := range counts {
		if n < hourMinSessions {
			continue
		}
		m := sums[hour] / float64(n)
		if m <= hourEfficiencyThreshold {
			continue
		}
		alerts = append(alerts, ports.PatternAlert{
			Source:         "patterns",
			Kind:           "optimal_hour",
			Message:        fmt.Sprintf("sessions starting around %02d:00 average %.1f efficiency", hour, m),
			Recommendation: fmt.Sprintf("Your %02d:00 sessions run strong. Put the hardest work there.", hour),
		})
	}
	return alerts
}

// mineEfficiencyTrend compares the last few sessions against the rest of
// the window.
func mineEfficiencyTrend(window []domain.SessionRecord) (ports.PatternAlert, bool) {
	if len(window) <= trendRecentWindow {
		return ports.PatternAlert{}, false
	}

	recent := window[len(window)-trendRecentWindow:]
	rest := window[:len(window)-trendRecentWindow]

	var recentSum, restSum float64
	for i := range recent {
		recentSum += recent[i].EfficiencyScore
	}
	for i := range rest {
		restSum += rest[i].EfficiencyScore
	}
	recentMean := recentSum / float64(len(recent))
	restMean := restSum / float64(len(rest))

	diff := recentMean - restMean
	switch {
	case diff > trendDelta:
		return ports.PatternAlert{
			Source:  "patterns",
			Kind:    "efficiency_improving",
			Message: fmt.Sprintf("recent efficiency up %.1f points over the earlier window", diff),
		}, true
	case diff < -trendDelta:
		return ports.PatternAlert{
			Source:         "patterns",
			Kind:           "efficiency_declining",
			Message:        fmt.Sprintf("recent efficiency down %.1f points from the earlier window", -diff),
			Recommendation: "Efficiency is sliding. Review what changed in your recent sessions.",
		}, true
	}
	return ports.PatternAlert{}, false
}

// mineInterruptionFrequency flags windows where interruptions are both
// frequent on average and widespread across sessions.
func mineInterruptionFrequency(window []domain.SessionRecord) (ports.PatternAlert, bool) {
	if len(window) == 0 {
		return ports.PatternAlert{}, false
	}

	var total, over int
	for i := range window {
		n := len(window[i].Interruptions)
		total += n
		if n > int(interruptionMeanLimit) {
			over++
		}
	}
	avg := float64(total) / float64(len(window))
	share := float64(over) / float64(len(window))
	if avg <= interruptionMeanLimit || share <= interruptionShareLimit {
		return ports.PatternAlert{}, false
	}
	return ports.PatternAlert{
		Source:         "patterns",
		Kind:           "interruption_frequency",
		Message:        fmt.Sprintf("averaging %.1f interruptions per session, %d%% of sessions above %d", avg, int(share*100), int(interruptionMeanLimit)),
		Recommendation: "Interruptions are routine, not incidental. Change the environment, not just the schedule.",
	}, true
}
