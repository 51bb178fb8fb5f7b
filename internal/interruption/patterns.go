package interruption

import (
	"fmt"

	"github.com/tmpllc001/focusmetrics/internal/domain"
	"github.com/tmpllc001/focusmetrics/internal/ports"
)

// Mining thresholds.
const (
	minHistoryForMining = 3
	frequencyWindow     = 5
	frequencyThreshold  = 5.0
	hourBucketThreshold = 4.0
	hourBucketMinCount  = 2
)

// MinePatterns inspects the cross-session history for recurring
// interruption behavior. Returns nothing below the minimum history size.
func MinePatterns(history []SessionSummary) []ports.PatternAlert {
	if len(history) < minHistoryForMining {
		return nil
	}

	var alerts []ports.PatternAlert
	if a, ok := mineFrequency(history); ok {
		alerts = append(alerts, a)
	}
	if a, ok := mineDominantType(history); ok {
		alerts = append(alerts, a)
	}
	alerts = append(alerts, mineTimeOfDay(history)...)
	return alerts
}

// mineFrequency alerts when the recent average interruption count per
// session is high.
func mineFrequency(history []SessionSummary) (ports.PatternAlert, bool) {
	recent := history
	if len(recent) > frequencyWindow {
		recent = recent[len(recent)-frequencyWindow:]
	}
	var total int
	for _, s := range recent {
		total += s.Total
	}
	avg := float64(total) / float64(len(recent))
	if avg <= frequencyThreshold {
		return ports.PatternAlert{}, false
	}
	return ports.PatternAlert{
		Source:         "interruptions",
		Kind:           "high_frequency",
		Message:        fmt.Sprintf("averaging %.1f interruptions per session over the last %d sessions", avg, len(recent)),
		Recommendation: "Block out a protected focus window and defer incoming requests until it ends.",
	}, true
}

// mineDominantType alerts when one interruption type accounts for at
// least twice the session count.
func mineDominantType(history []SessionSummary) (ports.PatternAlert, bool) {
	counts := make(map[domain.InterruptionType]int)
	for _, s := range history {
		for typ, n := range s.ByType {
			counts[typ] += n
		}
	}

	threshold := 2 * len(history)
	var dominant domain.InterruptionType
	var max int
	for typ, n := range counts {
		if n >= threshold && n > max {
			dominant = typ
			max = n
		}
	}
	if max == 0 {
		return ports.PatternAlert{}, false
	}
	return ports.PatternAlert{
		Source:         "interruptions",
		Kind:           "dominant_type",
		Message:        fmt.Sprintf("%q caused %d interruptions across %d sessions", dominant, max, len(history)),
		Recommendation: recommendationForType(dominant),
	}, true
}

// mineTimeOfDay alerts for hour buckets with consistently heavy
// interruption load.
func mineTimeOfDay(history []SessionSummary) []ports.PatternAlert {
	totals := make(map[int]int)
	counts := make(map[int]int)
	for _, s := range history {
		totals[s.Hour] += s.Total
		counts[s.Hour]++
	}

	var alerts []ports.PatternAlert
	for hour, n := range counts {
		if n < hourBucketMinCount {
			continue
		}
		avg := float64(totals[hour]) / float64(n)
		if avg <= hourBucketThreshold {
			continue
		}
		alerts = append(alerts, ports.PatternAlert{
			Source:         "interruptions",
			Kind:           "time_of_day",
			Message:        fmt.Sprintf("sessions starting around %02d:00 average %.1f interruptions", hour, avg),
			Recommendation: fmt.Sprintf("Schedule deep work away from the %02d:00 hour or shield it explicitly.", hour),
		})
	}
	return alerts
}

func recommendationForType(typ domain.InterruptionType) string {
	switch {
	case typ == domain.InterruptionManualPause:
		return "Pauses dominate. Plan deliberate breaks instead of ad-hoc ones."
	case typ == domain.InterruptionInactivity:
		return "Long idle gaps dominate. Shorter planned sessions may match your attention span better."
	case typ.ExternalKind() == "phone_call":
		return "Phone calls dominate. Try do-not-disturb during work sessions."
	case typ.ExternalKind() == "urgent_message":
		return "Urgent messages dominate. Batch message checks between sessions."
	default:
		return fmt.Sprintf("Interruptions of type %q dominate. Consider removing that source during sessions.", typ)
	}
}
