package domain

import "time"

// Season of the year, northern-hemisphere month mapping.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// TimePeriod buckets the hour of day.
type TimePeriod string

const (
	PeriodMorning   TimePeriod = "morning"   // 05-12
	PeriodAfternoon TimePeriod = "afternoon" // 12-17
	PeriodEvening   TimePeriod = "evening"   // 17-22
	PeriodNight     TimePeriod = "night"
)

// EnvironmentTag is the calendar context stamped on a session at start.
// Immutable once assigned.
type EnvironmentTag struct {
	Hour       int          `json:"hour"`
	Weekday    time.Weekday `json:"weekday"`
	Month      time.Month   `json:"month"`
	Season     Season       `json:"season"`
	TimePeriod TimePeriod   `json:"time_period"`
	IsWeekend  bool         `json:"is_weekend"`
}

// TagFor computes the environment tag for a session starting at t.
func TagFor(t time.Time) EnvironmentTag {
	return EnvironmentTag{
		Hour:       t.Hour(),
		Weekday:    t.Weekday(),
		Month:      t.Month(),
		Season:     SeasonFor(t.Month()),
		TimePeriod: TimePeriodFor(t.Hour()),
		IsWeekend:  t.Weekday() == time.Saturday || t.Weekday() == time.Sunday,
	}
}

// SeasonFor maps a month to its season.
func SeasonFor(m time.Month) Season {
	switch m {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonAutumn
	default:
		return SeasonWinter
	}
}

// TimePeriodFor maps an hour of day to its bucket.
func TimePeriodFor(hour int) TimePeriod {
	switch {
	case hour >= 5 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 17:
		return PeriodAfternoon
	case hour >= 17 && hour < 22:
		return PeriodEvening
	default:
		return PeriodNight
	}
}
