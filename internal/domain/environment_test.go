package domain

import (
	"testing"
	"time"
)

func TestTimePeriodFor(t *testing.T) {
	tests := []struct {
		hour int
		want TimePeriod
	}{
		{4, PeriodNight},
		{5, PeriodMorning},
		{11, PeriodMorning},
		{12, PeriodAfternoon},
		{16, PeriodAfternoon},
		{17, PeriodEvening},
		{21, PeriodEvening},
		{22, PeriodNight},
		{0, PeriodNight},
	}
	for _, tt := range tests {
		if got := TimePeriodFor(tt.hour); got != tt.want {
			t.Errorf("TimePeriodFor(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.March, SeasonSpring},
		{time.July, SeasonSummer},
		{time.October, SeasonAutumn},
		{time.December, SeasonWinter},
		{time.February, SeasonWinter},
	}
	for _, tt := range tests {
		if got := SeasonFor(tt.month); got != tt.want {
			t.Errorf("SeasonFor(%v) = %v, want %v", tt.month, got, tt.want)
		}
	}
}

func TestTagFor(t *testing.T) {
	// A Saturday morning in spring.
	at := time.Date(2025, time.April, 5, 9, 30, 0, 0, time.UTC)
	tag := TagFor(at)

	if tag.Hour != 9 {
		t.Errorf("Hour = %d, want 9", tag.Hour)
	}
	if tag.Weekday != time.Saturday {
		t.Errorf("Weekday = %v, want Saturday", tag.Weekday)
	}
	if tag.Season != SeasonSpring {
		t.Errorf("Season = %v, want spring", tag.Season)
	}
	if tag.TimePeriod != PeriodMorning {
		t.Errorf("TimePeriod = %v, want morning", tag.TimePeriod)
	}
	if !tag.IsWeekend {
		t.Error("Saturday should be weekend")
	}

	weekday := TagFor(time.Date(2025, time.April, 7, 9, 0, 0, 0, time.UTC))
	if weekday.IsWeekend {
		t.Error("Monday should not be weekend")
	}
}
