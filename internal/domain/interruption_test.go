package domain

import (
	"testing"
	"time"
)

func TestSeverityForDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want Severity
	}{
		{5 * time.Second, SeverityLow},
		{29 * time.Second, SeverityLow},
		{30 * time.Second, SeverityMedium},
		{90 * time.Second, SeverityMedium},
		{2 * time.Minute, SeverityHigh},
		{time.Hour, SeverityHigh},
	}
	for _, tt := range tests {
		if got := SeverityForDuration(tt.d); got != tt.want {
			t.Errorf("SeverityForDuration(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestSeverityForDuration_Monotonic(t *testing.T) {
	prev := SeverityForDuration(0)
	for d := time.Second; d <= 5*time.Minute; d += time.Second {
		cur := SeverityForDuration(d)
		if !cur.AtLeast(prev) {
			t.Fatalf("severity dropped from %v to %v at %v", prev, cur, d)
		}
		prev = cur
	}
}

func TestSeverityForExternal(t *testing.T) {
	if got := SeverityForExternal("phone_call"); got != SeverityHigh {
		t.Errorf("phone_call = %v, want high", got)
	}
	if got := SeverityForExternal("urgent_message"); got != SeverityHigh {
		t.Errorf("urgent_message = %v, want high", got)
	}
	if got := SeverityForExternal("doorbell"); got != SeverityMedium {
		t.Errorf("doorbell = %v, want medium", got)
	}
}

func TestExternalInterruption(t *testing.T) {
	typ := ExternalInterruption("phone_call")
	if !typ.IsExternal() {
		t.Error("built type should be external")
	}
	if typ.ExternalKind() != "phone_call" {
		t.Errorf("ExternalKind = %q, want phone_call", typ.ExternalKind())
	}
	if InterruptionManualPause.IsExternal() {
		t.Error("manual_pause is not external")
	}
	if InterruptionInactivity.ExternalKind() != "inactivity" {
		t.Errorf("detected types pass through ExternalKind unchanged")
	}
}
