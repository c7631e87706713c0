package service

import (
	"context"
	"testing"
	"time"
)

func TestClampPercent(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{49.6, 50},
		{100, 100},
		{250, 100},
	}
	for _, c := range cases {
		if got := clampPercent(c.in); got != c.want {
			t.Errorf("clampPercent(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

// Sample must always return a well-formed snapshot, whatever the host
// offers; failed probes degrade to 0 instead of erroring.
func TestSample_AlwaysWellFormed(t *testing.T) {
	svc := NewStatusService()
	svc.cpuSampleGap = 10 * time.Millisecond

	status := svc.Sample(context.Background())

	for name, v := range map[string]int{
		"cpu":    status.CPU,
		"memory": status.Memory,
		"disk":   status.Disk,
	} {
		if v < 0 || v > 100 {
			t.Errorf("%s = %d, want 0-100", name, v)
		}
	}
	if status.Platform == "" {
		t.Error("platform must be set")
	}
	if _, err := time.Parse(time.RFC3339, status.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", status.Timestamp, err)
	}
	if status.Uptime < 0 {
		t.Errorf("uptime = %d, want >= 0", status.Uptime)
	}
}
