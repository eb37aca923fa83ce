package profiling

import (
	"testing"
	"time"
)

func TestFormatMs(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{2 * time.Millisecond, "2ms"},
		{4200 * time.Microsecond, "4.2ms"},
		{1560 * time.Microsecond, "1.6ms"},
	}
	for _, tc := range tests {
		if got := formatMs(tc.d); got != tc.want {
			t.Errorf("formatMs(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestTrackAndTopN(t *testing.T) {
	ResetFrame()
	defer ResetFrame()

	mu.Lock()
	frameTotals["a"] = 3 * time.Millisecond
	frameTotals["b"] = 5 * time.Millisecond
	frameTotals["c"] = 1 * time.Millisecond
	mu.Unlock()

	if got := TopN(2); got != "b:5ms, a:3ms" {
		t.Errorf("TopN(2) = %q", got)
	}

	Track("d")()
	Track("d")()
	if c := Count("d"); c != 2 {
		t.Errorf("Count(d) = %d, want 2", c)
	}

	ResetFrame()
	if got := TopN(5); got != "" {
		t.Errorf("TopN after reset = %q", got)
	}
}
