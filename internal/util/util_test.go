package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	attempts := 0
	targetAttempts := 3

	err := Retry(context.Background(), 5, 0, nil, func() error {
		attempts++
		if attempts < targetAttempts {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry returned unexpected error: %v", err)
	}
	if attempts != targetAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, targetAttempts)
	}
}

func TestRetryAllFail(t *testing.T) {
	attempts := 0
	maxAttempts := 3

	err := Retry(context.Background(), maxAttempts, 0, nil, func() error {
		attempts++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Fatal("Retry should return error when all attempts fail")
	}
	if attempts != maxAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, maxAttempts)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	fatal := errors.New("rejected")
	attempts := 0

	err := Retry(context.Background(), 5, 0, func(err error) bool {
		return !errors.Is(err, fatal)
	}, func() error {
		attempts++
		if attempts == 2 {
			return fatal
		}
		return errors.New("transient error")
	})

	if !errors.Is(err, fatal) {
		t.Fatalf("Retry returned %v, want the non-retryable error", err)
	}
	if attempts != 2 {
		t.Errorf("Retry called fn %d times, want 2 (stop on non-retryable)", attempts)
	}
}

func TestHashValuesDeterministic(t *testing.T) {
	a := HashValues("123", "1700000000000", "USDT", "100", "ETH", "1", "100", "BUY", "1")
	b := HashValues("123", "1700000000000", "USDT", "100", "ETH", "1", "100", "BUY", "1")
	if a != b {
		t.Error("identical value sequences must produce identical digests")
	}

	c := HashValues("124", "1700000000000", "USDT", "100", "ETH", "1", "100", "BUY", "1")
	if a == c {
		t.Error("different value sequences must not collide on trivial input")
	}
}

func TestHashValuesDelimiterSensitive(t *testing.T) {
	// "ab"+"c" and "a"+"bc" join to different delimited strings.
	if HashValues("ab", "c") == HashValues("a", "bc") {
		t.Error("digest must depend on field boundaries, not just concatenation")
	}
}

func TestPlanWindowsEmpty(t *testing.T) {
	if got := PlanWindows(time.Now(), 0, 7); got != nil {
		t.Errorf("PlanWindows(0 days) = %v, want nil", got)
	}
}

func TestPlanWindowsContiguous(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, tc := range []struct {
		period, interval, wantWindows int
	}{
		{period: 90, interval: 30, wantWindows: 3},
		{period: 31, interval: 30, wantWindows: 2},
		{period: 7, interval: 30, wantWindows: 1},
		{period: 10, interval: 3, wantWindows: 4},
	} {
		windows := PlanWindows(now, tc.period, tc.interval)
		if len(windows) != tc.wantWindows {
			t.Errorf("PlanWindows(%d, %d) produced %d windows, want %d",
				tc.period, tc.interval, len(windows), tc.wantWindows)
			continue
		}

		// Newest window ends exactly at now.
		if windows[0].EndMS != now.UnixMilli() {
			t.Errorf("first window EndMS = %d, want %d", windows[0].EndMS, now.UnixMilli())
		}

		// Each window's start is the next (older) window's end: no gaps,
		// no overlaps.
		for i := 1; i < len(windows); i++ {
			if windows[i].EndMS != windows[i-1].StartMS {
				t.Errorf("window %d EndMS = %d, want %d (contiguity)",
					i, windows[i].EndMS, windows[i-1].StartMS)
			}
		}

		// Total span is exactly the requested period.
		wantStart := now.AddDate(0, 0, -tc.period).UnixMilli()
		if windows[len(windows)-1].StartMS != wantStart {
			t.Errorf("oldest window StartMS = %d, want %d (span must equal %d days)",
				windows[len(windows)-1].StartMS, wantStart, tc.period)
		}

		for _, w := range windows {
			if w.StartMS >= w.EndMS {
				t.Errorf("window %+v is not a valid half-open range", w)
			}
		}
	}
}

func TestPlanWindowsLastIntervalClamped(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	windows := PlanWindows(now, 40, 30)

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}

	// The trailing window covers only the remaining 10 days.
	wantOldStart := now.AddDate(0, 0, -40).UnixMilli()
	if windows[1].StartMS != wantOldStart {
		t.Errorf("clamped window StartMS = %d, want %d", windows[1].StartMS, wantOldStart)
	}
}

func TestParseStartDate(t *testing.T) {
	d, err := ParseStartDate("15/06/2024")
	if err != nil {
		t.Fatalf("ParseStartDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.June || d.Day() != 15 {
		t.Errorf("ParseStartDate = %v", d)
	}

	for _, bad := range []string{"2024-06-15", "31/02/2024", "june 15", ""} {
		if _, err := ParseStartDate(bad); err == nil {
			t.Errorf("ParseStartDate(%q) should fail", bad)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	now := time.Date(2024, 6, 15, 0, 1, 0, 0, time.UTC)

	// Whole-day difference compares dates, not instants.
	if got := DaysBetween(start, now); got != 14 {
		t.Errorf("DaysBetween = %d, want 14", got)
	}
	if got := DaysBetween(now, now); got != 0 {
		t.Errorf("DaysBetween(same day) = %d, want 0", got)
	}
}

func TestResolveInterval(t *testing.T) {
	for _, tc := range []struct {
		requested, period, want int
	}{
		{requested: 0, period: 90, want: 30},  // default
		{requested: 7, period: 90, want: 7},   // explicit
		{requested: 30, period: 10, want: 10}, // capped by period
		{requested: 0, period: 5, want: 5},    // default capped too
	} {
		if got := ResolveInterval(tc.requested, tc.period); got != tc.want {
			t.Errorf("ResolveInterval(%d, %d) = %d, want %d",
				tc.requested, tc.period, got, tc.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		if NewLogger(level, "json") == nil {
			t.Fatalf("NewLogger(%q) returned nil", level)
		}
	}
	if NewLogger("info", "text") == nil {
		t.Fatal("NewLogger text format returned nil")
	}
}
