package util

import (
	"time"
)

// TimeWindow is a half-open [StartMS, EndMS) pagination slice in Unix
// milliseconds, with StartMS < EndMS.
type TimeWindow struct {
	StartMS int64
	EndMS   int64
}

// PlanWindows splits the periodDays before now into consecutive pagination
// windows of at most intervalDays each, newest first. Each window's StartMS
// becomes the next window's EndMS, so the sequence is contiguous with no
// gaps or overlaps, and the final window is clamped so the combined span is
// exactly periodDays. A zero period yields no windows.
//
// Window bounds are derived with calendar arithmetic (AddDate) rather than
// a fixed day-length multiplier, so DST transitions in the host timezone
// shift bounds the same way the wall clock does.
func PlanWindows(now time.Time, periodDays, intervalDays int) []TimeWindow {
	if periodDays <= 0 || intervalDays <= 0 {
		return nil
	}

	var windows []TimeWindow
	end := now
	remaining := periodDays

	for remaining > 0 {
		step := intervalDays
		if step > remaining {
			step = remaining
		}
		start := end.AddDate(0, 0, -step)

		windows = append(windows, TimeWindow{
			StartMS: start.UnixMilli(),
			EndMS:   end.UnixMilli(),
		})

		end = start
		remaining -= step
	}

	return windows
}

// TimestampNow returns the current time as Unix milliseconds, the unit the
// upstream API expects for request timestamps.
func TimestampNow() int64 {
	return time.Now().UnixMilli()
}
