package clock

import "time"

// All scheduling math happens in UTC; callers convert for display.

func Now() time.Time {
	return time.Now().UTC()
}

func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
