package rules

import "time"

const (
	DefaultDeadlineHour = 22
	DefaultRevealHour   = 17
)

// Cycle is one day's matching window.
type Cycle struct {
	Start            time.Time
	ResponseDeadline time.Time
	ResultDate       time.Time
}

func DayKey(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(time.DateOnly)
}

// StartOfDay is local midnight of now's day in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// CycleFor builds the cycle starting on now's local day: responses close at
// deadlineHour the same day, results are revealed at revealHour the next day.
func CycleFor(now time.Time, loc *time.Location, deadlineHour, revealHour int) Cycle {
	start := StartOfDay(now, loc)
	return Cycle{
		Start:            start,
		ResponseDeadline: start.Add(time.Duration(deadlineHour) * time.Hour),
		ResultDate:       time.Date(start.Year(), start.Month(), start.Day()+1, revealHour, 0, 0, 0, start.Location()),
	}
}
