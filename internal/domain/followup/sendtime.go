package followup

import "time"

// TimeBlock is a coarse slice of the working day a lead has historically
// responded in. Each block resolves to a fixed representative hour.
type TimeBlock string

const (
	BlockMorning   TimeBlock = "8-11"
	BlockMidday    TimeBlock = "11-14"
	BlockAfternoon TimeBlock = "14-17"
	BlockEvening   TimeBlock = "17-20"
)

var blockHours = map[TimeBlock]int{
	BlockMorning:   9,
	BlockMidday:    12,
	BlockAfternoon: 15,
	BlockEvening:   18,
}

// WindowSlot is one preferred day/time-of-day combination.
type WindowSlot struct {
	Day   time.Weekday
	Block TimeBlock
}

// ContactWindow is a lead's observed preferred contact pattern: a primary
// slot and an optional secondary fallback.
type ContactWindow struct {
	Primary   WindowSlot
	Secondary *WindowSlot
}

// SendConstraints are the safety inputs to send-time resolution.
type SendConstraints struct {
	QuietMode          bool
	HasWeekendActivity bool
}

const (
	minLeadTime  = time.Hour
	sendHourMin  = 8  // inclusive
	sendHourMax  = 21 // exclusive
	fallbackHour = 10
	defaultHour  = 15

	// doNotScheduleHorizon recognises the quiet-mode sentinel, which sits a
	// full year out.
	doNotScheduleHorizon = 300 * 24 * time.Hour
)

// ResolveSendTime computes the next legal send timestamp for a lead.
//
// Quiet mode returns a sentinel one year in the future; callers must detect
// it with IsDoNotSchedule and abort scheduling. Every other result is at
// least an hour out, lands within [08:00, 21:00), and falls on a weekday
// unless the lead has demonstrated weekend engagement.
func ResolveSendTime(now time.Time, window *ContactWindow, c SendConstraints) time.Time {
	if c.QuietMode {
		return now.AddDate(1, 0, 0)
	}

	// Pick a target day and hour: primary window, then secondary if the
	// primary falls on a weekend without the override, then the default of
	// next business day at 15:00.
	var day time.Weekday
	var hour int
	switch {
	case window != nil && slotUsable(window.Primary, c):
		day, hour = window.Primary.Day, blockHour(window.Primary.Block)
	case window != nil && window.Secondary != nil && slotUsable(*window.Secondary, c):
		day, hour = window.Secondary.Day, blockHour(window.Secondary.Block)
	default:
		day, hour = nextBusinessDay(now).Weekday(), defaultHour
	}

	candidate := nextOccurrence(now, day, hour)

	// Too close to now: try a same-day slot two hours out, otherwise push to
	// the next business day at 10:00.
	if candidate.Before(now.Add(minLeadTime)) {
		sameDay := now.Add(2 * time.Hour)
		if h := sameDay.Hour(); h >= sendHourMin && h < sendHourMax {
			candidate = sameDay
		} else {
			candidate = atHour(nextBusinessDay(now), fallbackHour)
		}
	}

	// Final safety clamp, applied regardless of the path taken above.
	if candidate.Hour() >= sendHourMax || candidate.Hour() < sendHourMin {
		candidate = atHour(candidate.AddDate(0, 0, 1), fallbackHour)
	}
	if isWeekend(candidate.Weekday()) && !c.HasWeekendActivity {
		candidate = atHour(nextBusinessDay(candidate), fallbackHour)
	}

	return candidate
}

// IsDoNotSchedule reports whether ts is the quiet-mode sentinel.
func IsDoNotSchedule(now, ts time.Time) bool {
	return ts.Sub(now) > doNotScheduleHorizon
}

func slotUsable(s WindowSlot, c SendConstraints) bool {
	return !isWeekend(s.Day) || c.HasWeekendActivity
}

func blockHour(b TimeBlock) int {
	if h, ok := blockHours[b]; ok {
		return h
	}
	return defaultHour
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// nextOccurrence resolves day/hour to the next occurrence of that weekday at
// that hour, counting today as a valid occurrence.
func nextOccurrence(now time.Time, day time.Weekday, hour int) time.Time {
	daysAhead := (int(day) - int(now.Weekday()) + 7) % 7
	return atHour(now.AddDate(0, 0, daysAhead), hour)
}

// nextBusinessDay returns the first weekday strictly after t.
func nextBusinessDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for isWeekend(next.Weekday()) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}
