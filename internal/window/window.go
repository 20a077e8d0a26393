// Package window computes local-time reporting windows: the current day, the
// current month and named or custom shifts within a day.
package window

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUsage is returned when shift arguments match none of the accepted forms.
var ErrUsage = errors.New("usage: shift 1 | shift 2 | shift HH:MM HH:MM")

// Window is a half-open local time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
	Label string
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day returns the window covering t's local calendar day.
func Day(t time.Time) Window {
	start := Midnight(t)
	return Window{
		Start: start,
		End:   start.AddDate(0, 0, 1),
		Label: start.Format("2006-01-02"),
	}
}

// Today returns the window for the local day containing now.
func Today(now time.Time) Window {
	w := Day(now)
	w.Label = "Today"
	return w
}

// ThisMonth returns the window from the first of now's month up to the first
// of the following month, both at local midnight.
func ThisMonth(now time.Time) Window {
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: start,
		End:   FirstOfNextMonth(start),
		Label: "This month",
	}
}

// FirstOfNextMonth returns local midnight on day 1 of the month after t.
// time.Date normalises month 13 into January of the following year.
func FirstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, t.Location())
}

type namedShift struct {
	startHour, endHour int
	label              string
}

var namedShifts = map[string]namedShift{
	"1": {6, 13, "Shift 1 (06:00–13:00)"},
	"2": {13, 20, "Shift 2 (13:00–20:00)"},
}

// Shift resolves shift command arguments against todayStart, which must be a
// local midnight. A custom range whose end is not after its start is returned
// as is and simply matches nothing.
func Shift(args []string, todayStart time.Time) (Window, error) {
	trimmed := make([]string, len(args))
	for i, a := range args {
		trimmed[i] = strings.TrimSpace(a)
	}

	switch len(trimmed) {
	case 1:
		s, ok := namedShifts[trimmed[0]]
		if !ok {
			return Window{}, ErrUsage
		}
		return Window{
			Start: atClock(todayStart, s.startHour, 0),
			End:   atClock(todayStart, s.endHour, 0),
			Label: s.label,
		}, nil
	case 2:
		sh, sm, ok := ParseHHMM(trimmed[0])
		if !ok {
			return Window{}, ErrUsage
		}
		eh, em, ok := ParseHHMM(trimmed[1])
		if !ok {
			return Window{}, ErrUsage
		}
		return Window{
			Start: atClock(todayStart, sh, sm),
			End:   atClock(todayStart, eh, em),
			Label: fmt.Sprintf("%s–%s", trimmed[0], trimmed[1]),
		}, nil
	default:
		return Window{}, ErrUsage
	}
}

// ParseHHMM parses a "HH:MM" clock reading with 0 <= HH < 24 and 0 <= MM < 60.
func ParseHHMM(s string) (hour, minute int, ok bool) {
	hs, ms, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(ms))
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h >= 24 || m < 0 || m >= 60 {
		return 0, 0, false
	}
	return h, m, true
}

func atClock(day time.Time, hour, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, day.Location())
}
