package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/chime/internal/constants"
)

// ErrUnrecognizedTime is returned by ParseWhen for input in no known form.
var ErrUnrecognizedTime = errors.New(`unrecognized time (use "YYYY-MM-DD HH:MM", "HH:MM" or "+10m")`)

// LoadLocation loads an IANA timezone. Empty or "Local" means the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseWhen turns user input into an absolute time. Accepted forms:
//
//	2026-01-15 09:30   date and time in loc
//	2026-01-15T09:30   datetime-local form
//	09:30              the next 09:30 at or after now
//	+10m, +1h30m       relative to now
func ParseWhen(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrUnrecognizedTime
	}
	if loc == nil {
		loc = time.Local
	}

	if rest, ok := strings.CutPrefix(input, "+"); ok {
		d, err := time.ParseDuration(rest)
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("invalid relative time %q: %w", input, ErrUnrecognizedTime)
		}
		return now.Add(d).Truncate(time.Second), nil
	}

	for _, layout := range []string{constants.DateTimeFormat, constants.LocalDateTimeFormat} {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	if clock, err := time.Parse(constants.TimeFormat, input); err == nil {
		local := now.In(loc)
		t := time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		if t.Before(local.Truncate(time.Minute)) {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}

	return time.Time{}, ErrUnrecognizedTime
}

// FormatClock renders a duration as HH:MM:SS, clamping negatives to zero.
// Hours grow past 99 rather than wrapping.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FormatWhen renders a reminder time for lists.
func FormatWhen(t time.Time) string {
	return t.Local().Format(constants.DateTimeFormat)
}
