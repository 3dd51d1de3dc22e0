package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a workout date is missing or cannot be
// parsed. The export and sync engines must never substitute a different date
// for an event, so this error aborts the whole operation.
var ErrInvalidDate = errors.New("invalid or missing date")

// CalendarDate is a canonical (year, month, day) value with no time or
// timezone component. It is the single source of truth for "which day" a
// workout belongs to: the ICS encoder, the calendar sync client, and the
// month-grid lookup all key on it, so they can never disagree about which
// cell an event lands in.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseCalendarDate converts a date value into its canonical calendar date.
//
// Values carrying a time component (recognizable by the 'T' separator) are
// parsed as full timestamps and reduced to their local calendar date.
// Plain YYYY-MM-DD values are constructed directly from the three integer
// components ON PURPOSE: round-tripping a date-only string through a UTC
// timestamp shifts the day backward or forward across timezone boundaries.
func ParseCalendarDate(value string) (CalendarDate, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CalendarDate{}, ErrInvalidDate
	}

	if strings.Contains(value, "T") {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			// Timestamps without an offset are taken as local time.
			t, err = time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
			if err != nil {
				return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
			}
		}
		local := t.Local()
		return CalendarDate{Year: local.Year(), Month: local.Month(), Day: local.Day()}, nil
	}

	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	// time.Date normalizes impossible days (February 31 becomes March 3),
	// so a changed day or month means the input named a day that does not
	// exist in that month.
	if t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC); t.Day() != day || t.Month() != time.Month(month) {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return CalendarDate{Year: year, Month: time.Month(month), Day: day}, nil
}

// String renders the date as YYYY-MM-DD, the wire format used everywhere.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// At returns the date at the given local wall-clock hour.
func (d CalendarDate) At(hour int) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, time.Local)
}

// AddDays returns the calendar date n days later (or earlier for negative n).
// time.Date normalizes out-of-range days, so month/year rollover is handled.
func (d CalendarDate) AddDays(n int) CalendarDate {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.Local)
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Weekday returns the day of the week this date falls on.
func (d CalendarDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local).Weekday()
}

// Before reports whether d is chronologically before other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}
