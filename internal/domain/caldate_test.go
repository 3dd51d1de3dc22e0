package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseCalendarDateDateOnly(t *testing.T) {
	tests := []struct {
		input string
		want  CalendarDate
	}{
		{"2025-06-15", CalendarDate{2025, time.June, 15}},
		{"2025-01-01", CalendarDate{2025, time.January, 1}},
		{"2024-12-31", CalendarDate{2024, time.December, 31}},
		{"2024-02-29", CalendarDate{2024, time.February, 29}},
		{" 2025-06-15 ", CalendarDate{2025, time.June, 15}},
	}
	for _, tt := range tests {
		got, err := ParseCalendarDate(tt.input)
		if err != nil {
			t.Errorf("ParseCalendarDate(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCalendarDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// Date-only values must keep their written day regardless of the process
// timezone. Round-tripping through a UTC timestamp would shift the day for
// zones behind UTC.
func TestParseCalendarDateTimezoneInvariant(t *testing.T) {
	got, err := ParseCalendarDate("2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Day != 15 || got.Month != time.June || got.Year != 2025 {
		t.Errorf("date shifted during parse: got %v", got)
	}
	if got.String() != "2025-06-15" {
		t.Errorf("String() = %q, want %q", got.String(), "2025-06-15")
	}
}

func TestParseCalendarDateTimestamp(t *testing.T) {
	// No offset, so the timestamp is taken as local time and the calendar
	// date matches the written components in every timezone.
	got, err := ParseCalendarDate("2025-06-15T09:30:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := CalendarDate{2025, time.June, 15}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseCalendarDateInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"not-a-date-at-all",
		"2025-13-01",
		"2025-00-10",
		"2025-06-32",
		"2025-02-31",
		"2025-02-30",
		"2025-04-31",
		"2023-02-29", // not a leap year
		"2025-06",
		"2025-06-15T99:99:99",
		"june 15 2025",
	}
	for _, input := range inputs {
		if _, err := ParseCalendarDate(input); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseCalendarDate(%q) = %v, want ErrInvalidDate", input, err)
		}
	}
}

func TestCalendarDateAddDays(t *testing.T) {
	tests := []struct {
		start CalendarDate
		n     int
		want  CalendarDate
	}{
		{CalendarDate{2025, time.June, 15}, 1, CalendarDate{2025, time.June, 16}},
		{CalendarDate{2025, time.June, 30}, 1, CalendarDate{2025, time.July, 1}},
		{CalendarDate{2024, time.December, 31}, 1, CalendarDate{2025, time.January, 1}},
		{CalendarDate{2025, time.March, 1}, -1, CalendarDate{2025, time.February, 28}},
		{CalendarDate{2024, time.February, 28}, 1, CalendarDate{2024, time.February, 29}},
		{CalendarDate{2025, time.June, 15}, -63, CalendarDate{2025, time.April, 13}},
	}
	for _, tt := range tests {
		if got := tt.start.AddDays(tt.n); got != tt.want {
			t.Errorf("%v.AddDays(%d) = %v, want %v", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestCalendarDateWeekday(t *testing.T) {
	d := CalendarDate{2025, time.October, 18}
	if got := d.Weekday(); got != time.Saturday {
		t.Errorf("Weekday() = %v, want Saturday", got)
	}
}

func TestCalendarDateBefore(t *testing.T) {
	a := CalendarDate{2025, time.June, 15}
	b := CalendarDate{2025, time.June, 16}
	c := CalendarDate{2025, time.July, 1}
	d := CalendarDate{2026, time.January, 1}

	if !a.Before(b) || !b.Before(c) || !c.Before(d) {
		t.Error("expected strictly increasing dates to compare Before")
	}
	if b.Before(a) || a.Before(a) {
		t.Error("Before must be a strict ordering")
	}
}
