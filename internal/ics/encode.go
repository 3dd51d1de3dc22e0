// Package ics serializes a training plan into an iCalendar document suitable
// for import into any calendar tool. Output is deterministic: encoding the
// same plan twice yields byte-identical text, and event UIDs are stable
// across repeated encodes so importers that deduplicate by UID never create
// duplicates.
package ics

import (
	"strconv"
	"strings"

	"runplan/marathon-planner/internal/domain"
)

const (
	prodID     = "-//Marathon Training Plan//EN"
	uidPrefix  = "marathon-training"
	namespace  = "marathon-training-plan"
	categories = "Marathon Training"

	// Location is the fixed placeholder emitted for every event, shared
	// with the calendar sync client so exported and synced events match.
	Location = "Your preferred running location"

	// Workouts are exported as one-hour blocks at 9 AM local time, written
	// as floating (timezone-less) timestamps.
	startHour   = 9
	endHour     = 10
	stampLayout = "20060102T150405"
	crlf        = "\r\n"
)

// Encode serializes the plan into an iCalendar document. Weeks are emitted
// in plan order and workouts in week order; rest days are skipped.
func Encode(weeks []domain.Week, params domain.RequestParameters) (string, error) {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR" + crlf)
	b.WriteString("VERSION:2.0" + crlf)
	b.WriteString("PRODID:" + prodID + crlf)
	b.WriteString("CALSCALE:GREGORIAN" + crlf)
	b.WriteString("METHOD:PUBLISH" + crlf)

	for _, week := range weeks {
		for _, workout := range week.Workouts {
			if workout.Type == domain.WorkoutRest {
				continue
			}
			date, err := domain.ParseCalendarDate(workout.Date)
			if err != nil {
				return "", err
			}

			b.WriteString("BEGIN:VEVENT" + crlf)
			b.WriteString("UID:" + EventUID(params, workout.Date) + crlf)
			b.WriteString("DTSTART:" + date.At(startHour).Format(stampLayout) + crlf)
			b.WriteString("DTEND:" + date.At(endHour).Format(stampLayout) + crlf)
			b.WriteString("SUMMARY:" + escapeText(Summary(workout)) + crlf)
			b.WriteString("DESCRIPTION:" + escapeText(workout.Description) + crlf)
			b.WriteString("LOCATION:" + escapeText(Location) + crlf)
			b.WriteString("CATEGORIES:" + categories + crlf)
			b.WriteString("END:VEVENT" + crlf)
		}
	}

	b.WriteString("END:VCALENDAR" + crlf)
	return b.String(), nil
}

// EventUID builds the globally distinguishing identifier for one workout's
// event. The raw date string goes in unchanged, so the UID stays stable for
// as long as the plan does.
func EventUID(params domain.RequestParameters, rawDate string) string {
	return uidPrefix + "-" + params.RaceType + "-" + params.SkillLevel + "-" + rawDate
}

// Summary is the event title: the workout type, with the mileage appended
// for workouts that have one. Shared verbatim with the calendar sync client.
func Summary(w domain.Workout) string {
	if w.Distance == nil {
		return string(w.Type)
	}
	return string(w.Type) + " - " + strconv.FormatFloat(*w.Distance, 'f', 1, 64) + " miles"
}

// Filename is the suggested download name for the exported document.
func Filename(params domain.RequestParameters) string {
	return namespace + "-" + params.RaceType + "-" + params.SkillLevel + ".ics"
}

// escapeText applies RFC 5545 text escaping. Commas, semicolons, backslashes
// and newlines would otherwise corrupt the document structure.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return r.Replace(s)
}
