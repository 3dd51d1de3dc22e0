package gcal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"runplan/marathon-planner/internal/domain"
)

func miles(d float64) *float64 { return &d }

func sampleParams() domain.RequestParameters {
	return domain.RequestParameters{
		RaceType:     domain.RaceMarathon,
		SkillLevel:   domain.SkillBeginner,
		RaceDate:     "2025-10-18",
		LongRunDay:   "saturday",
		TrainingDays: []string{"tuesday", "thursday", "saturday"},
	}
}

func sampleWeeks() []domain.Week {
	return []domain.Week{
		{
			Number:    1,
			StartDate: "2025-06-09",
			Workouts: []domain.Workout{
				{Date: "2025-06-09", Day: "monday", Type: domain.WorkoutRest, Description: "Rest"},
				{Date: "2025-06-10", Day: "tuesday", Type: domain.WorkoutEasyRun, Distance: miles(4), Description: "Easy run"},
				{Date: "2025-06-14", Day: "saturday", Type: domain.WorkoutLongRun, Distance: miles(10), Description: "Long run - 10 miles"},
			},
		},
	}
}

// fakeEvents records calls and fails on demand, standing in for the real
// Calendar REST surface.
type fakeEvents struct {
	inserted   []*calendar.Event
	failInsert map[string]bool // keyed by start date

	listed      []*calendar.Event
	listErr     error
	listQuery   string
	listTimeMin time.Time
	listTimeMax time.Time

	deleted    []string
	failDelete map[string]bool // keyed by event ID
}

func (f *fakeEvents) Insert(ctx context.Context, calendarID string, event *calendar.Event) error {
	if event.Start != nil && f.failInsert[event.Start.Date] {
		return fmt.Errorf("insert rejected")
	}
	f.inserted = append(f.inserted, event)
	return nil
}

func (f *fakeEvents) List(ctx context.Context, calendarID, privateProperty string, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	f.listQuery = privateProperty
	f.listTimeMin = timeMin
	f.listTimeMax = timeMax
	return f.listed, f.listErr
}

func (f *fakeEvents) Delete(ctx context.Context, calendarID, eventID string) error {
	if f.failDelete[eventID] {
		return fmt.Errorf("delete rejected")
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func newTestClient(fake *fakeEvents) *Client {
	c := NewClient(Config{ClientID: "client", APIKey: "key"})
	c.events = fake
	return c
}

func TestAddAllSkipsRestAndTagsEvents(t *testing.T) {
	fake := &fakeEvents{}
	c := newTestClient(fake)

	result, err := c.AddAll(context.Background(), sampleWeeks(), sampleParams())
	if err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if result.SuccessCount != 2 || result.FailCount != 0 {
		t.Errorf("result = %+v, want 2 successes", result)
	}
	if len(fake.inserted) != 2 {
		t.Fatalf("inserted %d events, want 2 (rest day skipped)", len(fake.inserted))
	}

	ev := fake.inserted[0]
	if ev.Summary != "Easy Run - 4.0 miles" {
		t.Errorf("summary = %q", ev.Summary)
	}
	if ev.Start == nil || ev.Start.Date != "2025-06-10" {
		t.Errorf("start = %+v, want all-day date 2025-06-10", ev.Start)
	}
	// All-day end dates are exclusive.
	if ev.End == nil || ev.End.Date != "2025-06-11" {
		t.Errorf("end = %+v, want exclusive end date 2025-06-11", ev.End)
	}

	if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
		t.Fatal("event carries no private extended properties")
	}
	tags := ev.ExtendedProperties.Private
	if tags["source"] != TagSource {
		t.Errorf("source tag = %q, want %q", tags["source"], TagSource)
	}
	if tags["raceType"] != "marathon" || tags["skillLevel"] != "beginner" {
		t.Errorf("race tags = %v", tags)
	}
	if tags["workoutDate"] != "2025-06-10" {
		t.Errorf("workoutDate tag = %q", tags["workoutDate"])
	}
}

func TestAddAllCountsPartialFailures(t *testing.T) {
	fake := &fakeEvents{failInsert: map[string]bool{"2025-06-14": true}}
	c := newTestClient(fake)

	result, err := c.AddAll(context.Background(), sampleWeeks(), sampleParams())
	if err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	if result.SuccessCount != 1 || result.FailCount != 1 {
		t.Errorf("result = %+v, want {SuccessCount:1 FailCount:1}", result)
	}
}

func TestAddAllAbortsOnInvalidDate(t *testing.T) {
	weeks := sampleWeeks()
	weeks[0].Workouts[1].Date = "nonsense"

	fake := &fakeEvents{}
	c := newTestClient(fake)

	if _, err := c.AddAll(context.Background(), weeks, sampleParams()); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("AddAll = %v, want ErrInvalidDate", err)
	}
	if len(fake.inserted) != 0 {
		t.Errorf("inserted %d events after invalid date, want 0", len(fake.inserted))
	}
}

func TestAddAllRequiresCredentials(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.AddAll(context.Background(), sampleWeeks(), sampleParams()); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("AddAll = %v, want ErrMissingCredentials", err)
	}

	c = NewClient(Config{ClientID: "client"}) // API key still missing
	if _, err := c.AddAll(context.Background(), sampleWeeks(), sampleParams()); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("AddAll = %v, want ErrMissingCredentials", err)
	}
}

func TestRemoveAllDeletesTaggedEvents(t *testing.T) {
	fake := &fakeEvents{
		listed: []*calendar.Event{
			{Id: "ev-1"}, {Id: "ev-2"}, {Id: "ev-3"},
		},
	}
	c := newTestClient(fake)

	result, err := c.RemoveAll(context.Background())
	if err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if !result.Found || result.DeleteCount != 3 {
		t.Errorf("result = %+v, want 3 deletions", result)
	}
	if fake.listQuery != "source="+TagSource {
		t.Errorf("list query = %q, want tag-scoped query", fake.listQuery)
	}

	// The scan window spans six months either side of now.
	window := fake.listTimeMax.Sub(fake.listTimeMin)
	if window < 300*24*time.Hour || window > 400*24*time.Hour {
		t.Errorf("scan window = %v, want roughly a year centered on now", window)
	}
}

func TestRemoveAllIsIdempotentWhenNothingMatches(t *testing.T) {
	fake := &fakeEvents{}
	c := newTestClient(fake)

	for i := 0; i < 2; i++ {
		result, err := c.RemoveAll(context.Background())
		if err != nil {
			t.Fatalf("RemoveAll: %v", err)
		}
		if result.Found || result.DeleteCount != 0 {
			t.Errorf("result = %+v, want no-op", result)
		}
	}
	if len(fake.deleted) != 0 {
		t.Errorf("deleted %d events, want 0", len(fake.deleted))
	}
}

func TestRemoveAllSkipsFailedDeletes(t *testing.T) {
	fake := &fakeEvents{
		listed: []*calendar.Event{
			{Id: "ev-1"}, {Id: "ev-2"}, {Id: "ev-3"},
		},
		failDelete: map[string]bool{"ev-2": true},
	}
	c := newTestClient(fake)

	result, err := c.RemoveAll(context.Background())
	if err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if !result.Found || result.DeleteCount != 2 {
		t.Errorf("result = %+v, want 2 deletions with one skipped", result)
	}
}

func TestRemoveAllListFailure(t *testing.T) {
	fake := &fakeEvents{listErr: fmt.Errorf("backend unavailable")}
	c := newTestClient(fake)

	if _, err := c.RemoveAll(context.Background()); err == nil {
		t.Error("expected error when listing fails")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{ClientID: "client", APIKey: "key"}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := (Config{APIKey: "key"}).Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("missing client_id not detected: %v", err)
	}
	if err := (Config{ClientID: "client"}).Validate(); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("missing api_key not detected: %v", err)
	}
}

func TestConfigCalendarID(t *testing.T) {
	if got := (Config{}).calendarID(); got != "primary" {
		t.Errorf("default calendar = %q, want primary", got)
	}
	if got := (Config{CalendarID: "team"}).calendarID(); got != "team" {
		t.Errorf("calendar = %q, want team", got)
	}
}
