package gcal

import (
	"context"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"runplan/marathon-planner/internal/domain"
	"runplan/marathon-planner/internal/ics"
)

// SyncResult is the aggregate outcome of the add workflow. There are no
// retries; failures are reported to the user, who re-invokes explicitly.
type SyncResult struct {
	SuccessCount int `json:"successCount"`
	FailCount    int `json:"failCount"`
}

// RemoveResult is the outcome of the remove workflow. Found is false when
// the query matched no tagged events, which makes repeated removal an
// idempotent no-op.
type RemoveResult struct {
	DeleteCount int  `json:"deleteCount"`
	Found       bool `json:"found"`
}

// Removal only scans a bounded window around the current moment; tagged
// events outside it are not reachable by RemoveAll.
const removalWindowMonths = 6

// AddAll inserts every non-rest workout of the plan into the calendar as an
// all-day event carrying the sync tag.
//
// Inserts run sequentially in plan order. A failed insert is logged and
// counted but never aborts the remaining events; only a malformed workout
// date (which would create an event on the wrong day) stops the batch.
func (c *Client) AddAll(ctx context.Context, weeks []domain.Week, params domain.RequestParameters) (SyncResult, error) {
	api, err := c.authorize(ctx)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult
	for _, week := range weeks {
		for _, workout := range week.Workouts {
			if workout.Type == domain.WorkoutRest {
				continue
			}
			date, err := domain.ParseCalendarDate(workout.Date)
			if err != nil {
				return result, err
			}

			event := &calendar.Event{
				Summary:     ics.Summary(workout),
				Description: workout.Description,
				Location:    ics.Location,
				// All-day event: the end date is exclusive, so a one-day
				// event ends on the following day.
				Start: &calendar.EventDateTime{Date: date.String()},
				End:   &calendar.EventDateTime{Date: date.AddDays(1).String()},
				ExtendedProperties: &calendar.EventExtendedProperties{
					Private: map[string]string{
						tagKeySource:      TagSource,
						tagKeyRaceType:    params.RaceType,
						tagKeySkillLevel:  params.SkillLevel,
						tagKeyWorkoutDate: workout.Date,
					},
				},
			}

			if err := api.Insert(ctx, c.cfg.calendarID(), event); err != nil {
				log.Printf("ERROR: Failed to add event for %s: %v", workout.Date, err)
				result.FailCount++
				continue
			}
			result.SuccessCount++
		}
	}
	return result, nil
}

// RemoveAll deletes every event tagged source=marathon-training-plan within
// six months either side of now. Per-event delete failures are logged and
// skipped; the count reflects successful deletions only.
func (c *Client) RemoveAll(ctx context.Context) (RemoveResult, error) {
	api, err := c.authorize(ctx)
	if err != nil {
		return RemoveResult{}, err
	}

	now := time.Now()
	timeMin := now.AddDate(0, -removalWindowMonths, 0)
	timeMax := now.AddDate(0, removalWindowMonths, 0)

	// The query is scoped to the tag, so untagged events can never be
	// returned, hence never deleted.
	events, err := api.List(ctx, c.cfg.calendarID(), tagKeySource+"="+TagSource, timeMin, timeMax)
	if err != nil {
		return RemoveResult{}, err
	}
	if len(events) == 0 {
		return RemoveResult{Found: false}, nil
	}

	result := RemoveResult{Found: true}
	for _, event := range events {
		if err := api.Delete(ctx, c.cfg.calendarID(), event.Id); err != nil {
			log.Printf("ERROR: Failed to delete event %s: %v", event.Id, err)
			continue
		}
		result.DeleteCount++
	}
	return result, nil
}
