package service

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/gcal"
)

// SyncService drives the Google Calendar add and remove workflows for a
// runner's stored plan. Both are user-triggered; there is no background
// synchronization and no automatic retry.
type SyncService interface {
	AddPlanToCalendar(ctx context.Context, planID, ownerID primitive.ObjectID) (gcal.SyncResult, error)
	RemoveFromCalendar(ctx context.Context) (gcal.RemoveResult, error)
}

type syncService struct {
	plans    PlanService
	calendar *gcal.Client
}

// NewSyncService creates a new instance of syncService.
func NewSyncService(plans PlanService, calendar *gcal.Client) SyncService {
	return &syncService{
		plans:    plans,
		calendar: calendar,
	}
}

// AddPlanToCalendar inserts every non-rest workout of the plan as a tagged
// all-day event. Individual insert failures are reflected in the counts,
// never in the returned error.
func (s *syncService) AddPlanToCalendar(ctx context.Context, planID, ownerID primitive.ObjectID) (gcal.SyncResult, error) {
	plan, err := s.plans.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return gcal.SyncResult{}, err
	}

	result, err := s.calendar.AddAll(ctx, plan.Weeks, plan.Params)
	if err != nil {
		return result, err
	}
	log.Printf("INFO: Calendar sync for plan %s: %d added, %d failed", planID.Hex(), result.SuccessCount, result.FailCount)
	return result, nil
}

// RemoveFromCalendar deletes every event carrying the sync tag within the
// scan window. Running it twice in a row is a no-op the second time.
func (s *syncService) RemoveFromCalendar(ctx context.Context) (gcal.RemoveResult, error) {
	result, err := s.calendar.RemoveAll(ctx)
	if err != nil {
		return result, err
	}
	if !result.Found {
		log.Printf("INFO: Calendar remove: no tagged events found")
		return result, nil
	}
	log.Printf("INFO: Calendar remove: %d events deleted", result.DeleteCount)
	return result, nil
}
