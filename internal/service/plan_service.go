package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/domain"
	"runplan/marathon-planner/internal/planner"
	"runplan/marathon-planner/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound       = errors.New("training plan not found")
	ErrInvalidPlanRequest = errors.New("invalid plan request parameters")
)

var weekdayNames = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// GridCell is one day of the month view: the canonical date, its display
// color, and the workout scheduled that day, if any.
type GridCell struct {
	Date    string          `json:"date"`
	Color   string          `json:"color"`
	Workout *domain.Workout `json:"workout,omitempty"`
}

// PlanService generates, stores, and reads training plans.
type PlanService interface {
	GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, params domain.RequestParameters) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, planID, ownerID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, planID, ownerID primitive.ObjectID) error
	MonthGrid(ctx context.Context, planID, ownerID primitive.ObjectID, year int, month time.Month) ([]GridCell, error)
}

type planService struct {
	planRepo repository.PlanRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

// GeneratePlan validates the race parameters, runs the generator, and stores
// the resulting plan for its owner.
func (s *planService) GeneratePlan(ctx context.Context, ownerID primitive.ObjectID, params domain.RequestParameters) (*domain.TrainingPlan, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required to generate a plan")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	weeks, err := planner.GeneratePlan(params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanRequest, err)
	}

	plan := &domain.TrainingPlan{
		OwnerID: ownerID,
		Params:  params,
		Weeks:   weeks,
	}
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return s.planRepo.GetByID(ctx, planID, ownerID) // Fetch again to get all fields
}

// GetPlan retrieves a single plan owned by the caller.
func (s *planService) GetPlan(ctx context.Context, planID, ownerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ListPlans retrieves all plans owned by the caller, newest first.
func (s *planService) ListPlans(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID cannot be nil")
	}
	return s.planRepo.GetByOwnerID(ctx, ownerID)
}

// DeletePlan removes a plan owned by the caller.
func (s *planService) DeletePlan(ctx context.Context, planID, ownerID primitive.ObjectID) error {
	err := s.planRepo.Delete(ctx, planID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// MonthGrid returns one cell per day of the requested month, resolved
// through the plan's workout index so the grid can never disagree with the
// exporters about which day a workout belongs to.
func (s *planService) MonthGrid(ctx context.Context, planID, ownerID primitive.ObjectID, year int, month time.Month) ([]GridCell, error) {
	plan, err := s.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	index, err := domain.BuildWorkoutIndex(plan.Weeks)
	if err != nil {
		return nil, err
	}

	first := domain.CalendarDate{Year: year, Month: month, Day: 1}
	cells := make([]GridCell, 0, 31)
	for d := first; d.Month == month; d = d.AddDays(1) {
		cell := GridCell{Date: d.String(), Color: domain.WorkoutColor("")}
		if w, ok := index[d]; ok {
			workout := w
			cell.Workout = &workout
			cell.Color = domain.WorkoutColor(w.Type)
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

func validateParams(p domain.RequestParameters) error {
	if !weekdayNames[strings.ToLower(p.LongRunDay)] {
		return fmt.Errorf("%w: unknown long run day %q", ErrInvalidPlanRequest, p.LongRunDay)
	}
	if len(p.TrainingDays) == 0 {
		return fmt.Errorf("%w: at least one training day is required", ErrInvalidPlanRequest)
	}
	for _, d := range p.TrainingDays {
		if !weekdayNames[strings.ToLower(d)] {
			return fmt.Errorf("%w: unknown training day %q", ErrInvalidPlanRequest, d)
		}
	}
	if _, err := domain.ParseCalendarDate(p.RaceDate); err != nil {
		return err
	}
	return nil
}
