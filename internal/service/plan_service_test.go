package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/domain"
	"runplan/marathon-planner/internal/repository"
)

// fakePlanRepo is an in-memory PlanRepository.
type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.TrainingPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[primitive.ObjectID]*domain.TrainingPlan)}
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	stored := *plan
	stored.ID = id
	stored.CreatedAt = time.Now()
	r.plans[id] = &stored
	return id, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, plan := range r.plans {
		if plan.OwnerID == ownerID {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) SetExportKey(ctx context.Context, id, ownerID primitive.ObjectID, key string) error {
	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	plan.ExportKey = key
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	plan, ok := r.plans[id]
	if !ok || plan.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func validParams() domain.RequestParameters {
	return domain.RequestParameters{
		RaceType:     domain.RaceMarathon,
		SkillLevel:   domain.SkillBeginner,
		RaceDate:     "2025-10-18",
		LongRunDay:   "saturday",
		TrainingDays: []string{"tuesday", "thursday", "saturday"},
	}
}

func TestGeneratePlanStoresForOwner(t *testing.T) {
	repo := newFakePlanRepo()
	svc := NewPlanService(repo)
	owner := primitive.NewObjectID()

	plan, err := svc.GeneratePlan(context.Background(), owner, validParams())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if plan.ID.IsZero() {
		t.Error("stored plan has no ID")
	}
	if plan.OwnerID != owner {
		t.Errorf("plan owner = %v, want %v", plan.OwnerID, owner)
	}
	if len(plan.Weeks) != 10 {
		t.Errorf("plan has %d weeks, want 10", len(plan.Weeks))
	}
}

func TestGeneratePlanRejectsBadParams(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())
	owner := primitive.NewObjectID()

	params := validParams()
	params.LongRunDay = "someday"
	if _, err := svc.GeneratePlan(context.Background(), owner, params); !errors.Is(err, ErrInvalidPlanRequest) {
		t.Errorf("bad long run day: got %v, want ErrInvalidPlanRequest", err)
	}

	params = validParams()
	params.TrainingDays = nil
	if _, err := svc.GeneratePlan(context.Background(), owner, params); !errors.Is(err, ErrInvalidPlanRequest) {
		t.Errorf("no training days: got %v, want ErrInvalidPlanRequest", err)
	}

	params = validParams()
	params.RaceDate = "bogus"
	if _, err := svc.GeneratePlan(context.Background(), owner, params); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("bad race date: got %v, want ErrInvalidDate", err)
	}
}

func TestGetPlanScopedToOwner(t *testing.T) {
	repo := newFakePlanRepo()
	svc := NewPlanService(repo)
	owner := primitive.NewObjectID()

	plan, err := svc.GeneratePlan(context.Background(), owner, validParams())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	if _, err := svc.GetPlan(context.Background(), plan.ID, owner); err != nil {
		t.Errorf("owner cannot read own plan: %v", err)
	}

	stranger := primitive.NewObjectID()
	if _, err := svc.GetPlan(context.Background(), plan.ID, stranger); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("stranger read = %v, want ErrPlanNotFound", err)
	}
}

func TestDeletePlanNotFound(t *testing.T) {
	svc := NewPlanService(newFakePlanRepo())
	err := svc.DeletePlan(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("DeletePlan = %v, want ErrPlanNotFound", err)
	}
}

func TestMonthGrid(t *testing.T) {
	repo := newFakePlanRepo()
	svc := NewPlanService(repo)
	owner := primitive.NewObjectID()

	plan, err := svc.GeneratePlan(context.Background(), owner, validParams())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	cells, err := svc.MonthGrid(context.Background(), plan.ID, owner, 2025, time.October)
	if err != nil {
		t.Fatalf("MonthGrid: %v", err)
	}
	if len(cells) != 31 {
		t.Fatalf("October grid has %d cells, want 31", len(cells))
	}

	byDate := make(map[string]GridCell, len(cells))
	for _, cell := range cells {
		byDate[cell.Date] = cell
	}

	race := byDate["2025-10-18"]
	if race.Workout == nil || race.Workout.Type != domain.WorkoutRaceDay {
		t.Errorf("race day cell = %+v, want race day workout", race.Workout)
	}
	if race.Color != domain.WorkoutColor(domain.WorkoutRaceDay) {
		t.Errorf("race day color = %q", race.Color)
	}

	// A day with no scheduled workout renders as an empty cell.
	empty := byDate["2025-10-01"]
	if empty.Workout != nil {
		t.Errorf("expected empty cell on 2025-10-01, got %+v", empty.Workout)
	}
}
