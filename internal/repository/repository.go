package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with training plans.
// A plan always belongs to an owner; reads and deletes are filtered by owner
// so one runner can never touch another runner's plan.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TrainingPlan, error)
	SetExportKey(ctx context.Context, id, ownerID primitive.ObjectID, key string) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}
