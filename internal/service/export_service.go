package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/ics"
	"runplan/marathon-planner/internal/repository"
	"runplan/marathon-planner/internal/storage"
)

const icsContentType = "text/calendar; charset=utf-8"

var ErrExportFailed = errors.New("failed to export training plan")

// Export is an encoded plan ready for download.
type Export struct {
	Filename string
	Content  string
}

// ExportService turns a stored plan into an ICS document, either returned
// directly for download or published to object storage behind a temporary
// link. A plan has at most one published object at a time; republishing
// replaces it and deleting the plan discards it.
type ExportService interface {
	EncodePlan(ctx context.Context, planID, ownerID primitive.ObjectID) (*Export, error)
	PublishPlan(ctx context.Context, planID, ownerID primitive.ObjectID) (downloadURL string, err error)
	DiscardExport(ctx context.Context, planID, ownerID primitive.ObjectID) error
}

type exportService struct {
	plans       PlanService
	planRepo    repository.PlanRepository
	fileStorage storage.FileStorage
}

// NewExportService creates a new instance of exportService.
func NewExportService(plans PlanService, planRepo repository.PlanRepository, fileStorage storage.FileStorage) ExportService {
	return &exportService{
		plans:       plans,
		planRepo:    planRepo,
		fileStorage: fileStorage,
	}
}

// EncodePlan loads the plan and serializes it. Encoding is deterministic,
// so repeated downloads of the same plan are byte-identical.
func (s *exportService) EncodePlan(ctx context.Context, planID, ownerID primitive.ObjectID) (*Export, error) {
	plan, err := s.plans.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	content, err := ics.Encode(plan.Weeks, plan.Params)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename: ics.Filename(plan.Params),
		Content:  content,
	}, nil
}

// PublishPlan uploads the encoded document to the export bucket and returns
// a presigned download link. Each publish gets a fresh object key; the
// superseded object from a previous publish is deleted once the new upload
// has succeeded.
func (s *exportService) PublishPlan(ctx context.Context, planID, ownerID primitive.ObjectID) (string, error) {
	plan, err := s.plans.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return "", err
	}
	content, err := ics.Encode(plan.Weeks, plan.Params)
	if err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("exports/%s/%s-%s", ownerID.Hex(), uuid.NewString(), ics.Filename(plan.Params))
	if err := s.fileStorage.Upload(ctx, objectKey, icsContentType, []byte(content)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	// The old object is unreachable once the key record changes, so a
	// failed delete only leaves an orphan behind; not worth failing the
	// publish over.
	if plan.ExportKey != "" && plan.ExportKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, plan.ExportKey); err != nil {
			log.Printf("WARN: Failed to delete superseded export %q: %v", plan.ExportKey, err)
		}
	}
	if err := s.planRepo.SetExportKey(ctx, planID, ownerID, objectKey); err != nil {
		log.Printf("WARN: Failed to record export key for plan %s: %v", planID.Hex(), err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return url, nil
}

// DiscardExport removes the plan's published object, if any. Called when
// the plan itself is deleted; a plan with no published export is a no-op.
func (s *exportService) DiscardExport(ctx context.Context, planID, ownerID primitive.ObjectID) error {
	plan, err := s.plans.GetPlan(ctx, planID, ownerID)
	if err != nil {
		return err
	}
	if plan.ExportKey == "" {
		return nil
	}

	if err := s.fileStorage.DeleteObject(ctx, plan.ExportKey); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if err := s.planRepo.SetExportKey(ctx, planID, ownerID, ""); err != nil {
		log.Printf("WARN: Failed to clear export key for plan %s: %v", planID.Hex(), err)
	}
	return nil
}
