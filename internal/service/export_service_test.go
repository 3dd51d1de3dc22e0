package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeFileStorage records uploads and deletes in memory.
type fakeFileStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: make(map[string][]byte)}
}

func (f *fakeFileStorage) Upload(ctx context.Context, objectKey string, contentType string, body []byte) error {
	f.objects[objectKey] = body
	return nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if _, ok := f.objects[objectKey]; !ok {
		return "", errors.New("no such object")
	}
	return "https://storage.example/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	if _, ok := f.objects[objectKey]; !ok {
		return errors.New("no such object")
	}
	delete(f.objects, objectKey)
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func newExportFixture(t *testing.T) (ExportService, *fakePlanRepo, *fakeFileStorage, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	repo := newFakePlanRepo()
	files := newFakeFileStorage()
	planSvc := NewPlanService(repo)
	exportSvc := NewExportService(planSvc, repo, files)

	owner := primitive.NewObjectID()
	plan, err := planSvc.GeneratePlan(context.Background(), owner, validParams())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	return exportSvc, repo, files, plan.ID, owner
}

func TestEncodePlanDeterministic(t *testing.T) {
	svc, _, _, planID, owner := newExportFixture(t)

	first, err := svc.EncodePlan(context.Background(), planID, owner)
	if err != nil {
		t.Fatalf("EncodePlan: %v", err)
	}
	second, err := svc.EncodePlan(context.Background(), planID, owner)
	if err != nil {
		t.Fatalf("EncodePlan: %v", err)
	}
	if first.Content != second.Content {
		t.Error("repeated encodes differ")
	}
	if first.Filename != "marathon-training-plan-marathon-beginner.ics" {
		t.Errorf("filename = %q", first.Filename)
	}
}

func TestPublishPlanRecordsExportKey(t *testing.T) {
	svc, repo, files, planID, owner := newExportFixture(t)

	url, err := svc.PublishPlan(context.Background(), planID, owner)
	if err != nil {
		t.Fatalf("PublishPlan: %v", err)
	}
	if url == "" {
		t.Fatal("publish returned no download URL")
	}
	if len(files.objects) != 1 {
		t.Fatalf("bucket holds %d objects, want 1", len(files.objects))
	}

	plan := repo.plans[planID]
	if plan.ExportKey == "" {
		t.Fatal("publish did not record the export key")
	}
	if !strings.HasPrefix(plan.ExportKey, "exports/"+owner.Hex()+"/") {
		t.Errorf("export key %q is not scoped to the owner", plan.ExportKey)
	}
	if _, ok := files.objects[plan.ExportKey]; !ok {
		t.Errorf("recorded key %q does not match the uploaded object", plan.ExportKey)
	}
}

func TestPublishPlanReplacesPreviousObject(t *testing.T) {
	svc, repo, files, planID, owner := newExportFixture(t)

	if _, err := svc.PublishPlan(context.Background(), planID, owner); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	firstKey := repo.plans[planID].ExportKey

	if _, err := svc.PublishPlan(context.Background(), planID, owner); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	secondKey := repo.plans[planID].ExportKey
	if secondKey == firstKey {
		t.Fatal("republish reused the old object key")
	}

	// The superseded object is deleted, so only the latest export remains.
	if len(files.objects) != 1 {
		t.Errorf("bucket holds %d objects after republish, want 1", len(files.objects))
	}
	if len(files.deleted) != 1 || files.deleted[0] != firstKey {
		t.Errorf("deleted = %v, want the superseded key %q", files.deleted, firstKey)
	}
}

func TestDiscardExport(t *testing.T) {
	svc, repo, files, planID, owner := newExportFixture(t)

	// Nothing published yet: discarding is a no-op.
	if err := svc.DiscardExport(context.Background(), planID, owner); err != nil {
		t.Fatalf("DiscardExport on unpublished plan: %v", err)
	}
	if len(files.deleted) != 0 {
		t.Errorf("deleted %v before anything was published", files.deleted)
	}

	if _, err := svc.PublishPlan(context.Background(), planID, owner); err != nil {
		t.Fatalf("PublishPlan: %v", err)
	}
	key := repo.plans[planID].ExportKey

	if err := svc.DiscardExport(context.Background(), planID, owner); err != nil {
		t.Fatalf("DiscardExport: %v", err)
	}
	if _, ok := files.objects[key]; ok {
		t.Error("published object still present after discard")
	}
	if repo.plans[planID].ExportKey != "" {
		t.Errorf("export key %q not cleared", repo.plans[planID].ExportKey)
	}
}

func TestDiscardExportUnknownPlan(t *testing.T) {
	svc, _, _, _, owner := newExportFixture(t)

	err := svc.DiscardExport(context.Background(), primitive.NewObjectID(), owner)
	if !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("DiscardExport = %v, want ErrPlanNotFound", err)
	}
}
