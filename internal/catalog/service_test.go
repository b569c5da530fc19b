package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	"github.com/parshwa-io/adminconsole-backend/pkg/db/models"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
	"github.com/parshwa-io/adminconsole-backend/pkg/storage/gcs"
)

type stubStore struct {
	uploads     []string
	deletes     []string
	failUploadN int
	uploadErr   error
	deleteErrs  map[string]error
}

func (s *stubStore) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if s.failUploadN > 0 && len(s.uploads)+1 == s.failUploadN {
		return "", s.uploadErr
	}
	url := "https://storage.test/bucket/" + object
	s.uploads = append(s.uploads, url)
	return url, nil
}

func (s *stubStore) Delete(ctx context.Context, urlOrObject string) error {
	s.deletes = append(s.deletes, urlOrObject)
	if err, ok := s.deleteErrs[urlOrObject]; ok {
		return err
	}
	return nil
}

type stubRepo struct {
	created   []*models.Product
	createErr error
	products  map[uuid.UUID]*models.Product
	deleted   []uuid.UUID
	deleteErr error
	listed    []models.Product
	listMore  bool
	gotLimit  int
}

func (r *stubRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.created = append(r.created, product)
	return product, nil
}

func (r *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.products[id], nil
}

func (r *stubRepo) ListOrdered(ctx context.Context, limit int) ([]models.Product, bool, error) {
	r.gotLimit = limit
	return r.listed, r.listMore, nil
}

func (r *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func newTestService(t *testing.T, store *stubStore, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:        store,
		Repo:         repo,
		Logger:       logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Config:       config.CatalogConfig{ListLimit: 100, MaxImages: 5, MaxUploadMB: 20},
		ObjectPrefix: "products",
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	counter := 0
	svc.(*service).newObjectID = func() string {
		counter++
		return fmt.Sprintf("obj%d", counter)
	}
	return svc
}

func validInput(imageCount int) CreateProductInput {
	images := make([]ImageUpload, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		images = append(images, ImageUpload{
			Filename:    fmt.Sprintf("shot-%d.png", i+1),
			ContentType: "image/png",
			Size:        128,
			Body:        strings.NewReader("pixels"),
		})
	}
	return CreateProductInput{
		Title:         "Air Max 90",
		Brand:         "nike",
		Description:   "classic runner",
		ColorVariants: []string{"red", " blue ", ""},
		Images:        images,
	}
}

func TestCreatePreservesImageOrder(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{}
	svc := newTestService(t, store, repo)

	result, err := svc.Create(context.Background(), validInput(3))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Product == nil {
		t.Fatal("expected created product")
	}

	if len(result.Product.ImgRef) != 3 {
		t.Fatalf("expected 3 image refs, got %d", len(result.Product.ImgRef))
	}
	for i, url := range result.Product.ImgRef {
		if url != store.uploads[i] {
			t.Fatalf("img_ref[%d] out of order: %s vs %s", i, url, store.uploads[i])
		}
		if !strings.Contains(url, fmt.Sprintf("shot-%d.png", i+1)) {
			t.Fatalf("img_ref[%d] lost submission order: %s", i, url)
		}
	}

	if got := result.Product.ColorVariants; len(got) != 2 || got[0] != "red" || got[1] != "blue" {
		t.Fatalf("variants not normalized: %v", got)
	}
	if result.Product.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
}

func TestCreateUploadFailureCleansPriorUploadsOnce(t *testing.T) {
	store := &stubStore{failUploadN: 3, uploadErr: errors.New("bucket unavailable")}
	repo := &stubRepo{}
	svc := newTestService(t, store, repo)

	result, err := svc.Create(context.Background(), validInput(4))
	if err == nil {
		t.Fatal("expected error")
	}
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if len(store.uploads) != 2 {
		t.Fatalf("expected 2 successful uploads before failure, got %d", len(store.uploads))
	}
	if len(store.deletes) != 2 {
		t.Fatalf("expected exactly one delete per uploaded object, got %v", store.deletes)
	}
	seen := map[string]int{}
	for _, url := range store.deletes {
		seen[url]++
	}
	for _, url := range store.uploads {
		if seen[url] != 1 {
			t.Fatalf("object %s deleted %d times", url, seen[url])
		}
	}

	if len(repo.created) != 0 {
		t.Fatal("document must not be written when an upload fails")
	}
	if len(result.CleanupFailures) != 0 {
		t.Fatalf("cleanup succeeded, expected no failures: %v", result.CleanupFailures)
	}
}

func TestCreateReportsCleanupFailures(t *testing.T) {
	store := &stubStore{failUploadN: 2, uploadErr: errors.New("bucket unavailable")}
	store.deleteErrs = map[string]error{}
	repo := &stubRepo{}
	svc := newTestService(t, store, repo)

	// The only prior upload will be obj1.
	store.deleteErrs["https://storage.test/bucket/products/obj1-shot-1.png"] = errors.New("permission denied")

	result, err := svc.Create(context.Background(), validInput(2))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(result.CleanupFailures) != 1 {
		t.Fatalf("expected 1 cleanup failure, got %v", result.CleanupFailures)
	}
}

func TestCreateDBFailureCleansAllUploads(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{createErr: errors.New("connection reset")}
	svc := newTestService(t, store, repo)

	_, err := svc.Create(context.Background(), validInput(3))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.deletes) != 3 {
		t.Fatalf("expected all 3 uploads removed, got %v", store.deletes)
	}
}

func TestCreateValidatesBeforeAnyIO(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*CreateProductInput)
	}{
		{"missing title", func(in *CreateProductInput) { in.Title = "  " }},
		{"unknown brand", func(in *CreateProductInput) { in.Brand = "gucci" }},
		{"no images", func(in *CreateProductInput) { in.Images = nil }},
		{"too many images", func(in *CreateProductInput) {
			in.Images = validInput(6).Images
		}},
		{"oversized image", func(in *CreateProductInput) {
			in.Images[0].Size = 21 << 20
		}},
		{"blank filename", func(in *CreateProductInput) {
			in.Images[0].Filename = " "
		}},
		{"non-image upload", func(in *CreateProductInput) {
			in.Images[0].ContentType = "application/pdf"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			repo := &stubRepo{}
			svc := newTestService(t, store, repo)

			input := validInput(2)
			tc.mut(&input)

			_, err := svc.Create(context.Background(), input)
			var coded *pkgerrors.Error
			if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(store.uploads) != 0 || len(store.deletes) != 0 {
				t.Fatal("validation failure must not touch storage")
			}
			if len(repo.created) != 0 {
				t.Fatal("validation failure must not touch the database")
			}
		})
	}
}

func TestDeleteRemovesEveryImageThenDocument(t *testing.T) {
	id := uuid.New()
	store := &stubStore{}
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, ImgRef: []string{"u1", "u2", "u3"}},
	}}
	svc := newTestService(t, store, repo)

	result, err := svc.Delete(context.Background(), id)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(store.deletes) != 3 {
		t.Fatalf("expected 3 object deletes, got %v", store.deletes)
	}
	if result.ImagesDeleted != 3 || len(result.ImageFailures) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != id {
		t.Fatalf("document not deleted: %v", repo.deleted)
	}
}

func TestDeleteTreatsMissingObjectAsSuccess(t *testing.T) {
	id := uuid.New()
	store := &stubStore{deleteErrs: map[string]error{"u2": gcs.ErrObjectNotFound}}
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, ImgRef: []string{"u1", "u2"}},
	}}
	svc := newTestService(t, store, repo)

	result, err := svc.Delete(context.Background(), id)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if result.ImagesDeleted != 2 || len(result.ImageFailures) != 0 {
		t.Fatalf("missing object should count as deleted: %+v", result)
	}
}

func TestDeleteSwallowsImageFailuresButReportsThem(t *testing.T) {
	id := uuid.New()
	store := &stubStore{deleteErrs: map[string]error{"u1": errors.New("permission denied")}}
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, ImgRef: []string{"u1", "u2"}},
	}}
	svc := newTestService(t, store, repo)

	result, err := svc.Delete(context.Background(), id)
	if err != nil {
		t.Fatalf("image failure must not abort the workflow: %v", err)
	}
	if len(result.ImageFailures) != 1 || result.ImageFailures[0] != "u1" {
		t.Fatalf("expected u1 reported, got %v", result.ImageFailures)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("document should still be deleted")
	}
}

func TestDeleteDocumentFailureIsFatal(t *testing.T) {
	id := uuid.New()
	store := &stubStore{}
	repo := &stubRepo{
		products:  map[uuid.UUID]*models.Product{id: {ID: id, ImgRef: []string{"u1"}}},
		deleteErr: errors.New("connection reset"),
	}
	svc := newTestService(t, store, repo)

	_, err := svc.Delete(context.Background(), id)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDeleteMissingProductIsNoop(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{products: map[uuid.UUID]*models.Product{}}
	svc := newTestService(t, store, repo)

	result, err := svc.Delete(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("deleting a missing product must succeed: %v", err)
	}
	if result.ImagesDeleted != 0 || len(result.ImageFailures) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(store.deletes) != 0 {
		t.Fatal("missing product must not touch storage")
	}
	if len(repo.deleted) != 0 {
		t.Fatal("missing product must not touch the database")
	}
}

func TestListUsesConfiguredLimit(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{listed: []models.Product{{Title: "a"}}, listMore: true}
	svc := newTestService(t, store, repo)

	result, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.gotLimit != 100 {
		t.Fatalf("expected limit 100, got %d", repo.gotLimit)
	}
	if !result.HasMore || len(result.Products) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestListClampsRequestedLimit(t *testing.T) {
	store := &stubStore{}
	repo := &stubRepo{}
	svc := newTestService(t, store, repo)

	if _, err := svc.List(context.Background(), 25); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.gotLimit != 25 {
		t.Fatalf("expected limit 25, got %d", repo.gotLimit)
	}

	if _, err := svc.List(context.Background(), 10_000); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.gotLimit != 500 {
		t.Fatalf("expected clamp to 500, got %d", repo.gotLimit)
	}
}
