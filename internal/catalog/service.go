package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/multierr"

	"github.com/parshwa-io/adminconsole-backend/pkg/config"
	"github.com/parshwa-io/adminconsole-backend/pkg/db/models"
	"github.com/parshwa-io/adminconsole-backend/pkg/enums"
	pkgerrors "github.com/parshwa-io/adminconsole-backend/pkg/errors"
	"github.com/parshwa-io/adminconsole-backend/pkg/logger"
	"github.com/parshwa-io/adminconsole-backend/pkg/metrics"
	"github.com/parshwa-io/adminconsole-backend/pkg/storage/gcs"
)

const (
	workflowCreate = "product-creation"
	workflowDelete = "product-deletion"

	bytesPerMB = 1 << 20
)

// Service defines the catalog behavior needed by the products controller.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*CreateResult, error)
	List(ctx context.Context, limit int) (*ListResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error)
}

const maxListLimit = 500

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, urlOrObject string) error
}

type repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListOrdered(ctx context.Context, limit int) ([]models.Product, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store        objectStore
	repo         repository
	logg         *logger.Logger
	metrics      *metrics.CatalogMetrics
	cfg          config.CatalogConfig
	objectPrefix string
	newObjectID  func() string
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	Store        objectStore
	Repo         repository
	Logger       *logger.Logger
	Metrics      *metrics.CatalogMetrics
	Config       config.CatalogConfig
	ObjectPrefix string
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	prefix := strings.Trim(strings.TrimSpace(params.ObjectPrefix), "/")
	if prefix == "" {
		prefix = "products"
	}
	return &service{
		store:        params.Store,
		repo:         params.Repo,
		logg:         params.Logger,
		metrics:      params.Metrics,
		cfg:          params.Config,
		objectPrefix: prefix,
		newObjectID:  uuid.NewString,
	}, nil
}

// Create runs the product creation workflow: validate everything up front,
// upload images in submission order, then write the document. Any failure
// after the first upload triggers a best-effort removal of every object
// uploaded so far, each attempted exactly once.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*CreateResult, error) {
	started := time.Now()

	brand, err := s.validateInput(&input)
	if err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, len(input.Images))
	for i, image := range input.Images {
		object := s.objectName(image.Filename)
		url, err := s.store.Upload(ctx, object, image.ContentType, image.Body)
		if err != nil {
			failures := s.cleanup(ctx, workflowCreate, uploaded)
			s.metrics.IncWorkflowFailure(workflowCreate)
			wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err,
				fmt.Sprintf("uploading image %d of %d", i+1, len(input.Images)))
			return &CreateResult{CleanupFailures: failures}, wrapped
		}
		uploaded = append(uploaded, url)
	}

	product := &models.Product{
		Title:         input.Title,
		Brand:         brand,
		Description:   input.Description,
		ColorVariants: pq.StringArray(input.ColorVariants),
		ImgRef:        pq.StringArray(uploaded),
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		failures := s.cleanup(ctx, workflowCreate, uploaded)
		s.metrics.IncWorkflowFailure(workflowCreate)
		return &CreateResult{CleanupFailures: failures},
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting product")
	}

	s.metrics.IncCreated()
	s.metrics.ObserveDuration(workflowCreate, time.Since(started))

	fields := map[string]any{"image_count": len(uploaded)}
	logCtx := s.logg.WithProductID(s.logg.WithFields(ctx, fields), created.ID.String())
	s.logg.Info(logCtx, "product created")

	return &CreateResult{Product: created}, nil
}

// List returns the newest page of the catalog. A non-positive limit falls
// back to the configured default; requests beyond the cap are clamped.
func (s *service) List(ctx context.Context, limit int) (*ListResult, error) {
	if limit <= 0 {
		limit = s.cfg.ListLimit
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	products, hasMore, err := s.repo.ListOrdered(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}
	return &ListResult{Products: products, HasMore: hasMore}, nil
}

// Delete runs the deletion workflow: remove every referenced object, then the
// document. Image removal failures other than not-found are swallowed and
// reported; a document removal failure is fatal.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	started := time.Now()
	logCtx := s.logg.WithProductID(ctx, id.String())

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if product == nil {
		// already deleted
		s.logg.Info(logCtx, "product already absent, nothing to delete")
		return &DeleteResult{ProductID: id}, nil
	}

	result := &DeleteResult{ProductID: id}
	for _, url := range product.ImgRef {
		err := s.store.Delete(ctx, url)
		switch {
		case err == nil, errors.Is(err, gcs.ErrObjectNotFound):
			result.ImagesDeleted++
		default:
			result.ImageFailures = append(result.ImageFailures, url)
			s.logg.Error(s.logg.WithFields(logCtx, map[string]any{"object_url": url}),
				"image removal failed, continuing", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.metrics.IncWorkflowFailure(workflowDelete)
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
	}

	s.metrics.IncDeleted()
	s.metrics.AddCleanupFailures(workflowDelete, len(result.ImageFailures))
	s.metrics.ObserveDuration(workflowDelete, time.Since(started))

	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"images_deleted": result.ImagesDeleted,
		"image_failures": len(result.ImageFailures),
	}), "product deleted")

	return result, nil
}

// validateInput checks the submission before any storage side effects.
func (s *service) validateInput(input *CreateProductInput) (enums.Brand, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	brand, err := enums.ParseBrand(input.Brand)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid brand")
	}

	maxImages := s.cfg.MaxImages
	if maxImages <= 0 {
		maxImages = 5
	}
	if len(input.Images) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}
	if len(input.Images) > maxImages {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images are allowed", maxImages))
	}

	maxBytes := int64(s.cfg.MaxUploadMB) * bytesPerMB
	for i, image := range input.Images {
		if strings.TrimSpace(image.Filename) == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("image %d is missing a filename", i+1))
		}
		if image.Body == nil {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("image %d has no content", i+1))
		}
		if !strings.HasPrefix(image.ContentType, "image/") {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("image %d is not an image (%s)", i+1, image.ContentType))
		}
		if maxBytes > 0 && image.Size > maxBytes {
			return "", pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("image %d exceeds the %dMB limit", i+1, s.cfg.MaxUploadMB))
		}
	}

	variants := make([]string, 0, len(input.ColorVariants))
	for _, v := range input.ColorVariants {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			variants = append(variants, trimmed)
		}
	}
	input.ColorVariants = variants

	return brand, nil
}

// cleanup removes each uploaded object once and returns the URLs that could
// not be removed. Missing objects count as removed.
func (s *service) cleanup(ctx context.Context, workflow string, uploaded []string) []string {
	var failures []string
	var errs []error
	for _, url := range uploaded {
		err := s.store.Delete(ctx, url)
		if err != nil && !errors.Is(err, gcs.ErrObjectNotFound) {
			failures = append(failures, url)
			errs = append(errs, fmt.Errorf("remove %s: %w", url, err))
		}
	}
	if len(errs) > 0 {
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{"object_urls": failures}),
			"compensating object removal failed", multierr.Combine(errs...))
	}
	s.metrics.AddCleanupFailures(workflow, len(failures))
	return failures
}

func (s *service) objectName(filename string) string {
	return fmt.Sprintf("%s/%s-%s", s.objectPrefix, s.newObjectID(), sanitizeFilename(filename))
}

// sanitizeFilename strips path components and whitespace from a user-supplied
// filename so it is safe as an object name segment.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "image"
	}
	return name
}
