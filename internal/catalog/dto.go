package catalog

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/parshwa-io/adminconsole-backend/pkg/db/models"
)

// ImageUpload describes one image supplied with a product submission. The
// body is consumed exactly once, in submission order.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// CreateProductInput carries a validated-on-entry product submission.
type CreateProductInput struct {
	Title         string
	Brand         string
	Description   string
	ColorVariants []string
	Images        []ImageUpload
}

// CreateResult reports the outcome of a creation workflow. CleanupFailures
// lists object URLs the compensation pass could not remove; they are only
// populated when the workflow itself failed.
type CreateResult struct {
	Product         *models.Product
	CleanupFailures []string
}

// DeleteResult reports the outcome of a deletion workflow. ImageFailures
// lists object URLs whose removal failed but did not stop the workflow.
type DeleteResult struct {
	ProductID     uuid.UUID
	ImagesDeleted int
	ImageFailures []string
}

// ListResult is one page of products, newest first.
type ListResult struct {
	Products []models.Product
	HasMore  bool
}

// ProductView is the wire shape of a catalog product.
type ProductView struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Brand         string    `json:"brand"`
	Description   string    `json:"description,omitempty"`
	ColorVariants []string  `json:"color_variants"`
	ImgRef        []string  `json:"img_ref"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewProductView converts a stored product to its wire shape.
func NewProductView(p models.Product) ProductView {
	return ProductView{
		ID:            p.ID,
		Title:         p.Title,
		Brand:         string(p.Brand),
		Description:   p.Description,
		ColorVariants: append([]string{}, p.ColorVariants...),
		ImgRef:        append([]string{}, p.ImgRef...),
		CreatedAt:     p.CreatedAt,
	}
}
