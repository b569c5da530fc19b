package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/parshwa-io/adminconsole-backend/pkg/enums"
)

// Product is a catalog entry managed through the admin console.
// ImgRef holds the retrieval URLs of the uploaded images in file-selection
// order; the first entry is the display image.
type Product struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Title         string         `gorm:"column:title;not null"`
	Brand         enums.Brand    `gorm:"column:brand;not null"`
	Description   string         `gorm:"column:description"`
	ColorVariants pq.StringArray `gorm:"column:color_variants;type:text[];default:ARRAY[]::text[]"`
	ImgRef        pq.StringArray `gorm:"column:img_ref;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
}

// TableName pins the table name used by the catalog repository.
func (Product) TableName() string {
	return "products"
}
