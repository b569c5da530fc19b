package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  brand TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  color_variants TEXT NOT NULL DEFAULT '{}',
  img_ref TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)

	t.Cleanup(func() {
		_ = db.Exec(`DELETE FROM products;`).Error
	})

	return db
}

func TestRepositoryCreateAssignsIdentity(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, testProduct("Air Max 90", time.Time{}))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Air Max 90", found.Title)
	assert.Equal(t, pq.StringArray{"red", "blue"}, found.ColorVariants)
}

func TestRepositoryFindByIDMissingReturnsNil(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepositoryDeleteIsIdempotent(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, testProduct("Samba OG", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepositoryListOrderedPagesNewestFirst(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, testProduct("p", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	products, hasMore, err := repo.ListOrdered(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.True(t, hasMore)
	assert.False(t, products[0].CreatedAt.Before(products[1].CreatedAt))

	all, hasMore, err := repo.ListOrdered(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.False(t, hasMore)
}
