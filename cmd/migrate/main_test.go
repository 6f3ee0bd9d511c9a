package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mytheresa/go-catalog-mappings/database"
	"github.com/mytheresa/go-catalog-mappings/internal/daotest"
	"github.com/mytheresa/go-catalog-mappings/models"
)

func openDB(t *testing.T) *gorm.DB {
	cfg := daotest.Config()
	db, err := database.Open(&cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func countRows(t *testing.T, db *gorm.DB) (categories, products int64) {
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	return categories, products
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, run(ctx, db, "", false, false))
	categories, products := countRows(t, db)
	assert.Zero(t, categories)
	assert.Zero(t, products)

	require.NoError(t, run(ctx, db, "", false, true))
	categories, products = countRows(t, db)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 6, products)

	// seeding twice keeps the catalog as it is
	require.NoError(t, run(ctx, db, "", false, true))
	categories, products = countRows(t, db)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 6, products)

	require.NoError(t, run(ctx, db, "", true, false))
	categories, products = countRows(t, db)
	assert.Zero(t, categories)
	assert.Zero(t, products)
}
