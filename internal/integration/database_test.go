package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fixed-assets-registry/internal/model"
	"fixed-assets-registry/internal/query"
	"fixed-assets-registry/internal/repository"
	"fixed-assets-registry/pkg/validation"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAsset(name, category, status, cost string) model.Asset {
	return model.Asset{
		Name:             name,
		Category:         category,
		Description:      name + " description",
		Cost:             decimal.RequireFromString(cost),
		PurchaseDate:     time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		Location:         "Warehouse",
		Status:           status,
		DepreciationRate: decimal.NewFromInt(10),
	}
}

// TestIntegration_DatabaseOperations tests repository operations end-to-end
func TestIntegration_DatabaseOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database integration test in short mode")
	}

	cfg := loadTestConfig(t)
	db := initTestDatabase(t, cfg)
	defer func() {
		cleanDatabase(t, db)
		db.Close()
	}()
	cleanDatabase(t, db)

	repo := repository.NewAssetRepository(db, cfg.Database.QueryTimeout)
	ctx := context.Background()

	warranty := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	laptop := newAsset("Laptop 100% recycled", "Computer Equipment", model.StatusActive, "1234.56")
	laptop.SerialNumber = "SN-1"
	laptop.WarrantyExpiry = &warranty

	var laptopID int64

	t.Run("Create and Retrieve Asset", func(t *testing.T) {
		id, err := repo.CreateAsset(ctx, laptop)
		require.NoError(t, err)
		require.Positive(t, id)
		laptopID = id

		got, err := repo.GetAssetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, laptop.Name, got.Name)
		assert.True(t, laptop.Cost.Equal(got.Cost))
		assert.Equal(t, "2023-07-01", got.PurchaseDate.Format(model.DateLayout))
		require.NotNil(t, got.WarrantyExpiry)
		assert.Equal(t, "2026-07-01", got.WarrantyExpiry.Format(model.DateLayout))
		assert.Empty(t, got.Supplier)
	})

	t.Run("Create Rejects Stored Asset", func(t *testing.T) {
		stored := laptop
		stored.ID = laptopID
		_, err := repo.CreateAsset(ctx, stored)
		assert.ErrorIs(t, err, repository.ErrIDAlreadySet)
	})

	t.Run("Update Asset", func(t *testing.T) {
		updated := laptop
		updated.Location = "Head Office"
		updated.WarrantyExpiry = nil
		require.NoError(t, repo.UpdateAsset(ctx, laptopID, updated))

		got, err := repo.GetAssetByID(ctx, laptopID)
		require.NoError(t, err)
		assert.Equal(t, "Head Office", got.Location)
		assert.Nil(t, got.WarrantyExpiry)

		assert.ErrorIs(t, repo.UpdateAsset(ctx, laptopID+1000, updated), repository.ErrAssetNotFound)
	})

	t.Run("Filter Composition", func(t *testing.T) {
		_, err := repo.CreateAsset(ctx, newAsset("Office chair", "Furniture", model.StatusActive, "150"))
		require.NoError(t, err)
		_, err = repo.CreateAsset(ctx, newAsset("Old desk", "Furniture", model.StatusDisposed, "80"))
		require.NoError(t, err)

		all, err := repo.ListAssets(ctx, query.Filter{Category: query.AllCategories, Status: query.AllStatuses})
		require.NoError(t, err)
		assert.Equal(t, 3, all.Count)
		assert.Equal(t, "1464.56", all.TotalCost.StringFixed(2))
		assert.Equal(t, laptopID, all.Items[0].ID)

		furniture, err := repo.ListAssets(ctx, query.Filter{Category: "Furniture", Status: model.StatusActive})
		require.NoError(t, err)
		require.Equal(t, 1, furniture.Count)
		assert.Equal(t, "Office chair", furniture.Items[0].Name)

		// LIKE metacharacters match literally
		literal, err := repo.ListAssets(ctx, query.Filter{Search: "100%"})
		require.NoError(t, err)
		require.Equal(t, 1, literal.Count)
		assert.Equal(t, laptopID, literal.Items[0].ID)

		bySerial, err := repo.ListAssets(ctx, query.Filter{Search: "sn-1"})
		require.NoError(t, err)
		assert.Equal(t, 1, bySerial.Count)

		live, err := repo.ListLiveAssets(ctx)
		require.NoError(t, err)
		assert.Len(t, live, 2)
	})

	t.Run("Delete Asset", func(t *testing.T) {
		require.NoError(t, repo.DeleteAsset(ctx, laptopID))

		_, err := repo.GetAssetByID(ctx, laptopID)
		assert.ErrorIs(t, err, repository.ErrAssetNotFound)
		assert.ErrorIs(t, repo.DeleteAsset(ctx, laptopID), repository.ErrAssetNotFound)
	})
}

func TestIntegration_DatabaseConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database constraint test in short mode")
	}

	cfg := loadTestConfig(t)
	db := initTestDatabase(t, cfg)
	defer func() {
		cleanDatabase(t, db)
		db.Close()
	}()
	cleanDatabase(t, db)

	repo := repository.NewAssetRepository(db, cfg.Database.QueryTimeout)
	refs := repository.NewReferenceRepository(db, cfg.Database.QueryTimeout)
	ctx := context.Background()

	t.Run("Unknown Category", func(t *testing.T) {
		_, err := repo.CreateAsset(ctx, newAsset("Rocket", "Spaceships", model.StatusActive, "1"))
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrConstraintViolation)

		var perr *repository.PersistenceError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, repository.KindConstraintViolation, perr.Kind)
	})

	t.Run("Negative Cost", func(t *testing.T) {
		_, err := repo.CreateAsset(ctx, newAsset("Refund", "Furniture", model.StatusActive, "-1"))
		assert.ErrorIs(t, err, repository.ErrConstraintViolation)
	})

	t.Run("Vocabulary Lookup", func(t *testing.T) {
		ok, err := refs.VocabularyContains(ctx, model.VocabularyLocation, "Warehouse")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = refs.VocabularyContains(ctx, model.VocabularyLocation, "Moon")
		require.NoError(t, err)
		assert.False(t, ok)

		categories, err := refs.ListVocabulary(ctx, model.VocabularyCategory)
		require.NoError(t, err)
		assert.Contains(t, categories, "Furniture")
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		shortCtx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		time.Sleep(time.Millisecond)

		_, err := repo.ListAssets(shortCtx, query.Filter{})
		assert.Error(t, err)
	})
}

func TestIntegration_ValidatedAssetRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database integration test in short mode")
	}

	cfg := loadTestConfig(t)
	db := initTestDatabase(t, cfg)
	defer func() {
		cleanDatabase(t, db)
		db.Close()
	}()
	cleanDatabase(t, db)

	repo := repository.NewAssetRepository(db, cfg.Database.QueryTimeout)
	refs := repository.NewReferenceRepository(db, cfg.Database.QueryTimeout)
	validator := validation.NewValidator(refs.VocabularyContains)
	ctx := context.Background()

	raw := validation.RawAsset{
		Name:             strings.Repeat("n", validation.MaxNameLength),
		Category:         "Machinery",
		Cost:             "999999999999.99",
		PurchaseDate:     "2024-02-29",
		Location:         "Warehouse",
		Status:           model.StatusActive,
		DepreciationRate: "12.25",
	}

	asset, err := validator.Validate(ctx, raw)
	require.NoError(t, err)

	id, err := repo.CreateAsset(ctx, asset)
	require.NoError(t, err)

	got, err := repo.GetAssetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, asset.Name, got.Name)
	assert.True(t, asset.Cost.Equal(got.Cost), "cost %s stored as %s", asset.Cost, got.Cost)
	assert.True(t, asset.DepreciationRate.Equal(got.DepreciationRate))
	assert.Equal(t, "2024-02-29", got.PurchaseDate.Format(model.DateLayout))

	// values the columns would round or refuse never reach the store
	for _, mutate := range []func(r *validation.RawAsset){
		func(r *validation.RawAsset) { r.Cost = "1.005" },
		func(r *validation.RawAsset) { r.DepreciationRate = "10.555" },
		func(r *validation.RawAsset) { r.Cost = "1e15" },
		func(r *validation.RawAsset) { r.Name = strings.Repeat("n", validation.MaxNameLength+1) },
	} {
		bad := raw
		mutate(&bad)

		_, err := validator.Validate(ctx, bad)
		var verr *validation.ValidationError
		require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	}
}
