package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Jshatto/asset-tracker/migrations"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/config"
	"github.com/Jshatto/asset-tracker/src/database"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPostgres migrates and empties the database named by TEST_DATABASE_URL.
// The repository tests are skipped when it is not set.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.Config{Databases: config.DatabasesConfig{SQL: config.SQLConfig{ConnectionString: dsn}}}
	require.NoError(t, migrations.Up(ctx, cfg))

	pool, err := database.SetupDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE assets, users, clients`)
	require.NoError(t, err)
	return pool
}

func newAsset(client models.Client, name string) *models.Asset {
	return &models.Asset{
		ClientID:           client.ID,
		Name:               name,
		Category:           models.CategoryMachinery,
		Cost:               decimal.RequireFromString("1200.00"),
		PurchaseDate:       time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		DepreciationMethod: models.StraightLine,
		UsefulLife:         5,
	}
}

func TestPostgresAssetRepository(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	clients := repositories.NewClientRepository(pool)
	assets := repositories.NewAssetRepository(pool)

	acme := models.Client{Name: "Acme"}
	require.NoError(t, clients.Create(ctx, &acme))

	first := newAsset(acme, "Laptop")
	require.NoError(t, assets.Create(ctx, first))
	second := newAsset(acme, "Desk")
	require.NoError(t, assets.Create(ctx, second))

	t.Run("list and count", func(t *testing.T) {
		all, err := assets.GetAll(ctx, repositories.AssetFilter{ClientID: &acme.ID})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		page, err := assets.GetAll(ctx, repositories.AssetFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, page, 1)

		total, err := assets.Count(ctx, repositories.AssetFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("update and read back", func(t *testing.T) {
		first.Name = "Laptop Pro"
		require.NoError(t, assets.Update(ctx, first))

		stored, err := assets.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Laptop Pro", stored.Name)
		assert.True(t, stored.Cost.Equal(first.Cost))
		assert.Equal(t, "2024-01-15", stored.PurchaseDate.Format("2006-01-02"))
	})

	t.Run("accumulated depreciation", func(t *testing.T) {
		require.NoError(t, assets.UpdateAccumulatedDepreciation(ctx, first.ID, decimal.RequireFromString("480.00")))
		stored, err := assets.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "480.00", stored.AccumulatedDepreciation.StringFixed(2))
	})

	t.Run("archive keeps the asset depreciable", func(t *testing.T) {
		archived, err := assets.Archive(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, archived.Archived)

		total, err := assets.Count(ctx, repositories.AssetFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		depreciable, err := assets.GetDepreciable(ctx)
		require.NoError(t, err)
		assert.Len(t, depreciable, 2)
	})

	t.Run("batch is all or nothing", func(t *testing.T) {
		duplicate := newAsset(acme, "Duplicate")
		duplicate.ID = first.ID
		err := assets.CreateBatch(ctx, []*models.Asset{newAsset(acme, "Chair"), duplicate})
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))

		total, err := assets.Count(ctx, repositories.AssetFilter{IncludeArchived: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("client with assets cannot be deleted", func(t *testing.T) {
		err := clients.Delete(ctx, acme.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})

	t.Run("purge", func(t *testing.T) {
		require.NoError(t, assets.Purge(ctx, second.ID))
		_, err := assets.GetByID(ctx, second.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
		assert.True(t, apperrors.Is(assets.Purge(ctx, second.ID), apperrors.KindNotFound))
	})
}

func TestPostgresUserRepository(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	users := repositories.NewUserRepository(pool)
	clients := repositories.NewClientRepository(pool)

	owner := &models.User{Email: "owner@acme.test", PasswordHash: "hash", Role: models.RoleClient}
	require.NoError(t, users.CreateWithClient(ctx, owner, &models.Client{Name: "Acme"}))
	require.NotNil(t, owner.ClientID)

	stored, err := users.GetByEmail(ctx, "owner@acme.test")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, stored.ID)
	assert.Equal(t, *owner.ClientID, *stored.ClientID)

	again := &models.User{Email: "other@acme.test", PasswordHash: "hash", Role: models.RoleClient}
	err = users.CreateWithClient(ctx, again, &models.Client{Name: "Acme"})
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))

	all, err := clients.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
