package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const assetNotFound = "asset not found"

// AssetFilter narrows listings. A nil ClientID lists every tenant.
type AssetFilter struct {
	ClientID        *uuid.UUID
	IncludeArchived bool
	Limit           int
	Offset          int
}

type AssetRepository interface {
	GetAll(ctx context.Context, filter AssetFilter) ([]models.Asset, error)
	Count(ctx context.Context, filter AssetFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	// CreateBatch inserts every asset or none of them.
	CreateBatch(ctx context.Context, assets []*models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	Archive(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	Purge(ctx context.Context, id uuid.UUID) error
	// GetDepreciable lists every asset with a cost and a useful life,
	// archived ones included.
	GetDepreciable(ctx context.Context) ([]models.Asset, error)
	UpdateAccumulatedDepreciation(ctx context.Context, id uuid.UUID, value decimal.Decimal) error
}

type assetRepo struct {
	db TxBeginner
}

func NewAssetRepository(db TxBeginner) AssetRepository {
	return &assetRepo{db: db}
}

const assetColumns = `id, client_id, name, category, cost, purchase_date, depreciation_method,
	useful_life, depreciation_start, accumulated_depreciation, sale_price, sale_date,
	write_off_reason, description, archived, created_at, updated_at`

func scanAsset(row pgx.Row, asset *models.Asset) error {
	return row.Scan(
		&asset.ID,
		&asset.ClientID,
		&asset.Name,
		&asset.Category,
		&asset.Cost,
		&asset.PurchaseDate,
		&asset.DepreciationMethod,
		&asset.UsefulLife,
		&asset.DepreciationStart,
		&asset.AccumulatedDepreciation,
		&asset.SalePrice,
		&asset.SaleDate,
		&asset.WriteOffReason,
		&asset.Description,
		&asset.Archived,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
}

func collectAssets(rows pgx.Rows) ([]models.Asset, error) {
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		var asset models.Asset
		if err := scanAsset(rows, &asset); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (f AssetFilter) where() (string, []any) {
	clauses := []string{}
	args := []any{}
	if !f.IncludeArchived {
		clauses = append(clauses, "archived = FALSE")
	}
	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *assetRepo) GetAll(ctx context.Context, filter AssetFilter) ([]models.Asset, error) {
	where, args := filter.where()
	query := `SELECT ` + assetColumns + ` FROM assets` + where + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		if filter.Offset < 0 {
			filter.Offset = 0
		}
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate("failed to list assets", err, assetNotFound)
	}
	assets, err := collectAssets(rows)
	if err != nil {
		return nil, translate("failed to read assets", err, assetNotFound)
	}
	return assets, nil
}

func (r *assetRepo) Count(ctx context.Context, filter AssetFilter) (int, error) {
	where, args := filter.where()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assets`+where, args...).Scan(&total); err != nil {
		return 0, translate("failed to count assets", err, assetNotFound)
	}
	return total, nil
}

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	err := scanAsset(r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id), &asset)
	if err != nil {
		return nil, translate("failed to fetch asset", err, assetNotFound)
	}
	return &asset, nil
}

func insertAsset(ctx context.Context, db DBTX, asset *models.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	return db.QueryRow(ctx,
		`INSERT INTO assets (
			id, client_id, name, category, cost, purchase_date, depreciation_method,
			useful_life, depreciation_start, accumulated_depreciation, sale_price,
			sale_date, write_off_reason, description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING archived, created_at, updated_at`,
		asset.ID,
		asset.ClientID,
		asset.Name,
		asset.Category,
		asset.Cost,
		asset.PurchaseDate,
		asset.DepreciationMethod,
		asset.UsefulLife,
		asset.DepreciationStart,
		asset.AccumulatedDepreciation,
		asset.SalePrice,
		asset.SaleDate,
		asset.WriteOffReason,
		asset.Description,
	).Scan(&asset.Archived, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepo) Create(ctx context.Context, asset *models.Asset) error {
	return translate("failed to create asset", insertAsset(ctx, r.db, asset), assetNotFound)
}

func (r *assetRepo) CreateBatch(ctx context.Context, assets []*models.Asset) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperrors.Persistence("failed to start import transaction", err)
	}
	defer tx.Rollback(ctx)

	for i, asset := range assets {
		if err := insertAsset(ctx, tx, asset); err != nil {
			return translate(fmt.Sprintf("failed to import row %d", i+1), err, assetNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Persistence("failed to commit import transaction", err)
	}
	return nil
}

func (r *assetRepo) Update(ctx context.Context, asset *models.Asset) error {
	err := r.db.QueryRow(ctx,
		`UPDATE assets
		 SET client_id = $2, name = $3, category = $4, cost = $5, purchase_date = $6,
		     depreciation_method = $7, useful_life = $8, depreciation_start = $9,
		     accumulated_depreciation = $10, sale_price = $11, sale_date = $12,
		     write_off_reason = $13, description = $14, updated_at = NOW()
		 WHERE id = $1
		 RETURNING archived, created_at, updated_at`,
		asset.ID,
		asset.ClientID,
		asset.Name,
		asset.Category,
		asset.Cost,
		asset.PurchaseDate,
		asset.DepreciationMethod,
		asset.UsefulLife,
		asset.DepreciationStart,
		asset.AccumulatedDepreciation,
		asset.SalePrice,
		asset.SaleDate,
		asset.WriteOffReason,
		asset.Description,
	).Scan(&asset.Archived, &asset.CreatedAt, &asset.UpdatedAt)
	return translate("failed to update asset", err, assetNotFound)
}

func (r *assetRepo) Archive(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var asset models.Asset
	err := scanAsset(r.db.QueryRow(ctx,
		`UPDATE assets SET archived = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+assetColumns, id), &asset)
	if err != nil {
		return nil, translate("failed to archive asset", err, assetNotFound)
	}
	return &asset, nil
}

func (r *assetRepo) Purge(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return translate("failed to purge asset", err, assetNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(assetNotFound)
	}
	return nil
}

func (r *assetRepo) GetDepreciable(ctx context.Context) ([]models.Asset, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+assetColumns+` FROM assets
		 WHERE cost IS NOT NULL AND useful_life IS NOT NULL
		 ORDER BY id`)
	if err != nil {
		return nil, translate("failed to list depreciable assets", err, assetNotFound)
	}
	assets, err := collectAssets(rows)
	if err != nil {
		return nil, translate("failed to read depreciable assets", err, assetNotFound)
	}
	return assets, nil
}

func (r *assetRepo) UpdateAccumulatedDepreciation(ctx context.Context, id uuid.UUID, value decimal.Decimal) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE assets SET accumulated_depreciation = $2 WHERE id = $1`, id, value)
	if err != nil {
		return translate("failed to persist accumulated depreciation", err, assetNotFound)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(assetNotFound)
	}
	return nil
}
