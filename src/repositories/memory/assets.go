package memory

import (
	"context"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const assetNotFound = "asset not found"

type assetRepo struct {
	store *Store
}

func matches(filter repositories.AssetFilter) func(*models.Asset) bool {
	return func(a *models.Asset) bool {
		if !filter.IncludeArchived && a.Archived {
			return false
		}
		if filter.ClientID != nil && a.ClientID != *filter.ClientID {
			return false
		}
		return true
	}
}

func (r *assetRepo) GetAll(ctx context.Context, filter repositories.AssetFilter) ([]models.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Persistence("failed to list assets", err)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	assets := r.store.sortedAssets(matches(filter))
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit > 0 {
		if filter.Offset >= len(assets) {
			return []models.Asset{}, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(assets) {
			end = len(assets)
		}
		assets = assets[filter.Offset:end]
	}
	return assets, nil
}

func (r *assetRepo) Count(ctx context.Context, filter repositories.AssetFilter) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.sortedAssets(matches(filter))), nil
}

func (r *assetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.assets[id]
	if !ok {
		return nil, apperrors.NotFound(assetNotFound)
	}
	asset := record.asset
	return &asset, nil
}

func (r *assetRepo) insert(asset *models.Asset) error {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	if _, exists := r.store.assets[asset.ID]; exists {
		return apperrors.Conflict("record already exists")
	}
	asset.Archived = false
	asset.CreatedAt = now()
	asset.UpdatedAt = asset.CreatedAt
	r.store.assets[asset.ID] = &assetRecord{asset: *asset, seq: r.store.nextSeq()}
	return nil
}

func (r *assetRepo) Create(_ context.Context, asset *models.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.insert(asset)
}

func (r *assetRepo) CreateBatch(_ context.Context, assets []*models.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inserted := make([]uuid.UUID, 0, len(assets))
	for _, asset := range assets {
		if err := r.insert(asset); err != nil {
			for _, id := range inserted {
				delete(r.store.assets, id)
			}
			return err
		}
		inserted = append(inserted, asset.ID)
	}
	return nil
}

func (r *assetRepo) Update(_ context.Context, asset *models.Asset) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.assets[asset.ID]
	if !ok {
		return apperrors.NotFound(assetNotFound)
	}
	asset.Archived = record.asset.Archived
	asset.CreatedAt = record.asset.CreatedAt
	asset.UpdatedAt = now()
	record.asset = *asset
	return nil
}

func (r *assetRepo) Archive(_ context.Context, id uuid.UUID) (*models.Asset, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.assets[id]
	if !ok {
		return nil, apperrors.NotFound(assetNotFound)
	}
	record.asset.Archived = true
	record.asset.UpdatedAt = now()
	asset := record.asset
	return &asset, nil
}

func (r *assetRepo) Purge(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.assets[id]; !ok {
		return apperrors.NotFound(assetNotFound)
	}
	delete(r.store.assets, id)
	return nil
}

func (r *assetRepo) GetDepreciable(_ context.Context) ([]models.Asset, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.sortedAssets(func(*models.Asset) bool { return true }), nil
}

func (r *assetRepo) UpdateAccumulatedDepreciation(_ context.Context, id uuid.UUID, value decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.assets[id]
	if !ok {
		return apperrors.NotFound(assetNotFound)
	}
	if value.IsNegative() || value.GreaterThan(record.asset.Cost) {
		return apperrors.InvalidAsset("accumulated depreciation %s outside [0, %s]", value, record.asset.Cost)
	}
	record.asset.AccumulatedDepreciation = value
	return nil
}
