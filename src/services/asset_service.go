package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/depreciation"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type AssetServiceI interface {
	List(ctx context.Context, actor access.Actor, page, limit int) (*AssetPage, error)
	Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssetView, error)
	Create(ctx context.Context, actor access.Actor, req *schemas.AssetRequest) (*AssetView, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *schemas.AssetRequest) (*AssetView, error)
	Archive(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssetView, error)
	Purge(ctx context.Context, actor access.Actor, id uuid.UUID) error
	Schedule(ctx context.Context, actor access.Actor, id uuid.UUID) (*schemas.ScheduleResponse, error)
	Import(ctx context.Context, actor access.Actor, rows []map[string]string, clientID *uuid.UUID) ([]AssetView, error)
	Export(ctx context.Context, actor access.Actor) ([]models.Asset, error)
}

// AssetView is an asset as of today: AccumulatedDepreciation holds the value
// computed at read time, or the stored one when DepreciationError is set.
type AssetView struct {
	Asset             models.Asset
	DepreciationError string
}

func (v AssetView) Response() schemas.AssetResponse {
	return schemas.NewAssetResponse(&v.Asset, v.DepreciationError)
}

type AssetPage struct {
	Assets []AssetView
	Meta   schemas.PageMeta
}

type AssetService struct {
	assets  repositories.AssetRepository
	clients repositories.ClientRepository
	now     func() time.Time
}

func NewAssetService(assets repositories.AssetRepository, clients repositories.ClientRepository) *AssetService {
	return &AssetService{
		assets:  assets,
		clients: clients,
		now:     time.Now,
	}
}

// WithClock replaces the source of "today".
func (s *AssetService) WithClock(now func() time.Time) *AssetService {
	s.now = now
	return s
}

func (s *AssetService) today() time.Time {
	return utils.DateOnly(s.now())
}

// view refreshes the accumulated depreciation of asset as of today. A failed
// computation keeps the stored value and is reported on the view.
func (s *AssetService) view(asset models.Asset, today time.Time) AssetView {
	value, err := depreciation.ForAsset(&asset, today)
	if err != nil {
		return AssetView{Asset: asset, DepreciationError: err.Error()}
	}
	asset.AccumulatedDepreciation = value
	return AssetView{Asset: asset}
}

// load fetches an asset the actor may access. Assets of other tenants are
// reported as missing.
func (s *AssetService) load(ctx context.Context, actor access.Actor, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, asset) {
		return nil, apperrors.NotFound("asset not found")
	}
	return asset, nil
}

func (s *AssetService) List(ctx context.Context, actor access.Actor, page, limit int) (*AssetPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	filter := repositories.AssetFilter{
		ClientID: access.TenantScope(actor),
		Limit:    limit,
	}
	total, err := s.assets.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	pages := (total + limit - 1) / limit
	result := &AssetPage{
		Assets: []AssetView{},
		Meta:   schemas.PageMeta{Page: page, Limit: limit, Total: total, Pages: pages},
	}
	// Pages past the end are empty. Checking before computing the offset
	// keeps (page-1)*limit below total.
	if page > pages {
		return result, nil
	}

	filter.Offset = (page - 1) * limit
	assets, err := s.assets.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	today := s.today()
	for _, asset := range assets {
		if !access.CanAccess(actor, &asset) {
			continue
		}
		result.Assets = append(result.Assets, s.view(asset, today))
	}
	return result, nil
}

func (s *AssetService) Get(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssetView, error) {
	asset, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	view := s.view(*asset, s.today())
	return &view, nil
}

// resolveClient picks the tenant a new asset belongs to. Client actors always
// create for their own tenant; admins name one or fall back to their own.
func (s *AssetService) resolveClient(ctx context.Context, actor access.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	if !actor.IsAdmin() {
		if actor.ClientID == nil {
			return uuid.Nil, apperrors.Forbidden("user is not assigned to a client")
		}
		if requested != nil && *requested != *actor.ClientID {
			return uuid.Nil, apperrors.Forbidden("assets can only be created for your own client")
		}
		return *actor.ClientID, nil
	}

	clientID := requested
	if clientID == nil {
		clientID = actor.ClientID
	}
	if clientID == nil || *clientID == uuid.Nil {
		return uuid.Nil, apperrors.InvalidAsset("client_id is required")
	}
	if _, err := s.clients.GetByID(ctx, *clientID); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return uuid.Nil, apperrors.InvalidAsset("client %s does not exist", clientID)
		}
		return uuid.Nil, err
	}
	return *clientID, nil
}

func (s *AssetService) Create(ctx context.Context, actor access.Actor, req *schemas.AssetRequest) (*AssetView, error) {
	clientID, err := s.resolveClient(ctx, actor, req.ClientID)
	if err != nil {
		return nil, err
	}

	asset := &models.Asset{DepreciationMethod: models.StraightLine}
	if err := applyAssetRequest(asset, req); err != nil {
		return nil, err
	}
	asset.ClientID = clientID
	if err := validateAsset(asset); err != nil {
		return nil, err
	}

	today := s.today()
	if err := refreshAccumulated(asset, today); err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}

	view := s.view(*asset, today)
	return &view, nil
}

func (s *AssetService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, req *schemas.AssetRequest) (*AssetView, error) {
	asset, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if asset.Archived {
		return nil, apperrors.Conflict("asset is archived")
	}

	if req.ClientID != nil && *req.ClientID != asset.ClientID {
		if !actor.IsAdmin() {
			return nil, apperrors.Forbidden("only admins can move an asset to another client")
		}
		if _, err := s.resolveClient(ctx, actor, req.ClientID); err != nil {
			return nil, err
		}
		asset.ClientID = *req.ClientID
	}

	if err := applyAssetRequest(asset, req); err != nil {
		return nil, err
	}
	if err := validateAsset(asset); err != nil {
		return nil, err
	}

	today := s.today()
	if err := refreshAccumulated(asset, today); err != nil {
		return nil, err
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, err
	}

	view := s.view(*asset, today)
	return &view, nil
}

// Archive soft-deletes an asset. Archiving twice returns the archived asset.
func (s *AssetService) Archive(ctx context.Context, actor access.Actor, id uuid.UUID) (*AssetView, error) {
	asset, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !asset.Archived {
		if asset, err = s.assets.Archive(ctx, id); err != nil {
			return nil, err
		}
	}
	view := s.view(*asset, s.today())
	return &view, nil
}

// Purge permanently removes an asset. Admin only.
func (s *AssetService) Purge(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return apperrors.Forbidden("only admins can purge assets")
	}
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	return s.assets.Purge(ctx, id)
}

func (s *AssetService) Schedule(ctx context.Context, actor access.Actor, id uuid.UUID) (*schemas.ScheduleResponse, error) {
	asset, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	in := depreciation.FromAsset(asset)
	rate, err := depreciation.MonthlyRate(in)
	if err != nil {
		return nil, err
	}
	entries, err := depreciation.Schedule(in, s.today())
	if err != nil {
		return nil, err
	}

	response := &schemas.ScheduleResponse{
		AssetID:     asset.ID,
		MonthlyRate: rate.StringFixed(depreciation.CurrencyPlaces),
		Entries:     make([]schemas.ScheduleEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, schemas.ScheduleEntry{
			Period:      utils.FormatDate(entry.Period),
			Month:       entry.Month,
			Expense:     entry.Expense.StringFixed(depreciation.CurrencyPlaces),
			Accumulated: entry.Accumulated.StringFixed(depreciation.CurrencyPlaces),
			BookValue:   entry.BookValue.StringFixed(depreciation.CurrencyPlaces),
		})
	}
	return response, nil
}

// refreshAccumulated stores today's accumulated depreciation on asset. An
// asset whose method has no computation keeps its stored value, clamped to
// the possibly lowered cost.
func refreshAccumulated(asset *models.Asset, today time.Time) error {
	value, err := depreciation.ForAsset(asset, today)
	if errors.Is(err, depreciation.ErrUnsupportedMethod) {
		if asset.AccumulatedDepreciation.GreaterThan(asset.Cost) {
			asset.AccumulatedDepreciation = asset.Cost
		}
		return nil
	}
	if err != nil {
		return err
	}
	asset.AccumulatedDepreciation = value
	return nil
}

// validateAsset checks the stored invariants before any write.
func validateAsset(asset *models.Asset) error {
	if strings.TrimSpace(asset.Name) == "" {
		return apperrors.InvalidAsset("name is required")
	}
	if asset.Cost.IsNegative() {
		return apperrors.InvalidAsset("cost must not be negative")
	}
	if !asset.Cost.Equal(asset.Cost.Round(depreciation.CurrencyPlaces)) {
		return apperrors.InvalidAsset("cost must have at most %d decimal places", depreciation.CurrencyPlaces)
	}
	if asset.PurchaseDate.IsZero() {
		return apperrors.InvalidAsset("purchase_date is required")
	}
	if asset.UsefulLife <= 0 {
		return apperrors.InvalidAsset("useful_life must be a positive number of years")
	}
	if asset.UsefulLife > depreciation.MaxUsefulLife {
		return apperrors.InvalidAsset("useful_life must be at most %d years", depreciation.MaxUsefulLife)
	}
	if asset.DepreciationMethod == "" {
		return apperrors.InvalidAsset("depreciation_method is required")
	}
	if asset.SalePrice.Valid && asset.SalePrice.Decimal.IsNegative() {
		return apperrors.InvalidAsset("sale_price must not be negative")
	}
	return nil
}

// applyAssetRequest copies the non-nil request fields onto asset.
func applyAssetRequest(asset *models.Asset, req *schemas.AssetRequest) error {
	if req.Name != nil {
		asset.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		asset.Category = models.Category(strings.TrimSpace(*req.Category))
	}
	if req.Cost != nil {
		asset.Cost = *req.Cost
	}
	if req.PurchaseDate != nil {
		date, err := utils.ParseDate(*req.PurchaseDate)
		if err != nil {
			return apperrors.InvalidAsset("purchase_date: %v", err)
		}
		asset.PurchaseDate = date
	}
	if req.DepreciationMethod != nil {
		method, err := models.ParseDepreciationMethod(*req.DepreciationMethod)
		if err != nil {
			return apperrors.InvalidAsset("depreciation_method: %v", err)
		}
		asset.DepreciationMethod = method
	}
	if req.UsefulLife != nil {
		asset.UsefulLife = *req.UsefulLife
	}
	if req.DepreciationStart != nil {
		date, err := parseOptionalDate(*req.DepreciationStart)
		if err != nil {
			return apperrors.InvalidAsset("depreciation_start: %v", err)
		}
		asset.DepreciationStart = date
	}
	if req.SalePrice != nil {
		asset.SalePrice = decimal.NewNullDecimal(*req.SalePrice)
	}
	if req.SaleDate != nil {
		date, err := parseOptionalDate(*req.SaleDate)
		if err != nil {
			return apperrors.InvalidAsset("sale_date: %v", err)
		}
		asset.SaleDate = date
	}
	if req.WriteOffReason != nil {
		asset.WriteOffReason = optionalText(*req.WriteOffReason)
	}
	if req.Description != nil {
		asset.Description = optionalText(*req.Description)
	}
	return nil
}

// parseOptionalDate treats an empty string as "no date".
func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	date, err := utils.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// optionalText stores free text with LF line endings. CSV readers fold CRLF
// inside quoted fields to LF, so this keeps export and reimport identical.
func optionalText(value string) *string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
