package schemas

import (
	"time"

	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetRequest is the body of asset create and update calls. On update a nil
// field keeps the stored value. Dates are YYYY-MM-DD.
type AssetRequest struct {
	ClientID           *uuid.UUID       `json:"client_id"`
	Name               *string          `json:"name"`
	Category           *string          `json:"category"`
	Cost               *decimal.Decimal `json:"cost"`
	PurchaseDate       *string          `json:"purchase_date"`
	DepreciationMethod *string          `json:"depreciation_method"`
	UsefulLife         *int             `json:"useful_life"`
	DepreciationStart  *string          `json:"depreciation_start"`
	SalePrice          *decimal.Decimal `json:"sale_price"`
	SaleDate           *string          `json:"sale_date"`
	WriteOffReason     *string          `json:"write_off_reason"`
	Description        *string          `json:"description"`
}

type AssetResponse struct {
	ID                      uuid.UUID `json:"id"`
	ClientID                uuid.UUID `json:"client_id"`
	Name                    string    `json:"name"`
	Category                string    `json:"category"`
	Cost                    string    `json:"cost"`
	PurchaseDate            string    `json:"purchase_date"`
	DepreciationMethod      string    `json:"depreciation_method"`
	UsefulLife              int       `json:"useful_life"`
	DepreciationStart       *string   `json:"depreciation_start"`
	AccumulatedDepreciation string    `json:"accumulated_depreciation"`
	BookValue               string    `json:"book_value"`
	SalePrice               *string   `json:"sale_price"`
	SaleDate                *string   `json:"sale_date"`
	WriteOffReason          *string   `json:"write_off_reason"`
	Description             *string   `json:"description"`
	Archived                bool      `json:"archived"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
	// DepreciationError is set when the accumulated value could not be
	// computed on read and the stored value is shown instead.
	DepreciationError string `json:"depreciation_error,omitempty"`
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := utils.FormatDate(*t)
	return &formatted
}

func NewAssetResponse(asset *models.Asset, depreciationError string) AssetResponse {
	response := AssetResponse{
		ID:                      asset.ID,
		ClientID:                asset.ClientID,
		Name:                    asset.Name,
		Category:                string(asset.Category),
		Cost:                    asset.Cost.StringFixed(2),
		PurchaseDate:            utils.FormatDate(asset.PurchaseDate),
		DepreciationMethod:      string(asset.DepreciationMethod),
		UsefulLife:              asset.UsefulLife,
		DepreciationStart:       formatOptionalDate(asset.DepreciationStart),
		AccumulatedDepreciation: asset.AccumulatedDepreciation.StringFixed(2),
		BookValue:               asset.Cost.Sub(asset.AccumulatedDepreciation).StringFixed(2),
		SaleDate:                formatOptionalDate(asset.SaleDate),
		WriteOffReason:          asset.WriteOffReason,
		Description:             asset.Description,
		Archived:                asset.Archived,
		CreatedAt:               asset.CreatedAt,
		UpdatedAt:               asset.UpdatedAt,
		DepreciationError:       depreciationError,
	}
	if asset.SalePrice.Valid {
		salePrice := asset.SalePrice.Decimal.StringFixed(2)
		response.SalePrice = &salePrice
	}
	return response
}

type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type AssetPage struct {
	Data []AssetResponse `json:"data"`
	Meta PageMeta        `json:"meta"`
}

type ArchiveResponse struct {
	Message string        `json:"message"`
	Asset   AssetResponse `json:"asset"`
}

type ImportResponse struct {
	Imported int             `json:"imported"`
	Assets   []AssetResponse `json:"assets"`
}

type ScheduleEntry struct {
	Period      string `json:"period"`
	Month       int    `json:"month"`
	Expense     string `json:"expense"`
	Accumulated string `json:"accumulated"`
	BookValue   string `json:"book_value"`
}

type ScheduleResponse struct {
	AssetID     uuid.UUID       `json:"asset_id"`
	MonthlyRate string          `json:"monthly_rate"`
	Entries     []ScheduleEntry `json:"entries"`
}
