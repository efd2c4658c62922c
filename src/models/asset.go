package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Asset struct {
	ID                      uuid.UUID           `db:"id"`
	ClientID                uuid.UUID           `db:"client_id"`
	Name                    string              `db:"name"`
	Category                Category            `db:"category"`
	Cost                    decimal.Decimal     `db:"cost"`
	PurchaseDate            time.Time           `db:"purchase_date"`
	DepreciationMethod      DepreciationMethod  `db:"depreciation_method"`
	UsefulLife              int                 `db:"useful_life"`
	DepreciationStart       *time.Time          `db:"depreciation_start"`
	AccumulatedDepreciation decimal.Decimal     `db:"accumulated_depreciation"`
	SalePrice               decimal.NullDecimal `db:"sale_price"`
	SaleDate                *time.Time          `db:"sale_date"`
	WriteOffReason          *string             `db:"write_off_reason"`
	Description             *string             `db:"description"`
	Archived                bool                `db:"archived"`
	CreatedAt               time.Time           `db:"created_at"`
	UpdatedAt               time.Time           `db:"updated_at"`
}

// EffectiveDepreciationStart is the anchor for elapsed-time computation:
// DepreciationStart when set, PurchaseDate otherwise. The zero time means
// neither is known.
func (a *Asset) EffectiveDepreciationStart() time.Time {
	if a.DepreciationStart != nil && !a.DepreciationStart.IsZero() {
		return *a.DepreciationStart
	}
	return a.PurchaseDate
}
