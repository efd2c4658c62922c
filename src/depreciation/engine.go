// Package depreciation computes accumulated depreciation for assets.
//
// The computation is straight-line and month-granular: an asset depreciates
// cost/(useful_life*12) for every calendar month boundary crossed since its
// depreciation start, regardless of the day of month, until it reaches its
// cost. Every function here is pure and safe for concurrent use.
package depreciation

import (
	"errors"
	"time"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/models"

	"github.com/shopspring/decimal"
)

const (
	// CurrencyPlaces is the precision of every amount the engine returns.
	CurrencyPlaces = 2
	// MaxUsefulLife bounds useful_life in years so life in months always
	// fits the arithmetic and the INTEGER column.
	MaxUsefulLife = 1000
)

var ErrUnsupportedMethod = errors.New("unsupported depreciation method")

type Input struct {
	Cost       decimal.Decimal
	UsefulLife int
	Method     models.DepreciationMethod
	// PurchaseDate is the fallback anchor when DepreciationStart is zero.
	PurchaseDate      time.Time
	DepreciationStart time.Time
}

func FromAsset(a *models.Asset) Input {
	in := Input{
		Cost:         a.Cost,
		UsefulLife:   a.UsefulLife,
		Method:       a.DepreciationMethod,
		PurchaseDate: a.PurchaseDate,
	}
	if a.DepreciationStart != nil {
		in.DepreciationStart = *a.DepreciationStart
	}
	return in
}

// Start returns the anchor date for elapsed-time computation.
func (in Input) Start() (time.Time, error) {
	if !in.DepreciationStart.IsZero() {
		return in.DepreciationStart, nil
	}
	if !in.PurchaseDate.IsZero() {
		return in.PurchaseDate, nil
	}
	return time.Time{}, apperrors.InvalidAsset("depreciation_start or purchase_date is required")
}

// Validate checks the invariants the formula relies on. It never lets a
// zero useful life reach the division.
func (in Input) Validate() error {
	if in.UsefulLife <= 0 {
		return apperrors.InvalidAsset("useful_life must be a positive number of years, got %d", in.UsefulLife)
	}
	if in.UsefulLife > MaxUsefulLife {
		return apperrors.InvalidAsset("useful_life must be at most %d years, got %d", MaxUsefulLife, in.UsefulLife)
	}
	if in.Cost.IsNegative() {
		return apperrors.InvalidAsset("cost must not be negative, got %s", in.Cost.String())
	}
	if !in.Cost.Equal(in.Cost.Round(CurrencyPlaces)) {
		return apperrors.InvalidAsset("cost must have at most %d decimal places, got %s", CurrencyPlaces, in.Cost.String())
	}
	switch in.Method {
	case models.StraightLine:
	case "":
		return apperrors.InvalidAsset("depreciation_method is required")
	default:
		return apperrors.InvalidAsset("depreciation method %q has no computation defined", in.Method).Wrap(ErrUnsupportedMethod)
	}
	_, err := in.Start()
	return err
}

// MonthsElapsed counts calendar month boundaries between start and today.
// Day of month is ignored. The result is negative when start is in a later
// month than today.
func MonthsElapsed(start, today time.Time) int {
	return (today.Year()-start.Year())*12 + int(today.Month()) - int(start.Month())
}

// Accumulated returns the depreciation recognised as of today, rounded
// half-up to two places and clamped to [0, cost].
func Accumulated(in Input, today time.Time) (decimal.Decimal, error) {
	if err := in.Validate(); err != nil {
		return decimal.Zero, err
	}
	start, _ := in.Start()
	return accumulatedForMonths(in, MonthsElapsed(start, today)), nil
}

func accumulatedForMonths(in Input, months int) decimal.Decimal {
	lifeMonths := in.UsefulLife * 12
	if months <= 0 {
		return decimal.Zero
	}
	if months >= lifeMonths {
		return in.Cost
	}
	// cost*months/lifeMonths keeps the intermediate exact for the common case
	// instead of accumulating the rounding error of the monthly rate.
	value := in.Cost.Mul(decimal.NewFromInt(int64(months))).
		Div(decimal.NewFromInt(int64(lifeMonths))).
		Round(CurrencyPlaces)
	if value.GreaterThan(in.Cost) {
		return in.Cost
	}
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}

// ForAsset is Accumulated applied to a stored asset.
func ForAsset(a *models.Asset, today time.Time) (decimal.Decimal, error) {
	return Accumulated(FromAsset(a), today)
}

// MonthlyRate is the straight-line expense recognised per month.
func MonthlyRate(in Input) (decimal.Decimal, error) {
	if err := in.Validate(); err != nil {
		return decimal.Zero, err
	}
	return in.Cost.Div(decimal.NewFromInt(int64(in.UsefulLife * 12))).Round(CurrencyPlaces), nil
}
