package models

import (
	"fmt"
	"strings"
)

// DepreciationMethod tags how an asset's cost is spread over its useful
// life. Only StraightLine has a computation; the others are stored as data.
type DepreciationMethod string

const (
	StraightLine     DepreciationMethod = "straight_line"
	DoubleDeclining  DepreciationMethod = "double_declining"
	SumOfYearsDigits DepreciationMethod = "sum_of_years_digits"
)

var DepreciationMethods = []DepreciationMethod{StraightLine, DoubleDeclining, SumOfYearsDigits}

// ParseDepreciationMethod accepts the stored tags as well as the labels used
// in spreadsheets ("Straight Line", "straight-line", "Sum-of-Years Digits").
func ParseDepreciationMethod(s string) (DepreciationMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch normalized {
	case string(StraightLine), "straightline", "sl":
		return StraightLine, nil
	case string(DoubleDeclining), "double_declining_balance", "ddb":
		return DoubleDeclining, nil
	case string(SumOfYearsDigits), "sum_of_years", "syd":
		return SumOfYearsDigits, nil
	}
	return "", fmt.Errorf("unknown depreciation method %q", s)
}
