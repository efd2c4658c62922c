package models

import "strings"

// Category is informational; it does not take part in depreciation.
type Category string

const (
	CategoryMachinery         Category = "Machinery and Equipment"
	CategoryVehicles          Category = "Vehicles"
	CategoryFurniture         Category = "Furniture"
	CategoryIntangibles       Category = "Intangibles"
	CategorySection179        Category = "179 Assets"
	CategoryBonusDepreciation Category = "Bonus Depreciation Assets"
)

var Categories = []Category{
	CategoryMachinery,
	CategoryVehicles,
	CategoryFurniture,
	CategoryIntangibles,
	CategorySection179,
	CategoryBonusDepreciation,
}

// Known reports whether c is one of the dashboard's predefined categories.
// Other values are still stored as given.
func (c Category) Known() bool {
	for _, known := range Categories {
		if strings.EqualFold(string(known), string(c)) {
			return true
		}
	}
	return false
}
