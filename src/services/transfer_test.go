package services_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const importCSV = "Name,Category,Cost,Purchase Date,Depreciation Method,Useful Life,Description\r\n" +
	"Laptop,Machinery and Equipment,1200.00,2024-10-03,Straight Line,5,Engineering\r\n" +
	"Desk,Furniture,,2023-01-10,straight_line,7,\r\n" +
	"Van,Vehicles,25000,2022-06-01,straight_line,8,Delivery\r\n"

func countAssets(t *testing.T, f *fixture) int {
	t.Helper()
	count, err := f.store.Assets().Count(context.Background(), repositories.AssetFilter{IncludeArchived: true})
	require.NoError(t, err)
	return count
}

func TestImportIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	rows, err := services.RowsFromCSV(strings.NewReader(importCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	_, err = f.assets.Import(context.Background(), f.ownerA, rows, nil)
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindImportValidation, appErr.Kind)
	assert.Equal(t, 2, appErr.Row)
	assert.Equal(t, "cost", appErr.Field)
	assert.Zero(t, countAssets(t, f))
}

func TestImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rows, err := services.RowsFromCSV(strings.NewReader(strings.Replace(importCSV, "Furniture,,", "Furniture,300,", 1)))
	require.NoError(t, err)

	views, err := f.assets.Import(ctx, f.ownerA, rows, nil)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 3, countAssets(t, f))

	laptop := views[0].Asset
	assert.Equal(t, f.tenantA.ID, laptop.ClientID)
	assert.Equal(t, "480.00", laptop.AccumulatedDepreciation.StringFixed(2))
	require.NotNil(t, laptop.Description)
	assert.Equal(t, "Engineering", *laptop.Description)
	assert.Nil(t, views[1].Asset.Description)

	t.Run("client actor cannot import for another tenant", func(t *testing.T) {
		_, err := f.assets.Import(ctx, f.ownerA, rows, &f.tenantB.ID)
		assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	})

	t.Run("admin imports for a named tenant", func(t *testing.T) {
		views, err := f.assets.Import(ctx, f.admin, rows[:1], &f.tenantB.ID)
		require.NoError(t, err)
		assert.Equal(t, f.tenantB.ID, views[0].Asset.ClientID)
	})
}

func TestImportValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := map[string]string{
		"name":                "Laptop",
		"category":            "Machinery and Equipment",
		"cost":                "1200",
		"purchase_date":       "2024-10-03",
		"depreciation_method": "straight_line",
		"useful_life":         "5",
	}

	cases := map[string]struct {
		field string
		value string
	}{
		"negative cost":    {"cost", "-10"},
		"text cost":        {"cost", "a lot"},
		"sub-cent cost":    {"cost", "1.234"},
		"bad date":         {"purchase_date", "13/45/2024"},
		"zero life":        {"useful_life", "0"},
		"fractional life":  {"useful_life", "2.5"},
		"centuries life":   {"useful_life", "1001"},
		"overflowing life": {"useful_life", "768614336404564651"},
		"unknown method":   {"depreciation_method", "magic"},
		"missing category": {"category", ""},
		"bad start":        {"depreciation_start", "later"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			row := map[string]string{}
			for k, v := range valid {
				row[k] = v
			}
			row[tc.field] = tc.value

			_, err := f.assets.Import(ctx, f.ownerA, []map[string]string{valid, row}, nil)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.KindImportValidation, appErr.Kind)
			assert.Equal(t, 2, appErr.Row)
			assert.Equal(t, tc.field, appErr.Field)
		})
	}

	_, err := f.assets.Import(ctx, f.ownerA, nil, nil)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidAsset))
	assert.Zero(t, countAssets(t, f))
}

func TestExportReimportRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := laptopRequest()
	req.Description = strPtr(`15" screen, "pro" model`)
	f.createFor(t, f.ownerA, req)
	desk := laptopRequest()
	desk.Name = strPtr("Desk")
	desk.Cost = decPtr("349.99")
	desk.UsefulLife = intPtr(7)
	desk.Description = strPtr("Oak top\r\nsteel legs\rdrawer")
	deskView := f.createFor(t, f.ownerA, desk)
	require.NotNil(t, deskView.Asset.Description)
	assert.Equal(t, "Oak top\nsteel legs\ndrawer", *deskView.Asset.Description)
	f.createFor(t, f.ownerB, laptopRequest())

	exported, err := f.assets.Export(ctx, f.ownerA)
	require.NoError(t, err)
	require.Len(t, exported, 2)

	var buf bytes.Buffer
	require.NoError(t, services.WriteAssetsCSV(&buf, exported))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(services.ExportColumns, ",")+"\r\n"))

	rows, err := services.RowsFromCSV(&buf)
	require.NoError(t, err)

	other := newFixture(t)
	reimported, err := other.assets.Import(ctx, other.ownerA, rows, nil)
	require.NoError(t, err)
	require.Len(t, reimported, len(exported))

	for i, want := range exported {
		clone := reimported[i].Asset
		assert.NotEqual(t, want.ID, clone.ID)
		assert.Equal(t, want.Name, clone.Name)
		assert.Equal(t, want.Category, clone.Category)
		assert.True(t, want.Cost.Equal(clone.Cost))
		assert.True(t, want.PurchaseDate.Equal(clone.PurchaseDate))
		assert.Equal(t, want.DepreciationMethod, clone.DepreciationMethod)
		assert.Equal(t, want.UsefulLife, clone.UsefulLife)
		assert.Equal(t, want.Description, clone.Description)
		assert.True(t, want.AccumulatedDepreciation.Equal(clone.AccumulatedDepreciation))
	}
}

func TestAssetsWorkbook(t *testing.T) {
	f := newFixture(t)
	f.createFor(t, f.ownerA, laptopRequest())
	exported, err := f.assets.Export(context.Background(), f.ownerA)
	require.NoError(t, err)

	file, err := services.AssetsWorkbook(exported)
	require.NoError(t, err)
	defer file.Close()

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows("Assets")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, services.ExportColumns, rows[0])
	assert.Equal(t, "Laptop", rows[1][1])
}

func TestRowsFromJSON(t *testing.T) {
	rows, err := services.RowsFromJSON(strings.NewReader(`[
		{"Name": "Laptop", "cost": 1200.50, "Useful Life": 5, "description": null}
	]`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Laptop", rows[0]["name"])
	assert.Equal(t, "1200.50", rows[0]["cost"])
	assert.Equal(t, "5", rows[0]["useful_life"])
	assert.Equal(t, "", rows[0]["description"])

	_, err = services.RowsFromJSON(strings.NewReader(`{"name": "not an array"}`))
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidAsset))

	rows, err = services.RowsFromJSON(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
