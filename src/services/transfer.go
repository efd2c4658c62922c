package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/depreciation"
	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/repositories"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportColumns is the column order of asset exports. Imports accept the same
// header and ignore the id column.
var ExportColumns = []string{
	"id",
	"name",
	"category",
	"cost",
	"purchase_date",
	"depreciation_method",
	"useful_life",
	"description",
}

const exportSheet = "Assets"

// Import validates every row before writing any of them and then persists
// the whole batch in one transaction. Rows are 1-based in errors.
func (s *AssetService) Import(ctx context.Context, actor access.Actor, rows []map[string]string, clientID *uuid.UUID) ([]AssetView, error) {
	if len(rows) == 0 {
		return nil, apperrors.InvalidAsset("no asset data provided")
	}

	owner, err := s.resolveClient(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	assets := make([]*models.Asset, 0, len(rows))
	for i, row := range rows {
		asset, err := assetFromRow(i+1, row)
		if err != nil {
			return nil, err
		}
		asset.ClientID = owner
		if !access.CanAccess(actor, asset) {
			return nil, apperrors.Forbidden("assets can only be imported for your own client")
		}
		if err := refreshAccumulated(asset, today); err != nil {
			return nil, apperrors.ImportValidation(i+1, "depreciation", err.Error())
		}
		assets = append(assets, asset)
	}

	if err := s.assets.CreateBatch(ctx, assets); err != nil {
		return nil, err
	}

	views := make([]AssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, s.view(*asset, today))
	}
	return views, nil
}

var requiredImportFields = []string{
	"name",
	"cost",
	"purchase_date",
	"category",
	"useful_life",
	"depreciation_method",
}

func assetFromRow(rowNumber int, row map[string]string) (*models.Asset, error) {
	for _, field := range requiredImportFields {
		if strings.TrimSpace(row[field]) == "" {
			return nil, apperrors.ImportValidation(rowNumber, field, "is required")
		}
	}

	asset := &models.Asset{
		Name:     strings.TrimSpace(row["name"]),
		Category: models.Category(strings.TrimSpace(row["category"])),
	}

	cost, err := decimal.NewFromString(strings.TrimSpace(row["cost"]))
	if err != nil {
		return nil, apperrors.ImportValidation(rowNumber, "cost", "must be a decimal amount")
	}
	if cost.IsNegative() {
		return nil, apperrors.ImportValidation(rowNumber, "cost", "must not be negative")
	}
	if !cost.Equal(cost.Round(depreciation.CurrencyPlaces)) {
		return nil, apperrors.ImportValidation(rowNumber, "cost", "must have at most 2 decimal places")
	}
	asset.Cost = cost

	if asset.PurchaseDate, err = utils.ParseDate(row["purchase_date"]); err != nil {
		return nil, apperrors.ImportValidation(rowNumber, "purchase_date", "must be a YYYY-MM-DD date")
	}

	usefulLife, err := strconv.Atoi(strings.TrimSpace(row["useful_life"]))
	if err != nil || usefulLife <= 0 {
		return nil, apperrors.ImportValidation(rowNumber, "useful_life", "must be a positive whole number of years")
	}
	if usefulLife > depreciation.MaxUsefulLife {
		return nil, apperrors.ImportValidation(rowNumber, "useful_life", fmt.Sprintf("must be at most %d years", depreciation.MaxUsefulLife))
	}
	asset.UsefulLife = usefulLife

	if asset.DepreciationMethod, err = models.ParseDepreciationMethod(row["depreciation_method"]); err != nil {
		return nil, apperrors.ImportValidation(rowNumber, "depreciation_method", "is not a known method")
	}

	if asset.DepreciationStart, err = parseOptionalDate(row["depreciation_start"]); err != nil {
		return nil, apperrors.ImportValidation(rowNumber, "depreciation_start", "must be a YYYY-MM-DD date")
	}
	asset.Description = optionalText(row["description"])
	return asset, nil
}

// Export lists the non-archived assets the actor may see, newest first.
func (s *AssetService) Export(ctx context.Context, actor access.Actor) ([]models.Asset, error) {
	assets, err := s.assets.GetAll(ctx, repositories.AssetFilter{ClientID: access.TenantScope(actor)})
	if err != nil {
		return nil, err
	}

	visible := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		if access.CanAccess(actor, &asset) {
			visible = append(visible, asset)
		}
	}
	return visible, nil
}

func exportRow(asset *models.Asset) []string {
	description := ""
	if asset.Description != nil {
		description = *asset.Description
	}
	return []string{
		asset.ID.String(),
		asset.Name,
		string(asset.Category),
		asset.Cost.StringFixed(depreciation.CurrencyPlaces),
		utils.FormatDate(asset.PurchaseDate),
		string(asset.DepreciationMethod),
		strconv.Itoa(asset.UsefulLife),
		description,
	}
}

// WriteAssetsCSV writes assets in the export CSV layout.
func WriteAssetsCSV(w io.Writer, assets []models.Asset) error {
	rows := make([][]string, 0, len(assets))
	for i := range assets {
		rows = append(rows, exportRow(&assets[i]))
	}
	return utils.WriteQuotedCSV(w, ExportColumns, rows)
}

// AssetsWorkbook lays the export table out on a single sheet with a bold
// header row.
func AssetsWorkbook(assets []models.Asset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(ExportColumns))
	for i, column := range ExportColumns {
		header[i] = column
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i := range assets {
		asset := &assets[i]
		row := make([]interface{}, 0, len(ExportColumns))
		for j, value := range exportRow(asset) {
			switch ExportColumns[j] {
			case "cost":
				row = append(row, asset.Cost.InexactFloat64())
			case "useful_life":
				row = append(row, asset.UsefulLife)
			default:
				row = append(row, value)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	costStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	if len(assets) > 0 {
		if err := f.SetCellStyle(exportSheet, "D2", fmt.Sprintf("D%d", len(assets)+1), costStyle); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// RowsFromCSV reads an import body in CSV form.
func RowsFromCSV(r io.Reader) ([]map[string]string, error) {
	rows, err := utils.ReadCSVRecords(r)
	if err != nil {
		return nil, apperrors.InvalidAsset("malformed CSV: %v", err)
	}
	return rows, nil
}

// RowsFromJSON reads an import body given as a JSON array of objects. Keys are
// normalized like CSV headers and scalar values are kept in their textual
// form.
func RowsFromJSON(r io.Reader) ([]map[string]string, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw []map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		if err == io.EOF {
			return []map[string]string{}, nil
		}
		return nil, apperrors.InvalidAsset("import body must be a JSON array of asset rows")
	}

	rows := make([]map[string]string, 0, len(raw))
	for _, item := range raw {
		row := make(map[string]string, len(item))
		for key, value := range item {
			switch v := value.(type) {
			case nil:
				row[utils.NormalizeHeader(key)] = ""
			case string:
				row[utils.NormalizeHeader(key)] = v
			case json.Number:
				row[utils.NormalizeHeader(key)] = v.String()
			default:
				row[utils.NormalizeHeader(key)] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
