package handlers

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"time"

	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/google/uuid"
)

const transferTimeout = 60 * time.Second

// ImportAssets accepts a CSV document or a JSON array of rows. Nothing is
// stored unless every row is valid.
func (h *Handler) ImportAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), transferTimeout)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var clientID *uuid.UUID
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.HandleErrors(w, apperrors.InvalidAsset("client_id is not a valid id"))
			return
		}
		clientID = &parsed
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var rows []map[string]string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case utils.ContentTypeCSV, "application/csv":
		rows, err = services.RowsFromCSV(body)
	default:
		rows, err = services.RowsFromJSON(body)
	}
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	views, err := h.Assets.Import(ctx, actor, rows, clientID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	response := schemas.ImportResponse{
		Imported: len(views),
		Assets:   make([]schemas.AssetResponse, 0, len(views)),
	}
	for _, view := range views {
		response.Assets = append(response.Assets, view.Response())
	}
	h.respond(w, r, response, http.StatusCreated)
}

// ExportAssets streams the visible assets as CSV, or as an XLSX workbook
// with format=xlsx.
func (h *Handler) ExportAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), transferTimeout)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	assets, err := h.Assets.Export(ctx, actor)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var buf bytes.Buffer
	var contentType, filename string
	switch r.URL.Query().Get("format") {
	case "xlsx":
		file, err := services.AssetsWorkbook(assets)
		if err != nil {
			h.HandleErrors(w, err)
			return
		}
		defer file.Close()
		if err := file.Write(&buf); err != nil {
			h.HandleErrors(w, err)
			return
		}
		contentType, filename = utils.ContentTypeXLSX, "assets.xlsx"
	case "", "csv":
		if err := services.WriteAssetsCSV(&buf, assets); err != nil {
			h.HandleErrors(w, err)
			return
		}
		contentType, filename = utils.ContentTypeCSV+"; charset=utf-8", "assets.csv"
	default:
		h.HandleErrors(w, apperrors.InvalidRequest("format must be csv or xlsx"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
