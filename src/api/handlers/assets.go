package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Jshatto/asset-tracker/src/schemas"
	"github.com/Jshatto/asset-tracker/src/services"
)

const assetNotFound = "asset not found"

func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}

func (h *Handler) GetAllAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	page := queryInt(r, "page", services.DefaultPage)
	limit := queryInt(r, "limit", services.DefaultLimit)
	result, err := h.Assets.List(ctx, actor, page, limit)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	response := schemas.AssetPage{
		Data: make([]schemas.AssetResponse, 0, len(result.Assets)),
		Meta: result.Meta,
	}
	for _, view := range result.Assets {
		response.Data = append(response.Data, view.Response())
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetAssetByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, assetNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	view, err := h.Assets.Get(ctx, actor, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, view.Response(), http.StatusOK)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.AssetRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	view, err := h.Assets.Create(ctx, actor, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, view.Response(), http.StatusCreated)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, assetNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.AssetRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	view, err := h.Assets.Update(ctx, actor, id, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, view.Response(), http.StatusOK)
}

// DeleteAsset archives the asset; the record is kept.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, assetNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	view, err := h.Assets.Archive(ctx, actor, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemas.ArchiveResponse{
		Message: "Asset archived",
		Asset:   view.Response(),
	}, http.StatusOK)
}

func (h *Handler) PurgeAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, assetNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Assets.Purge(ctx, actor, id); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, map[string]string{"message": "Asset purged"}, http.StatusOK)
}

func (h *Handler) GetAssetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, assetNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	schedule, err := h.Assets.Schedule(ctx, actor, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schedule, http.StatusOK)
}
