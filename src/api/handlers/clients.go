package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jshatto/asset-tracker/src/models"
	"github.com/Jshatto/asset-tracker/src/schemas"
)

const clientNotFound = "client not found"

func clientResponse(client *models.Client) schemas.ClientResponse {
	return schemas.ClientResponse{ID: client.ID, Name: client.Name, CreatedAt: client.CreatedAt}
}

func (h *Handler) GetAllClients(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	clients, err := h.Clients.List(ctx, actor)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	response := make([]schemas.ClientResponse, 0, len(clients))
	for i := range clients {
		response = append(response, clientResponse(&clients[i]))
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, clientNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	client, err := h.Clients.Get(ctx, actor, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, clientResponse(client), http.StatusOK)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.ClientRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	client, err := h.Clients.Create(ctx, actor, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, clientResponse(client), http.StatusCreated)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, clientNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	var req schemas.ClientRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	client, err := h.Clients.Update(ctx, actor, id, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, clientResponse(client), http.StatusOK)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	id, err := idParam(r, clientNotFound)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Clients.Delete(ctx, actor, id); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, map[string]string{"message": "Client deleted"}, http.StatusOK)
}
