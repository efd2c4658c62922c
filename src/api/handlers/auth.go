package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/schemas"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.RegisterRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	var caller *access.Actor
	if actor, ok := access.ActorFromContext(r.Context()); ok {
		caller = &actor
	}

	token, err := h.Auth.Register(ctx, caller, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, token, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req schemas.LoginRequest
	if err := h.decode(w, r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	token, err := h.Auth.Login(ctx, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, token, http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemas.UserResponse{
		ID:       actor.ID,
		Email:    actor.Email,
		Role:     string(actor.Role),
		ClientID: actor.ClientID,
	}, http.StatusOK)
}
