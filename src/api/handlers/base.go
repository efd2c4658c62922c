package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Jshatto/asset-tracker/src/access"
	"github.com/Jshatto/asset-tracker/src/apperrors"
	"github.com/Jshatto/asset-tracker/src/services"
	"github.com/Jshatto/asset-tracker/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps JSON and CSV request bodies.
const maxBodyBytes = 10 << 20

type Handler struct {
	Assets  services.AssetServiceI
	Clients services.ClientServiceI
	Auth    services.AuthServiceI
	Logger  *logrus.Logger
}

func NewHandler(
	assets services.AssetServiceI,
	clients services.ClientServiceI,
	auth services.AuthServiceI,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		Assets:  assets,
		Clients: clients,
		Auth:    auth,
		Logger:  logger,
	}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors writes err as a JSON error. Server-side failures are logged
// with their cause, which never reaches the response.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	httpErr := utils.HTTPErrorFrom(err)
	if httpErr.Code >= http.StatusInternalServerError {
		h.Logger.WithError(err).Error("Request failed")
	}
	utils.WriteError(w, httpErr)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return apperrors.InvalidRequest("invalid JSON body: %v", err)
	}
	return nil
}

func actorFrom(r *http.Request) (access.Actor, error) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		return access.Actor{}, apperrors.Unauthorized("missing or invalid token")
	}
	return actor, nil
}

func idParam(r *http.Request, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperrors.NotFound(notFound)
	}
	return id, nil
}
