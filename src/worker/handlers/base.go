package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Jshatto/asset-tracker/src/utils"
	"github.com/Jshatto/asset-tracker/src/worker/controllers"
)

type Handler struct {
	Controller *controllers.Controller
}

func NewHandler(controller *controllers.Controller) *Handler {
	return &Handler{Controller: controller}
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

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	httpErr := utils.HTTPErrorFrom(err)
	if httpErr.Code >= http.StatusInternalServerError {
		h.Controller.Logger.WithError(err).Error("Request failed")
	}
	utils.WriteError(w, httpErr)
}
