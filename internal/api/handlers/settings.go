package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"shot-history-api/internal/auth"
	"shot-history-api/internal/settings"
	"shot-history-api/internal/util"
)

// SettingsHandler serves the webhook settings. GET is also what remote senders fetch.
type SettingsHandler struct {
	Auth    auth.Auth
	Service *settings.Service
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.Auth.RequireAdmin(h.get)(w, r)
	case http.MethodPut:
		h.Auth.RequireAdmin(h.update)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// get godoc
// @Summary      Get settings
// @Description  Webhook destination and token used when sending shots
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settings.Settings
// @Failure      401  {string}  string  "Unauthorized"
// @Failure      500  {object}  util.ErrorBody
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	cur, err := h.Service.Get(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
		return
	}
	util.WriteJSON(w, cur)
}

// update godoc
// @Summary      Update settings
// @Description  An empty webhookUrl disables the webhook
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        settings  body      settings.Settings  true  "New settings"
// @Success      200       {object}  settings.Settings
// @Failure      400       {object}  util.ErrorBody  "Invalid JSON or webhook URL"
// @Failure      401       {string}  string          "Unauthorized"
// @Failure      500       {object}  util.ErrorBody
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var in settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		util.WriteError(w, http.StatusBadRequest, "", "bad json")
		return
	}

	saved, err := h.Service.Update(r.Context(), in)
	if errors.Is(err, settings.ErrInvalidWebhookURL) {
		util.WriteError(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
		return
	}
	util.WriteJSON(w, saved)
}
