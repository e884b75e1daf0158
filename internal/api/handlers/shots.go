package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"shot-history-api/internal/auth"
	"shot-history-api/internal/logging"
	"shot-history-api/internal/shot"
	"shot-history-api/internal/util"
	"shot-history-api/internal/webhook"
)

// ShotHandler translates HTTP to shot service calls and webhook sends.
type ShotHandler struct {
	Auth     auth.Auth
	Service  *shot.Service
	Webhooks *webhook.Sender
	MaxBytes int64
}

func (h *ShotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/shots")
	parts := filterEmpty(strings.Split(path, "/"))

	switch {
	// /api/shots
	case len(parts) == 0:
		switch r.Method {
		case http.MethodGet:
			h.Auth.RequireDevice(h.list)(w, r)
		case http.MethodPost:
			h.Auth.RequireDevice(h.create)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	// /api/shots/{id}
	case len(parts) == 1:
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.Auth.RequireDevice(func(w http.ResponseWriter, r *http.Request) {
				h.get(w, r, id)
			})(w, r)
		case http.MethodDelete:
			h.Auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				h.delete(w, r, id)
			})(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}

	// /api/shots/{id}/{action}
	case len(parts) == 2:
		id, action := parts[0], parts[1]
		switch {
		case action == "notes" && r.Method == http.MethodPut:
			h.Auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				h.updateNotes(w, r, id)
			})(w, r)
		case action == "export" && r.Method == http.MethodGet:
			h.Auth.RequireDevice(func(w http.ResponseWriter, r *http.Request) {
				h.export(w, r, id)
			})(w, r)
		case action == "webhook" && r.Method == http.MethodPost:
			h.Auth.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
				h.sendWebhook(w, r, id)
			})(w, r)
		case action == "notes" || action == "export" || action == "webhook":
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		default:
			http.Error(w, "invalid shot route", http.StatusNotFound)
		}

	default:
		http.Error(w, "invalid shot route", http.StatusNotFound)
	}
}

// list godoc
// @Summary      List shots
// @Description  Newest first
// @Tags         shots
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 50, max 500)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {array}   shot.Shot
// @Failure      400     {object}  util.ErrorBody  "Non-numeric limit or offset"
// @Failure      401     {string}  string  "Unauthorized"
// @Failure      500     {object}  util.ErrorBody
// @Security     DeviceKeyAuth
// @Security     BearerAuth
// @Router       /shots [get]
func (h *ShotHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "", "limit must be an integer")
		return
	}
	offset, err := queryInt(q.Get("offset"))
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "", "offset must be an integer")
		return
	}

	shots, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
		return
	}
	util.WriteJSON(w, shots)
}

// create godoc
// @Summary      Record a shot
// @Description  Accepts a JSON shot body, or a multipart upload with a JSON file in the "file" field
// @Tags         shots
// @Accept       json,mpfd
// @Produce      json
// @Param        shot  body      shot.Shot  false  "Shot"
// @Param        file  formData  file       false  "Shot JSON file"
// @Success      201   {object}  shot.Shot
// @Failure      400   {object}  util.ErrorBody
// @Failure      401   {string}  string  "Unauthorized"
// @Failure      500   {object}  util.ErrorBody
// @Security     DeviceKeyAuth
// @Security     BearerAuth
// @Router       /shots [post]
func (h *ShotHandler) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	in, err := h.decodeUpload(r)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	saved, err := h.Service.Import(r.Context(), in)
	if errors.Is(err, shot.ErrInvalidShot) || errors.Is(err, shot.ErrInvalidRating) {
		util.WriteError(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "save failed")
		return
	}
	util.WriteJSONStatus(w, http.StatusCreated, saved)
}

func (h *ShotHandler) decodeUpload(r *http.Request) (shot.Shot, error) {
	var in shot.Shot
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var src io.Reader = r.Body
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
			return in, errors.New("invalid multipart")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return in, errors.New("missing file field")
		}
		defer func(file multipart.File) {
			_ = file.Close()
		}(file)
		src = file
	}

	if err := json.NewDecoder(src).Decode(&in); err != nil {
		return in, errors.New("bad json")
	}
	return in, nil
}

// get godoc
// @Summary      Get shot
// @Tags         shots
// @Produce      json
// @Param        id   path      string  true  "Shot ID"
// @Success      200  {object}  shot.Shot
// @Failure      404  {object}  util.ErrorBody
// @Failure      401  {string}  string  "Unauthorized"
// @Security     DeviceKeyAuth
// @Security     BearerAuth
// @Router       /shots/{id} [get]
func (h *ShotHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := h.load(w, r, id)
	if !ok {
		return
	}
	util.WriteJSON(w, s)
}

// delete godoc
// @Summary      Delete shot
// @Tags         shots
// @Produce      json
// @Param        id   path      string           true  "Shot ID"
// @Success      200  {object}  map[string]bool  "Deletion confirmation"
// @Failure      404  {object}  util.ErrorBody
// @Failure      401  {string}  string  "Unauthorized"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /shots/{id} [delete]
func (h *ShotHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.Service.Delete(r.Context(), id)
	if errors.Is(err, shot.ErrNotFound) {
		util.WriteError(w, http.StatusNotFound, "", "not found")
		return
	}
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
		return
	}
	util.WriteJSON(w, map[string]any{"deleted": true})
}

// updateNotes godoc
// @Summary      Replace shot notes
// @Description  A JSON null body clears the notes
// @Tags         shots
// @Accept       json
// @Produce      json
// @Param        id     path      string      true  "Shot ID"
// @Param        notes  body      shot.Notes  true  "Notes"
// @Success      200    {object}  shot.Shot
// @Failure      400    {object}  util.ErrorBody
// @Failure      404    {object}  util.ErrorBody
// @Failure      401    {string}  string  "Unauthorized"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /shots/{id}/notes [put]
func (h *ShotHandler) updateNotes(w http.ResponseWriter, r *http.Request, id string) {
	var notes *shot.Notes
	if err := json.NewDecoder(r.Body).Decode(&notes); err != nil {
		util.WriteError(w, http.StatusBadRequest, "", "bad json")
		return
	}

	updated, err := h.Service.UpdateNotes(r.Context(), id, notes)
	switch {
	case errors.Is(err, shot.ErrNotFound):
		util.WriteError(w, http.StatusNotFound, "", "not found")
	case errors.Is(err, shot.ErrInvalidShot), errors.Is(err, shot.ErrInvalidRating):
		util.WriteError(w, http.StatusBadRequest, "", err.Error())
	case err != nil:
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
	default:
		util.WriteJSON(w, updated)
	}
}

// export godoc
// @Summary      Export shot
// @Tags         shots
// @Produce      json,text/csv
// @Param        id      path      string  true   "Shot ID"
// @Param        format  query     string  false  "json (default) or csv"
// @Success      200     {file}    binary  "Exported shot"
// @Failure      400     {object}  util.ErrorBody
// @Failure      404     {object}  util.ErrorBody
// @Failure      401     {string}  string  "Unauthorized"
// @Security     DeviceKeyAuth
// @Security     BearerAuth
// @Router       /shots/{id}/export [get]
func (h *ShotHandler) export(w http.ResponseWriter, r *http.Request, id string) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = shot.FormatJSON
	}
	if format != shot.FormatJSON && format != shot.FormatCSV {
		util.WriteError(w, http.StatusBadRequest, "", "unsupported format")
		return
	}

	s, ok := h.load(w, r, id)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", shot.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="shot-`+s.ID+`.`+format+`"`)
	if err := shot.Export(w, []shot.Shot{s}, format); err != nil {
		logging.FromContext(r.Context(), "api").Error().Err(err).Str("shot_id", id).Msg("Shot export failed")
	}
}

type sendWebhookRequest struct {
	Notes     *shot.Notes `json:"notes"`
	URL       string      `json:"url" example:"https://example.com/hook"`
	AuthToken string      `json:"authToken"`
}

type sendWebhookResponse struct {
	Success bool `json:"success" example:"true"`
	Result  any  `json:"result"`
}

// sendWebhook godoc
// @Summary      Send shot to webhook
// @Description  Posts the shot to the configured webhook once. Body fields override notes, URL and token.
// @Tags         shots
// @Accept       json
// @Produce      json
// @Param        id       path      string              true   "Shot ID"
// @Param        request  body      sendWebhookRequest  false  "Overrides"
// @Success      200      {object}  sendWebhookResponse
// @Failure      400      {object}  util.ErrorBody  "Bad body or override URL"
// @Failure      404      {object}  util.ErrorBody  "Shot not found"
// @Failure      412      {object}  util.ErrorBody  "Webhook not configured"
// @Failure      502      {object}  util.ErrorBody  "Webhook rejected the request"
// @Failure      504      {object}  util.ErrorBody  "Webhook unreachable"
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /shots/{id}/webhook [post]
func (h *ShotHandler) sendWebhook(w http.ResponseWriter, r *http.Request, id string) {
	var req sendWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		util.WriteError(w, http.StatusBadRequest, "", "bad json")
		return
	}
	if strings.TrimSpace(req.URL) != "" && !webhook.ValidateURL(req.URL) {
		util.WriteError(w, http.StatusBadRequest, string(webhook.KindInvalidInput), "webhook URL must be an absolute http or https URL")
		return
	}

	s, ok := h.load(w, r, id)
	if !ok {
		return
	}

	res, err := h.Webhooks.Send(r.Context(), &s, webhook.SendOptions{
		Notes:     req.Notes,
		URL:       req.URL,
		AuthToken: req.AuthToken,
	})
	if err != nil {
		writeSendError(w, err)
		return
	}
	util.WriteJSON(w, sendWebhookResponse{Success: true, Result: res.Data})
}

func writeSendError(w http.ResponseWriter, err error) {
	var we *webhook.Error
	if !errors.As(err, &we) {
		util.WriteError(w, http.StatusInternalServerError, "", "webhook send failed")
		return
	}
	util.WriteJSONStatus(w, statusForKind(we.Kind), util.ErrorBody{Error: util.ErrorDetail{
		Kind:    string(we.Kind),
		Message: we.Message,
		Status:  we.Status,
	}})
}

func statusForKind(k webhook.Kind) int {
	switch k {
	case webhook.KindInvalidInput:
		return http.StatusBadRequest
	case webhook.KindConfiguration:
		return http.StatusPreconditionFailed
	case webhook.KindNetwork:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func (h *ShotHandler) load(w http.ResponseWriter, r *http.Request, id string) (shot.Shot, bool) {
	s, err := h.Service.Get(r.Context(), id)
	if errors.Is(err, shot.ErrNotFound) {
		util.WriteError(w, http.StatusNotFound, "", "not found")
		return shot.Shot{}, false
	}
	if err != nil {
		util.WriteError(w, http.StatusInternalServerError, "", "db error")
		return shot.Shot{}, false
	}
	return s, true
}

// queryInt parses an optional integer query value; empty means 0.
func queryInt(v string) (int, error) {
	if v = strings.TrimSpace(v); v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func filterEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
