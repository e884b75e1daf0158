package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shot-history-api/internal/auth"
	"shot-history-api/internal/db"
	"shot-history-api/internal/settings"
	"shot-history-api/internal/shot"
	"shot-history-api/internal/util"
	"shot-history-api/internal/webhook"
	"shot-history-api/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminKey  = "admin-secret"
	deviceKey = "device-secret"
)

type fixture struct {
	shots    *ShotHandler
	settings *SettingsHandler
	svc      *shot.Service
	cfg      *settings.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(database, migrations.FS))

	a := auth.Auth{AdminKey: adminKey, DeviceKey: deviceKey}
	shotSvc := &shot.Service{Repo: &shot.SQLiteRepo{DB: database}}
	settingsSvc := &settings.Service{Store: &settings.SQLiteStore{DB: database}}

	return &fixture{
		shots: &ShotHandler{
			Auth:     a,
			Service:  shotSvc,
			Webhooks: webhook.NewSender(nil, settingsSvc.WebhookSource(), ""),
			MaxBytes: 1 << 20,
		},
		settings: &SettingsHandler{Auth: a, Service: settingsSvc},
		svc:      shotSvc,
		cfg:      settingsSvc,
	}
}

func (f *fixture) seed(t *testing.T, id string) shot.Shot {
	t.Helper()
	s, err := f.svc.Import(context.Background(), shot.Shot{
		ID:        id,
		Timestamp: 1718000000,
		Profile:   "Classic 9 bar",
		Duration:  28500,
		Volume:    36.4,
		Samples:   []shot.Sample{{T: 0, CP: 1.2}, {T: 250, CP: 8.9}},
	})
	require.NoError(t, err)
	return s
}

func do(h http.Handler, method, target, key string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	switch key {
	case adminKey:
		req.Header.Set("X-Admin-Key", key)
	case deviceKey:
		req.Header.Set("X-Device-Key", key)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) util.ErrorDetail {
	t.Helper()
	var body util.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestShots_CreateListGet(t *testing.T) {
	f := newFixture(t)

	rec := do(f.shots, http.MethodPost, "/api/shots", deviceKey,
		strings.NewReader(`{"id":"s1","timestamp":1718000000,"profile":"Turbo","samples":[{"t":0,"cp":2}]}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(f.shots, http.MethodGet, "/api/shots", deviceKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []shot.Shot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Turbo", list[0].Profile)

	rec = do(f.shots, http.MethodGet, "/api/shots/s1", deviceKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got shot.Shot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []shot.Sample{{T: 0, CP: 2}}, got.Samples)
}

func TestShots_ListRejectsNonNumericPaging(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	for _, target := range []string{"/api/shots?limit=abc", "/api/shots?offset=1.5", "/api/shots?limit=10&offset=x"} {
		rec := do(f.shots, http.MethodGet, target, deviceKey, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := do(f.shots, http.MethodGet, "/api/shots?limit=1&offset=0", deviceKey, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShots_CreateMultipart(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "shot.json")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(`{"id":"upload-1","profile":"Lever"}`))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/shots", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Device-Key", deviceKey)
	rec := httptest.NewRecorder()
	f.shots.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got, err := f.svc.Get(context.Background(), "upload-1")
	require.NoError(t, err)
	assert.Equal(t, "Lever", got.Profile)
}

func TestShots_RequiresCredentials(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	assert.Equal(t, http.StatusUnauthorized, do(f.shots, http.MethodGet, "/api/shots", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(f.shots, http.MethodDelete, "/api/shots/s1", deviceKey, nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(f.shots, http.MethodPost, "/api/shots/s1/webhook", deviceKey, nil).Code)
}

func TestShots_NotFoundAndBadInput(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, do(f.shots, http.MethodGet, "/api/shots/missing", deviceKey, nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(f.shots, http.MethodPost, "/api/shots", deviceKey, strings.NewReader("{")).Code)
	assert.Equal(t, http.StatusNotFound, do(f.shots, http.MethodGet, "/api/shots/a/b/c", deviceKey, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(f.shots, http.MethodPatch, "/api/shots", deviceKey, nil).Code)
}

func TestShots_UpdateNotesAndDelete(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	rec := do(f.shots, http.MethodPut, "/api/shots/s1/notes", adminKey,
		strings.NewReader(`{"rating":4,"beanType":"Guji","balanceTaste":"balanced"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got shot.Shot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Notes)
	assert.Equal(t, 4, got.Notes.Rating)

	rec = do(f.shots, http.MethodPut, "/api/shots/s1/notes", adminKey, strings.NewReader(`{"rating":9}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(f.shots, http.MethodDelete, "/api/shots/s1", adminKey, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(f.shots, http.MethodDelete, "/api/shots/s1", adminKey, nil).Code)
}

func TestShots_Export(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	rec := do(f.shots, http.MethodGet, "/api/shots/s1/export?format=csv", deviceKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shot.ContentType(shot.FormatCSV), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "shot-s1.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)

	rec = do(f.shots, http.MethodGet, "/api/shots/s1/export", deviceKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, shot.ContentType(shot.FormatJSON), rec.Header().Get("Content-Type"))

	rec = do(f.shots, http.MethodGet, "/api/shots/s1/export?format=xml", deviceKey, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShots_SendWebhook_UsesStoredSettings(t *testing.T) {
	var received webhook.Payload
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accepted":true}`))
	}))
	defer srv.Close()

	f := newFixture(t)
	f.seed(t, "s1")
	_, err := f.cfg.Update(context.Background(), settings.Settings{WebhookURL: srv.URL, WebhookAuthToken: "tok"})
	require.NoError(t, err)

	rec := do(f.shots, http.MethodPost, "/api/shots/s1/webhook", adminKey,
		strings.NewReader(`{"notes":{"rating":5,"beanType":"Guji"}}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool           `json:"success"`
		Result  map[string]any `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, true, resp.Result["accepted"])

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "s1", received.ID)
	assert.Len(t, received.Samples, 2)
	require.NotNil(t, received.Notes)
	assert.Equal(t, 5, received.Notes.Rating)
}

func TestShots_SendWebhook_EmptyBodyAllowed(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	req := httptest.NewRequest(http.MethodPost, "/api/shots/s1/webhook", nil)
	req.Header.Set("X-Admin-Key", adminKey)
	rec := httptest.NewRecorder()
	f.shots.ServeHTTP(rec, req)

	// no URL configured
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Equal(t, string(webhook.KindConfiguration), decodeError(t, rec).Kind)
}

func TestShots_SendWebhook_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		wantCode int
		wantKind webhook.Kind
	}{
		{"unauthorized", http.StatusUnauthorized, http.StatusBadGateway, webhook.KindAuthentication},
		{"forbidden", http.StatusForbidden, http.StatusBadGateway, webhook.KindAuthentication},
		{"unprocessable", http.StatusUnprocessableEntity, http.StatusBadGateway, webhook.KindValidation},
		{"server error", http.StatusInternalServerError, http.StatusBadGateway, webhook.KindHTTP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			f := newFixture(t)
			f.seed(t, "s1")

			body := `{"url":"` + srv.URL + `","authToken":"tok"}`
			rec := do(f.shots, http.MethodPost, "/api/shots/s1/webhook", adminKey, strings.NewReader(body))
			require.Equal(t, tc.wantCode, rec.Code, rec.Body.String())

			detail := decodeError(t, rec)
			assert.Equal(t, string(tc.wantKind), detail.Kind)
			assert.Equal(t, tc.status, detail.Status)
		})
	}
}

func TestShots_SendWebhook_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := newFixture(t)
	f.seed(t, "s1")

	rec := do(f.shots, http.MethodPost, "/api/shots/s1/webhook", adminKey,
		strings.NewReader(`{"url":"`+url+`"}`))
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, string(webhook.KindNetwork), decodeError(t, rec).Kind)
}

func TestShots_SendWebhook_RejectsInvalidOverrideURL(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "s1")

	rec := do(f.shots, http.MethodPost, "/api/shots/s1/webhook", adminKey,
		strings.NewReader(`{"url":"ftp://example.com/hook"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(webhook.KindInvalidInput), decodeError(t, rec).Kind)
}

func TestShots_SendWebhook_UnknownShot(t *testing.T) {
	f := newFixture(t)
	rec := do(f.shots, http.MethodPost, "/api/shots/nope/webhook", adminKey, strings.NewReader(`{}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsHandler(t *testing.T) {
	f := newFixture(t)

	rec := do(f.settings, http.MethodPut, "/api/settings", adminKey,
		strings.NewReader(`{"webhookUrl":" https://hooks.example/shots ","webhookAuthToken":"t"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(f.settings, http.MethodGet, "/api/settings", adminKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got settings.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "https://hooks.example/shots", got.WebhookURL)

	rec = do(f.settings, http.MethodPut, "/api/settings", adminKey, strings.NewReader(`{"webhookUrl":"nope"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, do(f.settings, http.MethodGet, "/api/settings", deviceKey, nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(f.settings, http.MethodDelete, "/api/settings", adminKey, nil).Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
