package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Config is the resolved destination of a send.
type Config struct {
	URL       string
	AuthToken string
}

// SettingsSource supplies the configured webhook destination.
type SettingsSource interface {
	Fetch(ctx context.Context) (Config, error)
}

// SettingsSourceFunc adapts a function to SettingsSource.
type SettingsSourceFunc func(ctx context.Context) (Config, error)

func (f SettingsSourceFunc) Fetch(ctx context.Context) (Config, error) { return f(ctx) }

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSettingsSource reads settings from a remote GET endpoint returning
// {"webhookUrl": "...", "webhookAuthToken": "..."}.
type HTTPSettingsSource struct {
	URL      string
	AdminKey string
	Client   HTTPDoer
}

type settingsBody struct {
	WebhookURL       string `json:"webhookUrl"`
	WebhookAuthToken string `json:"webhookAuthToken"`
}

func (h *HTTPSettingsSource) Fetch(ctx context.Context) (Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return Config{}, fmt.Errorf("settings request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.AdminKey != "" {
		req.Header.Set("X-Admin-Key", h.AdminKey)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Config{}, fmt.Errorf("settings request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if !isHTTPSuccessStatus(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Config{}, fmt.Errorf("settings endpoint returned status %d", resp.StatusCode)
	}

	var body settingsBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Config{}, fmt.Errorf("decode settings: %w", err)
	}
	return Config{URL: body.WebhookURL, AuthToken: body.WebhookAuthToken}, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
