package settings

import (
	"context"
	"errors"
	"strings"

	"shot-history-api/internal/logging"
	"shot-history-api/internal/webhook"
)

var ErrInvalidWebhookURL = errors.New("webhook URL must be an absolute http or https URL")

const (
	keyWebhookURL       = "webhook_url"
	keyWebhookAuthToken = "webhook_auth_token"
)

// Settings is the user-editable configuration exposed at /api/settings.
type Settings struct {
	WebhookURL       string `json:"webhookUrl" example:"https://example.com/hooks/shots" doc:"Webhook endpoint"`
	WebhookAuthToken string `json:"webhookAuthToken" example:"s3cr3t" doc:"Bearer token sent with webhook requests"`
}

// Store persists settings as key/value pairs. Missing keys read as "".
type Store interface {
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

type Service struct {
	Store Store
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	values, err := s.Store.GetAll(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		WebhookURL:       values[keyWebhookURL],
		WebhookAuthToken: values[keyWebhookAuthToken],
	}, nil
}

// Update trims and stores settings. An empty URL disables the webhook.
func (s *Service) Update(ctx context.Context, in Settings) (Settings, error) {
	in.WebhookURL = strings.TrimSpace(in.WebhookURL)
	in.WebhookAuthToken = strings.TrimSpace(in.WebhookAuthToken)

	if in.WebhookURL != "" && !webhook.ValidateURL(in.WebhookURL) {
		return Settings{}, ErrInvalidWebhookURL
	}

	if err := s.Store.SetAll(ctx, map[string]string{
		keyWebhookURL:       in.WebhookURL,
		keyWebhookAuthToken: in.WebhookAuthToken,
	}); err != nil {
		logging.FromContext(ctx, "settings").Error().Err(err).Msg("Failed to store settings")
		return Settings{}, err
	}

	logging.FromContext(ctx, "settings").Info().
		Bool("webhook_enabled", in.WebhookURL != "").
		Bool("auth_token_set", in.WebhookAuthToken != "").
		Msg("Settings updated")
	return in, nil
}

// WebhookSource exposes the stored settings to the webhook sender in-process.
func (s *Service) WebhookSource() webhook.SettingsSource {
	return webhook.SettingsSourceFunc(func(ctx context.Context) (webhook.Config, error) {
		cur, err := s.Get(ctx)
		if err != nil {
			return webhook.Config{}, err
		}
		return webhook.Config{URL: cur.WebhookURL, AuthToken: cur.WebhookAuthToken}, nil
	})
}
