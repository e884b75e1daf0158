package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"shot-history-api/internal/logging"
	"shot-history-api/internal/shot"

	"github.com/rs/zerolog"
)

const (
	DefaultClientID = "shot-history/1.0"

	// maxErrorResponse caps how much of a non-2xx body is kept for the error.
	maxErrorResponse int64 = 1 << 20
)

// Observer receives one call per finished send. outcome is "success" or a Kind.
type Observer interface {
	ObserveSend(outcome string, elapsed time.Duration)
}

// Sender posts shots to the configured webhook and classifies the outcome.
// It holds no per-call state and may be used concurrently.
type Sender struct {
	Client   HTTPDoer
	Settings SettingsSource
	ClientID string
	Observer Observer
}

// SendOptions carries the optional per-call overrides. Empty strings mean "not supplied".
type SendOptions struct {
	Notes     *shot.Notes
	URL       string
	AuthToken string
}

// Result is a successful send. Data is the decoded JSON response, or
// {"success": true, "status": <code>} when the webhook did not answer with JSON.
type Result struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// NewSender returns a Sender with a plain http.Client when client is nil.
func NewSender(client HTTPDoer, source SettingsSource, clientID string) *Sender {
	if client == nil {
		client = &http.Client{}
	}
	if strings.TrimSpace(clientID) == "" {
		clientID = DefaultClientID
	}
	return &Sender{Client: client, Settings: source, ClientID: clientID}
}

// ResolveConfig returns the destination for a send. When both overrides are given no
// settings are fetched; otherwise each non-empty override replaces the fetched value.
// Overrides are trimmed first, so a blank one counts as not supplied.
// A failed fetch yields an empty Config.
func (s *Sender) ResolveConfig(ctx context.Context, overrideURL, overrideToken string) Config {
	overrideURL = strings.TrimSpace(overrideURL)
	overrideToken = strings.TrimSpace(overrideToken)
	if overrideURL != "" && overrideToken != "" {
		return Config{URL: overrideURL, AuthToken: overrideToken}
	}

	var cfg Config
	if s.Settings != nil {
		fetched, err := s.Settings.Fetch(ctx)
		if err != nil {
			logging.FromContext(ctx, "webhook").Warn().Err(err).Msg("Webhook settings unavailable, continuing without configuration")
			return Config{}
		}
		cfg = fetched
	}

	if overrideURL != "" {
		cfg.URL = overrideURL
	}
	if overrideToken != "" {
		cfg.AuthToken = overrideToken
	}
	return cfg
}

// Send delivers sh to the webhook once. Failures are *Error values; see Kind.
func (s *Sender) Send(ctx context.Context, sh *shot.Shot, opts SendOptions) (res Result, err error) {
	start := time.Now()
	logger := logging.FromContext(ctx, "webhook")
	defer func() {
		s.finish(logger, sh, res, err, time.Since(start))
	}()

	cfg := s.ResolveConfig(ctx, opts.URL, opts.AuthToken)
	target := strings.TrimSpace(cfg.URL)
	if target == "" {
		return Result{}, &Error{Kind: KindConfiguration, Message: ErrConfiguration.Message}
	}

	payload, err := BuildPayload(sh, opts.Notes)
	if err != nil {
		return Result{}, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, &Error{Kind: KindInvalidInput, Message: "shot cannot be encoded", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Result{}, networkError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.clientID())
	req.Header.Set("X-Client-Id", s.clientID())
	if token := strings.TrimSpace(cfg.AuthToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug().
		Str("shot_id", payload.ID).
		Str("url", target).
		Int("bytes", len(body)).
		Msg("Posting shot to webhook")

	resp, err := s.client().Do(req)
	if err != nil {
		return Result{}, networkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return classify(resp)
}

func classify(resp *http.Response) (Result, error) {
	code := resp.StatusCode
	if !isHTTPSuccessStatus(code) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorResponse))
		switch text := string(raw); code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return Result{}, statusError(KindAuthentication, code, text)
		case http.StatusUnprocessableEntity:
			return Result{}, statusError(KindValidation, code, text)
		default:
			return Result{}, statusError(KindHTTP, code, text)
		}
	}

	// The webhook accepted the shot; its answer is read whole.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		e := statusError(KindHTTP, code, "")
		e.Message = "reading webhook response failed"
		e.Err = err
		return Result{}, e
	}

	if isJSON(resp.Header.Get("Content-Type")) && len(bytes.TrimSpace(raw)) > 0 {
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			e := statusError(KindHTTP, code, truncate(string(raw), maxErrorBody))
			e.Message = "webhook returned invalid JSON"
			e.Err = err
			return Result{}, e
		}
		return Result{Status: code, Data: data}, nil
	}

	return Result{
		Status: code,
		Data:   map[string]any{"success": true, "status": code},
	}, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (s *Sender) finish(logger *zerolog.Logger, sh *shot.Shot, res Result, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = string(KindOf(err))
	}
	if s.Observer != nil {
		s.Observer.ObserveSend(outcome, elapsed)
	}

	var shotID string
	if sh != nil {
		shotID = sh.ID
	}
	if err != nil {
		logger.Warn().
			Err(err).
			Str("shot_id", shotID).
			Str("outcome", outcome).
			Dur("duration_ms", elapsed).
			Msg("Webhook send failed")
		return
	}
	logger.Info().
		Str("shot_id", shotID).
		Int("status", res.Status).
		Dur("duration_ms", elapsed).
		Msg("Webhook delivered")
}

func (s *Sender) client() HTTPDoer {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

func (s *Sender) clientID() string {
	if s.ClientID == "" {
		return DefaultClientID
	}
	return s.ClientID
}
