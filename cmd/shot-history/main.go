// @title           Shot History API
// @version         1.0
// @description     Stores espresso shot telemetry and forwards shots to a user-configured webhook.
// @BasePath        /api
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-Admin-Key
// @securityDefinitions.apikey  DeviceKeyAuth
// @in                          header
// @name                        X-Device-Key
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"shot-history-api/docs"
	"shot-history-api/internal/api"
	"shot-history-api/internal/api/handlers"
	"shot-history-api/internal/auth"
	"shot-history-api/internal/config"
	"shot-history-api/internal/db"
	"shot-history-api/internal/logging"
	"shot-history-api/internal/metrics"
	"shot-history-api/internal/settings"
	"shot-history-api/internal/shot"
	"shot-history-api/internal/webhook"
	"shot-history-api/migrations"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := os.Getenv("SHOT_CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Config load failed")
	}

	// Initialize logger
	if err := logging.Setup(cfg); err != nil {
		log.Fatal().Err(err).Msg("Logger setup failed")
	}

	log.Info().
		Str("version", docs.SwaggerInfo.Version).
		Str("listen_addr", cfg.ListenAddr).
		Msg("Shot History API starting")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", filepath.Dir(cfg.DBPath)).Msg("Failed to create database directory")
	}

	// DB + migrations
	log.Info().Str("db_path", cfg.DBPath).Msg("Opening database")
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Database open failed")
	}
	defer func() {
		_ = database.Close()
	}()
	log.Info().Msg("Running database migrations")
	if err := db.RunMigrations(database, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Database migrations failed")
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	// Shot layer
	shotSvc := &shot.Service{Repo: &shot.SQLiteRepo{DB: database}}
	settingsSvc := &settings.Service{Store: &settings.SQLiteStore{DB: database}}

	// Webhook layer
	whLog := logging.For("webhook")
	client := &http.Client{}
	if cfg.Webhooks.TimeoutSec > 0 {
		client.Timeout = time.Duration(cfg.Webhooks.TimeoutSec) * time.Second
	}
	var source webhook.SettingsSource = settingsSvc.WebhookSource()
	if cfg.Webhooks.SettingsURL != "" {
		whLog.Info().Str("settings_url", cfg.Webhooks.SettingsURL).Msg("Reading webhook settings from remote endpoint")
		source = &webhook.HTTPSettingsSource{
			URL:      cfg.Webhooks.SettingsURL,
			AdminKey: cfg.AdminKey,
			Client:   client,
		}
	}
	sender := webhook.NewSender(client, source, cfg.Webhooks.ClientID)
	sender.Observer = m
	whLog.Info().
		Str("client_id", cfg.Webhooks.ClientID).
		Int("timeout_sec", cfg.Webhooks.TimeoutSec).
		Msg("Webhook sender ready")

	// Initialize OIDC verifier if enabled
	authLog := logging.For("auth")
	var oidcVerifier *auth.OIDCVerifier
	if cfg.OIDC.Enabled {
		authLog.Info().Str("issuer", cfg.OIDC.IssuerURL).Msg("Initializing OIDC authentication")
		oidcVerifier, err = auth.NewOIDCVerifier(
			context.Background(),
			cfg.OIDC.IssuerURL,
			cfg.OIDC.ClientID,
			cfg.OIDC.Audience,
			cfg.OIDC.AdminRole,
			cfg.OIDC.DeviceRole,
		)
		if err != nil {
			authLog.Warn().
				Err(err).
				Msg("OIDC enabled but failed to initialize, falling back to API key authentication only")
			cfg.OIDC.Enabled = false
		} else {
			authLog.Info().
				Str("issuer", cfg.OIDC.IssuerURL).
				Str("client_id", cfg.OIDC.ClientID).
				Str("admin_role", cfg.OIDC.AdminRole).
				Str("device_role", cfg.OIDC.DeviceRole).
				Msg("OIDC authentication enabled")
		}
	}

	authHandler := auth.Auth{
		AdminKey:     cfg.AdminKey,
		DeviceKey:    cfg.DeviceKey,
		OIDCEnabled:  cfg.OIDC.Enabled,
		OIDCVerifier: oidcVerifier,
	}

	shotHandler := &handlers.ShotHandler{
		Auth:     authHandler,
		Service:  shotSvc,
		Webhooks: sender,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}
	settingsHandler := &handlers.SettingsHandler{
		Auth:    authHandler,
		Service: settingsSvc,
	}

	router := api.NewRouter(shotHandler, settingsHandler, m.Handler())

	// Apply middlewares: metrics innermost, then logging, then CORS
	handler := m.Middleware(router)
	handler = logging.HTTPLogger(handler)
	handler = api.CORSMiddleware(cfg.CORSOrigins)(handler)

	log.Info().
		Str("listen_addr", cfg.ListenAddr).
		Msg("Shot History API listening")

	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("HTTP server failed")
	}
}
