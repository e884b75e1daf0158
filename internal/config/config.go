package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config contains all runtime settings.
// Load order: defaults -> YAML (optional) -> env overrides.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	AdminKey  string `yaml:"admin_key"`
	DeviceKey string `yaml:"device_key"`

	MaxUploadMB int64 `yaml:"max_upload_mb"`

	// CORSOrigins lists browser origins allowed to call the API. "*" allows any.
	CORSOrigins []string `yaml:"cors_origins"`

	Logging LoggingConfig `yaml:"logging"`

	// OIDC/Keycloak extension point. Off by default.
	OIDC struct {
		Enabled    bool   `yaml:"enabled"`
		IssuerURL  string `yaml:"issuer_url"`
		ClientID   string `yaml:"client_id"`
		Audience   string `yaml:"audience"`
		AdminRole  string `yaml:"admin_role"`
		DeviceRole string `yaml:"device_role"`
	} `yaml:"oidc"`

	Webhooks struct {
		// SettingsURL points the sender at a remote settings endpoint.
		// Empty means settings are read from the local database.
		SettingsURL string `yaml:"settings_url"`
		ClientID    string `yaml:"client_id"`
		TimeoutSec  int    `yaml:"timeout_sec"` // 0 leaves the transport default
	} `yaml:"webhooks"`
}

// LoggingConfig selects the log sinks. Output is a comma separated list of
// stdout, file and syslog.
type LoggingConfig struct {
	Name       string `yaml:"name"`   // service field and syslog tag
	Level      string `yaml:"level"`  // trace, debug, info, warn, error, disabled
	Format     string `yaml:"format"` // json, console (stdout only)
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	SyslogAddr string `yaml:"syslog_addr"` // empty means the local daemon
	SyslogNet  string `yaml:"syslog_net"`
}

// Outputs returns the configured sinks, lower-cased and de-duplicated.
func (l LoggingConfig) Outputs() []string {
	var out []string
	seen := map[string]bool{}
	for _, o := range strings.Split(l.Output, ",") {
		o = strings.ToLower(strings.TrimSpace(o))
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// Load reads YAML if path is non-empty, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	var c Config
	c.ListenAddr = ":8080"
	c.DBPath = "/data/db/shot-history.db"
	c.MaxUploadMB = 10
	c.CORSOrigins = []string{"*"}

	// Logging defaults
	c.Logging.Name = "shot-history"
	c.Logging.Level = "info"
	c.Logging.Format = "json"
	c.Logging.Output = "stdout"
	c.Logging.FilePath = "/var/log/shot-history/app.log"
	c.Logging.MaxSizeMB = 100
	c.Logging.MaxBackups = 3
	c.Logging.MaxAgeDays = 28
	c.Logging.Compress = true
	c.Logging.SyslogAddr = ""
	c.Logging.SyslogNet = "udp"

	c.Webhooks.ClientID = "shot-history/1.0"
	c.Webhooks.TimeoutSec = 0

	c.OIDC.Enabled = false
	return c
}

func applyEnv(cfg *Config) {
	setStr(&cfg.ListenAddr, "SHOT_LISTEN_ADDR")
	setStr(&cfg.DBPath, "SHOT_DB_PATH")
	setStr(&cfg.AdminKey, "SHOT_ADMIN_KEY")
	setStr(&cfg.DeviceKey, "SHOT_DEVICE_KEY")

	if v := os.Getenv("SHOT_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadMB = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("SHOT_CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	setStr(&cfg.Webhooks.SettingsURL, "SHOT_WEBHOOK_SETTINGS_URL")
	setStr(&cfg.Webhooks.ClientID, "SHOT_WEBHOOK_CLIENT_ID")
	if v := os.Getenv("SHOT_WEBHOOK_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Webhooks.TimeoutSec = n
		}
	}

	if v := os.Getenv("SHOT_OIDC_ENABLED"); v != "" {
		cfg.OIDC.Enabled = v == "1" || strings.ToLower(v) == "true"
	}
	setStr(&cfg.OIDC.IssuerURL, "SHOT_OIDC_ISSUER_URL")
	setStr(&cfg.OIDC.ClientID, "SHOT_OIDC_CLIENT_ID")
	setStr(&cfg.OIDC.Audience, "SHOT_OIDC_AUDIENCE")
	setStr(&cfg.OIDC.AdminRole, "SHOT_OIDC_ADMIN_ROLE")
	setStr(&cfg.OIDC.DeviceRole, "SHOT_OIDC_DEVICE_ROLE")

	// Logging configuration
	setStr(&cfg.Logging.Name, "SHOT_LOG_NAME")
	setStr(&cfg.Logging.Level, "SHOT_LOG_LEVEL")
	setStr(&cfg.Logging.Format, "SHOT_LOG_FORMAT")
	setStr(&cfg.Logging.Output, "SHOT_LOG_OUTPUT")
	setStr(&cfg.Logging.FilePath, "SHOT_LOG_FILE_PATH")
	setStr(&cfg.Logging.SyslogAddr, "SHOT_LOG_SYSLOG_ADDR")
	setStr(&cfg.Logging.SyslogNet, "SHOT_LOG_SYSLOG_NET")

	if v := os.Getenv("SHOT_LOG_MAX_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Logging.MaxSizeMB = n
		}
	}
	if v := os.Getenv("SHOT_LOG_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Logging.MaxBackups = n
		}
	}
	if v := os.Getenv("SHOT_LOG_MAX_AGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Logging.MaxAgeDays = n
		}
	}
	if v := os.Getenv("SHOT_LOG_COMPRESS"); v != "" {
		cfg.Logging.Compress = v == "1" || strings.ToLower(v) == "true"
	}
}

func setStr(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
