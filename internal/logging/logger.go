package logging

import (
	"context"
	"fmt"
	"io"
	"log/syslog"
	"os"
	"path/filepath"
	"strings"

	"shot-history-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the service logger from cfg.Logging, installs it as the global
// logger and makes it the zerolog.Ctx fallback for contexts without a request logger.
func Setup(cfg config.Config) error {
	lc := cfg.Logging

	level, err := parseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}

	outputs := lc.Outputs()
	if len(outputs) == 0 {
		return fmt.Errorf("no log output configured")
	}
	writers := make([]io.Writer, 0, len(outputs))
	for _, out := range outputs {
		w, err := openSink(out, lc)
		if err != nil {
			return fmt.Errorf("log output %q: %w", out, err)
		}
		writers = append(writers, w)
	}

	var w io.Writer = writers[0]
	if len(writers) > 1 {
		w = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	ctx := zerolog.New(w).With().Timestamp()
	if lc.Name != "" {
		ctx = ctx.Str("service", lc.Name)
	}
	log.Logger = ctx.Logger()
	zerolog.DefaultContextLogger = &log.Logger

	log.Info().
		Str("level", lc.Level).
		Strs("outputs", outputs).
		Msg("Logger initialized")
	return nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown level: %s", level)
	}
}

func openSink(name string, lc config.LoggingConfig) (io.Writer, error) {
	switch name {
	case "stdout":
		if strings.EqualFold(lc.Format, "console") {
			return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}, nil
		}
		return os.Stdout, nil

	case "file":
		if lc.FilePath == "" {
			return nil, fmt.Errorf("file_path is empty")
		}
		if err := os.MkdirAll(filepath.Dir(lc.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		// lumberjack opens lazily; touch the file so a bad path fails at startup.
		f, err := os.OpenFile(lc.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		_ = f.Close()
		return &lumberjack.Logger{
			Filename:   lc.FilePath,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAgeDays,
			Compress:   lc.Compress,
			LocalTime:  true,
		}, nil

	case "syslog":
		const prio = syslog.LOG_INFO | syslog.LOG_DAEMON
		if lc.SyslogAddr == "" {
			return syslog.New(prio, lc.Name)
		}
		network := lc.SyslogNet
		if network == "" {
			network = "udp"
		}
		return syslog.Dial(network, lc.SyslogAddr, prio, lc.Name)

	default:
		return nil, fmt.Errorf("unknown output")
	}
}

// FromContext returns the request logger stored by HTTPLogger, or the service
// logger when ctx carries none, tagged with component.
func FromContext(ctx context.Context, component string) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &log.Logger
	}
	c := l.With().Str("component", component).Logger()
	return &c
}

// For returns a child of the service logger tagged with a component name.
func For(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
