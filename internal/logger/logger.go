// Package logger builds the process-wide zerolog logger from configuration.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Config struct {
	Level       string         `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format      string         `mapstructure:"format" validate:"oneof=json console"`
	Output      string         `mapstructure:"output" validate:"oneof=stdout stderr"`
	File        string         `mapstructure:"file"`
	TimeField   string         `mapstructure:"time_field"`
	TimeFormat  string         `mapstructure:"time_format" validate:"oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName string         `mapstructure:"service_name"`
	Version     string         `mapstructure:"version"`
	Env         string         `mapstructure:"env" validate:"oneof=dev prod"`
	WithCaller  bool           `mapstructure:"with_caller"`
	Fields      map[string]any `mapstructure:"fields"`
}

var timeFormats = map[string]string{
	"rfc3339":     "2006-01-02T15:04:05Z07:00",
	"rfc3339nano": "2006-01-02T15:04:05.999999999Z07:00",
	"unix":        zerolog.TimeFormatUnix,
	"unix_ms":     zerolog.TimeFormatUnixMs,
}

// New validates cfg, fills defaults and returns the configured logger.
// When File is set, output is mirrored to that file.
func New(cfg *Config) (zerolog.Logger, error) {
	cfg.setDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("logger config validation error: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse level %q: %w", cfg.Level, err)
	}

	zerolog.TimestampFieldName = cfg.TimeField
	zerolog.TimeFieldFormat = timeFormats[cfg.TimeFormat]

	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	if cfg.File != "" {
		file, ferr := openLogFile(cfg.File)
		if ferr != nil {
			return zerolog.Nop(), ferr
		}
		out = zerolog.MultiLevelWriter(out, file)
	}

	ctx := zerolog.New(out).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.Version).
		Str("env", cfg.Env)
	if cfg.WithCaller {
		ctx = ctx.Caller()
	}
	if len(cfg.Fields) > 0 {
		ctx = ctx.Fields(cfg.Fields)
	}

	return ctx.Logger().Level(level), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	if c.TimeField == "" {
		c.TimeField = "ts"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "rfc3339"
	}
	if !c.WithCaller && c.Env == "dev" {
		c.WithCaller = true
	}
	if c.ServiceName == "" {
		c.ServiceName = "draftmate"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
}
