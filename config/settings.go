package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
)

// Configuration keys.
const (
	KeyGitBinary     = "git_binary"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyNotifyWebhook = "notify_webhook"
)

// Log formats accepted by KeyLogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ErrInvalidValue indicates a configuration value failed validation.
var ErrInvalidValue = errors.New("invalid config value")

// Defaults returns the built-in value for every known key.
func Defaults() map[string]string {
	return map[string]string{
		KeyGitBinary:     "git",
		KeyLogLevel:      "info",
		KeyLogFormat:     LogFormatText,
		KeyNotifyWebhook: "",
	}
}

// Keys returns every known key in sorted order.
func Keys() []string {
	keys := make([]string, 0, 4)
	for k := range Defaults() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsKnownKey reports whether key is a devstash setting.
func IsKnownKey(key string) bool {
	_, ok := Defaults()[key]
	return ok
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	GitBinary     string
	Level         string
	LogFormat     string
	NotifyWebhook string
}

// Settings validates the resolved values and returns them typed.
func (c *Resolved) Settings() (Settings, error) {
	s := Settings{
		GitBinary:     c.Get(KeyGitBinary),
		Level:         c.Get(KeyLogLevel),
		LogFormat:     c.Get(KeyLogFormat),
		NotifyWebhook: c.Get(KeyNotifyWebhook),
	}

	for _, key := range Keys() {
		if err := ValidateValue(key, c.Get(key)); err != nil {
			return Settings{}, fmt.Errorf("%s (from %s): %w", key, c.Source(key), err)
		}
	}
	return s, nil
}

// LogLevel returns the slog level for Level. Unparseable levels fall back to info.
func (s Settings) LogLevel() slog.Level {
	level, err := parseLevel(s.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ValidateValue checks value against the rules for key.
func ValidateValue(key, value string) error {
	switch key {
	case KeyGitBinary:
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: git binary must not be empty", ErrInvalidValue)
		}
	case KeyLogLevel:
		if _, err := parseLevel(value); err != nil {
			return err
		}
	case KeyLogFormat:
		if value != LogFormatText && value != LogFormatJSON {
			return fmt.Errorf("%w: log format %q, want %q or %q", ErrInvalidValue, value, LogFormatText, LogFormatJSON)
		}
	case KeyNotifyWebhook:
		if value == "" {
			return nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: webhook %q must be an http(s) URL", ErrInvalidValue, value)
		}
	default:
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidValue, value)
	}
	return level, nil
}
