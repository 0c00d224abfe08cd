// Package config loads lexbot settings: defaults, then an optional YAML
// file, then environment overrides. Command-line flags are applied last by
// the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lexbot/internal/citation"
	"lexbot/internal/session"
	"lexbot/sdk/backend"
)

// Config holds all lexbot configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig configures the HTTP client.
type BackendConfig struct {
	URL           string   `yaml:"url"`
	HealthTimeout Duration `yaml:"health_timeout"`
	QueryTimeout  Duration `yaml:"query_timeout"`
}

// SessionConfig configures the conversation state manager.
type SessionConfig struct {
	// HappyDuration is how long the mascot stays happy after an answer.
	HappyDuration Duration `yaml:"happy_duration"`
}

// UIConfig configures presentation.
type UIConfig struct {
	ExcerptLimit int `yaml:"excerpt_limit"`
	// HealthPollInterval enables a silent background health check when > 0.
	HealthPollInterval Duration `yaml:"health_poll_interval"`
	// AltScreen runs the TUI in the terminal's alternate screen.
	AltScreen bool `yaml:"alt_screen"`
}

// LoggingConfig configures the logger. Level "off" disables logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration is a time.Duration that reads "5s"-style strings from YAML.
type Duration time.Duration

// UnmarshalYAML accepts either a duration string or an integer number of
// seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := parseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:           backend.DefaultBaseURL,
			HealthTimeout: Duration(backend.DefaultHealthTimeout),
			QueryTimeout:  Duration(backend.DefaultQueryTimeout),
		},
		Session: SessionConfig{
			HappyDuration: Duration(session.DefaultRevertDelay),
		},
		UI: UIConfig{
			ExcerptLimit: citation.DefaultExcerptLimit,
			AltScreen:    true,
		},
		Logging: LoggingConfig{
			Level: "off",
		},
	}
}

// DefaultPath returns ~/.config/lexbot/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lexbot", "config.yaml")
}

// Load reads the configuration. An explicit path must exist; with an empty
// path the default location is used when present. Environment overrides are
// applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies LEXBOT_* variables. LEXBOT_API_URL wins over
// the generic BACKEND_URL. A timeout that does not parse is an error, as it
// is in the file.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("LEXBOT_API_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LEXBOT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	for _, o := range []struct {
		name string
		dst  *Duration
	}{
		{"LEXBOT_HEALTH_TIMEOUT", &c.Backend.HealthTimeout},
		{"LEXBOT_QUERY_TIMEOUT", &c.Backend.QueryTimeout},
	} {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
		*o.dst = Duration(d)
	}
	return nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	u := strings.TrimSpace(c.Backend.URL)
	if u == "" {
		return errors.New("backend.url is empty")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("backend.url %q must start with http:// or https://", u)
	}
	if c.Backend.HealthTimeout.Std() <= 0 || c.Backend.QueryTimeout.Std() <= 0 {
		return errors.New("backend timeouts must be positive")
	}
	if c.Session.HappyDuration.Std() <= 0 {
		return errors.New("session.happy_duration must be positive")
	}
	if c.UI.ExcerptLimit < 0 {
		return errors.New("ui.excerpt_limit must not be negative")
	}
	if c.UI.HealthPollInterval.Std() < 0 {
		return errors.New("ui.health_poll_interval must not be negative")
	}
	return nil
}

// LogLevel returns the configured level for the backend logger.
func (c *Config) LogLevel() backend.LogLevel {
	return backend.ParseLogLevel(c.Logging.Level)
}
