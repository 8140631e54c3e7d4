package config

import (
	stderrors "errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/dhframe/internal/errors"
)

const (
	// ConfigName is the base name of the config file searched for in the
	// working directory.
	ConfigName = "dhframe"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DHFRAME"

	// BaseURLEnv is the legacy variable that overrides the iframe base URL.
	BaseURLEnv = "DEEPHAVEN_ST_URL"

	// DefaultPort is the default backend port.
	DefaultPort = 8899
)

// Config is the complete dhframe configuration.
type Config struct {
	// Server configures the widget backend.
	Server ServerConfig `mapstructure:"server"`

	// BaseURL replaces the computed backend address in iframe URLs.
	BaseURL string `mapstructure:"base_url"`

	// Host configures the page host.
	Host HostConfig `mapstructure:"host"`

	// Session configures session expiry.
	Session SessionConfig `mapstructure:"session"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Log configures logging.
	Log LogConfig `mapstructure:"log"`

	// configPath stores the file the config was loaded from.
	configPath string
}

// ServerConfig configures the widget backend.
type ServerConfig struct {
	Host string   `mapstructure:"host"`
	Port int      `mapstructure:"port"`
	Args []string `mapstructure:"args"`
}

// HostConfig configures the page host.
type HostConfig struct {
	Address       string `mapstructure:"address"`
	Title         string `mapstructure:"title"`
	SecureCookies bool   `mapstructure:"secure_cookies"`
}

// SessionConfig configures session expiry.
type SessionConfig struct {
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxSessions  int           `mapstructure:"max_sessions"`
	EvictOnLimit bool          `mapstructure:"evict_on_limit"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// flagBindings maps config keys to the command-line flags that override
// them.
var flagBindings = map[string]string{
	"server.host":  "backend-host",
	"server.port":  "port",
	"base_url":     "base-url",
	"host.address": "addr",
	"log.level":    "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.args", []string{})
	v.SetDefault("base_url", "")
	v.SetDefault("host.address", ":8501")
	v.SetDefault("host.title", "dhframe")
	v.SetDefault("host.secure_cookies", false)
	v.SetDefault("session.idle_timeout", 30*time.Minute)
	v.SetDefault("session.max_sessions", 10000)
	v.SetDefault("session.evict_on_limit", false)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Default returns the built-in defaults, ignoring files and environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load reads the configuration. path may be empty to search the working
// directory; a missing file is then not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("E121").
				WithDetail("Failed to read " + describePath(path) + ".").
				Wrap(err)
		}
	}

	cfg, err := load(v, v.ConfigFileUsed(), flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("base_url", EnvPrefix+"_BASE_URL", BaseURLEnv); err != nil {
		return nil, errors.New("E120").Wrap(err)
	}

	if flags != nil {
		for key, name := range flagBindings {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.New("E120").Wrap(err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to decode configuration: " + err.Error()).
			Wrap(err)
	}
	cfg.configPath = path
	return &cfg, nil
}

func describePath(path string) string {
	if path == "" {
		return ConfigName + " config"
	}
	return path
}

// validBaseURL accepts an absolute http(s) URL, or a path such as "/dh/"
// for a reverse proxy serving the backend under the page's own origin.
func validBaseURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(u.Path, "/")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port must be between 0 and 65535")
	}
	if c.BaseURL != "" && !validBaseURL(c.BaseURL) {
		return invalid("base_url must be an absolute http(s) URL or a path starting with /, got " + c.BaseURL)
	}
	if c.Host.Address == "" {
		return invalid("host.address must not be empty")
	}
	if c.Session.IdleTimeout <= 0 {
		return invalid("session.idle_timeout must be positive")
	}
	if c.Session.MaxSessions < 0 {
		return invalid("session.max_sessions must not be negative")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return invalid("log.level must be debug, info, warn or error, got " + c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got " + c.Log.Format)
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("E120").WithDetail(detail)
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
