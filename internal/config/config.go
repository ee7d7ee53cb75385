// Package config loads the server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName     = "portfolio"
	defaultVersion         = "0.1.0"
	defaultServicePort     = 8080
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultSessionTTL      = 24 * time.Hour
	defaultStaticDir       = "./static"

	defaultDatabasePath = "portfolio.db"

	defaultGitHubBaseURL = "https://api.github.com"
	defaultGitHubPerPage = 100

	defaultMetricsInterval = 5 * time.Minute
	defaultFetchTimeout    = 10 * time.Second
	defaultActiveDayWindow = 50
	defaultCommitWindow    = 30 * 24 * time.Hour

	defaultBufferSize     = 500
	defaultFlushInterval  = 2 * time.Second
	defaultFlushThreshold = 100
	defaultRetention      = 365 * 24 * time.Hour

	defaultContactDelay = 1500 * time.Millisecond

	defaultAdminUsername = "admin"

	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "json"

	maxPort = 65535
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	GitHub    GitHubConfig    `yaml:"github"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Contact   ContactConfig   `yaml:"contact"`
	Admin     AdminConfig     `yaml:"admin"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name            string        `yaml:"name"`
	Version         string        `yaml:"version"`
	Port            int           `env:"PORT"      yaml:"port"`
	Debug           bool          `env:"APP_DEBUG" yaml:"debug"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SessionTTL      time.Duration `env:"SESSION_TTL" yaml:"session_ttl"`
	StaticDir       string        `env:"STATIC_DIR"  yaml:"static_dir"`
}

// DatabaseConfig holds the sqlite database location.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH" yaml:"path"`
}

// GitHubConfig configures the public events feed.
type GitHubConfig struct {
	// Actor overrides the account derived from the profile's GitHub link.
	Actor   string        `env:"GITHUB_ACTOR"   yaml:"actor"`
	Token   string        `env:"GITHUB_TOKEN"   yaml:"token"`
	BaseURL string        `env:"GITHUB_API_URL" yaml:"base_url"`
	PerPage int           `yaml:"per_page"`
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig configures the live metrics refresh cycle.
type MetricsConfig struct {
	Interval        time.Duration `env:"METRICS_INTERVAL"      yaml:"interval"`
	FetchTimeout    time.Duration `env:"METRICS_FETCH_TIMEOUT" yaml:"fetch_timeout"`
	ActiveDayWindow int           `yaml:"active_day_window"`
	CommitWindow    time.Duration `yaml:"commit_window"`
}

// AnalyticsConfig configures event buffering and visitor hashing.
type AnalyticsConfig struct {
	BufferSize     int           `yaml:"buffer_size"`
	FlushInterval  time.Duration `yaml:"flush_interval"`
	FlushThreshold int           `yaml:"flush_threshold"`
	HashSalt       string        `env:"ANALYTICS_HASH_SALT" yaml:"hash_salt"`
	Retention      time.Duration `yaml:"retention"`
}

// ContactConfig configures the simulated contact form submission.
type ContactConfig struct {
	Delay time.Duration `env:"CONTACT_DELAY" yaml:"delay"`
}

// AdminConfig holds the admin area credentials.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" yaml:"username"`
	Password string `env:"ADMIN_PASSWORD" yaml:"password"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Address returns the listen address for the HTTP server.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

func setDefaults(cfg *Config) {
	setServerDefaults(&cfg.Server)
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
	setGitHubDefaults(&cfg.GitHub)
	setMetricsDefaults(&cfg.Metrics)
	setAnalyticsDefaults(&cfg.Analytics)
	if cfg.Contact.Delay == 0 {
		cfg.Contact.Delay = defaultContactDelay
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = defaultAdminUsername
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLoggingFormat
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = defaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownTimeout
	}
	if s.SessionTTL == 0 {
		s.SessionTTL = defaultSessionTTL
	}
	if s.StaticDir == "" {
		s.StaticDir = defaultStaticDir
	}
}

func setGitHubDefaults(g *GitHubConfig) {
	if g.BaseURL == "" {
		g.BaseURL = defaultGitHubBaseURL
	}
	if g.PerPage == 0 {
		g.PerPage = defaultGitHubPerPage
	}
	if g.Timeout == 0 {
		g.Timeout = defaultFetchTimeout
	}
}

func setMetricsDefaults(m *MetricsConfig) {
	if m.Interval == 0 {
		m.Interval = defaultMetricsInterval
	}
	if m.FetchTimeout == 0 {
		m.FetchTimeout = defaultFetchTimeout
	}
	if m.ActiveDayWindow == 0 {
		m.ActiveDayWindow = defaultActiveDayWindow
	}
	if m.CommitWindow == 0 {
		m.CommitWindow = defaultCommitWindow
	}
}

func setAnalyticsDefaults(a *AnalyticsConfig) {
	if a.BufferSize == 0 {
		a.BufferSize = defaultBufferSize
	}
	if a.FlushInterval == 0 {
		a.FlushInterval = defaultFlushInterval
	}
	if a.FlushThreshold == 0 {
		a.FlushThreshold = defaultFlushThreshold
	}
	if a.Retention == 0 {
		a.Retention = defaultRetention
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return &ValidationError{Field: "server.port", Message: fmt.Sprintf("must be between 1 and %d", maxPort)}
	}
	if c.Metrics.Interval < 0 {
		return &ValidationError{Field: "metrics.interval", Message: "must be positive"}
	}
	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > defaultGitHubPerPage {
		return &ValidationError{Field: "github.per_page", Message: "must be between 1 and 100"}
	}
	if c.Metrics.ActiveDayWindow < 1 {
		return &ValidationError{Field: "metrics.active_day_window", Message: "must be positive"}
	}
	if c.Admin.Password == "" && !c.Server.Debug {
		return &ValidationError{Field: "admin.password", Message: "is required outside debug mode"}
	}
	return nil
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}
