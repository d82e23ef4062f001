package inkwell

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/eringen/inkwell/content"
)

// Content drivers.
const (
	DriverDir    = "dir"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for an inkwell site. It is read from a
// TOML file, then environment variables override individual fields.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Site    SiteConfig    `toml:"site"`
	Content ContentConfig `toml:"content"`
	API     APIConfig     `toml:"api"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`             // Listen address (default ":3000")
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"` // Graceful shutdown budget (default 5s)
}

type SiteConfig struct {
	URL       string `toml:"url"`        // Public site URL; falls back to settings.siteUrl
	PublicDir string `toml:"public_dir"` // Static assets, used to inspect feed images (default "public")
}

type ContentConfig struct {
	Driver       string        `toml:"driver"`        // "dir" or "sqlite" (default "dir")
	Dir          string        `toml:"dir"`           // Content root for the dir driver (default "content")
	DatabasePath string        `toml:"database_path"` // SQLite path (default "data/content.db")
	CacheTTL     time.Duration `toml:"cache_ttl"`     // 0 re-reads the source on every request
	Watch        bool          `toml:"watch"`         // Invalidate the cache when the content dir changes
}

type APIConfig struct {
	Key                   string `toml:"key"`                      // Required: shared API secret
	MaxPerPage            int    `toml:"max_per_page"`             // perPage cap (default 100)
	AuthFailuresPerMinute int    `toml:"auth_failures_per_minute"` // per-IP failed auth budget (default 20)
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error (default "info")
	Format string `toml:"format"` // "json" or "console" (default "json")
}

// DefaultConfig returns the configuration used for keys a config file
// leaves out.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":3000", ShutdownTimeout: 5 * time.Second},
		Site:   SiteConfig{PublicDir: "public"},
		Content: ContentConfig{
			Driver:       DriverDir,
			Dir:          "content",
			DatabasePath: "data/content.db",
			CacheTTL:     5 * time.Minute,
			Watch:        true,
		},
		API: APIConfig{MaxPerPage: 100, AuthFailuresPerMinute: 20},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig reads the TOML file at path over DefaultConfig and applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("inkwell: read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("inkwell: unknown config key %q in %s", undecoded[0].String(), path)
		}
	}
	cfg.applyEnv()
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.API.Key = EnvOr("INKWELL_API_KEY", c.API.Key)
	c.Site.URL = EnvOr("INKWELL_SITE_URL", c.Site.URL)
	c.Server.Addr = EnvOr("INKWELL_ADDR", c.Server.Addr)
	c.Content.Dir = EnvOr("INKWELL_CONTENT_DIR", c.Content.Dir)
}

func (c *Config) setDefaults() {
	d := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Site.PublicDir == "" {
		c.Site.PublicDir = d.Site.PublicDir
	}
	if c.Content.Driver == "" {
		c.Content.Driver = d.Content.Driver
	}
	if c.Content.Dir == "" {
		c.Content.Dir = d.Content.Dir
	}
	if c.Content.DatabasePath == "" {
		c.Content.DatabasePath = d.Content.DatabasePath
	}
	if c.Content.CacheTTL < 0 {
		c.Content.CacheTTL = 0
	}
	if c.API.MaxPerPage <= 0 {
		c.API.MaxPerPage = d.API.MaxPerPage
	}
	if c.API.AuthFailuresPerMinute <= 0 {
		c.API.AuthFailuresPerMinute = d.API.AuthFailuresPerMinute
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
}

// Validate reports configuration that cannot serve requests.
func (c Config) Validate() error {
	var errs []error
	if c.API.Key == "" {
		errs = append(errs, errors.New("api.key (or INKWELL_API_KEY) is required"))
	}
	switch c.Content.Driver {
	case DriverDir, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("content.driver must be %q or %q, got %q", DriverDir, DriverSQLite, c.Content.Driver))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"json\" or \"console\", got %q", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("inkwell: invalid config: %w", err)
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the logger (default zap.NewNop).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSource serves content from src instead of the configured driver.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.Source = src
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
