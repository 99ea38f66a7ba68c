package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete storefront configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Health  HealthConfig  `yaml:"health" json:"health"`
	Theme   ThemeConfig   `yaml:"theme" json:"theme"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// CatalogConfig selects the catalog file.
type CatalogConfig struct {
	// Path is a JSON or YAML catalog. Empty uses the built-in sample.
	// Relative paths resolve against the directory of the config file.
	Path string `yaml:"path" json:"path"`
}

// StorageConfig configures durable client state.
type StorageConfig struct {
	// Backend is "sqlite" (default), "file", or "memory".
	Backend string `yaml:"backend" json:"backend"`

	// Path is the base path without extension; the backend appends its own.
	// Defaults to ~/.storefront/state
	Path string `yaml:"path" json:"path"`

	FavoritesKey string `yaml:"favorites_key" json:"favorites_key"`
	ThemeKey     string `yaml:"theme_key" json:"theme_key"`
}

// SearchConfig configures live search.
type SearchConfig struct {
	// Debounce is the quiet window before typed input is searched.
	Debounce string `yaml:"debounce" json:"debounce"`

	// MaxResults caps results in previews and tool responses. 0 = no cap.
	MaxResults int `yaml:"max_results" json:"max_results"`

	// CacheSize bounds the per-item search text cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// HealthConfig configures the storage health probe.
type HealthConfig struct {
	Interval string `yaml:"interval" json:"interval"`

	// Watch refreshes the probe as soon as the storage file changes.
	// Nil means enabled.
	Watch *bool `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// ThemeConfig configures the ambient theme preference.
type ThemeConfig struct {
	// PreferDark is "auto" (ask the terminal), "dark", or "light".
	PreferDark string `yaml:"prefer_dark" json:"prefer_dark"`
}

// ServerConfig configures logging and the tool server.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{
			Backend:      "sqlite",
			Path:         filepath.Join(DefaultDataDir(), "state"),
			FavoritesKey: "abou3yta.favorites",
			ThemeKey:     "abou3yta.theme",
		},
		Search: SearchConfig{
			Debounce:   "200ms",
			MaxResults: 5,
			CacheSize:  1024,
		},
		Health: HealthConfig{
			Interval: "1s",
		},
		Theme: ThemeConfig{
			PreferDark: "auto",
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// DefaultDataDir returns ~/.storefront, where state and logs live.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".storefront")
	}
	return filepath.Join(home, ".storefront")
}

// GetUserConfigPath returns the path to the user-level config file.
// Uses $XDG_CONFIG_HOME/storefront/config.yaml, falling back to
// ~/.config/storefront/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "storefront", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "storefront", "config.yaml")
	}
	return filepath.Join(home, ".config", "storefront", "config.yaml")
}

// Load reads configuration with precedence, lowest to highest:
// defaults, user config, project .storefront.yaml in dir, STOREFRONT_* env.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userPath := GetUserConfigPath()
	if fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ProjectConfigPath returns the project config in dir, or "" if none exists.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{".storefront.yaml", ".storefront.yml"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func (c *Config) loadFromFile(dir string) error {
	if p := ProjectConfigPath(dir); p != "" {
		return c.loadYAML(p)
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	if parsed.Catalog.Path != "" && !filepath.IsAbs(parsed.Catalog.Path) {
		parsed.Catalog.Path = filepath.Join(base, parsed.Catalog.Path)
	}
	if parsed.Storage.Path != "" {
		parsed.Storage.Path = expandHome(parsed.Storage.Path)
		if !filepath.IsAbs(parsed.Storage.Path) {
			parsed.Storage.Path = filepath.Join(base, parsed.Storage.Path)
		}
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays the non-zero fields of other.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Catalog.Path != "" {
		c.Catalog.Path = other.Catalog.Path
	}

	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}
	if other.Storage.FavoritesKey != "" {
		c.Storage.FavoritesKey = other.Storage.FavoritesKey
	}
	if other.Storage.ThemeKey != "" {
		c.Storage.ThemeKey = other.Storage.ThemeKey
	}

	if other.Search.Debounce != "" {
		c.Search.Debounce = other.Search.Debounce
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.CacheSize != 0 {
		c.Search.CacheSize = other.Search.CacheSize
	}

	if other.Health.Interval != "" {
		c.Health.Interval = other.Health.Interval
	}
	if other.Health.Watch != nil {
		w := *other.Health.Watch
		c.Health.Watch = &w
	}

	if other.Theme.PreferDark != "" {
		c.Theme.PreferDark = other.Theme.PreferDark
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides applies STOREFRONT_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STOREFRONT_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("STOREFRONT_STORAGE_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("STOREFRONT_STORAGE_PATH"); v != "" {
		c.Storage.Path = expandHome(v)
	}
	if v := os.Getenv("STOREFRONT_DEBOUNCE"); v != "" {
		c.Search.Debounce = v
	}
	if v := os.Getenv("STOREFRONT_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Search.MaxResults = n
		}
	}
	if v := os.Getenv("STOREFRONT_HEALTH_INTERVAL"); v != "" {
		c.Health.Interval = v
	}
	if v := os.Getenv("STOREFRONT_HEALTH_WATCH"); v != "" {
		w := parseBool(v)
		c.Health.Watch = &w
	}
	if v := os.Getenv("STOREFRONT_PREFER_DARK"); v != "" {
		switch strings.ToLower(v) {
		case "auto":
			c.Theme.PreferDark = "auto"
		default:
			if parseBool(v) {
				c.Theme.PreferDark = "dark"
			} else {
				c.Theme.PreferDark = "light"
			}
		}
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("STOREFRONT_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "dark"
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// fileExists checks if a regular file exists.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DebounceWindow returns the parsed search debounce window.
func (c *Config) DebounceWindow() time.Duration {
	d, _ := time.ParseDuration(c.Search.Debounce)
	return d
}

// HealthInterval returns the parsed probe interval.
func (c *Config) HealthInterval() time.Duration {
	d, _ := time.ParseDuration(c.Health.Interval)
	return d
}

// WatchEnabled reports whether the probe watches the storage file.
func (c *Config) WatchEnabled() bool {
	return c.Health.Watch == nil || *c.Health.Watch
}

// PreferDark resolves the ambient preference. ok is false for "auto",
// meaning the caller should ask the terminal.
func (c *Config) PreferDark() (dark bool, ok bool) {
	switch strings.ToLower(c.Theme.PreferDark) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	return false, false
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	validBackends := map[string]bool{"sqlite": true, "file": true, "memory": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		return fmt.Errorf("storage.backend must be 'sqlite', 'file', or 'memory', got %s", c.Storage.Backend)
	}
	if c.Storage.Path == "" && strings.ToLower(c.Storage.Backend) != "memory" {
		return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
	}
	if c.Storage.FavoritesKey == "" || c.Storage.ThemeKey == "" {
		return fmt.Errorf("storage.favorites_key and storage.theme_key must not be empty")
	}
	if c.Storage.FavoritesKey == c.Storage.ThemeKey {
		return fmt.Errorf("storage.favorites_key and storage.theme_key must differ, both are %s", c.Storage.ThemeKey)
	}

	d, err := time.ParseDuration(c.Search.Debounce)
	if err != nil {
		return fmt.Errorf("search.debounce must be a duration (e.g. 200ms), got %s", c.Search.Debounce)
	}
	if d <= 0 {
		return fmt.Errorf("search.debounce must be positive, got %s", c.Search.Debounce)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("max_results must be non-negative, got %d", c.Search.MaxResults)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", c.Search.CacheSize)
	}

	iv, err := time.ParseDuration(c.Health.Interval)
	if err != nil {
		return fmt.Errorf("health.interval must be a duration (e.g. 1s), got %s", c.Health.Interval)
	}
	if iv < 100*time.Millisecond {
		return fmt.Errorf("health.interval must be at least 100ms, got %s", c.Health.Interval)
	}

	validPrefs := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validPrefs[strings.ToLower(c.Theme.PreferDark)] {
		return fmt.Errorf("theme.prefer_dark must be 'auto', 'dark', or 'light', got %s", c.Theme.PreferDark)
	}

	validTransports := map[string]bool{"stdio": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
