// Package config provides configuration types and defaults for typingtips.
package config

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bbtyping/go-typingtips/hub"
	"github.com/bbtyping/go-typingtips/store"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix of environment variables overriding configuration keys, e.g. TYPINGTIPS_SERVICE_BASE_URL.
const EnvPrefix = "TYPINGTIPS"

// Config holds all configuration options.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Store   StoreConfig   `mapstructure:"store"`
	Render  RenderConfig  `mapstructure:"render"`
}

// ServiceConfig locates the typing tips service.
type ServiceConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig configures tip stream caching. An empty Dir disables the disk cache.
type CacheConfig struct {
	Dir string        `mapstructure:"dir"`
	TTL time.Duration `mapstructure:"ttl"`
}

// StoreConfig locates the last-used content file.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RenderConfig configures terminal output.
type RenderConfig struct {
	ShowHint bool `mapstructure:"show_hint"`
	Width    int  `mapstructure:"width"` // 0 disables wrapping
}

// DefaultCacheDir returns the tip stream cache directory under the user cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "typingtips")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL: hub.DefaultBaseURL,
			Path:    hub.DefaultPath,
			Timeout: hub.DefaultTimeout,
		},
		Cache: CacheConfig{
			Dir: DefaultCacheDir(),
			TTL: hub.DefaultTTL,
		},
		Store: StoreConfig{
			Path: store.DefaultPath(),
		},
		Render: RenderConfig{
			ShowHint: true,
		},
	}
}

// SetDefaults registers Defaults in v, so that every key is known to v even without a config file.
func SetDefaults(v *viper.Viper) {
	defaults := Defaults()
	v.SetDefault("service.base_url", defaults.Service.BaseURL)
	v.SetDefault("service.path", defaults.Service.Path)
	v.SetDefault("service.timeout", defaults.Service.Timeout)
	v.SetDefault("cache.dir", defaults.Cache.Dir)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("render.show_hint", defaults.Render.ShowHint)
	v.SetDefault("render.width", defaults.Render.Width)
}

// Load reads the configuration from v, which must have been set up with SetDefaults.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Service.BaseURL == "" {
		return errors.Errorf("service.base_url must be set")
	}
	if c.Service.Timeout < 0 {
		return errors.Errorf("service.timeout must not be negative, got %s", c.Service.Timeout)
	}
	if c.Store.Path == "" {
		return errors.Errorf("store.path must be set")
	}
	if c.Render.Width < 0 {
		return errors.Errorf("render.width must not be negative, got %d", c.Render.Width)
	}
	return nil
}

// NewClient creates the hub.Client described by the configuration.
func (c Config) NewClient() *hub.Client {
	client := hub.New(c.Service.BaseURL).
		WithPath(c.Service.Path).
		WithCacheDir(c.Cache.Dir).
		WithTTL(c.Cache.TTL)
	if c.Service.Timeout > 0 {
		client.WithHTTPClient(&http.Client{Timeout: c.Service.Timeout})
	}
	return client
}
