package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// SkuPlaceholder is replaced by the product code in SkuImagesS3URL
const SkuPlaceholder = "%sku%"

// Database drivers accepted in DatabaseConfig.Driver
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Duration decodes TOML strings such as "5s" into a time.Duration
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// Config holds the storefront configuration.
// It is loaded once at start-up and passed to constructors; nothing mutates
// it afterwards.
type Config struct {
	Env            string          `toml:"env"`
	CortexAPI      CortexAPIConfig `toml:"cortex_api"`
	SkuImagesS3URL string          `toml:"sku_images_s3_url"`
	Server         ServerConfig    `toml:"server"`
	Database       DatabaseConfig  `toml:"database"`
	Session        SessionConfig   `toml:"session"`
	Images         ImagesConfig    `toml:"images"`
	Catalog        CatalogConfig   `toml:"catalog"`
	Payments       PaymentsConfig  `toml:"payments"`
	I18n           I18nConfig      `toml:"i18n"`
}

// CortexAPIConfig locates the commerce API
type CortexAPIConfig struct {
	Path    string   `toml:"path"`
	Scope   string   `toml:"scope"`
	Timeout Duration `toml:"timeout"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port string `toml:"port"`
	// BaseURL is the public address of this storefront, used by the snapshot tool
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig configures the session token store. An empty URL keeps
// tokens in memory.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	URL    string `toml:"url"`
}

// SessionConfig bounds how long an idle session keeps its stored tokens
type SessionConfig struct {
	TokenTTL      Duration `toml:"token_ttl"`
	PruneInterval Duration `toml:"prune_interval"`
}

// ImagesConfig configures SKU image delivery
type ImagesConfig struct {
	Proxy    bool   `toml:"proxy"`
	CacheDir string `toml:"cache_dir"`
}

// CatalogConfig bounds product grid loading
type CatalogConfig struct {
	ItemFetchLimit   int      `toml:"item_fetch_limit"`
	ItemFetchTimeout Duration `toml:"item_fetch_timeout"`
	// HomeCategories are the navigation ids linked from the home page
	HomeCategories []string `toml:"home_categories"`
}

// PaymentsConfig configures the local card tokenizer
type PaymentsConfig struct {
	TokenizerSecret string `toml:"tokenizer_secret"`
}

// I18nConfig selects the message catalog
type I18nConfig struct {
	Locale string `toml:"locale"`
}

// Default returns the configuration used when no file or env overrides exist
func Default() *Config {
	return &Config{
		Env: "development",
		CortexAPI: CortexAPIConfig{
			Path:    "http://localhost:9080/cortex",
			Scope:   "vestri",
			Timeout: Duration{15 * time.Second},
		},
		SkuImagesS3URL: "https://s3.amazonaws.com/referenceexp/commerce-assets/%sku%.jpg",
		Server: ServerConfig{
			Port:    "8080",
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
		},
		Session: SessionConfig{
			TokenTTL:      Duration{24 * time.Hour},
			PruneInterval: Duration{time.Hour},
		},
		Images: ImagesConfig{
			CacheDir: "cache/images",
		},
		Catalog: CatalogConfig{
			ItemFetchLimit:   8,
			ItemFetchTimeout: Duration{5 * time.Second},
		},
		I18n: I18nConfig{
			Locale: "en-CA",
		},
	}
}

// Load reads the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment (or a .env file) win over the file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("CORTEX_API_PATH"); v != "" {
		c.CortexAPI.Path = v
	}
	if v := os.Getenv("CORTEX_API_SCOPE"); v != "" {
		c.CortexAPI.Scope = v
	}
	if v := os.Getenv("SKU_IMAGES_S3_URL"); v != "" {
		c.SkuImagesS3URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		// PORT from some hosts comes with a leading colon
		c.Server.Port = strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
		if strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://") {
			c.Database.Driver = DriverPostgres
		}
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("TOKENIZER_SECRET"); v != "" {
		c.Payments.TokenizerSecret = v
	}
	if v := os.Getenv("STOREFRONT_LOCALE"); v != "" {
		c.I18n.Locale = v
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if c.CortexAPI.Path == "" {
		errs = append(errs, errors.New("cortex_api.path is required"))
	}
	if c.CortexAPI.Scope == "" {
		errs = append(errs, errors.New("cortex_api.scope is required"))
	}
	if !strings.Contains(c.SkuImagesS3URL, SkuPlaceholder) {
		errs = append(errs, fmt.Errorf("sku_images_s3_url must contain %s", SkuPlaceholder))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverSQLite {
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver))
	}
	if c.Catalog.ItemFetchLimit <= 0 {
		errs = append(errs, errors.New("catalog.item_fetch_limit must be greater than 0"))
	}
	if c.Catalog.ItemFetchTimeout.Duration <= 0 {
		errs = append(errs, errors.New("catalog.item_fetch_timeout must be positive"))
	}
	if c.CortexAPI.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("cortex_api.timeout must be positive"))
	}
	if c.Session.TokenTTL.Duration <= 0 {
		errs = append(errs, errors.New("session.token_ttl must be positive"))
	}
	if c.Session.PruneInterval.Duration <= 0 {
		errs = append(errs, errors.New("session.prune_interval must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the storefront runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// TokenStorageKey is the key under which a session's OAuth token is stored
func (c CortexAPIConfig) TokenStorageKey() string {
	return c.Scope + "_oAuthToken"
}
