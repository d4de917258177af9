package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

// Config holds the complete viewer configuration, loadable from environment
// variables (CATALOG_ prefix), flags, a .env file, or YAML config files.
type Config struct {
	Catalog   CatalogConfig
	Search    SearchConfig
	Log       LogConfig
	AltScreen bool `default:"true" usage:"Render in the terminal's alternate screen" flag:"alt-screen"`
}

// CatalogConfig controls the remote product catalog client.
type CatalogConfig struct {
	BaseURL   string        `default:"https://dummyjson.com" usage:"Catalog API root URL" flag:"base-url"`
	Timeout   time.Duration `default:"10s" usage:"Per-request timeout"`
	RateLimit float64       `default:"5" usage:"Max catalog requests per second (0 disables)" flag:"rate-limit"`
	Burst     int           `default:"5" usage:"Catalog request burst size"`
}

// SearchConfig controls the product search box.
type SearchConfig struct {
	Debounce time.Duration `default:"1s" usage:"Quiet period before a search term is applied"`
}

// LogConfig controls the file logger. The terminal is owned by the UI, so
// logs never go to stdout or stderr.
type LogConfig struct {
	Path  string `default:"catalog-viewer.log" usage:"Log file path"`
	Level string `default:"info" usage:"Log level (debug, info, warn, error)"`
}

// LoadConfig loads configuration from an optional .env file, environment
// variables, YAML config files, and command-line flags.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{Files: configFiles()})
}

func loadConfig(base aconfig.Config) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	base.EnvPrefix = "CATALOG"
	base.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, base)
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configFiles() []string {
	files := []string{"catalog.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "catalog-viewer", "config.yaml"))
	}
	return files
}

func (c *Config) validate() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog base URL is required: set CATALOG_CATALOG_BASE_URL")
	}
	if c.Catalog.Timeout <= 0 {
		return errors.Errorf("catalog timeout must be positive, got %s", c.Catalog.Timeout)
	}
	if c.Catalog.RateLimit < 0 {
		return errors.Errorf("catalog rate limit must not be negative, got %v", c.Catalog.RateLimit)
	}
	if c.Search.Debounce < 0 {
		return errors.Errorf("search debounce must not be negative, got %s", c.Search.Debounce)
	}
	return nil
}
