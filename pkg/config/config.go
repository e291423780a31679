package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	appName   = "carddex"
	envPrefix = "CARDDEX"

	DefaultListingURL = "https://www.db.yugioh-card.com/yugiohdb/card_list.action?clm=1&wname=CardSearch"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config holds every runtime option. Zero MaxPacks and MultiLimit mean unlimited.
type Config struct {
	CacheFile      string        `mapstructure:"cache_file"`
	PackURLsFile   string        `mapstructure:"pack_urls_file"`
	ListingURL     string        `mapstructure:"main_search_page_url"`
	MaxPacks       int           `mapstructure:"max_packs_to_scrape"`
	UserAgent      string        `mapstructure:"user_agent"`
	SingleCutoff   int           `mapstructure:"fuzzy_score_cutoff_single"`
	MultiCutoff    int           `mapstructure:"fuzzy_score_cutoff_multi"`
	MultiLimit     int           `mapstructure:"multi_search_limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RequestPause   time.Duration `mapstructure:"request_interval"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFile        string        `mapstructure:"log_file"`
	DuckDBFile     string        `mapstructure:"duckdb_file"`
	ExportDir      string        `mapstructure:"export_dir"`
}

// DataHome returns XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// ConfigHome returns XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

func setDefaults(v *viper.Viper) {
	dataDir := filepath.Join(DataHome(), appName)

	v.SetDefault("cache_file", filepath.Join(dataDir, "card_cache.json"))
	v.SetDefault("pack_urls_file", filepath.Join(dataDir, "pack_urls.json"))
	v.SetDefault("main_search_page_url", DefaultListingURL)
	v.SetDefault("max_packs_to_scrape", 0)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("fuzzy_score_cutoff_single", 60)
	v.SetDefault("fuzzy_score_cutoff_multi", 50)
	v.SetDefault("multi_search_limit", 0)
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("request_interval", "100ms")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(dataDir, "carddex.log"))
	v.SetDefault("duckdb_file", filepath.Join(dataDir, "carddex.duckdb"))

	exportDir := filepath.Join(dataDir, "exports")
	if home, err := os.UserHomeDir(); err == nil {
		exportDir = filepath.Join(home, "Downloads")
	}
	v.SetDefault("export_dir", exportDir)
}

// Load reads defaults, then the config file, then the environment.
// An explicit path must exist; the default location is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(ConfigHome(), appName))
	}

	// CARDDEX_CACHE_FILE wins over CACHE_FILE
	for _, key := range v.AllKeys() {
		env := strings.ToUpper(key)
		if err := v.BindEnv(key, envPrefix+"_"+env, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SingleCutoff < 0 || c.SingleCutoff > 100 {
		return fmt.Errorf("fuzzy_score_cutoff_single must be between 0 and 100, got %d", c.SingleCutoff)
	}
	if c.MultiCutoff < 0 || c.MultiCutoff > 100 {
		return fmt.Errorf("fuzzy_score_cutoff_multi must be between 0 and 100, got %d", c.MultiCutoff)
	}
	if c.MaxPacks < 0 {
		return fmt.Errorf("max_packs_to_scrape cannot be negative")
	}
	if c.MultiLimit < 0 {
		return fmt.Errorf("multi_search_limit cannot be negative")
	}
	if c.RequestPause < 0 {
		return fmt.Errorf("request_interval cannot be negative")
	}
	if c.CacheFile == "" {
		return fmt.Errorf("cache_file is required")
	}
	if c.PackURLsFile == "" {
		return fmt.Errorf("pack_urls_file is required")
	}
	if c.ListingURL == "" {
		return fmt.Errorf("main_search_page_url is required")
	}
	return nil
}
