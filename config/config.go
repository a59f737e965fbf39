package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// EnvPrefix prefixes environment overrides, e.g. VLBGO_VLB_TOKEN
const EnvPrefix = "VLBGO"

// Load loads the configuration from file and environment
func Load(configPath string) (*Config, error) {
	return load(configPath, ".env")
}

func load(configPath, envFile string) (*Config, error) {
	// Credentials are commonly kept in a .env file next to the binary
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading %s: %w", envFile, err)
		}
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".vlbgo"))
		}

		// Check /etc
		v.AddConfigPath("/etc/vlbgo/")

		// A config file is optional when the environment has the credentials
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// VLB defaults; empty credentials are registered so env overrides bind
	v.SetDefault("vlb.url", vlb.DefaultBaseURL)
	v.SetDefault("vlb.username", "")
	v.SetDefault("vlb.password", "")
	v.SetDefault("vlb.token", "")
	v.SetDefault("vlb.timeout", vlb.DefaultTimeout)
	v.SetDefault("vlb.user_agent", vlb.DefaultUserAgent)
	v.SetDefault("vlb.rate_limit", 0)
	v.SetDefault("vlb.rate_burst", 1)
	v.SetDefault("vlb.concurrency", vlb.DefaultConcurrency)

	// Search defaults
	v.SetDefault("search.page_size", vlb.MaxPageSize)
	v.SetDefault("search.status", string(vlb.StatusActive))
	v.SetDefault("search.direction", string(vlb.DirectionDesc))
	v.SetDefault("search.long_format", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.VLB.URL == "" {
		return fmt.Errorf("vlb.url is required")
	}

	if !cfg.VLB.HasToken() && (cfg.VLB.Username == "" || cfg.VLB.Password == "") {
		return fmt.Errorf("either vlb.token or vlb.username and vlb.password must be set")
	}

	if cfg.VLB.RateLimit < 0 {
		return fmt.Errorf("vlb.rate_limit must not be negative")
	}

	if cfg.VLB.Concurrency < 0 {
		return fmt.Errorf("vlb.concurrency must not be negative")
	}

	if cfg.Search.PageSize < 1 || cfg.Search.PageSize > vlb.MaxPageSize {
		return fmt.Errorf("invalid search.page_size: %d (must be between 1 and %d)", cfg.Search.PageSize, vlb.MaxPageSize)
	}

	switch vlb.Status(cfg.Search.Status) {
	case vlb.StatusActive, vlb.StatusInactive:
	default:
		return fmt.Errorf("invalid search.status: %s (must be 'active' or 'inactive')", cfg.Search.Status)
	}

	switch vlb.Direction(cfg.Search.Direction) {
	case vlb.DirectionAsc, vlb.DirectionDesc:
	default:
		return fmt.Errorf("invalid search.direction: %s (must be 'asc' or 'desc')", cfg.Search.Direction)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
