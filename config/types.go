package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	VLB     VLBConfig     `mapstructure:"vlb"`
	Search  SearchConfig  `mapstructure:"search"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// VLBConfig holds VLB API connection details
type VLBConfig struct {
	URL         string        `mapstructure:"url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	Token       string        `mapstructure:"token"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	RateBurst   int           `mapstructure:"rate_burst"`
	Concurrency int           `mapstructure:"concurrency"`
}

// HasToken reports whether a pre-issued token is configured
func (c VLBConfig) HasToken() bool {
	return c.Token != ""
}

// SearchConfig contains search defaults
type SearchConfig struct {
	PageSize   int    `mapstructure:"page_size"`
	Status     string `mapstructure:"status"`
	Direction  string `mapstructure:"direction"`
	LongFormat bool   `mapstructure:"long_format"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	DefaultExpression string            `mapstructure:"default"`
	Presets           map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
