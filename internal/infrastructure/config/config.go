// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Nutritionix NutritionixConfig `mapstructure:"nutritionix"`
	AI          AIConfig          `mapstructure:"ai"`
	Enrichment  EnrichmentConfig  `mapstructure:"enrichment"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"`
}

// NutritionixConfig contains the external nutrition provider
// credentials. Empty credentials disable the provider tier.
type NutritionixConfig struct {
	AppID   string        `mapstructure:"app_id"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AIConfig contains the generative model configuration. An empty API
// key disables the generative tiers.
type AIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	DailyQuota  int           `mapstructure:"daily_quota"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	CacheSize   int           `mapstructure:"cache_size"`
}

// EnrichmentConfig contains pipeline tuning knobs
type EnrichmentConfig struct {
	// ScoreThreshold is the minimum combined confidence below which a
	// parsed line is escalated to the generative parser
	ScoreThreshold float64 `mapstructure:"score_threshold"`

	// FuzzThreshold is the minimum token-sort similarity for a fuzzy
	// catalog match
	FuzzThreshold int `mapstructure:"fuzz_threshold"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/forage")
	}

	v.SetEnvPrefix("FORAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "forage")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Database defaults
	v.SetDefault("database.path", "forage.db")
	v.SetDefault("database.log_level", "warn")

	// Nutritionix defaults
	v.SetDefault("nutritionix.base_url", "https://trackapi.nutritionix.com")
	v.SetDefault("nutritionix.timeout", "10s")

	// AI defaults
	v.SetDefault("ai.base_url", "https://api.together.xyz")
	v.SetDefault("ai.model", "meta-llama/Llama-3.3-70B-Instruct-Turbo-Free")
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max_tokens", 300)
	v.SetDefault("ai.timeout", "30s")
	v.SetDefault("ai.daily_quota", 200)
	v.SetDefault("ai.cache_ttl", "24h")
	v.SetDefault("ai.cache_size", 1000)

	// Enrichment defaults
	v.SetDefault("enrichment.score_threshold", 80)
	v.SetDefault("enrichment.fuzz_threshold", 70)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Enrichment.ScoreThreshold < 0 || c.Enrichment.ScoreThreshold > 100 {
		return fmt.Errorf("enrichment.score_threshold must be between 0 and 100")
	}
	if c.Enrichment.FuzzThreshold < 0 || c.Enrichment.FuzzThreshold > 100 {
		return fmt.Errorf("enrichment.fuzz_threshold must be between 0 and 100")
	}
	if c.AI.DailyQuota < 0 {
		return fmt.Errorf("ai.daily_quota must not be negative")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
