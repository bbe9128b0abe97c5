package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	OpenAI OpenAIConfig
	Image  ImageConfig
	Fetch  FetchConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// OpenAIConfig holds credentials and model selection for the extraction API
type OpenAIConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	PromptPath string        `mapstructure:"prompt_path"`
}

// ImageConfig holds the compression target and loop tunables.
// The loop constants are deliberately configuration, not contract.
type ImageConfig struct {
	MaxSizeMB          float64 `mapstructure:"max_size_mb"`
	StartQuality       int     `mapstructure:"start_quality"`
	QualityStep        int     `mapstructure:"quality_step"`
	QualityFloor       int     `mapstructure:"quality_floor"`
	DownscaleRatio     float64 `mapstructure:"downscale_ratio"`
	MaxDownscaleRounds int     `mapstructure:"max_downscale_rounds"`
	MinDimension       int     `mapstructure:"min_dimension"`
}

// MaxSizeBytes returns the compression target in bytes
func (c *ImageConfig) MaxSizeBytes() int {
	return int(c.MaxSizeMB * 1024 * 1024)
}

// Validate checks the compression tunables for internally consistent values
func (c *ImageConfig) Validate() error {
	if c.MaxSizeMB <= 0 {
		return errors.New("image.max_size_mb must be positive")
	}
	if c.StartQuality < 1 || c.StartQuality > 100 {
		return errors.New("image.start_quality must be between 1 and 100")
	}
	if c.QualityFloor < 1 || c.QualityFloor > c.StartQuality {
		return errors.New("image.quality_floor must be between 1 and start_quality")
	}
	if c.QualityStep < 1 {
		return errors.New("image.quality_step must be at least 1")
	}
	if c.DownscaleRatio <= 0 || c.DownscaleRatio >= 1 {
		return errors.New("image.downscale_ratio must be between 0 and 1 exclusive")
	}
	if c.MaxDownscaleRounds < 0 {
		return errors.New("image.max_downscale_rounds cannot be negative")
	}
	if c.MinDimension < 1 {
		return errors.New("image.min_dimension must be at least 1")
	}
	return nil
}

// FetchConfig holds limits for downloading images from remote URLs
type FetchConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxBytes int64         `mapstructure:"max_bytes"`
}

// Load loads configuration from environment and config files.
// This function applies development defaults and is suitable for local development.
// For production use, prefer LoadWithValidation which enforces required configuration.
func Load(serviceName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("PRESCRIPTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/prescription-ai")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithValidation loads configuration and validates it for the current environment.
// In production/staging environments, this will fail if required configuration is missing.
// Use this function in service main() for fail-fast behavior.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := Load(serviceName)
	if err != nil {
		return nil, err
	}

	if err := cfg.Image.Validate(); err != nil {
		return nil, fmt.Errorf("image configuration error: %w", err)
	}

	if cfg.Server.Environment == EnvProduction || cfg.Server.Environment == EnvStaging {
		if cfg.OpenAI.APIKey == "" {
			return nil, errors.New("PRESCRIPTION_OPENAI_API_KEY must be set in " + cfg.Server.Environment)
		}
		if cfg.OpenAI.Model == "" {
			return nil, errors.New("PRESCRIPTION_OPENAI_MODEL must be set in " + cfg.Server.Environment)
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost:3001",
		"http://localhost:3002",
		"http://localhost:3003",
	})
	v.SetDefault("server.max_upload_bytes", int64(20<<20))

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout", 2*time.Minute)
	v.SetDefault("openai.prompt_path", "")

	// Image compression defaults
	v.SetDefault("image.max_size_mb", 0.5)
	v.SetDefault("image.start_quality", 95)
	v.SetDefault("image.quality_step", 5)
	v.SetDefault("image.quality_floor", 10)
	v.SetDefault("image.downscale_ratio", 0.9)
	v.SetDefault("image.max_downscale_rounds", 5)
	v.SetDefault("image.min_dimension", 200)

	// Remote fetch defaults
	v.SetDefault("fetch.timeout", 10*time.Second)
	v.SetDefault("fetch.max_bytes", int64(20<<20))
}
