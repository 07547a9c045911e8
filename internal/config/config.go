package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is optional: without it the server runs stateless, serving drills
// with no SRS schedule.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// CatalogConfig contains forms-catalog settings.
type CatalogConfig struct {
	// DefaultRegion is the dialect used when a request does not name one.
	DefaultRegion string `mapstructure:"default_region" validate:"required,oneof=la_general rioplatense peninsular"`
}

// GeminiConfig contains all Gemini integration related settings.
// An empty APIKey disables the adaptive recommender; selection then falls
// back to the curriculum recommender.
type GeminiConfig struct {
	APIKey            string `mapstructure:"api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}
