package config

import "github.com/kelseyhightower/envconfig"

// Config holds server configuration loaded from environment variables.
type Config struct {
	Port               int      `envconfig:"PORT" default:"8080"`
	LogLevel           string   `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL        string   `envconfig:"DATABASE_URL" required:"true"`
	Version            string   `envconfig:"VERSION" default:"dev"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	SearchLimit        int      `envconfig:"SEARCH_LIMIT" default:"50"`
	AutoMigrate        bool     `envconfig:"AUTO_MIGRATE" default:"true"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
