package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sunscout/api/internal/scoring"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Scoring  ScoringConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// ScoringConfig holds the scoring engine tunables plus the batch worker
// count. The engine config is validated here at load time; an invalid one is
// fatal to startup, so scoring code never re-checks it.
type ScoringConfig struct {
	Engine  scoring.Config
	Workers int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	defaults := scoring.DefaultConfig()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "sunscout")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")

	v.SetDefault("SCORING_WORKERS", scoring.DefaultBatchWorkers)
	v.SetDefault("SCORING_WEIGHT_BILL", defaults.Weights.BillSize)
	v.SetDefault("SCORING_WEIGHT_ROOF", defaults.Weights.RoofSuitability)
	v.SetDefault("SCORING_WEIGHT_PROPERTY", defaults.Weights.PropertyValue)
	v.SetDefault("SCORING_WEIGHT_METERING", defaults.Weights.NetMetering)
	v.SetDefault("SCORING_WEIGHT_HOMEOWNER", defaults.Weights.Homeowner)
	v.SetDefault("SCORING_MIN_BILL", defaults.MinQualifyingBill)
	v.SetDefault("SCORING_SATURATION_BILL", defaults.SaturationBill)
	v.SetDefault("SCORING_REGIONAL_MEDIAN_VALUE", defaults.RegionalMedianValue)
	v.SetDefault("SCORING_BOUNDARY_EXCELLENT", defaults.Boundaries.Excellent)
	v.SetDefault("SCORING_BOUNDARY_GOOD", defaults.Boundaries.Good)
	v.SetDefault("SCORING_BOUNDARY_AVERAGE", defaults.Boundaries.Average)
	v.SetDefault("SCORING_BOUNDARY_POOR", defaults.Boundaries.Poor)

	// Bind environment variables
	v.AutomaticEnv()

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Scoring: ScoringConfig{
			Workers: v.GetInt("SCORING_WORKERS"),
			Engine: scoring.Config{
				Weights: scoring.Weights{
					BillSize:        v.GetFloat64("SCORING_WEIGHT_BILL"),
					RoofSuitability: v.GetFloat64("SCORING_WEIGHT_ROOF"),
					PropertyValue:   v.GetFloat64("SCORING_WEIGHT_PROPERTY"),
					NetMetering:     v.GetFloat64("SCORING_WEIGHT_METERING"),
					Homeowner:       v.GetFloat64("SCORING_WEIGHT_HOMEOWNER"),
				},
				MinQualifyingBill:   v.GetFloat64("SCORING_MIN_BILL"),
				SaturationBill:      v.GetFloat64("SCORING_SATURATION_BILL"),
				RegionalMedianValue: v.GetFloat64("SCORING_REGIONAL_MEDIAN_VALUE"),
				Boundaries: scoring.Boundaries{
					Excellent: v.GetInt("SCORING_BOUNDARY_EXCELLENT"),
					Good:      v.GetInt("SCORING_BOUNDARY_GOOD"),
					Average:   v.GetInt("SCORING_BOUNDARY_AVERAGE"),
					Poor:      v.GetInt("SCORING_BOUNDARY_POOR"),
				},
			},
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Scoring.Workers < 1 {
		return fmt.Errorf("SCORING_WORKERS must be at least 1")
	}

	// Scoring engine invariants: weights summing to 1.0 and strictly
	// descending category boundaries. Checked once here so no batch ever
	// starts on a bad config.
	if err := c.Scoring.Engine.Validate(); err != nil {
		return err
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
