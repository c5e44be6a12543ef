package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	TrialSearch  TrialSearchConfig
	Geocoding    GeocodingConfig
	Matching     MatchingConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig selects the durable slot-store backend.
type StorageConfig struct {
	Type string // redis | postgres | memory
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TrialSearchConfig struct {
	BaseURL string
}

type GeocodingConfig struct {
	APIKey string
}

// MatchingConfig tunes the ranker and the cross-process staleness poll.
type MatchingConfig struct {
	MinScore              float64
	BandWidth             float64
	EnforceDistanceCutoff bool
	PollInterval          time.Duration
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("STORAGE_TYPE", "redis")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("MATCH_MIN_SCORE", 0.4)
	viper.SetDefault("MATCH_BAND_WIDTH", 0.2)
	viper.SetDefault("MATCH_ENFORCE_DISTANCE_CUTOFF", true)
	viper.SetDefault("MATCH_POLL_INTERVAL_MS", 500)

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Type: viper.GetString("STORAGE_TYPE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		TrialSearch: TrialSearchConfig{
			BaseURL: viper.GetString("TRIAL_SEARCH_BASE_URL"),
		},
		Geocoding: GeocodingConfig{
			APIKey: viper.GetString("GOOGLE_MAPS_API_KEY"),
		},
		Matching: MatchingConfig{
			MinScore:              viper.GetFloat64("MATCH_MIN_SCORE"),
			BandWidth:             viper.GetFloat64("MATCH_BAND_WIDTH"),
			EnforceDistanceCutoff: viper.GetBool("MATCH_ENFORCE_DISTANCE_CUTOFF"),
			PollInterval:          time.Duration(viper.GetInt("MATCH_POLL_INTERVAL_MS")) * time.Millisecond,
		},
		GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.TrialSearch.BaseURL == "" {
		return fmt.Errorf("trial search base URL is required")
	}

	switch c.Storage.Type {
	case "redis":
		if c.Redis.Host == "" {
			return fmt.Errorf("redis host is required for redis storage")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for postgres storage")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required for postgres storage")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required for postgres storage")
		}
	case "memory":
		// Nothing to validate; state is lost on restart.
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	if c.Matching.MinScore < 0 || c.Matching.MinScore > 1 {
		return fmt.Errorf("match min score must be in [0,1]")
	}
	if c.Matching.BandWidth < 0 {
		return fmt.Errorf("match band width must be non-negative")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
