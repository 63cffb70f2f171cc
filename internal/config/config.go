package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // INTAKE_TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	Logging    LoggingConfig
	OpenAI     OpenAIConfig
	Pipeline   PipelineConfig
	Session    SessionConfig
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	Enabled            bool
	DSN                string // full connection string, preferred over the fields below
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string // model for the fallback classifier
	ChatTemperature     float64
	ChatTopP            float64
	ChatMaxTokens       int
	ChatExtraBody       string // JSON string for extra_body
	EmbeddingModel      string // model for correction memory
	EmbeddingDimensions int
	EmbeddingExtraBody  string
	BatchSize           int
	Timeout             int
	Enabled             bool
}

// PipelineConfig tunes classification and the chip workflow
type PipelineConfig struct {
	AutoConfirmThreshold  float64
	FallbackCacheSize     int
	FallbackRatePerMinute float64
	FallbackBurst         int
	CorrectionExamples    int // nearest stored corrections added to the fallback prompt
	Timezone              string
}

// SessionConfig holds live-typing session settings
type SessionConfig struct {
	DebounceMs int
	TTLMinutes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			Enabled:            getEnvAsBool("PG_ENABLED", false),
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "call_intake"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		OpenAI: OpenAIConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			APIBase:             strings.TrimRight(getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			ChatModel:           getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:     getEnvAsFloat("OPENAI_CHAT_TEMPERATURE", 0.1),
			ChatTopP:            getEnvAsFloat("OPENAI_CHAT_TOP_P", 0),
			ChatMaxTokens:       getEnvAsInt("OPENAI_CHAT_MAX_TOKENS", 512),
			ChatExtraBody:       getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: getEnvAsInt("OPENAI_EMBEDDING_DIMENSIONS", 1536),
			EmbeddingExtraBody:  getEnv("OPENAI_EMBEDDING_EXTRA_BODY", ""),
			BatchSize:           getEnvAsInt("OPENAI_BATCH_SIZE", 100),
			Timeout:             getEnvAsInt("OPENAI_TIMEOUT", 15),
			Enabled:             getEnv("OPENAI_API_KEY", "") != "",
		},
		Pipeline: PipelineConfig{
			AutoConfirmThreshold:  getEnvAsFloat("AUTO_CONFIRM_THRESHOLD", 0.8),
			FallbackCacheSize:     getEnvAsInt("FALLBACK_CACHE_SIZE", 512),
			FallbackRatePerMinute: getEnvAsFloat("FALLBACK_RATE_PER_MINUTE", 60),
			FallbackBurst:         getEnvAsInt("FALLBACK_BURST", 3),
			CorrectionExamples:    getEnvAsInt("FALLBACK_CORRECTION_EXAMPLES", 3),
			Timezone:              getEnv("INTAKE_TIMEZONE", "America/Chicago"),
		},
		Session: SessionConfig{
			DebounceMs: getEnvAsInt("DEBOUNCE_MS", 400),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Pipeline.AutoConfirmThreshold < 0 || c.Pipeline.AutoConfirmThreshold > 1 {
		return fmt.Errorf("AUTO_CONFIRM_THRESHOLD must be within [0,1], got %v", c.Pipeline.AutoConfirmThreshold)
	}
	if c.Pipeline.FallbackRatePerMinute <= 0 {
		return fmt.Errorf("FALLBACK_RATE_PER_MINUTE must be positive, got %v", c.Pipeline.FallbackRatePerMinute)
	}
	if c.Pipeline.FallbackBurst < 1 {
		return fmt.Errorf("FALLBACK_BURST must be at least 1, got %d", c.Pipeline.FallbackBurst)
	}
	if _, err := time.LoadLocation(c.Pipeline.Timezone); err != nil {
		return fmt.Errorf("INTAKE_TIMEZONE %q: %w", c.Pipeline.Timezone, err)
	}
	if c.Session.DebounceMs < 0 {
		return fmt.Errorf("DEBOUNCE_MS must not be negative, got %d", c.Session.DebounceMs)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Location returns the zone "today" is computed in. Validate has already
// checked the name, so a failure here falls back to UTC.
func (p PipelineConfig) Location() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Debounce is the input-stability pause before a live classification
func (s SessionConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// TTL is how long an idle session is kept
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Warn().Str("key", key).Float64("default", defaultValue).Msg("invalid float value, using default")
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("invalid boolean value, using default")
		return defaultValue
	}
	return value
}
