// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret                string  `mapstructure:"JWT_SECRET"`
	JWTIssuer                string  `mapstructure:"JWT_ISSUER"`
	JWTAudience              string  `mapstructure:"JWT_AUDIENCE"`
	Port                     string  `mapstructure:"PORT"`
	DBHost                   string  `mapstructure:"DB_HOST"`
	DBPort                   string  `mapstructure:"DB_PORT"`
	DBUser                   string  `mapstructure:"DB_USER"`
	DBPassword               string  `mapstructure:"DB_PASSWORD"`
	DBName                   string  `mapstructure:"DB_NAME"`
	DBSSLMode                string  `mapstructure:"DB_SSLMODE"`
	DBReadHost               string  `mapstructure:"DB_READ_HOST"`
	DBReadPort               string  `mapstructure:"DB_READ_PORT"`
	DBReadUser               string  `mapstructure:"DB_READ_USER"`
	DBReadPassword           string  `mapstructure:"DB_READ_PASSWORD"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSlowQueryMS            int     `mapstructure:"DB_SLOW_QUERY_MS"`
	RedisURL                 string  `mapstructure:"REDIS_URL"`
	AllowedOrigins           string  `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags             string  `mapstructure:"FEATURE_FLAGS"`
	AdminAPIKey              string  `mapstructure:"ADMIN_API_KEY"`
	Env                      string  `mapstructure:"APP_ENV"`
	LogLevel                 string  `mapstructure:"LOG_LEVEL"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio       float64 `mapstructure:"TRACING_SAMPLE_RATIO"`

	Rules Rules `mapstructure:",squash"`
}

// Rules are the tunables of the state-transition engine. They are handed to
// each service at construction so tests can shrink windows and bounds.
type Rules struct {
	PostCooldown     time.Duration `mapstructure:"POST_COOLDOWN"`
	PostLiveWindow   time.Duration `mapstructure:"POST_LIVE_WINDOW"`
	PostTTL          time.Duration `mapstructure:"POST_TTL"`
	PostMinChars     int           `mapstructure:"POST_MIN_CHARS"`
	PostMaxChars     int           `mapstructure:"POST_MAX_CHARS"`
	ExpireBatchSize  int           `mapstructure:"EXPIRE_BATCH_SIZE"`
	StreakWindowDays int           `mapstructure:"STREAK_WINDOW_DAYS"`
	TxMaxAttempts    int           `mapstructure:"TX_MAX_ATTEMPTS"`
	TxInitialBackoff time.Duration `mapstructure:"TX_INITIAL_BACKOFF"`
}

// DefaultRules returns the production rule set.
func DefaultRules() Rules {
	return Rules{
		PostCooldown:     60 * time.Second,
		PostLiveWindow:   60 * time.Second,
		PostTTL:          24 * time.Hour,
		PostMinChars:     10,
		PostMaxChars:     600,
		ExpireBatchSize:  50,
		StreakWindowDays: 30,
		TxMaxAttempts:    5,
		TxInitialBackoff: 20 * time.Millisecond,
	}
}

// Validate checks that the rule set is internally consistent.
func (r Rules) Validate() error {
	switch {
	case r.PostCooldown < 0:
		return errors.New("POST_COOLDOWN must not be negative")
	case r.PostLiveWindow <= 0:
		return errors.New("POST_LIVE_WINDOW must be positive")
	case r.PostTTL < r.PostLiveWindow:
		return errors.New("POST_TTL must be at least POST_LIVE_WINDOW")
	case r.PostMinChars < 1:
		return errors.New("POST_MIN_CHARS must be at least 1")
	case r.PostMaxChars < r.PostMinChars:
		return errors.New("POST_MAX_CHARS must be greater than or equal to POST_MIN_CHARS")
	case r.ExpireBatchSize < 1:
		return errors.New("EXPIRE_BATCH_SIZE must be at least 1")
	case r.StreakWindowDays < 1:
		return errors.New("STREAK_WINDOW_DAYS must be at least 1")
	case r.TxMaxAttempts < 1:
		return errors.New("TX_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base file is optional; env vars and defaults are enough to boot.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	rules := DefaultRules()

	viper.SetDefault("PORT", "8375")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "dailyverse")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_READ_HOST", "")
	viper.SetDefault("DB_READ_PORT", "5432")
	viper.SetDefault("DB_READ_USER", "user")
	viper.SetDefault("DB_READ_PASSWORD", "password")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_SLOW_QUERY_MS", 200)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("JWT_ISSUER", "dailyverse-auth")
	viper.SetDefault("JWT_AUDIENCE", "dailyverse-app")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("ADMIN_API_KEY", "")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	viper.SetDefault("POST_COOLDOWN", rules.PostCooldown)
	viper.SetDefault("POST_LIVE_WINDOW", rules.PostLiveWindow)
	viper.SetDefault("POST_TTL", rules.PostTTL)
	viper.SetDefault("POST_MIN_CHARS", rules.PostMinChars)
	viper.SetDefault("POST_MAX_CHARS", rules.PostMaxChars)
	viper.SetDefault("EXPIRE_BATCH_SIZE", rules.ExpireBatchSize)
	viper.SetDefault("STREAK_WINDOW_DAYS", rules.StreakWindowDays)
	viper.SetDefault("TX_MAX_ATTEMPTS", rules.TxMaxAttempts)
	viper.SetDefault("TX_INITIAL_BACKOFF", rules.TxInitialBackoff)
}

// IsProduction reports whether the config targets a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must not be negative")
	}

	if c.IsProduction() {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
		if c.AdminAPIKey == "" {
			log.Println("WARNING: ADMIN_API_KEY is empty; the manual expiry endpoint is disabled.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	if err := c.Rules.Validate(); err != nil {
		return err
	}

	return nil
}
