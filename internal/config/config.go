package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBPath     string `json:"db_path"`

	// Redis configuration (rate limiting); empty disables the limiter
	RedisURL string `json:"redis_url"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret            string `json:"jwt_secret"`
	PaymentWebhookSecret string `json:"payment_webhook_secret"`

	// Rate limiting (requests per window per key)
	RateLimitRequests int `json:"rate_limit_requests"`
	RateLimitWindow   int `json:"rate_limit_window_seconds"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], RedisURL: %s, LogLevel: %s, JWTSecret: [REDACTED], PaymentWebhookSecret: [REDACTED]}",
		c.Port, c.Host, c.DBDriver, c.DBHost, c.DBName, c.DBUser, maskRedisURL(c.RedisURL), c.LogLevel)
}

// maskRedisURL masks the password in a redis URL
func maskRedisURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if any required environment variable is missing or invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Port:                 port,
		Host:                 GetEnvWithDefault("APP_HOST", "localhost"),
		DBDriver:             GetEnvWithDefault("DB_DRIVER", "sqlite"),
		DBHost:               GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:               GetEnvWithDefault("DB_PORT", "5432"),
		DBName:               GetEnvWithDefault("DB_NAME", "social_wallet"),
		DBUser:               GetEnvWithDefault("DB_USER", "user"),
		DBPassword:           GetEnvWithDefault("DB_PASSWORD", "password"),
		DBPath:               GetEnvWithDefault("DB_PATH", "social_wallet.sqlite"),
		RedisURL:             GetEnvWithDefault("REDIS_URL", ""),
		LogLevel:             GetEnvWithDefault("LOG_LEVEL", "info"),
		JWTSecret:            GetEnvWithDefault("JWT_SECRET", "secret"),
		PaymentWebhookSecret: GetEnvWithDefault("PAYMENT_WEBHOOK_SECRET", ""),
		RateLimitRequests:    GetEnvAsType("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:      GetEnvAsType("RATE_LIMIT_WINDOW_SECONDS", 60),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
