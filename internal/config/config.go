package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

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

// DefaultAPIURL is the backend used when API_URL is not set
const DefaultAPIURL = "http://localhost:3001/api/v1"

// Config used for the console configuration, loading the input from environment variables
type Config struct {
	Env string `json:"env"`

	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Backend configuration
	APIURL         string        `json:"api_url"`
	RequestTimeout time.Duration `json:"request_timeout"`

	// Session configuration
	TokenCheckInterval time.Duration `json:"token_check_interval"`

	// Session storage configuration
	StorageDriver string `json:"storage_driver"`
	StoragePath   string `json:"storage_path"`
	DBHost        string `json:"db_host"`
	DBPort        string `json:"db_port"`
	DBName        string `json:"db_name"`
	DBUser        string `json:"db_user"`
	DBPassword    string `json:"db_password"`
	DBSSLMode     string `json:"db_sslmode"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Port: %d, Host: %s, APIURL: %s, RequestTimeout: %s, TokenCheckInterval: %s, StorageDriver: %s, StoragePath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s}",
		c.Env, c.Port, c.Host, maskURL(c.APIURL), c.RequestTimeout, c.TokenCheckInterval,
		c.StorageDriver, c.StoragePath, c.DBHost, c.DBName, c.DBUser, c.LogLevel)
}

// maskURL masks any password embedded in a URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Returns an error if a value is present but malformed
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8090"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	apiURL := GetEnvWithDefault("API_URL", DefaultAPIURL)
	parsed, err := url.ParseRequestURI(apiURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API_URL format: %s", apiURL)
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	checkInterval, err := parseDuration("TOKEN_CHECK_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Env:                GetEnvWithDefault("APP_ENV", "development"),
		Port:               port,
		Host:               GetEnvWithDefault("APP_HOST", "localhost"),
		APIURL:             apiURL,
		RequestTimeout:     requestTimeout,
		TokenCheckInterval: checkInterval,
		StorageDriver:      GetEnvWithDefault("STORAGE_DRIVER", "sqlite"),
		StoragePath:        GetEnvWithDefault("STORAGE_PATH", "pizza-admin.sqlite"),
		DBHost:             GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:             GetEnvWithDefault("DB_PORT", "5432"),
		DBName:             GetEnvWithDefault("DB_NAME", "pizza_admin"),
		DBUser:             GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword:         GetEnvWithDefault("DB_PASSWORD", ""),
		DBSSLMode:          GetEnvWithDefault("DB_SSLMODE", "disable"),
		LogLevel:           GetEnvWithDefault("LOG_LEVEL", "info"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := GetEnvWithDefault(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
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
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(d).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
