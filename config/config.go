package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // DRAW_TIMEZONE must resolve in minimal containers

	"luckydraw/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr       string
	RequestTimeout time.Duration

	// Draw configuration
	LockTimeout  time.Duration  // How long SelectWinner waits for a draw row lock
	DrawTimezone *time.Location // Zone used to decide what "today" is for draw dates

	// NATS configuration, empty servers disables publishing
	NATSServers string
	NATSSubject string

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration from the environment without touching the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// LockTimeoutMillis returns the lock timeout in whole milliseconds
func (c *Config) LockTimeoutMillis() int64 {
	return c.LockTimeout.Milliseconds()
}

func load() (*Config, error) {
	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:       getEnvWithDefault("HTTP_ADDR", ":8080"),
		RequestTimeout: 15 * time.Second,

		LockTimeout:  5 * time.Second,
		DrawTimezone: time.UTC,

		NATSServers: os.Getenv("NATS_SERVERS"),
		NATSSubject: getEnvWithDefault("NATS_SUBJECT", "luckydraw.draw.decided"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	var err error
	if config.RequestTimeout, err = getDurationWithDefault("REQUEST_TIMEOUT", config.RequestTimeout); err != nil {
		return nil, err
	}
	if config.LockTimeout, err = getDurationWithDefault("LOCK_TIMEOUT", config.LockTimeout); err != nil {
		return nil, err
	}

	if tz := os.Getenv("DRAW_TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAW_TIMEZONE %q: %w", tz, err)
		}
		config.DrawTimezone = loc
	}

	switch config.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", config.LogFormat)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be blank when provided")
		}
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:       ":0",
		RequestTimeout: 5 * time.Second,
		LockTimeout:    2 * time.Second,
		DrawTimezone:   time.UTC,
		NATSSubject:    "luckydraw.draw.decided",
		LogLevel:       "debug",
		LogFormat:      "text",
		Environment:    "test",
	}
}
