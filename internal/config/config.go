package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store drivers
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// Session storage backends
const (
	SessionStorageMemory = "memory"
	SessionStorageRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Registry store configuration
	Store StoreConfig

	// Database configuration, used when Store.Driver is postgres
	Database DatabaseConfig

	// Session persistence configuration
	Session SessionConfig

	// Redis configuration, used when Session.Storage is redis
	Redis RedisConfig

	// Auth latency simulation
	Auth AuthConfig

	// Background expiry sweeper
	Expiry ExpiryConfig

	// Domain event publishing
	Events EventsConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the registry implementation
type StoreConfig struct {
	Driver         string
	MigrationsPath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// SessionConfig holds session persistence settings
type SessionConfig struct {
	Storage string
	TTL     time.Duration // 0 keeps entries until logout
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig holds the artificial latency of login and register
type AuthConfig struct {
	LoginDelay    time.Duration
	RegisterDelay time.Duration
}

// ExpiryConfig holds the donation expiry sweeper settings
type ExpiryConfig struct {
	Interval time.Duration // 0 disables the sweeper
}

// EventsConfig holds event publisher settings
type EventsConfig struct {
	NATSURL       string // empty publishes to the log only
	SubjectPrefix string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Driver:         getEnv("STORE_DRIVER", StoreDriverMemory),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "foodbridge"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Session: SessionConfig{
			Storage: getEnv("SESSION_STORAGE", SessionStorageMemory),
			TTL:     getDurationEnv("SESSION_TTL", 0),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getIntEnv("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			LoginDelay:    getDurationEnv("AUTH_LOGIN_DELAY", time.Second),
			RegisterDelay: getDurationEnv("AUTH_REGISTER_DELAY", 1500*time.Millisecond),
		},
		Expiry: ExpiryConfig{
			Interval: getDurationEnv("EXPIRY_SWEEP_INTERVAL", time.Minute),
		},
		Events: EventsConfig{
			NATSURL:       getEnv("NATS_URL", ""),
			SubjectPrefix: getEnv("EVENTS_SUBJECT_PREFIX", "foodbridge"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: %s, %s", StoreDriverMemory, StoreDriverPostgres)
	}

	if c.Session.Storage != SessionStorageMemory && c.Session.Storage != SessionStorageRedis {
		return fmt.Errorf("SESSION_STORAGE must be one of: %s, %s", SessionStorageMemory, SessionStorageRedis)
	}
	if c.Auth.LoginDelay < 0 || c.Auth.RegisterDelay < 0 {
		return fmt.Errorf("auth delays must not be negative")
	}
	if c.Events.SubjectPrefix == "" {
		return fmt.Errorf("EVENTS_SUBJECT_PREFIX is required")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Addr returns the Redis address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
