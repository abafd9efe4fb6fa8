package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	// placeholderJWTSecret is the value shipped in sample .env files.
	placeholderJWTSecret = "your-secret-key-change-in-production"
	minJWTSecretBytes    = 32
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage backend selection
	Store StoreConfig

	// Database configuration (postgres store only)
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Recipe behaviour
	Recipes RecipesConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// StoreConfig selects where users and recipes live
type StoreConfig struct {
	Driver string // memory | postgres
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MaxLifetime    time.Duration
	ConnTimeout    time.Duration
	QueryTimeout   time.Duration
	SimpleProtocol bool // required behind PgBouncer in transaction mode
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// RecipesConfig holds recipe-specific settings
type RecipesConfig struct {
	// DefaultAuthorID is attached to recipes created without a bearer token
	DefaultAuthorID int64
	// RequireAuth rejects recipe writes that carry no bearer token
	RequireAuth bool
	// SeedExamples stores two example recipes on startup
	SeedExamples bool
	// CacheSize is the LRU size for recipe reads; 0 disables the cache
	CacheSize int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | text
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the current process environment without
// reading any .env file or validating the result.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", "8080"),
			ReadHeaderTimeout: getDurationEnv("SERVER_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:      getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:       getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout:   getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "wisecook"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       getInt32Env("DB_MAX_CONNS", 5),
			MinConns:       getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:    getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout:   getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			SimpleProtocol: getBoolEnv("DB_SIMPLE_PROTOCOL", false),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", ""),
			Issuer:         getEnv("JWT_ISSUER", "wisecook"),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 24*time.Hour),
		},
		Recipes: RecipesConfig{
			DefaultAuthorID: getInt64Env("DEFAULT_AUTHOR_ID", 101),
			RequireAuth:     getBoolEnv("REQUIRE_AUTH", false),
			SeedExamples:    getBoolEnv("SEED_RECIPES", false),
			CacheSize:       getIntEnv("RECIPE_CACHE_SIZE", 0),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		// Check required database configuration
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when STORE_DRIVER=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.Store.Driver, StoreMemory, StorePostgres)
	}

	switch {
	case c.JWT.Secret == "":
		return fmt.Errorf("JWT_SECRET is required")
	case c.JWT.Secret == placeholderJWTSecret:
		return fmt.Errorf("JWT_SECRET still holds the sample placeholder")
	case len(c.JWT.Secret) < minJWTSecretBytes:
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretBytes)
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}

	if c.Recipes.DefaultAuthorID <= 0 && !c.Recipes.RequireAuth {
		return fmt.Errorf("DEFAULT_AUTHOR_ID must be positive unless REQUIRE_AUTH is set")
	}
	if c.Recipes.CacheSize < 0 {
		return fmt.Errorf("RECIPE_CACHE_SIZE cannot be negative")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Server.Port
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
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
