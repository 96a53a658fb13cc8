// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection settings. DSN, when set, wins over the
// individual fields.
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	RawDSN   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// Migration modes accepted by MIGRATIONS.
const (
	MigrateAuto = "auto"
	MigrateSQL  = "sql"
	MigrateOff  = "off"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations string
	Seed       bool

	// Letterhead printed on generated documents.
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
}

// AuthConfig holds token and edge api key settings.
type AuthConfig struct {
	APIKey   string
	TokenTTL time.Duration
}

// StorageConfig holds attachment storage settings.
type StorageConfig struct {
	Dir          string
	SignedURLTTL time.Duration
	MaxBytes     int64
}

// CacheConfig holds read cache lifetimes.
type CacheConfig struct {
	TTL        time.Duration
	ProfileTTL time.Duration
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	if d.Driver == "sqlite" {
		return "file:" + d.DBName + ".db?_foreign_keys=on"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			RawDSN:   strings.Trim(strings.TrimSpace(os.Getenv("DATABASE_DSN")), "\"'"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "logistik"),
			Password: getEnv("DB_PASSWORD", "logistik123"),
			DBName:   getEnv("DB_NAME", "logistik"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: migrationMode(os.Getenv("MIGRATIONS")),
			Seed:       getEnvBool("DB_SEED", false),

			CompanyName:    getEnv("COMPANY_NAME", "PT Mulia Kasih Logistik"),
			CompanyAddress: os.Getenv("COMPANY_ADDRESS"),
			CompanyPhone:   os.Getenv("COMPANY_PHONE"),
			CompanyEmail:   os.Getenv("COMPANY_EMAIL"),
		},
		Auth: AuthConfig{
			APIKey:   os.Getenv("API_KEY"),
			TokenTTL: getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Dir:          getEnv("STORAGE_DIR", "./data/files"),
			SignedURLTTL: getEnvDuration("SIGNED_URL_TTL", time.Hour),
			MaxBytes:     int64(getEnvInt("STORAGE_MAX_BYTES", 10<<20)),
		},
		Cache: CacheConfig{
			TTL:        getEnvDuration("CACHE_TTL", 5*time.Minute),
			ProfileTTL: getEnvDuration("PROFILE_CACHE_TTL", time.Minute),
		},
	}
}

// migrationMode maps MIGRATIONS to a mode. The legacy boolean form still
// works: truthy values select SQL migrations.
func migrationMode(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", MigrateAuto:
		return MigrateAuto
	case MigrateSQL, "1", "true", "yes":
		return MigrateSQL
	default:
		return MigrateOff
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if i, err := strconv.Atoi(value); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}
