package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/tenant-task-api/internal/constants"
	"gorm.io/gorm/logger"
)

const defaultJWTSecret = "default-secret-key-change-me"

// DBConfig holds database connection and pool settings.
type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	QueryTimeout    time.Duration
	LogLevel        logger.LogLevel
}

// DSN returns the driver specific connection string.
func (c DBConfig) DSN() string {
	timeoutSeconds := int(c.ConnectTimeout.Seconds())
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}

	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%ds",
			c.User, c.Password, c.Host, c.Port, c.Name, timeoutSeconds)
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, timeoutSeconds)
}

// SuperAdminSeed describes the super admin created at startup, if any.
type SuperAdminSeed struct {
	Email    string
	Password string
	FullName string
}

// Enabled reports whether a seed account is configured.
func (s SuperAdminSeed) Enabled() bool {
	return s.Email != "" && s.Password != ""
}

type Config struct {
	AppEnv       string
	GinMode      string
	ServerPort   string
	DB           DBConfig
	JWTSecret    string
	JWTExpiresIn time.Duration
	FrontendURL  string
	LogLevel     string
	SuperAdmin   SuperAdminSeed
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from the environment, after loading an optional .env file.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "saas_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnectTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 2*time.Second),
			QueryTimeout:    getEnvAsDuration("DB_QUERY_TIMEOUT", 10*time.Second),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiresIn: getEnvAsDuration("JWT_EXPIRES_IN", constants.TokenLifetime),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		SuperAdmin: SuperAdminSeed{
			Email:    getEnv("SUPER_ADMIN_EMAIL", ""),
			Password: getEnv("SUPER_ADMIN_PASSWORD", ""),
			FullName: getEnv("SUPER_ADMIN_NAME", "Super Admin"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
