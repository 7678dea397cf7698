package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	JWT      JWTConfig
	App      AppConfig
	Upstream UpstreamConfig
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret            string
	SessionExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

// UpstreamConfig points at the no-code backend that owns all attendance data.
type UpstreamConfig struct {
	BaseURL              string
	LoginPath            string
	AttendanceExportPath string
	SubstitutesPath      string
	APIKey               string
	Timeout              time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	origins := getEnvSlice("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{frontendURL}
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    frontendURL,
		AllowedOrigins: origins,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		SessionExpiration: getEnv("JWT_SESSION_EXPIRATION_TIME", "12h"),
	}

	// Upstream configuration
	timeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}

	config.Upstream = UpstreamConfig{
		BaseURL:              strings.TrimRight(getEnv("UPSTREAM_BASE_URL", ""), "/"),
		LoginPath:            getEnv("UPSTREAM_LOGIN_PATH", "/auth/login"),
		AttendanceExportPath: getEnv("UPSTREAM_ATTENDANCE_EXPORT_PATH", "/attendance/export"),
		SubstitutesPath:      getEnv("UPSTREAM_SUBSTITUTES_PATH", "/substitutes"),
		APIKey:               getEnv("UPSTREAM_API_KEY", ""),
		Timeout:              timeout,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.SessionExpiration); err != nil {
		return fmt.Errorf("invalid JWT_SESSION_EXPIRATION_TIME: %w", err)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must be an absolute http(s) URL")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// LoginURL returns the upstream identity endpoint
func (c UpstreamConfig) LoginURL() string {
	return joinURL(c.BaseURL, c.LoginPath)
}

// AttendanceExportURL returns the upstream CSV export endpoint
func (c UpstreamConfig) AttendanceExportURL() string {
	return joinURL(c.BaseURL, c.AttendanceExportPath)
}

// SubstitutesURL returns the upstream substitute list endpoint
func (c UpstreamConfig) SubstitutesURL() string {
	return joinURL(c.BaseURL, c.SubstitutesPath)
}

func joinURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
