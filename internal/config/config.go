package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Platform PlatformConfig
	Cache    CacheConfig
	Events   EventsConfig
	Logging  LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
	ServerName      string
}

// PlatformConfig holds the hosting platform's API and token settings.
// The platform owns identity and the member directory; this service only
// verifies its tokens and calls its REST API.
type PlatformConfig struct {
	APIBaseURL     string
	APIKey         string
	AppID          string
	ProductID      string
	JWTSecret      string
	TokenHeader    string
	RequestTimeout time.Duration
	MaxRetryTime   time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider        string
	TTL             time.Duration
	MaxKeys         int
	CleanupInterval time.Duration
	RedisURL        string
	RedisDB         int
	RedisPassword   string
	PoolSize        int
}

// EventsConfig holds event bus configuration
type EventsConfig struct {
	BufferSize     int
	WorkerCount    int
	HandlerTimeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	config := &Config{
		Server:   loadServerConfig(env),
		Platform: loadPlatformConfig(),
		Cache:    loadCacheConfig(env),
		Events:   loadEventsConfig(),
		Logging:  loadLoggingConfig(env),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func loadServerConfig(env string) ServerConfig {
	return ServerConfig{
		Port:            getEnv("PORT", "8080"),
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		GracefulTimeout: getDurationEnv("GRACEFUL_TIMEOUT", 30*time.Second),
		MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1<<20),
		ServerName:      getEnv("SERVER_NAME", "BadgeHub"),
	}
}

func loadPlatformConfig() PlatformConfig {
	return PlatformConfig{
		APIBaseURL:     getEnv("PLATFORM_API_BASE_URL", "https://api.platform.example.com"),
		APIKey:         os.Getenv("PLATFORM_API_KEY"),
		AppID:          os.Getenv("PLATFORM_APP_ID"),
		ProductID:      getEnv("PLATFORM_PRODUCT_ID", ""),
		JWTSecret:      os.Getenv("PLATFORM_JWT_SECRET"),
		TokenHeader:    getEnv("PLATFORM_TOKEN_HEADER", "x-platform-user-token"),
		RequestTimeout: getDurationEnv("PLATFORM_REQUEST_TIMEOUT", 10*time.Second),
		MaxRetryTime:   getDurationEnv("PLATFORM_MAX_RETRY_TIME", 15*time.Second),
	}
}

func loadCacheConfig(env string) CacheConfig {
	provider := getEnv("CACHE_PROVIDER", "memory")
	if getEnv("REDIS_URL", "") != "" && provider == "memory" {
		provider = "redis"
	}
	return CacheConfig{
		Provider:        provider,
		TTL:             getDurationEnv("CACHE_TTL", 5*time.Minute),
		MaxKeys:         getIntEnv("CACHE_MAX_KEYS", 10000),
		CleanupInterval: getDurationEnv("CACHE_CLEANUP_INTERVAL", time.Minute),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PoolSize:        getIntEnv("REDIS_POOL_SIZE", 10),
	}
}

func loadEventsConfig() EventsConfig {
	return EventsConfig{
		BufferSize:     getIntEnv("EVENT_BUFFER_SIZE", 256),
		WorkerCount:    getIntEnv("EVENT_WORKER_COUNT", 4),
		HandlerTimeout: getDurationEnv("EVENT_HANDLER_TIMEOUT", 10*time.Second),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", getDefaultLogLevel(env)),
		Format: getEnv("LOG_FORMAT", getDefaultLogFormat(env)),
	}
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Platform.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("platform config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("ReadTimeout must be positive")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("WriteTimeout must be positive")
	}
	return nil
}

// Validate validates platform configuration
func (p *PlatformConfig) Validate(env string) error {
	if p.APIBaseURL == "" {
		return fmt.Errorf("PLATFORM_API_BASE_URL is required")
	}
	if env == "production" {
		if p.APIKey == "" {
			return fmt.Errorf("PLATFORM_API_KEY must be set for production")
		}
		if p.JWTSecret == "" {
			return fmt.Errorf("PLATFORM_JWT_SECRET must be set for production")
		}
	}
	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Provider {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_PROVIDER must be memory or redis")
	}
	if c.Provider == "redis" && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis cache provider")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getDefaultLogLevel(env string) string {
	switch env {
	case "production":
		return "info"
	default:
		return "debug"
	}
}

func getDefaultLogFormat(env string) string {
	switch env {
	case "production":
		return "json"
	default:
		return "console"
	}
}
