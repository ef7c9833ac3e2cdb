// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq scheduling backend.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSweepInterval() time.Duration
}

// GraphConfig provides settings for the Microsoft Graph mail client.
type GraphConfig interface {
	GetGraphBaseURL() string
}

// RelayConfig provides settings for the messaging relay (Unipile) client.
type RelayConfig interface {
	GetRelayBaseURL() string
	GetRelayAPIKey() string
	GetRelayRequestsPerSecond() float64
	IsRelayEnabled() bool
}

// SMTPConfig provides settings for the SMTP fallback sender.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPFromName() string
	GetSMTPFromAddress() string
	IsSMTPEnabled() bool
}

// GenerationConfig provides settings for the email generation service.
type GenerationConfig interface {
	GetGeminiAPIKey() string
	GetGenerationModel() string
	IsGenerationEnabled() bool
}

// ReconcileConfig provides tuning knobs for the reply reconciliation core.
type ReconcileConfig interface {
	GetChatCacheTTL() time.Duration
	GetProfileCacheTTL() time.Duration
	GetReplyLookbackWindow() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	JWTAccessSecret        string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	SweepInterval          time.Duration
	GraphBaseURL           string
	RelayBaseURL           string
	RelayAPIKey            string
	RelayRequestsPerSecond float64
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	SMTPFromName           string
	SMTPFromAddress        string
	GeminiAPIKey           string
	GenerationModel        string
	ChatCacheTTL           time.Duration
	ProfileCacheTTL        time.Duration
	ReplyLookbackWindow    time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string                { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool          { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string          { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int           { return c.AsynqConcurrency }
func (c *Config) GetSweepInterval() time.Duration    { return c.SweepInterval }

// GraphConfig implementation
func (c *Config) GetGraphBaseURL() string { return c.GraphBaseURL }

// RelayConfig implementation
func (c *Config) GetRelayBaseURL() string             { return c.RelayBaseURL }
func (c *Config) GetRelayAPIKey() string              { return c.RelayAPIKey }
func (c *Config) GetRelayRequestsPerSecond() float64  { return c.RelayRequestsPerSecond }
func (c *Config) IsRelayEnabled() bool {
	return c.RelayBaseURL != "" && c.RelayAPIKey != ""
}

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetSMTPFromName() string    { return c.SMTPFromName }
func (c *Config) GetSMTPFromAddress() string { return c.SMTPFromAddress }
func (c *Config) IsSMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFromAddress != ""
}

// GenerationConfig implementation
func (c *Config) GetGeminiAPIKey() string    { return c.GeminiAPIKey }
func (c *Config) GetGenerationModel() string { return c.GenerationModel }
func (c *Config) IsGenerationEnabled() bool  { return c.GeminiAPIKey != "" }

// ReconcileConfig implementation
func (c *Config) GetChatCacheTTL() time.Duration        { return c.ChatCacheTTL }
func (c *Config) GetProfileCacheTTL() time.Duration     { return c.ProfileCacheTTL }
func (c *Config) GetReplyLookbackWindow() time.Duration { return c.ReplyLookbackWindow }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "chrome-extension://*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "outreach"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		SweepInterval:          mustDuration(getEnv("SWEEP_INTERVAL", "15m")),
		GraphBaseURL:           getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		RelayBaseURL:           getEnv("UNIPILE_API_URL", ""),
		RelayAPIKey:            getEnv("UNIPILE_API_KEY", ""),
		RelayRequestsPerSecond: mustFloat(getEnv("UNIPILE_REQUESTS_PER_SECOND", "5")),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPFromName:           getEnv("SMTP_FROM_NAME", "Outreach"),
		SMTPFromAddress:        getEnv("SMTP_FROM_ADDRESS", ""),
		GeminiAPIKey:           getEnv("GEMINI_API_KEY", ""),
		GenerationModel:        getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
		ChatCacheTTL:           mustDuration(getEnv("LINKEDIN_CHAT_CACHE_TTL", "5m")),
		ProfileCacheTTL:        mustDuration(getEnv("LINKEDIN_PROFILE_CACHE_TTL", "15m")),
		ReplyLookbackWindow:    mustDuration(getEnv("REPLY_LOOKBACK_WINDOW", "720h")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
