package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret      string // Required: HMAC secret for session tokens
	GoogleClientID string // Optional: enables the Google login endpoints

	DatabaseFile string // Optional: path to SQLite database file (default: ./eventyfast.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	RedisAddr    string // Optional: host:port of a redis instance for lockout/code state; in-memory when empty

	SMTPHost     string // Optional: mail is disabled when empty
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SupportEmail string // Destination for contact-form submissions

	SecureCookies bool // Whether session cookies carry the Secure attribute

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() (Config, error) {
	cfg := Config{
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "eventyfast.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "eventyfast <no-reply@eventyfast.example>"),
		SupportEmail: getEnvOrDefault("SUPPORT_EMAIL", "support@eventyfast.example"),

		SecureCookies: getEnvBoolOrDefault("SECURE_COOKIES", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
