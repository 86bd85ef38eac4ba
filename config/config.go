package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds the runtime settings read from the environment (.env is loaded by main).
type AppConfig struct {
	Environment string
	GinMode     string
	ServerPort  string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBDatabase string
	DBUsername string
	DBPassword string
	DBPath     string
	DebugSQL   bool

	JWTSecret      string
	JWTExpireHours int

	UploadPath    string
	MaxUploadSize int64
	MaxKeywords   int

	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool

	AMQPURL   string
	AMQPQueue string

	AllowedOrigins []string
	LogsToken      string
}

// App is the configuration loaded by Load.
var App = Load()

// Load reads the configuration from environment variables, applying defaults.
func Load() *AppConfig {
	return &AppConfig{
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),
		GinMode:     getEnv("GIN_MODE", "debug"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBDatabase: getEnv("DB_DATABASE", "conference"),
		DBUsername: getEnv("DB_USERNAME", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBPath:     getEnv("DB_PATH", "conference.db"),
		DebugSQL:   strings.ToLower(getEnv("DEBUG_SQL", "")) == "true",

		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 5)) << 20,
		MaxKeywords:   getEnvInt("MAX_KEYWORDS", 10),

		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPass:          getEnv("SMTP_PASS", ""),
		SMTPFrom:          getEnv("SMTP_FROM", ""), // e.g. "Conference <no-reply@your.org>"
		SMTPSkipTLSVerify: getEnv("SMTP_SKIP_TLS_VERIFY", "") == "1",

		AMQPURL:   getEnv("AMQP_URL", ""),
		AMQPQueue: getEnv("AMQP_QUEUE", "conference_notifications"),

		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogsToken:      getEnv("LOGS_TOKEN", ""),
	}
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// JWTTTL returns the lifetime of issued access tokens.
func (c *AppConfig) JWTTTL() time.Duration {
	hours := c.JWTExpireHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
