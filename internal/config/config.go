package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the gateway.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Redis       RedisConfig
	Session     SessionConfig
	Gateway     GatewayConfig
	Audit       AuditConfig
	Context     ContextConfig
	Logger      LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	URL              string
	Password         string
	DB               int
	OperationTimeout time.Duration
}

type SessionConfig struct {
	TTL            time.Duration
	UserIDCacheTTL time.Duration
	CookieName     string
}

type GatewayConfig struct {
	AuthURL       string
	BackendURL    string
	ServiceSecret string
}

type AuditConfig struct {
	Path            string
	RetentionHours  int
	SummaryInterval time.Duration
	QueueSize       int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "session-gateway"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Redis: RedisConfig{
			URL:              getString("REDIS_URL", "redis://localhost:6379"),
			Password:         os.Getenv("REDIS_PASSWORD"),
			DB:               getInt("REDIS_DB", 0),
			OperationTimeout: getDuration("REDIS_OP_TIMEOUT", 2*time.Second),
		},
		Session: SessionConfig{
			TTL:            getDuration("SESSION_TTL", time.Hour),
			UserIDCacheTTL: getDuration("USER_ID_CACHE_TTL", 15*time.Minute),
			CookieName:     getString("SESSION_COOKIE_NAME", "session_id"),
		},
		Gateway: GatewayConfig{
			AuthURL:       getString("AUTH_URL", "http://localhost:8001/auth"),
			BackendURL:    getString("BACKEND_URL", "http://localhost:9000"),
			ServiceSecret: os.Getenv("SERVICE_SECRET"),
		},
		Audit: AuditConfig{
			Path:            getString("AUDIT_DB_PATH", "./data/audit.db"),
			RetentionHours:  getInt("AUDIT_RETENTION_HOURS", 24),
			SummaryInterval: getDuration("AUDIT_SUMMARY_INTERVAL", time.Minute),
			QueueSize:       getInt("AUDIT_QUEUE_SIZE", 256),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
