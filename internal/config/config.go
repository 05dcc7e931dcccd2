package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendNone     = "none"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the process configuration, read once from the environment.
// Provider credentials are read by the provider packages themselves.
type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string

	Provider string

	DocstoreBackend string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	SQLitePath      string
	PostgresDSN     string

	RoomIdleTTL       time.Duration
	RoomSweepSchedule string

	SendBuffer      int
	WriteTimeout    time.Duration
	UpstreamTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	var errs []error

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "5000"),
		Env:               getEnvOrDefault("APP_ENV", "production"),
		AllowedOrigins:    splitList(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		Provider:          strings.ToLower(getEnvOrDefault("AI_PROVIDER", "groq")),
		DocstoreBackend:   strings.ToLower(getEnvOrDefault("DOCSTORE_BACKEND", BackendNone)),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnvOrDefault("MONGO_DB", "codesync"),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		SQLitePath:        getEnvOrDefault("SQLITE_PATH", "codesync.db"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		RoomSweepSchedule: getEnvOrDefault("ROOM_SWEEP_SCHEDULE", "@every 1m"),
	}

	cfg.RoomIdleTTL = getEnvDuration("ROOM_IDLE_TTL", 30*time.Minute, &errs)
	cfg.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", 10*time.Second, &errs)
	cfg.UpstreamTimeout = getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second, &errs)
	cfg.SendBuffer = getEnvInt("SEND_BUFFER", 256, &errs)

	if err := validateConfig(cfg); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Provider {
	case "groq", "gemini":
	default:
		return errors.New("unsupported AI provider: " + cfg.Provider + ". Currently supported: groq, gemini")
	}

	switch cfg.DocstoreBackend {
	case BackendNone, BackendRedis, BackendSQLite:
	case BackendMongo:
		if cfg.MongoURI == "" {
			return errors.New("MONGO_URI is required when DOCSTORE_BACKEND=mongo")
		}
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when DOCSTORE_BACKEND=postgres")
		}
	default:
		return errors.New("unsupported DOCSTORE_BACKEND: " + cfg.DocstoreBackend)
	}

	if cfg.RoomIdleTTL < 0 {
		return errors.New("ROOM_IDLE_TTL must not be negative")
	}
	if cfg.SendBuffer <= 0 {
		return errors.New("SEND_BUFFER must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	if raw == "0" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return i
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
