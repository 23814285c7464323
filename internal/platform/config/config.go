package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr            string
	PostgresDSN     string
	CataloguePath   string // optional JSON catalogue override; empty uses the built-in
	ReviewerJWTKey  string
	ShutdownTimeout time.Duration

	Redis RedisConfig
	Kafka KafkaConfig
}

// RedisConfig configures the optional assessment read cache.
type RedisConfig struct {
	URL          string // empty disables the cache
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// KafkaConfig configures the audit outbox relay.
type KafkaConfig struct {
	Brokers       []string // empty disables the relay
	AuditTopic    string
	RelayInterval time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:            envOr("CERTUS_ADDR", ":8080"),
		PostgresDSN:     os.Getenv("CERTUS_POSTGRES_DSN"),
		CataloguePath:   os.Getenv("CERTUS_CATALOGUE_PATH"),
		ReviewerJWTKey:  os.Getenv("CERTUS_REVIEWER_JWT_KEY"),
		ShutdownTimeout: envDurationOr("CERTUS_SHUTDOWN_TIMEOUT", 10*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("CERTUS_REDIS_URL"),
			PoolSize:     envIntOr("CERTUS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("CERTUS_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("CERTUS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("CERTUS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("CERTUS_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDurationOr("CERTUS_ASSESSMENT_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			AuditTopic:    envOr("CERTUS_AUDIT_TOPIC", "certus.audit.events"),
			RelayInterval: envDurationOr("CERTUS_AUDIT_RELAY_INTERVAL", 2*time.Second),
		},
	}
	if brokers := os.Getenv("CERTUS_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, b)
			}
		}
	}
	if cfg.ReviewerJWTKey == "" {
		// Use a default for development - should be overridden in production
		cfg.ReviewerJWTKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
