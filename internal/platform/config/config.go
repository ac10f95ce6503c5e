// Package config builds runtime configuration from the environment so main
// stays lean. Every knob has a default good enough for local development.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr string

	// ConnectorsFile points at the JSON connector declarations.
	ConnectorsFile string

	Redis    RedisConfig
	Kafka    KafkaConfig
	Postgres PostgresConfig

	Cache    CacheTTLs
	Registry RegistryConfig
	Quote    QuoteConfig
}

// RedisConfig configures the shared cache backend. An empty URL means the
// hub runs on the in-memory cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the event mirror. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// PostgresConfig configures quote history persistence. An empty DSN means
// history stays in memory.
type PostgresConfig struct {
	DSN string
}

// CacheTTLs hold the per-class retention windows.
type CacheTTLs struct {
	Quotes    time.Duration
	Tokens    time.Duration
	Snapshots time.Duration
	Sessions  time.Duration
}

// RegistryConfig tunes connector supervision.
type RegistryConfig struct {
	InitTimeout        time.Duration
	HealthInterval     time.Duration
	HealthTimeout      time.Duration
	DegradedThreshold  int
	UnhealthyThreshold int
}

// QuoteConfig tunes the comparison engine.
type QuoteConfig struct {
	PerCallTimeout time.Duration
	HorizonYears   int
	PriceWeight    float64
	CoverageWeight float64
}

// FromEnv reads HUB_* environment variables with defaults.
func FromEnv() Server {
	return Server{
		Addr:           envString("HUB_ADDR", ":8080"),
		ConnectorsFile: os.Getenv("HUB_CONNECTORS_FILE"),
		Redis: RedisConfig{
			URL:          os.Getenv("HUB_REDIS_URL"),
			PoolSize:     envInt("HUB_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("HUB_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("HUB_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("HUB_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("HUB_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("HUB_KAFKA_BROKERS"),
			GroupID: envString("HUB_KAFKA_GROUP", "insurance-hub"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("HUB_POSTGRES_DSN"),
		},
		Cache: CacheTTLs{
			Quotes:    envDuration("HUB_TTL_QUOTES", 5*time.Minute),
			Tokens:    envDuration("HUB_TTL_TOKENS", 10*time.Minute),
			Snapshots: envDuration("HUB_TTL_SNAPSHOTS", 30*time.Minute),
			Sessions:  envDuration("HUB_TTL_SESSIONS", 15*time.Minute),
		},
		Registry: RegistryConfig{
			InitTimeout:        envDuration("HUB_REGISTRY_INIT_TIMEOUT", 10*time.Second),
			HealthInterval:     envDuration("HUB_REGISTRY_HEALTH_INTERVAL", 30*time.Second),
			HealthTimeout:      envDuration("HUB_REGISTRY_HEALTH_TIMEOUT", 5*time.Second),
			DegradedThreshold:  envInt("HUB_REGISTRY_DEGRADED_AFTER", 3),
			UnhealthyThreshold: envInt("HUB_REGISTRY_UNHEALTHY_AFTER", 5),
		},
		Quote: QuoteConfig{
			PerCallTimeout: envDuration("HUB_QUOTE_CALL_TIMEOUT", 8*time.Second),
			HorizonYears:   envInt("HUB_QUOTE_HORIZON_YEARS", 5),
			PriceWeight:    envFloat("HUB_QUOTE_PRICE_WEIGHT", 0.6),
			CoverageWeight: envFloat("HUB_QUOTE_COVERAGE_WEIGHT", 0.4),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
