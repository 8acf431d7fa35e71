package config

import (
	"os"
	"strconv"
	"time"

	platformStrings "helptoheat/pkg/platform/strings"
)

// Store backends for questionnaire answers.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string
	WriteTimeout time.Duration
	AdminToken   string
	DatabaseURL  string
	AnswerStore  string
	SupplierSeed string
	Redis        RedisConfig
	Kafka        KafkaConfig
	Referral     ReferralConfig
	RateLimit    RateLimitConfig
}

// RedisConfig configures the go-redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AnswerTTL    time.Duration
}

// KafkaConfig configures the referral lead publisher. Publishing is disabled
// when Brokers is empty.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// ReferralConfig holds referral business rules.
type ReferralConfig struct {
	DuplicateWindow time.Duration
}

// RateLimitConfig sets per client IP request budgets. A zero budget leaves
// that class unlimited.
type RateLimitConfig struct {
	Disabled       bool
	Window         time.Duration
	PublicRequests int
	PortalRequests int
	ProbeInterval  time.Duration
}

// DefaultDuplicateWindow is roughly six months.
const DefaultDuplicateWindow = 183 * 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:         envOr("HELPTOHEAT_ADDR", ":8080"),
		WriteTimeout: envDuration("HELPTOHEAT_WRITE_TIMEOUT", 0),
		AdminToken:   os.Getenv("ADMIN_API_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AnswerStore:  envOr("ANSWER_STORE", BackendMemory),
		SupplierSeed: os.Getenv("SUPPLIER_SEED_FILE"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			AnswerTTL:    envDuration("REDIS_ANSWER_TTL", 7*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:  envList("KAFKA_BROKERS"),
			Topic:    envOr("KAFKA_REFERRAL_TOPIC", "helptoheat.referrals"),
			ClientID: envOr("KAFKA_CLIENT_ID", "helptoheat"),
		},
		Referral: ReferralConfig{
			DuplicateWindow: envDuration("REFERRAL_DUPLICATE_WINDOW", DefaultDuplicateWindow),
		},
		RateLimit: RateLimitConfig{
			Disabled:       envBool("RATELIMIT_DISABLED", false),
			Window:         envDuration("RATELIMIT_WINDOW", time.Minute),
			PublicRequests: envInt("RATELIMIT_PUBLIC_REQUESTS", 120),
			PortalRequests: envInt("RATELIMIT_PORTAL_REQUESTS", 600),
			ProbeInterval:  envDuration("RATELIMIT_PROBE_INTERVAL", 5*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	return platformStrings.SplitList(os.Getenv(key), ",")
}
