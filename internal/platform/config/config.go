package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string

	Redis    RedisConfig
	Provider ProviderConfig
	Kafka    KafkaConfig
}

// RedisConfig controls the screening-result cache connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProviderConfig holds the external AML provider endpoint and credentials.
// An empty Username/Secret pair makes the screening client short-circuit to
// CredentialsMissing instead of attempting network I/O.
type ProviderConfig struct {
	BaseURL  string
	Username string
	Secret   string
	Timeout  time.Duration
}

// KafkaConfig controls the optional search-history mirror. An empty broker
// list disables it.
type KafkaConfig struct {
	Brokers      []string
	HistoryTopic string
}

// ProfileCacheTTL bounds how long a cached profile may lag behind the
// database before it ages out.
var ProfileCacheTTL = 5 * time.Minute

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Addr:          getenv("AMLGATE_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("AMLGATE_DATABASE_URL"),
		JWTSigningKey: getenv("AMLGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("AMLGATE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Provider: ProviderConfig{
			BaseURL:  os.Getenv("AMLGATE_PROVIDER_URL"),
			Username: os.Getenv("AMLGATE_PROVIDER_USERNAME"),
			Secret:   os.Getenv("AMLGATE_PROVIDER_SECRET"),
			Timeout:  durationEnv("AMLGATE_PROVIDER_TIMEOUT", 30*time.Second),
		},
		Kafka: KafkaConfig{
			HistoryTopic: getenv("AMLGATE_KAFKA_HISTORY_TOPIC", "screening.search-history"),
		},
	}
	if brokers := os.Getenv("AMLGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
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
