// Package config builds per-service configuration from environment variables
// so each main stays lean. A local .env file is loaded best-effort for
// development; real deployments set the environment directly.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()
}

// UpstreamTimeout bounds every cross-service HTTP call. Calls that exceed it
// surface as unavailable to the caller rather than hanging.
var UpstreamTimeout = 5 * time.Second

// Kafka holds event bus settings shared by producers and the security
// consumer. Empty Brokers means the bus is not configured: producers fall
// back to log-only emission and the security service relies on the
// test-event endpoint.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

// Nominations configures the nominations service.
type Nominations struct {
	Addr  string
	Kafka Kafka
}

// Voting configures the voting service.
type Voting struct {
	Addr           string
	NominationsURL string
	Kafka          Kafka
}

// Winners configures the winners service.
type Winners struct {
	Addr           string
	NominationsURL string
	VotingURL      string
	// ResolveCron re-runs winner resolution on a schedule when set
	// (standard cron spec, e.g. "@every 5m"). Empty disables it.
	ResolveCron string
	Kafka       Kafka
}

// Notifications configures the notifications service.
type Notifications struct {
	Addr       string
	WinnersURL string
	Kafka      Kafka
}

// Security configures the security/audit service.
type Security struct {
	Addr string
	// DedupBackend selects the processed-event store: "memory" or "redis".
	DedupBackend string
	RedisURL     string
	// StoreBackend selects the audit-log store: "memory" or "postgres".
	StoreBackend string
	PostgresDSN  string
	Kafka        Kafka
}

func NominationsFromEnv() Nominations {
	return Nominations{
		Addr:  envOr("NOMINATIONS_ADDR", ":8001"),
		Kafka: kafkaFromEnv("nominations"),
	}
}

func VotingFromEnv() Voting {
	return Voting{
		Addr:           envOr("VOTING_ADDR", ":8002"),
		NominationsURL: envOr("NOMINATIONS_SERVICE_URL", "http://localhost:8001"),
		Kafka:          kafkaFromEnv("voting"),
	}
}

func WinnersFromEnv() Winners {
	return Winners{
		Addr:           envOr("WINNERS_ADDR", ":8003"),
		NominationsURL: envOr("NOMINATIONS_SERVICE_URL", "http://localhost:8001"),
		VotingURL:      envOr("VOTING_SERVICE_URL", "http://localhost:8002"),
		ResolveCron:    os.Getenv("WINNERS_RESOLVE_CRON"),
		Kafka:          kafkaFromEnv("winners"),
	}
}

func NotificationsFromEnv() Notifications {
	return Notifications{
		Addr:       envOr("NOTIFICATIONS_ADDR", ":8004"),
		WinnersURL: envOr("WINNERS_SERVICE_URL", "http://localhost:8003"),
		Kafka:      kafkaFromEnv("notifications"),
	}
}

func SecurityFromEnv() Security {
	return Security{
		Addr:         envOr("SECURITY_ADDR", ":8005"),
		DedupBackend: envOr("SECURITY_DEDUP_BACKEND", "memory"),
		RedisURL:     os.Getenv("REDIS_URL"),
		StoreBackend: envOr("SECURITY_STORE_BACKEND", "memory"),
		PostgresDSN:  os.Getenv("SECURITY_POSTGRES_DSN"),
		Kafka:        kafkaFromEnv("security"),
	}
}

func kafkaFromEnv(group string) Kafka {
	brokers := os.Getenv("KAFKA_BROKERS")
	cfg := Kafka{
		Topic: envOr("AUDIT_TOPIC", "audit-events"),
		Group: envOr("KAFKA_GROUP", group),
	}
	if brokers != "" {
		cfg.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
