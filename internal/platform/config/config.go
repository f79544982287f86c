package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the import service.
type Server struct {
	Addr         string
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers string
	AuditTopic   string

	// Batch tuning. ChunkSize bounds how many rows are reconciled between
	// progress checkpoints; ChunkDelay bounds store load between chunks.
	ChunkSize  int
	ChunkDelay time.Duration

	// SweepInterval drives the periodic auto-link pass over unmatched
	// workbond-shift records. Zero disables the background sweeper.
	// SweepSeasonID names the season the sweeper works; the sweeper is
	// also disabled when it is empty.
	SweepInterval time.Duration
	SweepSeasonID string
}

// ProgressTTL bounds how long per-batch progress is retained for polling.
var ProgressTTL = 24 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:          envOr("LEAGUEDESK_ADDR", ":8080"),
		PostgresDSN:   os.Getenv("LEAGUEDESK_POSTGRES_DSN"),
		RedisAddr:     os.Getenv("LEAGUEDESK_REDIS_ADDR"),
		KafkaBrokers:  os.Getenv("LEAGUEDESK_KAFKA_BROKERS"),
		AuditTopic:    envOr("LEAGUEDESK_AUDIT_TOPIC", "leaguedesk.import.audit"),
		ChunkSize:     envInt("LEAGUEDESK_CHUNK_SIZE", 100),
		ChunkDelay:    envDuration("LEAGUEDESK_CHUNK_DELAY", 200*time.Millisecond),
		SweepInterval: envDuration("LEAGUEDESK_SWEEP_INTERVAL", 0),
		SweepSeasonID: os.Getenv("LEAGUEDESK_SWEEP_SEASON"),
	}
	return cfg
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
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
