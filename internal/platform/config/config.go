package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the whole process configuration.
type Config struct {
	Server    Server
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	Lifecycle Lifecycle
}

// Server captures the ops HTTP listener.
type Server struct {
	Addr     string
	LogLevel string
}

// Database is optional; an empty URL keeps aggregates in memory.
type Database struct {
	URL string
}

// RedisConfig is optional; an empty URL disables the snapshot cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SnapshotTTL  time.Duration
}

// Kafka is optional; no brokers keeps the audit trail in memory.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Lifecycle tunes the stores and the free-days sweep.
type Lifecycle struct {
	UpdateDebounce time.Duration
	SweepInterval  time.Duration
}

// FromEnv loads an optional .env file, then reads the environment.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}
	cfg := Config{
		Server: Server{
			Addr:     r.str("CLEARANCE_ADDR", ":8080"),
			LogLevel: r.str("LOG_LEVEL", "info"),
		},
		Database: Database{
			URL: r.str("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL:          r.str("REDIS_URL", ""),
			PoolSize:     r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: r.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			SnapshotTTL:  r.duration("SNAPSHOT_CACHE_TTL", 10*time.Minute),
		},
		Kafka: Kafka{
			Brokers: r.list("KAFKA_BROKERS"),
			Topic:   r.str("KAFKA_TOPIC", "clearance.lifecycle"),
		},
		Lifecycle: Lifecycle{
			UpdateDebounce: r.duration("UPDATE_DEBOUNCE", 150*time.Millisecond),
			SweepInterval:  r.duration("FREE_DAYS_SWEEP_INTERVAL", time.Hour),
		},
	}
	if r.err != nil {
		return Config{}, r.err
	}
	if cfg.Lifecycle.SweepInterval <= 0 {
		return Config{}, fmt.Errorf("FREE_DAYS_SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

// reader keeps the first parse error so FromEnv reports one bad key.
type reader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *reader) str(key, fallback string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (r *reader) integer(key string, fallback int) int {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	return n
}

func (r *reader) duration(key string, fallback time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 && r.err == nil {
		r.err = fmt.Errorf("%s must not be negative", key)
	}
	return d
}

func (r *reader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(r.str(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
