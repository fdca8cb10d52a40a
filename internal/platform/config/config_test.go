package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 150*time.Millisecond, cfg.Lifecycle.UpdateDebounce)
	assert.Equal(t, time.Hour, cfg.Lifecycle.SweepInterval)
	assert.Equal(t, 10*time.Minute, cfg.Redis.SnapshotTTL)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := fromLookup(lookupFrom(map[string]string{
		"CLEARANCE_ADDR":           ":9090",
		"LOG_LEVEL":                "debug",
		"DATABASE_URL":             "postgres://clearance@db/clearance",
		"REDIS_URL":                "redis://cache:6379/0",
		"SNAPSHOT_CACHE_TTL":       "30s",
		"KAFKA_BROKERS":            "k1:9092, k2:9092,",
		"KAFKA_TOPIC":              "lifecycle",
		"UPDATE_DEBOUNCE":          "0s",
		"FREE_DAYS_SWEEP_INTERVAL": "15m",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://clearance@db/clearance", cfg.Database.URL)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Redis.SnapshotTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "lifecycle", cfg.Kafka.Topic)
	assert.Equal(t, time.Duration(0), cfg.Lifecycle.UpdateDebounce)
	assert.Equal(t, 15*time.Minute, cfg.Lifecycle.SweepInterval)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad duration", map[string]string{"UPDATE_DEBOUNCE": "soon"}, "UPDATE_DEBOUNCE"},
		{"negative duration", map[string]string{"SNAPSHOT_CACHE_TTL": "-1s"}, "SNAPSHOT_CACHE_TTL"},
		{"bad int", map[string]string{"REDIS_POOL_SIZE": "many"}, "REDIS_POOL_SIZE"},
		{"zero sweep", map[string]string{"FREE_DAYS_SWEEP_INTERVAL": "0s"}, "FREE_DAYS_SWEEP_INTERVAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromLookup(lookupFrom(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
