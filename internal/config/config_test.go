package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_PORT", "BCRYPT_COST", "EVENTS_DRIVER", "AUDIT_CONSUMER_ENABLED", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MemoryDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, EventsNone, cfg.Events.Driver)
	assert.False(t, cfg.IsProd())
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("BCRYPT_COST", "high")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"JWT_SECRET", "DB_USER", "DB_HOST", "DB_NAME", "BCRYPT_COST"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoad_AuditConsumerNeedsRabbit(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("AUDIT_CONSUMER_ENABLED", "true")

	_, err := Load()
	assert.ErrorContains(t, err, "AUDIT_CONSUMER_ENABLED")
}

func TestLoad_KafkaBrokers(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEAT_TEST_FROM_FILE=yes\n"), 0o600))
	t.Setenv("SEAT_TEST_FROM_FILE", "")
	os.Unsetenv("SEAT_TEST_FROM_FILE")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "yes", os.Getenv("SEAT_TEST_FROM_FILE"))
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "off")
	t.Setenv("CACHE_TTL", "bogus")
	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Second, cfg.TTL)
	assert.Equal(t, "seatmap", cfg.Prefix)
}
