package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisConfig holds configuration for test Redis instances
type TestRedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DefaultTestRedisConfig returns the default test Redis configuration
func DefaultTestRedisConfig() *TestRedisConfig {
	return &TestRedisConfig{
		Addr: "localhost:6379",
		DB:   15, // Use DB 15 for tests to avoid conflicts
	}
}

// CreateTestRedisClient creates a Redis client for testing. It flushes the
// database before and after the test and skips when Redis is unreachable.
func CreateTestRedisClient(t *testing.T, cfg *TestRedisConfig) redis.UniversalClient {
	t.Helper()
	if cfg == nil {
		cfg = DefaultTestRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// CreateTestRedisClientOrSkip prefers a disposable container and falls back
// to a local Redis at TEST_REDIS_ADDR (or localhost:6379).
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	if addr, ok := StartRedisContainer(t); ok {
		return CreateTestRedisClient(t, &TestRedisConfig{Addr: addr})
	}

	cfg := DefaultTestRedisConfig()
	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	return CreateTestRedisClient(t, cfg)
}

// StartRedisContainer runs redis:7-alpine and returns its address. It
// reports false when Docker is unavailable.
func StartRedisContainer(t *testing.T) (string, bool) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Logf("redis container unavailable: %v", err)
		return "", false
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Logf("getting container host: %v", err)
		return "", false
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Logf("getting mapped port: %v", err)
		return "", false
	}

	return fmt.Sprintf("%s:%s", host, port.Port()), true
}
