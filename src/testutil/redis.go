package testutil

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
)

// SetupTestRedis connects to TEST_REDIS_URL and flushes the selected db on cleanup
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	url := RequireEnv(t, "TEST_REDIS_URL")

	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("failed to parse TEST_REDIS_URL: %v", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("connection to test redis failed: %v", err)
	}

	t.Cleanup(func() {
		_ = rdb.FlushDB(context.Background()).Err()
		_ = rdb.Close()
	})

	return rdb
}
