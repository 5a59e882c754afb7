package testing

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

const redisImage = "redis:7-alpine"

// RedisClient starts a Redis container for the place cache and returns a
// connected client. Both are released on test cleanup. The test is skipped
// when Docker is unavailable.
func RedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := TestContext(t)

	container, err := redis.Run(ctx,
		redisImage,
		redis.WithLogLevel(redis.LogLevelNotice),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	opts, err := goredis.ParseURL(connStr)
	if err != nil {
		t.Fatalf("parse redis url %q: %v", connStr, err)
	}

	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
