package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"gotest.tools/v3/assert"
)

// setupTestRedis returns a client for a local Redis and skips the test when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use DB 15 for testing to avoid conflicts
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	client.FlushDB(ctx)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisCache(t *testing.T) {
	c := NewRedisCache(setupTestRedis(t))
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "jsonadm:product:/a")
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/a", []byte("one"), time.Minute, "jsonadm:product"))
	assert.NilError(t, c.Set(ctx, "jsonadm:product:/b", []byte("two"), time.Minute, "jsonadm:product"))
	assert.NilError(t, c.Set(ctx, "jsonadm:order:/a", []byte("three"), time.Minute, "jsonadm:order"))

	b, ok, err := c.Get(ctx, "jsonadm:product:/a")
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, "one", string(b))

	assert.NilError(t, c.DeleteByTags(ctx, "jsonadm:product"))
	_, ok, _ = c.Get(ctx, "jsonadm:product:/b")
	assert.Assert(t, !ok)
	_, ok, _ = c.Get(ctx, "jsonadm:order:/a")
	assert.Assert(t, ok, "other tags must survive")
}

func TestDialRedisCacheFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := DialRedisCache(ctx, "127.0.0.1:1")
	assert.Assert(t, err != nil)
}

func TestRedisCacheTagSetsExpire(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/a", []byte("one"), time.Minute, "jsonadm:product"))
	tagTTL := client.PTTL(ctx, "jsonadm:product").Val()
	assert.Assert(t, tagTTL > 59*time.Second, "tag set ttl %v", tagTTL)

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/b", []byte("two"), time.Hour, "jsonadm:product"))
	tagTTL = client.PTTL(ctx, "jsonadm:product").Val()
	assert.Assert(t, tagTTL > 59*time.Minute, "tag set must outlive its longest key, ttl %v", tagTTL)

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/c", []byte("three"), time.Second, "jsonadm:product"))
	tagTTL = client.PTTL(ctx, "jsonadm:product").Val()
	assert.Assert(t, tagTTL > 59*time.Minute, "a shorter ttl must not shrink the tag set, ttl %v", tagTTL)

	assert.NilError(t, c.Set(ctx, "jsonadm:order:/a", []byte("four"), 0, "jsonadm:order"))
	assert.Equal(t, time.Duration(-1), client.PTTL(ctx, "jsonadm:order").Val())
	assert.Equal(t, time.Duration(-1), client.PTTL(ctx, "jsonadm:order:/a").Val())
}

func TestRedisCacheDeleteByTagsRemovesTagSet(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCache(client)
	ctx := context.Background()

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/a", []byte("one"), time.Minute, "jsonadm:product", "jsonadm:all"))
	assert.NilError(t, c.DeleteByTags(ctx, "jsonadm:product", "jsonadm:missing"))

	assert.Equal(t, int64(0), client.Exists(ctx, "jsonadm:product:/a", "jsonadm:product").Val())
	assert.NilError(t, c.DeleteByTags(ctx))

	assert.NilError(t, c.Set(ctx, "jsonadm:product:/a", []byte("again"), time.Minute, "jsonadm:product"))
	assert.NilError(t, c.DeleteByTags(ctx, "jsonadm:product"))
	_, ok, err := c.Get(ctx, "jsonadm:product:/a")
	assert.NilError(t, err)
	assert.Assert(t, !ok, "keys tagged after an invalidation are invalidated again")
}
