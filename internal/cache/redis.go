package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stores the value and adds the key to every tag set. Tag sets live at least
// as long as the keys they list.
// KEYS: key, tags...  ARGV: value, ttl in milliseconds (0 for no expiry)
var setScript = redis.NewScript(`
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
else
	redis.call("SET", KEYS[1], ARGV[1])
end
for i = 2, #KEYS do
	redis.call("SADD", KEYS[i], KEYS[1])
	if ttl == 0 then
		redis.call("PERSIST", KEYS[i])
	else
		local current = redis.call("PTTL", KEYS[i])
		local fresh = current == -1 and redis.call("SCARD", KEYS[i]) == 1
		if fresh or (current >= 0 and current < ttl) then
			redis.call("PEXPIRE", KEYS[i], ttl)
		end
	end
end
return 1
`)

// Deletes every key listed in the tag sets and the sets themselves in one step.
// KEYS: tags...
var deleteByTagsScript = redis.NewScript(`
for i = 1, #KEYS do
	local keys = redis.call("SMEMBERS", KEYS[i])
	for j = 1, #keys, 500 do
		redis.call("DEL", unpack(keys, j, math.min(j + 499, #keys)))
	end
	redis.call("DEL", KEYS[i])
end
return 1
`)

// RedisCache stores values as plain strings and keeps one Redis set per tag
// listing the keys tagged with it.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Connects to addr and verifies the connection
func DialRedisCache(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedisCache(client), nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	var ms int64
	if ttl > 0 {
		ms = max(ttl.Milliseconds(), 1)
	}
	keys := append([]string{key}, tags...)
	return setScript.Run(ctx, c.client, keys, value, ms).Err()
}

func (c *RedisCache) DeleteByTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	return deleteByTagsScript.Run(ctx, c.client, tags).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
