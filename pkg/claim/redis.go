package claim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/matzehuels/stackmotion/pkg/errors"
)

// releaseScript deletes the key only if it still holds our token.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// RedisClaimer claims transitions with SET NX PX on a shared Redis, so
// workers on different hosts writing to the same output tree coordinate.
type RedisClaimer struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis claimer. Keys are prefix + "claim:" + index.
func NewRedis(client *backend.Client, prefix string, ttl time.Duration) *RedisClaimer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisClaimer{client: client, prefix: prefix, ttl: ttl}
}

// NewRedisFromAddr dials a Redis server at addr.
func NewRedisFromAddr(addr, password string, db int, prefix string, ttl time.Duration) *RedisClaimer {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedis(client, prefix, ttl)
}

func (c *RedisClaimer) key(index int) string {
	return fmt.Sprintf("%sclaim:%06d", c.prefix, index)
}

// Claim acquires the key for index without waiting.
func (c *RedisClaimer) Claim(ctx context.Context, index int) (Release, error) {
	key := c.key(index)
	token := uuid.NewString()

	ok, err := c.client.SetNX(ctx, key, token, c.ttl).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "redis claim %s", key)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeClaimed, "transition %d claimed in redis (%s)", index, key)
	}
	return func(ctx context.Context) error {
		return c.client.Eval(ctx, releaseScript, []string{key}, token).Err()
	}, nil
}

// Close closes the redis client.
func (c *RedisClaimer) Close() error {
	return c.client.Close()
}

// Ensure RedisClaimer implements Claimer.
var _ Claimer = (*RedisClaimer)(nil)
