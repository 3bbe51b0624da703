package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

// ViewCounter buffers per-post view increments in redis so that hot posts do
// not turn every page view into a durable-store write. Keys look like
// "post:42:views". Request handlers only ever call Increment; the flush
// module is the sole reader and resetter. Nothing else touches these keys.
type ViewCounter struct {
	inner *redis.Client
}

const viewKeyPattern = "post:*:views"

// GetViewCounter connects to redis using REDIS_HOST/REDIS_PORT/REDIS_PASSWD
// and pings it once so a bad address fails at startup, not at first use.
func GetViewCounter(ctx context.Context) (*ViewCounter, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return &ViewCounter{inner: redisClient}, nil
}

// PostViewKey encodes the accumulator key for a post.
func PostViewKey(postId uint) string {
	return fmt.Sprintf("post:%d:views", postId)
}

// DecodePostViewKey extracts the post id out of an accumulator key.
func DecodePostViewKey(key string) (uint, error) {
	splits := strings.Split(key, ":")
	if len(splits) != 3 || splits[0] != "post" || splits[2] != "views" {
		return 0, fmt.Errorf("invalid view key: %s", key)
	}
	id, err := strconv.ParseUint(splits[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid view key: %s", key)
	}
	return uint(id), nil
}

// Increment atomically bumps the pending counter for a post and returns the
// new pending value.
func (v *ViewCounter) Increment(ctx context.Context, postId uint) (int64, error) {
	return v.inner.Incr(ctx, PostViewKey(postId)).Result()
}

// GetAndReset atomically reads the pending counter and resets it to zero.
// GETSET is what makes the flush lossless: an increment that lands after the
// swap is simply part of the next cycle.
func (v *ViewCounter) GetAndReset(ctx context.Context, key string) (int64, error) {
	res, err := v.inner.GetSet(ctx, key, 0).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(res, 10, 64)
}

// Pending reads the not-yet-flushed count for a post without resetting it.
func (v *ViewCounter) Pending(ctx context.Context, postId uint) (int64, error) {
	res, err := v.inner.Get(ctx, PostViewKey(postId)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(res, 10, 64)
}

// ListKeys enumerates every active accumulator key.
func (v *ViewCounter) ListKeys(ctx context.Context) ([]string, error) {
	return v.inner.Keys(ctx, viewKeyPattern).Result()
}

// Exists reports whether a post currently has a pending counter.
func (v *ViewCounter) Exists(ctx context.Context, postId uint) (bool, error) {
	n, err := v.inner.Exists(ctx, PostViewKey(postId)).Result()
	return n > 0, err
}

// Delete drops a post's pending counter, e.g. when the post itself is
// deleted.
func (v *ViewCounter) Delete(ctx context.Context, postId uint) error {
	return v.inner.Del(ctx, PostViewKey(postId)).Err()
}

// Close tears down the underlying connection. Called once at process stop.
func (v *ViewCounter) Close() error {
	return v.inner.Close()
}
