package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "fashionhub:queue"
	redisDelayedKey = "fashionhub:queue:delayed"
)

// RedisDriver stores jobs in a redis list, with delayed jobs parked in a
// sorted set scored by their ready time.
type RedisDriver struct {
	rdb *redis.Client
}

// NewRedisDriver creates a driver over the given redis client.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	return &RedisDriver{rdb: rdb}
}

func (d *RedisDriver) Push(ctx context.Context, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("queue: encode envelope: %w", err)
	}
	return d.rdb.LPush(ctx, redisQueueKey, data).Err()
}

func (d *RedisDriver) PushDelayed(ctx context.Context, env envelope, delay time.Duration) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("queue: encode envelope: %w", err)
	}
	score := float64(time.Now().Add(delay).Unix())
	return d.rdb.ZAdd(ctx, redisDelayedKey, redis.Z{Score: score, Member: data}).Err()
}

// Pop promotes ready delayed jobs, then blocks on the main list.
func (d *RedisDriver) Pop(ctx context.Context) (envelope, error) {
	if err := d.promoteDelayed(ctx); err != nil {
		return envelope{}, err
	}

	res, err := d.rdb.BRPop(ctx, 2*time.Second, redisQueueKey).Result()
	if err == redis.Nil {
		// Timed out; let the worker loop retry, promoting delayed jobs again.
		return d.Pop(ctx)
	}
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
		return envelope{}, fmt.Errorf("queue: decode envelope: %w", err)
	}
	return env, nil
}

func (d *RedisDriver) promoteDelayed(ctx context.Context) error {
	now := fmt.Sprintf("%d", time.Now().Unix())
	members, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return err
	}
	for _, member := range members {
		removed, err := d.rdb.ZRem(ctx, redisDelayedKey, member).Result()
		if err != nil {
			return err
		}
		// Another worker may have promoted it first.
		if removed == 0 {
			continue
		}
		if err := d.rdb.LPush(ctx, redisQueueKey, member).Err(); err != nil {
			return err
		}
	}
	return nil
}
