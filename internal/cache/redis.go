package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/0xgasc/flyin-sub000/config"
	"github.com/0xgasc/flyin-sub000/internal/domain"
	"github.com/0xgasc/flyin-sub000/internal/pricing"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client         *redis.Client
	experiencesTTL time.Duration
	quoteTTL       time.Duration
	lockTTL        time.Duration
}

func NewRedisCache(cfg config.RedisConfig, cacheCfg config.CacheConfig) *RedisCache {
	return &RedisCache{
		client:         redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		experiencesTTL: time.Duration(cacheCfg.ExperiencesTTLSeconds) * time.Second,
		quoteTTL:       time.Duration(cacheCfg.QuoteTTLSeconds) * time.Second,
		lockTTL:        time.Duration(cacheCfg.ApprovalLockSeconds) * time.Second,
	}
}

func (c *RedisCache) GetExperiences(ctx context.Context) ([]domain.Experience, error) {
	data, err := c.client.Get(ctx, experiencesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var experiences []domain.Experience
	if err := json.Unmarshal(data, &experiences); err != nil {
		return nil, err
	}
	return experiences, nil
}

func (c *RedisCache) SetExperiences(ctx context.Context, experiences []domain.Experience) error {
	payload, err := json.Marshal(experiences)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, experiencesKey(), payload, c.experiencesTTL).Err()
}

// GetQuote returns a cached transport breakdown, or nil on miss. Quotes are
// safe to cache because rates and the location table only change on deploy.
func (c *RedisCache) GetQuote(ctx context.Context, key string) (*pricing.Breakdown, error) {
	data, err := c.client.Get(ctx, quoteKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var breakdown pricing.Breakdown
	if err := json.Unmarshal(data, &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (c *RedisCache) SetQuote(ctx context.Context, key string, breakdown *pricing.Breakdown) error {
	payload, err := json.Marshal(breakdown)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quoteKey(key), payload, c.quoteTTL).Err()
}

// AcquireApprovalLock takes a short exclusive lock on a transaction so two
// admins clicking approve at once funnel into one DB write.
func (c *RedisCache) AcquireApprovalLock(ctx context.Context, txID string) (bool, error) {
	return c.client.SetNX(ctx, approvalLockKey(txID), "locked", c.lockTTL).Result()
}

func (c *RedisCache) ReleaseApprovalLock(ctx context.Context, txID string) error {
	return c.client.Del(ctx, approvalLockKey(txID)).Err()
}

func experiencesKey() string {
	return "cache:experiences"
}

func quoteKey(key string) string {
	return "cache:quote:" + key
}

func approvalLockKey(txID string) string {
	return fmt.Sprintf("lock:transaction:%s", txID)
}
