package cache

import (
	"context"
	"encoding/json"
	"time"

	"problemtracker/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const keyList = "problems:list"

// ProblemCache caches the ordered problem list in Redis.
type ProblemCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProblemCache(rdb *redis.Client, ttl time.Duration) *ProblemCache {
	return &ProblemCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list, or ok=false on a miss.
func (c *ProblemCache) GetList(ctx context.Context) (list []models.Problem, ok bool, err error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, false, err
	}
	if list == nil {
		list = []models.Problem{}
	}
	return list, true, nil
}

func (c *ProblemCache) SetList(ctx context.Context, list []models.Problem) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// Invalidate drops the cached list; called after every write.
func (c *ProblemCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, keyList).Err()
}
