package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/bookit/internal/catalog/application"
	"github.com/dmehra2102/bookit/internal/catalog/domain"
)

const listKey = "catalog:experiences"

func experienceKey(id int64) string {
	return fmt.Sprintf("catalog:experience:%d", id)
}

// Cache is a read-through cache in front of the catalog repository. Cache
// failures fall back to the repository and are only logged.
type Cache struct {
	log  *slog.Logger
	rdb  redis.Cmdable
	next application.ExperienceRepository
	ttl  time.Duration
}

func NewCache(log *slog.Logger, rdb redis.Cmdable, next application.ExperienceRepository, ttl time.Duration) *Cache {
	return &Cache{log: log, rdb: rdb, next: next, ttl: ttl}
}

func (c *Cache) ListExperiences(ctx context.Context) ([]domain.Experience, error) {
	var exps []domain.Experience
	if c.get(ctx, listKey, &exps) {
		return exps, nil
	}
	exps, err := c.next.ListExperiences(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, listKey, exps)
	return exps, nil
}

func (c *Cache) GetExperience(ctx context.Context, id int64) (domain.Experience, error) {
	key := experienceKey(id)
	var e domain.Experience
	if c.get(ctx, key, &e) {
		return e, nil
	}
	e, err := c.next.GetExperience(ctx, id)
	if err != nil {
		return domain.Experience{}, err
	}
	c.set(ctx, key, e)
	return e, nil
}

func (c *Cache) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.Warn("catalog cache get failed", "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		c.log.Warn("catalog cache decode failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, string(b), c.ttl).Err(); err != nil {
		c.log.Warn("catalog cache set failed", "key", key, "err", err)
	}
}
