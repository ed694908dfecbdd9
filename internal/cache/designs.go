package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/geocoder89/designhub/internal/domain/design"
	"github.com/geocoder89/designhub/internal/observability"
	"github.com/redis/go-redis/v9"
)

type DesignStore interface {
	Create(ctx context.Context, req design.CreateRequest) (design.Design, error)
	ListByOwner(ctx context.Context, userID int64) ([]design.Design, error)
}

// DesignsCache keeps each owner's list in redis under a per-owner
// generation. Create bumps the generation after a successful insert, so a
// list read before the insert can only land under a generation no later
// read asks for.
type DesignsCache struct {
	next DesignStore
	rdb  redis.UniversalClient
	ttl  time.Duration
	prom *observability.Prom
	log  *slog.Logger
}

func NewDesignsCache(next DesignStore, rdb redis.UniversalClient, ttl time.Duration, prom *observability.Prom, log *slog.Logger) *DesignsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}

	return &DesignsCache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		prom: prom,
		log:  log,
	}
}

func genKey(userID int64) string {
	return "designs:gen:" + strconv.FormatInt(userID, 10)
}

func listKey(userID, gen int64) string {
	return "designs:owner:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10)
}

func (c *DesignsCache) Create(ctx context.Context, req design.CreateRequest) (design.Design, error) {
	d, err := c.next.Create(ctx, req)
	if err != nil {
		return d, err
	}

	if err := c.rdb.Incr(ctx, genKey(req.UserID)).Err(); err != nil {
		c.log.WarnContext(ctx, "designs cache invalidate failed", "user_id", req.UserID, "err", err)
	}

	return d, nil
}

func (c *DesignsCache) generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *DesignsCache) ListByOwner(ctx context.Context, userID int64) ([]design.Design, error) {
	// the generation must be read before the store query
	gen, err := c.generation(ctx, userID)
	if err != nil {
		c.record("error")
		c.log.WarnContext(ctx, "designs cache read failed", "user_id", userID, "err", err)
		return c.next.ListByOwner(ctx, userID)
	}
	key := listKey(userID, gen)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var designs []design.Design
		if jsonErr := json.Unmarshal(raw, &designs); jsonErr == nil && designs != nil {
			c.record("hit")
			return designs, nil
		}
		c.record("error")
	case errors.Is(err, redis.Nil):
		c.record("miss")
	default:
		c.record("error")
		c.log.WarnContext(ctx, "designs cache read failed", "user_id", userID, "err", err)
	}

	designs, err := c.next.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(designs); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.WarnContext(ctx, "designs cache write failed", "user_id", userID, "err", err)
		}
	}

	return designs, nil
}

func (c *DesignsCache) record(result string) {
	if c.prom != nil {
		c.prom.CacheResults.WithLabelValues(result).Inc()
	}
}
