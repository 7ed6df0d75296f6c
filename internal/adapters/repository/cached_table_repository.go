package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/logger"
	"github.com/comitanigiacomo/kanso-dashboard/pkg/metrics"
)

var _ domain.TableRepository = (*CachedTableRepository)(nil)

const cacheKeyPrefix = "habit_table:"

// CachedTableRepository memoizes the parsed table per source version.
// The first layer is process memory; the optional second layer is Redis, so that
// several replicas parse a given file once. Tables handed out are shared and must
// be treated as read-only.
type CachedTableRepository struct {
	next  domain.TableRepository
	cache *redis.Client
	ttl   time.Duration
	log   *logger.Logger

	mu      sync.RWMutex
	version string
	table   *domain.Table

	group singleflight.Group
}

// NewCachedTableRepository wraps next. cache may be nil to keep only the memory layer.
func NewCachedTableRepository(next domain.TableRepository, cache *redis.Client, ttl time.Duration, log *logger.Logger) *CachedTableRepository {
	return &CachedTableRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func (r *CachedTableRepository) cacheKey(version string) string {
	return cacheKeyPrefix + version
}

func (r *CachedTableRepository) Version(ctx context.Context) (string, error) {
	return r.next.Version(ctx)
}

func (r *CachedTableRepository) Load(ctx context.Context) (*domain.Table, error) {
	version, err := r.next.Version(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	if r.table != nil && r.version == version {
		table := r.table
		r.mu.RUnlock()
		metrics.RecordCacheLookup("memory", "hit")
		return table, nil
	}
	r.mu.RUnlock()
	metrics.RecordCacheLookup("memory", "miss")

	// The load is shared by every caller waiting on this version, so one cancelled
	// request must not fail the others.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(version, func() (interface{}, error) {
		return r.loadVersion(shared, version)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Table), nil
}

// Invalidate drops the cached table, in memory and in Redis, so the next Load reads
// the source again.
func (r *CachedTableRepository) Invalidate(ctx context.Context) {
	r.mu.Lock()
	version := r.version
	r.version = ""
	r.table = nil
	r.mu.Unlock()

	if r.cache == nil || version == "" {
		return
	}
	if err := r.cache.Del(ctx, r.cacheKey(version)).Err(); err != nil {
		r.log.Warn("redis delete failed", "key", r.cacheKey(version), "error", err)
	}
}

func (r *CachedTableRepository) loadVersion(ctx context.Context, version string) (*domain.Table, error) {
	if table := r.fromRedis(ctx, version); table != nil {
		r.remember(version, table)
		return table, nil
	}

	table, err := r.next.Load(ctx)
	if err != nil {
		return nil, err
	}

	r.remember(version, table)
	r.toRedis(ctx, version, table)
	return table, nil
}

func (r *CachedTableRepository) remember(version string, table *domain.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.version = version
	r.table = table
}

func (r *CachedTableRepository) fromRedis(ctx context.Context, version string) *domain.Table {
	if r.cache == nil {
		return nil
	}

	key := r.cacheKey(version)
	data, err := r.cache.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheLookup("redis", "miss")
		} else {
			metrics.RecordCacheLookup("redis", "error")
			r.log.Warn("redis read failed", "key", key, "error", err)
		}
		return nil
	}

	table, err := cache.DecodeTable(data)
	if err != nil {
		metrics.RecordCacheLookup("redis", "error")
		r.log.Warn("corrupted cached table, cleaning up key", "key", key, "error", err)
		r.cache.Del(ctx, key)
		return nil
	}

	metrics.RecordCacheLookup("redis", "hit")
	return table
}

func (r *CachedTableRepository) toRedis(ctx context.Context, version string, table *domain.Table) {
	if r.cache == nil {
		return
	}

	data, err := cache.EncodeTable(table)
	if err != nil {
		r.log.Warn("cannot encode table for redis", "error", err)
		return
	}
	if err := r.cache.Set(ctx, r.cacheKey(version), data, r.ttl).Err(); err != nil {
		r.log.Warn("redis set failed", "error", err)
	}
}
