package services

import (
	"fmt"
	"playtrack/internal/providers"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

type Operation string

const (
	OpLatestSummary Operation = "summary_latest"
	OpHistory       Operation = "summary_history"
	OpTopItems      Operation = "top_items"
	OpTrends        Operation = "trends"
	OpStreaks       Operation = "streaks"
	OpHeatmap       Operation = "heatmap"
	OpCompare       Operation = "compare"
	OpItemSearch    Operation = "item_search"
	OpItemDetails   Operation = "item_details"
)

var operationTTLs = map[Operation]time.Duration{
	OpLatestSummary: 5 * time.Minute,
	OpHistory:       10 * time.Minute,
	OpTopItems:      10 * time.Minute,
	OpTrends:        30 * time.Minute,
	OpStreaks:       30 * time.Minute,
	OpHeatmap:       30 * time.Minute,
	OpCompare:       10 * time.Minute,
	OpItemSearch:    time.Hour,
	OpItemDetails:   5 * time.Minute,
}

// SummaryOperations are the cached results derived from daily summaries.
var SummaryOperations = []Operation{OpLatestSummary, OpHistory, OpTopItems, OpTrends, OpStreaks, OpHeatmap}

type ResultCacheInterface interface {
	Key(op Operation, params string) string
	Get(key string, dest interface{}) bool
	Set(op Operation, key string, value interface{})
	Do(key string, fn func() (interface{}, error)) (interface{}, error)
	Invalidate(ops ...Operation)
	InvalidateAll()
}

// ResultCache stores JSON-encoded query results keyed by operation, generation and parameters.
// Invalidation bumps the generation so stale keys are never read again and age out by TTL.
type ResultCache struct {
	cache       providers.CacheProviderInterface
	logger      providers.Logger
	group       singleflight.Group
	generations map[Operation]*atomic.Uint64
}

func NewResultCache(cache providers.CacheProviderInterface, logger providers.Logger) *ResultCache {
	generations := make(map[Operation]*atomic.Uint64, len(operationTTLs))
	for op := range operationTTLs {
		generations[op] = new(atomic.Uint64)
	}
	return &ResultCache{cache: cache, logger: logger, generations: generations}
}

// Key pins the operation's current generation. A result stored under it after an
// invalidation is unreachable.
func (rc *ResultCache) Key(op Operation, params string) string {
	var gen uint64
	if g, ok := rc.generations[op]; ok {
		gen = g.Load()
	}
	return fmt.Sprintf("%s:%d:%s", op, gen, params)
}

func (rc *ResultCache) Get(key string, dest interface{}) bool {
	data, ok := rc.cache.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		rc.logger.Warnf(providers.TypeApp, "Dropping undecodable cache entry %s: %s", key, err)
		return false
	}
	return true
}

func (rc *ResultCache) Set(op Operation, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		rc.logger.Warnf(providers.TypeApp, "Cannot encode %s result for cache: %s", op, err)
		return
	}
	rc.cache.Set(key, data, operationTTLs[op])
}

// Do collapses concurrent identical loads into one call of fn.
func (rc *ResultCache) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	v, err, _ := rc.group.Do(key, fn)
	return v, err
}

// Invalidate never fails the caller; a panic while invalidating is logged and swallowed.
func (rc *ResultCache) Invalidate(ops ...Operation) {
	defer func() {
		if r := recover(); r != nil {
			rc.logger.Errorf(providers.TypeApp, "Cache invalidation panicked: %v", r)
		}
	}()
	for _, op := range ops {
		if g, ok := rc.generations[op]; ok {
			g.Add(1)
		}
	}
}

func (rc *ResultCache) InvalidateAll() {
	ops := make([]Operation, 0, len(rc.generations))
	for op := range rc.generations {
		ops = append(ops, op)
	}
	rc.Invalidate(ops...)
}

// cached returns the cached result for (op, params) or loads, stores and returns it.
// Errors from load are never cached.
func cached[T any](rc ResultCacheInterface, op Operation, params string, load func() (T, error)) (T, error) {
	var out T
	key := rc.Key(op, params)
	if rc.Get(key, &out) {
		return out, nil
	}
	v, err := rc.Do(key, func() (interface{}, error) {
		res, err := load()
		if err != nil {
			return nil, err
		}
		rc.Set(op, key, res)
		return res, nil
	})
	if err != nil {
		return out, err
	}
	return v.(T), nil
}
