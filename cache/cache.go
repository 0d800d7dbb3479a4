package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/IvanBrykalov/s3fifo/internal/singleflight"
	"github.com/IvanBrykalov/s3fifo/internal/util"
	"github.com/IvanBrykalov/s3fifo/policy/s3fifo"
)

var (
	// ErrNoLoader is returned by GetOrLoad when no Loader was configured in Options.
	ErrNoLoader = errors.New("cache: no Loader provided")
	// ErrClosed is returned by GetOrLoad after Close.
	ErrClosed = errors.New("cache: closed")
)

// Stats aggregates engine counters and queue occupancy across shards.
type Stats struct {
	s3fifo.Stats

	Shards   int
	SmallCap int // sum of the shards' current small caps
	MainCap  int
	SmallLen int
	MainLen  int
	GhostLen int

	Loads      uint64 // loader invocations
	LoadErrors uint64
}

// cache is a sharded in-memory KV store, one S3-FIFO engine per shard.
type cache[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   func(K) uint64
	closed atomic.Bool

	opt Options[K, V]

	// singleflight group for coalescing concurrent loads in GetOrLoad.
	sf singleflight.Group[K, V]
}

// New constructs a cache with the provided Options.
// It panics if neither Capacity nor Engine is set.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 && opt.Engine == nil {
		panic("cache: Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Hash == nil {
		opt.Hash = util.KeyHash[K]
	}

	n := util.ShardCount(opt.Shards)
	cfg := s3fifo.ConfigFor(util.SplitEven(opt.Capacity, n))
	if opt.Engine != nil {
		cfg = opt.Engine.Normalize()
	}

	cs := make([]*shard[K, V], n)
	for i := range cs {
		cs[i] = newShard[K, V](cfg, opt)
	}
	return &cache[K, V]{
		shards: cs,
		hash:   opt.Hash,
		opt:    opt,
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Insert(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Insert(k, v)
}

func (c *cache[K, V]) Set(k K, v V) {
	if c.closed.Load() {
		return
	}
	c.getShard(k).Set(k, v)
}

func (c *cache[K, V]) Add(k K, v V) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Add(k, v)
}

func (c *cache[K, V]) Get(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Get(k)
}

func (c *cache[K, V]) Peek(k K) (V, bool) {
	if c.closed.Load() {
		var zero V
		return zero, false
	}
	return c.getShard(k).Peek(k)
}

func (c *cache[K, V]) Contains(k K) bool {
	if c.closed.Load() {
		return false
	}
	return c.getShard(k).Contains(k)
}

// Len returns the total number of resident entries across all shards.
func (c *cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.Len()
	}
	return total
}

// Stats sums per-shard snapshots. Shards are visited one at a time, so the
// result is not a single consistent cut under concurrent writes.
func (c *cache[K, V]) Stats() Stats {
	st := Stats{Shards: len(c.shards)}
	for _, s := range c.shards {
		s.stats(&st)
	}
	return st
}

// Close marks the cache as closed. Future operations are ignored.
func (c *cache[K, V]) Close() error {
	c.closed.Store(true)
	return nil
}

// GetOrLoad returns the value for k; on miss it loads via Options.Loader,
// coalescing concurrent loads for the same key. Loaded values are admitted
// with Add; loader errors are not cached.
func (c *cache[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}
	if v, ok := c.Get(k); ok {
		return v, nil
	}
	if c.opt.Loader == nil {
		return zero, ErrNoLoader
	}

	s := c.getShard(k)
	v, _, err := c.sf.Do(ctx, k, func() (V, error) {
		// double-check after flight join
		if v, ok := s.Peek(k); ok {
			return v, nil
		}
		s.loads.Add(1)
		v, err := c.opt.Loader(ctx, k)
		if err != nil {
			s.loadErrors.Add(1)
			return v, fmt.Errorf("cache: load %v: %w", k, err)
		}
		s.Add(k, v)
		return v, nil
	})
	return v, err
}

// getShard picks a shard by hashing the key and masking with len-1.
func (c *cache[K, V]) getShard(k K) *shard[K, V] {
	return c.shards[util.ShardIndex(c.hash(k), len(c.shards))]
}
