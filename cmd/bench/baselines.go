package main

import (
	"fmt"

	"github.com/IvanBrykalov/s3fifo/cache"
	"github.com/IvanBrykalov/s3fifo/metrics/prom"
	"github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	policyS3FIFO = "s3fifo"
	policyLRU    = "lru"
	policyARC    = "arc"
)

// benchCache is the surface the workload drives.
type benchCache interface {
	Get(string) (string, bool)
	Set(string, string)
	Len() int
}

type (
	lruWrapper struct{ *lru.Cache[string, string] }
	arcWrapper struct{ *arc.ARCCache[string, string] }
)

func (w lruWrapper) Set(k, v string) { w.Add(k, v) }
func (w arcWrapper) Set(k, v string) { w.Add(k, v) }

// newBenchCache builds the cache under test. metrics is only wired into the
// S3-FIFO cache; the baselines carry their own locking and no hooks.
func newBenchCache(config Config, metrics *prom.Adapter) (benchCache, func(), error) {
	switch config.Policy {
	case policyS3FIFO:
		opt := cache.Options[string, string]{
			Capacity: config.Capacity,
			Shards:   config.Shards,
		}
		if metrics != nil {
			opt.Metrics = metrics
		}
		c := cache.New[string, string](opt)
		return c, func() { _ = c.Close() }, nil
	case policyLRU:
		c, err := lru.New[string, string](config.Capacity)
		if err != nil {
			return nil, nil, fmt.Errorf("lru: %w", err)
		}
		return lruWrapper{c}, func() {}, nil
	case policyARC:
		c, err := arc.NewARC[string, string](config.Capacity)
		if err != nil {
			return nil, nil, fmt.Errorf("arc: %w", err)
		}
		return arcWrapper{c}, func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", errUnknownPolicy, config.Policy)
}
