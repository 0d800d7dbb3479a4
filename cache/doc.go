// Package cache provides a generic, sharded in-memory cache whose eviction
// is driven by one S3-FIFO engine per shard (see policy/s3fifo), with
// optional singleflight loading and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: keys are spread over a power-of-two number of shards by
//     hash. Each shard guards its engine with an RWMutex: Get/Peek/Contains
//     take the read lock (a hit only bumps an atomic frequency counter),
//     Insert/Set/Add take the write lock.
//
//   - Sizing: Capacity is split evenly across shards; each shard gives about
//     10% to the small queue and 90% to main, and the small cap adapts at
//     runtime. Options.Engine overrides the per-shard sizing.
//
//   - Writes: Insert never dedupes (a resident key gets a second physical
//     entry). Set is the upsert: it updates a resident entry in place and
//     keeps its frequency credit. Add inserts only when the key is absent.
//
//   - GetOrLoad: coalesces concurrent loads for the same key using
//     singleflight. If Loader is nil, GetOrLoad returns ErrNoLoader.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Insert/Evict/SmallResize
//     signals. NoopMetrics is the default; metrics/prom exports them to
//     Prometheus.
//
//   - Callbacks: Options.OnEvict(k, v, reason) is called for every value that
//     leaves the cache (EvictDemoted, EvictDiscarded, EvictMerged).
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//
// With GetOrLoad (singleflight)
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    Loader: func(ctx context.Context, k string) (string, error) {
//	        return "v:" + k, nil // e.g. fetch from DB
//	    },
//	})
//	v, err := c.GetOrLoad(context.Background(), "key")
//
// Exporting metrics
//
//	m := prom.New(nil, "s3fifo", "demo", nil) // implements Metrics
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 10_000,
//	    Metrics:  m,
//	})
package cache
