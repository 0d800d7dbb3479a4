package cache

import (
	"context"

	"github.com/IvanBrykalov/s3fifo/policy"
	"github.com/IvanBrykalov/s3fifo/policy/s3fifo"
)

// EvictReason explains why an entry was removed.
type EvictReason = policy.EvictReason

const (
	// EvictDemoted: cold entry left the small queue; its key is remembered as a ghost.
	EvictDemoted = policy.EvictDemoted
	// EvictDiscarded: entry without frequency credit left the main queue.
	EvictDiscarded = policy.EvictDiscarded
	// EvictMerged: hot duplicate folded into a younger copy of its key.
	EvictMerged = policy.EvictMerged
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Insert is called once per physical entry admitted.
	Insert()
	Evict(reason EvictReason)
	// SmallResize reports a change of a shard's small queue cap by delta.
	// New reports every shard's initial cap as a positive delta.
	SmallResize(delta int)
}

// Options configures the cache. Zero values are safe; defaults are applied
// in New():
//   - Shards <= 0  => auto (≈ 2*GOMAXPROCS, power of two)
//   - nil Engine   => per-shard sizing derived from Capacity (s3fifo.ConfigFor)
//   - nil Hash     => xxhash over common key types
//   - nil Metrics  => NoopMetrics
type Options[K comparable, V any] struct {
	// Capacity is the total entry budget, split evenly across shards.
	// Each shard gives about 10% to the small queue and 90% to main.
	Capacity int

	// Shards defines the number of shards, rounded up to a power of two.
	Shards int

	// Engine overrides the per-shard queue sizing. Capacity is ignored when set.
	Engine *s3fifo.Config

	// Hash maps keys to shards. Required for key types util cannot hash.
	Hash func(K) uint64

	// Loader fetches a value on cache miss. Used by GetOrLoad.
	Loader func(ctx context.Context, k K) (V, error)

	// OnEvict is called under the shard lock whenever a value leaves the
	// cache; keep it lightweight and do not call back into the cache.
	OnEvict func(k K, v V, reason EvictReason)

	Metrics Metrics
}
