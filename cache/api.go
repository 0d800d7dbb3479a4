package cache

import "context"

// Cache is a sharded, in-memory key/value cache driven by S3-FIFO.
// All methods are safe for concurrent use by multiple goroutines.
//
// Reads take a shard's read lock and only bump an atomic frequency counter,
// so hits on the same shard proceed in parallel. Writes take the shard's
// write lock.
type Cache[K comparable, V any] interface {
	// Insert appends k→v without looking for an existing entry.
	// A resident key gets a second physical entry; use Set for upserts.
	Insert(k K, v V)

	// Set updates the resident entry for k in place (keeping its frequency
	// credit), or inserts k→v when k is not resident.
	Set(k K, v V)

	// Add inserts k→v only if k is not resident.
	// Returns false if the key already exists (no update is performed).
	Add(k K, v V) bool

	// Get returns the value for k and a presence flag.
	// A hit adds frequency credit to the entry.
	Get(k K) (V, bool)

	// Peek is Get without frequency credit or hit/miss accounting.
	Peek(k K) (V, bool)

	// Contains reports whether k is resident.
	Contains(k K) bool

	// Len returns the number of resident entries across all shards.
	Len() int

	// Stats aggregates counters across shards.
	Stats() Stats

	// GetOrLoad returns the value for k, loading it via Options.Loader on miss.
	// Concurrent loads for the same key are coalesced (singleflight).
	// If no Loader was configured, returns ErrNoLoader.
	GetOrLoad(ctx context.Context, k K) (V, error)

	// Close marks the cache closed; later writes are ignored and reads miss.
	Close() error
}
