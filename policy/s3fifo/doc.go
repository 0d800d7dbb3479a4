// Package s3fifo implements the S3-FIFO eviction structure from
// "FIFO Queues are ALL You Need for Cache Eviction" (Yang et al., SOSP'23).
//
// Design
//
//   - Queues: a small probationary FIFO, a main protected FIFO and a ghost
//     FIFO of bare keys. New keys enter small; a key found in the ghost log
//     enters main directly.
//
//   - Frequency: every entry carries a 2-bit style counter (0..3) bumped by
//     Read. Small eviction promotes entries read at least twice and demotes
//     the rest to the ghost log. Main eviction re-queues entries with credit,
//     one unit cheaper, until it finds one with none.
//
//   - Adaptive split: every third insert the small cap grows by one when small
//     is full, or shrinks by one when small saw repeat inserts, within
//     [SmallMinSize, SmallMaxSize].
//
//   - Duplicates: Insert never dedupes. Repeated inserts of a resident key
//     add entries to the queue the key already occupies, so a key is never
//     split across small and main.
//
// Concurrency
//
// Engine has a single-writer contract: Insert and Update need exclusive
// access; Read, Peek, Contains and the length accessors may run in parallel
// with each other. The frequency counter is an atomic field, which is what
// lets Read run under a shared lock. The cache package wraps an Engine per
// shard with a sync.RWMutex to enforce this.
//
// Basic usage
//
//	e := s3fifo.New[string, []byte](4, 2, 8, 20, 0, false)
//	e.Insert("a", []byte("1"))
//	if v, ok := e.Read("a"); ok {
//	    _ = v
//	}
package s3fifo
