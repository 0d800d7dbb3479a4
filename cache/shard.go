package cache

import (
	"sync"

	"github.com/IvanBrykalov/s3fifo/internal/util"
	"github.com/IvanBrykalov/s3fifo/policy"
	"github.com/IvanBrykalov/s3fifo/policy/s3fifo"
)

// shard is an independent partition of the cache: one S3-FIFO engine behind
// an RWMutex. The engine is single-writer; the read lock covers Read/Peek,
// which only touch atomic frequency counters.
type shard[K comparable, V any] struct {
	mu  sync.RWMutex
	eng *s3fifo.Engine[K, V]

	metrics Metrics

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_          util.CacheLinePad
	loads      util.PaddedAtomicUint64
	loadErrors util.PaddedAtomicUint64
}

func newShard[K comparable, V any](cfg s3fifo.Config, opt Options[K, V]) *shard[K, V] {
	s := &shard[K, V]{metrics: opt.Metrics}
	onEvict := opt.OnEvict
	s.eng = s3fifo.NewWithConfig[K, V](cfg, policy.Hooks[K, V]{
		OnEvict: func(k K, v V, r policy.EvictReason) {
			s.metrics.Evict(r)
			if onEvict != nil {
				onEvict(k, v, r)
			}
		},
		OnResize: func(oldSize, newSize int) {
			s.metrics.SmallResize(newSize - oldSize)
		},
	})
	s.metrics.SmallResize(s.eng.SmallSize())
	return s
}

// Insert appends k→v under the write lock.
func (s *shard[K, V]) Insert(k K, v V) {
	s.mu.Lock()
	s.eng.Insert(k, v)
	s.mu.Unlock()
	s.metrics.Insert()
}

// Set updates in place or inserts.
func (s *shard[K, V]) Set(k K, v V) {
	s.mu.Lock()
	if s.eng.Update(k, v) {
		s.mu.Unlock()
		return
	}
	s.eng.Insert(k, v)
	s.mu.Unlock()
	s.metrics.Insert()
}

// Add inserts only if k is not resident. Returns false if it is.
func (s *shard[K, V]) Add(k K, v V) bool {
	s.mu.Lock()
	if s.eng.Contains(k) {
		s.mu.Unlock()
		return false
	}
	s.eng.Insert(k, v)
	s.mu.Unlock()
	s.metrics.Insert()
	return true
}

// Get reads k under the read lock.
func (s *shard[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	v, ok := s.eng.Read(k)
	s.mu.RUnlock()
	if ok {
		s.metrics.Hit()
	} else {
		s.metrics.Miss()
	}
	return v, ok
}

func (s *shard[K, V]) Peek(k K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Peek(k)
}

func (s *shard[K, V]) Contains(k K) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Contains(k)
}

// Len returns the number of resident entries in this shard.
func (s *shard[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eng.Len()
}

// stats snapshots the engine and this shard's loader counters into st.
func (s *shard[K, V]) stats(st *Stats) {
	s.mu.RLock()
	es := s.eng.Stats()
	st.SmallCap += s.eng.SmallSize()
	st.MainCap += s.eng.MainSize()
	st.SmallLen += s.eng.SmallLen()
	st.MainLen += s.eng.MainLen()
	st.GhostLen += s.eng.GhostLen()
	s.mu.RUnlock()

	st.Stats.Add(es)
	st.Loads += s.loads.Load()
	st.LoadErrors += s.loadErrors.Load()
}
