package s3fifo

import "sync/atomic"

// MaxFreq is the ceiling of the per-entry frequency counter.
// S3-FIFO uses a 2-bit counter; the field is wider but clamped to the same value.
const MaxFreq = 3

// entry is a resident key/value owned by exactly one of the small or main queues.
type entry[K comparable, V any] struct {
	key   K
	value V

	// freq is the only field mutated under shared access (by Read).
	freq atomic.Uint32

	// seq is stamped on every push; among duplicates of a key the highest
	// seq is the one nearest the front of its queue.
	seq    uint64
	inMain bool
}

// touch increments freq, saturating at MaxFreq. Safe for concurrent callers.
func (e *entry[K, V]) touch() {
	for {
		f := e.freq.Load()
		if f >= MaxFreq {
			return
		}
		if e.freq.CompareAndSwap(f, f+1) {
			return
		}
	}
}

// credit returns the current frequency counter.
func (e *entry[K, V]) credit() uint32 { return e.freq.Load() }

// absorb folds another entry's credit into e, saturating at MaxFreq.
// Exclusive access only.
func (e *entry[K, V]) absorb(f uint32) {
	sum := e.freq.Load() + f
	if sum > MaxFreq {
		sum = MaxFreq
	}
	e.freq.Store(sum)
}
