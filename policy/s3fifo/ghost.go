package s3fifo

import "github.com/gammazero/deque"

// ghost is a bounded FIFO log of keys evicted from the small queue without
// promotion. A key may be logged more than once; membership holds while at
// least one copy is still inside the window.
//
// Keys live in a ring (oldest at the back) and a multiplicity index gives
// O(1) membership without losing the oldest-first eviction order.
type ghost[K comparable] struct {
	size  int
	keys  deque.Deque[K]
	count map[K]int
}

func newGhost[K comparable](size int) *ghost[K] {
	g := &ghost[K]{
		size:  size,
		count: make(map[K]int, size),
	}
	g.keys.Grow(size)
	return g
}

// push logs k as the newest ghost, dropping the oldest one when full.
func (g *ghost[K]) push(k K) {
	for g.keys.Len() > 0 && g.keys.Len() >= g.size {
		g.forget(g.keys.PopBack())
	}
	g.keys.PushFront(k)
	g.count[k]++
}

func (g *ghost[K]) contains(k K) bool { return g.count[k] > 0 }

func (g *ghost[K]) len() int { return g.keys.Len() }

func (g *ghost[K]) forget(k K) {
	if n := g.count[k]; n > 1 {
		g.count[k] = n - 1
	} else {
		delete(g.count, k)
	}
}
