package s3fifo

import (
	"sync/atomic"

	"github.com/IvanBrykalov/s3fifo/policy"
	"github.com/gammazero/deque"
)

// Engine is an S3-FIFO eviction structure: a probationary small queue, a
// protected main queue, and a key-only ghost log.
//
// Read, Peek, Contains and the length accessors may run concurrently with
// each other; Insert and Update need exclusive access. The frequency counter
// is the only state Read mutates, and it does so atomically.
type Engine[K comparable, V any] struct {
	// Front is the newest push, Back the next eviction candidate.
	small deque.Deque[*entry[K, V]]
	main  deque.Deque[*entry[K, V]]
	ghost *ghost[K]

	// resident indexes live entries by key. Duplicates of a key always share
	// one queue, so a slice rarely holds more than one element.
	resident map[K][]*entry[K, V]

	smallSize    int
	smallMinSize int
	smallMaxSize int
	mainSize     int

	insertCount  int
	smallTouched bool

	seq   uint64
	hooks policy.Hooks[K, V]

	hits   atomic.Uint64
	misses atomic.Uint64
	st     Stats // fields other than Hits/Misses, exclusive access
}

// New constructs an Engine from positional sizes. Out-of-range values are
// clamped as described in Config.Normalize.
func New[K comparable, V any](smallSize, smallMinSize, smallMaxSize, mainSize, insertCount int, smallTouched bool) *Engine[K, V] {
	return NewWithConfig[K, V](Config{
		SmallSize:    smallSize,
		SmallMinSize: smallMinSize,
		SmallMaxSize: smallMaxSize,
		MainSize:     mainSize,
		InsertCount:  insertCount,
		SmallTouched: smallTouched,
	}, policy.Hooks[K, V]{})
}

// NewWithConfig constructs an Engine with optional hooks.
func NewWithConfig[K comparable, V any](cfg Config, hooks policy.Hooks[K, V]) *Engine[K, V] {
	cfg = cfg.Normalize()
	e := &Engine[K, V]{
		ghost:        newGhost[K](cfg.MainSize),
		resident:     make(map[K][]*entry[K, V], cfg.SmallMaxSize+cfg.MainSize),
		smallSize:    cfg.SmallSize,
		smallMinSize: cfg.SmallMinSize,
		smallMaxSize: cfg.SmallMaxSize,
		mainSize:     cfg.MainSize,
		insertCount:  cfg.InsertCount,
		smallTouched: cfg.SmallTouched,
		hooks:        hooks,
	}
	e.small.Grow(cfg.SmallMaxSize)
	e.main.Grow(cfg.MainSize)
	return e
}

// Insert admits a new entry for k. An already resident key gets another
// physical entry (no dedupe); callers wanting upsert semantics use Update
// or check with Read first.
//
// Placement:
//   - key resident in main          -> main
//   - key resident in small         -> small
//   - key in the ghost log          -> main (the ghost key stays logged)
//   - otherwise                     -> small
//
// Every third insert runs the adaptive small-size controller.
func (e *Engine[K, V]) Insert(k K, v V) {
	e.st.Inserts++

	es := e.resident[k]
	inSmall := len(es) > 0 && !es[0].inMain
	if inSmall {
		e.smallTouched = true
	}

	n := &entry[K, V]{key: k, value: v}
	switch {
	case len(es) > 0 && es[0].inMain:
		e.pushMain(n)
	case inSmall:
		e.pushSmall(n)
	case e.ghost.contains(k):
		e.st.GhostHits++
		e.pushMain(n)
	default:
		e.pushSmall(n)
	}

	e.insertCount++
	if e.insertCount >= adjustPeriod {
		e.adjustSmallSize()
		e.insertCount = 0
		e.smallTouched = false
	}
}

// Read returns the value for k. On a hit the entry's frequency counter is
// incremented (saturating at MaxFreq). A miss has no side effects besides
// the miss counter.
func (e *Engine[K, V]) Read(k K) (V, bool) {
	n := e.lookup(k)
	if n == nil {
		e.misses.Add(1)
		var zero V
		return zero, false
	}
	n.touch()
	e.hits.Add(1)
	return n.value, true
}

// Peek returns the value for k without touching its frequency counter.
func (e *Engine[K, V]) Peek(k K) (V, bool) {
	if n := e.lookup(k); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether k is resident in the small or main queue.
func (e *Engine[K, V]) Contains(k K) bool { return len(e.resident[k]) > 0 }

// Update replaces the value of the entry Read would return for k, keeping
// its position and frequency. Returns false if k is not resident.
func (e *Engine[K, V]) Update(k K, v V) bool {
	n := e.lookup(k)
	if n == nil {
		return false
	}
	n.value = v
	return true
}

// Len returns the number of resident entries (duplicates included).
func (e *Engine[K, V]) Len() int { return e.small.Len() + e.main.Len() }

// SmallLen returns the number of entries in the small queue.
func (e *Engine[K, V]) SmallLen() int { return e.small.Len() }

// MainLen returns the number of entries in the main queue.
func (e *Engine[K, V]) MainLen() int { return e.main.Len() }

// GhostLen returns the number of keys in the ghost log.
func (e *Engine[K, V]) GhostLen() int { return e.ghost.len() }

// SmallSize returns the current cap of the small queue.
func (e *Engine[K, V]) SmallSize() int { return e.smallSize }

// MainSize returns the cap of the main and ghost queues.
func (e *Engine[K, V]) MainSize() int { return e.mainSize }

// lookup returns the resident entry nearest the front for k, or nil.
func (e *Engine[K, V]) lookup(k K) *entry[K, V] {
	es := e.resident[k]
	if len(es) == 0 {
		return nil
	}
	best := es[0]
	for _, n := range es[1:] {
		if n.seq > best.seq {
			best = n
		}
	}
	return best
}

// -------------------- queue moves (exclusive access) --------------------

func (e *Engine[K, V]) stamp(n *entry[K, V]) {
	e.seq++
	n.seq = e.seq
}

// pushSmall makes room in small and admits n there. If making room promoted
// the last small copy of n's key, n follows it into main.
func (e *Engine[K, V]) pushSmall(n *entry[K, V]) {
	if e.small.Len() >= e.smallSize {
		e.evictSmall()
		if es := e.resident[n.key]; len(es) > 0 && es[0].inMain {
			e.pushMain(n)
			return
		}
	}
	n.inMain = false
	e.stamp(n)
	e.small.PushFront(n)
	e.index(n)
}

// pushMain makes room in main and admits a new entry there.
func (e *Engine[K, V]) pushMain(n *entry[K, V]) {
	if e.main.Len() >= e.mainSize {
		e.evictMain()
	}
	n.inMain = true
	e.stamp(n)
	e.main.PushFront(n)
	e.index(n)
}

// evictSmall pops the oldest small entry. Hot entries (freq > 1) move to
// main; cold ones leave their key in the ghost log and drop the value.
func (e *Engine[K, V]) evictSmall() {
	if e.small.Len() == 0 {
		return
	}
	n := e.small.PopBack()
	if n.credit() > 1 {
		if young := e.youngestOther(n); young != nil {
			// Promoting would split the key across queues; fold the credit
			// into the surviving copy instead.
			young.absorb(n.credit())
			e.unindex(n)
			e.st.Merges++
			e.evicted(n, policy.EvictMerged)
			return
		}
		if e.main.Len() >= e.mainSize {
			e.evictMain()
		}
		n.inMain = true
		e.stamp(n)
		e.main.PushFront(n)
		e.st.Promotions++
		return
	}

	e.unindex(n)
	e.ghost.push(n.key)
	e.st.Demotions++
	e.evicted(n, policy.EvictDemoted)
}

// evictMain discards the oldest main entry without frequency credit.
// Entries with credit lose one unit and go back to the front, so in the
// worst case the queue is cycled MaxFreq times before a discard.
func (e *Engine[K, V]) evictMain() {
	for e.main.Len() > 0 {
		n := e.main.PopBack()
		if f := n.credit(); f > 0 {
			n.freq.Store(f - 1)
			e.stamp(n)
			e.main.PushFront(n)
			e.st.Recycles++
			continue
		}
		e.unindex(n)
		e.st.Discards++
		e.evicted(n, policy.EvictDiscarded)
		return
	}
}

func (e *Engine[K, V]) evicted(n *entry[K, V], reason policy.EvictReason) {
	if cb := e.hooks.OnEvict; cb != nil {
		cb(n.key, n.value, reason)
	}
}

// youngestOther returns the most recently pushed entry for n's key other
// than n itself, or nil.
func (e *Engine[K, V]) youngestOther(n *entry[K, V]) *entry[K, V] {
	var best *entry[K, V]
	for _, o := range e.resident[n.key] {
		if o != n && (best == nil || o.seq > best.seq) {
			best = o
		}
	}
	return best
}

func (e *Engine[K, V]) index(n *entry[K, V]) {
	e.resident[n.key] = append(e.resident[n.key], n)
}

func (e *Engine[K, V]) unindex(n *entry[K, V]) {
	es := e.resident[n.key]
	for i, o := range es {
		if o != n {
			continue
		}
		last := len(es) - 1
		es[i] = es[last]
		es[last] = nil
		es = es[:last]
		break
	}
	if len(es) == 0 {
		delete(e.resident, n.key)
		return
	}
	e.resident[n.key] = es
}
