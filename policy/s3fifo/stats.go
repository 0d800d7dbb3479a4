package s3fifo

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Hits   uint64
	Misses uint64

	Inserts    uint64
	GhostHits  uint64 // inserts fast-tracked to main by the ghost log
	Promotions uint64 // small -> main
	Demotions  uint64 // small -> ghost
	Merges     uint64 // hot small duplicates folded into a younger copy
	Recycles   uint64 // main entries re-queued with one less credit
	Discards   uint64 // main entries dropped for good

	SmallGrows   uint64
	SmallShrinks uint64
}

// Stats returns a snapshot of the counters. Hits and Misses may be read
// concurrently with Read; the rest require that no Insert is running.
func (e *Engine[K, V]) Stats() Stats {
	s := e.st
	s.Hits = e.hits.Load()
	s.Misses = e.misses.Load()
	return s
}

// Add accumulates o into s; used to aggregate per-shard snapshots.
func (s *Stats) Add(o Stats) {
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Inserts += o.Inserts
	s.GhostHits += o.GhostHits
	s.Promotions += o.Promotions
	s.Demotions += o.Demotions
	s.Merges += o.Merges
	s.Recycles += o.Recycles
	s.Discards += o.Discards
	s.SmallGrows += o.SmallGrows
	s.SmallShrinks += o.SmallShrinks
}

// HitRatio returns Hits / (Hits + Misses), or 0 when nothing was read.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
