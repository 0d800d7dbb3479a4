// Package policy holds the contracts shared by eviction engines and the
// cache shell that drives them.
package policy

// EvictReason explains why a value stopped being resident.
type EvictReason int

const (
	// EvictDemoted: a cold entry left the small queue; its key went to the ghost queue.
	EvictDemoted EvictReason = iota
	// EvictDiscarded: an entry with no frequency credit left the main queue for good.
	EvictDiscarded
	// EvictMerged: a hot duplicate left the small queue and its credit was
	// folded into a younger copy of the same key.
	EvictMerged
)

// String returns a stable lower-case name, suitable for metric labels.
func (r EvictReason) String() string {
	switch r {
	case EvictDemoted:
		return "demoted"
	case EvictDiscarded:
		return "discarded"
	case EvictMerged:
		return "merged"
	default:
		return "unknown"
	}
}

// Hooks are optional callbacks an engine invokes while it mutates its queues.
// They run under the caller's exclusive access; keep them lightweight and do
// not call back into the engine.
type Hooks[K comparable, V any] struct {
	// OnEvict is called when a value leaves residency.
	OnEvict func(k K, v V, reason EvictReason)
	// OnResize is called when the adaptive controller changes the small queue cap.
	OnResize func(oldSize, newSize int)
}
