package cache

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Insert()           {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) SmallResize(int)   {}

var _ Metrics = NoopMetrics{}
