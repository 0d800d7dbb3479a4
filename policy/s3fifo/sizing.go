package s3fifo

// adjustPeriod is the number of inserts between two controller runs.
const adjustPeriod = 3

// adjustSmallSize nudges the small cap by one step.
//
// Grow when small is saturated by admissions; otherwise shrink when small
// saw repeat inserts since the last run, handing room back to main. The grow
// check wins even when the cap is already at its maximum.
func (e *Engine[K, V]) adjustSmallSize() {
	old := e.smallSize
	switch {
	case e.small.Len() == e.smallSize:
		e.smallSize = min(e.smallSize+1, e.smallMaxSize)
		if e.smallSize != old {
			e.st.SmallGrows++
		}
	case e.smallTouched && e.smallSize > e.smallMinSize:
		e.smallSize = max(e.smallSize-1, e.smallMinSize)
		e.st.SmallShrinks++
	}
	if e.smallSize != old {
		if cb := e.hooks.OnResize; cb != nil {
			cb(old, e.smallSize)
		}
	}
}
