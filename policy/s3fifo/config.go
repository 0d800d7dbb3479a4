package s3fifo

// Config sizes an Engine. Zero values are safe: Normalize clamps every field
// into a usable range, so construction never fails.
type Config struct {
	// SmallSize is the initial cap of the small (probationary) queue.
	SmallSize int
	// SmallMinSize and SmallMaxSize bound the adaptive controller.
	SmallMinSize int
	SmallMaxSize int
	// MainSize is the cap of the main queue; the ghost queue mirrors it.
	MainSize int

	// InsertCount seeds the insert tick (the controller runs when it reaches 3).
	InsertCount int
	// SmallTouched seeds the "small queue saw a repeat insert" flag.
	SmallTouched bool
}

// Normalize returns a copy of c with:
//   - SmallMinSize >= 1
//   - SmallMaxSize >= SmallMinSize
//   - SmallSize within [SmallMinSize, SmallMaxSize]
//   - MainSize >= 1
//   - InsertCount >= 0
func (c Config) Normalize() Config {
	if c.SmallMinSize < 1 {
		c.SmallMinSize = 1
	}
	if c.SmallMaxSize < c.SmallMinSize {
		c.SmallMaxSize = c.SmallMinSize
	}
	c.SmallSize = clamp(c.SmallSize, c.SmallMinSize, c.SmallMaxSize)
	if c.MainSize < 1 {
		c.MainSize = 1
	}
	if c.InsertCount < 0 {
		c.InsertCount = 0
	}
	return c
}

// ConfigFor derives a Config for a total entry budget: about 10% small and
// 90% main, with the small cap free to move between half and double its
// initial size.
//
// The small queue may grow past its initial share, so the resident count can
// exceed capacity by up to the initial small size.
func ConfigFor(capacity int) Config {
	if capacity < 2 {
		capacity = 2
	}
	small := max(capacity/10, 1)
	return Config{
		SmallSize:    small,
		SmallMinSize: max(small/2, 1),
		SmallMaxSize: small * 2,
		MainSize:     max(capacity-small, 1),
	}.Normalize()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
