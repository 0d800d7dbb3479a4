package util

import "math/bits"

// NextPow2 returns the smallest power of two >= x.
// x <= 1 yields 1; results past 1<<63 are clamped to 1<<63.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	if x > 1<<63 {
		return 1 << 63
	}
	return 1 << bits.Len64(x-1)
}
