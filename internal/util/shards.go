package util

import "runtime"

// ShardCount resolves a requested shard count: n <= 0 picks
// nextPow2(2*GOMAXPROCS) clamped to [1..256]; otherwise n is rounded up to
// a power of two so ShardIndex can mask.
func ShardCount(n int) int {
	if n <= 0 {
		n = 2 * runtime.GOMAXPROCS(0)
		if n > 256 {
			n = 256
		}
	}
	return int(NextPow2(uint64(n)))
}

// ShardIndex maps a 64-bit hash to a shard index; shards must be a power of two.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	return int(hash & uint64(shards-1))
}

// SplitEven returns ceil(total/parts), never less than 1.
func SplitEven(total, parts int) int {
	if parts < 1 {
		parts = 1
	}
	n := (total + parts - 1) / parts
	if n < 1 {
		n = 1
	}
	return n
}
