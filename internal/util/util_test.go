package util

import (
	"testing"
	"unsafe"
)

func TestNextPow2(t *testing.T) {
	t.Parallel()

	cases := map[uint64]uint64{0: 1, 1: 1, 2: 2, 3: 4, 8: 8, 9: 16, 1<<40 + 1: 1 << 41, 1<<63 + 5: 1 << 63}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) want %d, got %d", in, want, got)
		}
	}
}

func TestShardCountAndIndex(t *testing.T) {
	t.Parallel()

	if got := ShardCount(5); got != 8 {
		t.Fatalf("ShardCount(5) want 8, got %d", got)
	}
	if got := ShardCount(0); got < 1 || got&(got-1) != 0 {
		t.Fatalf("auto shard count must be a power of two, got %d", got)
	}
	for h := uint64(0); h < 64; h++ {
		if i := ShardIndex(h, 8); i < 0 || i >= 8 {
			t.Fatalf("ShardIndex out of range: %d", i)
		}
	}
	if ShardIndex(12345, 1) != 0 {
		t.Fatal("single shard must always map to 0")
	}
	if SplitEven(10, 3) != 4 || SplitEven(0, 4) != 1 {
		t.Fatal("SplitEven must round up and never return 0")
	}
}

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

func TestKeyHash(t *testing.T) {
	t.Parallel()

	if KeyHash("abc") != KeyHash("abc") {
		t.Fatal("hash must be deterministic")
	}
	if KeyHash("abc") == KeyHash("abd") {
		t.Fatal("distinct strings should not collide")
	}
	if KeyHash(int64(7)) != KeyHash(uint64(7)) {
		t.Fatal("same-width integers with equal bits must hash equally")
	}
	if KeyHash(stringer{"x"}) != KeyHash("x") {
		t.Fatal("Stringer keys hash their String()")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("unsupported key type must panic")
		}
	}()
	KeyHash(struct{ a, b int }{1, 2})
}

func TestPaddedCounterSize(t *testing.T) {
	t.Parallel()

	if s := unsafe.Sizeof(PaddedAtomicUint64{}); s != CacheLineSize {
		t.Fatalf("padded counter must fill one cache line, got %d bytes", s)
	}
}
