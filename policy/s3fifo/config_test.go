package s3fifo

import "testing"

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero", Config{}, Config{SmallSize: 1, SmallMinSize: 1, SmallMaxSize: 1, MainSize: 1}},
		{"valid", Config{4, 2, 8, 20, 1, true}, Config{4, 2, 8, 20, 1, true}},
		{"small above max", Config{SmallSize: 9, SmallMinSize: 2, SmallMaxSize: 8, MainSize: 4}, Config{8, 2, 8, 4, 0, false}},
		{"small below min", Config{SmallSize: 1, SmallMinSize: 2, SmallMaxSize: 8, MainSize: 4}, Config{2, 2, 8, 4, 0, false}},
		{"max below min", Config{SmallSize: 3, SmallMinSize: 3, SmallMaxSize: 1, MainSize: 4}, Config{3, 3, 3, 4, 0, false}},
		{"negative tick", Config{SmallSize: 1, SmallMinSize: 1, SmallMaxSize: 1, MainSize: -5, InsertCount: -1}, Config{1, 1, 1, 1, 0, false}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("%s: want %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestConfigFor(t *testing.T) {
	t.Parallel()

	c := ConfigFor(1000)
	if c.SmallSize != 100 || c.SmallMinSize != 50 || c.SmallMaxSize != 200 || c.MainSize != 900 {
		t.Fatalf("unexpected split %+v", c)
	}
	tiny := ConfigFor(0)
	if tiny.SmallSize != 1 || tiny.MainSize != 1 {
		t.Fatalf("tiny budget must still yield usable queues, got %+v", tiny)
	}
}
