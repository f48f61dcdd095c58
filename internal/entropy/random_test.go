package entropy

import "testing"

func TestSeedPositive(t *testing.T) {
	for i := 0; i < 100; i++ {
		if s := Seed(); s <= 0 {
			t.Fatalf("Seed() = %d, want > 0", s)
		}
	}
}

func TestResolve(t *testing.T) {
	if s, fresh := Resolve(42); s != 42 || fresh {
		t.Errorf("Resolve(42) = %d, %v; want 42, false", s, fresh)
	}
	s, fresh := Resolve(0)
	if s <= 0 || !fresh {
		t.Errorf("Resolve(0) = %d, %v; want positive, true", s, fresh)
	}
}
