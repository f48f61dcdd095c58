package world

import (
	"math"
	"testing"
)

func TestNeighborsAreAdjacent(t *testing.T) {
	origin := HexCoord{Q: 2, R: -1}
	seen := make(map[HexCoord]bool)
	for _, n := range origin.Neighbors() {
		if d := Distance(origin, n); d != 1 {
			t.Errorf("Distance(%v, %v) = %d, want 1", origin, n, d)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Errorf("got %d distinct neighbors, want 6", len(seen))
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{3, 0}, 3},
		{HexCoord{0, 0}, HexCoord{2, -3}, 3},
		{HexCoord{-2, 1}, HexCoord{1, 1}, 3},
		{HexCoord{1, -4}, HexCoord{-1, 2}, 6},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := Distance(tt.b, tt.a); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestAxialToWorldOrigin(t *testing.T) {
	p := AxialToWorld(HexCoord{}, 3)
	if p != (Vec3{}) {
		t.Errorf("AxialToWorld(0,0) = %+v, want zero", p)
	}
}

func TestAxialToWorldAdjacentSpacing(t *testing.T) {
	for _, size := range []float64{0.5, 1, 2.75} {
		want := size * math.Sqrt(3)
		m, err := NewHexagon(3, size)
		if err != nil {
			t.Fatalf("NewHexagon: %v", err)
		}
		for _, c := range m.Coords {
			p := AxialToWorld(c, size)
			if p.Y != 0 {
				t.Fatalf("AxialToWorld(%v).Y = %v, want 0", c, p.Y)
			}
			if p != m.Get(c).WorldPos {
				t.Fatalf("cached WorldPos for %v = %+v, want %+v", c, m.Get(c).WorldPos, p)
			}
			for _, n := range c.Neighbors() {
				if got := p.Dist(AxialToWorld(n, size)); math.Abs(got-want) > 1e-9 {
					t.Errorf("size %v: |%v - %v| = %v, want %v", size, c, n, got, want)
				}
			}
		}
	}
}

func TestAxialToWorldKnownPoints(t *testing.T) {
	tests := []struct {
		c    HexCoord
		want Vec3
	}{
		{HexCoord{1, 0}, Vec3{X: math.Sqrt(3)}},
		{HexCoord{0, 1}, Vec3{X: math.Sqrt(3) / 2, Z: 1.5}},
		{HexCoord{-1, 2}, Vec3{X: 0, Z: 3}},
	}
	for _, tt := range tests {
		got := AxialToWorld(tt.c, 1)
		if got.Dist(tt.want) > 1e-12 {
			t.Errorf("AxialToWorld(%v) = %+v, want %+v", tt.c, got, tt.want)
		}
	}
}
