// Package world provides the hex grid, the tile map, and the procedural
// board generator.
// Uses axial coordinates (q, r) for the hex grid, pointy-top orientation.
package world

import "math"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
// The order is fixed; cluster selection depends on it.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Ring returns the hex distance from the origin, i.e. max(|q|, |r|, |s|).
func (h HexCoord) Ring() int {
	return max(abs(h.Q), abs(h.R), abs(h.S()))
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return HexCoord{Q: a.Q - b.Q, R: a.R - b.R}.Ring()
}

// Vec3 is a world-space position. Boards lie in the y = 0 plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// AxialToWorld projects an axial coordinate onto the x/z plane for a
// pointy-top hex of circumradius hexSize. Adjacent hexes land exactly
// hexSize*sqrt(3) apart.
func AxialToWorld(c HexCoord, hexSize float64) Vec3 {
	q, r := float64(c.Q), float64(c.R)
	return Vec3{
		X: hexSize * (math.Sqrt(3)*q + math.Sqrt(3)/2*r),
		Y: 0,
		Z: hexSize * (1.5 * r),
	}
}

// Dist returns the Euclidean distance between two world positions.
func (v Vec3) Dist(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
