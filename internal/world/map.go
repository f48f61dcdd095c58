package world

import "fmt"

// Hex represents a single tile on the board.
type Hex struct {
	Coord    HexCoord     `json:"coord"`
	WorldPos Vec3         `json:"world_pos"` // Fixed at creation from Coord and the map's hex size
	Resource ResourceType `json:"resource"`

	// Sampled once per generation run. Border tiles hold the field minimum (0).
	// Not consulted by water or resource placement.
	Noise float64 `json:"noise"`
}

// Map holds one generated board.
type Map struct {
	Hexes   map[HexCoord]*Hex `json:"-"` // All hexes keyed by coordinate
	Coords  []HexCoord        `json:"-"` // Construction order, q-major then r
	Radius  int               `json:"radius"`
	HexSize float64           `json:"hex_size"`
}

// NewHexagon builds a map containing every coordinate with
// max(|q|, |r|, |s|) <= radius, 3*radius^2 + 3*radius + 1 tiles in all.
// Resources start unset and noise at zero.
func NewHexagon(radius int, hexSize float64) (*Map, error) {
	if radius < 0 {
		return nil, &ConfigError{Field: "radius", Value: radius, Reason: "must be >= 0"}
	}
	if !(hexSize > 0) {
		return nil, &ConfigError{Field: "hex_size", Value: hexSize, Reason: "must be > 0"}
	}

	n := HexCountForRadius(radius)
	m := &Map{
		Hexes:   make(map[HexCoord]*Hex, n),
		Coords:  make([]HexCoord, 0, n),
		Radius:  radius,
		HexSize: hexSize,
	}
	for q := -radius; q <= radius; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			coord := HexCoord{Q: q, R: r}
			m.Hexes[coord] = &Hex{
				Coord:    coord,
				WorldPos: AxialToWorld(coord, hexSize),
			}
			m.Coords = append(m.Coords, coord)
		}
	}
	return m, nil
}

// HexCountForRadius returns the number of hexes in a hexagon of the given radius.
func HexCountForRadius(radius int) int {
	return 3*radius*radius + 3*radius + 1
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return coord.Ring() <= m.Radius
}

// OnBorder reports whether coord lies on the outermost ring.
func (m *Map) OnBorder(coord HexCoord) bool {
	return coord.Ring() == m.Radius
}

// WithinEdgeBand reports whether coord lies within depth rings of the
// boundary. A depth larger than the radius covers the whole board.
func (m *Map) WithinEdgeBand(coord HexCoord, depth int) bool {
	limit := m.Radius - depth + 1
	return abs(coord.Q) >= limit || abs(coord.R) >= limit || abs(coord.S()) >= limit
}

// Each calls fn for every hex in construction order.
func (m *Map) Each(fn func(*Hex)) {
	for _, c := range m.Coords {
		fn(m.Hexes[c])
	}
}

// Filter returns the hexes accepted by keep, in construction order.
func (m *Map) Filter(keep func(*Hex) bool) []*Hex {
	var out []*Hex
	m.Each(func(h *Hex) {
		if keep(h) {
			out = append(out, h)
		}
	})
	return out
}

// HexCount returns the total number of hexes in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// ResourceCounts returns a summary of the resource distribution.
func (m *Map) ResourceCounts() map[ResourceType]int {
	counts := make(map[ResourceType]int)
	for _, hex := range m.Hexes {
		counts[hex.Resource]++
	}
	return counts
}

// LandCount returns the number of tiles that are not water.
func (m *Map) LandCount() int {
	n := 0
	for _, hex := range m.Hexes {
		if hex.Resource != ResourceWater {
			n++
		}
	}
	return n
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
