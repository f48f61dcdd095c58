package world

// Tile is the transmitted form of one hex: position and label only.
// World positions are derivable from Q and R.
type Tile struct {
	Q    int          `json:"q"`
	R    int          `json:"r"`
	Type ResourceType `json:"type"`
}

// Board is the ordered tile list handed to renderers and the wire.
type Board []Tile

// Board returns the map's tiles in construction order.
func (m *Map) Board() Board {
	b := make(Board, 0, len(m.Coords))
	m.Each(func(h *Hex) {
		b = append(b, Tile{Q: h.Coord.Q, R: h.Coord.R, Type: h.Resource})
	})
	return b
}

// Counts tallies tiles per resource type.
func (b Board) Counts() map[ResourceType]int {
	counts := make(map[ResourceType]int)
	for _, t := range b {
		counts[t.Type]++
	}
	return counts
}

// Radius returns the largest ring index present, or -1 for an empty board.
func (b Board) Radius() int {
	r := -1
	for _, t := range b {
		r = max(r, HexCoord{Q: t.Q, R: t.R}.Ring())
	}
	return r
}
