package world

// smoothPass replaces every land tile's resource with the most common land
// resource among itself and its in-map neighbors. Water neither changes nor
// votes. Ties go to the earliest type in LandPriority.
//
// All votes read the board as it was before the pass; results are applied
// together. Returns how many tiles changed.
func smoothPass(m *Map) int {
	prev := make(map[HexCoord]ResourceType, len(m.Hexes))
	m.Each(func(h *Hex) { prev[h.Coord] = h.Resource })

	next := make(map[HexCoord]ResourceType, len(m.Hexes))
	m.Each(func(h *Hex) {
		self := prev[h.Coord]
		if self == ResourceWater {
			return
		}

		var tally [ResourceWater + 1]int
		tally[self]++
		for _, nc := range h.Coord.Neighbors() {
			if t, ok := prev[nc]; ok {
				tally[t]++
			}
		}

		best, bestCount := self, 0
		for _, t := range LandPriority {
			if tally[t] > bestCount {
				best, bestCount = t, tally[t]
			}
		}
		next[h.Coord] = best
	})

	changed := 0
	for c, t := range next {
		if m.Hexes[c].Resource != t {
			m.Hexes[c].Resource = t
			changed++
		}
	}
	return changed
}

// smoothResources runs exactly passes smoothing passes, even after the
// board stops changing. Returns the per-pass change counts.
func smoothResources(m *Map, passes int) []int {
	changes := make([]int, 0, passes)
	for i := 0; i < passes; i++ {
		changes = append(changes, smoothPass(m))
	}
	return changes
}
