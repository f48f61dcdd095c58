package world

import (
	"math"
	"math/rand"
)

// WaterStats summarizes one run of assignWater.
type WaterStats struct {
	Border   int // Tiles forced to water by the edge band
	Target   int // Nominal interior water count
	Interior int // Distinct interior tiles that actually became water
}

// assignWater forces the edge band to water, then scatters clustered water
// over the remaining land.
//
// Each iteration either grows an existing interior lake (probability
// cfg.WaterClusterFactor) or takes landTiles[i]. The index advances even
// when a neighbor was taken instead, so a tile can be chosen twice and the
// realized count may fall short of Target.
func assignWater(m *Map, cfg GenConfig, rng *rand.Rand) WaterStats {
	var stats WaterStats
	var landTiles []*Hex

	m.Each(func(h *Hex) {
		if m.WithinEdgeBand(h.Coord, cfg.EdgeWaterDepth) {
			h.Resource = ResourceWater
			stats.Border++
			return
		}
		if h.Resource != ResourceWater {
			landTiles = append(landTiles, h)
		}
	})

	stats.Target = int(math.RoundToEven(float64(len(landTiles)) * cfg.WaterFraction))

	rng.Shuffle(len(landTiles), func(i, j int) {
		landTiles[i], landTiles[j] = landTiles[j], landTiles[i]
	})

	var placed []*Hex
	for i := 0; i < stats.Target; i++ {
		t := landTiles[i]
		if len(placed) > 0 && rng.Float64() < cfg.WaterClusterFactor {
			if shore := shoreline(m, placed); len(shore) > 0 {
				t = shore[rng.Intn(len(shore))]
			}
		}
		if t.Resource != ResourceWater {
			stats.Interior++
		}
		t.Resource = ResourceWater
		placed = append(placed, t)
	}
	return stats
}

// shoreline returns the distinct in-map land neighbors of the placed water
// tiles, in placement order and then direction order.
func shoreline(m *Map, placed []*Hex) []*Hex {
	seen := make(map[HexCoord]bool)
	var out []*Hex
	for _, w := range placed {
		for _, nc := range w.Coord.Neighbors() {
			n := m.Get(nc)
			if n == nil || n.Resource == ResourceWater || seen[nc] {
				continue
			}
			seen[nc] = true
			out = append(out, n)
		}
	}
	return out
}
