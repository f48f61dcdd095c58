package world

import (
	"math"
	"math/rand"
)

// ResourceStats summarizes one run of assignResources.
type ResourceStats struct {
	Land        int // Non-water tiles partitioned
	PerResource int // Tiles given to each of the five main resources
	Desert      int // Everything left over, always Land - 5*PerResource
}

// assignResources splits the land tiles into equal quotas of the five main
// resources. The desert share and the integer-division remainder both
// become desert.
func assignResources(m *Map, cfg GenConfig, rng *rand.Rand) ResourceStats {
	land := m.Filter(func(h *Hex) bool { return h.Resource != ResourceWater })

	rng.Shuffle(len(land), func(i, j int) {
		land[i], land[j] = land[j], land[i]
	})

	desertCount := int(math.RoundToEven(float64(len(land)) * cfg.DesertFraction))
	perResource := (len(land) - desertCount) / len(MainResources)

	quota := perResource * len(MainResources)
	for i, h := range land {
		h.Resource = ResourceDesert
		if i < quota {
			h.Resource = MainResources[i/perResource]
		}
	}

	return ResourceStats{
		Land:        len(land),
		PerResource: perResource,
		Desert:      len(land) - perResource*len(MainResources),
	}
}
