// Board generation: border water, clustered lakes, resource quotas and
// majority-vote smoothing over a hexagon of axial coordinates.
package world

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// Vec2 is a planar offset.
type Vec2 struct {
	X float64 `toml:"x" json:"x"`
	Y float64 `toml:"y" json:"y"`
}

// GenConfig holds board generation parameters.
type GenConfig struct {
	Radius  int     `toml:"radius" json:"radius"`     // Hexagon radius (4 gives 61 tiles)
	HexSize float64 `toml:"hex_size" json:"hexSize"` // World-space circumradius of one hex

	Scale           float64   `toml:"scale" json:"scale"`                      // Noise sampling frequency
	NoiseOffset     Vec2      `toml:"noise_offset" json:"noiseOffset"`         // Used when RandomizeOffset is false
	RandomizeOffset bool      `toml:"randomize_offset" json:"randomizeOffset"` // Draw a fresh offset from the rng each run
	Noise           NoiseKind `toml:"noise" json:"noise"`                      // simplex or perlin

	DesertFraction     float64 `toml:"desert_fraction" json:"desertFraction"`          // 0.0–0.5 of land tiles
	WaterFraction      float64 `toml:"water_fraction" json:"waterFraction"`            // 0.0–1.0 of interior land tiles
	WaterClusterFactor float64 `toml:"water_cluster_factor" json:"waterClusterFactor"` // Chance a new lake tile grows an existing one
	EdgeWaterDepth     int     `toml:"edge_water_depth" json:"edgeWaterDepth"`         // Rings of forced border water
	SmoothingPasses    int     `toml:"smoothing_passes" json:"smoothingPasses"`

	Seed int64 `toml:"seed" json:"seed"` // Random seed (0 = caller picks one)
}

// DefaultGenConfig returns the standard board: radius 4, two rings of sea.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:             4,
		HexSize:            1,
		Scale:              0.8,
		RandomizeOffset:    true,
		Noise:              NoiseSimplex,
		DesertFraction:     0.1,
		WaterFraction:      0.15,
		WaterClusterFactor: 0.6,
		EdgeWaterDepth:     2,
		SmoothingPasses:    3,
	}
}

// SmallTestConfig returns a tiny board for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Radius = 2
	cfg.EdgeWaterDepth = 1
	cfg.SmoothingPasses = 1
	cfg.Seed = 42
	return cfg
}

// Validate rejects out-of-range options. Nothing is clamped.
func (c GenConfig) Validate() error {
	switch {
	case c.Radius < 0:
		return &ConfigError{Field: "radius", Value: c.Radius, Reason: "must be >= 0"}
	case !finite(c.HexSize) || c.HexSize <= 0:
		return &ConfigError{Field: "hex_size", Value: c.HexSize, Reason: "must be > 0"}
	case !finite(c.Scale) || c.Scale <= 0:
		return &ConfigError{Field: "scale", Value: c.Scale, Reason: "must be > 0"}
	case !finite(c.NoiseOffset.X) || !finite(c.NoiseOffset.Y):
		return &ConfigError{Field: "noise_offset", Value: c.NoiseOffset, Reason: "must be finite"}
	case !inRange(c.DesertFraction, 0, 0.5):
		return &ConfigError{Field: "desert_fraction", Value: c.DesertFraction, Reason: "must be in [0, 0.5]"}
	case !inRange(c.WaterFraction, 0, 1):
		return &ConfigError{Field: "water_fraction", Value: c.WaterFraction, Reason: "must be in [0, 1]"}
	case !inRange(c.WaterClusterFactor, 0, 1):
		return &ConfigError{Field: "water_cluster_factor", Value: c.WaterClusterFactor, Reason: "must be in [0, 1]"}
	case c.EdgeWaterDepth < 1:
		return &ConfigError{Field: "edge_water_depth", Value: c.EdgeWaterDepth, Reason: "must be >= 1"}
	case c.SmoothingPasses < 0:
		return &ConfigError{Field: "smoothing_passes", Value: c.SmoothingPasses, Reason: "must be >= 0"}
	}
	switch c.Noise {
	case NoiseSimplex, NoisePerlin, "":
	default:
		return &ConfigError{Field: "noise", Value: string(c.Noise), Reason: "must be simplex or perlin"}
	}
	return nil
}

// Report describes what each stage of one generation run did.
type Report struct {
	Offset    Vec2
	Water     WaterStats
	Resources ResourceStats
	Smoothing []int // Tiles changed by each pass
}

// Generator runs the pipeline and logs each stage.
type Generator struct {
	Logger *slog.Logger // nil uses slog.Default()
}

// Generate builds a complete board from cfg using rng as the only source
// of randomness. The same cfg and an rng in the same state always produce
// the same board.
func Generate(cfg GenConfig, rng *rand.Rand) (*Map, error) {
	m, _, err := (&Generator{}).Generate(cfg, rng)
	return m, err
}

// Generate validates cfg and runs every stage in order on a fresh map.
//
// Stages mutate the map in place, one writer at a time: grid, noise,
// water, resources, smoothing. Each stage reads only fields written by the
// stages before it.
func (g *Generator) Generate(cfg GenConfig, rng *rand.Rand) (*Map, Report, error) {
	var rep Report
	if err := cfg.Validate(); err != nil {
		return nil, rep, err
	}
	if rng == nil {
		return nil, rep, fmt.Errorf("generate: nil random source")
	}
	log := g.logger()

	m, err := NewHexagon(cfg.Radius, cfg.HexSize)
	if err != nil {
		return nil, rep, err
	}
	log.Debug("grid built", "radius", cfg.Radius, "hexes", m.HexCount())

	rep.Offset, err = sampleNoise(m, cfg, rng)
	if err != nil {
		return nil, rep, fmt.Errorf("sample noise: %w", err)
	}
	log.Debug("noise sampled", "kind", cfg.Noise, "offset_x", rep.Offset.X, "offset_y", rep.Offset.Y)

	rep.Water = assignWater(m, cfg, rng)
	log.Debug("water assigned",
		"border", rep.Water.Border,
		"target", rep.Water.Target,
		"interior", rep.Water.Interior,
	)

	rep.Resources = assignResources(m, cfg, rng)
	log.Debug("resources assigned",
		"land", rep.Resources.Land,
		"per_resource", rep.Resources.PerResource,
		"desert", rep.Resources.Desert,
	)

	rep.Smoothing = smoothResources(m, cfg.SmoothingPasses)
	for i, n := range rep.Smoothing {
		log.Debug("smoothing pass", "pass", i+1, "changed", n)
	}

	return m, rep, nil
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func inRange(f, lo, hi float64) bool {
	return f >= lo && f <= hi
}
