// Coherent noise sampling. Each tile receives one scalar in [0, 1]; the
// outer ring is pinned to 0.
package world

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the coherent noise backend.
type NoiseKind string

const (
	NoiseSimplex NoiseKind = "simplex"
	NoisePerlin  NoiseKind = "perlin"
)

// Offsets are drawn from [-offsetRange, offsetRange).
const offsetRange = 100000.0

// noiseFloor is the field minimum written to border tiles.
const noiseFloor = 0.0

// Noise2D is a 2-D coherent noise field returning values in [0, 1].
type Noise2D interface {
	Eval2(x, y float64) float64
}

// NewNoise builds the backend for kind, seeded with seed.
func NewNoise(kind NoiseKind, seed int64) (Noise2D, error) {
	switch kind {
	case NoiseSimplex, "":
		return opensimplex.NewNormalized(seed), nil
	case NoisePerlin:
		// alpha=2, beta=2, n=3 octaves.
		return perlinNoise{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	default:
		return nil, &ConfigError{Field: "noise", Value: string(kind), Reason: "must be simplex or perlin"}
	}
}

// perlinNoise remaps go-perlin's roughly [-1, 1] output onto [0, 1].
type perlinNoise struct {
	p *perlin.Perlin
}

func (n perlinNoise) Eval2(x, y float64) float64 {
	v := (n.p.Noise2D(x, y) + 1) / 2
	return math.Min(1, math.Max(0, v))
}

// noiseOffset returns the sampling origin for this run.
func noiseOffset(cfg GenConfig, rng *rand.Rand) Vec2 {
	if !cfg.RandomizeOffset {
		return cfg.NoiseOffset
	}
	return Vec2{
		X: rng.Float64()*2*offsetRange - offsetRange,
		Y: rng.Float64()*2*offsetRange - offsetRange,
	}
}

// sampleNoise writes a noise value into every hex and returns the offset used.
// Draws from rng: offset (when randomized), then the backend seed.
func sampleNoise(m *Map, cfg GenConfig, rng *rand.Rand) (Vec2, error) {
	off := noiseOffset(cfg, rng)
	field, err := NewNoise(cfg.Noise, rng.Int63())
	if err != nil {
		return off, err
	}

	m.Each(func(h *Hex) {
		if m.OnBorder(h.Coord) {
			h.Noise = noiseFloor
			return
		}
		nx := (h.WorldPos.X + off.X) * cfg.Scale
		ny := (h.WorldPos.Z + off.Y) * cfg.Scale
		h.Noise = field.Eval2(nx, ny)
	})
	return off, nil
}
