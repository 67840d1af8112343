package game

import (
	"math"
	"testing"

	"wallbreaker/internal/config"
)

const testTile = 11.0

// newTestGrid builds an empty width x height grid with code 1 at each index
// in solid.
func newTestGrid(t testing.TB, width, height int, solid ...int) *TileGrid {
	t.Helper()
	tiles := make([]int, width*height)
	for _, idx := range solid {
		tiles[idx] = 1
	}
	g, err := NewTileGrid(width, height, testTile, tiles)
	if err != nil {
		t.Fatalf("NewTileGrid: %v", err)
	}
	return g
}

// newTestWorld builds a world with default tuning over an open grid.
func newTestWorld(t testing.TB, width, height int, solid ...int) *World {
	t.Helper()
	return newTestWorldWith(t, config.DefaultSim(), config.DefaultLimits(), nil, width, height, solid...)
}

func newTestWorldWith(t testing.TB, sim config.SimConfig, limits config.ResourceLimits, particles ParticleRegistry, width, height int, solid ...int) *World {
	t.Helper()
	return NewWorld(WorldConfig{
		Sim:       sim,
		Limits:    limits,
		Grid:      newTestGrid(t, width, height, solid...),
		Particles: particles,
	})
}

func countParticles(w *World, typ ParticleType) int {
	n := 0
	for _, p := range w.Particles() {
		if p.Type == typ {
			n++
		}
	}
	return n
}

func countSounds(sounds []Sound, s Sound) int {
	n := 0
	for _, got := range sounds {
		if got == s {
			n++
		}
	}
	return n
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
