package game

import (
	"fmt"
	"testing"

	"wallbreaker/internal/config"
)

// =============================================================================
// BENCHMARK SUITE: TICK HOT PATH
// Run with: go test -bench=. -benchmem ./internal/game/...
// =============================================================================

func BenchmarkWorldTick_10Rings(b *testing.B)  { benchmarkWorldTick(b, 10) }
func BenchmarkWorldTick_50Rings(b *testing.B)  { benchmarkWorldTick(b, 50) }
func BenchmarkWorldTick_200Rings(b *testing.B) { benchmarkWorldTick(b, 200) }

func benchmarkWorldTick(b *testing.B, rings int) {
	sim := config.DefaultSim()
	sim.RingFireInterval = 10

	placements := make([]Placement, 0, rings)
	for i := 0; i < rings; i++ {
		placements = append(placements, Placement{
			Kind: KindRing,
			Pos:  Vec{X: float64(30 + (i%20)*20), Y: float64(30 + (i/20)*20)},
		})
	}

	w := NewWorld(WorldConfig{
		Sim:        sim,
		Limits:     config.DefaultLimits(),
		Grid:       newTestGrid(b, 40, 40),
		Placements: placements,
	})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w.Tick(InputState{Fire: true})
		w.Drain()
	}
}

func BenchmarkEngineStep(b *testing.B) {
	placements := make([]Placement, 0, 64)
	for i := 0; i < 64; i++ {
		placements = append(placements, Placement{Kind: KindEnemy, Pos: Vec{X: float64(20 + i*5), Y: 200}})
	}
	engine, err := NewEngine(EngineConfig{
		Sim:        config.DefaultSim(),
		Limits:     config.DefaultLimits(),
		Grid:       newTestGrid(b, 40, 40),
		Placements: placements,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		engine.Step()
	}
}

func BenchmarkCollidingTile(b *testing.B) {
	g := newTestGrid(b, 40, 40, 410, 411, 450, 451)
	positions := make([]Vec, 256)
	for i := range positions {
		positions[i] = Vec{X: float64(i%40) * 11, Y: float64(i/40) * 11}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.CollidingTile(positions[i%len(positions)])
	}
}

func BenchmarkCascade(b *testing.B) {
	for _, amount := range []int{4, 16, 64} {
		b.Run(fmt.Sprintf("amount=%d", amount), func(b *testing.B) {
			limits := config.DefaultLimits()
			limits.MaxParticles = amount
			w := newTestWorldWith(b, config.DefaultSim(), limits, nil, 10, 10)
			c := Cascade{Type: ParticleSpark, Amount: amount, Force: 1}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.particles = w.particles[:0]
				w.burst(Vec{X: 50, Y: 50}, c)
			}
		})
	}
}
