package game

import (
	"math"
	"testing"

	"wallbreaker/internal/config"
)

func TestNewWorldPlacements(t *testing.T) {
	sim := config.DefaultSim()
	w := NewWorld(WorldConfig{
		Sim:    sim,
		Limits: config.DefaultLimits(),
		Grid:   newTestGrid(t, 10, 10),
		Placements: []Placement{
			{Kind: KindSpawner, Pos: Vec{X: 50, Y: 50}},
			{Kind: KindEnemy, Pos: Vec{X: 70, Y: 50}, Health: 5, IsSign: true},
		},
	})

	p := w.Player()
	if p.Pos != (Vec{X: sim.SpawnX, Y: sim.SpawnY}) || p.Health != sim.PlayerHealth {
		t.Errorf("player = %+v health %d", p.Pos, p.Health)
	}

	ents := w.Entities()
	if len(ents) != 2 {
		t.Fatalf("entities = %d, want 2", len(ents))
	}
	if ents[0].Kind != KindSpawner || ents[0].Health != SpawnerHealth {
		t.Errorf("first placement = %v hp %d", ents[0].Kind, ents[0].Health)
	}
	if ents[1].Health != 5 || ents[1].MaxHealth != 5 || !ents[1].IsSign {
		t.Errorf("second placement overrides lost: %+v", ents[1].Vitals)
	}
}

func TestRestartKeepsShotsAndParticles(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.SpawnEntity(KindEnemy, Vec{X: 60, Y: 60}, 0)
	w.FireShot(Vec{X: 80, Y: 80}, Vec{X: 1}, true, 0)
	w.SpawnParticle(Vec{X: 10, Y: 10}, ParticleSmoke)
	w.ApplyDamage(w.Player(), 50)
	old := w.Player()

	w.Restart()

	if len(w.Entities()) != 0 {
		t.Errorf("entities = %d, want 0", len(w.Entities()))
	}
	if len(w.Shots()) != 1 || len(w.Particles()) != 1 {
		t.Errorf("shots = %d particles = %d, restart should leave both alone",
			len(w.Shots()), len(w.Particles()))
	}
	p := w.Player()
	if p == old {
		t.Error("player should be recreated")
	}
	if p.Health != w.cfg.PlayerHealth || p.Pos != (Vec{X: 20, Y: 20}) {
		t.Errorf("player = %+v health %d", p.Pos, p.Health)
	}
}

func TestTickFireEdge(t *testing.T) {
	w := newTestWorld(t, 10, 10)

	w.Tick(InputState{FireEdge: true})

	shots := w.Shots()
	if len(shots) != 1 {
		t.Fatalf("shots = %d, want 1", len(shots))
	}
	s := shots[0]
	if s.HurtsPlayer {
		t.Error("player shot must harm entities only")
	}
	// Fired during the player step, then moved by the projectile step
	if s.Age != 1 || s.Pos != (Vec{X: 23, Y: 20}) {
		t.Errorf("shot age %d pos %+v, want age 1 at {23 20}", s.Age, s.Pos)
	}
	if w.Player().Health != w.cfg.PlayerHealth {
		t.Error("own shot must not hurt the player")
	}
}

func TestTickFiresLeftWhenFacingLeft(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.Player().Pos = Vec{X: 60, Y: 60}

	w.Tick(InputState{Left: true})
	w.Tick(InputState{Left: true, FireEdge: true})

	shots := w.Shots()
	if len(shots) != 1 || shots[0].Vel.X != -w.cfg.PlayerShotSpeed {
		t.Fatalf("expected one shot moving left, got %d", len(shots))
	}
}

func TestHeldFireRepeats(t *testing.T) {
	sim := config.DefaultSim()
	sim.PlayerFireCooldown = 3
	w := newTestWorldWith(t, sim, config.DefaultLimits(), nil, 10, 10)

	for i := 0; i < 4; i++ {
		w.Tick(InputState{Fire: true})
	}

	if len(w.Shots()) != 2 {
		t.Errorf("shots = %d after 4 held ticks, want 2", len(w.Shots()))
	}
}

func TestPlayerAcceleration(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	p := w.Player()

	w.Tick(InputState{Right: true})
	if !approx(p.Vel.X, w.cfg.PlayerAccel) || !approx(p.Pos.X, 20+w.cfg.PlayerAccel) {
		t.Errorf("vel %v pos %v after one tick", p.Vel.X, p.Pos.X)
	}
	if p.FacingLeft {
		t.Error("moving right should face right")
	}

	w.Tick(InputState{})
	if p.Vel.X != 0 {
		t.Errorf("vel = %v, decel should stop a slow player in one tick", p.Vel.X)
	}
}

func TestAccelAxis(t *testing.T) {
	const max, accel, decel = 1.2, 0.1, 0.2

	tests := []struct {
		name       string
		vel        float64
		more, less bool
		want       float64
	}{
		{"accelerate from rest", 0, true, false, 0.1},
		{"accelerate negative", 0, false, true, -0.1},
		{"over max bleeds off", 1.5, true, false, 1.3},
		{"slightly over max clamps", 1.25, true, false, 1.2},
		{"under negative max bleeds off", -1.5, false, true, -1.3},
		{"coast down positive", 0.5, false, false, 0.3},
		{"coast down negative", -0.5, false, false, -0.3},
		{"coast stops at zero", 0.1, false, false, 0},
		{"both held prefers more", 0, true, true, 0.1},
		{"at rest stays", 0, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accelAxis(tt.vel, tt.more, tt.less, max, accel, decel)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("accelAxis = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlayerStopsAtWall(t *testing.T) {
	// Column 4 is a solid wall
	var wall []int
	for row := 0; row < 10; row++ {
		wall = append(wall, row*10+4)
	}
	w := newTestWorld(t, 10, 10, wall...)
	p := w.Player()

	for i := 0; i < 100; i++ {
		w.Tick(InputState{Right: true})
	}

	if _, hit := w.Grid().CollidingTile(p.Pos); hit {
		t.Errorf("player ended inside the wall at %+v", p.Pos)
	}
	if p.Pos.X > 44 {
		t.Errorf("player passed the wall: x = %v", p.Pos.X)
	}
}

func TestCheatModePassesWalls(t *testing.T) {
	var wall []int
	for row := 0; row < 10; row++ {
		wall = append(wall, row*10+4)
	}
	w := newTestWorld(t, 10, 10, wall...)
	p := w.Player()

	w.Tick(InputState{CheatToggle: true})
	if !p.CheatMode {
		t.Fatal("cheat toggle should enable cheat mode")
	}
	for i := 0; i < 60; i++ {
		w.Tick(InputState{Right: true})
	}

	if p.Pos.X < 55 {
		t.Errorf("cheating player should pass the wall, x = %v", p.Pos.X)
	}

	w.Tick(InputState{CheatToggle: true})
	if p.CheatMode {
		t.Error("second toggle should disable cheat mode")
	}
}

func TestDeadPlayerIsInert(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	p := w.Player()
	w.ApplyDamage(p, 1000)
	start := p.Pos

	w.Tick(InputState{Right: true, FireEdge: true})

	if p.Pos != start || len(w.Shots()) != 0 {
		t.Error("dead player must neither move nor fire")
	}
	if p.Immunity != w.cfg.DeathImmunityTick-1 {
		t.Errorf("immunity = %d, should keep counting down", p.Immunity)
	}
}

func TestSetAim(t *testing.T) {
	w := newTestWorld(t, 10, 10)

	w.SetAim(Vec{X: 20, Y: 30})

	if !approx(w.Player().Rot, math.Pi/2) {
		t.Errorf("rot = %v, want pi/2", w.Player().Rot)
	}
}

func TestDrainResetsOutbox(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	w.emitSound(SoundHit)

	first := w.Drain()
	if len(first.Sounds) != 1 {
		t.Fatalf("first drain sounds = %v", first.Sounds)
	}

	w.emitSound(SoundHitWall)
	second := w.Drain()
	if len(second.Sounds) != 1 || second.Sounds[0] != SoundHitWall {
		t.Errorf("second drain sounds = %v", second.Sounds)
	}
	if first.Sounds[0] != SoundHit {
		t.Error("previous drain should stay intact until the next one")
	}
}

func TestInputMerge(t *testing.T) {
	tests := []struct {
		name      string
		prev, in  InputState
		wantFire  bool
		wantCheat bool
		wantRight bool
	}{
		{"edge survives release", InputState{FireEdge: true}, InputState{}, true, false, false},
		{"held follows newest", InputState{Right: true}, InputState{}, false, false, false},
		{"new held", InputState{}, InputState{Right: true}, false, false, true},
		{"double toggle cancels", InputState{CheatToggle: true}, InputState{CheatToggle: true}, false, false, false},
		{"single toggle", InputState{}, InputState{CheatToggle: true}, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prev.Merge(tt.in)
			if got.FireEdge != tt.wantFire || got.CheatToggle != tt.wantCheat || got.Right != tt.wantRight {
				t.Errorf("Merge = %+v", got)
			}
			cleared := got.clearEdges()
			if cleared.FireEdge || cleared.CheatToggle {
				t.Error("clearEdges should drop edge fields")
			}
		})
	}
}

// Full ticks over a busy world must respect every cap.
func TestTickRespectsLimits(t *testing.T) {
	sim := config.DefaultSim()
	sim.SpawnerInterval = 1
	sim.RingFireInterval = 1
	limits := config.ResourceLimits{MaxEntities: 8, MaxShots: 16, MaxParticles: 32}

	w := NewWorld(WorldConfig{
		Sim:        sim,
		Limits:     limits,
		Grid:       newTestGrid(t, 20, 20),
		Placements: []Placement{{Kind: KindSpawner, Pos: Vec{X: 110, Y: 110}}},
	})

	for i := 0; i < 300; i++ {
		w.Tick(InputState{Fire: true})
		if len(w.Entities()) > limits.MaxEntities ||
			len(w.Shots()) > limits.MaxShots ||
			len(w.Particles()) > limits.MaxParticles {
			t.Fatalf("tick %d exceeded limits: %d/%d/%d", i,
				len(w.Entities()), len(w.Shots()), len(w.Particles()))
		}
	}
}
