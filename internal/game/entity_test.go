package game

import (
	"math"
	"testing"

	"wallbreaker/internal/config"
)

func TestCompactLivePreservesOrder(t *testing.T) {
	a := &Entity{ID: 1, Vitals: Vitals{Dead: true}}
	b := &Entity{ID: 2}
	c := &Entity{ID: 3, Vitals: Vitals{Dead: true}}
	d := &Entity{ID: 4}

	items := []*Entity{a, b, c, d}
	got := compactLive(items)

	if len(got) != 2 || got[0] != b || got[1] != d {
		t.Fatalf("compactLive = %v, want [B D]", ids(got))
	}
	if items[2] != nil || items[3] != nil {
		t.Error("tail slots should be cleared for the GC")
	}
}

func ids(es []*Entity) []EntityID {
	out := make([]EntityID, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestParseEntityKind(t *testing.T) {
	for _, k := range []EntityKind{KindEnemy, KindSpawner, KindRing} {
		got, err := ParseEntityKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEntityKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseEntityKind("dragon"); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestSpawnEntityDefaults(t *testing.T) {
	w := newTestWorld(t, 10, 10)

	tests := []struct {
		kind   EntityKind
		health int
	}{
		{KindEnemy, EnemyHealth},
		{KindSpawner, SpawnerHealth},
		{KindRing, RingHealth},
	}

	var last EntityID
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e := w.SpawnEntity(tt.kind, Vec{X: 50, Y: 20}, 0)
			if e == nil {
				t.Fatal("SpawnEntity returned nil")
			}
			if e.Health != tt.health || e.MaxHealth != tt.health {
				t.Errorf("health = %d/%d, want %d", e.Health, e.MaxHealth, tt.health)
			}
			if e.ID <= last {
				t.Errorf("id %d should be greater than %d", e.ID, last)
			}
			last = e.ID
			if e.BelowIndex != -1 {
				t.Errorf("midair entity BelowIndex = %d, want -1", e.BelowIndex)
			}
		})
	}
}

func TestSpawnEntityRecordsRestingTile(t *testing.T) {
	w := newTestWorld(t, 10, 10, 55)

	e := w.SpawnEntity(KindEnemy, Vec{X: 60.5, Y: 50.55}, 0)

	if e.BelowIndex != 55 {
		t.Errorf("BelowIndex = %d, want 55", e.BelowIndex)
	}
}

func TestSpawnEntityCap(t *testing.T) {
	limits := config.DefaultLimits()
	limits.MaxEntities = 1
	w := newTestWorldWith(t, config.DefaultSim(), limits, nil, 10, 10)

	if w.SpawnEntity(KindEnemy, Vec{}, 0) == nil {
		t.Fatal("first spawn should succeed")
	}
	if w.SpawnEntity(KindEnemy, Vec{}, 0) != nil {
		t.Error("spawn past the cap should be dropped")
	}
	if dropped, _, _ := w.Dropped(); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
}

func TestEntityMovesAndTicksImmunity(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	e := w.SpawnEntity(KindEnemy, Vec{X: 30, Y: 30}, 0)
	e.Vel = Vec{X: 1, Y: -0.5}
	e.Immunity = 2

	w.updateEntities()

	if e.Pos != (Vec{X: 31, Y: 29.5}) {
		t.Errorf("pos = %+v, want {31 29.5}", e.Pos)
	}
	if e.Immunity != 1 {
		t.Errorf("immunity = %d, want 1", e.Immunity)
	}
}

func TestUpdateEntitiesRemovesDead(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	a := w.SpawnEntity(KindEnemy, Vec{X: 20, Y: 20}, 0)
	b := w.SpawnEntity(KindEnemy, Vec{X: 40, Y: 20}, 0)
	c := w.SpawnEntity(KindEnemy, Vec{X: 60, Y: 20}, 0)
	w.ApplyDamage(b, FalloutDamage)

	w.updateEntities()

	got := w.Entities()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("entities = %v, want [%d %d]", ids(got), a.ID, c.ID)
	}
}

func TestSpawnerSpawnsRing(t *testing.T) {
	sim := config.DefaultSim()
	sim.SpawnerInterval = 3
	w := newTestWorldWith(t, sim, config.DefaultLimits(), nil, 10, 10)
	spawner := w.SpawnEntity(KindSpawner, Vec{X: 50, Y: 50}, 0)

	for i := 0; i < 2; i++ {
		w.updateEntities()
	}
	if len(w.Entities()) != 1 {
		t.Fatalf("spawner fired early: %d entities", len(w.Entities()))
	}

	w.updateEntities()
	ents := w.Entities()
	if len(ents) != 2 {
		t.Fatalf("entities = %d, want spawner and ring", len(ents))
	}
	ring := ents[1]
	if ring.Kind != KindRing || ring.ParentID != spawner.ID {
		t.Errorf("spawned %v with parent %d, want ring with parent %d", ring.Kind, ring.ParentID, spawner.ID)
	}
	if ring.Pos != spawner.Pos {
		t.Errorf("ring pos = %+v, want spawner pos %+v", ring.Pos, spawner.Pos)
	}
	if ring.FireTimer != 0 {
		t.Error("ring spawned this tick should not act until the next")
	}
}

func TestRingStarVolley(t *testing.T) {
	sim := config.DefaultSim()
	sim.RingFireInterval = 1
	w := newTestWorldWith(t, sim, config.DefaultLimits(), nil, 10, 10)
	ring := w.SpawnEntity(KindRing, Vec{X: 50, Y: 50}, 0)

	w.updateEntities()

	shots := w.Shots()
	if len(shots) != starShots {
		t.Fatalf("shots = %d, want %d", len(shots), starShots)
	}
	for i, s := range shots {
		if !s.HurtsPlayer || s.OwnerID != ring.ID {
			t.Errorf("shot %d hurtsPlayer=%v owner=%d", i, s.HurtsPlayer, s.OwnerID)
		}
		if speed := s.Vel.Len(); !approx(speed, sim.RingVolleySpeed) {
			t.Errorf("shot %d speed = %v, want %v", i, speed, sim.RingVolleySpeed)
		}
	}
	if !approx(shots[0].Vel.X, 0.5) || !approx(shots[0].Vel.Y, 0) {
		t.Errorf("first shot vel = %+v, want {0.5 0}", shots[0].Vel)
	}
	if !approx(shots[1].Vel.X, 0) || !approx(shots[1].Vel.Y, 0.5) {
		t.Errorf("second shot vel = %+v, want {0 0.5}", shots[1].Vel)
	}
	if !approx(shots[4].Vel.X, shots[0].Vel.X) || !approx(shots[4].Vel.Y, shots[0].Vel.Y) {
		t.Error("fifth shot should repeat the first direction")
	}
	if ring.FireSequence != 1 {
		t.Errorf("fire sequence = %d, want 1", ring.FireSequence)
	}

	w.updateEntities()
	offset := math.Pi / 2 / starSequence
	got := math.Atan2(w.Shots()[starShots].Vel.Y, w.Shots()[starShots].Vel.X)
	if !approx(got, offset) {
		t.Errorf("second volley angle = %v, want %v", got, offset)
	}
}

func TestRingFireSequenceWraps(t *testing.T) {
	sim := config.DefaultSim()
	sim.RingFireInterval = 1
	limits := config.DefaultLimits()
	limits.MaxShots = 1000
	w := newTestWorldWith(t, sim, limits, nil, 10, 10)
	ring := w.SpawnEntity(KindRing, Vec{X: 50, Y: 50}, 0)

	for i := 0; i < starSequence; i++ {
		w.updateEntities()
	}

	if ring.FireSequence != 0 {
		t.Errorf("fire sequence = %d after a full cycle, want 0", ring.FireSequence)
	}
}

func TestUnknownKindOnlyMoves(t *testing.T) {
	w := newTestWorld(t, 10, 10)
	e := w.SpawnEntity(KindEnemy, Vec{X: 30, Y: 30}, 0)
	e.Kind = EntityKind(99)
	e.Vel = Vec{X: 1}

	w.updateEntities()

	if e.Pos.X != 31 || len(w.Shots()) != 0 {
		t.Error("unknown kinds should fall back to plain movement")
	}
}
