package game

import (
	"fmt"
	"log"
	"math"
)

// EntityID identifies an entity for the lifetime of a World. Zero is never
// assigned and means "none".
type EntityID uint64

// EntityKind selects the behavior row in the kind table.
type EntityKind uint8

const (
	KindEnemy EntityKind = iota
	KindSpawner
	KindRing
)

// String returns the wire name of the kind.
func (k EntityKind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindSpawner:
		return "spawner"
	case KindRing:
		return "ring"
	default:
		return "unknown"
	}
}

// ParseEntityKind converts a wire name back into a kind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "enemy":
		return KindEnemy, nil
	case "spawner":
		return KindSpawner, nil
	case "ring":
		return KindRing, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Default health per kind.
const (
	EnemyHealth   = 30
	SpawnerHealth = 50
	RingHealth    = 20
)

// starPoints is the angular step count of a ring's star volley.
const starPoints = 4

// starShots is how many shots a volley fires. One more than starPoints, so
// the first direction is doubled.
const starShots = 5

// starSequence is the number of rotation steps before a ring's volley
// pattern repeats.
const starSequence = 16

// Entity is an enemy, spawner or ring.
type Entity struct {
	ID   EntityID
	Kind EntityKind
	Body
	Vitals

	ParentID    EntityID // Spawner that created this entity, 0 if none
	BelowIndex  int      // Tile this entity rests on, -1 if none
	IsSign      bool     // Killing it increments wisdom
	DeathEffect ParticleType

	SpawnTimer   int
	FireTimer    int
	FireSequence int
}

func (e *Entity) isDead() bool { return e.Dead }

// Placement describes an entity to create when a World is built.
type Placement struct {
	Kind   EntityKind
	Pos    Vec
	Health int // 0 uses the kind default
	IsSign bool
}

// kindBehavior is one row of the kind table. act runs after move and may be nil.
type kindBehavior struct {
	move func(w *World, e *Entity)
	act  func(w *World, e *Entity)
}

var kindTable = [...]kindBehavior{
	KindEnemy:   {move: moveBase},
	KindSpawner: {move: moveBase, act: spawnerAct},
	KindRing:    {move: moveBase, act: ringAct},
}

func behaviorOf(k EntityKind) kindBehavior {
	if int(k) < len(kindTable) {
		return kindTable[k]
	}
	return kindBehavior{move: moveBase}
}

func defaultHealth(k EntityKind) int {
	switch k {
	case KindSpawner:
		return SpawnerHealth
	case KindRing:
		return RingHealth
	default:
		return EnemyHealth
	}
}

// moveBase integrates velocity. Entities at rest stay put.
func moveBase(w *World, e *Entity) {
	e.Integrate()
}

// spawnerAct spawns a ring every SpawnerInterval ticks.
func spawnerAct(w *World, e *Entity) {
	e.SpawnTimer++
	if e.SpawnTimer < w.cfg.SpawnerInterval {
		return
	}
	e.SpawnTimer = 0
	w.SpawnEntity(KindRing, e.Pos, e.ID)
}

// ringAct fires a star volley every RingFireInterval ticks, rotating the
// pattern a sixteenth of a step each time.
func ringAct(w *World, e *Entity) {
	e.FireTimer++
	if e.FireTimer < w.cfg.RingFireInterval {
		return
	}
	e.FireTimer = 0

	step := 2 * math.Pi / starPoints
	offset := float64(e.FireSequence) / starSequence * step
	for i := 0; i < starShots; i++ {
		angle := float64(i)*step + offset
		vel := Vec{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(w.cfg.RingVolleySpeed)
		w.FireShot(e.Pos, vel, true, e.ID)
	}
	e.FireSequence = (e.FireSequence + 1) % starSequence
}

// SpawnEntity creates an entity with kind defaults. It returns nil when
// MaxEntities is reached.
func (w *World) SpawnEntity(kind EntityKind, pos Vec, parent EntityID) *Entity {
	if len(w.entities) >= w.limits.MaxEntities {
		w.droppedEntities++
		return nil
	}

	w.nextID++
	hp := defaultHealth(kind)
	e := &Entity{
		ID:          w.nextID,
		Kind:        kind,
		Body:        Body{Pos: pos, Radius: w.cfg.EnemyRadius},
		Vitals:      Vitals{Health: hp, MaxHealth: hp},
		ParentID:    parent,
		BelowIndex:  w.grid.restingIndex(pos),
		DeathEffect: ParticleEnemyDeath,
	}
	w.entities = append(w.entities, e)
	w.outbox.Spawned = append(w.outbox.Spawned, SpawnRecord{ID: e.ID, Kind: kind, ParentID: parent})
	return e
}

// place creates an entity from a level placement.
func (w *World) place(p Placement) *Entity {
	e := w.SpawnEntity(p.Kind, p.Pos, 0)
	if e == nil {
		log.Printf("⚠️ Entity limit reached (%d), skipping %s at (%.0f, %.0f)",
			w.limits.MaxEntities, p.Kind, p.Pos.X, p.Pos.Y)
		return nil
	}
	if p.Health > 0 {
		e.Health = p.Health
		e.MaxHealth = p.Health
	}
	e.IsSign = p.IsSign
	return e
}

// updateEntities runs one step of every live entity through the kind table.
// Entities spawned during the pass wait for the next tick.
func (w *World) updateEntities() {
	n := len(w.entities)
	for i := 0; i < n; i++ {
		e := w.entities[i]
		if e.Dead {
			continue
		}

		e.tickImmunity()

		b := behaviorOf(e.Kind)
		b.move(w, e)
		if b.act != nil {
			b.act(w, e)
		}
	}

	w.entities = compactLive(w.entities)
}

// compactLive removes dead elements in place, keeping the survivors' order.
func compactLive[T interface{ isDead() bool }](items []T) []T {
	n := 0
	for _, it := range items {
		if !it.isDead() {
			items[n] = it
			n++
		}
	}
	var zero T
	for i := n; i < len(items); i++ {
		items[i] = zero
	}
	return items[:n]
}
