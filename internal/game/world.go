package game

import (
	"log"

	"wallbreaker/internal/config"
	"wallbreaker/internal/game/spatial"
)

// Outbox collects everything a tick produced for collaborators outside
// the simulation: audio, event log and metrics.
type Outbox struct {
	Sounds       []Sound
	Damage       []DamageRecord
	ClearedTiles []int
	Spawned      []SpawnRecord
}

// SpawnRecord notes an entity created during the tick.
type SpawnRecord struct {
	ID       EntityID
	Kind     EntityKind
	ParentID EntityID
}

// Kills counts the lethal damage records.
func (o *Outbox) Kills() int {
	n := 0
	for _, d := range o.Damage {
		if d.Killed {
			n++
		}
	}
	return n
}

func (o *Outbox) reset() {
	o.Sounds = o.Sounds[:0]
	o.Damage = o.Damage[:0]
	o.ClearedTiles = o.ClearedTiles[:0]
	o.Spawned = o.Spawned[:0]
}

// WorldConfig holds everything needed to build a World.
type WorldConfig struct {
	Sim        config.SimConfig
	Limits     config.ResourceLimits
	Grid       *TileGrid
	Particles  ParticleRegistry // nil uses DefaultParticles
	Placements []Placement
}

// World owns all simulation state. It is not safe for concurrent use; the
// Engine serializes access to it.
type World struct {
	cfg           config.SimConfig
	limits        config.ResourceLimits
	grid          *TileGrid
	particleTypes ParticleRegistry
	index         *spatial.Grid
	indexReach    float64 // largest entity radius in the index

	player    *Player
	entities  []*Entity
	shots     []*Shot
	particles []*Particle

	nextID  EntityID
	tick    uint64
	wisdom  int
	outbox  Outbox
	spare   Outbox
	remotes map[RemoteID]*RemotePlayer
	localID RemoteID

	// Spawns dropped by resource caps
	droppedEntities  uint64
	droppedShots     uint64
	droppedParticles uint64
}

// NewWorld builds a world with the player at the spawn point and every
// placement created in order.
func NewWorld(cfg WorldConfig) *World {
	registry := cfg.Particles
	if registry == nil {
		registry = DefaultParticles()
	}

	g := cfg.Grid
	w := &World{
		cfg:           cfg.Sim,
		limits:        cfg.Limits,
		grid:          g,
		particleTypes: registry,
		// Two tiles per cell covers the widest shot to entity contact
		index: spatial.NewGrid(
			float64(g.Width())*g.TileSize(),
			float64(g.Height())*g.TileSize(),
			2*g.TileSize(),
			cfg.Limits.MaxEntities,
		),
		entities:  make([]*Entity, 0, cfg.Limits.MaxEntities),
		shots:     make([]*Shot, 0, cfg.Limits.MaxShots),
		particles: make([]*Particle, 0, cfg.Limits.MaxParticles),
		remotes:   make(map[RemoteID]*RemotePlayer),
	}

	w.player = w.newPlayer(Vec{X: cfg.Sim.SpawnX, Y: cfg.Sim.SpawnY})
	for _, p := range cfg.Placements {
		w.place(p)
	}
	return w
}

// Tick advances the simulation one frame: player, entities, shots, then
// particles.
func (w *World) Tick(in InputState) {
	w.tick++
	w.updatePlayer(in)
	w.updateEntities()
	w.updateShots()
	w.updateParticles()
}

// Restart removes every entity and recreates the player at the spawn point.
// Shots and particles in flight are left alone.
func (w *World) Restart() {
	for i := range w.entities {
		w.entities[i] = nil
	}
	w.entities = w.entities[:0]
	w.player = w.newPlayer(Vec{X: w.cfg.SpawnX, Y: w.cfg.SpawnY})
	log.Printf("🔄 World restarted at tick %d", w.tick)
}

// ClearTile empties a tile and kills everything resting on it.
func (w *World) ClearTile(index int) {
	if !w.grid.Clear(index) {
		return
	}
	w.outbox.ClearedTiles = append(w.outbox.ClearedTiles, index)
	for _, e := range w.entities {
		if e.BelowIndex == index {
			w.ApplyDamage(e, FalloutDamage)
		}
	}
}

// Drain hands the tick outbox to the caller and starts a fresh one. The
// returned slices stay valid until the next call to Drain.
func (w *World) Drain() Outbox {
	out := w.outbox
	w.outbox = w.spare
	w.spare = out
	w.outbox.reset()
	return out
}

// Player returns the local player.
func (w *World) Player() *Player { return w.player }

// Entities returns the live entity slice. Callers must not retain it.
func (w *World) Entities() []*Entity { return w.entities }

// Shots returns the shot slice. Callers must not retain it.
func (w *World) Shots() []*Shot { return w.shots }

// Particles returns the particle slice. Callers must not retain it.
func (w *World) Particles() []*Particle { return w.particles }

// Grid returns the tile grid.
func (w *World) Grid() *TileGrid { return w.grid }

// Wisdom returns how many signs have been destroyed.
func (w *World) Wisdom() int { return w.wisdom }

// TickCount returns the number of completed ticks.
func (w *World) TickCount() uint64 { return w.tick }

// Config returns the simulation tuning.
func (w *World) Config() config.SimConfig { return w.cfg }

// Dropped reports spawns rejected by resource caps.
func (w *World) Dropped() (entities, shots, particles uint64) {
	return w.droppedEntities, w.droppedShots, w.droppedParticles
}
