package game

import (
	"fmt"
	"log"
	"sync"
	"time"

	"wallbreaker/internal/config"
	"wallbreaker/internal/game/spatial"
)

// MaxPendingNet caps inbound network messages queued between two ticks.
const MaxPendingNet = 64

// EngineConfig configures a new Engine.
type EngineConfig struct {
	Sim        config.SimConfig
	Limits     config.ResourceLimits
	Grid       *TileGrid
	Placements []Placement
	Particles  ParticleRegistry // nil uses DefaultParticles
}

// TickStats summarizes one completed tick for metrics and broadcast.
type TickStats struct {
	Tick         uint64
	Duration     time.Duration
	Entities     int
	Shots        int
	Particles    int
	Sounds       []Sound
	Damage       int
	Kills        int
	TilesCleared int
	Spawned      int
}

// EngineStats is the engine state exposed on /api/stats.
type EngineStats struct {
	Tick      uint64        `json:"tick"`
	TickRate  int           `json:"tickRate"`
	Running   bool          `json:"running"`
	Entities  int           `json:"entities"`
	Shots     int           `json:"shots"`
	Particles int           `json:"particles"`
	Remotes   int           `json:"remotes"`
	Wisdom    int           `json:"wisdom"`
	Dropped   DroppedStats  `json:"dropped"`
	Spatial   spatial.Stats `json:"spatial"`
	EventLog  EventLogStats `json:"eventLog"`
}

// DroppedStats counts spawns and messages rejected by caps.
type DroppedStats struct {
	Entities  uint64 `json:"entities"`
	Shots     uint64 `json:"shots"`
	Particles uint64 `json:"particles"`
	Net       uint64 `json:"net"`
}

// Engine drives a World at a fixed tick rate and serializes access to it
// from API goroutines.
type Engine struct {
	mu    sync.Mutex
	world *World

	// Applied at the start of the next tick
	input      InputState
	pendingNet []NetMessage
	droppedNet uint64

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	done     chan struct{}

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	onTick  func(TickStats)
	onSound func(Sound)
}

// NewEngine creates an engine around a freshly built World.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Grid == nil {
		return nil, fmt.Errorf("engine needs a tile grid")
	}
	if cfg.Sim.TickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", cfg.Sim.TickRate)
	}

	world := NewWorld(WorldConfig{
		Sim:        cfg.Sim,
		Limits:     cfg.Limits,
		Grid:       cfg.Grid,
		Particles:  cfg.Particles,
		Placements: cfg.Placements,
	})

	e := &Engine{
		world:        world,
		pendingNet:   make([]NetMessage, 0, MaxPendingNet),
		tickRate:     cfg.Sim.TickRate,
		snapshotPool: NewSnapshotPool(cfg.Limits, len(cfg.Grid.Tiles())),
		eventLog:     NewEventLog(),
	}
	e.mu.Lock()
	e.produceSnapshot(nil)
	e.mu.Unlock()
	return e, nil
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.done = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	ticker, stop, done := e.ticker, e.stopChan, e.done
	e.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				e.Step()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Game engine started at %d TPS", e.tickRate)
}

// Stop stops the game loop and waits for the current tick to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	done := e.done
	e.mu.Unlock()

	<-done
	log.Println("🛑 Game engine stopped")
}

// Running reports whether the ticker goroutine is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Step runs exactly one tick: queued network messages, the world update,
// event logging and snapshot publication. Callbacks fire after the lock is
// released.
func (e *Engine) Step() TickStats {
	start := time.Now()

	e.mu.Lock()
	w := e.world

	for _, msg := range e.pendingNet {
		touched := w.ApplyNet(msg)
		e.eventLog.EmitSimple(EventTypeNetPatch, w.TickCount()+1, "net",
			NetPatchPayload{Kind: msg.Kind.String(), Touched: touched})
	}
	for i := range e.pendingNet {
		e.pendingNet[i] = NetMessage{}
	}
	e.pendingNet = e.pendingNet[:0]

	in := e.input
	e.input = e.input.clearEdges()

	w.Tick(in)
	out := w.Drain()

	stats := TickStats{
		Tick:         w.TickCount(),
		Entities:     len(w.Entities()),
		Shots:        len(w.Shots()),
		Particles:    len(w.Particles()),
		Sounds:       append([]Sound(nil), out.Sounds...),
		Damage:       len(out.Damage),
		Kills:        out.Kills(),
		TilesCleared: len(out.ClearedTiles),
		Spawned:      len(out.Spawned),
	}

	e.logOutbox(&out)
	e.produceSnapshot(out.Sounds)
	stats.Duration = time.Since(start)

	e.eventLog.EmitSimple(EventTypeTick, stats.Tick, "", TickPayload{
		Entities:    stats.Entities,
		Shots:       stats.Shots,
		Particles:   stats.Particles,
		DurationNs:  stats.Duration.Nanoseconds(),
		SoundsFired: len(stats.Sounds),
	})

	onTick, onSound := e.onTick, e.onSound
	e.mu.Unlock()

	if onSound != nil {
		for _, s := range stats.Sounds {
			onSound(s)
		}
	}
	if onTick != nil {
		onTick(stats)
	}
	return stats
}

// logOutbox turns tick records into event log entries.
func (e *Engine) logOutbox(out *Outbox) {
	w := e.world
	tick := w.TickCount()

	for _, d := range out.Damage {
		src := entitySource(d.TargetID, d.Player)
		e.eventLog.EmitSimple(EventTypeDamage, tick, src, DamagePayload{
			TargetID:  d.TargetID,
			Player:    d.Player,
			Amount:    d.Amount,
			Remaining: d.Remaining,
			X:         d.Pos.X,
			Y:         d.Pos.Y,
		})
		if d.Killed {
			e.eventLog.EmitSimple(EventTypeKill, tick, src, KillPayload{
				TargetID: d.TargetID,
				Player:   d.Player,
				Wisdom:   w.Wisdom(),
			})
			if d.Player {
				log.Printf("💀 Player died at (%.0f, %.0f)", d.Pos.X, d.Pos.Y)
			}
		}
	}

	for _, idx := range out.ClearedTiles {
		pos := w.Grid().PositionOf(idx)
		e.eventLog.EmitSimple(EventTypeTileCleared, tick, "", TileClearedPayload{
			Index: idx, X: pos.X, Y: pos.Y,
		})
	}

	for _, s := range out.Spawned {
		e.eventLog.EmitSimple(EventTypeSpawn, tick, entitySource(s.ParentID, false), SpawnPayload{
			ID:       s.ID,
			Kind:     s.Kind.String(),
			ParentID: s.ParentID,
		})
	}
}

func entitySource(id EntityID, player bool) string {
	if player {
		return "player"
	}
	if id == 0 {
		return ""
	}
	return fmt.Sprintf("entity:%d", id)
}

// SetInput latches input for the next tick. Edges accumulate until a tick
// consumes them.
func (e *Engine) SetInput(in InputState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = e.input.Merge(in)
}

// SetAim turns the player toward a world position.
func (e *Engine) SetAim(target Vec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.world.SetAim(target)
}

// QueueNet schedules a network message for the next tick. It returns false
// when the queue is full and the message was dropped.
func (e *Engine) QueueNet(msg NetMessage) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pendingNet) >= MaxPendingNet {
		e.droppedNet++
		return false
	}
	e.pendingNet = append(e.pendingNet, msg)
	return true
}

// Restart clears entities and respawns the player, then publishes a fresh
// snapshot so readers see the reset immediately.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := len(e.world.Entities())
	e.world.Restart()
	e.eventLog.EmitSimple(EventTypeRestart, e.world.TickCount(), "", RestartPayload{EntitiesRemoved: removed})
	e.produceSnapshot(nil)
}

// SetCallbacks sets tick and audio callbacks. Both run on the engine
// goroutine and must not block.
func (e *Engine) SetCallbacks(onTick func(TickStats), onSound func(Sound)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = onTick
	e.onSound = onSound
}

// GetSnapshot returns the latest immutable snapshot for lock-free rendering.
// The pool has three slots, so the returned snapshot is only stable for about
// two ticks. Anything slower (encoding a frame, a blocked socket write) must
// work from GameSnapshot.Clone.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// produceSnapshot copies the world into the next snapshot slot. Caller
// holds e.mu.
func (e *Engine) produceSnapshot(sounds []Sound) {
	w := e.world
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = w.TickCount()
	snap.Wisdom = w.Wisdom()
	snap.LocalID = w.LocalID()
	snap.Sounds = append(snap.Sounds, sounds...)

	if p := w.Player(); p != nil {
		snap.Player = PlayerSnapshot{
			X:              p.Pos.X,
			Y:              p.Pos.Y,
			VX:             p.Vel.X,
			VY:             p.Vel.Y,
			Rot:            p.Rot,
			FacingLeft:     p.FacingLeft,
			HP:             p.Health,
			MaxHP:          p.MaxHealth,
			IsDead:         p.Dead,
			Immune:         p.Immunity > 0,
			HealthBarFlash: p.HealthBarFlash,
			CheatMode:      p.CheatMode,
		}
	}

	for _, ent := range w.Entities() {
		if ent.Dead {
			continue
		}
		snap.Entities = append(snap.Entities, EntitySnapshot{
			ID:       ent.ID,
			Kind:     ent.Kind.String(),
			X:        ent.Pos.X,
			Y:        ent.Pos.Y,
			Radius:   ent.Radius,
			HP:       ent.Health,
			MaxHP:    ent.MaxHealth,
			IsSign:   ent.IsSign,
			ParentID: ent.ParentID,
		})
	}

	for _, s := range w.Shots() {
		snap.Shots = append(snap.Shots, ShotSnapshot{
			X:           s.Pos.X,
			Y:           s.Pos.Y,
			VX:          s.Vel.X,
			VY:          s.Vel.Y,
			HurtsPlayer: s.HurtsPlayer,
		})
	}

	for _, p := range w.Particles() {
		kind := w.particleTypes[p.Type]
		life := 0.0
		if kind.MaxAge > 0 {
			life = 1 - float64(p.Age)/float64(kind.MaxAge)
		}
		snap.Particles = append(snap.Particles, ParticleSnapshot{
			X:      p.Pos.X,
			Y:      p.Pos.Y,
			Type:   p.Type.String(),
			Sprite: kind.Sprite,
			Life:   life,
		})
	}

	for id, rp := range w.remotes {
		snap.Remotes = append(snap.Remotes, RemoteSnapshot{
			ID:        id,
			X:         rp.Pos.X,
			Y:         rp.Pos.Y,
			LostCoins: rp.LostCoins,
		})
	}

	g := w.Grid()
	tiles := g.Tiles()
	if len(snap.Tiles) != len(tiles) || snap.GridRevision != g.Revision() {
		snap.Tiles = append(snap.Tiles[:0], tiles...)
		snap.GridRevision = g.Revision()
	}
	snap.GridWidth = g.Width()
	snap.GridHeight = g.Height()
	snap.TileSize = g.TileSize()

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() EventLogStats {
	return e.eventLog.Stats()
}

// Stats returns a consistent view of engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	w := e.world
	de, ds, dp := w.Dropped()
	return EngineStats{
		Tick:      w.TickCount(),
		TickRate:  e.tickRate,
		Running:   e.running,
		Entities:  len(w.Entities()),
		Shots:     len(w.Shots()),
		Particles: len(w.Particles()),
		Remotes:   w.RemoteCount(),
		Wisdom:    w.Wisdom(),
		Dropped: DroppedStats{
			Entities:  de,
			Shots:     ds,
			Particles: dp,
			Net:       e.droppedNet,
		},
		Spatial:  w.index.Stats(),
		EventLog: e.eventLog.Stats(),
	}
}

// GetLimits returns the resource limits
func (e *Engine) GetLimits() config.ResourceLimits {
	return e.snapshotPool.GetLimits()
}
