package game

import (
	"sync/atomic"
	"time"

	"wallbreaker/internal/config"
)

// PlayerSnapshot is an immutable copy of the local player for rendering
type PlayerSnapshot struct {
	X, Y           float64
	VX, VY         float64
	Rot            float64
	FacingLeft     bool
	HP, MaxHP      int
	IsDead         bool
	Immune         bool
	HealthBarFlash int
	CheatMode      bool
}

// EntitySnapshot is an immutable entity for rendering
type EntitySnapshot struct {
	ID       EntityID
	Kind     string
	X, Y     float64
	Radius   float64
	HP       int
	MaxHP    int
	IsSign   bool
	ParentID EntityID
}

// ShotSnapshot is an immutable shot for rendering
type ShotSnapshot struct {
	X, Y        float64
	VX, VY      float64
	HurtsPlayer bool
}

// ParticleSnapshot is an immutable particle for rendering
type ParticleSnapshot struct {
	X, Y   float64
	Type   string
	Sprite int
	Life   float64 // Remaining fraction of MaxAge, 1 when fresh
}

// RemoteSnapshot is a mirrored remote player
type RemoteSnapshot struct {
	ID        RemoteID
	X, Y      float64
	LostCoins bool
}

// GameSnapshot is a complete immutable game state for rendering
// All slices are pre-allocated and capped to prevent memory attacks
type GameSnapshot struct {
	Sequence   uint64
	Timestamp  time.Time
	TickNumber uint64

	Player    PlayerSnapshot
	Entities  []EntitySnapshot
	Shots     []ShotSnapshot
	Particles []ParticleSnapshot
	Remotes   []RemoteSnapshot
	Sounds    []Sound // Cues emitted by this tick

	// Tile map, copied only when the grid revision changes
	GridWidth    int
	GridHeight   int
	TileSize     float64
	GridRevision uint64
	Tiles        []int

	Wisdom  int
	LocalID RemoteID
}

// Clone returns a deep copy that stays valid after the pool reuses the
// slot. Readers that hold a snapshot across ticks must clone it first.
func (s *GameSnapshot) Clone() *GameSnapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Entities = append([]EntitySnapshot(nil), s.Entities...)
	c.Shots = append([]ShotSnapshot(nil), s.Shots...)
	c.Particles = append([]ParticleSnapshot(nil), s.Particles...)
	c.Remotes = append([]RemoteSnapshot(nil), s.Remotes...)
	c.Sounds = append([]Sound(nil), s.Sounds...)
	c.Tiles = append([]int(nil), s.Tiles...)
	return &c
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering for lock-free producer/consumer
type SnapshotPool struct {
	snapshots [3]GameSnapshot
	limits    config.ResourceLimits
	writeIdx  uint32 // atomic, producer index
	readIdx   uint32 // atomic, consumer index
	sequence  uint64 // atomic, monotonic sequence
	published atomic.Bool
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits config.ResourceLimits, tiles int) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := range pool.snapshots {
		pool.snapshots[i] = GameSnapshot{
			Entities:  make([]EntitySnapshot, 0, limits.MaxEntities),
			Shots:     make([]ShotSnapshot, 0, limits.MaxShots),
			Particles: make([]ParticleSnapshot, 0, limits.MaxParticles),
			Sounds:    make([]Sound, 0, 16),
			Tiles:     make([]int, 0, tiles),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity. The tile copy
// is left in place; the producer refreshes it when GridRevision is stale.
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := (atomic.LoadUint32(&p.readIdx) + 1) % 3
	atomic.StoreUint32(&p.writeIdx, idx)
	snap := &p.snapshots[idx]

	snap.Entities = snap.Entities[:0]
	snap.Shots = snap.Shots[:0]
	snap.Particles = snap.Particles[:0]
	snap.Remotes = snap.Remotes[:0]
	snap.Sounds = snap.Sounds[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
// Called after snapshot is fully populated
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
	p.published.Store(true)
}

// AcquireRead gets the latest complete snapshot (consumer only, called from render)
// Returns nil if no snapshot is available yet
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	if !p.published.Load() {
		return nil
	}
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() config.ResourceLimits {
	return p.limits
}
