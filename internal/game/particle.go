package game

import "math"

// ParticleType identifies a kind in the particle registry.
type ParticleType uint8

const (
	ParticleExplosion   ParticleType = iota // Shot impact ring
	ParticleSpark                           // Fragment thrown by an explosion
	ParticleEnemyDeath                      // Default entity death ring
	ParticleSmoke                           // Lingering puff after an enemy death
	ParticlePlayerDeath                     // Large ring when the player dies
)

// String returns the registry name of the particle type.
func (t ParticleType) String() string {
	switch t {
	case ParticleExplosion:
		return "exp_ring"
	case ParticleSpark:
		return "spark"
	case ParticleEnemyDeath:
		return "dead_ring"
	case ParticleSmoke:
		return "smoke"
	case ParticlePlayerDeath:
		return "player_dead_ring"
	default:
		return "unknown"
	}
}

// Cascade spawns Amount children of Type in an evenly spaced ring when the
// parent expires.
type Cascade struct {
	Type   ParticleType
	Amount int
	Force  float64
}

// ParticleKind is the static description of a particle type.
type ParticleKind struct {
	MaxAge int
	Sprite int
	Spawns []Cascade
}

// ParticleRegistry maps particle types to their kinds.
type ParticleRegistry map[ParticleType]ParticleKind

// DefaultParticles returns the built-in particle registry.
func DefaultParticles() ParticleRegistry {
	return ParticleRegistry{
		ParticleExplosion: {
			MaxAge: 8,
			Sprite: 40,
			Spawns: []Cascade{{Type: ParticleSpark, Amount: 6, Force: 0.6}},
		},
		ParticleSpark: {MaxAge: 10, Sprite: 41},
		ParticleEnemyDeath: {
			MaxAge: 15,
			Sprite: 42,
			Spawns: []Cascade{{Type: ParticleSmoke, Amount: 4, Force: 0.3}},
		},
		ParticleSmoke: {MaxAge: 30, Sprite: 43},
		ParticlePlayerDeath: {
			MaxAge: 20,
			Sprite: 44,
			Spawns: []Cascade{{Type: ParticleExplosion, Amount: 8, Force: 1}},
		},
	}
}

// Particle is a short-lived visual effect.
type Particle struct {
	Pos  Vec
	Vel  Vec
	Age  int
	Type ParticleType
	Dead bool
}

func (p *Particle) isDead() bool { return p.Dead }

// SpawnParticle adds a stationary particle. Returns false when the particle
// cap is reached and the spawn was dropped.
func (w *World) SpawnParticle(pos Vec, t ParticleType) bool {
	return w.addParticle(&Particle{Pos: pos, Type: t})
}

// addParticle enforces MaxParticles.
func (w *World) addParticle(p *Particle) bool {
	if len(w.particles) >= w.limits.MaxParticles {
		w.droppedParticles++
		return false
	}
	w.particles = append(w.particles, p)
	return true
}

// burst spawns amount particles at pos, the i-th moving at force along angle
// i/amount of a full turn.
func (w *World) burst(pos Vec, c Cascade) {
	for i := 0; i < c.Amount; i++ {
		angle := float64(i) / float64(c.Amount) * 2 * math.Pi
		w.addParticle(&Particle{
			Pos:  pos,
			Vel:  Vec{X: math.Cos(angle) * c.Force, Y: math.Sin(angle) * c.Force},
			Type: c.Type,
		})
	}
}

// updateParticles ages and moves every particle, cascading the ones that
// expire. Children spawned here are first processed on the next tick.
func (w *World) updateParticles() {
	n := len(w.particles)
	for i := 0; i < n; i++ {
		p := w.particles[i]
		if p.Dead {
			continue
		}

		kind, ok := w.particleTypes[p.Type]
		if !ok {
			p.Dead = true
			continue
		}

		p.Pos = p.Pos.Add(p.Vel)
		p.Age++

		if p.Age >= kind.MaxAge {
			p.Dead = true
			for _, c := range kind.Spawns {
				w.burst(p.Pos, c)
			}
		}
	}

	w.particles = compactLive(w.particles)
}
