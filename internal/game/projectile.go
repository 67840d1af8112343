package game

import "math"

// Shot is a projectile. HurtsPlayer selects its target set: a shot harms
// either the player or entities, never both.
type Shot struct {
	Body
	Age         int
	HurtsPlayer bool
	OwnerID     EntityID // Ring that fired it, 0 for the player
	Dead        bool
}

func (s *Shot) isDead() bool { return s.Dead }

// FireShot launches a shot from pos. It returns nil when MaxShots is reached.
func (w *World) FireShot(pos, vel Vec, hurtsPlayer bool, owner EntityID) *Shot {
	if len(w.shots) >= w.limits.MaxShots {
		w.droppedShots++
		return nil
	}
	s := &Shot{
		Body:        Body{Pos: pos, Vel: vel, Radius: w.cfg.ShotRadius},
		HurtsPlayer: hurtsPlayer,
		OwnerID:     owner,
	}
	w.shots = append(w.shots, s)
	return s
}

// enemyShotLifetime is how many ticks an entity-harming shot survives: the
// time to cross three tiles. A shot with no horizontal speed would live
// forever, so it falls back to the player-harming lifetime.
func (w *World) enemyShotLifetime(s *Shot) float64 {
	speed := math.Abs(s.Vel.X)
	if speed == 0 {
		return float64(w.cfg.EnemyShotMaxAge)
	}
	return 3 * w.cfg.TileSize / speed
}

// explode marks the shot dead and leaves an explosion where it ended.
func (w *World) explode(s *Shot) {
	s.Dead = true
	w.SpawnParticle(s.Pos, ParticleExplosion)
}

// indexEntities rebuilds the broad phase from live entities and records
// the largest radius among them for query reach.
func (w *World) indexEntities() {
	w.index.Reset()
	w.indexReach = w.cfg.EnemyRadius
	for i, e := range w.entities {
		if e.Dead {
			continue
		}
		w.index.Insert(uint32(i), e.Pos.X, e.Pos.Y)
		if e.Radius > w.indexReach {
			w.indexReach = e.Radius
		}
	}
}

// firstTouchingEntity returns the live entity earliest in collection order
// whose hit circle overlaps the shot.
func (w *World) firstTouchingEntity(s *Shot) *Entity {
	for _, slot := range w.index.Near(s.Pos.X, s.Pos.Y, s.Radius+w.indexReach) {
		e := w.entities[slot]
		if !e.Dead && Touching(&s.Body, &e.Body) {
			return e
		}
	}
	return nil
}

// updateShots moves every shot and resolves its hits. A player hit or an
// expiry ends the shot's checks for the tick. An entity hit still falls
// through to the grid test, so a shot can damage an entity and break the
// wall it stands in.
func (w *World) updateShots() {
	w.indexEntities()

	for _, s := range w.shots {
		if s.Dead {
			continue
		}

		s.Integrate()
		s.Age++

		if s.HurtsPlayer {
			// ApplyDamage ignores a dead player but the shot is still spent
			if p := w.player; p != nil && Touching(&s.Body, &p.Body) {
				w.ApplyDamage(p, w.cfg.ShotDamage)
				w.emitSound(SoundPlayerHit)
				w.emitSound(SoundExplode)
				w.explode(s)
				continue
			}
			if s.Age > w.cfg.EnemyShotMaxAge {
				w.explode(s)
				continue
			}
		} else {
			if e := w.firstTouchingEntity(s); e != nil {
				w.ApplyDamage(e, w.cfg.ShotDamage)
				w.emitSound(SoundHit)
				w.explode(s)
			} else if float64(s.Age) > w.enemyShotLifetime(s) {
				w.explode(s)
				continue
			}
		}

		hit, ok := w.grid.CollidingTile(s.Pos)
		if !ok {
			continue
		}
		w.explode(s)
		if !s.HurtsPlayer {
			w.emitSound(SoundHitWall)
			w.ClearTile(hit.Index)
		}
	}

	w.shots = compactLive(w.shots)
}
