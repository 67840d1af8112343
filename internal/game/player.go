package game

import "math"

// Player is the single locally controlled character.
type Player struct {
	Body
	Vitals

	Speed          float64 // Max velocity per axis
	Rot            float64 // Aim angle in radians
	FacingLeft     bool
	HealthBarFlash int // Ticks left on the damage flash
	CheatMode      bool
	FireCooldown   int // Ticks until held fire repeats
}

func (w *World) newPlayer(pos Vec) *Player {
	return &Player{
		Body:   Body{Pos: pos, Radius: w.cfg.PlayerRadius},
		Vitals: Vitals{Health: w.cfg.PlayerHealth, MaxHealth: w.cfg.PlayerHealth},
		Speed:  w.cfg.PlayerSpeed,
	}
}

// accelAxis moves one velocity component toward +max when more is held,
// toward -max when less is held, and toward zero otherwise. Speed above max
// bleeds off at the deceleration rate.
func accelAxis(vel float64, more, less bool, max, accel, decel float64) float64 {
	switch {
	case more:
		if vel < max {
			return vel + accel
		}
		return vel - math.Min(vel-max, decel)
	case less:
		if vel > -max {
			return vel - accel
		}
		return vel + math.Min(-vel-max, decel)
	case vel < 0:
		return vel + math.Min(-vel, decel)
	case vel > 0:
		return vel - math.Min(vel, decel)
	}
	return vel
}

// SetAim points the player at target.
func (w *World) SetAim(target Vec) {
	if w.player == nil {
		return
	}
	d := target.Sub(w.player.Pos)
	w.player.Rot = math.Atan2(d.Y, d.X)
}

// FirePlayerShot launches a forward shot that harms entities.
func (w *World) FirePlayerShot() *Shot {
	p := w.player
	if p == nil || p.Dead {
		return nil
	}
	vx := w.cfg.PlayerShotSpeed
	if p.FacingLeft {
		vx = -vx
	}
	return w.FireShot(p.Pos, Vec{X: vx}, false, 0)
}

// updatePlayer applies one tick of input to the player.
func (w *World) updatePlayer(in InputState) {
	p := w.player
	if p == nil {
		return
	}

	if p.HealthBarFlash > 0 {
		p.HealthBarFlash--
	}
	p.tickImmunity()
	if p.FireCooldown > 0 {
		p.FireCooldown--
	}

	if in.CheatToggle {
		p.CheatMode = !p.CheatMode
	}
	if p.Dead {
		return
	}

	p.Vel.X = accelAxis(p.Vel.X, in.Right, in.Left, p.Speed, w.cfg.PlayerAccel, w.cfg.PlayerDecel)
	p.Vel.Y = accelAxis(p.Vel.Y, in.Down, in.Up, p.Speed, w.cfg.PlayerAccel, w.cfg.PlayerDecel)

	if p.Vel.X < 0 {
		p.FacingLeft = true
	} else if p.Vel.X > 0 {
		p.FacingLeft = false
	}

	w.movePlayerAxis(p, Vec{X: p.Vel.X})
	w.movePlayerAxis(p, Vec{Y: p.Vel.Y})

	switch {
	case in.FireEdge:
		w.FirePlayerShot()
		p.FireCooldown = w.cfg.PlayerFireCooldown
	case in.Fire && p.FireCooldown == 0:
		w.FirePlayerShot()
		p.FireCooldown = w.cfg.PlayerFireCooldown
	}
}

// movePlayerAxis applies one axis of motion. A move into a solid tile is
// undone and stops that axis, unless cheat mode lets the player pass walls.
func (w *World) movePlayerAxis(p *Player, delta Vec) {
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	prev := p.Pos
	p.Pos = p.Pos.Add(delta)
	if p.CheatMode {
		return
	}
	if _, hit := w.grid.CollidingTile(p.Pos); hit {
		p.Pos = prev
		if delta.X != 0 {
			p.Vel.X = 0
		} else {
			p.Vel.Y = 0
		}
	}
}
