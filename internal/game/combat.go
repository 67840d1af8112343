package game

// FalloutDamage kills anything standing on a tile that was shot away.
const FalloutDamage = 9999

// Vitals is the damageable state shared by the player and every entity.
type Vitals struct {
	Health    int
	MaxHealth int
	Dead      bool
	Immunity  int // Ticks during which damage is ignored
}

// Combat exposes the vitals to the combat resolver.
func (v *Vitals) Combat() *Vitals {
	return v
}

// tickImmunity counts the immunity window down by one tick.
func (v *Vitals) tickImmunity() {
	if v.Immunity > 0 {
		v.Immunity--
	}
}

// Damageable is anything ApplyDamage can hurt.
type Damageable interface {
	Combat() *Vitals
	Kinematics() *Body
}

// DamageRecord is written to the tick outbox for every applied hit.
type DamageRecord struct {
	TargetID  EntityID // 0 when the target is the player
	Player    bool
	Amount    int
	Remaining int
	Killed    bool
	Pos       Vec
}

// ApplyDamage is the single damage path for every damageable object.
// Damage against something already at zero health or still immune is ignored,
// so a second lethal hit in the same tick never re-triggers death effects.
func (w *World) ApplyDamage(target Damageable, amount int) {
	v := target.Combat()
	if v.Health <= 0 || v.Immunity > 0 {
		return
	}

	v.Health -= amount
	if v.Health < 0 {
		v.Health = 0
	}

	pos := target.Kinematics().Pos
	rec := DamageRecord{Amount: amount, Remaining: v.Health, Pos: pos}

	player, isPlayer := target.(*Player)
	ent, isEntity := target.(*Entity)
	if isPlayer {
		rec.Player = true
		player.HealthBarFlash = w.cfg.DamageFlashTicks
	}
	if isEntity {
		rec.TargetID = ent.ID
	}

	if v.Health == 0 {
		v.Dead = true
		rec.Killed = true

		switch {
		case isPlayer:
			w.SpawnParticle(pos, ParticlePlayerDeath)
			w.emitSound(SoundPlayerExplode)
			v.Immunity = w.cfg.DeathImmunityTick
		case isEntity:
			w.SpawnParticle(pos, ent.DeathEffect)
			w.emitSound(SoundExplode2)
			if ent.IsSign {
				w.wisdom++
			}
		default:
			w.SpawnParticle(pos, ParticleEnemyDeath)
			w.emitSound(SoundExplode2)
		}
	}

	w.outbox.Damage = append(w.outbox.Damage, rec)
}
