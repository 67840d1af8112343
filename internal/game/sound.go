package game

// Sound is a named audio cue for the audio collaborator.
type Sound string

const (
	SoundPlayerHit     Sound = "playerhit"
	SoundExplode       Sound = "exp"
	SoundExplode2      Sound = "exp2"
	SoundHit           Sound = "hit2"
	SoundHitWall       Sound = "hitwall"
	SoundPlayerExplode Sound = "playerexp"
)

// AllSounds lists every cue the simulation can emit.
var AllSounds = []Sound{
	SoundPlayerHit,
	SoundExplode,
	SoundExplode2,
	SoundHit,
	SoundHitWall,
	SoundPlayerExplode,
}

func (w *World) emitSound(s Sound) {
	w.outbox.Sounds = append(w.outbox.Sounds, s)
}
