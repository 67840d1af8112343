package api

import "wallbreaker/internal/game"

// StateResponse is the JSON form of a snapshot, shared by /api/state and
// the websocket "game:state" event.
type StateResponse struct {
	Tick     uint64 `json:"tick"`
	Sequence uint64 `json:"sequence"`
	Wisdom   int    `json:"wisdom"`
	LocalID  string `json:"localId,omitempty"`

	Player    playerJSON     `json:"player"`
	Entities  []entityJSON   `json:"entities"`
	Shots     []shotJSON     `json:"shots"`
	Particles []particleJSON `json:"particles"`
	Remotes   []remoteJSON   `json:"remotes"`
	Sounds    []game.Sound   `json:"sounds"`

	Grid *gridJSON `json:"grid,omitempty"`
}

type playerJSON struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	VX         float64 `json:"vx"`
	VY         float64 `json:"vy"`
	Rot        float64 `json:"rot"`
	FacingLeft bool    `json:"facingLeft"`
	HP         int     `json:"hp"`
	MaxHP      int     `json:"maxHp"`
	Dead       bool    `json:"dead"`
	Immune     bool    `json:"immune"`
	Flash      int     `json:"flash"`
	Cheat      bool    `json:"cheat"`
}

type entityJSON struct {
	ID     game.EntityID `json:"id"`
	Kind   string        `json:"kind"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	HP     int           `json:"hp"`
	MaxHP  int           `json:"maxHp"`
	Sign   bool          `json:"sign,omitempty"`
	Parent game.EntityID `json:"parent,omitempty"`
}

type shotJSON struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	VX          float64 `json:"vx"`
	VY          float64 `json:"vy"`
	HurtsPlayer bool    `json:"hurtsPlayer"`
}

type particleJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Type   string  `json:"type"`
	Sprite int     `json:"sprite"`
	Life   float64 `json:"life"`
}

type remoteJSON struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	LostCoins bool    `json:"lostCoins,omitempty"`
}

type gridJSON struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	TileSize float64 `json:"tileSize"`
	Revision uint64  `json:"revision"`
	Tiles    []int   `json:"tiles"`
}

// NewStateResponse copies a snapshot into its JSON form. The tile map is
// included only when withGrid is set, since it rarely changes.
func NewStateResponse(snap *game.GameSnapshot, withGrid bool) StateResponse {
	resp := StateResponse{
		Tick:     snap.TickNumber,
		Sequence: snap.Sequence,
		Wisdom:   snap.Wisdom,
		LocalID:  string(snap.LocalID),
		Player: playerJSON{
			X:          snap.Player.X,
			Y:          snap.Player.Y,
			VX:         snap.Player.VX,
			VY:         snap.Player.VY,
			Rot:        snap.Player.Rot,
			FacingLeft: snap.Player.FacingLeft,
			HP:         snap.Player.HP,
			MaxHP:      snap.Player.MaxHP,
			Dead:       snap.Player.IsDead,
			Immune:     snap.Player.Immune,
			Flash:      snap.Player.HealthBarFlash,
			Cheat:      snap.Player.CheatMode,
		},
		Entities:  make([]entityJSON, 0, len(snap.Entities)),
		Shots:     make([]shotJSON, 0, len(snap.Shots)),
		Particles: make([]particleJSON, 0, len(snap.Particles)),
		Remotes:   make([]remoteJSON, 0, len(snap.Remotes)),
		Sounds:    append([]game.Sound{}, snap.Sounds...),
	}

	for _, e := range snap.Entities {
		resp.Entities = append(resp.Entities, entityJSON{
			ID: e.ID, Kind: e.Kind, X: e.X, Y: e.Y,
			HP: e.HP, MaxHP: e.MaxHP, Sign: e.IsSign, Parent: e.ParentID,
		})
	}
	for _, s := range snap.Shots {
		resp.Shots = append(resp.Shots, shotJSON{X: s.X, Y: s.Y, VX: s.VX, VY: s.VY, HurtsPlayer: s.HurtsPlayer})
	}
	for _, p := range snap.Particles {
		resp.Particles = append(resp.Particles, particleJSON{X: p.X, Y: p.Y, Type: p.Type, Sprite: p.Sprite, Life: p.Life})
	}
	for _, rp := range snap.Remotes {
		resp.Remotes = append(resp.Remotes, remoteJSON{ID: string(rp.ID), X: rp.X, Y: rp.Y, LostCoins: rp.LostCoins})
	}

	if withGrid {
		resp.Grid = &gridJSON{
			Width:    snap.GridWidth,
			Height:   snap.GridHeight,
			TileSize: snap.TileSize,
			Revision: snap.GridRevision,
			Tiles:    append([]int{}, snap.Tiles...),
		}
	}
	return resp
}
