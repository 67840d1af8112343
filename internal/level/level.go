// Package level loads tile maps and entity placements.
//
// A level is a JSON document:
//
//	{
//	  "name": "arena",
//	  "width": 40, "height": 24,
//	  "tiles": [ ...width*height row-major tile codes... ],
//	  "entities": [{"kind": "spawner", "x": 330, "y": 60}]
//	}
//
// Entity coordinates are world units, the same space the simulation uses.
package level

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"wallbreaker/internal/game"
)

// MaxTiles bounds the size of a level accepted from disk or the network.
const MaxTiles = 1 << 20

// Level is a parsed level description.
type Level struct {
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Tiles    []int        `json:"tiles"`
	Entities []EntitySpec `json:"entities"`
}

// EntitySpec places one entity.
type EntitySpec struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health int     `json:"health,omitempty"`
	Sign   bool    `json:"sign,omitempty"`
}

// Parse decodes and validates a level.
func Parse(r io.Reader) (*Level, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var l Level
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads a level file.
func Load(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()

	l, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.Name == "" {
		l.Name = path
	}
	return l, nil
}

// Validate checks dimensions, tile codes and entity kinds. Entity positions
// are not bounds-checked against a tile size; off-map entities simply never
// touch the grid.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level dimensions must be positive, got %dx%d", l.Width, l.Height)
	}
	if l.Width*l.Height > MaxTiles {
		return fmt.Errorf("level %dx%d exceeds %d tiles", l.Width, l.Height, MaxTiles)
	}
	if len(l.Tiles) != l.Width*l.Height {
		return fmt.Errorf("level %dx%d needs %d tiles, got %d", l.Width, l.Height, l.Width*l.Height, len(l.Tiles))
	}
	for i, code := range l.Tiles {
		if code < 0 {
			return fmt.Errorf("tile %d has negative code %d", i, code)
		}
	}
	for i, e := range l.Entities {
		if _, err := game.ParseEntityKind(e.Kind); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
		if e.Health < 0 {
			return fmt.Errorf("entity %d: negative health %d", i, e.Health)
		}
	}
	return nil
}

// Grid builds the tile grid for this level.
func (l *Level) Grid(tileSize float64) (*game.TileGrid, error) {
	return game.NewTileGrid(l.Width, l.Height, tileSize, l.Tiles)
}

// Placements converts entity specs into world placements. The level must
// already be valid.
func (l *Level) Placements() []game.Placement {
	out := make([]game.Placement, 0, len(l.Entities))
	for _, e := range l.Entities {
		kind, err := game.ParseEntityKind(e.Kind)
		if err != nil {
			continue
		}
		out = append(out, game.Placement{
			Kind:   kind,
			Pos:    game.Vec{X: e.X, Y: e.Y},
			Health: e.Health,
			IsSign: e.Sign,
		})
	}
	return out
}
