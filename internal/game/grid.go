package game

import (
	"fmt"
	"math"
)

// hitboxShrink scales the square hitbox used for tile collision so bodies
// can slide through gaps exactly one tile wide.
const hitboxShrink = 0.8

// farEdgeInset keeps the right/bottom corners inside the current tile when
// a body is exactly tile-aligned.
const farEdgeInset = 0.001

// groundProbe is how far below a body IsGrounded looks.
const groundProbe = 0.1

// decorativeTiles are drawn but never collide.
var decorativeTiles = [...]int{15, 16, 17, 2, 8}

// IsDecorative reports whether a nonzero tile code is visual only.
func IsDecorative(code int) bool {
	for _, d := range decorativeTiles {
		if code == d {
			return true
		}
	}
	return false
}

// IsSolid reports whether a tile code blocks movement.
func IsSolid(code int) bool {
	return code > 0 && !IsDecorative(code)
}

// TileHit describes the first solid tile found by CollidingTile.
type TileHit struct {
	X, Y  int // Floored world coordinate of the corner that hit
	Index int // Row-major tile index
	Code  int // Tile code at Index
}

// TileGrid is a fixed-size row-major map of tile codes.
// Dimensions never change; only individual tiles may be cleared.
type TileGrid struct {
	width, height int
	tileSize      float64
	tiles         []int
	revision      uint64 // Bumped on every Clear
}

// NewTileGrid creates a grid from row-major tile codes.
func NewTileGrid(width, height int, tileSize float64, tiles []int) (*TileGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %v", tileSize)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("grid %dx%d needs %d tiles, got %d", width, height, width*height, len(tiles))
	}

	owned := make([]int, len(tiles))
	copy(owned, tiles)

	return &TileGrid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		tiles:    owned,
	}, nil
}

// Width returns the number of columns.
func (g *TileGrid) Width() int { return g.width }

// Height returns the number of rows.
func (g *TileGrid) Height() int { return g.height }

// TileSize returns the world size of one tile edge.
func (g *TileGrid) TileSize() float64 { return g.tileSize }

// Revision changes whenever a tile is cleared.
func (g *TileGrid) Revision() uint64 { return g.revision }

// Tiles returns the backing tile slice. Callers must not modify it.
func (g *TileGrid) Tiles() []int { return g.tiles }

// IndexAt converts a world position to a tile index, or -1 when the
// position lies outside the grid.
func (g *TileGrid) IndexAt(x, y float64) int {
	if x < 0 || y < 0 || x >= float64(g.width)*g.tileSize || y >= float64(g.height)*g.tileSize {
		return -1
	}
	return int(math.Floor(y/g.tileSize))*g.width + int(math.Floor(x/g.tileSize))
}

// PositionOf returns the world coordinate of a tile's top-left corner.
func (g *TileGrid) PositionOf(index int) Vec {
	return Vec{
		X: float64(index%g.width) * g.tileSize,
		Y: float64(index/g.width) * g.tileSize,
	}
}

// TileAt returns the tile code at a world position. ok is false out of bounds.
func (g *TileGrid) TileAt(pos Vec) (code int, ok bool) {
	idx := g.IndexAt(pos.X, pos.Y)
	if idx < 0 {
		return 0, false
	}
	return g.tiles[idx], true
}

// CollidingTile tests the four corners of a shrunk square hitbox centered on
// pos. Corners are scanned top-left, top-right, bottom-left, bottom-right and
// the first solid one wins.
func (g *TileGrid) CollidingTile(pos Vec) (TileHit, bool) {
	half := g.tileSize / 2 * hitboxShrink
	far := half - farEdgeInset

	corners := [4][2]float64{
		{-half, -half}, // top-left
		{far, -half},   // top-right
		{-half, far},   // bottom-left
		{far, far},     // bottom-right
	}

	for _, c := range corners {
		x := math.Floor(pos.X + c[0])
		y := math.Floor(pos.Y + c[1])
		idx := g.IndexAt(x, y)
		if idx < 0 {
			continue
		}
		if code := g.tiles[idx]; IsSolid(code) {
			return TileHit{X: int(x), Y: int(y), Index: idx, Code: code}, true
		}
	}
	return TileHit{}, false
}

// IsGrounded reports whether something solid sits just below pos.
func (g *TileGrid) IsGrounded(pos Vec) bool {
	_, ok := g.CollidingTile(Vec{X: pos.X, Y: pos.Y + groundProbe})
	return ok
}

// restingIndex returns the tile a body at pos stands on, or -1.
func (g *TileGrid) restingIndex(pos Vec) int {
	hit, ok := g.CollidingTile(Vec{X: pos.X, Y: pos.Y + groundProbe})
	if !ok {
		return -1
	}
	return hit.Index
}

// Clear empties a tile. Returns false for an out-of-range index.
func (g *TileGrid) Clear(index int) bool {
	if index < 0 || index >= len(g.tiles) {
		return false
	}
	g.tiles[index] = 0
	g.revision++
	return true
}
