// Package spatial provides a uniform-cell broad phase for contact tests
// between shots and entities.
//
// Slots are indices into the caller's entity slice, not pointers, so a
// rebuild each tick costs no allocations once the cells have grown.
package spatial

import (
	"math"
	"sort"
)

// Grid buckets slots into fixed-size square cells covering the level.
// Positions outside the level are clamped into the border cells, so nothing
// inserted is ever lost.
//
// Memory layout: cells[row*cols+col]
type Grid struct {
	cellSize    float64
	invCellSize float64
	cols, rows  int
	cells       [][]uint32
	scratch     []uint32
	count       int
}

// NewGrid creates a grid covering width x height world units. capacity is
// the expected number of slots and only sizes the initial cell buffers.
func NewGrid(width, height, cellSize float64, capacity int) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	perCell := capacity / len(cells)
	if perCell < 4 {
		perCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, perCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 32),
	}
}

// Reset empties every cell but keeps their capacity.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Len returns the number of slots inserted since the last Reset.
func (g *Grid) Len() int {
	return g.count
}

// Insert files slot under the cell containing (x, y).
func (g *Grid) Insert(slot uint32, x, y float64) {
	col, row := g.cellOf(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], slot)
	g.count++
}

// Near returns every slot whose cell intersects the square of half extent
// radius around (x, y), in ascending slot order. Candidates may lie outside
// the radius; callers do the exact test.
//
// The returned slice is reused by the next call.
func (g *Grid) Near(x, y, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	minCol, minRow := g.cellOf(x-radius, y-radius)
	maxCol, maxRow := g.cellOf(x+radius, y+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}

	sort.Slice(g.scratch, func(i, j int) bool { return g.scratch[i] < g.scratch[j] })
	return g.scratch
}

// cellOf converts a world position into clamped cell coordinates.
func (g *Grid) cellOf(x, y float64) (col, row int) {
	col = clamp(int(math.Floor(x*g.invCellSize)), g.cols-1)
	row = clamp(int(math.Floor(y*g.invCellSize)), g.rows-1)
	return col, row
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// Stats summarizes cell occupancy for the debug endpoint.
func (g *Grid) Stats() Stats {
	var s Stats
	s.Cells = len(g.cells)
	for _, c := range g.cells {
		n := len(c)
		s.Slots += n
		if n > s.MaxInCell {
			s.MaxInCell = n
		}
		if n > 0 {
			s.Occupied++
		}
	}
	return s
}

// Stats contains grid occupancy counters.
type Stats struct {
	Cells     int `json:"cells"`
	Occupied  int `json:"occupied"`
	Slots     int `json:"slots"`
	MaxInCell int `json:"maxInCell"`
}

// Dimensions returns the grid shape.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}
