package level

// Tile codes used by the built-in arena.
const (
	tileEmpty = 0
	tileWall  = 1
	tileBrick = 3
	tileGrass = 15 // decorative
	tileTorch = 8  // decorative
)

const (
	arenaWidth  = 40
	arenaHeight = 24
)

// Default returns the built-in arena: a walled room with brick platforms,
// one spawner, a few enemies standing on breakable bricks and a sign.
// Entity positions are laid out for the given tile size.
func Default(tileSize float64) *Level {
	// Lifts an entity so only its ground probe reaches the tile below
	standOffset := tileSize/2*0.8 + 0.05

	tiles := make([]int, arenaWidth*arenaHeight)
	set := func(col, row, code int) {
		tiles[row*arenaWidth+col] = code
	}

	for col := 0; col < arenaWidth; col++ {
		set(col, 0, tileWall)
		set(col, arenaHeight-1, tileWall)
	}
	for row := 0; row < arenaHeight; row++ {
		set(0, row, tileWall)
		set(arenaWidth-1, row, tileWall)
	}

	platforms := []struct{ col, row, length int }{
		{6, 8, 8},
		{22, 6, 10},
		{4, 15, 12},
		{20, 13, 14},
		{12, 19, 16},
	}
	for _, p := range platforms {
		for c := p.col; c < p.col+p.length; c++ {
			set(c, p.row, tileBrick)
			set(c, p.row-1, tileGrass)
		}
	}
	set(2, 2, tileTorch)
	set(arenaWidth-3, 2, tileTorch)

	// Grass sits where entities stand, so clear it under them
	stand := func(col, row int) (float64, float64) {
		set(col, row-1, tileEmpty)
		return float64(col)*tileSize + tileSize/2, float64(row)*tileSize - standOffset
	}

	var entities []EntitySpec
	add := func(kind string, col, row int, sign bool) {
		x, y := stand(col, row)
		entities = append(entities, EntitySpec{Kind: kind, X: x, Y: y, Sign: sign})
	}

	add("spawner", 27, 6, false)
	add("enemy", 9, 8, false)
	add("enemy", 8, 15, false)
	add("enemy", 26, 13, false)
	add("enemy", 18, 19, false)
	add("enemy", 30, 13, true)

	return &Level{
		Name:     "arena",
		Width:    arenaWidth,
		Height:   arenaHeight,
		Tiles:    tiles,
		Entities: entities,
	}
}
