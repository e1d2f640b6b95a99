package timing

// TileGeometry describes how frames map onto hardware tiles.
type TileGeometry struct {
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`
	// TilesPerRow is the tile count of one row of frames. Zero means the
	// sheet is a single horizontal strip and the frame's y is ignored.
	TilesPerRow int `yaml:"tiles_per_row"`
}

// DefaultGeometry is 8x8 tiles on a single-row sheet.
func DefaultGeometry() TileGeometry {
	return TileGeometry{TileWidth: 8, TileHeight: 8}
}

func (g TileGeometry) Valid() bool {
	return g.TileWidth > 0 && g.TileHeight > 0 && g.TilesPerRow >= 0
}

// TilesPerFrame is the number of tiles one source frame occupies.
func (g TileGeometry) TilesPerFrame(sourceW, sourceH int) int {
	return sourceW * sourceH / (g.TileWidth * g.TileHeight)
}

// TileIndex returns the first tile of a frame located at (x, y) whose
// untrimmed size is sourceW x sourceH.
//
// The column part is floor((x / sourceW) * (sourceW * sourceH / tileArea)),
// evaluated in integers so the result is exact.
func (g TileGeometry) TileIndex(x, y, sourceW, sourceH int) (int, bool) {
	if !g.Valid() || sourceW <= 0 || sourceH <= 0 || x < 0 || y < 0 {
		return 0, false
	}

	area := int64(g.TileWidth * g.TileHeight)
	tile := int64(x) * int64(sourceW) * int64(sourceH) / (int64(sourceW) * area)

	if g.TilesPerRow > 0 {
		tile += int64(y/sourceH) * int64(g.TilesPerRow)
	}

	return int(tile), true
}
