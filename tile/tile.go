/*
Package tile implements the spatial reordering of frames into the 8 by 8
pixel tiles the console addresses its background and sprite graphics in.

In tile order the frame is split into 8 by 8 tiles taken left to right, top to
bottom, and the 64 pixels of each tile are stored together, row by row. Sprite
order first splits the frame into sprites of a fixed size, which must be a
multiple of the tile size, and stores the tiles of each sprite together. Both
orders are plain permutations of the pixels, so the inverse needs nothing but
the frame and sprite dimensions.
*/
package tile

const (
	tileWidth  = 8
	tileHeight = tileWidth
	tilePixels = tileWidth * tileHeight

	// Size is the width and height of a tile in pixels.
	Size = tileWidth
)

// Sprite sizes supported by the object hardware, in pixels.
var spriteSizes = map[[2]int]bool{
	{8, 8}: true, {16, 16}: true, {32, 32}: true, {64, 64}: true,
	{16, 8}: true, {32, 8}: true, {32, 16}: true, {64, 32}: true,
	{8, 16}: true, {8, 32}: true, {16, 32}: true, {32, 64}: true,
}

// ValidSprite reports whether w by h pixels is a shape the object hardware
// can display.
func ValidSprite(w, h int) bool {
	return spriteSizes[[2]int{w, h}]
}
