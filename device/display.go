package device

import (
	"errors"
	"fmt"
)

// A Display is where decoded frames end up. Video memory only accepts 16 and
// 32-bit stores so every write must be halfword aligned and sized.
type Display interface {
	// SetPalette replaces the background palette.
	SetPalette(colors []uint16)
	// WriteVRAM copies b to video memory at offset.
	WriteVRAM(offset int, b []byte) error
	// Tiled reports whether the display shows tile data, in which case
	// frames are written in tile order.
	Tiled() bool
	// Dimensions returns the size of a frame in pixels.
	Dimensions() (width, height int)
}

// VRAMSize is the size of GBA video memory.
const VRAMSize = 0x18000

var errAlign = errors.New("device: unaligned video memory write")

// VRAM is an in-memory Display.
type VRAM struct {
	mem     []byte
	palette [256]uint16
	colors  int
	width   int
	height  int
	tiled   bool
	// Writes counts the halfword stores made.
	Writes int
}

// NewVRAM returns VRAMSize bytes of video memory showing width x height
// frames. A tiled VRAM receives frames in tile order.
func NewVRAM(width, height int, tiled bool) *VRAM {
	return &VRAM{
		mem:    make([]byte, VRAMSize),
		width:  width,
		height: height,
		tiled:  tiled,
	}
}

// SetPalette implements Display.
func (v *VRAM) SetPalette(colors []uint16) {
	v.colors = copy(v.palette[:], colors)
}

// WriteVRAM implements Display.
func (v *VRAM) WriteVRAM(offset int, b []byte) error {
	if offset%2 != 0 || len(b)%2 != 0 {
		return fmt.Errorf("%w: %d bytes at %#x", errAlign, len(b), offset)
	}
	if offset < 0 || offset+len(b) > len(v.mem) {
		return fmt.Errorf("device: write of %d bytes at %#x outside video memory", len(b), offset)
	}
	for i := 0; i < len(b); i += 2 {
		v.mem[offset+i], v.mem[offset+i+1] = b[i], b[i+1]
		v.Writes++
	}
	return nil
}

// Tiled implements Display.
func (v *VRAM) Tiled() bool {
	return v.tiled
}

// Dimensions implements Display.
func (v *VRAM) Dimensions() (int, int) {
	return v.width, v.height
}

// Frame returns a copy of the first n bytes of video memory.
func (v *VRAM) Frame(n int) []byte {
	return append([]byte(nil), v.mem[:n]...)
}

// Palette returns a copy of the colors last set.
func (v *VRAM) Palette() []uint16 {
	return append([]uint16(nil), v.palette[:v.colors]...)
}
