/*
Package dxt1 implements a DXT1 style block compressor for 15 and 16-bit
truecolor frames.

Every 4 by 4 block of pixels is stored as 8 bytes: two little-endian endpoint
colors in the frame's own pixel format followed by a little-endian 32-bit word
holding a 2-bit code per pixel, pixel 0 in the lowest bits. Code 0 and 1
select the endpoints, code 2 selects two thirds of the first endpoint plus one
third of the second and code 3 the reverse. Blocks are stored left to right,
top to bottom. Decoding is a table lookup per pixel.
*/
package dxt1

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/gbavid/frame"
)

const (
	blockWidth  = 4
	blockHeight = blockWidth
	blockPixels = blockWidth * blockHeight
	// BlockSize is the number of bytes each block compresses to.
	BlockSize = 8
)

var errFormat = errors.New("dxt1: frame must be RGB555 or RGB565")

type channel struct {
	shift uint
	mask  uint16
}

type layout [3]channel

var (
	layout555 = layout{{0, 0x1f}, {5, 0x1f}, {10, 0x1f}}
	layout565 = layout{{11, 0x1f}, {5, 0x3f}, {0, 0x1f}}
)

func layoutFor(f frame.Format) (*layout, error) {
	switch f {
	case frame.RGB555:
		return &layout555, nil
	case frame.RGB565:
		return &layout565, nil
	}
	return nil, errFormat
}

func (l *layout) split(c uint16) (v [3]int) {
	for i, ch := range l {
		v[i] = int(c >> ch.shift & ch.mask)
	}
	return
}

func (l *layout) join(v [3]int) (c uint16) {
	for i, ch := range l {
		c |= uint16(v[i]) & ch.mask << ch.shift
	}
	return
}

func distance(a, b [3]int) int {
	var sum int
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// candidates derives the four colors a block can use from its endpoints.
func (l *layout) candidates(c0, c1 uint16) [4]uint16 {
	a, b := l.split(c0), l.split(c1)
	var p2, p3 [3]int
	for i := range a {
		p2[i] = (2*a[i] + b[i]) / 3
		p3[i] = (a[i] + 2*b[i]) / 3
	}
	return [4]uint16{c0, c1, l.join(p2), l.join(p3)}
}

// Check returns an error unless a w by h frame divides into whole blocks.
func Check(w, h int) error {
	if w%blockWidth != 0 || h%blockHeight != 0 {
		return fmt.Errorf("dxt1: %dx%d is not a multiple of %dx%d blocks", w, h, blockWidth, blockHeight)
	}
	return nil
}

// Size returns the compressed size of a w by h frame.
func Size(w, h int) int {
	return (w / blockWidth) * (h / blockHeight) * BlockSize
}

func pixel(b []byte, i int) uint16 {
	return binary.LittleEndian.Uint16(b[i*2:])
}
