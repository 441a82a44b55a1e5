package dxt1

import (
	"encoding/binary"

	"github.com/bodgit/gbavid/frame"
)

// endpoints picks the two colors of the block furthest apart, which are the
// extremes along the block's dominant color axis. The larger packed value is
// returned first.
func (l *layout) endpoints(block *[blockPixels]uint16) (uint16, uint16) {
	var c0, c1 uint16 = block[0], block[0]
	best := -1
	for i := range block {
		a := l.split(block[i])
		for j := i + 1; j < len(block); j++ {
			if d := distance(a, l.split(block[j])); d > best {
				best, c0, c1 = d, block[i], block[j]
			}
		}
	}
	if c0 < c1 {
		c0, c1 = c1, c0
	}
	return c0, c1
}

// encodeBlock compresses 16 pixels given in row order into 8 bytes of dst.
func (l *layout) encodeBlock(dst []byte, block *[blockPixels]uint16) {
	c0, c1 := l.endpoints(block)
	cand := l.candidates(c0, c1)

	var split [4][3]int
	for i, c := range cand {
		split[i] = l.split(c)
	}

	var codes uint32
	for i, c := range block {
		v := l.split(c)
		code, best := 0, distance(v, split[0])
		for j := 1; j < len(split); j++ {
			if d := distance(v, split[j]); d < best {
				code, best = j, d
			}
		}
		codes |= uint32(code) << uint(i*2)
	}

	binary.LittleEndian.PutUint16(dst[0:], c0)
	binary.LittleEndian.PutUint16(dst[2:], c1)
	binary.LittleEndian.PutUint32(dst[4:], codes)
}

// Encode compresses the pixels of f, which must be RGB555 or RGB565 in
// scanline order with dimensions that are multiples of 4.
func Encode(f *frame.Frame) ([]byte, error) {
	l, err := layoutFor(f.Format)
	if err != nil {
		return nil, err
	}
	if err := Check(f.Width, f.Height); err != nil {
		return nil, err
	}

	out := make([]byte, Size(f.Width, f.Height))
	o := 0

	var block [blockPixels]uint16
	for by := 0; by < f.Height/blockHeight; by++ {
		for bx := 0; bx < f.Width/blockWidth; bx++ {
			for y := 0; y < blockHeight; y++ {
				for x := 0; x < blockWidth; x++ {
					dx := bx*blockWidth + x
					dy := by*blockHeight + y
					block[y*blockWidth+x] = pixel(f.Pixels, dy*f.Width+dx)
				}
			}
			l.encodeBlock(out[o:o+BlockSize], &block)
			o += BlockSize
		}
	}

	return out, nil
}
