package frame

import (
	"errors"
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

var errTooManyColors = errors.New("frame: more than 256 colors requested")

// uniqueColors returns the distinct RGB555 colors of m in order of first
// appearance, scanning rows top to bottom.
func uniqueColors(m image.Image, limit int) ([]uint16, bool) {
	b := m.Bounds()
	seen := make(map[uint16]struct{})
	var p []uint16
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := ToRGB555(m.At(x, y))
			if _, ok := seen[c]; ok {
				continue
			}
			if len(p) == limit {
				return nil, false
			}
			seen[c] = struct{}{}
			p = append(p, c)
		}
	}
	return p, true
}

// reducePalette quantizes m down to at most n colors and returns the result
// as distinct RGB555 values.
func reducePalette(m image.Image, n int) []uint16 {
	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, n), m)

	seen := make(map[uint16]struct{}, len(cp))
	p := make([]uint16, 0, len(cp))
	for _, c := range cp {
		v := ToRGB555(c)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			p = append(p, v)
		}
	}
	return p
}

// BlackWhite converts m to a 1-bit frame without a color table. Pixels whose
// luminance is at or above threshold, given as a fraction of full scale, are
// set.
func BlackWhite(m image.Image, threshold float64) *Frame {
	b := m.Bounds()
	limit := uint8(threshold*255 + 0.5)
	if threshold >= 1 {
		limit = 0xff
	}
	idx := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var v byte
			if color.GrayModel.Convert(m.At(x, y)).(color.Gray).Y >= limit {
				v = 1
			}
			idx = append(idx, v)
		}
	}
	return &Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: Paletted1,
		Pixels: Pack(idx, 1),
	}
}

// Paletted converts m to a paletted frame of the given index width with at
// most n colors. An image that already uses n colors or fewer keeps them
// exactly, otherwise the colors are reduced with a median cut which is lossy
// but never fails.
func Paletted(m image.Image, n, bits int) (*Frame, error) {
	if n < 1 || n > 256 {
		return nil, errTooManyColors
	}
	f, err := PalettedFormat(bits)
	if err != nil {
		return nil, err
	}

	p, ok := uniqueColors(m, n)
	if !ok {
		p = reducePalette(m, n)
	}
	if p == nil {
		p = []uint16{}
	}

	lookup := make(map[uint16]byte, len(p))
	for i, c := range p {
		lookup[c] = byte(i)
	}

	b := m.Bounds()
	idx := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := ToRGB555(m.At(x, y))
			i, ok := lookup[c]
			if !ok {
				i = byte(Nearest(p, c))
				lookup[c] = i
			}
			idx = append(idx, i)
		}
	}

	return &Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: f,
		Pixels: Pack(idx, bits),
		Colors: p,
	}, nil
}

// Truecolor converts m directly to one of the truecolor formats. Alpha is
// discarded.
func Truecolor(m image.Image, f Format) (*Frame, error) {
	if f.IsPaletted() || f.BitsPerPixel() == 0 {
		return nil, errBadFormat
	}
	b := m.Bounds()
	px := make([]byte, 0, Size(b.Dx(), b.Dy(), f))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.At(x, y)
			switch f {
			case RGB555:
				v := ToRGB555(c)
				px = append(px, byte(v), byte(v>>8))
			case RGB565:
				v := ToRGB565(c)
				px = append(px, byte(v), byte(v>>8))
			case RGB888:
				r, g, b, _ := c.RGBA()
				px = append(px, byte(r>>8), byte(g>>8), byte(b>>8))
			}
		}
	}
	return &Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: f,
		Pixels: px,
	}, nil
}
