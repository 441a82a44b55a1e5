package frame

import (
	"image"
	"image/color"
)

var blackWhite = color.Palette{color.RGBA{0, 0, 0, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff}}

// Image returns the frame as an image.Image so it can be previewed or
// compared. Paletted frames become an *image.Paletted, a frame without a
// color table is drawn in black and white. Truecolor frames become an
// *image.NRGBA. Pixels must be in scanline order.
func (f *Frame) Image() image.Image {
	r := image.Rect(0, 0, f.Width, f.Height)

	if f.Format.IsPaletted() {
		p := blackWhite
		if f.Colors != nil {
			p = make(color.Palette, len(f.Colors))
			for i, c := range f.Colors {
				p[i] = FromRGB555(c)
			}
		}
		m := image.NewPaletted(r, p)
		copy(m.Pix, f.Indices())
		return m
	}

	m := image.NewNRGBA(r)
	for i := 0; i < f.Width*f.Height; i++ {
		var c color.RGBA
		switch f.Format {
		case RGB555:
			c = FromRGB555(uint16(f.Pixels[i*2]) | uint16(f.Pixels[i*2+1])<<8)
		case RGB565:
			c = FromRGB565(uint16(f.Pixels[i*2]) | uint16(f.Pixels[i*2+1])<<8)
		case RGB888:
			c = color.RGBA{f.Pixels[i*3], f.Pixels[i*3+1], f.Pixels[i*3+2], 0xff}
		}
		m.Pix[i*4+0] = c.R
		m.Pix[i*4+1] = c.G
		m.Pix[i*4+2] = c.B
		m.Pix[i*4+3] = c.A
	}
	return m
}
