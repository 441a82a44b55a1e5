/*
Package frame implements the pixel model shared by every stage of the video
conversion pipeline.

A frame is a width by height block of pixel data in one of seven target
formats. Paletted formats store 1, 2, 4 or 8-bit indices packed least
significant bits first, so pixel 0 sits in the low bits of byte 0 as the
console expects. The 15 and 16-bit truecolor formats store one little-endian
halfword per pixel and RGB888 stores three bytes, red first. Paletted frames
carry a color table of RGB555 colors packed as 0BBBBBGGGGGRRRRR.
*/
package frame

import (
	"errors"
	"fmt"
)

// Format identifies the pixel encoding of a frame.
type Format int

// Supported formats.
const (
	Paletted1 Format = iota + 1
	Paletted2
	Paletted4
	Paletted8
	RGB555
	RGB565
	RGB888
)

var errBadFormat = errors.New("frame: bad pixel format")

// PalettedFormat returns the paletted format that stores indices of the given
// bit width.
func PalettedFormat(bits int) (Format, error) {
	switch bits {
	case 1:
		return Paletted1, nil
	case 2:
		return Paletted2, nil
	case 4:
		return Paletted4, nil
	case 8:
		return Paletted8, nil
	}
	return 0, fmt.Errorf("frame: no paletted format with %d bits per pixel", bits)
}

// TruecolorFormat returns the truecolor format with the given color depth,
// one of 15, 16 or 24.
func TruecolorFormat(bits int) (Format, error) {
	switch bits {
	case 15:
		return RGB555, nil
	case 16:
		return RGB565, nil
	case 24:
		return RGB888, nil
	}
	return 0, fmt.Errorf("frame: no truecolor format with %d bits per pixel", bits)
}

// FormatFromBits maps the bits per pixel stored in a container header back to
// a format.
func FormatFromBits(bits int) (Format, error) {
	if bits <= 8 {
		return PalettedFormat(bits)
	}
	return TruecolorFormat(bits)
}

// BitsPerPixel returns the color depth, 1, 2, 4, 8, 15, 16 or 24.
func (f Format) BitsPerPixel() int {
	switch f {
	case Paletted1:
		return 1
	case Paletted2:
		return 2
	case Paletted4:
		return 4
	case Paletted8:
		return 8
	case RGB555:
		return 15
	case RGB565:
		return 16
	case RGB888:
		return 24
	}
	return 0
}

// StorageBits returns the number of bits each pixel occupies in memory.
func (f Format) StorageBits() int {
	if f == RGB555 {
		return 16
	}
	return f.BitsPerPixel()
}

// IsPaletted reports whether pixels are indices into a color table.
func (f Format) IsPaletted() bool {
	return f >= Paletted1 && f <= Paletted8
}

func (f Format) String() string {
	switch f {
	case Paletted1:
		return "paletted 1-bit"
	case Paletted2:
		return "paletted 2-bit"
	case Paletted4:
		return "paletted 4-bit"
	case Paletted8:
		return "paletted 8-bit"
	case RGB555:
		return "RGB555"
	case RGB565:
		return "RGB565"
	case RGB888:
		return "RGB888"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Frame is a single picture in one of the target formats. A stage never
// modifies the frame it is given; it returns a new one.
type Frame struct {
	Width  int
	Height int
	Format Format
	Pixels []byte
	Colors []uint16
}

// Size returns the number of bytes needed to store the pixels of a w by h
// frame in format f.
func Size(w, h int, f Format) int {
	return (w*h*f.StorageBits() + 7) >> 3
}

// Size returns the number of bytes the frame's pixels occupy.
func (f *Frame) Size() int {
	return Size(f.Width, f.Height, f.Format)
}

// Validate checks the pixel buffer matches the declared dimensions and that
// every index addresses the color table.
func (f *Frame) Validate() error {
	if f.Format.BitsPerPixel() == 0 {
		return errBadFormat
	}
	if len(f.Pixels) != f.Size() {
		return fmt.Errorf("frame: have %d bytes of pixel data, want %d", len(f.Pixels), f.Size())
	}
	if f.Format.IsPaletted() && f.Colors != nil {
		for i, idx := range f.Indices() {
			if int(idx) >= len(f.Colors) {
				return fmt.Errorf("frame: pixel %d uses index %d beyond %d colors", i, idx, len(f.Colors))
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	dup := *f
	dup.Pixels = append([]byte(nil), f.Pixels...)
	if f.Colors != nil {
		dup.Colors = append([]uint16(nil), f.Colors...)
	}
	return &dup
}

// Indices returns the color index of every pixel, one byte each. It panics if
// the frame is not paletted.
func (f *Frame) Indices() []byte {
	if !f.Format.IsPaletted() {
		panic("frame: Indices called on " + f.Format.String())
	}
	return Unpack(f.Pixels, f.Format.BitsPerPixel(), f.Width*f.Height)
}

// WithIndices returns a copy of the frame with its pixels replaced by the
// packed form of idx and its color table replaced by colors.
func (f *Frame) WithIndices(idx []byte, colors []uint16) *Frame {
	return &Frame{
		Width:  f.Width,
		Height: f.Height,
		Format: f.Format,
		Pixels: Pack(idx, f.Format.BitsPerPixel()),
		Colors: colors,
	}
}

// Pad4 appends between zero and three zero bytes so the length of b is a
// multiple of four.
func Pad4(b []byte) []byte {
	if mod := len(b) & 3; mod > 0 {
		b = append(b, make([]byte, 4-mod)...)
	}
	return b
}
