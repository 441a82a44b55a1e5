package frame

import "image/color"

// ToRGB555 packs c as 0BBBBBGGGGGRRRRR.
func ToRGB555(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11) | uint16(g>>11)<<5 | uint16(b>>11)<<10
}

// ToRGB565 packs c as RRRRRGGGGGGBBBBB.
func ToRGB565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(b>>11)
}

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}

// FromRGB555 unpacks an RGB555 color into an opaque color.RGBA.
func FromRGB555(v uint16) color.RGBA {
	return color.RGBA{expand5(v), expand5(v >> 5), expand5(v >> 10), 0xff}
}

// FromRGB565 unpacks an RGB565 color into an opaque color.RGBA.
func FromRGB565(v uint16) color.RGBA {
	return color.RGBA{expand5(v >> 11), expand6(v >> 5), expand5(v), 0xff}
}

// distance555 is the squared distance between two RGB555 colors.
func distance555(a, b uint16) uint32 {
	var sum uint32
	for shift := uint(0); shift < 15; shift += 5 {
		d := int32(a>>shift&0x1f) - int32(b>>shift&0x1f)
		sum += uint32(d * d)
	}
	return sum
}

// Nearest returns the index of the color in p closest to c.
func Nearest(p []uint16, c uint16) int {
	best, bestSum := 0, uint32(1<<32-1)
	for i, v := range p {
		if v == c {
			return i
		}
		if sum := distance555(v, c); sum < bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}
