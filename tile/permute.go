package tile

import (
	"errors"
	"fmt"
)

var errBadBits = errors.New("tile: unsupported pixel size")

// Check returns an error unless a w by h frame can be split into sprites of
// sw by sh pixels.
func Check(w, h, sw, sh int) error {
	if sw <= 0 || sh <= 0 || sw%tileWidth != 0 || sh%tileHeight != 0 {
		return fmt.Errorf("tile: %dx%d is not a multiple of the %dx%d tile size", sw, sh, tileWidth, tileHeight)
	}
	if w%sw != 0 || h%sh != 0 {
		return fmt.Errorf("tile: %dx%d frame is not a multiple of %dx%d", w, h, sw, sh)
	}
	return nil
}

func checkBits(bits int) error {
	switch bits {
	case 1, 2, 4, 8, 16, 24:
		return nil
	}
	return errBadBits
}

func copyPixel(dst []byte, di int, src []byte, si int, bits int) {
	switch bits {
	case 1, 2, 4:
		mask := byte(1<<uint(bits) - 1)
		ss := uint(si * bits & 7)
		ds := uint(di * bits & 7)
		v := src[si*bits>>3] >> ss & mask
		d := &dst[di*bits>>3]
		*d = *d&^(mask<<ds) | v<<ds
	default:
		n := bits >> 3
		copy(dst[di*n:di*n+n], src[si*n:si*n+n])
	}
}

// walk calls fn with each scanline pixel position in sprite order, i being the
// position in sprite order.
func walk(w, h, sw, sh int, fn func(i, p int)) {
	i := 0
	for sy := 0; sy < h/sh; sy++ {
		for sx := 0; sx < w/sw; sx++ {
			for ty := 0; ty < sh/tileHeight; ty++ {
				for tx := 0; tx < sw/tileWidth; tx++ {
					for y := 0; y < tileHeight; y++ {
						for x := 0; x < tileWidth; x++ {
							dx := sx*sw + tx*tileWidth + x
							dy := sy*sh + ty*tileHeight + y
							fn(i, dy*w+dx)
							i++
						}
					}
				}
			}
		}
	}
}

// Convert reorders the w by h scanline pixels in src into sprite order in dst.
// bits is the storage size of one pixel. dst must be as long as src and must
// not overlap it.
func Convert(dst, src []byte, w, h, bits, sw, sh int) error {
	if err := Check(w, h, sw, sh); err != nil {
		return err
	}
	if err := checkBits(bits); err != nil {
		return err
	}
	walk(w, h, sw, sh, func(i, p int) {
		copyPixel(dst, i, src, p, bits)
	})
	return nil
}

// Revert is the inverse of Convert.
func Revert(dst, src []byte, w, h, bits, sw, sh int) error {
	if err := Check(w, h, sw, sh); err != nil {
		return err
	}
	if err := checkBits(bits); err != nil {
		return err
	}
	walk(w, h, sw, sh, func(i, p int) {
		copyPixel(dst, p, src, i, bits)
	})
	return nil
}
