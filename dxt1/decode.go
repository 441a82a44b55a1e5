package dxt1

import (
	"encoding/binary"
	"fmt"

	"github.com/bodgit/gbavid/frame"
)

// DecodeBlock expands one 8 byte block into its 16 pixels in row order.
func DecodeBlock(src []byte, format frame.Format) ([blockPixels]uint16, error) {
	var out [blockPixels]uint16
	l, err := layoutFor(format)
	if err != nil {
		return out, err
	}
	if len(src) < BlockSize {
		return out, fmt.Errorf("dxt1: block is %d bytes, want %d", len(src), BlockSize)
	}
	cand := l.candidates(binary.LittleEndian.Uint16(src[0:]), binary.LittleEndian.Uint16(src[2:]))
	codes := binary.LittleEndian.Uint32(src[4:])
	for i := range out {
		out[i] = cand[codes>>uint(i*2)&3]
	}
	return out, nil
}

// Decode expands the blocks in src into a w by h frame of scanline pixels in
// dst, which must hold at least w*h*2 bytes. Decode does not allocate.
func Decode(dst, src []byte, w, h int, format frame.Format) error {
	l, err := layoutFor(format)
	if err != nil {
		return err
	}
	if err := Check(w, h); err != nil {
		return err
	}
	if len(src) < Size(w, h) {
		return fmt.Errorf("dxt1: have %d bytes of blocks, want %d", len(src), Size(w, h))
	}
	if len(dst) < w*h*2 {
		return fmt.Errorf("dxt1: need %d bytes, have %d", w*h*2, len(dst))
	}

	o := 0
	for by := 0; by < h/blockHeight; by++ {
		for bx := 0; bx < w/blockWidth; bx++ {
			cand := l.candidates(binary.LittleEndian.Uint16(src[o:]), binary.LittleEndian.Uint16(src[o+2:]))
			codes := binary.LittleEndian.Uint32(src[o+4:])
			for y := 0; y < blockHeight; y++ {
				for x := 0; x < blockWidth; x++ {
					c := cand[codes>>uint((y*blockWidth+x)*2)&3]
					p := ((by*blockHeight+y)*w + bx*blockWidth + x) * 2
					dst[p], dst[p+1] = byte(c), byte(c>>8)
				}
			}
			o += BlockSize
		}
	}
	return nil
}
