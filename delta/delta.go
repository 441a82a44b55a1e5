/*
Package delta implements the temporal transforms.

An Accumulator turns a sequence of frames into a sequence of per-pixel
differences against the previous frame and back. The difference is taken
modulo the pixel unit, so the transform is exactly invertible by modular
addition. The accumulator is the only state carried from one frame to the next
and is shared by the host encoder and the device decoder.

The Diff8 and Diff16 filters replace each 8 or 16-bit unit of a buffer with its
difference to the unit before it, in the same layout as the console BIOS
difference unfilter routines.
*/
package delta

import (
	"errors"
	"fmt"

	"github.com/bodgit/gbavid/frame"
)

var errSize = errors.New("delta: frame size changed")

// Accumulator holds the previous frame of a sequence.
type Accumulator struct {
	prev []byte
	bits int
}

// NewAccumulator returns an accumulator for frames of size bytes with pixels
// of the given storage bits. The previous frame starts out all zero.
func NewAccumulator(size, bits int) *Accumulator {
	return &Accumulator{
		prev: make([]byte, size),
		bits: bits,
	}
}

// Reset zeroes the previous frame.
func (a *Accumulator) Reset() {
	for i := range a.prev {
		a.prev[i] = 0
	}
}

// Encode returns the difference between f and the previous frame and makes f
// the previous frame.
func (a *Accumulator) Encode(f *frame.Frame) (*frame.Frame, error) {
	if len(f.Pixels) != len(a.prev) || f.Format.StorageBits() != a.bits {
		return nil, errSize
	}
	dup := *f
	dup.Pixels = make([]byte, len(f.Pixels))
	sub(dup.Pixels, f.Pixels, a.prev, a.bits)
	copy(a.prev, f.Pixels)
	return &dup, nil
}

// Decode adds the difference in b to the previous frame, making the result
// the previous frame, and copies the result back into b.
func (a *Accumulator) Decode(b []byte) error {
	if len(b) != len(a.prev) {
		return fmt.Errorf("delta: have %d bytes, want %d", len(b), len(a.prev))
	}
	add(a.prev, b, a.bits)
	copy(b, a.prev)
	return nil
}

// sub stores x - y in dst, unit by unit.
func sub(dst, x, y []byte, bits int) {
	switch bits {
	case 1, 2, 4:
		mask := byte(1<<uint(bits) - 1)
		for i := range dst {
			var v byte
			for shift := uint(0); shift < 8; shift += uint(bits) {
				v |= (x[i]>>shift - y[i]>>shift) & mask << shift
			}
			dst[i] = v
		}
	case 16:
		for i := 0; i+1 < len(dst); i += 2 {
			d := uint16(x[i])|uint16(x[i+1])<<8 - (uint16(y[i]) | uint16(y[i+1])<<8)
			dst[i], dst[i+1] = byte(d), byte(d>>8)
		}
	default:
		for i := range dst {
			dst[i] = x[i] - y[i]
		}
	}
}

// add adds d to dst in place, unit by unit.
func add(dst, d []byte, bits int) {
	switch bits {
	case 1, 2, 4:
		mask := byte(1<<uint(bits) - 1)
		for i := range dst {
			var v byte
			for shift := uint(0); shift < 8; shift += uint(bits) {
				v |= (dst[i]>>shift + d[i]>>shift) & mask << shift
			}
			dst[i] = v
		}
	case 16:
		for i := 0; i+1 < len(dst); i += 2 {
			s := uint16(dst[i]) | uint16(dst[i+1])<<8 + (uint16(d[i]) | uint16(d[i+1])<<8)
			dst[i], dst[i+1] = byte(s), byte(s>>8)
		}
	default:
		for i := range dst {
			dst[i] += d[i]
		}
	}
}
