/*
Package rle implements the run-length coding used by the GBA BIOS, plus a
variant working in halfwords so that a decoder only ever has to store 16 bits
at a time, which is what video memory requires.

A stream starts with a little-endian word holding the type in the low byte and
the decompressed size in the upper 24 bits. Each block then begins with a flag
byte. With bit 7 set the next unit is repeated, otherwise the units that
follow are copied as-is. The low 7 bits hold the count less the minimum for
that kind of block.
*/
package rle

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// ByteType tags a stream of byte units.
	ByteType = 0x30
	// VRAMType tags a stream of halfword units.
	VRAMType = 0x31

	headerSize = 4
	maxSize    = 1<<24 - 1
	runFlag    = 0x80
	maxCount   = 0x80
)

// ErrTooLarge is returned when the input is longer than a stream header can
// record.
var ErrTooLarge = errors.New("rle: input too large")

var (
	errHeader    = errors.New("rle: bad header")
	errTruncated = errors.New("rle: truncated stream")
	errOverrun   = errors.New("rle: stream overruns decompressed size")
)

type mode struct {
	unit   int
	minRun int
}

var modes = map[uint8]mode{
	ByteType: {1, 3},
	VRAMType: {2, 2},
}

func header(src []byte) (uint8, int, error) {
	if len(src) < headerSize {
		return 0, 0, errTruncated
	}
	h := binary.LittleEndian.Uint32(src)
	t := uint8(h)
	if _, ok := modes[t]; !ok {
		return 0, 0, fmt.Errorf("%w: type %#02x", errHeader, t)
	}
	return t, int(h >> 8), nil
}

// DecodedSize returns the number of bytes src decompresses to.
func DecodedSize(src []byte) (int, error) {
	_, n, err := header(src)
	return n, err
}
