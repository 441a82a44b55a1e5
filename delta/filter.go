package delta

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Header types of the difference filters.
const (
	Diff8Type  = 0x81
	Diff16Type = 0x82
)

const (
	headerSize = 4
	maxSize    = 1<<24 - 1
)

var (
	errHeader    = errors.New("delta: bad filter header")
	errTruncated = errors.New("delta: truncated filter data")
	errTooLarge  = errors.New("delta: data too large for filter header")
)

func header(t byte, n int) []byte {
	b := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(b, uint32(t)|uint32(n)<<8)
	return b
}

// Diff8 returns src with every byte replaced by its difference to the byte
// before it.
func Diff8(src []byte) ([]byte, error) {
	if len(src) > maxSize {
		return nil, errTooLarge
	}
	out := header(Diff8Type, len(src))
	var last byte
	for _, v := range src {
		out = append(out, v-last)
		last = v
	}
	return out, nil
}

// Diff16 returns src with every little-endian halfword replaced by its
// difference to the halfword before it. Odd input is padded with a zero byte
// but the header records the original length.
func Diff16(src []byte) ([]byte, error) {
	if len(src) > maxSize {
		return nil, errTooLarge
	}
	out := header(Diff16Type, len(src))
	var last uint16
	for i := 0; i < len(src); i += 2 {
		v := uint16(src[i])
		if i+1 < len(src) {
			v |= uint16(src[i+1]) << 8
		}
		d := v - last
		out = append(out, byte(d), byte(d>>8))
		last = v
	}
	return out, nil
}

// Size returns the filter type and the unfiltered size recorded in the header
// of src.
func Size(src []byte) (byte, int, error) {
	if len(src) < headerSize {
		return 0, 0, errHeader
	}
	h := binary.LittleEndian.Uint32(src)
	t := byte(h)
	if t != Diff8Type && t != Diff16Type {
		return 0, 0, errHeader
	}
	return t, int(h >> 8), nil
}

// Undiff reverses Diff8 or Diff16, writing the result to dst. It returns the
// number of bytes of unfiltered data. For Diff16 data dst must have room for
// the size rounded up to a whole halfword. Undiff does not allocate.
func Undiff(dst, src []byte) (int, error) {
	t, n, err := Size(src)
	if err != nil {
		return 0, err
	}
	src = src[headerSize:]

	switch t {
	case Diff8Type:
		if len(src) < n {
			return 0, errTruncated
		}
		if len(dst) < n {
			return 0, fmt.Errorf("delta: need %d bytes, have %d", n, len(dst))
		}
		var last byte
		for i := 0; i < n; i++ {
			last += src[i]
			dst[i] = last
		}
	case Diff16Type:
		m := (n + 1) &^ 1
		if len(src) < m {
			return 0, errTruncated
		}
		if len(dst) < m {
			return 0, fmt.Errorf("delta: need %d bytes, have %d", m, len(dst))
		}
		var last uint16
		for i := 0; i < m; i += 2 {
			last += uint16(src[i]) | uint16(src[i+1])<<8
			dst[i], dst[i+1] = byte(last), byte(last>>8)
		}
	}
	return n, nil
}
