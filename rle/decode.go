package rle

import "fmt"

// Decode decompresses src into dst and returns the decompressed size. In
// halfword mode whole halfwords are always written so dst must have room for
// the size rounded up to an even number of bytes. Decode does not allocate.
func Decode(dst, src []byte) (int, error) {
	t, size, err := header(src)
	if err != nil {
		return 0, err
	}
	m := modes[t]

	want := size + (m.unit-size%m.unit)%m.unit
	if len(dst) < want {
		return 0, fmt.Errorf("rle: need %d bytes, have %d", want, len(dst))
	}

	o := 0
	for i := headerSize; o < want; {
		if i >= len(src) {
			return 0, errTruncated
		}
		flag := src[i]
		i++
		if flag&runFlag != 0 {
			n := (int(flag&^runFlag) + m.minRun) * m.unit
			if i+m.unit > len(src) {
				return 0, errTruncated
			}
			if o+n > want {
				return 0, errOverrun
			}
			for j := 0; j < n; j += m.unit {
				copy(dst[o+j:o+j+m.unit], src[i:i+m.unit])
			}
			i += m.unit
			o += n
		} else {
			n := (int(flag) + 1) * m.unit
			if i+n > len(src) {
				return 0, errTruncated
			}
			if o+n > want {
				return 0, errOverrun
			}
			copy(dst[o:o+n], src[i:i+n])
			i += n
			o += n
		}
	}

	return size, nil
}
