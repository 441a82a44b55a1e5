package rle

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

func runLength(src []byte, i, unit, max int) int {
	n := 1
	for j := i + unit; j+unit <= len(src) && n < max; j += unit {
		if !bytes.Equal(src[i:i+unit], src[j:j+unit]) {
			break
		}
		n++
	}
	return n
}

// Encode compresses src. With vram set the stream works in halfwords and an
// odd length input is padded with a zero byte, the header still records the
// original length. Runs and literal blocks longer than a flag byte can count
// are split. Input longer than the header can record is an error.
func Encode(src []byte, vram bool) ([]byte, error) {
	t := uint8(ByteType)
	if vram {
		t = VRAMType
	}
	m := modes[t]

	size := len(src)
	if size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	if size%m.unit != 0 {
		src = append(append(make([]byte, 0, size+1), src...), 0)
	}

	out := make([]byte, headerSize, headerSize+len(src)+len(src)/64+2)
	binary.LittleEndian.PutUint32(out, uint32(t)|uint32(size)<<8)

	maxRun := maxCount - 1 + m.minRun
	literal := -1
	flush := func(end int) {
		if literal < 0 {
			return
		}
		n := (end - literal) / m.unit
		out = append(out, byte(n-1))
		out = append(out, src[literal:end]...)
		literal = -1
	}

	for i := 0; i < len(src); {
		if r := runLength(src, i, m.unit, maxRun); r >= m.minRun {
			flush(i)
			out = append(out, runFlag|byte(r-m.minRun))
			out = append(out, src[i:i+m.unit]...)
			i += r * m.unit
			continue
		}
		if literal < 0 {
			literal = i
		}
		i += m.unit
		if (i-literal)/m.unit == maxCount {
			flush(i)
		}
	}
	flush(len(src))

	return out, nil
}
