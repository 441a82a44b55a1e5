package container

import (
	"encoding/binary"
	"fmt"
)

// A Container is a parsed container. It refers to, never copies, the bytes it
// was parsed from.
type Container struct {
	Header
	table   []byte
	payload []byte
}

// Parse checks b is a well formed container and returns it. b may be longer
// than the container, as happens when it is padded in cartridge memory.
func Parse(b []byte) (*Container, error) {
	c := new(Container)
	if err := c.Header.UnmarshalBinary(b); err != nil {
		return nil, err
	}

	if c.Size > len(b) {
		return nil, fmt.Errorf("%w: have %d bytes, header says %d", ErrTruncated, len(b), c.Size)
	}
	if c.Size%4 != 0 {
		return nil, fmt.Errorf("%w: size %d is not a whole number of words", ErrInvalid, c.Size)
	}
	tableEnd := HeaderSize + entrySize*c.Frames
	if c.Frames > (c.Size-HeaderSize)/entrySize || tableEnd > c.Size {
		return nil, fmt.Errorf("%w: %d frames do not fit in %d bytes", ErrTruncated, c.Frames, c.Size)
	}
	c.table = b[HeaderSize:tableEnd]
	c.payload = b[tableEnd:c.Size]

	colorMap := c.ColorMapEntries * 2
	var next uint32
	for i := 0; i < c.Frames; i++ {
		offset, size := c.entry(i)
		switch {
		case offset != next:
			return nil, fmt.Errorf("%w: frame %d at offset %d, want %d", ErrInvalid, i, offset, next)
		case size%4 != 0 || int(size) < colorMap:
			return nil, fmt.Errorf("%w: frame %d is %d bytes", ErrInvalid, i, size)
		case uint64(offset)+uint64(size) > uint64(len(c.payload)):
			return nil, fmt.Errorf("%w: frame %d overruns payload", ErrTruncated, i)
		}
		next = offset + size
	}
	if int(next) != len(c.payload) {
		return nil, fmt.Errorf("%w: frames use %d of %d payload bytes", ErrInvalid, next, len(c.payload))
	}

	return c, nil
}

// CheckDimensions returns an error unless frames are w by h pixels.
func (c *Container) CheckDimensions(w, h int) error {
	if c.Width != w || c.Height != h {
		return fmt.Errorf("%w: frames are %dx%d, want %dx%d", ErrInvalid, c.Width, c.Height, w, h)
	}
	return nil
}

func (c *Container) entry(i int) (uint32, uint32) {
	e := c.table[i*entrySize:]
	return binary.LittleEndian.Uint32(e), binary.LittleEndian.Uint32(e[4:])
}

// A Frame is one payload of a container.
type Frame struct {
	// ColorMap holds the raw little-endian color map, empty if the
	// container has none.
	ColorMap []byte
	// Data holds the encoded pixels including any padding.
	Data []byte
}

// Colors decodes the color map into dst, which is grown if too small.
func (f Frame) Colors(dst []uint16) []uint16 {
	n := len(f.ColorMap) / 2
	if cap(dst) < n {
		dst = make([]uint16, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint16(f.ColorMap[i*2:])
	}
	return dst
}

// Frame returns frame i.
func (c *Container) Frame(i int) (Frame, error) {
	if i < 0 || i >= c.Frames {
		return Frame{}, fmt.Errorf("container: frame %d out of range [0,%d)", i, c.Frames)
	}
	offset, size := c.entry(i)
	p := c.payload[offset : offset+size]
	n := c.ColorMapEntries * 2
	return Frame{ColorMap: p[:n:n], Data: p[n:]}, nil
}
