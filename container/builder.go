package container

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bodgit/gbavid/frame"
)

const entrySize = 8

type entry struct {
	offset, size uint32
}

// A Builder assembles a container one frame at a time.
type Builder struct {
	header  Header
	table   []entry
	payload bytes.Buffer
}

// NewBuilder returns a Builder for frames described by h. The frame count and
// total size are filled in as frames are added.
func NewBuilder(h Header) (*Builder, error) {
	h.Frames, h.Size = 0, HeaderSize
	if err := h.validate(); err != nil {
		return nil, err
	}
	if _, err := PackSteps(h.Steps); err != nil {
		return nil, err
	}
	h.Steps = append([]uint8(nil), h.Steps...)
	return &Builder{header: h}, nil
}

// Add appends a frame. colors is written first when the header has a color
// map, padded with black to the number of entries in the header, then data.
// The payload is padded to a whole number of words.
func (b *Builder) Add(colors []uint16, data []byte) error {
	p := make([]byte, 0, b.header.ColorMapEntries*2+len(data)+3)

	if b.header.ColorMapBits > 0 {
		if len(colors) > b.header.ColorMapEntries {
			return fmt.Errorf("%w: frame %d has %d colors, maximum %d", ErrInvalid, len(b.table), len(colors), b.header.ColorMapEntries)
		}
		for i := 0; i < b.header.ColorMapEntries; i++ {
			var v uint16
			if i < len(colors) {
				v = colors[i]
			}
			p = binary.LittleEndian.AppendUint16(p, v)
		}
	}
	p = frame.Pad4(append(p, data...))

	b.table = append(b.table, entry{uint32(b.payload.Len()), uint32(len(p))})
	b.payload.Write(p)
	return nil
}

// Len returns the number of frames added so far.
func (b *Builder) Len() int {
	return len(b.table)
}

// Header returns the header as it would be written now.
func (b *Builder) Header() Header {
	h := b.header
	h.Frames = len(b.table)
	h.Size = HeaderSize + entrySize*len(b.table) + b.payload.Len()
	return h
}

// SetMaxMemory records the scratch memory the player will need.
func (b *Builder) SetMaxMemory(n int) {
	b.header.MaxMemory = n
}

// Bytes returns the finished container.
func (b *Builder) Bytes() ([]byte, error) {
	h := b.Header()
	hdr, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, h.Size)
	out = append(out, hdr...)
	var e [entrySize]byte
	for _, t := range b.table {
		binary.LittleEndian.PutUint32(e[0:], t.offset)
		binary.LittleEndian.PutUint32(e[4:], t.size)
		out = append(out, e[:]...)
	}
	return append(out, b.payload.Bytes()...), nil
}
