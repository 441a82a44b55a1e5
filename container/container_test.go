package container

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() Header {
	return Header{
		Flags:           FlagVRAM,
		FPS:             30,
		Width:           16,
		Height:          8,
		BitsPerPixel:    4,
		ColorMapBits:    15,
		ColorMapEntries: 4,
		MaxMemory:       128,
		Steps:           []uint8{StepTiles, StepDeltaImage, StepRLEVRAM},
		SpriteWidth:     0,
		SpriteHeight:    0,
	}
}

func build(t *testing.T, frames ...[]byte) []byte {
	t.Helper()
	b, err := NewBuilder(testHeader())
	require.NoError(t, err)
	for i, f := range frames {
		require.NoError(t, b.Add([]uint16{uint16(i), 0x7fff}, f))
	}
	out, err := b.Bytes()
	require.NoError(t, err)
	return out
}

func TestRoundTrip(t *testing.T) {
	frames := [][]byte{
		{1, 2, 3, 4, 5},
		{},
		bytes.Repeat([]byte{9}, 64),
		{7, 7, 7},
	}
	b := build(t, frames...)

	c, err := Parse(b)
	require.NoError(t, err)

	want := testHeader()
	want.Frames = len(frames)
	want.Size = len(b)
	if diff := deep.Equal(want, c.Header); diff != nil {
		t.Error(diff)
	}
	assert.True(t, c.VRAMSafe())
	assert.NoError(t, c.CheckDimensions(16, 8))
	assert.Error(t, c.CheckDimensions(240, 160))

	assert.Equal(t, 0, len(b)%4)
	total := HeaderSize + entrySize*len(frames)

	var next uint32
	for i, data := range frames {
		offset, size := c.entry(i)
		assert.Equal(t, next, offset)
		assert.Equal(t, uint32(0), size%4)
		// Color map plus at most three bytes of padding
		assert.LessOrEqual(t, int(size)-8-len(data), 3)
		assert.GreaterOrEqual(t, int(size)-8-len(data), 0)
		next += size
		total += int(size)

		f, err := c.Frame(i)
		require.NoError(t, err)
		assert.Equal(t, []uint16{uint16(i), 0x7fff, 0, 0}, f.Colors(nil))
		assert.Equal(t, data, f.Data[:len(data)])
		assert.Equal(t, make([]byte, len(f.Data)-len(data)), f.Data[len(data):])
	}
	assert.Equal(t, total, len(b))

	_, err = c.Frame(len(frames))
	assert.Error(t, err)

	// Trailing bytes after the container are fine
	_, err = Parse(append(b, 0, 0, 0, 0))
	assert.NoError(t, err)
}

func TestCorruption(t *testing.T) {
	b := build(t, []byte{1, 2, 3, 4}, []byte{5, 6, 7, 8})

	corrupt := func(fn func(b []byte) []byte) error {
		_, err := Parse(fn(append([]byte(nil), b...)))
		return err
	}

	assert.ErrorIs(t, corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), ErrMagic)
	assert.ErrorIs(t, corrupt(func(b []byte) []byte { b[4] = 2; return b }), ErrVersion)
	assert.ErrorIs(t, corrupt(func(b []byte) []byte { b[16]++; return b }), ErrChecksum)
	assert.ErrorIs(t, corrupt(func(b []byte) []byte { return b[:len(b)-4] }), ErrTruncated)
	assert.ErrorIs(t, corrupt(func(b []byte) []byte { return b[:20] }), ErrTruncated)

	// The table is not covered by the checksum but must still be consistent
	assert.ErrorIs(t, corrupt(func(b []byte) []byte {
		binary.LittleEndian.PutUint32(b[HeaderSize+entrySize:], 4)
		return b
	}), ErrInvalid)
	assert.ErrorIs(t, corrupt(func(b []byte) []byte {
		binary.LittleEndian.PutUint32(b[HeaderSize+4:], 16)
		return b
	}), ErrInvalid)
}

func TestHeader(t *testing.T) {
	h := testHeader()
	h.FPS = 29.97
	h.ColorMapBits, h.ColorMapEntries, h.BitsPerPixel = 0, 0, 16
	h.SpriteWidth, h.SpriteHeight = 32, 16
	h.Frames, h.Size = 10, 1000

	b, err := h.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, HeaderSize)
	assert.Equal(t, []byte(Magic), b[:4])

	var got Header
	require.NoError(t, got.UnmarshalBinary(b))
	assert.InDelta(t, 29.97, got.FPS, 1.0/65536)
	got.FPS = h.FPS
	if diff := deep.Equal(h, got); diff != nil {
		t.Error(diff)
	}

	bad := []func(h *Header){
		func(h *Header) { h.BitsPerPixel = 3 },
		func(h *Header) { h.ColorMapBits = 16 },
		func(h *Header) { h.ColorMapEntries = 4 },
		func(h *Header) { h.Width = 0 },
		func(h *Header) { h.FPS = 0 },
		func(h *Header) { h.Steps = make([]uint8, 9) },
		func(h *Header) { h.Steps = []uint8{StepRLE, 0} },
	}
	for i, fn := range bad {
		h := testHeader()
		h.ColorMapBits, h.ColorMapEntries = 0, 0
		fn(&h)
		_, err := h.MarshalBinary()
		assert.ErrorIs(t, err, ErrInvalid, i)
	}
}

func TestSteps(t *testing.T) {
	steps := []uint8{StepSprites, StepDXT1, StepDelta16, StepZstd}
	packed, err := PackSteps(steps)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1b820802), packed)
	assert.Equal(t, steps, UnpackSteps(packed))
	assert.Nil(t, UnpackSteps(0))

	assert.Equal(t, "sprites|dxt1|delta16|zstd", StepsString(steps))
	assert.Equal(t, "raw", StepsString(nil))
	assert.Equal(t, "unknown_7f", StepName(0x7f))
}

func TestBuilderColors(t *testing.T) {
	b, err := NewBuilder(testHeader())
	require.NoError(t, err)
	assert.Error(t, b.Add(make([]uint16, 5), nil))
	assert.Equal(t, 0, b.Len())

	h := testHeader()
	h.ColorMapBits, h.ColorMapEntries, h.BitsPerPixel = 0, 0, 16
	b, err = NewBuilder(h)
	require.NoError(t, err)
	require.NoError(t, b.Add([]uint16{1, 2, 3}, []byte{1, 2}))

	out, err := b.Bytes()
	require.NoError(t, err)
	assert.Len(t, out, HeaderSize+entrySize+4)

	c, err := Parse(out)
	require.NoError(t, err)
	f, err := c.Frame(0)
	require.NoError(t, err)
	assert.Empty(t, f.ColorMap)
	assert.Equal(t, []byte{1, 2, 0, 0}, f.Data)
}
