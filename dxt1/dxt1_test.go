package dxt1

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/bodgit/gbavid/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrame(w, h int, format frame.Format, fn func(i int) uint16) *frame.Frame {
	f := &frame.Frame{Width: w, Height: h, Format: format, Pixels: make([]byte, w*h*2)}
	for i := 0; i < w*h; i++ {
		binary.LittleEndian.PutUint16(f.Pixels[i*2:], fn(i))
	}
	return f
}

func TestBlockBound(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for _, format := range []frame.Format{frame.RGB555, frame.RGB565} {
		mask := uint16(0x7fff)
		if format == frame.RGB565 {
			mask = 0xffff
		}
		for n := 0; n < 50; n++ {
			f := newFrame(4, 4, format, func(int) uint16 { return uint16(r.Intn(0x10000)) & mask })

			enc, err := Encode(f)
			require.NoError(t, err)
			require.Len(t, enc, BlockSize)

			block, err := DecodeBlock(enc, format)
			require.NoError(t, err)
			require.Len(t, block, 16)

			l, _ := layoutFor(format)
			cand := l.candidates(binary.LittleEndian.Uint16(enc[0:]), binary.LittleEndian.Uint16(enc[2:]))
			for _, p := range block {
				assert.Contains(t, cand[:], p)
			}
		}
	}

	// Any 8 bytes decode to 16 candidate colors
	block, err := DecodeBlock([]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}, frame.RGB565)
	require.NoError(t, err)
	assert.Len(t, block, 16)

	_, err = DecodeBlock([]byte{1, 2, 3}, frame.RGB565)
	assert.Error(t, err)
}

func TestTwoColorBlockIsExact(t *testing.T) {
	f := newFrame(8, 4, frame.RGB555, func(i int) uint16 {
		if i%3 == 0 {
			return 0x7c1f
		}
		return 0x03e0
	})
	enc, err := Encode(f)
	require.NoError(t, err)
	assert.Len(t, enc, 2*BlockSize)

	dst := make([]byte, len(f.Pixels))
	require.NoError(t, Decode(dst, enc, 8, 4, frame.RGB555))
	assert.Equal(t, f.Pixels, dst)
}

func TestSingleColor(t *testing.T) {
	f := newFrame(4, 8, frame.RGB565, func(int) uint16 { return 0x1234 })
	enc, err := Encode(f)
	require.NoError(t, err)
	dst := make([]byte, len(f.Pixels))
	require.NoError(t, Decode(dst, enc, 4, 8, frame.RGB565))
	assert.Equal(t, f.Pixels, dst)
}

func TestGradientError(t *testing.T) {
	// A smooth gradient stays close to the original
	f := newFrame(4, 4, frame.RGB555, func(i int) uint16 { return uint16(i * 2) })
	enc, err := Encode(f)
	require.NoError(t, err)
	dst := make([]byte, len(f.Pixels))
	require.NoError(t, Decode(dst, enc, 4, 4, frame.RGB555))
	for i := 0; i < 16; i++ {
		got := int(binary.LittleEndian.Uint16(dst[i*2:]))
		assert.InDelta(t, i*2, got, 5, "pixel %d", i)
	}
}

func TestErrors(t *testing.T) {
	_, err := Encode(&frame.Frame{Width: 4, Height: 4, Format: frame.RGB888, Pixels: make([]byte, 48)})
	assert.Error(t, err)
	_, err = Encode(newFrame(6, 4, frame.RGB555, func(int) uint16 { return 0 }))
	assert.Error(t, err)

	assert.Error(t, Decode(make([]byte, 32), make([]byte, 4), 4, 4, frame.RGB555))
	assert.Error(t, Decode(make([]byte, 16), make([]byte, 8), 4, 4, frame.RGB555))
	assert.Error(t, Decode(make([]byte, 32), make([]byte, 8), 4, 4, frame.Paletted8))
	assert.Equal(t, 240/4*160/4*8, Size(240, 160))
}
