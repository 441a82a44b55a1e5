package delta

import (
	"math/rand"
	"testing"

	"github.com/bodgit/gbavid/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWraparound(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			x, y := []byte{byte(b)}, []byte{byte(a)}
			d := make([]byte, 1)
			sub(d, x, y, 8)
			add(y, d, 8)
			if y[0] != byte(b) {
				t.Fatalf("%d - %d: got %d", b, a, y[0])
			}
		}
	}

	// 16-bit units wrap as a whole
	d := make([]byte, 2)
	sub(d, []byte{0x00, 0x00}, []byte{0x01, 0x00}, 16)
	assert.Equal(t, []byte{0xff, 0xff}, d)
	prev := []byte{0x01, 0x00}
	add(prev, d, 16)
	assert.Equal(t, []byte{0x00, 0x00}, prev)

	// Packed indices wrap within their own bits
	d = make([]byte, 1)
	sub(d, []byte{0x0f}, []byte{0xf1}, 4)
	assert.Equal(t, []byte{0x1e}, d)
}

func TestAccumulatorRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	formats := []frame.Format{
		frame.Paletted1, frame.Paletted2, frame.Paletted4, frame.Paletted8,
		frame.RGB555, frame.RGB565, frame.RGB888,
	}

	for _, format := range formats {
		size := frame.Size(8, 4, format)
		enc := NewAccumulator(size, format.StorageBits())
		dec := NewAccumulator(size, format.StorageBits())

		frames := make([]*frame.Frame, 4)
		for i := range frames {
			frames[i] = &frame.Frame{Width: 8, Height: 4, Format: format, Pixels: make([]byte, size)}
			r.Read(frames[i].Pixels)
		}
		// A repeated frame must encode to all zeroes
		frames[2] = frames[1].Clone()

		for i, f := range frames {
			d, err := enc.Encode(f)
			require.NoError(t, err)
			if i == 2 {
				assert.Equal(t, make([]byte, size), d.Pixels, "%s repeated frame", format)
			}
			b := append([]byte(nil), d.Pixels...)
			require.NoError(t, dec.Decode(b))
			assert.Equal(t, f.Pixels, b, "%s frame %d", format, i)
		}
	}
}

func TestAccumulatorFirstFrame(t *testing.T) {
	f := &frame.Frame{Width: 2, Height: 1, Format: frame.Paletted8, Pixels: []byte{5, 9}}
	a := NewAccumulator(2, 8)
	d, err := a.Encode(f)
	require.NoError(t, err)
	assert.Equal(t, f.Pixels, d.Pixels)
	assert.Equal(t, f.Pixels, a.prev)

	// After a reset the next frame is a key frame again
	a.Reset()
	assert.Equal(t, []byte{0, 0}, a.prev)
	d, err = a.Encode(f)
	require.NoError(t, err)
	assert.Equal(t, f.Pixels, d.Pixels)

	_, err = a.Encode(&frame.Frame{Width: 3, Height: 1, Format: frame.Paletted8, Pixels: []byte{1, 2, 3}})
	assert.Error(t, err)
	assert.Error(t, a.Decode([]byte{1}))
}

func TestAccumulatorEmpty(t *testing.T) {
	a := NewAccumulator(0, 16)
	d, err := a.Encode(&frame.Frame{Format: frame.RGB555, Pixels: []byte{}})
	require.NoError(t, err)
	assert.Empty(t, d.Pixels)
	assert.NoError(t, a.Decode(nil))
}

func TestFilterRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	inputs := [][]byte{
		{},
		{0x42},
		{0xff, 0x00, 0xff, 0x00, 0x01},
		make([]byte, 100),
	}
	random := make([]byte, 257)
	r.Read(random)
	inputs = append(inputs, random)

	for _, in := range inputs {
		for _, fn := range []func([]byte) ([]byte, error){Diff8, Diff16} {
			enc, err := fn(in)
			require.NoError(t, err)

			_, n, err := Size(enc)
			require.NoError(t, err)
			assert.Equal(t, len(in), n)

			dst := make([]byte, len(in)+1)
			n, err = Undiff(dst, enc)
			require.NoError(t, err)
			assert.Equal(t, in, dst[:n])
		}
	}
}

func TestFilterEncoding(t *testing.T) {
	enc, err := Diff8([]byte{10, 12, 11, 11})
	require.NoError(t, err)
	assert.Equal(t, []byte{Diff8Type, 4, 0, 0, 10, 2, 0xff, 0}, enc)

	enc, err = Diff16([]byte{0x00, 0x01, 0xff, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{Diff16Type, 4, 0, 0, 0x00, 0x01, 0xff, 0xff}, enc)
}

func TestFilterErrors(t *testing.T) {
	_, err := Undiff(make([]byte, 4), []byte{0x81, 0x04})
	assert.Error(t, err)
	_, err = Undiff(make([]byte, 4), []byte{0x30, 0x04, 0, 0, 1, 2, 3, 4})
	assert.Error(t, err)
	_, err = Undiff(make([]byte, 4), []byte{0x81, 0x08, 0, 0, 1, 2, 3, 4})
	assert.Error(t, err)
	_, err = Undiff(make([]byte, 2), []byte{0x81, 0x04, 0, 0, 1, 2, 3, 4})
	assert.Error(t, err)
	_, err = Undiff(make([]byte, 3), []byte{0x82, 0x03, 0, 0, 1, 2, 3, 4})
	assert.Error(t, err)
}
