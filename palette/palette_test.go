package palette

import (
	"testing"

	"github.com/bodgit/gbavid/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paletted(format frame.Format, idx []byte, colors ...uint16) *frame.Frame {
	return &frame.Frame{
		Width:  len(idx),
		Height: 1,
		Format: format,
		Pixels: frame.Pack(idx, format.BitsPerPixel()),
		Colors: colors,
	}
}

// colorsOf returns the color of every pixel so tests can check a transform
// did not change the picture.
func colorsOf(f *frame.Frame) []uint16 {
	idx := f.Indices()
	out := make([]uint16, len(idx))
	for i, v := range idx {
		out[i] = f.Colors[v]
	}
	return out
}

func TestReorderColors(t *testing.T) {
	f := paletted(frame.Paletted8, []byte{0, 1, 1, 2, 2, 2, 3}, 10, 11, 12, 13, 14)
	out, err := ReorderColors(f)
	require.NoError(t, err)
	assert.Equal(t, []uint16{12, 11, 10, 13, 14}, out.Colors)
	assert.Equal(t, []byte{2, 1, 1, 0, 0, 0, 3}, out.Indices())
	assert.Equal(t, colorsOf(f), colorsOf(out))

	// Deterministic
	again, err := ReorderColors(out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestAddColor0(t *testing.T) {
	f := paletted(frame.Paletted4, []byte{0, 1, 2}, 10, 11, 12)
	out, err := AddColor0(f, 0x7fff)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x7fff, 10, 11, 12}, out.Colors)
	assert.Equal(t, []byte{1, 2, 3}, out.Indices())
	assert.Equal(t, colorsOf(f), colorsOf(out))

	full := paletted(frame.Paletted1, []byte{0, 1}, 1, 2)
	_, err = AddColor0(full, 0)
	assert.Error(t, err)
}

func TestMoveColor0(t *testing.T) {
	f := paletted(frame.Paletted8, []byte{0, 1, 2, 3}, 0x0001, 0x0002, 0x7c00, 0x0004)
	out, err := MoveColor0(f, 0x7c00)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x7c00, 0x0001, 0x0002, 0x0004}, out.Colors)
	assert.Equal(t, []byte{1, 2, 0, 3}, out.Indices())
	assert.Equal(t, colorsOf(f), colorsOf(out))

	// Nearest match when the color is not in the table
	out, err = MoveColor0(f, 0x7800)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x7c00), out.Colors[0])
	assert.Len(t, out.Colors, 4)
}

func TestShiftIndices(t *testing.T) {
	f := paletted(frame.Paletted8, []byte{0, 1, 2}, 10, 11, 12)

	out, err := ShiftIndices(f, 3, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 4, 5}, out.Indices())
	assert.Equal(t, []uint16{10, 0, 0, 0, 11, 12}, out.Colors)
	assert.Equal(t, colorsOf(f), colorsOf(out))

	out, err = ShiftIndices(f, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, out.Indices())
	assert.Equal(t, colorsOf(f), colorsOf(out))

	_, err = ShiftIndices(paletted(frame.Paletted2, []byte{0, 1}, 1, 2), 3, false)
	assert.Error(t, err)
}

func TestPruneIndices(t *testing.T) {
	colors := make([]uint16, 40)
	for i := range colors {
		colors[i] = uint16(i + 100)
	}
	f := paletted(frame.Paletted8, []byte{30, 5, 30, 12, 39}, colors...)

	out, err := PruneIndices(f, false)
	require.NoError(t, err)
	assert.Len(t, out.Colors, PruneColors)
	assert.Equal(t, []uint16{105, 112, 130, 139}, out.Colors[:4])
	assert.Equal(t, []byte{2, 0, 2, 1, 3}, out.Indices())
	for _, v := range out.Indices() {
		assert.True(t, v < PruneColors)
	}
	assert.Equal(t, colorsOf(f), colorsOf(out))

	out, err = PruneIndices(f, true)
	require.NoError(t, err)
	assert.Equal(t, uint16(100), out.Colors[0])
	assert.Equal(t, []byte{3, 1, 3, 2, 4}, out.Indices())

	many := make([]byte, 17)
	for i := range many {
		many[i] = byte(i)
	}
	_, err = PruneIndices(paletted(frame.Paletted8, many, colors...), false)
	assert.Error(t, err)
}

func TestPadColorMap(t *testing.T) {
	f := paletted(frame.Paletted8, []byte{0, 2, 1}, 7, 8, 9)
	out, err := PadColorMap(f, 16)
	require.NoError(t, err)
	assert.Len(t, out.Colors, 16)
	assert.Equal(t, f.Colors, out.Colors[:3])
	for _, c := range out.Colors[3:] {
		assert.Zero(t, c)
	}
	assert.Equal(t, f.Pixels, out.Pixels)

	same, err := PadColorMap(f, 3)
	require.NoError(t, err)
	assert.Equal(t, f.Colors, same.Colors)

	_, err = PadColorMap(f, 2)
	assert.Error(t, err)
}

func TestNotPaletted(t *testing.T) {
	f := &frame.Frame{Width: 1, Height: 1, Format: frame.RGB555, Pixels: []byte{0, 0}}
	_, err := ReorderColors(f)
	assert.Error(t, err)
	_, err = PadColorMap(f, 4)
	assert.Error(t, err)

	bw := &frame.Frame{Width: 8, Height: 1, Format: frame.Paletted1, Pixels: []byte{0xff}}
	_, err = AddColor0(bw, 0)
	assert.Error(t, err)
}

func TestIndexBounds(t *testing.T) {
	for _, format := range []frame.Format{frame.Paletted1, frame.Paletted2, frame.Paletted4, frame.Paletted8} {
		n := 1 << uint(format.BitsPerPixel())
		idx := make([]byte, 32)
		colors := make([]uint16, n)
		for i := range idx {
			idx[i] = byte(i % n)
		}
		for i := range colors {
			colors[i] = uint16(i)
		}
		f := paletted(format, idx, colors...)
		out, err := ReorderColors(f)
		require.NoError(t, err)
		out, err = PadColorMap(out, n)
		require.NoError(t, err)
		for _, v := range out.Indices() {
			assert.True(t, int(v) < n, "%s index %d", format, v)
		}
	}
}
