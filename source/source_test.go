package source

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func writePNG(t *testing.T, path string, m image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestFrames(t *testing.T) {
	_, err := NewFrames(30)
	assert.Error(t, err)

	s, err := NewFrames(12.5, solid(4, 2, color.White), solid(4, 2, color.Black))
	require.NoError(t, err)
	assert.Equal(t, Info{Width: 4, Height: 2, FPS: 12.5, Frames: 2}, s.Info())

	m, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, m.RGBAAt(3, 1))
	_, err = s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, s.Close())
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "002.png"), solid(8, 8, color.Black))
	writePNG(t, filepath.Join(dir, "001.png"), solid(8, 8, color.White))
	writePNG(t, filepath.Join(dir, "003.png"), solid(4, 4, color.White))

	s, err := Glob(10, filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, Info{Width: 8, Height: 8, FPS: 10, Frames: 3}, s.Info())

	m, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), m.RGBAAt(0, 0).R)
	m, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), m.RGBAAt(0, 0).R)

	// Wrong size
	_, err = s.Next()
	assert.Error(t, err)
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)

	_, err = Glob(10, filepath.Join(dir, "*.jpg"))
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	s, err := NewFrames(30, solid(16, 16, color.RGBA{0x80, 0x40, 0x20, 0xff}))
	require.NoError(t, err)
	assert.Same(t, s, Resize(s, 16, 16))

	r := Resize(s, 8, 4)
	assert.Equal(t, Info{Width: 8, Height: 4, FPS: 30, Frames: 1}, r.Info())
	m, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), m.Bounds())
	c := m.RGBAAt(4, 2)
	assert.InDelta(t, 0x80, int(c.R), 1)
	assert.InDelta(t, 0x40, int(c.G), 1)
	assert.InDelta(t, 0x20, int(c.B), 1)
}

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(`{"streams":[{"width":320,"height":240,"r_frame_rate":"30000/1001","avg_frame_rate":"0/0","nb_frames":"300"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 320, info.Width)
	assert.Equal(t, 240, info.Height)
	assert.Equal(t, 300, info.Frames)
	assert.InDelta(t, 29.97, info.FPS, 0.001)

	info, err = parseProbe([]byte(`{"streams":[{"width":240,"height":160,"r_frame_rate":"25/1","avg_frame_rate":"24"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 24.0, info.FPS)
	assert.Equal(t, 0, info.Frames)

	for _, bad := range []string{`{}`, `{"streams":[{"width":0,"height":1,"r_frame_rate":"1/1"}]}`, `{"streams":[{"width":1,"height":1,"r_frame_rate":"1/0"}]}`, `nope`} {
		_, err := parseProbe([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestRGB24(t *testing.T) {
	m := rgb24([]byte{1, 2, 3, 4, 5, 6}, 2, 1)
	assert.Equal(t, []uint8{1, 2, 3, 0xff, 4, 5, 6, 0xff}, m.Pix)
}
