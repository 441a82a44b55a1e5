package gbavid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tables := []struct {
		in   string
		want Color
		err  bool
	}{
		{"000000", 0, false},
		{"ff0000", 0x001f, false},
		{"#00ff00", 0x03e0, false},
		{"0x0000FF", 0x7c00, false},
		{"080808", 0x0421, false},
		{"070707", 0, false},
		{"fff", 0, true},
		{"gggggg", 0, true},
	}

	for _, table := range tables {
		t.Run(table.in, func(t *testing.T) {
			c, err := ParseColor(table.in)
			if table.err {
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, table.want, c)
		})
	}
}

func TestColorString(t *testing.T) {
	c, err := ParseColor("f80800")
	require.NoError(t, err)
	assert.Equal(t, "ff0800", c.String())
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize("32x16")
	require.NoError(t, err)
	assert.Equal(t, Size{32, 16}, s)
	assert.Equal(t, "32x16", s.String())

	for _, bad := range []string{"", "32", "x16", "0x8", "8x-8", "axb"} {
		_, err := ParseSize(bad)
		assert.ErrorIs(t, err, ErrConfig, bad)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
width: 240
height: 160
fps: 15
paletted: 16
addcolor0: "#ff00ff"
shift: 1
sprites: 16x16
deltaimage: true
delta8: true
lz10: true
vram: true
lzcommand: /usr/local/bin/gbalzss
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	magenta := Color(0x7c1f)
	want := Config{
		Width:      240,
		Height:     160,
		FPS:        15,
		Paletted:   16,
		AddColor0:  &magenta,
		Shift:      1,
		Sprites:    &Size{16, 16},
		DeltaImage: true,
		Delta8:     true,
		LZ10:       true,
		VRAM:       true,
		LZCommand:  "/usr/local/bin/gbalzss",
	}
	if diff := deep.Equal(want, cfg); diff != nil {
		t.Error(diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfig)

	_, err = LoadConfig(writeConfig(t, "paletted: 16\nunknown: true\n"))
	assert.ErrorIs(t, err, ErrConfig)

	_, err = LoadConfig(writeConfig(t, "addcolor0: purple\n"))
	assert.ErrorIs(t, err, ErrConfig)
}

func float(f float64) *float64 {
	return &f
}

func TestValidate(t *testing.T) {
	black := Color(0)
	tables := map[string]Config{
		"no input":          {},
		"two inputs":        {Paletted: 16, Truecolor: 15},
		"threshold":         {BlackWhite: float(1.5)},
		"too many colors":   {Paletted: 257},
		"truecolor depth":   {Truecolor: 12},
		"color map options": {Truecolor: 15, AddColor0: &black},
		"bits":              {Truecolor: 15, Bits: 4},
		"bad bits":          {Paletted: 16, Bits: 3},
		"negative shift":    {Paletted: 16, Shift: -1},
		"tiles and sprites": {Paletted: 16, Tiles: true, Sprites: &Size{8, 8}},
		"both deltas":       {Paletted: 16, Delta8: true, Delta16: true},
		"two compressors":   {Paletted: 16, RLE: true, Zstd: true},
		"vram":              {Paletted: 16, Bzip2: true, VRAM: true},
		"dxt1 paletted":     {Paletted: 16, DXT1: true},
		"dxt1 24-bit":       {Truecolor: 24, DXT1: true},
		"dxt1 tiles":        {Truecolor: 15, DXT1: true, Tiles: true},
		"dxt1 deltaimage":   {Truecolor: 16, DXT1: true, DeltaImage: true},
		"negative fps":      {Truecolor: 15, FPS: -1},
	}

	for name, cfg := range tables {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, cfg.Validate(), ErrConfig)
		})
	}

	for _, cfg := range []Config{
		{BlackWhite: float(0.5), RLE: true},
		{Paletted: 256, Bits: 8, DeltaImage: true, Delta16: true, Zstd: true},
		{Truecolor: 15, DXT1: true, RLE: true, VRAM: true},
		{Paletted: 4, MoveColor0: &black, Prune: true, Tiles: true},
	} {
		assert.NoError(t, cfg.Validate())
	}
}
