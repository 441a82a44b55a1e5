package gbavid

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bodgit/gbavid/frame"
	"github.com/bodgit/gbavid/tile"
	"gopkg.in/yaml.v3"
)

// ErrConfig is wrapped by every error caused by a bad configuration.
var ErrConfig = errors.New("gbavid: invalid configuration")

func configError(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, a...))
}

// Color is an RGB555 color.
type Color uint16

// ParseColor parses a 24-bit hex color such as "ff8000", optionally prefixed
// with "#" or "0x", and rounds it to RGB555.
func ParseColor(s string) (Color, error) {
	t := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(t) != 6 {
		return 0, configError("bad color %q", s)
	}
	v, err := strconv.ParseUint(t, 16, 32)
	if err != nil {
		return 0, configError("bad color %q", s)
	}
	r, g, b := uint16(v>>19&0x1f), uint16(v>>11&0x1f), uint16(v>>3&0x1f)
	return Color(b<<10 | g<<5 | r), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) String() string {
	rgba := frame.FromRGB555(uint16(c))
	return fmt.Sprintf("%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// ParseSize parses a size such as "32x16".
func ParseSize(s string) (Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	w, werr := strconv.Atoi(ws)
	h, herr := strconv.Atoi(hs)
	if !ok || werr != nil || herr != nil || w <= 0 || h <= 0 {
		return Size{}, configError("bad size %q", s)
	}
	return Size{w, h}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}
	v, err := ParseSize(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Config describes a conversion. The zero value of every field leaves that
// part of the pipeline out.
type Config struct {
	// Width and Height of the output frames, zero keeps the source size.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FPS overrides the source frame rate.
	FPS float64 `yaml:"fps"`

	// Exactly one input format is required. BlackWhite is the luminance
	// threshold between 0 and 1, Paletted the number of colors and
	// Truecolor the color depth, 15, 16 or 24.
	BlackWhite *float64 `yaml:"bw"`
	Paletted   int      `yaml:"paletted"`
	Truecolor  int      `yaml:"truecolor"`
	// Bits forces the paletted index width, zero picks one.
	Bits int `yaml:"bits"`

	AddColor0  *Color `yaml:"addcolor0"`
	MoveColor0 *Color `yaml:"movecolor0"`
	Shift      int    `yaml:"shift"`
	Prune      bool   `yaml:"prune"`

	Tiles      bool  `yaml:"tiles"`
	Sprites    *Size `yaml:"sprites"`
	DeltaImage bool  `yaml:"deltaimage"`
	DXT1       bool  `yaml:"dxt1"`
	Delta8     bool  `yaml:"delta8"`
	Delta16    bool  `yaml:"delta16"`

	RLE   bool `yaml:"rle"`
	LZ10  bool `yaml:"lz10"`
	LZ11  bool `yaml:"lz11"`
	Zstd  bool `yaml:"zstd"`
	Bzip2 bool `yaml:"bzip2"`
	// VRAM makes RLE and LZ77 data safe to decompress to video memory.
	VRAM bool `yaml:"vram"`
	// LZCommand is the LZ77 compressor, gbalzss if empty.
	LZCommand string `yaml:"lzcommand"`
}

// LoadConfig reads a YAML configuration file. Unknown keys are an error. The
// result is not validated as command line flags may still change it.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}

	return cfg, nil
}

func count(flags ...bool) (n int) {
	for _, f := range flags {
		if f {
			n++
		}
	}
	return
}

func multipleOf(n, m int) bool {
	return n > 0 && n%m == 0
}

// Validate checks the configuration for frames of width by height pixels,
// after any resizing.
func (c Config) Validate() error {
	switch count(c.BlackWhite != nil, c.Paletted != 0, c.Truecolor != 0) {
	case 0:
		return configError("one input format is needed")
	case 1:
	default:
		return configError("only a single input format is allowed")
	}

	switch {
	case c.Width < 0 || c.Height < 0:
		return configError("bad output size %dx%d", c.Width, c.Height)
	case c.FPS < 0:
		return configError("bad frame rate %g", c.FPS)
	case c.BlackWhite != nil && (*c.BlackWhite < 0 || *c.BlackWhite > 1):
		return configError("black and white threshold %g is not between 0 and 1", *c.BlackWhite)
	case c.Paletted < 0 || c.Paletted > 256:
		return configError("paletted color count %d is not between 1 and 256", c.Paletted)
	case c.Truecolor != 0 && c.Truecolor != 15 && c.Truecolor != 16 && c.Truecolor != 24:
		return configError("truecolor depth %d is not 15, 16 or 24", c.Truecolor)
	case c.Paletted == 0 && (c.AddColor0 != nil || c.MoveColor0 != nil || c.Shift != 0 || c.Prune):
		return configError("color map options need paletted input")
	case c.Paletted == 0 && c.Bits != 0:
		return configError("index width needs paletted input")
	case c.Shift < 0:
		return configError("negative index shift %d", c.Shift)
	case c.Tiles && c.Sprites != nil:
		return configError("tiles and sprites are mutually exclusive")
	case c.Delta8 && c.Delta16:
		return configError("delta8 and delta16 are mutually exclusive")
	case count(c.RLE, c.LZ10, c.LZ11, c.Zstd, c.Bzip2) > 1:
		return configError("only a single compression option is allowed")
	case c.VRAM && !c.RLE && !c.LZ10 && !c.LZ11:
		return configError("vram needs rle, lz10 or lz11")
	}

	if c.Bits != 0 {
		if _, err := frame.PalettedFormat(c.Bits); err != nil {
			return configError("index width %d is not 1, 2, 4 or 8", c.Bits)
		}
	}

	if c.DXT1 {
		switch {
		case c.Truecolor != 15 && c.Truecolor != 16:
			return configError("dxt1 needs 15 or 16-bit truecolor input")
		case c.Tiles || c.Sprites != nil || c.DeltaImage:
			// Nothing bit exact may depend on lossy data
			return configError("dxt1 cannot follow tiles, sprites or deltaimage")
		}
	}

	return nil
}

// check validates c against the final frame size.
func (c Config) check(w, h int) error {
	switch {
	case w <= 0 || h <= 0 || w > 0xffff || h > 0xffff:
		return configError("bad frame size %dx%d", w, h)
	case c.Tiles && (!multipleOf(w, 8) || !multipleOf(h, 8)):
		return configError("tiles need a frame size that is a multiple of 8, not %dx%d", w, h)
	case c.DXT1 && (!multipleOf(w, 4) || !multipleOf(h, 4)):
		return configError("dxt1 needs a frame size that is a multiple of 4, not %dx%d", w, h)
	}
	if s := c.Sprites; s != nil {
		if !tile.ValidSprite(s.Width, s.Height) {
			return configError("%s is not a sprite size", s)
		}
		if !multipleOf(w, s.Width) || !multipleOf(h, s.Height) {
			return configError("sprites need a frame size that is a multiple of %s, not %dx%d", s, w, h)
		}
	}
	return nil
}
