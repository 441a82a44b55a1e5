package main

import (
	"github.com/bodgit/gbavid"
	"github.com/urfave/cli/v2"
)

func convertFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "read options from YAML `FILE`, flags take precedence",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "convert without writing any output",
		},
		&cli.BoolFlag{
			Name:  "c-source",
			Usage: "write OUTPUT as a C header and source file",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "scale frames to `WIDTH` pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "scale frames to `HEIGHT` pixels",
		},
		&cli.Float64Flag{
			Name:  "fps",
			Usage: "frame rate, required for image sequences",
		},
		&cli.Float64Flag{
			Name:  "bw",
			Usage: "convert to black and white at luminance `THRESHOLD` (0-1)",
		},
		&cli.IntFlag{
			Name:  "paletted",
			Usage: "convert to at most `N` colors",
		},
		&cli.IntFlag{
			Name:  "truecolor",
			Usage: "convert to `BITS` of color, 15, 16 or 24",
		},
		&cli.IntFlag{
			Name:  "bits",
			Usage: "store paletted indices in `BITS`, 1, 2, 4 or 8",
		},
		&cli.StringFlag{
			Name:  "addcolor0",
			Usage: "insert `COLOR` at index 0",
		},
		&cli.StringFlag{
			Name:  "movecolor0",
			Usage: "move `COLOR`, or the nearest color, to index 0",
		},
		&cli.IntFlag{
			Name:  "shift",
			Usage: "add `N` to every color index",
		},
		&cli.BoolFlag{
			Name:  "prune",
			Usage: "drop unused colors and pad the color map to 16",
		},
		&cli.BoolFlag{
			Name:  "tiles",
			Usage: "store frames as 8x8 tiles",
		},
		&cli.StringFlag{
			Name:  "sprites",
			Usage: "store frames as sprites of `WxH` pixels",
		},
		&cli.BoolFlag{
			Name:  "deltaimage",
			Usage: "store the difference to the previous frame",
		},
		&cli.BoolFlag{
			Name:  "dxt1",
			Usage: "compress truecolor frames with DXT1",
		},
		&cli.BoolFlag{
			Name:  "delta8",
			Usage: "filter bytes with their difference to the previous byte",
		},
		&cli.BoolFlag{
			Name:  "delta16",
			Usage: "filter halfwords with their difference to the previous halfword",
		},
		&cli.BoolFlag{
			Name:  "rle",
			Usage: "compress with run-length encoding",
		},
		&cli.BoolFlag{
			Name:  "lz10",
			Usage: "compress with LZ77 variant 10",
		},
		&cli.BoolFlag{
			Name:  "lz11",
			Usage: "compress with LZ77 variant 11",
		},
		&cli.BoolFlag{
			Name:  "zstd",
			Usage: "compress with zstd",
		},
		&cli.BoolFlag{
			Name:  "bzip2",
			Usage: "compress with bzip2",
		},
		&cli.BoolFlag{
			Name:  "vram",
			Usage: "make rle and LZ77 data safe to decompress to video memory",
		},
		&cli.StringFlag{
			Name:    "lz-command",
			EnvVars: []string{"GBAVID_LZ_COMMAND"},
			Usage:   "LZ77 compressor `COMMAND`",
		},
	}
}

// applyFlags overrides cfg with every flag that was given. An input format
// or compressor flag replaces whichever one the configuration file chose.
func applyFlags(c *cli.Context, cfg *gbavid.Config) error {
	if c.IsSet("bw") || c.IsSet("paletted") || c.IsSet("truecolor") {
		cfg.BlackWhite, cfg.Paletted, cfg.Truecolor = nil, 0, 0
	}
	if c.IsSet("rle") || c.IsSet("lz10") || c.IsSet("lz11") || c.IsSet("zstd") || c.IsSet("bzip2") {
		cfg.RLE, cfg.LZ10, cfg.LZ11, cfg.Zstd, cfg.Bzip2 = false, false, false, false, false
	}
	if c.IsSet("delta8") || c.IsSet("delta16") {
		cfg.Delta8, cfg.Delta16 = false, false
	}

	ints := map[string]*int{
		"width":     &cfg.Width,
		"height":    &cfg.Height,
		"paletted":  &cfg.Paletted,
		"truecolor": &cfg.Truecolor,
		"bits":      &cfg.Bits,
		"shift":     &cfg.Shift,
	}
	for name, p := range ints {
		if c.IsSet(name) {
			*p = c.Int(name)
		}
	}

	bools := map[string]*bool{
		"prune":      &cfg.Prune,
		"tiles":      &cfg.Tiles,
		"deltaimage": &cfg.DeltaImage,
		"dxt1":       &cfg.DXT1,
		"delta8":     &cfg.Delta8,
		"delta16":    &cfg.Delta16,
		"rle":        &cfg.RLE,
		"lz10":       &cfg.LZ10,
		"lz11":       &cfg.LZ11,
		"zstd":       &cfg.Zstd,
		"bzip2":      &cfg.Bzip2,
		"vram":       &cfg.VRAM,
	}
	for name, p := range bools {
		if c.IsSet(name) {
			*p = c.Bool(name)
		}
	}

	if c.IsSet("fps") {
		cfg.FPS = c.Float64("fps")
	}
	if c.IsSet("bw") {
		t := c.Float64("bw")
		cfg.BlackWhite = &t
	}
	if c.IsSet("lz-command") {
		cfg.LZCommand = c.String("lz-command")
	}

	for name, p := range map[string]**gbavid.Color{"addcolor0": &cfg.AddColor0, "movecolor0": &cfg.MoveColor0} {
		if !c.IsSet(name) {
			continue
		}
		col, err := gbavid.ParseColor(c.String(name))
		if err != nil {
			return err
		}
		*p = &col
	}

	if c.IsSet("sprites") {
		s, err := gbavid.ParseSize(c.String("sprites"))
		if err != nil {
			return err
		}
		cfg.Sprites = &s
	}

	return nil
}
