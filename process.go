package gbavid

import (
	"fmt"
	"image"
	"strings"

	"github.com/bodgit/gbavid/compress"
	"github.com/bodgit/gbavid/container"
	"github.com/bodgit/gbavid/delta"
	"github.com/bodgit/gbavid/dxt1"
	"github.com/bodgit/gbavid/frame"
	"github.com/bodgit/gbavid/palette"
	"github.com/bodgit/gbavid/tile"
)

// workBits is the index width palette steps run at, the result is repacked
// to the output width afterwards.
const workBits = 8

// maxStream is the largest buffer a codec header can record.
const maxStream = 1<<24 - 1

// A Pipeline turns images into frame payloads. It holds the delta state
// between frames so images must be processed in order.
type Pipeline struct {
	width, height int
	steps         []Step
	format        frame.Format
	colors        int
	reserved      bool
	decode        []uint8
	codecs        map[StepKind]compress.Codec
	acc           *delta.Accumulator
	vram          bool
	sprite        Size
}

// Encoded is one processed frame.
type Encoded struct {
	Colors []uint16
	Data   []byte
	// Largest is the size of the largest buffer the decoder produces for
	// this frame.
	Largest int
}

func fits(colors, bits int) bool {
	return colors <= 1<<uint(bits)
}

// NewPipeline builds the steps for cfg in their fixed order and checks they
// can work on frames of w by h pixels. Every error that would only show up
// part way through a video is caught here and wraps ErrConfig.
func NewPipeline(cfg Config, w, h int) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.check(w, h); err != nil {
		return nil, err
	}

	p := &Pipeline{
		width:    w,
		height:   h,
		reserved: cfg.AddColor0 != nil || cfg.MoveColor0 != nil,
		codecs:   make(map[StepKind]compress.Codec),
		vram:     cfg.VRAM,
	}
	add := func(s Step) {
		p.steps = append(p.steps, s)
	}

	switch {
	case cfg.BlackWhite != nil:
		add(Step{Kind: InputBlackWhite, Param: *cfg.BlackWhite})
		p.format = frame.Paletted1
	case cfg.Truecolor != 0:
		add(Step{Kind: InputTruecolor, Param: float64(cfg.Truecolor)})
		p.format, _ = frame.TruecolorFormat(cfg.Truecolor)
	default:
		table := cfg.Paletted + cfg.Shift
		if cfg.AddColor0 != nil {
			table++
		}
		if !fits(table, workBits) {
			return nil, configError("%d colors after adding and shifting do not fit in %d bits", table, workBits)
		}
		p.colors = table
		if cfg.Prune {
			// Pruning drops the unused entries a shift adds
			if used := table - cfg.Shift; used > palette.PruneColors {
				return nil, configError("%d colors cannot be pruned to %d", used, palette.PruneColors)
			}
			p.colors = palette.PruneColors
		}

		bits := cfg.Bits
		if bits == 0 {
			bits = 8
			if (cfg.Tiles || cfg.Sprites != nil) && fits(p.colors, 4) {
				bits = 4
			}
		}
		if !fits(p.colors, bits) {
			return nil, configError("%d colors do not fit in %d bits per pixel", p.colors, bits)
		}
		p.format, _ = frame.PalettedFormat(bits)

		add(Step{Kind: InputPaletted, Param: float64(cfg.Paletted)})
		add(Step{Kind: ReorderColors})
		if cfg.AddColor0 != nil {
			add(Step{Kind: AddColor0, Color: uint16(*cfg.AddColor0)})
		}
		if cfg.MoveColor0 != nil {
			add(Step{Kind: MoveColor0, Color: uint16(*cfg.MoveColor0)})
		}
		if cfg.Shift > 0 {
			add(Step{Kind: ShiftIndices, Param: float64(cfg.Shift)})
		}
		if cfg.Prune {
			add(Step{Kind: PruneIndices})
		}
		add(Step{Kind: PadColorMap, Param: float64(p.colors)})
	}

	if cfg.Sprites != nil {
		add(Step{Kind: ConvertSprites, Size: *cfg.Sprites})
		p.sprite = *cfg.Sprites
		p.decode = append(p.decode, container.StepSprites)
	}
	if cfg.Tiles {
		add(Step{Kind: ConvertTiles})
		p.decode = append(p.decode, container.StepTiles)
	}
	if cfg.DeltaImage {
		add(Step{Kind: DeltaImage})
		p.decode = append(p.decode, container.StepDeltaImage)
		p.acc = delta.NewAccumulator(frame.Size(w, h, p.format), p.format.StorageBits())
	}
	if cfg.DXT1 {
		add(Step{Kind: CompressDXT1})
		p.decode = append(p.decode, container.StepDXT1)
	}

	var codecs []StepKind
	switch {
	case cfg.Delta8:
		codecs = append(codecs, ConvertDelta8)
	case cfg.Delta16:
		codecs = append(codecs, ConvertDelta16)
	}
	switch {
	case cfg.RLE:
		codecs = append(codecs, CompressRLE)
	case cfg.LZ10:
		codecs = append(codecs, CompressLZ10)
	case cfg.LZ11:
		codecs = append(codecs, CompressLZ11)
	case cfg.Zstd:
		codecs = append(codecs, CompressZstd)
	case cfg.Bzip2:
		codecs = append(codecs, CompressBzip2)
	}
	if raw := frame.Size(w, h, p.format); len(codecs) > 0 && raw > maxStream {
		return nil, configError("%d byte frames are too large to compress", raw)
	}
	for _, k := range codecs {
		c, err := codecFor(k, cfg)
		if err != nil {
			return nil, err
		}
		add(Step{Kind: k})
		p.codecs[k] = c
		p.decode = append(p.decode, c.Tag())
	}

	add(Step{Kind: PadImageData, Param: 4})

	return p, nil
}

func codecFor(k StepKind, cfg Config) (compress.Codec, error) {
	switch k {
	case CompressLZ10, CompressLZ11:
		e, err := compress.NewLZ(cfg.LZCommand, k == CompressLZ11, cfg.VRAM)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ConvertDelta8:
		return compress.Get(compress.TagDelta8)
	case ConvertDelta16:
		return compress.Get(compress.TagDelta16)
	case CompressRLE:
		if cfg.VRAM {
			return compress.Get(compress.TagRLEVRAM)
		}
		return compress.Get(compress.TagRLE)
	case CompressZstd:
		return compress.Get(compress.TagZstd)
	case CompressBzip2:
		return compress.Get(compress.TagBzip2)
	}
	return nil, fmt.Errorf("gbavid: %s is not a codec", k)
}

// Steps returns the steps run on every frame.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// Format returns the pixel format of the output frames.
func (p *Pipeline) Format() frame.Format {
	return p.format
}

func (p *Pipeline) String() string {
	s := make([]string, len(p.steps))
	for i, step := range p.steps {
		s[i] = step.String()
	}
	return strings.Join(s, ", ")
}

// Header returns the container header for the frames produced.
func (p *Pipeline) Header(fps float64) container.Header {
	h := container.Header{
		FPS:          fps,
		Width:        p.width,
		Height:       p.height,
		BitsPerPixel: p.format.BitsPerPixel(),
		Steps:        append([]uint8(nil), p.decode...),
		SpriteWidth:  p.sprite.Width,
		SpriteHeight: p.sprite.Height,
	}
	if p.colors > 0 {
		h.ColorMapBits = 15
		h.ColorMapEntries = p.colors
	}
	if p.vram {
		h.Flags |= container.FlagVRAM
	}
	return h
}

// Reset forgets the previous frame.
func (p *Pipeline) Reset() {
	if p.acc != nil {
		p.acc.Reset()
	}
}

// Process runs every step on m, which must be the size the pipeline was
// built for.
func (p *Pipeline) Process(m image.Image) (*Encoded, error) {
	if b := m.Bounds(); b.Dx() != p.width || b.Dy() != p.height {
		return nil, fmt.Errorf("gbavid: image is %dx%d, want %dx%d", b.Dx(), b.Dy(), p.width, p.height)
	}

	var (
		f    *frame.Frame
		data []byte
		err  error
	)
	raw := frame.Size(p.width, p.height, p.format)
	e := &Encoded{Largest: raw}

	for _, s := range p.steps {
		switch s.Kind {
		case InputBlackWhite:
			f = frame.BlackWhite(m, s.Param)
		case InputPaletted:
			f, err = frame.Paletted(m, int(s.Param), workBits)
		case InputTruecolor:
			f, err = frame.Truecolor(m, p.format)
		case ReorderColors:
			f, err = palette.ReorderColors(f)
		case AddColor0:
			f, err = palette.AddColor0(f, s.Color)
		case MoveColor0:
			f, err = palette.MoveColor0(f, s.Color)
		case ShiftIndices:
			f, err = palette.ShiftIndices(f, int(s.Param), p.reserved)
		case PruneIndices:
			f, err = palette.PruneIndices(f, p.reserved)
		case PadColorMap:
			if f, err = palette.PadColorMap(f, int(s.Param)); err != nil {
				break
			}
			if f.Format != p.format {
				f = &frame.Frame{
					Width:  f.Width,
					Height: f.Height,
					Format: p.format,
					Pixels: frame.Pack(f.Indices(), p.format.BitsPerPixel()),
					Colors: f.Colors,
				}
			}
			// Every index must address the final color table
			err = f.Validate()
		case ConvertSprites:
			f, err = tile.Sprites(f, s.Size.Width, s.Size.Height)
		case ConvertTiles:
			f, err = tile.Tiles(f)
		case DeltaImage:
			f, err = p.acc.Encode(f)
		case CompressDXT1:
			data, err = dxt1.Encode(f)
		case PadImageData:
			if data == nil {
				data = append([]byte(nil), f.Pixels...)
			}
			data = frame.Pad4(data)
		default:
			if data == nil {
				data = f.Pixels
			}
			if len(data) > e.Largest {
				e.Largest = len(data)
			}
			data, err = p.codecs[s.Kind].Compress(data)
		}
		if err != nil {
			return nil, fmt.Errorf("gbavid: %s: %w", s, err)
		}
	}

	e.Colors = f.Colors
	e.Data = data
	return e, nil
}
