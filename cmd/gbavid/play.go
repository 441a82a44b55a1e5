package main

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/bodgit/gbavid/compress"
	"github.com/bodgit/gbavid/container"
	"github.com/bodgit/gbavid/device"
	"github.com/bodgit/gbavid/frame"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/urfave/cli/v2"
	"golang.org/x/image/draw"
)

// preview collects the presented frames as an animated GIF.
type preview struct {
	format frame.Format
	width  int
	height int
	delay  int
	gif    gif.GIF
}

func newPreview(h container.Header) (*preview, error) {
	f, err := frame.FormatFromBits(h.BitsPerPixel)
	if err != nil {
		return nil, err
	}
	delay := 1
	if h.FPS > 0 {
		delay = int(100/h.FPS + 0.5)
	}
	return &preview{
		format: f,
		width:  h.Width,
		height: h.Height,
		delay:  delay,
	}, nil
}

func (p *preview) add(vram *device.VRAM) {
	f := &frame.Frame{
		Width:  p.width,
		Height: p.height,
		Format: p.format,
		Pixels: vram.Frame(frame.Size(p.width, p.height, p.format)),
		Colors: vram.Palette(),
	}

	m := f.Image()
	pm, ok := m.(*image.Paletted)
	if !ok {
		q := quantize.MedianCutQuantizer{}
		pal := q.Quantize(make(color.Palette, 0, 256), m)
		pm = image.NewPaletted(m.Bounds(), pal)
		draw.FloydSteinberg.Draw(pm, pm.Rect, m, image.Point{})
	}

	p.gif.Image = append(p.gif.Image, pm)
	p.gif.Delay = append(p.gif.Delay, p.delay)
}

func (p *preview) write(file string) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(out, &p.gif); err != nil {
		out.Close()
		os.Remove(file)
		return err
	}
	return out.Close()
}

// lzCodecs returns the external LZ77 codecs the decode steps need.
func lzCodecs(steps []uint8, command string) (compress.Set, error) {
	var codecs []compress.Codec
	for _, s := range steps {
		if s != container.StepLZ10 && s != container.StepLZ11 {
			continue
		}
		e, err := compress.NewLZ(command, s == container.StepLZ11, false)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, e)
	}
	return compress.NewSet(codecs...), nil
}

func play(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 2)
	}

	logger := newLogger(c)

	b, err := os.ReadFile(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	ct, err := container.Parse(b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var clock device.Clock = device.FreeRunning{}
	if c.Bool("realtime") {
		tc := device.NewTimerClock(ct.FPS)
		defer func() {
			tc.Stop()
			if n := tc.Dropped(); n > 0 {
				logger.Warn("frame ticks dropped", "count", n)
			}
		}()
		clock = tc
	}

	tiled := c.Bool("tiled")
	format, err := frame.FormatFromBits(ct.BitsPerPixel)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if size := frame.Size(ct.Width, ct.Height, format); size > device.VRAMSize {
		return cli.NewExitError(fmt.Sprintf("%d byte frames do not fit in video memory", size), 1)
	}
	vram := device.NewVRAM(ct.Width, ct.Height, tiled)

	codecs, err := lzCodecs(ct.Steps, c.String("lz-command"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var pv *preview
	if c.String("gif") != "" {
		if tiled {
			return cli.NewExitError("a preview needs frames in scanline order", 2)
		}
		if pv, err = newPreview(ct.Header); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	p := device.NewPlayer(vram, clock, make([]byte, ct.MaxMemory), codecs, false, logger)
	if err := p.Load(b); err != nil {
		return cli.NewExitError(err, 1)
	}

	for p.State() != device.Done {
		presenting := p.State() == device.Present
		if err := p.Step(c.Context); err != nil {
			return cli.NewExitError(err, 1)
		}
		if presenting && pv != nil {
			pv.add(vram)
		}
	}

	stats := p.Stats()
	logger.Info("playback finished",
		"frames", stats.Frames,
		"overruns", stats.Overruns,
		"budget", stats.Budget,
		"max", stats.Max,
		"writes", vram.Writes)

	if pv != nil {
		if err := pv.write(c.String("gif")); err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	return nil
}
