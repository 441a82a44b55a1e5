package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bodgit/gbavid/compress"
	"github.com/bodgit/gbavid/container"
	"github.com/bodgit/gbavid/delta"
	"github.com/bodgit/gbavid/dxt1"
	"github.com/bodgit/gbavid/frame"
	"github.com/bodgit/gbavid/tile"
	"github.com/hashicorp/go-hclog"
)

var (
	// ErrScratch is returned when the scratch buffer is too small for a
	// container.
	ErrScratch = errors.New("device: scratch buffer too small")
	errState   = errors.New("device: wrong state")
)

// Stats are the timing diagnostics of a Player.
type Stats struct {
	Frames   int
	Overruns int
	Budget   time.Duration
	Total    time.Duration
	Max      time.Duration
}

type step struct {
	tag    uint8
	codec  compress.Codec
	sw, sh int
}

// Player decodes the frames of a container to a Display.
type Player struct {
	display Display
	clock   Clock
	scratch []byte
	codecs  compress.Set
	logger  hclog.Logger
	loop    bool

	state   State
	c       *container.Container
	format  frame.Format
	raw     int
	steps   []step
	acc     *delta.Accumulator
	palette []uint16
	index   int
	out     []byte
	start   time.Time
	stats   Stats
}

// NewPlayer returns a Player writing to d, paced by clock and decoding within
// scratch. Decode steps without a built-in codec are looked up in codecs. With
// loop set the container restarts after its last frame.
func NewPlayer(d Display, clock Clock, scratch []byte, codecs compress.Set, loop bool, logger hclog.Logger) *Player {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Player{
		display: d,
		clock:   clock,
		scratch: scratch,
		codecs:  codecs,
		logger:  logger,
		loop:    loop,
		palette: make([]uint16, 0, 256),
	}
}

// State returns the current state.
func (p *Player) State() State {
	return p.state
}

// Stats returns the timing diagnostics so far.
func (p *Player) Stats() Stats {
	return p.stats
}

// Load hands the player a container. The header is checked when the player
// next steps.
func (p *Player) Load(b []byte) error {
	if p.state != Idle && p.state != Done {
		return fmt.Errorf("%w: %s", errState, p.state)
	}
	p.out = b
	p.state = FetchHeader
	return nil
}

func (p *Player) fetchHeader() error {
	c, err := container.Parse(p.out)
	if err != nil {
		return err
	}
	p.out = nil

	if err := c.CheckDimensions(p.display.Dimensions()); err != nil {
		return err
	}

	format, err := frame.FormatFromBits(c.BitsPerPixel)
	if err != nil {
		return err
	}
	raw := frame.Size(c.Width, c.Height, format)

	if len(c.Steps) > 0 {
		if c.MaxMemory > len(p.scratch) {
			return fmt.Errorf("%w: need %d bytes, have %d", ErrScratch, c.MaxMemory, len(p.scratch))
		}
		if c.MaxMemory/2 < raw+raw%2 {
			return fmt.Errorf("%w: %d bytes of scratch cannot hold a %d byte frame twice", ErrScratch, c.MaxMemory, raw)
		}
	}

	steps := make([]step, 0, len(c.Steps))
	var acc *delta.Accumulator
	for _, tag := range c.Steps {
		s := step{tag: tag}
		switch tag {
		case container.StepTiles:
			s.sw, s.sh = tile.Size, tile.Size
		case container.StepSprites:
			s.sw, s.sh = c.SpriteWidth, c.SpriteHeight
		case container.StepDeltaImage:
			acc = delta.NewAccumulator(raw, format.StorageBits())
		case container.StepDXT1:
			if err := dxt1.Check(c.Width, c.Height); err != nil {
				return err
			}
		default:
			if s.codec, err = p.codecs.Get(tag); err != nil {
				return err
			}
			if !compress.IsNative(s.codec) {
				p.logger.Warn("decode step runs outside the player", "step", s.codec.Name())
			}
		}
		if s.sw > 0 {
			if err := tile.Check(c.Width, c.Height, s.sw, s.sh); err != nil {
				return err
			}
		}
		steps = append(steps, s)
	}

	p.c, p.format, p.raw, p.steps, p.acc = c, format, raw, steps, acc
	p.index = 0
	p.stats = Stats{Budget: time.Duration(float64(time.Second) / c.FPS)}

	p.logger.Debug("loaded container",
		"frames", c.Frames,
		"size", fmt.Sprintf("%dx%d", c.Width, c.Height),
		"format", format,
		"fps", c.FPS,
		"steps", container.StepsString(c.Steps),
		"scratch", c.MaxMemory)

	return nil
}

// decode runs the decode steps in reverse, bouncing between the two halves of
// the scratch buffer.
func (p *Player) decode(f container.Frame) error {
	if len(p.steps) == 0 {
		p.out = f.Data
		return nil
	}

	half := p.c.MaxMemory / 2
	halves := [2][]byte{p.scratch[:half:half], p.scratch[half : 2*half : 2*half]}
	next := 0

	src := f.Data
	scratch := false
	for i := len(p.steps) - 1; i >= 0; i-- {
		s := p.steps[i]
		dst := halves[next]

		switch s.tag {
		case container.StepTiles, container.StepSprites:
			if p.display.Tiled() {
				continue
			}
			if err := tile.Revert(dst[:p.raw], src[:p.raw], p.c.Width, p.c.Height, p.format.StorageBits(), s.sw, s.sh); err != nil {
				return err
			}
			src = dst[:p.raw]
		case container.StepDeltaImage:
			if len(src) < p.raw {
				return fmt.Errorf("device: frame %d: %d bytes of delta, want %d", p.index, len(src), p.raw)
			}
			src = src[:p.raw]
			if scratch {
				if err := p.acc.Decode(src); err != nil {
					return err
				}
				continue
			}
			// The container is read-only
			src = dst[:copy(dst, src)]
			if err := p.acc.Decode(src); err != nil {
				return err
			}
		case container.StepDXT1:
			if err := dxt1.Decode(dst, src, p.c.Width, p.c.Height, p.format); err != nil {
				return err
			}
			src = dst[:p.raw]
		default:
			out, err := s.codec.Decompress(dst, src)
			if err != nil {
				return fmt.Errorf("device: frame %d: %s: %w", p.index, s.codec.Name(), err)
			}
			if len(out) > half {
				return fmt.Errorf("%w: frame %d: %s needed %d bytes", ErrScratch, p.index, s.codec.Name(), len(out))
			}
			src = out
		}

		scratch = true
		next ^= 1
	}

	if len(src) < p.raw {
		return fmt.Errorf("device: frame %d decoded to %d bytes, want %d", p.index, len(src), p.raw)
	}
	p.out = src
	return nil
}

func (p *Player) present(f container.Frame) error {
	if len(f.ColorMap) > 0 {
		p.palette = f.Colors(p.palette)
		p.display.SetPalette(p.palette)
	}

	// An odd sized frame is written with the byte after it
	n := p.raw + p.raw%2
	if cap(p.out) < n {
		return fmt.Errorf("device: frame %d: no room to write %d bytes", p.index, n)
	}
	return p.display.WriteVRAM(0, p.out[:n])
}

func (p *Player) frame() (container.Frame, error) {
	return p.c.Frame(p.index)
}

// Step advances the player by one state, blocking only while waiting for the
// frame clock.
func (p *Player) Step(ctx context.Context) error {
	switch p.state {
	case Idle, Done:
		return fmt.Errorf("%w: %s", errState, p.state)
	case FetchHeader:
		if err := p.fetchHeader(); err != nil {
			p.state = Idle
			return err
		}
		p.state = AwaitFrameTick
		if p.c.Frames == 0 {
			p.state = Done
		}
	case AwaitFrameTick:
		if err := p.clock.Wait(ctx); err != nil {
			return err
		}
		p.start = time.Now()
		p.state = DecodeFrame
	case DecodeFrame:
		f, err := p.frame()
		if err != nil {
			return err
		}
		if err := p.decode(f); err != nil {
			return err
		}
		p.state = Present
	case Present:
		f, err := p.frame()
		if err != nil {
			return err
		}
		if err := p.present(f); err != nil {
			return err
		}
		p.account(time.Since(p.start))

		p.index++
		p.state = AwaitFrameTick
		if p.index == p.c.Frames {
			if !p.loop {
				p.state = Done
				break
			}
			p.index = 0
			if p.acc != nil {
				p.acc.Reset()
			}
		}
	}
	return nil
}

func (p *Player) account(elapsed time.Duration) {
	p.stats.Frames++
	p.stats.Total += elapsed
	if elapsed > p.stats.Max {
		p.stats.Max = elapsed
	}
	if elapsed > p.stats.Budget {
		p.stats.Overruns++
		p.logger.Warn("frame overran its budget", "frame", p.index, "elapsed", elapsed, "budget", p.stats.Budget)
		return
	}
	p.logger.Trace("frame decoded", "frame", p.index, "elapsed", elapsed)
}

// Run steps the player until it is done or ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	for p.state != Done {
		if err := p.Step(ctx); err != nil {
			return err
		}
	}
	p.logger.Debug("playback finished",
		"frames", p.stats.Frames,
		"overruns", p.stats.Overruns,
		"max", p.stats.Max,
		"budget", p.stats.Budget)
	return nil
}
