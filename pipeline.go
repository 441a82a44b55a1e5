package gbavid

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"time"

	"github.com/bodgit/gbavid/container"
	"github.com/bodgit/gbavid/source"
)

var errNoFrames = errors.New("gbavid: source has no frames")

// Result summarises a conversion.
type Result struct {
	Header container.Header
	// Container holds the finished container.
	Container []byte
	// InputSize is the size of the source frames as 24-bit pixels.
	InputSize int64
	// CompressedSize is the size of the frame payloads.
	CompressedSize int64
	Duration       time.Duration
}

// BitRate returns the compressed size per second of video, in bytes.
func (r *Result) BitRate() float64 {
	if r.Header.Frames == 0 {
		return 0
	}
	return float64(r.CompressedSize) * r.Header.FPS / float64(r.Header.Frames)
}

func (c *Converter) readFrames(ctx context.Context, src source.Source) (<-chan *image.RGBA, <-chan error, error) {
	out := make(chan *image.RGBA)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for {
			m, err := src.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- m:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc, nil
}

// encodeFrames runs the pipeline on one goroutine as the delta state needs
// the frames in order.
func (c *Converter) encodeFrames(ctx context.Context, p *Pipeline, in <-chan *image.RGBA) (<-chan *Encoded, <-chan error, error) {
	out := make(chan *Encoded)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for m := range in {
			e, err := p.Process(m)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- e:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()
	return out, errc, nil
}

type progress struct {
	total   int
	done    int
	percent int
	start   time.Time
}

func (c *Converter) emitFrames(ctx context.Context, b *container.Builder, in <-chan *Encoded, total int, largest *int) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		pr := progress{total: total, start: time.Now()}
		for e := range in {
			if err := b.Add(e.Colors, e.Data); err != nil {
				errc <- err
				return
			}
			if e.Largest > *largest {
				*largest = e.Largest
			}
			c.report(&pr)
		}
	}()
	return errc, nil
}

func (c *Converter) report(pr *progress) {
	pr.done++
	fps := float64(pr.done) / time.Since(pr.start).Seconds()
	if pr.total == 0 {
		if pr.done%100 == 0 {
			c.logger.Info("converting", "frames", pr.done, "fps", fps)
		}
		return
	}

	percent := 100 * pr.done / pr.total
	if percent == pr.percent {
		return
	}
	pr.percent = percent
	remaining := time.Duration(float64(pr.total-pr.done) / fps * float64(time.Second))
	c.logger.Info("converting", "percent", percent, "fps", fps, "remaining", remaining.Round(time.Second))
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Run converts every frame of src as described by cfg. name identifies the
// source in the statistics database, if there is one.
func (c *Converter) Run(ctx context.Context, cfg Config, src source.Source, name string) (*Result, error) {
	started := time.Now()

	info := src.Info()
	w, h := info.Width, info.Height
	if cfg.Width != 0 {
		w = cfg.Width
	}
	if cfg.Height != 0 {
		h = cfg.Height
	}
	fps := info.FPS
	if cfg.FPS != 0 {
		fps = cfg.FPS
	}
	if fps <= 0 {
		return nil, configError("no frame rate")
	}

	p, err := NewPipeline(cfg, w, h)
	if err != nil {
		return nil, err
	}
	b, err := container.NewBuilder(p.Header(fps))
	if err != nil {
		return nil, configError("%v", err)
	}

	if w != info.Width || h != info.Height {
		c.logger.Info("scaling frames", "from", Size{info.Width, info.Height}, "to", Size{w, h})
	}
	c.logger.Info("applying processing", "steps", p.String())

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	frames, errc, err := c.readFrames(ctx, source.Resize(src, w, h))
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	encoded, errc, err := c.encodeFrames(ctx, p, frames)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	var largest int
	errc, err = c.emitFrames(ctx, b, encoded, info.Frames, &largest)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	if b.Len() == 0 {
		return nil, errNoFrames
	}
	if hdr := b.Header(); len(hdr.Steps) > 0 {
		b.SetMaxMemory(2 * ((largest + 3) &^ 3))
	}

	out, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	r := &Result{
		Container: out,
		InputSize: int64(info.Width) * int64(info.Height) * 3 * int64(b.Len()),
		Duration:  time.Since(started),
	}
	r.Header = b.Header()
	r.CompressedSize = int64(r.Header.Size - container.HeaderSize - 8*r.Header.Frames)

	c.logger.Info("conversion finished",
		"frames", r.Header.Frames,
		"input", r.InputSize,
		"compressed", r.CompressedSize,
		"ratio", float64(r.CompressedSize)/float64(r.InputSize),
		"kBps", r.BitRate()/1024,
		"scratch", r.Header.MaxMemory,
		"elapsed", r.Duration.Round(time.Millisecond))

	if c.stats != nil {
		if err := c.stats.Record(&Run{
			Started:        started,
			Source:         name,
			Frames:         r.Header.Frames,
			Width:          w,
			Height:         h,
			Format:         p.Format().String(),
			Steps:          container.StepsString(r.Header.Steps),
			InputSize:      r.InputSize,
			CompressedSize: r.CompressedSize,
			Duration:       r.Duration,
		}); err != nil {
			return nil, err
		}
	}

	return r, nil
}
