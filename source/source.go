/*
Package source provides the frames to be converted. A Source yields frames in
order until it returns io.EOF.
*/
package source

import (
	"errors"
	"image"
	"image/draw"
	"io"

	xdraw "golang.org/x/image/draw"
)

// Info describes the frames of a source.
type Info struct {
	Width  int
	Height int
	FPS    float64
	// Frames is the number of frames, or zero if not known up front.
	Frames int
}

// A Source yields video frames.
type Source interface {
	Info() Info
	// Next returns the next frame or io.EOF after the last one.
	Next() (*image.RGBA, error)
	Close() error
}

var errNoFrames = errors.New("source: no frames")

func toRGBA(m image.Image) *image.RGBA {
	if rgba, ok := m.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := m.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), m, b.Min, draw.Src)
	return rgba
}

// Scale returns m resampled to w by h pixels.
func Scale(m image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), xdraw.Src, nil)
	return dst
}

type resized struct {
	Source
	w, h int
}

// Resize returns a Source yielding the frames of s scaled to w by h pixels.
// s is returned as is if it already has that size.
func Resize(s Source, w, h int) Source {
	if info := s.Info(); info.Width == w && info.Height == h {
		return s
	}
	return &resized{s, w, h}
}

func (r *resized) Info() Info {
	info := r.Source.Info()
	info.Width, info.Height = r.w, r.h
	return info
}

func (r *resized) Next() (*image.RGBA, error) {
	m, err := r.Source.Next()
	if err != nil {
		return nil, err
	}
	return Scale(m, r.w, r.h), nil
}

// Frames is a Source over frames held in memory.
type Frames struct {
	fps    float64
	frames []image.Image
	next   int
}

// NewFrames returns a Source yielding frames at fps.
func NewFrames(fps float64, frames ...image.Image) (*Frames, error) {
	if len(frames) == 0 {
		return nil, errNoFrames
	}
	return &Frames{fps: fps, frames: frames}, nil
}

// Info implements Source.
func (f *Frames) Info() Info {
	b := f.frames[0].Bounds()
	return Info{Width: b.Dx(), Height: b.Dy(), FPS: f.fps, Frames: len(f.frames)}
}

// Next implements Source.
func (f *Frames) Next() (*image.RGBA, error) {
	if f.next == len(f.frames) {
		return nil, io.EOF
	}
	f.next++
	return toRGBA(f.frames[f.next-1]), nil
}

// Close implements Source.
func (f *Frames) Close() error {
	return nil
}
