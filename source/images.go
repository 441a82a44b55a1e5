package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Images is a Source over a sequence of still image files.
type Images struct {
	fps   float64
	paths []string
	info  Info
	next  int
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", path, err)
	}
	return m, nil
}

// NewImages returns a Source yielding the images at paths, sorted by name, at
// fps. Every image must have the size of the first one.
func NewImages(fps float64, paths ...string) (*Images, error) {
	if len(paths) == 0 {
		return nil, errNoFrames
	}
	paths = append([]string(nil), paths...)
	sort.Strings(paths)

	m, err := decode(paths[0])
	if err != nil {
		return nil, err
	}
	b := m.Bounds()

	return &Images{
		fps:   fps,
		paths: paths,
		info:  Info{Width: b.Dx(), Height: b.Dy(), FPS: fps, Frames: len(paths)},
	}, nil
}

// Glob returns a Source yielding the images matching pattern.
func Glob(fps float64, pattern string) (*Images, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	return NewImages(fps, paths...)
}

// Info implements Source.
func (s *Images) Info() Info {
	return s.info
}

// Next implements Source.
func (s *Images) Next() (*image.RGBA, error) {
	if s.next == len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	m, err := decode(path)
	if err != nil {
		return nil, err
	}
	if b := m.Bounds(); b.Dx() != s.info.Width || b.Dy() != s.info.Height {
		return nil, fmt.Errorf("source: %s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), s.info.Width, s.info.Height)
	}
	return toRGBA(m), nil
}

// Close implements Source.
func (s *Images) Close() error {
	return nil
}
