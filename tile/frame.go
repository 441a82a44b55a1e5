package tile

import "github.com/bodgit/gbavid/frame"

func apply(f *frame.Frame, sw, sh int, fn func(dst, src []byte, w, h, bits, sw, sh int) error) (*frame.Frame, error) {
	dup := *f
	dup.Pixels = make([]byte, len(f.Pixels))
	if err := fn(dup.Pixels, f.Pixels, f.Width, f.Height, f.Format.StorageBits(), sw, sh); err != nil {
		return nil, err
	}
	return &dup, nil
}

// Tiles returns f with its pixels in tile order.
func Tiles(f *frame.Frame) (*frame.Frame, error) {
	return apply(f, tileWidth, tileHeight, Convert)
}

// Untiles returns f, which must be in tile order, with its pixels in scanline
// order.
func Untiles(f *frame.Frame) (*frame.Frame, error) {
	return apply(f, tileWidth, tileHeight, Revert)
}

// Sprites returns f with its pixels in sprite order for sprites of w by h
// pixels.
func Sprites(f *frame.Frame, w, h int) (*frame.Frame, error) {
	return apply(f, w, h, Convert)
}

// Unsprites is the inverse of Sprites.
func Unsprites(f *frame.Frame, w, h int) (*frame.Frame, error) {
	return apply(f, w, h, Revert)
}
