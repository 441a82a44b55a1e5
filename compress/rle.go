package compress

import "github.com/bodgit/gbavid/rle"

type rleCodec struct {
	vram bool
}

func (c rleCodec) Tag() uint8 {
	if c.vram {
		return TagRLEVRAM
	}
	return TagRLE
}

func (c rleCodec) Name() string {
	if c.vram {
		return "rle-vram"
	}
	return "rle"
}

func (c rleCodec) Compress(src []byte) ([]byte, error) {
	return rle.Encode(src, c.vram)
}

func (c rleCodec) Decompress(dst, src []byte) ([]byte, error) {
	n, err := rle.DecodedSize(src)
	if err != nil {
		return nil, err
	}
	dst = grow(dst, (n+1)&^1)
	if n, err = rle.Decode(dst, src); err != nil {
		return nil, err
	}
	return dst[:n], nil
}
