package compress

import (
	"fmt"

	"github.com/bodgit/gbavid/delta"
)

type filterCodec struct {
	tag uint8
}

func (c filterCodec) Tag() uint8 { return c.tag }

func (c filterCodec) Name() string {
	if c.tag == TagDelta16 {
		return "delta16"
	}
	return "delta8"
}

func (c filterCodec) Compress(src []byte) ([]byte, error) {
	if c.tag == TagDelta16 {
		return delta.Diff16(src)
	}
	return delta.Diff8(src)
}

func (c filterCodec) Decompress(dst, src []byte) ([]byte, error) {
	t, n, err := delta.Size(src)
	if err != nil {
		return nil, err
	}
	if t != c.tag {
		return nil, fmt.Errorf("%w: %s step holds %#02x data", errStream, c.Name(), t)
	}
	dst = grow(dst, (n+1)&^1)
	if n, err = delta.Undiff(dst, src); err != nil {
		return nil, err
	}
	return dst[:n], nil
}
