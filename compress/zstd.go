package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstd() *zstdCodec {
	// Neither call can fail with these options
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		panic(err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		panic(err)
	}
	return &zstdCodec{enc: enc, dec: dec}
}

func (*zstdCodec) Tag() uint8 { return TagZstd }
func (*zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) Compress(src []byte) ([]byte, error) {
	return wrap(TagZstd, c.enc.EncodeAll(src, make([]byte, 0, len(src)/2)))
}

func (c *zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	src, err := unwrap(TagZstd, src)
	if err != nil {
		return nil, err
	}
	out, err := c.dec.DecodeAll(src, dst[:0])
	if err != nil {
		return nil, fmt.Errorf("compress: zstd: %w", err)
	}
	return out, nil
}
