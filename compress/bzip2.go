package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

type bzip2Codec struct{}

func (bzip2Codec) Tag() uint8   { return TagBzip2 }
func (bzip2Codec) Name() string { return "bzip2" }

// A bzip2 stream starts with its decoded size so that it can be read straight
// into the destination.
func (bzip2Codec) Compress(src []byte) ([]byte, error) {
	if len(src) > maxSize {
		return nil, fmt.Errorf("compress: %d byte input too large", len(src))
	}

	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(src)))
	buf := bytes.NewBuffer(size[:])

	bw, err := bzip2.NewWriter(buf, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("compress: creating bzip2 writer: %w", err)
	}

	if _, err := bw.Write(src); err != nil {
		bw.Close()
		return nil, fmt.Errorf("compress: writing bzip2 data: %w", err)
	}

	if err := bw.Close(); err != nil {
		return nil, fmt.Errorf("compress: closing bzip2 writer: %w", err)
	}

	return wrap(TagBzip2, buf.Bytes())
}

func (bzip2Codec) Decompress(dst, src []byte) ([]byte, error) {
	src, err := unwrap(TagBzip2, src)
	if err != nil {
		return nil, err
	}

	if len(src) < 4 {
		return nil, errStream
	}
	n := int(binary.LittleEndian.Uint32(src))
	if n > maxSize {
		return nil, errStream
	}

	br, err := bzip2.NewReader(bytes.NewReader(src[4:]), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("compress: creating bzip2 reader: %w", err)
	}
	defer br.Close()

	dst = grow(dst, n)
	if _, err := io.ReadFull(br, dst); err != nil {
		return nil, fmt.Errorf("compress: reading bzip2 data: %w", err)
	}

	// The stream must end where the size says it does
	var extra [1]byte
	if _, err := br.Read(extra[:]); err != io.EOF {
		if err == nil {
			err = errStream
		}
		return nil, fmt.Errorf("compress: reading bzip2 data: %w", err)
	}

	return dst, nil
}
