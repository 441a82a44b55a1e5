/*
Package compress provides the byte stream codecs a frame can pass through
after its pixels are final, looked up by the tag stored in the container.
*/
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Codec tags, these are stored in the container so must not change.
const (
	TagLZ10    = 0x10
	TagLZ11    = 0x11
	TagBzip2   = 0x13
	TagZstd    = 0x1b
	TagRLE     = 0x30
	TagRLEVRAM = 0x31
	TagDelta8  = 0x81
	TagDelta16 = 0x82
)

// ErrUnknown is returned when no codec is registered for a tag.
var ErrUnknown = errors.New("compress: unknown codec")

// A Codec compresses and decompresses whole buffers.
type Codec interface {
	Tag() uint8
	Name() string
	// Compress returns a compressed copy of src.
	Compress(src []byte) ([]byte, error)
	// Decompress decompresses src into dst, growing it only if it lacks
	// capacity, and returns the decompressed data.
	Decompress(dst, src []byte) ([]byte, error)
}

// registry is only written during init.
var registry = make(map[uint8]Codec)

func register(c Codec) {
	registry[c.Tag()] = c
}

// Get returns the built-in codec for tag.
func Get(tag uint8) (Codec, error) {
	c, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %#02x", ErrUnknown, tag)
	}
	return c, nil
}

// A Set holds the codecs chosen when a player or pipeline is configured,
// such as the external LZ77 codecs. Tags it doesn't hold fall back to the
// built-in codecs. A nil Set only has the built-in codecs.
type Set map[uint8]Codec

// NewSet returns a Set holding codecs.
func NewSet(codecs ...Codec) Set {
	s := make(Set, len(codecs))
	for _, c := range codecs {
		s[c.Tag()] = c
	}
	return s
}

// Get returns the codec for tag.
func (s Set) Get(tag uint8) (Codec, error) {
	if c, ok := s[tag]; ok {
		return c, nil
	}
	return Get(tag)
}

// IsNative reports whether c decompresses without leaving the process.
func IsNative(c Codec) bool {
	_, external := c.(*External)
	return !external
}

const (
	headerSize = 4
	maxSize    = 1<<24 - 1
)

var errStream = errors.New("compress: bad stream header")

// wrap prefixes a stream with a header word holding tag and its length so
// that any padding after it is ignored.
func wrap(tag uint8, b []byte) ([]byte, error) {
	if len(b) > maxSize {
		return nil, fmt.Errorf("compress: %d byte stream too large", len(b))
	}
	out := make([]byte, headerSize, headerSize+len(b))
	binary.LittleEndian.PutUint32(out, uint32(tag)|uint32(len(b))<<8)
	return append(out, b...), nil
}

func unwrap(tag uint8, src []byte) ([]byte, error) {
	if len(src) < headerSize {
		return nil, errStream
	}
	h := binary.LittleEndian.Uint32(src)
	n := int(h >> 8)
	if uint8(h) != tag || len(src)-headerSize < n {
		return nil, errStream
	}
	return src[headerSize : headerSize+n], nil
}

func grow(dst []byte, n int) []byte {
	if cap(dst) < n {
		return make([]byte, n)
	}
	return dst[:n]
}

func init() {
	register(rleCodec{})
	register(rleCodec{vram: true})
	register(filterCodec{TagDelta8})
	register(filterCodec{TagDelta16})
	register(newZstd())
	register(bzip2Codec{})
}
