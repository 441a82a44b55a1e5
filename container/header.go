/*
Package container implements the binary file holding a converted video. A
fixed size header describes the frames and the steps needed to decode them,
followed by a table locating each frame and then the frame payloads. All
values are little-endian and every part is a whole number of 32-bit words so
that the player can read it straight out of cartridge memory.
*/
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/gbavid/crc32"
)

const (
	// Magic identifies a container.
	Magic = "GBAV"
	// Version is the only version understood.
	Version = 1
	// HeaderSize is the size of the header in bytes.
	HeaderSize = 48
	// MaxSteps is the most decode steps a header can record.
	MaxSteps = 8

	crcOffset = 44
)

// FlagVRAM marks a container whose decode steps only ever write whole
// halfwords.
const FlagVRAM = 1 << 0

var (
	ErrMagic     = errors.New("container: bad magic")
	ErrVersion   = errors.New("container: unsupported version")
	ErrChecksum  = errors.New("container: header checksum mismatch")
	ErrTruncated = errors.New("container: truncated")
	ErrInvalid   = errors.New("container: invalid")
)

// Header describes the frames in a container.
type Header struct {
	Flags           uint16
	Frames          int
	FPS             float64
	Width           int
	Height          int
	BitsPerPixel    int
	ColorMapBits    int
	ColorMapEntries int
	// MaxMemory is the scratch memory in bytes the player needs to decode
	// any frame.
	MaxMemory    int
	Steps        []uint8
	SpriteWidth  int
	SpriteHeight int
	// Size is the total size of the container in bytes.
	Size int
}

// VRAMSafe reports whether FlagVRAM is set.
func (h *Header) VRAMSafe() bool {
	return h.Flags&FlagVRAM != 0
}

// PackSteps packs up to MaxSteps tags into a uint64, the first in the least
// significant byte.
func PackSteps(steps []uint8) (uint64, error) {
	if len(steps) > MaxSteps {
		return 0, fmt.Errorf("%w: %d decode steps, maximum %d", ErrInvalid, len(steps), MaxSteps)
	}
	var packed uint64
	for i, s := range steps {
		if s == 0 {
			return 0, fmt.Errorf("%w: zero decode step", ErrInvalid)
		}
		packed |= uint64(s) << (i * 8)
	}
	return packed, nil
}

// UnpackSteps reverses PackSteps, stopping at the first zero byte.
func UnpackSteps(packed uint64) []uint8 {
	var steps []uint8
	for i := 0; i < MaxSteps; i++ {
		s := uint8(packed >> (i * 8))
		if s == 0 {
			break
		}
		steps = append(steps, s)
	}
	return steps
}

func validBits(bits int) bool {
	switch bits {
	case 1, 2, 4, 8, 15, 16, 24:
		return true
	}
	return false
}

func (h *Header) validate() error {
	switch {
	case h.Width <= 0 || h.Width > math.MaxUint16 || h.Height <= 0 || h.Height > math.MaxUint16:
		return fmt.Errorf("%w: %dx%d frames", ErrInvalid, h.Width, h.Height)
	case !validBits(h.BitsPerPixel):
		return fmt.Errorf("%w: %d bits per pixel", ErrInvalid, h.BitsPerPixel)
	case h.ColorMapBits != 0 && h.ColorMapBits != 15:
		return fmt.Errorf("%w: %d bits per color", ErrInvalid, h.ColorMapBits)
	case h.ColorMapBits == 0 && h.ColorMapEntries != 0,
		h.ColorMapBits != 0 && (h.ColorMapEntries < 1 || h.ColorMapEntries > 256 || h.BitsPerPixel > 8):
		return fmt.Errorf("%w: %d color map entries", ErrInvalid, h.ColorMapEntries)
	case h.FPS <= 0 || h.FPS >= math.MaxUint16:
		return fmt.Errorf("%w: %g fps", ErrInvalid, h.FPS)
	case h.SpriteWidth > math.MaxUint8 || h.SpriteHeight > math.MaxUint8 || h.SpriteWidth < 0 || h.SpriteHeight < 0:
		return fmt.Errorf("%w: %dx%d sprites", ErrInvalid, h.SpriteWidth, h.SpriteHeight)
	case h.Frames < 0 || h.MaxMemory < 0 || h.Size < 0:
		return ErrInvalid
	}
	return nil
}

// MarshalBinary encodes the header, including its checksum.
func (h *Header) MarshalBinary() ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	steps, err := PackSteps(h.Steps)
	if err != nil {
		return nil, err
	}

	b := make([]byte, HeaderSize)
	copy(b, Magic)
	binary.LittleEndian.PutUint16(b[4:], Version)
	binary.LittleEndian.PutUint16(b[6:], h.Flags)
	binary.LittleEndian.PutUint32(b[8:], uint32(h.Frames))
	binary.LittleEndian.PutUint32(b[12:], uint32(math.Round(h.FPS*65536)))
	binary.LittleEndian.PutUint16(b[16:], uint16(h.Width))
	binary.LittleEndian.PutUint16(b[18:], uint16(h.Height))
	b[20] = uint8(h.BitsPerPixel)
	b[21] = uint8(h.ColorMapBits)
	binary.LittleEndian.PutUint16(b[22:], uint16(h.ColorMapEntries))
	binary.LittleEndian.PutUint32(b[24:], uint32(h.MaxMemory))
	binary.LittleEndian.PutUint64(b[28:], steps)
	b[36] = uint8(h.SpriteWidth)
	b[37] = uint8(h.SpriteHeight)
	binary.LittleEndian.PutUint32(b[40:], uint32(h.Size))
	binary.LittleEndian.PutUint32(b[crcOffset:], crc32.Checksum(b[:crcOffset]))

	return b, nil
}

// UnmarshalBinary decodes and checks a header.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrTruncated
	}
	if string(b[:4]) != Magic {
		return ErrMagic
	}
	if v := binary.LittleEndian.Uint16(b[4:]); v != Version {
		return fmt.Errorf("%w: %d", ErrVersion, v)
	}
	if binary.LittleEndian.Uint32(b[crcOffset:]) != crc32.Checksum(b[:crcOffset]) {
		return ErrChecksum
	}

	*h = Header{
		Flags:           binary.LittleEndian.Uint16(b[6:]),
		Frames:          int(binary.LittleEndian.Uint32(b[8:])),
		FPS:             float64(binary.LittleEndian.Uint32(b[12:])) / 65536,
		Width:           int(binary.LittleEndian.Uint16(b[16:])),
		Height:          int(binary.LittleEndian.Uint16(b[18:])),
		BitsPerPixel:    int(b[20]),
		ColorMapBits:    int(b[21]),
		ColorMapEntries: int(binary.LittleEndian.Uint16(b[22:])),
		MaxMemory:       int(binary.LittleEndian.Uint32(b[24:])),
		Steps:           UnpackSteps(binary.LittleEndian.Uint64(b[28:])),
		SpriteWidth:     int(b[36]),
		SpriteHeight:    int(b[37]),
		Size:            int(binary.LittleEndian.Uint32(b[40:])),
	}

	return h.validate()
}
