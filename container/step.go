package container

import (
	"fmt"
	"strings"
)

// Decode step tags. Steps that are byte stream codecs share their tag with
// the codec.
const (
	StepTiles      = 0x01
	StepSprites    = 0x02
	StepDeltaImage = 0x03
	StepDXT1       = 0x08
	StepLZ10       = 0x10
	StepLZ11       = 0x11
	StepBzip2      = 0x13
	StepZstd       = 0x1b
	StepRLE        = 0x30
	StepRLEVRAM    = 0x31
	StepDelta8     = 0x81
	StepDelta16    = 0x82
)

var stepNames = map[uint8]string{
	StepTiles:      "tiles",
	StepSprites:    "sprites",
	StepDeltaImage: "deltaimage",
	StepDXT1:       "dxt1",
	StepLZ10:       "lz10",
	StepLZ11:       "lz11",
	StepBzip2:      "bzip2",
	StepZstd:       "zstd",
	StepRLE:        "rle",
	StepRLEVRAM:    "rle-vram",
	StepDelta8:     "delta8",
	StepDelta16:    "delta16",
}

// StepName returns the name of a decode step.
func StepName(tag uint8) string {
	if name, ok := stepNames[tag]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%02x", tag)
}

// StepsString returns the steps in encode order, joined with "|", or "raw".
func StepsString(steps []uint8) string {
	if len(steps) == 0 {
		return "raw"
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = StepName(s)
	}
	return strings.Join(names, "|")
}
