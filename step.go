package gbavid

import "fmt"

// StepKind identifies a processing step.
type StepKind int

// Processing steps in the order they run.
const (
	InputBlackWhite StepKind = iota + 1
	InputPaletted
	InputTruecolor
	ReorderColors
	AddColor0
	MoveColor0
	ShiftIndices
	PruneIndices
	PadColorMap
	ConvertSprites
	ConvertTiles
	DeltaImage
	CompressDXT1
	ConvertDelta8
	ConvertDelta16
	CompressRLE
	CompressLZ10
	CompressLZ11
	CompressZstd
	CompressBzip2
	PadImageData
)

var stepNames = map[StepKind]string{
	InputBlackWhite: "bw",
	InputPaletted:   "paletted",
	InputTruecolor:  "truecolor",
	ReorderColors:   "reorder",
	AddColor0:       "addcolor0",
	MoveColor0:      "movecolor0",
	ShiftIndices:    "shift",
	PruneIndices:    "prune",
	PadColorMap:     "padcolormap",
	ConvertSprites:  "sprites",
	ConvertTiles:    "tiles",
	DeltaImage:      "deltaimage",
	CompressDXT1:    "dxt1",
	ConvertDelta8:   "delta8",
	ConvertDelta16:  "delta16",
	CompressRLE:     "rle",
	CompressLZ10:    "lz10",
	CompressLZ11:    "lz11",
	CompressZstd:    "zstd",
	CompressBzip2:   "bzip2",
	PadImageData:    "pad",
}

func (k StepKind) String() string {
	if s, ok := stepNames[k]; ok {
		return s
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// IsCompressor reports whether the step is one of the mutually exclusive
// entropy compressors.
func (k StepKind) IsCompressor() bool {
	switch k {
	case CompressRLE, CompressLZ10, CompressLZ11, CompressZstd, CompressBzip2:
		return true
	}
	return false
}

// A Step is one stage of a Pipeline. Param and Color hold the step's
// argument, if it has one.
type Step struct {
	Kind  StepKind
	Param float64
	Color uint16
	Size  Size
}

func (s Step) String() string {
	switch s.Kind {
	case InputBlackWhite:
		return fmt.Sprintf("%s %g", s.Kind, s.Param)
	case InputPaletted, InputTruecolor, ShiftIndices, PadColorMap, PadImageData:
		return fmt.Sprintf("%s %d", s.Kind, int(s.Param))
	case AddColor0, MoveColor0:
		return fmt.Sprintf("%s %s", s.Kind, Color(s.Color))
	case ConvertSprites:
		return fmt.Sprintf("%s %s", s.Kind, s.Size)
	}
	return s.Kind.String()
}
