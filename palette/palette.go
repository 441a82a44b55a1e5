// Package palette implements the color table transforms applied to paletted
// frames. Each function returns a new frame and leaves its input untouched.
package palette

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bodgit/gbavid/frame"
)

var (
	errNotPaletted = errors.New("palette: frame is not paletted")
	errNoColors    = errors.New("palette: frame has no color table")
)

// PruneColors is the size the color table is forced to by PruneIndices.
const PruneColors = 16

func check(f *frame.Frame) error {
	if !f.Format.IsPaletted() {
		return errNotPaletted
	}
	if f.Colors == nil {
		return errNoColors
	}
	return nil
}

func checkSize(f *frame.Frame, n int) error {
	if max := 1 << uint(f.Format.BitsPerPixel()); n > max {
		return fmt.Errorf("palette: %d colors do not fit %s", n, f.Format)
	}
	return nil
}

// remap returns idx with every index i replaced by m[i].
func remap(idx []byte, m []byte) []byte {
	out := make([]byte, len(idx))
	for i, v := range idx {
		out[i] = m[v]
	}
	return out
}

// ReorderColors sorts the color table by how often each color is used, most
// frequent first, keeping the original order between equally used colors.
func ReorderColors(f *frame.Frame) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	idx := f.Indices()

	count := make([]int, len(f.Colors))
	for _, v := range idx {
		count[v]++
	}

	order := make([]int, len(f.Colors))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return count[order[i]] > count[order[j]]
	})

	m := make([]byte, len(f.Colors))
	colors := make([]uint16, len(f.Colors))
	for n, o := range order {
		m[o] = byte(n)
		colors[n] = f.Colors[o]
	}
	return f.WithIndices(remap(idx, m), colors), nil
}

// AddColor0 inserts c at index 0 and moves every other color up by one.
func AddColor0(f *frame.Frame, c uint16) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	if err := checkSize(f, len(f.Colors)+1); err != nil {
		return nil, err
	}
	idx := f.Indices()
	for i := range idx {
		idx[i]++
	}
	return f.WithIndices(idx, append([]uint16{c}, f.Colors...)), nil
}

// MoveColor0 moves the color matching c, or the nearest one, to index 0.
// The colors that were in front of it move up by one to close the gap.
func MoveColor0(f *frame.Frame, c uint16) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	if len(f.Colors) == 0 {
		return f.Clone(), nil
	}
	n := frame.Nearest(f.Colors, c)

	m := make([]byte, len(f.Colors))
	colors := make([]uint16, 0, len(f.Colors))
	colors = append(colors, f.Colors[n])
	for i, v := range f.Colors {
		switch {
		case i < n:
			m[i] = byte(i + 1)
			colors = append(colors, v)
		case i > n:
			m[i] = byte(i)
			colors = append(colors, v)
		}
	}
	return f.WithIndices(remap(f.Indices(), m), colors), nil
}

// ShiftIndices adds n to every index so the frame can use a later part of a
// shared hardware palette. If index 0 is reserved it is left alone. The color
// table gains n black entries so every index still addresses its color.
func ShiftIndices(f *frame.Frame, n int, reserved bool) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("palette: negative shift %d", n)
	}
	if err := checkSize(f, len(f.Colors)+n); err != nil {
		return nil, err
	}

	idx := f.Indices()
	for i, v := range idx {
		if v != 0 || !reserved {
			idx[i] = v + byte(n)
		}
	}

	colors := make([]uint16, 0, len(f.Colors)+n)
	rest := f.Colors
	if reserved && len(rest) > 0 {
		colors = append(colors, rest[0])
		rest = rest[1:]
	}
	colors = append(colors, make([]uint16, n)...)
	colors = append(colors, rest...)

	return f.WithIndices(idx, colors), nil
}

// PruneIndices removes every color the frame does not use, renumbers the
// remaining colors in their original order and pads the table to
// PruneColors entries. A reserved index 0 survives even if unused.
func PruneIndices(f *frame.Frame, reserved bool) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	idx := f.Indices()

	used := make([]bool, len(f.Colors))
	if reserved && len(used) > 0 {
		used[0] = true
	}
	for _, v := range idx {
		used[v] = true
	}

	m := make([]byte, len(f.Colors))
	colors := make([]uint16, 0, PruneColors)
	for i, ok := range used {
		if ok {
			m[i] = byte(len(colors))
			colors = append(colors, f.Colors[i])
		}
	}
	if len(colors) > PruneColors {
		return nil, fmt.Errorf("palette: frame uses %d colors, more than %d", len(colors), PruneColors)
	}
	colors = append(colors, make([]uint16, PruneColors-len(colors))...)
	if err := checkSize(f, len(colors)); err != nil {
		return nil, err
	}

	return f.WithIndices(remap(idx, m), colors), nil
}

// PadColorMap pads the color table with black up to n entries. It never
// truncates.
func PadColorMap(f *frame.Frame, n int) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	if n < len(f.Colors) {
		return nil, fmt.Errorf("palette: cannot pad %d colors to %d", len(f.Colors), n)
	}
	dup := f.Clone()
	dup.Colors = append(dup.Colors, make([]uint16, n-len(f.Colors))...)
	return dup, nil
}
