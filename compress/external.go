package compress

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultLZCommand is the devkitPro tool used for LZ77 compression.
const DefaultLZCommand = "gbalzss"

// External is a codec that runs a command line tool. The tool is invoked as
// "command [args] e|d infile outfile" through temporary files. It is used for
// the LZ77 variants understood by the GBA BIOS.
type External struct {
	tag     uint8
	name    string
	command string
	args    []string
}

// NewLZ returns an External codec running command, or gbalzss if command is
// empty. lz11 selects the LZ11 variant and vram the variant safe to
// decompress straight into video memory.
func NewLZ(command string, lz11, vram bool) (*External, error) {
	if command == "" {
		command = DefaultLZCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("compress: %s: %w", command, err)
	}

	e := &External{tag: TagLZ10, name: "lz10", command: path}
	if lz11 {
		e.tag, e.name = TagLZ11, "lz11"
		e.args = append(e.args, "--lz11")
	}
	if vram {
		e.args = append(e.args, "--vram")
	}
	return e, nil
}

// Tag returns the codec tag.
func (e *External) Tag() uint8 { return e.tag }

// Name returns the codec name.
func (e *External) Name() string { return e.name }

func (e *External) run(mode string, src []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "gbavid")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in, out := filepath.Join(dir, "in"), filepath.Join(dir, "out")
	if err := os.WriteFile(in, src, 0o600); err != nil {
		return nil, err
	}

	var stderr bytes.Buffer
	args := append(append([]string{}, e.args...), mode, in, out)
	cmd := exec.Command(e.command, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("compress: %s %s: %w: %s", e.name, mode, err, bytes.TrimSpace(stderr.Bytes()))
	}

	return os.ReadFile(out)
}

// Compress runs the command in encode mode.
func (e *External) Compress(src []byte) ([]byte, error) {
	return e.run("e", src)
}

// Decompress runs the command in decode mode and copies the result into dst.
func (e *External) Decompress(dst, src []byte) ([]byte, error) {
	b, err := e.run("d", src)
	if err != nil {
		return nil, err
	}
	dst = grow(dst, len(b))
	copy(dst, b)
	return dst, nil
}
