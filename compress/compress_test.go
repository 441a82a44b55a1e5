package compress

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	random := make([]byte, 777)
	r.Read(random)

	inputs := [][]byte{
		{},
		{1},
		bytes.Repeat([]byte{9}, 4096),
		random,
	}

	for _, tag := range []uint8{TagRLE, TagRLEVRAM, TagDelta8, TagDelta16, TagZstd, TagBzip2} {
		c, err := Get(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, c.Tag())
		assert.True(t, IsNative(c))

		for _, in := range inputs {
			enc, err := c.Compress(in)
			require.NoError(t, err, c.Name())

			out, err := c.Decompress(nil, enc)
			require.NoError(t, err, c.Name())
			assert.Equal(t, len(in), len(out), c.Name())
			if len(in) > 0 {
				assert.Equal(t, in, out, c.Name())
			}

			// Reuse a buffer with capacity to spare, padding after the
			// stream is ignored
			scratch := make([]byte, 8192)
			out, err = c.Decompress(scratch, append(append([]byte{}, enc...), 0, 0, 0))
			require.NoError(t, err, c.Name())
			assert.Equal(t, len(in), len(out), c.Name())
			if len(in) > 0 {
				assert.Equal(t, in, out, c.Name())
				assert.Same(t, &scratch[0], &out[0], c.Name())
			}
		}
	}
}

func TestStreamHeader(t *testing.T) {
	c, err := Get(TagZstd)
	require.NoError(t, err)
	enc, err := c.Compress([]byte("frame"))
	require.NoError(t, err)
	assert.Equal(t, byte(TagZstd), enc[0])

	_, err = c.Decompress(nil, enc[:len(enc)-1])
	assert.ErrorIs(t, err, errStream)

	b, err := Get(TagBzip2)
	require.NoError(t, err)
	_, err = b.Decompress(nil, enc)
	assert.ErrorIs(t, err, errStream)
}

func TestBzip2Scratch(t *testing.T) {
	c, err := Get(TagBzip2)
	require.NoError(t, err)

	in := bytes.Repeat([]byte("gba"), 100)
	enc, err := c.Compress(in)
	require.NoError(t, err)

	// The frame is read straight into the scratch buffer without growing it
	scratch := make([]byte, len(in))
	out, err := c.Decompress(scratch, enc)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Same(t, &scratch[0], &out[0])
	assert.Equal(t, len(in), cap(out))

	// A decoded size that disagrees with the stream is rejected
	short := append([]byte{}, enc...)
	short[headerSize]--
	_, err = c.Decompress(scratch, short)
	assert.Error(t, err)

	long := append([]byte{}, enc...)
	long[headerSize]++
	_, err = c.Decompress(make([]byte, len(in)+1), long)
	assert.Error(t, err)
}

func TestFilterTag(t *testing.T) {
	d8, err := Get(TagDelta8)
	require.NoError(t, err)
	d16, err := Get(TagDelta16)
	require.NoError(t, err)

	in := []byte{1, 2, 3, 4}
	enc, err := d16.Compress(in)
	require.NoError(t, err)

	_, err = d8.Decompress(nil, enc)
	assert.ErrorIs(t, err, errStream)

	out, err := d16.Decompress(nil, enc)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRegistry(t *testing.T) {
	_, err := Get(0x7f)
	assert.ErrorIs(t, err, ErrUnknown)

	for tag, name := range map[uint8]string{
		TagBzip2:   "bzip2",
		TagDelta16: "delta16",
		TagDelta8:  "delta8",
		TagRLE:     "rle",
		TagRLEVRAM: "rle-vram",
		TagZstd:    "zstd",
	} {
		c, err := Get(tag)
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	// The external codecs are never built in
	_, err = Get(TagLZ10)
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestSet(t *testing.T) {
	var none Set
	c, err := none.Get(TagRLE)
	require.NoError(t, err)
	assert.Equal(t, "rle", c.Name())

	e := &External{tag: TagLZ10, name: "lz10", command: "true"}
	s := NewSet(e)
	c, err = s.Get(TagLZ10)
	require.NoError(t, err)
	assert.Same(t, e, c)
	assert.False(t, IsNative(c))

	c, err = s.Get(TagZstd)
	require.NoError(t, err)
	assert.True(t, IsNative(c))

	_, err = s.Get(TagLZ11)
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestExternal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fakelzss")
	// Copy the second to last argument to the last one
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nfor a; do p=$q; q=$a; done\ncp \"$p\" \"$q\"\n"), 0o755))

	e, err := NewLZ(script, true, true)
	require.NoError(t, err)
	assert.Equal(t, uint8(TagLZ11), e.Tag())
	assert.Equal(t, "lz11", e.Name())
	assert.Equal(t, []string{"--lz11", "--vram"}, e.args)

	in := []byte("hello, hello, hello")
	enc, err := e.Compress(in)
	require.NoError(t, err)

	out, err := e.Decompress(make([]byte, 0, 64), enc)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = NewLZ(filepath.Join(dir, "missing"), false, false)
	assert.Error(t, err)
}
