/*
Package crc32 implements the 32-bit cyclic redundancy check, or CRC-32,
checksum as computed a word at a time by a little-endian ARM CPU. The player
uses it to check a container header before trusting any of its fields.

It uses the standard CRC-32 normal polynomial, most significant bit first
with no reflection, but consumes each little-endian 32-bit word starting from
its most significant byte. Data that is not a whole number of words is padded
with zero bytes.
*/
package crc32

import crc "hash/crc32"

func makeTable(poly uint32) *crc.Table {
	t := new(crc.Table)
	for i := 0; i < 256; i++ {
		crc := uint32(i << 24)
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

const (
	polynomial = 0x04c11db7
	wordSize   = 4
)

var table = makeTable(polynomial)

func updateWord(crc uint32, tab *crc.Table, w *[wordSize]byte) uint32 {
	for i := wordSize - 1; i >= 0; i-- {
		crc = crc<<8 ^ tab[byte(crc>>24)^w[i]]
	}
	return crc
}

func update(crc uint32, tab *crc.Table, p []byte) uint32 {
	var w [wordSize]byte
	for len(p) >= wordSize {
		copy(w[:], p)
		crc = updateWord(crc, tab, &w)
		p = p[wordSize:]
	}
	if len(p) > 0 {
		w = [wordSize]byte{}
		copy(w[:], p)
		crc = updateWord(crc, tab, &w)
	}
	return crc
}

// Update returns the result of adding the bytes in p to the crc. A trailing
// partial word in p is padded.
func Update(crc uint32, p []byte) uint32 {
	return update(crc, table, p)
}

// Checksum returns the CRC-32 checksum of data.
func Checksum(data []byte) uint32 { return Update(0, data) }
