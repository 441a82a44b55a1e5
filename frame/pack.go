package frame

// Unpack expands n indices of the given bit width from b into one byte each.
func Unpack(b []byte, bits, n int) []byte {
	out := make([]byte, n)
	if bits == 8 {
		copy(out, b)
		return out
	}
	perByte := 8 / bits
	mask := byte(1<<uint(bits) - 1)
	for i := range out {
		shift := uint(i%perByte) * uint(bits)
		out[i] = b[i/perByte] >> shift & mask
	}
	return out
}

// Pack is the inverse of Unpack. Bits of idx above the bit width are masked
// off.
func Pack(idx []byte, bits int) []byte {
	if bits == 8 {
		return append([]byte(nil), idx...)
	}
	perByte := 8 / bits
	mask := byte(1<<uint(bits) - 1)
	out := make([]byte, (len(idx)*bits+7)>>3)
	for i, v := range idx {
		shift := uint(i%perByte) * uint(bits)
		out[i/perByte] |= v & mask << shift
	}
	return out
}
