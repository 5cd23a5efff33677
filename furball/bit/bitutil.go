package bit

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet16 will check if the bit at the specified index is set to 1 or not.
func IsSet16(index, value uint16) bool {
	return ((value >> index) & 1) == 1
}

// Extract16 extracts bits from highBit to lowBit (inclusive).
// Example: Extract16(0xF000, 15, 12) -> 0xF
func Extract16(value uint16, highBit, lowBit uint8) uint16 {
	width := highBit - lowBit + 1
	mask := uint16((1 << width) - 1)
	return (value >> lowBit) & mask
}

// Nibble returns the 4-bit sample at index i (0..7) of a packed wave word.
// Samples are stored two per byte, high nibble first, bytes little-endian.
func Nibble(word uint32, i int) uint8 {
	b := uint8(word >> (8 * (i / 2)))
	if i&1 == 0 {
		return b >> 4
	}
	return b & 0x0F
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
