package quantum

import (
	"fmt"
	"strings"
)

// IndexToBitstring returns the big-endian bits of index on length bits.
func IndexToBitstring(index, length int) ([]int, error) {
	if index < 0 || length < 0 || length < 63 && index >= 1<<length {
		return nil, fmt.Errorf("%w: %d on %d bits", ErrIndexRange, index, length)
	}
	bits := make([]int, length)
	for i := range length {
		bits[length-1-i] = (index >> i) & 1
	}
	return bits, nil
}

// BitstringToIndex is the inverse of IndexToBitstring.
func BitstringToIndex(bits []int) int {
	index := 0
	for _, b := range bits {
		index = index<<1 | b&1
	}
	return index
}

// formatBits renders bits as a key like "010".
func formatBits(bits []int) string {
	var sb strings.Builder
	for _, b := range bits {
		sb.WriteByte(byte('0' + b))
	}
	return sb.String()
}

// parseBits reads a key like "010".
func parseBits(key string) ([]int, error) {
	bits := make([]int, len(key))
	for i, ch := range key {
		switch ch {
		case '0':
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("invalid bitstring %q", key)
		}
	}
	return bits, nil
}
