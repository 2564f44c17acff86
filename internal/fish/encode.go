package fish

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Wire values are little-endian throughout: the engines pack with their
// native x86 byte order and the whole system follows it.

// stringFill pads string payloads out to 4-byte alignment; engines read in
// fixed-size chunks keyed to the tag, never byte-by-byte.
const stringFill = ' '

// PaddedLen returns the on-wire byte count for a string payload of n
// meaningful bytes: the smallest multiple of 4 at or above n, with the
// empty string still occupying one 4-byte chunk.
func PaddedLen(n int) int {
	if n <= 0 {
		return 4
	}
	return (n + 3) &^ 3
}

// Encode renders v as one complete tagged wire value: int32 tag followed by
// the fixed payload for that tag.
func Encode(v Value) ([]byte, error) {
	switch x := v.(type) {
	case Int:
		buf := make([]byte, 8)
		putTag(buf, TagInt)
		binary.LittleEndian.PutUint32(buf[4:8], uint32(x))
		return buf, nil
	case Real:
		buf := make([]byte, 12)
		putTag(buf, TagReal)
		binary.LittleEndian.PutUint64(buf[4:12], math.Float64bits(float64(x)))
		return buf, nil
	case String:
		padded := PaddedLen(len(x))
		buf := make([]byte, 8+padded)
		putTag(buf, TagString)
		binary.LittleEndian.PutUint32(buf[4:8], uint32(len(x)))
		copy(buf[8:], x)
		for i := 8 + len(x); i < len(buf); i++ {
			buf[i] = stringFill
		}
		return buf, nil
	case Vec2:
		buf := make([]byte, 20)
		putTag(buf, TagVec2)
		binary.LittleEndian.PutUint64(buf[4:12], math.Float64bits(x[0]))
		binary.LittleEndian.PutUint64(buf[12:20], math.Float64bits(x[1]))
		return buf, nil
	case Vec3:
		buf := make([]byte, 28)
		putTag(buf, TagVec3)
		binary.LittleEndian.PutUint64(buf[4:12], math.Float64bits(x[0]))
		binary.LittleEndian.PutUint64(buf[12:20], math.Float64bits(x[1]))
		binary.LittleEndian.PutUint64(buf[20:28], math.Float64bits(x[2]))
		return buf, nil
	case Bool:
		buf := make([]byte, 8)
		putTag(buf, TagBool)
		if x {
			binary.LittleEndian.PutUint32(buf[4:8], 1)
		}
		return buf, nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func putTag(buf []byte, t Tag) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(t))
}
