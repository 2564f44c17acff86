package fish

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Decode reads one complete tagged value from r. Every read pulls an exact
// byte count via io.ReadFull, so partial deliveries from a stream source
// accumulate until the value is whole.
func Decode(r io.Reader) (Value, error) {
	tag, err := readTag(r)
	if err != nil {
		return nil, err
	}
	return DecodePayload(tag, r)
}

// DecodePayload reads exactly the payload bytes implied by tag and
// reconstructs the value. Tags outside the table are ErrUnknownTag; a
// source that cannot supply the full payload is ErrTruncated.
func DecodePayload(tag Tag, r io.Reader) (Value, error) {
	switch tag {
	case TagInt:
		v, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		return Int(v), nil
	case TagReal:
		f, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		return Real(f), nil
	case TagString:
		n, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: string length %d", ErrInvalidLength, n)
		}
		buf := make([]byte, PaddedLen(int(n)))
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		// strip alignment fill back to the declared length
		return String(buf[:n]), nil
	case TagVec2:
		var v Vec2
		for i := range v {
			f, err := readFloat64(r)
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case TagVec3:
		var v Vec3
		for i := range v {
			f, err := readFloat64(r)
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case TagBool:
		v, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		return Bool(v != 0), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownTag, int32(tag))
}

func readTag(r io.Reader) (Tag, error) {
	v, err := readInt32(r)
	if err != nil {
		return 0, err
	}
	return Tag(v), nil
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

func readFloat64(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}
