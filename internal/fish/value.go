package fish

import (
	"fmt"
	"math"
)

// Fishcode is the protocol magic: the first value exchanged on a fresh
// socket connection and the first four bytes of every .fish log.
const Fishcode int32 = 178278912

// Tag identifies the payload shape of one wire value.
type Tag int32

// Tag IDs from the FISH wire contract.
const (
	TagInt    Tag = 1
	TagReal   Tag = 2
	TagString Tag = 3
	TagVec2   Tag = 5
	TagVec3   Tag = 6
	TagBool   Tag = 8
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagReal:
		return "real"
	case TagString:
		return "string"
	case TagVec2:
		return "vec2"
	case TagVec3:
		return "vec3"
	case TagBool:
		return "bool"
	}
	return fmt.Sprintf("tag(%d)", int32(t))
}

// Value is one tagged FISH value. The tag fully determines the payload
// shape, so encode and decode are exhaustive over the implementations below.
type Value interface {
	Tag() Tag
}

type (
	Int    int32
	Real   float64
	String string
	Vec2   [2]float64
	Vec3   [3]float64
	Bool   bool
)

func (Int) Tag() Tag    { return TagInt }
func (Real) Tag() Tag   { return TagReal }
func (String) Tag() Tag { return TagString }
func (Vec2) Tag() Tag   { return TagVec2 }
func (Vec3) Tag() Tag   { return TagVec3 }
func (Bool) Tag() Tag   { return TagBool }

// FromGo bridges a loose Go value into the tagged sum type. Numeric slices
// map onto Vec2/Vec3; any other slice length is ErrInvalidShape, and types
// without a tag mapping are ErrUnsupportedType.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int32:
		return Int(x), nil
	case int:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return nil, fmt.Errorf("%w: int %d overflows int32", ErrUnsupportedType, x)
		}
		return Int(int32(x)), nil
	case float64:
		return Real(x), nil
	case float32:
		return Real(float64(x)), nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case [2]float64:
		return Vec2(x), nil
	case [3]float64:
		return Vec3(x), nil
	case []float64:
		switch len(x) {
		case 2:
			return Vec2{x[0], x[1]}, nil
		case 3:
			return Vec3{x[0], x[1], x[2]}, nil
		default:
			return nil, fmt.Errorf("%w: got %d", ErrInvalidShape, len(x))
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}
